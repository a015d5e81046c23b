package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/alc6/pgdbdiff/compare"
)

var (
	cliOptions Options
	options    Options
	configFile string
	mcpMode    bool
	verbose    bool

	logLevel = new(slog.LevelVar)
)

var rootCmd = &cobra.Command{
	Use:   "pgdbdiff",
	Short: "Compare the schemas of two PostgreSQL databases",
	Long: `pgdbdiff compares the tables, views and materialized views of two PostgreSQL
databases. Each object is described with psql's \d command, the columns, indexes and
constraints of every description are sorted so that catalog ordering does not matter,
and the results are compared line by line.

Objects that exist in only one database and objects whose descriptions differ are
reported. With --diff-folder a full-context unified diff is written for every
mismatching object. With --rowcount the row counts of matching objects are compared too.

Connection settings can also be read from a YAML file given with --config; flags set
on the command line take precedence over the file.

Modes:
  compare mode (default): compare the two databases and print a report
  mcp mode (--mcp): Run as Model Context Protocol server`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			logLevel.Set(slog.LevelDebug)
		}
		if mcpMode {
			return nil
		}
		resolved, err := resolveOptions(cmd, configFile)
		if err != nil {
			return err
		}
		options = resolved
		return nil
	},
	Run: runPgDbDiff,
}

func main() {
	if err := run(); err != nil {
		slog.Error("command execution failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))

	registerFlags()
	return rootCmd.Execute()
}

func registerFlags() {
	flags := rootCmd.Flags()
	if flags.Lookup("db1") == nil {
		bindFlags(flags, &cliOptions)
	}
	if flags.Lookup("config") == nil {
		flags.StringVar(&configFile, "config", "", "YAML file with connection settings")
	}
	if flags.Lookup("mcp") == nil {
		flags.BoolVar(&mcpMode, "mcp", false, "Run as Model Context Protocol server")
	}
	if flags.Lookup("verbose") == nil {
		flags.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	}
}

func runPgDbDiff(cmd *cobra.Command, args []string) {
	if mcpMode {
		slog.Info("starting mcp server")
		if err := StartMCPServer(); err != nil {
			slog.Error("failed to start mcp server", "error", err)
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := processComparison(ctx, options, NewPostgresConnector(), cmd.OutOrStdout()); err != nil {
		slog.Error("failed to compare databases", "error", err)
		stop()
		os.Exit(1)
	}
}

func processComparison(ctx context.Context, opts Options, connector DatabaseConnector, out io.Writer) error {
	slog.Info("comparing databases", "first", opts.First.String(), "second", opts.Second.String())

	first, err := connector.Connect(ctx, opts.First)
	if err != nil {
		return fmt.Errorf("failed to connect to first database: %w", err)
	}
	defer closeIntrospector(first)

	second, err := connector.Connect(ctx, opts.Second)
	if err != nil {
		return fmt.Errorf("failed to connect to second database: %w", err)
	}
	defer closeIntrospector(second)

	var writeErrs *multierror.Error
	for _, category := range opts.Categories() {
		report, err := compareCategory(ctx, category, opts, first, second)
		if err != nil {
			return err
		}
		fmt.Fprint(out, report.text)
		if report.writeErr != nil {
			writeErrs = multierror.Append(writeErrs, report.writeErr)
		}
	}

	if err := writeErrs.ErrorOrNil(); err != nil {
		return fmt.Errorf("failed to write diffs: %w", err)
	}
	slog.Info("comparison completed")
	return nil
}

type categoryReport struct {
	text     string
	writeErr error
}

// compareCategory produces the full report of a category; nothing is reported
// when introspection fails part way through.
func compareCategory(ctx context.Context, category compare.Category, opts Options, first, second Introspector) (categoryReport, error) {
	slog.Info("comparing category", "category", category)

	var namesFirst, namesSecond []string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		namesFirst, err = category.List(gctx, first)
		if err != nil {
			return fmt.Errorf("failed to list %s in %s: %w", category, first.Database(), err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		namesSecond, err = category.List(gctx, second)
		if err != nil {
			return fmt.Errorf("failed to list %s in %s: %w", category, second.Database(), err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return categoryReport{}, err
	}

	entities := compare.CompareEntitySets(namesFirst, namesSecond, category)
	definitions, err := compare.CompareDefinitions(ctx, category,
		compare.Side{Database: first.Database(), Introspector: first},
		compare.Side{Database: second.Database(), Introspector: second},
		namesFirst, namesSecond,
		compare.DefinitionOptions{OutputDir: opts.DiffFolder, Rowcount: opts.Rowcount})
	if err != nil {
		return categoryReport{}, err
	}

	return categoryReport{
		text:     compare.FormatEntityReport(entities) + compare.FormatDefinitionReport(definitions),
		writeErr: definitions.WriteErr(),
	}, nil
}

func closeIntrospector(in Introspector) {
	if err := in.Close(); err != nil {
		slog.Error("failed to close connection", "database", in.Database(), "error", err)
	}
}
