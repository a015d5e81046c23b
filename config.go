package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/alc6/pgdbdiff/compare"
	"github.com/alc6/pgdbdiff/providers"
)

// Options holds everything a comparison run needs
type Options struct {
	First      providers.ConnOptions `yaml:"first"`
	Second     providers.ConnOptions `yaml:"second"`
	DiffFolder string                `yaml:"diff_folder"`
	Rowcount   bool                  `yaml:"rowcount"`
	TablesOnly bool                  `yaml:"tables_only"`
}

// Categories returns the object categories to compare, in order
func (o Options) Categories() []compare.Category {
	if o.TablesOnly {
		return []compare.Category{compare.CategoryTables}
	}
	return compare.AllCategories
}

// Validate checks both connections and the diff folder
func (o Options) Validate() error {
	if err := o.First.Validate(); err != nil {
		return fmt.Errorf("first database: %w", err)
	}
	if err := o.Second.Validate(); err != nil {
		return fmt.Errorf("second database: %w", err)
	}
	if o.DiffFolder != "" {
		if err := checkDiffDirectory(o.DiffFolder); err != nil {
			return fmt.Errorf("diff folder %s: %w", o.DiffFolder, err)
		}
	}
	return nil
}

// checkDiffDirectory accepts a path that does not exist yet or an empty directory
func checkDiffDirectory(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("it is not a directory")
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return err
	}
	if len(entries) > 0 {
		return fmt.Errorf("directory must be empty")
	}
	return nil
}

// bindFlags registers the comparison flags on fs, writing into opts
func bindFlags(fs *pflag.FlagSet, opts *Options) {
	fs.StringVar(&opts.First.Database, "db1", "", "First DB name")
	fs.StringVar(&opts.First.Host, "host1", "", "First host name")
	fs.IntVar(&opts.First.Port, "port1", providers.DefaultPort, "First host port used")
	fs.StringVar(&opts.First.User, "user1", "", "First host username")
	fs.StringVar(&opts.First.Password, "pass1", "", "First host password")
	fs.StringVar(&opts.First.SSLMode, "sslmode1", providers.DefaultSSLMode, "First host sslmode")
	fs.StringVar(&opts.Second.Database, "db2", "", "Second DB name")
	fs.StringVar(&opts.Second.Host, "host2", "", "Second host name")
	fs.IntVar(&opts.Second.Port, "port2", providers.DefaultPort, "Second host port used")
	fs.StringVar(&opts.Second.User, "user2", "", "Second host username")
	fs.StringVar(&opts.Second.Password, "pass2", "", "Second host password")
	fs.StringVar(&opts.Second.SSLMode, "sslmode2", providers.DefaultSSLMode, "Second host sslmode")
	fs.StringVar(&opts.DiffFolder, "diff-folder", "", "Directory to output diffs")
	fs.BoolVar(&opts.Rowcount, "rowcount", false, "Compare tables row count")
	fs.BoolVar(&opts.TablesOnly, "tables-only", false, "Only compare tables")
}

// loadConfigFile reads a YAML config file on top of opts
func loadConfigFile(path string, opts *Options) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, opts); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

// resolveOptions builds the options of a run: flag defaults, then the config file
// when one is given, then every flag set explicitly on the command line.
func resolveOptions(cmd *cobra.Command, configFile string) (Options, error) {
	var opts Options
	fs := pflag.NewFlagSet("resolve", pflag.ContinueOnError)
	bindFlags(fs, &opts)

	if configFile != "" {
		if err := loadConfigFile(configFile, &opts); err != nil {
			return Options{}, err
		}
	}

	var setErr error
	cmd.Flags().Visit(func(f *pflag.Flag) {
		if fs.Lookup(f.Name) == nil || setErr != nil {
			return
		}
		setErr = fs.Set(f.Name, f.Value.String())
	})
	if setErr != nil {
		return Options{}, setErr
	}

	opts.First = opts.First.WithDefaults()
	opts.Second = opts.Second.WithDefaults()
	return opts, opts.Validate()
}
