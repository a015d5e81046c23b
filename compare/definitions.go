package compare

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/alc6/pgdbdiff/describe"
)

// DefinitionOptions controls how shared objects are compared
type DefinitionOptions struct {
	// OutputDir receives one .diff file per mismatching object when set
	OutputDir string
	// Rowcount also compares row counts of objects whose definitions match
	Rowcount bool
}

// CompareDefinitions compares every object present in both databases. Any introspection
// error aborts the whole comparison and no report is returned. Failures to write a diff
// file are kept on the affected record and do not stop the remaining objects.
func CompareDefinitions(ctx context.Context, category Category, first, second Side,
	namesFirst, namesSecond []string, opts DefinitionOptions) (*DefinitionReport, error) {
	writer := DiffWriter{Dir: opts.OutputDir}
	report := &DefinitionReport{Category: category}

	for _, name := range Shared(namesFirst, namesSecond) {
		result, err := CompareObject(ctx, category, first, second, name, opts.Rowcount)
		if err != nil {
			return nil, err
		}
		report.Compared++

		switch result.Outcome {
		case OutcomeMismatch:
			record := *result.Diff
			record.Path, record.WriteErr = writer.Write(name, record.Diff)
			if record.WriteErr != nil {
				slog.Error("failed to write diff", "category", category, "object", name, "error", record.WriteErr)
			}
			report.Mismatches = append(report.Mismatches, record)
		case OutcomeRowcountMismatch:
			report.RowcountMismatches = append(report.RowcountMismatches, *result.Rowcount)
		}
	}

	slog.Info("compared definitions",
		"category", category,
		"compared", report.Compared,
		"mismatches", len(report.Mismatches),
		"rowcountMismatches", len(report.RowcountMismatches))
	return report, nil
}

// CompareObject normalizes and compares the descriptions of one object. Row counts
// are fetched only when requested and the definitions already match.
func CompareObject(ctx context.Context, category Category, first, second Side,
	name string, rowcount bool) (ObjectResult, error) {
	slog.Debug("comparing object", "category", category, "object", name)

	var rawFirst, rawSecond string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rawFirst, err = first.Introspector.Describe(gctx, name)
		if err != nil {
			return fmt.Errorf("failed to describe %s in %s: %w", name, first.Database, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		rawSecond, err = second.Introspector.Describe(gctx, name)
		if err != nil {
			return fmt.Errorf("failed to describe %s in %s: %w", name, second.Database, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return ObjectResult{}, err
	}

	defFirst := describe.NormalizeText(rawFirst)
	defSecond := describe.NormalizeText(rawSecond)

	if !defFirst.Equal(defSecond) {
		diff, err := RenderDiff(defFirst, defSecond,
			DiffLabel(category, first.Database, name),
			DiffLabel(category, second.Database, name))
		if err != nil {
			return ObjectResult{}, err
		}
		return ObjectResult{
			Name:    name,
			Outcome: OutcomeMismatch,
			Diff: &DiffRecord{
				Name:     name,
				Category: category,
				First:    defFirst,
				Second:   defSecond,
				Diff:     diff,
			},
		}, nil
	}

	if !rowcount {
		return ObjectResult{Name: name, Outcome: OutcomeMatch}, nil
	}

	countFirst, err := first.Introspector.RowCount(ctx, name)
	if err != nil {
		return ObjectResult{}, fmt.Errorf("failed to count rows of %s in %s: %w", name, first.Database, err)
	}
	countSecond, err := second.Introspector.RowCount(ctx, name)
	if err != nil {
		return ObjectResult{}, fmt.Errorf("failed to count rows of %s in %s: %w", name, second.Database, err)
	}
	if countFirst != countSecond {
		return ObjectResult{
			Name:     name,
			Outcome:  OutcomeRowcountMismatch,
			Rowcount: &RowcountMismatch{Name: name, First: countFirst, Second: countSecond},
		}, nil
	}
	return ObjectResult{Name: name, Outcome: OutcomeMatch}, nil
}
