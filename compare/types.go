// Package compare decides whether the objects of two databases match and renders
// the differences it finds.
package compare

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/alc6/pgdbdiff/describe"
)

// Category is the kind of object being compared, used as the report label
type Category string

const (
	CategoryTables            Category = "TABLES"
	CategoryViews             Category = "VIEWS"
	CategoryMaterializedViews Category = "MATERIALIZED VIEWS"
)

// AllCategories lists categories in the order they are compared
var AllCategories = []Category{CategoryTables, CategoryViews, CategoryMaterializedViews}

// List returns the object names of this category known to the introspector
func (c Category) List(ctx context.Context, in Introspector) ([]string, error) {
	switch c {
	case CategoryTables:
		return in.ListTables(ctx)
	case CategoryViews:
		return in.ListViews(ctx)
	case CategoryMaterializedViews:
		return in.ListMaterializedViews(ctx)
	default:
		return nil, fmt.Errorf("unknown category: %s", c)
	}
}

// Side is one of the two databases under comparison
type Side struct {
	// Database names the database in diff labels
	Database     string
	Introspector Introspector
}

// Outcome is the result of comparing one object
type Outcome int

const (
	OutcomeMatch Outcome = iota
	OutcomeMismatch
	OutcomeRowcountMismatch
	OutcomeOnlyInFirst
	OutcomeOnlyInSecond
)

func (o Outcome) String() string {
	switch o {
	case OutcomeMatch:
		return "match"
	case OutcomeMismatch:
		return "mismatch"
	case OutcomeRowcountMismatch:
		return "rowcount mismatch"
	case OutcomeOnlyInFirst:
		return "only in first"
	case OutcomeOnlyInSecond:
		return "only in second"
	default:
		return "unknown"
	}
}

// EntityReport lists names present in only one of the databases
type EntityReport struct {
	Category     Category
	OnlyInFirst  []string
	OnlyInSecond []string
}

// Outcomes returns the per-name outcome of every reported name
func (r EntityReport) Outcomes() map[string]Outcome {
	out := make(map[string]Outcome, len(r.OnlyInFirst)+len(r.OnlyInSecond))
	for _, name := range r.OnlyInFirst {
		out[name] = OutcomeOnlyInFirst
	}
	for _, name := range r.OnlyInSecond {
		out[name] = OutcomeOnlyInSecond
	}
	return out
}

// DiffRecord describes an object whose definitions differ
type DiffRecord struct {
	Name     string
	Category Category
	First    describe.Definition
	Second   describe.Definition
	Diff     string
	// Path is where the diff was written, empty when not persisted
	Path     string
	WriteErr error
}

// RowcountMismatch is an object with equal definitions but different row counts
type RowcountMismatch struct {
	Name   string
	First  int64
	Second int64
}

func (m RowcountMismatch) String() string {
	return fmt.Sprintf("%s (%d != %d)", m.Name, m.First, m.Second)
}

// ObjectResult is the comparison result for a single shared object
type ObjectResult struct {
	Name     string
	Outcome  Outcome
	Diff     *DiffRecord
	Rowcount *RowcountMismatch
}

// DefinitionReport aggregates the comparison of all shared objects of a category
type DefinitionReport struct {
	Category           Category
	Compared           int
	Mismatches         []DiffRecord
	RowcountMismatches []RowcountMismatch
}

// MismatchNames returns the names of objects whose definitions differ
func (r *DefinitionReport) MismatchNames() []string {
	names := make([]string, 0, len(r.Mismatches))
	for _, m := range r.Mismatches {
		names = append(names, m.Name)
	}
	return names
}

// WriteErr combines the diff write failures of the report, nil when all writes succeeded
func (r *DefinitionReport) WriteErr() error {
	var result *multierror.Error
	for _, m := range r.Mismatches {
		if m.WriteErr != nil {
			result = multierror.Append(result, m.WriteErr)
		}
	}
	return result.ErrorOrNil()
}
