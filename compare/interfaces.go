package compare

import "context"

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_interfaces.go -package=mocks

// Introspector supplies catalog information for one database
type Introspector interface {
	// ListTables returns the tables of the compared namespace
	ListTables(ctx context.Context) ([]string, error)
	// ListViews returns the views of the compared namespace
	ListViews(ctx context.Context) ([]string, error)
	// ListMaterializedViews returns the materialized views of the compared namespace
	ListMaterializedViews(ctx context.Context) ([]string, error)
	// Describe returns the raw multi-line catalog description of an object
	Describe(ctx context.Context, name string) (string, error)
	// RowCount returns the number of rows in an object
	RowCount(ctx context.Context, name string) (int64, error)
}
