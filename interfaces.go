package main

import (
	"context"

	"github.com/alc6/pgdbdiff/compare"
	"github.com/alc6/pgdbdiff/providers"
)

// Introspector is a compare.Introspector bound to an open database connection
type Introspector interface {
	compare.Introspector
	// Database returns the database name used in diff labels
	Database() string
	// Close releases the connection
	Close() error
}

// DatabaseConnector opens introspectors for the databases under comparison
type DatabaseConnector interface {
	// Connect checks that the database is reachable and returns an introspector for it
	Connect(ctx context.Context, opts providers.ConnOptions) (Introspector, error)
}
