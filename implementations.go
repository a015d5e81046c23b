package main

import (
	"context"
	"fmt"

	"github.com/alc6/pgdbdiff/providers"
)

// PostgresConnector introspects databases with psql and lib/pq
type PostgresConnector struct{}

func NewPostgresConnector() DatabaseConnector {
	return &PostgresConnector{}
}

func (c *PostgresConnector) Connect(ctx context.Context, opts providers.ConnOptions) (Introspector, error) {
	if !providers.PsqlAvailable() {
		return nil, fmt.Errorf("psql is not available in PATH")
	}
	introspector, err := providers.NewPostgresIntrospector(ctx, opts)
	if err != nil {
		return nil, err
	}
	return introspector, nil
}
