package providers

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lib/pq"
)

// PostgresIntrospector reads catalog descriptions through psql and row counts
// through a lib/pq connection.
type PostgresIntrospector struct {
	opts ConnOptions
	psql *PsqlClient
	db   *sql.DB
}

// NewPostgresIntrospector connects to the database and checks that it answers queries
func NewPostgresIntrospector(ctx context.Context, opts ConnOptions) (*PostgresIntrospector, error) {
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	db, err := sql.Open("postgres", opts.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	if err := checkConnection(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("can not access %s: %w", opts, err)
	}

	slog.Info("connected to database", "database", opts.String())
	return &PostgresIntrospector{
		opts: opts,
		psql: NewPsqlClient(opts),
		db:   db,
	}, nil
}

func checkConnection(ctx context.Context, db *sql.DB) error {
	var answer int
	if err := db.QueryRowContext(ctx, "SELECT 42").Scan(&answer); err != nil {
		return fmt.Errorf("failed to query database: %w", err)
	}
	if answer != 42 {
		return fmt.Errorf("unexpected answer %d to SELECT 42", answer)
	}
	return nil
}

// Database returns the name of the database
func (p *PostgresIntrospector) Database() string {
	return p.opts.Database
}

// Close releases the database connection
func (p *PostgresIntrospector) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}

// ListTables returns the tables of the public schema
func (p *PostgresIntrospector) ListTables(ctx context.Context) ([]string, error) {
	return p.list(ctx, `\dt`)
}

// ListViews returns the views of the public schema
func (p *PostgresIntrospector) ListViews(ctx context.Context) ([]string, error) {
	return p.list(ctx, `\dv`)
}

// ListMaterializedViews returns the materialized views of the public schema
func (p *PostgresIntrospector) ListMaterializedViews(ctx context.Context) ([]string, error) {
	return p.list(ctx, `\dm`)
}

func (p *PostgresIntrospector) list(ctx context.Context, command string) ([]string, error) {
	out, err := p.psql.Run(ctx, command, "--no-align", "--tuples-only", "--field-separator=|")
	if err != nil {
		return nil, fmt.Errorf("failed to list relations with %s: %w", command, err)
	}
	names := ParseRelationList(out)
	slog.Debug("listed relations", "database", p.opts.Database, "command", command, "count", len(names))
	return names, nil
}

// ParseRelationList extracts the names of public relations from unaligned psql
// listing output (schema|name|type|owner).
func ParseRelationList(out string) []string {
	var names []string
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Split(strings.TrimSpace(line), "|")
		if len(fields) < 3 || fields[0] != Namespace {
			continue
		}
		names = append(names, fields[1])
	}
	return names
}

// Describe returns the psql \d output for a relation of the public schema
func (p *PostgresIntrospector) Describe(ctx context.Context, name string) (string, error) {
	out, err := p.psql.Run(ctx, DescribeCommand(name))
	if err != nil {
		return "", fmt.Errorf("failed to describe %s: %w", name, err)
	}
	return out, nil
}

// DescribeCommand builds the psql meta-command describing a public relation
func DescribeCommand(name string) string {
	return `\d ` + qualifiedName(name)
}

// RowCount counts the rows of a public relation
func (p *PostgresIntrospector) RowCount(ctx context.Context, name string) (int64, error) {
	var count int64
	query := "SELECT count(1) FROM " + qualifiedName(name)
	if err := p.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count rows of %s: %w", name, err)
	}
	return count, nil
}

func qualifiedName(name string) string {
	return pq.QuoteIdentifier(Namespace) + "." + pq.QuoteIdentifier(name)
}
