package providers

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/alc6/pgdbdiff/describe"
)

func setupPostgres(t *testing.T, ctx context.Context) ConnOptions {
	t.Helper()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Minute)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	return ConnOptions{
		Host:     host,
		Port:     port.Int(),
		User:     "testuser",
		Password: "testpass",
		Database: "testdb",
	}
}

func TestPostgresIntrospectorIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	if !PsqlAvailable() {
		t.Skip("psql not available, skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	opts := setupPostgres(t, ctx)

	db, err := sql.Open("postgres", opts.ConnectionString())
	require.NoError(t, err)
	defer db.Close()

	_, err = db.ExecContext(ctx, `
		create table customers (id serial primary key, email text not null unique);
		create table orders (
			id serial primary key,
			customer_id integer not null references customers(id),
			total numeric check (total >= 0)
		);
		create index orders_customer_idx on orders(customer_id);
		create view order_totals as select customer_id, sum(total) as total from orders group by customer_id;
		create materialized view customer_emails as select email from customers;
		insert into customers (email) values ('a@example.com'), ('b@example.com');
	`)
	require.NoError(t, err)

	introspector, err := NewPostgresIntrospector(ctx, opts)
	require.NoError(t, err)
	defer introspector.Close()

	t.Run("list_tables", func(t *testing.T) {
		tables, err := introspector.ListTables(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"customers", "orders"}, tables)
	})

	t.Run("list_views", func(t *testing.T) {
		views, err := introspector.ListViews(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"order_totals"}, views)
	})

	t.Run("list_materialized_views", func(t *testing.T) {
		views, err := introspector.ListMaterializedViews(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"customer_emails"}, views)
	})

	t.Run("describe_has_sections", func(t *testing.T) {
		raw, err := introspector.Describe(ctx, "orders")
		require.NoError(t, err)

		layout := describe.Scan(describe.Lines(raw))
		for _, section := range []describe.Section{
			describe.SectionColumns,
			describe.SectionIndexes,
			describe.SectionCheckConstraints,
			describe.SectionForeignKeyConstraints,
		} {
			_, ok := layout.Range(section)
			assert.True(t, ok, "expected %s section in:\n%s", section, raw)
		}
	})

	t.Run("describe_missing_relation", func(t *testing.T) {
		raw, err := introspector.Describe(ctx, "does_not_exist")
		if err == nil {
			assert.Empty(t, describe.Lines(raw))
		}
	})

	t.Run("row_count", func(t *testing.T) {
		count, err := introspector.RowCount(ctx, "customers")
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("unreachable_database", func(t *testing.T) {
		bad := opts
		bad.Database = "missing_db"
		_, err := NewPostgresIntrospector(ctx, bad)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "can not access")
	})
}
