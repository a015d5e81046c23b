package main

import (
	"context"
	"fmt"

	"github.com/alc6/pgdbdiff/providers"
)

// MockIntrospector is an in-memory Introspector for testing
type MockIntrospector struct {
	Name         string
	Tables       []string
	Views        []string
	MatViews     []string
	Descriptions map[string]string
	RowCounts    map[string]int64

	ListTablesFunc func(ctx context.Context) ([]string, error)
	DescribeFunc   func(ctx context.Context, name string) (string, error)
	CloseFunc      func() error

	// Track calls for verification
	DescribeCalls []string
	RowCountCalls []string
	CloseCalled   bool
}

func (m *MockIntrospector) ListTables(ctx context.Context) ([]string, error) {
	if m.ListTablesFunc != nil {
		return m.ListTablesFunc(ctx)
	}
	return m.Tables, nil
}

func (m *MockIntrospector) ListViews(ctx context.Context) ([]string, error) {
	return m.Views, nil
}

func (m *MockIntrospector) ListMaterializedViews(ctx context.Context) ([]string, error) {
	return m.MatViews, nil
}

func (m *MockIntrospector) Describe(ctx context.Context, name string) (string, error) {
	m.DescribeCalls = append(m.DescribeCalls, name)
	if m.DescribeFunc != nil {
		return m.DescribeFunc(ctx, name)
	}
	description, ok := m.Descriptions[name]
	if !ok {
		return "", fmt.Errorf("did not find any relation named %q", name)
	}
	return description, nil
}

func (m *MockIntrospector) RowCount(ctx context.Context, name string) (int64, error) {
	m.RowCountCalls = append(m.RowCountCalls, name)
	return m.RowCounts[name], nil
}

func (m *MockIntrospector) Database() string {
	return m.Name
}

func (m *MockIntrospector) Close() error {
	m.CloseCalled = true
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// MockDatabaseConnector hands out introspectors keyed by database name
type MockDatabaseConnector struct {
	Introspectors map[string]*MockIntrospector
	ConnectFunc   func(ctx context.Context, opts providers.ConnOptions) (Introspector, error)

	ConnectCalls []providers.ConnOptions
}

func (m *MockDatabaseConnector) Connect(ctx context.Context, opts providers.ConnOptions) (Introspector, error) {
	m.ConnectCalls = append(m.ConnectCalls, opts)
	if m.ConnectFunc != nil {
		return m.ConnectFunc(ctx, opts)
	}
	in, ok := m.Introspectors[opts.Database]
	if !ok {
		return nil, SimulateError("connection")
	}
	return in, nil
}

// SimulateError simulates various database errors for testing
func SimulateError(errType string) error {
	switch errType {
	case "connection":
		return fmt.Errorf("connection refused")
	case "permission":
		return fmt.Errorf("permission denied")
	default:
		return fmt.Errorf("simulated error: %s", errType)
	}
}
