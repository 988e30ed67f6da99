package testutils

import (
	"context"

	"github.com/papercomputeco/persona/pkg/vector"
)

// MockConnector is a test vector connector handing out one driver per
// collection name.
type MockConnector struct {
	// PingErr makes Ping fail, simulating an unreachable backend.
	PingErr error

	// CollectionErr makes Collection fail for every name.
	CollectionErr error

	Drivers map[string]*MockVectorDriver
}

func NewMockConnector() *MockConnector {
	return &MockConnector{
		Drivers: make(map[string]*MockVectorDriver),
	}
}

func (m *MockConnector) Ping(_ context.Context) error {
	return m.PingErr
}

func (m *MockConnector) Collection(_ context.Context, name string) (vector.Driver, error) {
	if m.CollectionErr != nil {
		return nil, m.CollectionErr
	}

	if d, ok := m.Drivers[name]; ok {
		return d, nil
	}
	d := NewMockVectorDriver()
	m.Drivers[name] = d
	return d, nil
}

func (m *MockConnector) Close() error {
	return nil
}

// MockVectorDriver is a test vector driver backed by an in-memory document
// slice. Query returns canned results; Add and DeleteWhere mutate Documents.
type MockVectorDriver struct {
	Documents []vector.Document
	Results   []vector.QueryResult

	// AddErr makes Add fail.
	AddErr error

	// QueryErr makes Query fail.
	QueryErr error

	// DeleteCalls records each filter passed to DeleteWhere.
	DeleteCalls []vector.Filter
}

func NewMockVectorDriver() *MockVectorDriver {
	return &MockVectorDriver{}
}

func (m *MockVectorDriver) Add(_ context.Context, docs []vector.Document) error {
	if m.AddErr != nil {
		return m.AddErr
	}
	m.Documents = append(m.Documents, docs...)
	return nil
}

func (m *MockVectorDriver) Query(_ context.Context, _ []float32, limit int, _ vector.Filter) ([]vector.QueryResult, error) {
	if m.QueryErr != nil {
		return nil, m.QueryErr
	}
	if len(m.Results) < limit || limit <= 0 {
		return m.Results, nil
	}
	return m.Results[:limit], nil
}

func (m *MockVectorDriver) DeleteWhere(_ context.Context, filter vector.Filter) error {
	m.DeleteCalls = append(m.DeleteCalls, filter)

	kept := m.Documents[:0]
	for _, doc := range m.Documents {
		if !matches(doc, filter) {
			kept = append(kept, doc)
		}
	}
	m.Documents = kept
	return nil
}

func (m *MockVectorDriver) Count(_ context.Context) (int, error) {
	return len(m.Documents), nil
}

func (m *MockVectorDriver) Close() error {
	return nil
}

func matches(doc vector.Document, filter vector.Filter) bool {
	for key, want := range filter {
		if doc.Metadata[key] != want {
			return false
		}
	}
	return len(filter) > 0
}
