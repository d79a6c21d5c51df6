package mocks

import (
	"context"
	"sync"

	"katgen/internal/core/domain"
)

// MockSpreadsheetReader is a mock implementation of the
// SpreadsheetReader port for testing.
type MockSpreadsheetReader struct {
	mu         sync.Mutex
	table      *domain.Table
	calls      int
	shouldFail bool
	failErr    error
}

// NewMockSpreadsheetReader creates a new mock reader that returns the
// given table.
func NewMockSpreadsheetReader(table *domain.Table) *MockSpreadsheetReader {
	return &MockSpreadsheetReader{table: table}
}

// SetShouldFail makes subsequent Read calls fail with err.
func (m *MockSpreadsheetReader) SetShouldFail(fail bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shouldFail = fail
	m.failErr = err
}

// Read returns the configured table.
func (m *MockSpreadsheetReader) Read(ctx context.Context, data []byte) (*domain.Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.shouldFail {
		return nil, m.failErr
	}
	return m.table, nil
}

// Calls returns the number of Read invocations.
func (m *MockSpreadsheetReader) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MockArchiveIndexer is a mock implementation of the ArchiveIndexer
// port for testing.
type MockArchiveIndexer struct {
	mu         sync.Mutex
	index      *domain.AssetIndex
	calls      int
	shouldFail bool
	failErr    error
}

// NewMockArchiveIndexer creates a new mock indexer that returns the
// given index.
func NewMockArchiveIndexer(index *domain.AssetIndex) *MockArchiveIndexer {
	return &MockArchiveIndexer{index: index}
}

// SetShouldFail makes subsequent Index calls fail with err.
func (m *MockArchiveIndexer) SetShouldFail(fail bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shouldFail = fail
	m.failErr = err
}

// Index returns the configured asset index.
func (m *MockArchiveIndexer) Index(ctx context.Context, data []byte) (*domain.AssetIndex, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.shouldFail {
		return nil, m.failErr
	}
	return m.index, nil
}

// Calls returns the number of Index invocations.
func (m *MockArchiveIndexer) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MockCompositor is a mock implementation of the Compositor port. It
// records the records it was asked to render and fires the progress
// callback once per record, like the real compositor.
type MockCompositor struct {
	mu         sync.Mutex
	output     []byte
	composed   [][]domain.Record
	shouldFail bool
	failErr    error
}

// NewMockCompositor creates a new mock compositor returning output.
func NewMockCompositor(output []byte) *MockCompositor {
	return &MockCompositor{output: output}
}

// SetShouldFail makes subsequent Compose calls fail with err.
func (m *MockCompositor) SetShouldFail(fail bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shouldFail = fail
	m.failErr = err
}

// Compose records the call and returns the configured bytes.
func (m *MockCompositor) Compose(ctx context.Context, template []byte, records []domain.Record, assets *domain.AssetIndex, onSlide func(done, total int)) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.composed = append(m.composed, records)
	if m.shouldFail {
		return nil, m.failErr
	}
	for i := range records {
		if onSlide != nil {
			onSlide(i+1, len(records))
		}
	}
	return m.output, nil
}

// ComposedBatches returns the record batches passed to Compose.
func (m *MockCompositor) ComposedBatches() [][]domain.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.composed
}
