// pkg/queryresult/memory.go
package queryresult

import (
	"fmt"
	"io"
	"sync"
	"time"

	"shardmerge/pkg/types"
)

// Memory is a QueryResult over rows already held in memory.
// Memory is safe for concurrent use.
type Memory struct {
	mu      sync.Mutex
	columns []string
	rows    [][]any
	index   int // current row index (-1 means before first row)
	wasNull bool
	closed  bool
}

// NewMemory creates a result from column labels and row data.
// Each row must hold one raw value per column; nil is NULL.
func NewMemory(columns []string, rows [][]any) *Memory {
	return &Memory{
		columns: columns,
		rows:    rows,
		index:   -1,
	}
}

// Next advances the result to the next row.
// It returns false when there are no more rows or the result has been closed.
func (m *Memory) Next() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed || m.index >= len(m.rows) {
		return false, nil
	}
	m.index++
	return m.index < len(m.rows), nil
}

// raw returns the raw value at the 1-based column index of the current row
func (m *Memory) raw(columnIndex int) (any, error) {
	if m.closed {
		return nil, ErrClosed
	}
	if m.index < 0 || m.index >= len(m.rows) {
		return nil, ErrNoCurrentRow
	}
	row := m.rows[m.index]
	if columnIndex < 1 || columnIndex > len(row) {
		return nil, fmt.Errorf("column %d of %d: %w", columnIndex, len(row), ErrColumnIndexOutOfRange)
	}
	v := row[columnIndex-1]
	m.wasNull = v == nil
	return v, nil
}

// Value reads the column of the current row as typ.
func (m *Memory) Value(columnIndex int, typ types.ValueType) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, err := m.raw(columnIndex)
	if err != nil {
		return nil, err
	}
	return types.Convert(v, typ)
}

// CalendarValue reads a temporal column with its wall clock in loc.
func (m *Memory) CalendarValue(columnIndex int, typ types.ValueType, loc *time.Location) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, err := m.raw(columnIndex)
	if err != nil {
		return nil, err
	}
	return types.ConvertCalendar(v, typ, loc)
}

// InputStream opens the column of the current row as a stream of kind.
func (m *Memory) InputStream(columnIndex int, kind types.StreamKind) (io.Reader, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, err := m.raw(columnIndex)
	if err != nil {
		return nil, err
	}
	return types.ConvertStream(v, kind)
}

// WasNull reports whether the last value read was NULL.
func (m *Memory) WasNull() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.wasNull
}

// ColumnCount returns the number of columns.
func (m *Memory) ColumnCount() int {
	return len(m.columns)
}

// ColumnLabel returns the label of the 1-based column index.
func (m *Memory) ColumnLabel(columnIndex int) (string, error) {
	if columnIndex < 1 || columnIndex > len(m.columns) {
		return "", fmt.Errorf("column %d of %d: %w", columnIndex, len(m.columns), ErrColumnIndexOutOfRange)
	}
	return m.columns[columnIndex-1], nil
}

// Close releases the rows. It is safe to call Close multiple times.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.rows = nil
	return nil
}

// Closed reports whether Close has been called.
func (m *Memory) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
