// pkg/merger/memory.go
package merger

import (
	"fmt"

	"shardmerge/pkg/queryresult"
)

// Memory is a merged result over rows already buffered in memory. Next pops
// the rows in order. The release function, if any, runs once when the rows
// are exhausted or the result is closed.
type Memory struct {
	Row
	Closer
	columns []string
	rows    [][]any
	index   int
	release func()
}

// NewMemory creates a buffered result. The owned shard results are closed by
// Close; they are usually already drained.
func NewMemory(columns []string, rows [][]any, owned []queryresult.QueryResult, release func()) *Memory {
	return &Memory{
		Closer:  NewCloser(owned),
		columns: columns,
		rows:    rows,
		index:   -1,
		release: release,
	}
}

// Next advances to the next buffered row.
func (m *Memory) Next() (bool, error) {
	if m.index >= len(m.rows) {
		return false, nil
	}
	m.index++
	if m.index >= len(m.rows) {
		m.Set(nil)
		m.rows = nil
		m.releaseOnce()
		return false, nil
	}
	m.Set(m.rows[m.index])
	return true, nil
}

// Len returns the number of buffered rows.
func (m *Memory) Len() int {
	return len(m.rows)
}

func (m *Memory) ColumnCount() int {
	return len(m.columns)
}

func (m *Memory) ColumnLabel(columnIndex int) (string, error) {
	if columnIndex < 1 || columnIndex > len(m.columns) {
		return "", fmt.Errorf("column %d of %d: %w", columnIndex, len(m.columns), queryresult.ErrColumnIndexOutOfRange)
	}
	return m.columns[columnIndex-1], nil
}

// Close releases the buffered rows and closes the owned shard results.
func (m *Memory) Close() error {
	m.Set(nil)
	m.rows = nil
	m.index = 0
	m.releaseOnce()
	return m.Closer.Close()
}

func (m *Memory) releaseOnce() {
	if m.release != nil {
		m.release()
		m.release = nil
	}
}
