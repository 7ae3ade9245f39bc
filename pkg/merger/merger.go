// pkg/merger/merger.go
package merger

import (
	"errors"
	"io"
	"time"

	"shardmerge/pkg/queryresult"
	"shardmerge/pkg/types"
)

var (
	// ErrCurrentQueryResultNotSet is returned when a streaming result is read
	// before any shard result has become current
	ErrCurrentQueryResultNotSet = errors.New("current query result is not set")

	// ErrNoCurrentRow is returned when a buffered result is read before Next
	// or after exhaustion
	ErrNoCurrentRow = queryresult.ErrNoCurrentRow
)

// MergedResult is the single logical cursor built from many shard results.
// It reads exactly like a QueryResult: once Next reports false it keeps
// reporting false. A MergedResult is driven by one goroutine.
type MergedResult interface {
	Next() (bool, error)
	Value(columnIndex int, typ types.ValueType) (any, error)
	CalendarValue(columnIndex int, typ types.ValueType, loc *time.Location) (any, error)
	InputStream(columnIndex int, kind types.StreamKind) (io.Reader, error)
	WasNull() bool
	ColumnCount() int
	ColumnLabel(columnIndex int) (string, error)

	// Close closes every shard result and inner result the merged result owns.
	Close() error
}

// Engine builds the merged result of one logical statement.
// Merge must be called once per statement.
type Engine interface {
	Merge() (MergedResult, error)
}

// Closer closes a set of owned shard results once.
type Closer struct {
	results []queryresult.QueryResult
	closed  bool
}

// NewCloser takes ownership of results.
func NewCloser(results []queryresult.QueryResult) Closer {
	return Closer{results: results}
}

// Close closes every owned result and returns the first error.
func (c *Closer) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	var firstErr error
	for _, qr := range c.results {
		if err := queryresult.Close(qr); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
