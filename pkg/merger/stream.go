// pkg/merger/stream.go
package merger

import (
	"fmt"
	"io"
	"time"

	"shardmerge/pkg/queryresult"
	"shardmerge/pkg/types"
)

// Stream is the base of streaming merged results: every read is served by
// whichever shard result is current. Variants embed it and move the current
// result as they advance.
type Stream struct {
	Closer
	results []queryresult.QueryResult
	current queryresult.QueryResult
	wasNull bool
}

// NewStream creates a stream base that owns results.
func NewStream(results []queryresult.QueryResult) *Stream {
	return &Stream{Closer: NewCloser(results), results: results}
}

// Results returns the owned shard results.
func (s *Stream) Results() []queryresult.QueryResult {
	return s.results
}

// SetCurrent makes qr the result that serves reads.
func (s *Stream) SetCurrent(qr queryresult.QueryResult) {
	s.current = qr
}

// Current returns the result that serves reads, or nil.
func (s *Stream) Current() queryresult.QueryResult {
	return s.current
}

// Value reads the column of the current shard row as typ.
func (s *Stream) Value(columnIndex int, typ types.ValueType) (any, error) {
	if s.current == nil {
		return nil, ErrCurrentQueryResultNotSet
	}
	v, err := s.current.Value(columnIndex, typ)
	if err != nil {
		return nil, err
	}
	s.wasNull = s.current.WasNull()
	return v, nil
}

// CalendarValue reads a temporal column of the current shard row in loc.
func (s *Stream) CalendarValue(columnIndex int, typ types.ValueType, loc *time.Location) (any, error) {
	if s.current == nil {
		return nil, ErrCurrentQueryResultNotSet
	}
	v, err := s.current.CalendarValue(columnIndex, typ, loc)
	if err != nil {
		return nil, err
	}
	s.wasNull = s.current.WasNull()
	return v, nil
}

// InputStream opens a column of the current shard row as a stream.
func (s *Stream) InputStream(columnIndex int, kind types.StreamKind) (io.Reader, error) {
	if s.current == nil {
		return nil, ErrCurrentQueryResultNotSet
	}
	r, err := s.current.InputStream(columnIndex, kind)
	if err != nil {
		return nil, err
	}
	s.wasNull = s.current.WasNull()
	return r, nil
}

func (s *Stream) WasNull() bool {
	return s.wasNull
}

// ColumnCount returns the column count of the first shard result.
func (s *Stream) ColumnCount() int {
	if len(s.results) == 0 {
		return 0
	}
	return s.results[0].ColumnCount()
}

// ColumnLabel returns a column label of the first shard result.
func (s *Stream) ColumnLabel(columnIndex int) (string, error) {
	if len(s.results) == 0 {
		return "", fmt.Errorf("column %d of 0: %w", columnIndex, queryresult.ErrColumnIndexOutOfRange)
	}
	return s.results[0].ColumnLabel(columnIndex)
}
