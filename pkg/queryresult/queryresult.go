// pkg/queryresult/queryresult.go
package queryresult

import (
	"errors"
	"io"
	"time"

	"shardmerge/pkg/types"
)

var (
	// ErrColumnIndexOutOfRange is returned when a column index is outside 1..ColumnCount
	ErrColumnIndexOutOfRange = errors.New("column index out of range")

	// ErrNoCurrentRow is returned when a value is read before Next or after exhaustion
	ErrNoCurrentRow = errors.New("no current row")

	// ErrClosed is returned when a closed result is read
	ErrClosed = errors.New("query result is closed")
)

// QueryResult is a forward-only cursor over the rows one shard returned.
// Column indexes are 1-based. Once Next reports false it keeps reporting false.
type QueryResult interface {
	// Next advances to the next row.
	Next() (bool, error)

	// Value reads the column of the current row as typ.
	Value(columnIndex int, typ types.ValueType) (any, error)

	// CalendarValue reads a date, time or timestamp column in loc.
	CalendarValue(columnIndex int, typ types.ValueType, loc *time.Location) (any, error)

	// InputStream opens the column of the current row as a stream.
	InputStream(columnIndex int, kind types.StreamKind) (io.Reader, error)

	// WasNull reports whether the last value read was NULL.
	WasNull() bool

	ColumnCount() int
	ColumnLabel(columnIndex int) (string, error)
}

// Close closes qr if it holds resources.
func Close(qr QueryResult) error {
	if c, ok := qr.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// ColumnIndex returns the 1-based index of the first column labeled label,
// or 0 when no column matches.
func ColumnIndex(qr QueryResult, label string) int {
	for i := 1; i <= qr.ColumnCount(); i++ {
		if l, err := qr.ColumnLabel(i); err == nil && l == label {
			return i
		}
	}
	return 0
}
