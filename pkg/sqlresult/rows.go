// pkg/sqlresult/rows.go
package sqlresult

import (
	"database/sql"
	"fmt"
	"io"
	"time"

	"shardmerge/pkg/queryresult"
	"shardmerge/pkg/types"
)

// Rows is a QueryResult over the rows of one shard's database/sql query.
type Rows struct {
	rows    *sql.Rows
	columns []string
	current []any
	valid   bool
	done    bool
	wasNull bool
}

var _ queryresult.QueryResult = (*Rows)(nil)

// New wraps rows. The column labels are read once up front.
func New(rows *sql.Rows) (*Rows, error) {
	columns, err := rows.Columns()
	if err != nil {
		rows.Close()
		return nil, fmt.Errorf("read columns: %w", err)
	}
	return &Rows{rows: rows, columns: columns}, nil
}

// Next scans the next row into memory. Driver errors are returned unchanged.
func (r *Rows) Next() (bool, error) {
	if r.done {
		return false, nil
	}
	if !r.rows.Next() {
		r.done = true
		r.valid = false
		return false, r.rows.Err()
	}

	values := make([]any, len(r.columns))
	dest := make([]any, len(r.columns))
	for i := range values {
		dest[i] = &values[i]
	}
	if err := r.rows.Scan(dest...); err != nil {
		r.valid = false
		return false, err
	}
	r.current = values
	r.valid = true
	return true, nil
}

func (r *Rows) raw(columnIndex int) (any, error) {
	if !r.valid {
		return nil, queryresult.ErrNoCurrentRow
	}
	if columnIndex < 1 || columnIndex > len(r.current) {
		return nil, fmt.Errorf("column %d of %d: %w", columnIndex, len(r.current), queryresult.ErrColumnIndexOutOfRange)
	}
	v := r.current[columnIndex-1]
	r.wasNull = v == nil
	return v, nil
}

// Value reads the column of the current row as typ.
func (r *Rows) Value(columnIndex int, typ types.ValueType) (any, error) {
	v, err := r.raw(columnIndex)
	if err != nil {
		return nil, err
	}
	return types.Convert(v, typ)
}

// CalendarValue reads a temporal column with its wall clock in loc.
func (r *Rows) CalendarValue(columnIndex int, typ types.ValueType, loc *time.Location) (any, error) {
	v, err := r.raw(columnIndex)
	if err != nil {
		return nil, err
	}
	return types.ConvertCalendar(v, typ, loc)
}

// InputStream opens the column of the current row as a stream of kind.
func (r *Rows) InputStream(columnIndex int, kind types.StreamKind) (io.Reader, error) {
	v, err := r.raw(columnIndex)
	if err != nil {
		return nil, err
	}
	return types.ConvertStream(v, kind)
}

func (r *Rows) WasNull() bool {
	return r.wasNull
}

func (r *Rows) ColumnCount() int {
	return len(r.columns)
}

func (r *Rows) ColumnLabel(columnIndex int) (string, error) {
	if columnIndex < 1 || columnIndex > len(r.columns) {
		return "", fmt.Errorf("column %d of %d: %w", columnIndex, len(r.columns), queryresult.ErrColumnIndexOutOfRange)
	}
	return r.columns[columnIndex-1], nil
}

// Close closes the underlying rows.
func (r *Rows) Close() error {
	r.done = true
	r.valid = false
	return r.rows.Close()
}
