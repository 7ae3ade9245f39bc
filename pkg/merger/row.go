// pkg/merger/row.go
package merger

import (
	"fmt"
	"io"
	"time"

	"shardmerge/pkg/queryresult"
	"shardmerge/pkg/types"
)

// Row serves typed reads from one buffered row of raw values.
// A nil row means there is no current row.
type Row struct {
	values  []any
	wasNull bool
}

// Set replaces the buffered row.
func (r *Row) Set(values []any) {
	r.values = values
}

// Values returns the buffered row.
func (r *Row) Values() []any {
	return r.values
}

func (r *Row) raw(columnIndex int) (any, error) {
	if r.values == nil {
		return nil, ErrNoCurrentRow
	}
	if columnIndex < 1 || columnIndex > len(r.values) {
		return nil, fmt.Errorf("column %d of %d: %w", columnIndex, len(r.values), queryresult.ErrColumnIndexOutOfRange)
	}
	v := r.values[columnIndex-1]
	r.wasNull = v == nil
	return v, nil
}

// Value reads a column of the buffered row as typ.
func (r *Row) Value(columnIndex int, typ types.ValueType) (any, error) {
	v, err := r.raw(columnIndex)
	if err != nil {
		return nil, err
	}
	return types.Convert(v, typ)
}

// CalendarValue reads a temporal column of the buffered row in loc.
func (r *Row) CalendarValue(columnIndex int, typ types.ValueType, loc *time.Location) (any, error) {
	v, err := r.raw(columnIndex)
	if err != nil {
		return nil, err
	}
	return types.ConvertCalendar(v, typ, loc)
}

// InputStream opens a column of the buffered row as a stream.
func (r *Row) InputStream(columnIndex int, kind types.StreamKind) (io.Reader, error) {
	v, err := r.raw(columnIndex)
	if err != nil {
		return nil, err
	}
	return types.ConvertStream(v, kind)
}

func (r *Row) WasNull() bool {
	return r.wasNull
}

// ReadRow reads every column of the current row of qr as raw values.
func ReadRow(qr queryresult.QueryResult) ([]any, error) {
	n := qr.ColumnCount()
	row := make([]any, n)
	for i := 1; i <= n; i++ {
		v, err := qr.Value(i, types.TypeObject)
		if err != nil {
			return nil, err
		}
		row[i-1] = v
	}
	return row, nil
}

// Labels returns every column label of qr.
func Labels(qr queryresult.QueryResult) ([]string, error) {
	n := qr.ColumnCount()
	labels := make([]string, n)
	for i := 1; i <= n; i++ {
		l, err := qr.ColumnLabel(i)
		if err != nil {
			return nil, err
		}
		labels[i-1] = l
	}
	return labels, nil
}
