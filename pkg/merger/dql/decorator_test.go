// pkg/merger/dql/decorator_test.go
package dql

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shardmerge/pkg/dialect"
	"shardmerge/pkg/queryresult"
	"shardmerge/pkg/statement"
	"shardmerge/pkg/types"
)

// sixRows spreads ids 1..6 over three shards ordered by id.
func sixRows() []queryresult.QueryResult {
	return shards([]string{"id"},
		[][]any{{int64(1)}, {int64(4)}},
		[][]any{{int64(2)}, {int64(5)}},
		[][]any{{int64(3)}, {int64(6)}},
	)
}

func paginate(t *testing.T, dbType dialect.DatabaseType, p *statement.PaginationContext) []string {
	t.Helper()
	ctx := &statement.SelectContext{OrderBy: []statement.OrderByItem{{Index: 1}}, Pagination: p}
	r, err := NewEngine(dbType, ctx, sixRows()).Merge()
	require.NoError(t, err)
	defer r.Close()
	return columnOf(t, r, 1)
}

func TestLimitDecorator(t *testing.T) {
	tests := []struct {
		name string
		p    *statement.PaginationContext
		want []string
	}{
		{"offset and count", limit(2, 3), []string{"3", "4", "5"}},
		{"offset only", &statement.PaginationContext{Offset: statement.Literal(4)}, []string{"5", "6"}},
		{"count only", &statement.PaginationContext{RowCount: statement.Literal(2)}, []string{"1", "2"}},
		{"count past end", limit(4, 10), []string{"5", "6"}},
		{"offset past end", limit(10, 2), nil},
		{"zero count", limit(0, 0), nil},
		{"parameters", &statement.PaginationContext{
			Offset:     statement.Parameter(0),
			RowCount:   statement.Parameter(1),
			Parameters: []any{int64(1), "2"},
		}, []string{"2", "3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, paginate(t, dialect.MySQL, tt.p))
		})
	}
}

func TestLimitDecoratorZeroCountConsumesOnlyOffset(t *testing.T) {
	qr := queryresult.NewMemory([]string{"id"}, [][]any{{int64(1)}, {int64(2)}, {int64(3)}})
	d, err := newLimitDecorator(newIteratorResult([]queryresult.QueryResult{qr}), limit(1, 0))
	require.NoError(t, err)

	ok, err := d.Next()
	require.NoError(t, err)
	assert.False(t, ok)

	// the row after the skipped one is still unread
	ok, err = qr.Next()
	require.NoError(t, err)
	require.True(t, ok)
	v, err := qr.Value(1, types.TypeObject)
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)
}

func TestRowNumberDecorator(t *testing.T) {
	tests := []struct {
		name string
		p    *statement.PaginationContext
		want []string
	}{
		// rownum > 2 AND rownum < 5
		{"exclusive bounds", limit(2, 5), []string{"3", "4"}},
		// rownum >= 2 AND rownum <= 5
		{"inclusive bounds", &statement.PaginationContext{
			Offset:   statement.Literal(2).Opened(),
			RowCount: statement.Literal(5).Opened(),
		}, []string{"2", "3", "4", "5"}},
		// rownum > 2 AND rownum <= 4
		{"inclusive upper", &statement.PaginationContext{
			Offset:   statement.Literal(2),
			RowCount: statement.Literal(4).Opened(),
		}, []string{"3", "4"}},
		{"lower bound only", &statement.PaginationContext{Offset: statement.Literal(4)}, []string{"5", "6"}},
		{"upper bound only", &statement.PaginationContext{RowCount: statement.Literal(3)}, []string{"1", "2"}},
		{"lower past end", limit(10, 12), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, paginate(t, dialect.Oracle, tt.p))
		})
	}
}

func TestTopAndRowNumberDecorator(t *testing.T) {
	tests := []struct {
		name string
		p    *statement.PaginationContext
		want []string
	}{
		// TOP 5 ... WHERE row_number > 2
		{"top and row number", limit(2, 5), []string{"3", "4", "5"}},
		{"top only", &statement.PaginationContext{RowCount: statement.Literal(2)}, []string{"1", "2"}},
		{"row number only", &statement.PaginationContext{Offset: statement.Literal(5)}, []string{"6"}},
		{"top below row number", limit(4, 3), nil},
		{"top past end", limit(3, 100), []string{"4", "5", "6"}},
		// TOP 5 ... WHERE row_number >= 3
		{"opened row number", &statement.PaginationContext{Offset: statement.Literal(3).Opened(), RowCount: statement.Literal(5)}, []string{"3", "4", "5"}},
		{"opened row number zero", &statement.PaginationContext{Offset: statement.Literal(0).Opened(), RowCount: statement.Literal(2)}, []string{"1", "2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, paginate(t, dialect.SQLServer, tt.p))
		})
	}
}

func TestDecoratorPropagatesInnerError(t *testing.T) {
	boom := errors.New("read timeout")
	inner := newIteratorResult([]queryresult.QueryResult{
		&failingResult{Memory: queryresult.NewMemory([]string{"id"}, nil), err: boom},
	})
	d, err := newLimitDecorator(inner, limit(1, 1))
	require.NoError(t, err)
	_, err = d.Next()
	assert.ErrorIs(t, err, boom)
}

func TestDecoratorClosesInner(t *testing.T) {
	qr := queryresult.NewMemory([]string{"id"}, [][]any{{int64(1)}})
	d, err := newTopAndRowNumberDecorator(newIteratorResult([]queryresult.QueryResult{qr}), limit(0, 1))
	require.NoError(t, err)
	require.NoError(t, d.Close())
	assert.True(t, qr.Closed())
}
