// pkg/statement/parse_test.go
package statement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		sql  string
		want Kind
	}{
		{"SELECT * FROM t_order", KindSelect},
		{"  select id from t_order where id = 1", KindSelect},
		{"INSERT INTO t_order VALUES (1)", KindInsert},
		{"REPLACE INTO t_order VALUES (1)", KindInsert},
		{"UPDATE t_order SET status = 'x'", KindUpdate},
		{"DELETE FROM t_order", KindDelete},
		{"CREATE TABLE t_order (id INT)", KindDDL},
		{"SHOW TABLES", KindDAL},
		{"DESCRIBE t_order", KindDAL},
		{"desc t_order", KindDAL},
		{"USE sharding_db", KindDAL},
		{"BEGIN", KindOther},
	}
	for _, tt := range tests {
		got, err := Classify(tt.sql)
		require.NoError(t, err, tt.sql)
		assert.Equal(t, tt.want, got, tt.sql)
	}

	_, err := Classify("   ")
	assert.ErrorIs(t, err, ErrEmptySQL)
}

func TestParseDAL(t *testing.T) {
	tests := []struct {
		sql   string
		typ   DALType
		table string
	}{
		{"DESCRIBE t_user", DALDescribe, "t_user"},
		{"desc `t_user`;", DALDescribe, "t_user"},
		{"SHOW DATABASES", DALShowDatabases, ""},
		{"SHOW SCHEMAS", DALShowDatabases, ""},
		{"SHOW TABLES", DALShowTables, ""},
		{"SHOW FULL TABLES", DALShowTables, ""},
		{"SHOW TABLE STATUS", DALShowTableStatus, ""},
		{"SHOW CREATE TABLE sharding_db.t_order", DALShowCreateTable, "t_order"},
		{"SHOW INDEX FROM t_order", DALShowIndex, "t_order"},
		{"SHOW KEYS IN `t_order`", DALShowIndex, "t_order"},
		{"SHOW VARIABLES", DALOther, ""},
		{"SET autocommit = 1", DALOther, ""},
	}
	for _, tt := range tests {
		ctx := ParseDAL(tt.sql)
		assert.Equal(t, tt.typ, ctx.Type, tt.sql)
		assert.Equal(t, tt.table, ctx.Tables.SingleTableName(), tt.sql)
	}
}

func TestParse(t *testing.T) {
	ctx, err := Parse("SELECT o.id FROM t_order o JOIN t_order_item i ON o.id = i.order_id")
	require.NoError(t, err)
	sel, ok := ctx.(*SelectContext)
	require.True(t, ok)
	assert.Equal(t, []string{"t_order", "t_order_item"}, sel.Tables.Names)
	assert.Equal(t, "", sel.Tables.SingleTableName())

	ctx, err = Parse("SHOW TABLES")
	require.NoError(t, err)
	assert.Equal(t, KindDAL, ctx.Kind())

	ctx, err = Parse("INSERT INTO t_order VALUES (1)")
	require.NoError(t, err)
	assert.Equal(t, KindInsert, ctx.Kind())
}

func TestGroupByCompatibleWithOrderBy(t *testing.T) {
	asc := func(i int) OrderByItem { return OrderByItem{Index: i, Direction: OrderAsc} }
	desc := func(i int) OrderByItem { return OrderByItem{Index: i, Direction: OrderDesc} }

	tests := []struct {
		name    string
		groupBy []OrderByItem
		orderBy []OrderByItem
		want    bool
	}{
		{"equal", []OrderByItem{asc(1)}, []OrderByItem{asc(1)}, true},
		{"prefix", []OrderByItem{asc(1)}, []OrderByItem{asc(1), desc(2)}, true},
		{"no order by", []OrderByItem{asc(1)}, nil, false},
		{"direction differs", []OrderByItem{asc(1)}, []OrderByItem{desc(1)}, false},
		{"column differs", []OrderByItem{asc(1)}, []OrderByItem{asc(2)}, false},
		{"order by shorter", []OrderByItem{asc(1), asc(2)}, []OrderByItem{asc(1)}, false},
		{"no group by", nil, []OrderByItem{asc(1)}, false},
	}
	for _, tt := range tests {
		ctx := &SelectContext{GroupBy: tt.groupBy, OrderBy: tt.orderBy}
		assert.Equal(t, tt.want, ctx.GroupByCompatibleWithOrderBy(), tt.name)
	}
}

func TestOrderByItemNullsFirst(t *testing.T) {
	assert.True(t, OrderByItem{Direction: OrderAsc}.NullsFirst())
	assert.False(t, OrderByItem{Direction: OrderDesc}.NullsFirst())
	assert.True(t, OrderByItem{Direction: OrderDesc, NullOrder: NullsFirst}.NullsFirst())
	assert.False(t, OrderByItem{Direction: OrderAsc, NullOrder: NullsLast}.NullsFirst())
}

func TestPagination(t *testing.T) {
	p := &PaginationContext{Offset: Parameter(0), RowCount: Literal(10), Parameters: []any{int64(5)}}
	offset, err := p.ActualOffset()
	require.NoError(t, err)
	assert.Equal(t, int64(5), offset)

	count, ok, err := p.ActualRowCount()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(10), count)

	p = &PaginationContext{Offset: Parameter(2)}
	_, err = p.ActualOffset()
	assert.ErrorIs(t, err, ErrInvalidPagination)

	p = &PaginationContext{Offset: Literal(-3).Opened()}
	offset, err = p.ActualOffset()
	require.NoError(t, err)
	assert.Equal(t, int64(0), offset)
	assert.True(t, p.OffsetBoundOpened())
	assert.False(t, p.RowCountBoundOpened())

	_, ok, err = p.ActualRowCount()
	require.NoError(t, err)
	assert.False(t, ok)

	assert.False(t, (&PaginationContext{}).HasPagination())
}

func TestProjections(t *testing.T) {
	avg := &AggregationProjection{
		Type:  AggregationAvg,
		Index: 2,
		Derived: []AggregationProjection{
			{Type: AggregationCount, Index: 3},
			{Type: AggregationSum, Index: 4},
		},
	}
	p := ProjectionsContext{Items: []Projection{{Label: "id"}, {Label: "AVG(num)", Aggregation: avg}}}

	assert.True(t, p.HasAggregation())
	aggs := p.AggregationProjections()
	require.Len(t, aggs, 1)
	sum, ok := aggs[0].DerivedOf(AggregationSum)
	require.True(t, ok)
	assert.Equal(t, 4, sum.Index)
	_, ok = aggs[0].DerivedOf(AggregationMax)
	assert.False(t, ok)

	assert.False(t, ProjectionsContext{Items: []Projection{{Label: "id"}}}.HasAggregation())
}
