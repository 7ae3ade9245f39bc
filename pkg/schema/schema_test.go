// pkg/schema/schema_test.go
package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shardmerge/pkg/types"
)

func newOrderMetas(t *testing.T) *TableMetas {
	t.Helper()
	m := NewTableMetas()
	err := m.AddTable(&TableDef{
		Name: "t_order",
		Columns: []ColumnDef{
			{Name: "order_id", Type: types.TypeInt64, PrimaryKey: true, CaseSensitive: true},
			{Name: "status", Type: types.TypeString, CaseSensitive: false},
		},
	})
	require.NoError(t, err)
	return m
}

func TestTableMetasAddAndGet(t *testing.T) {
	m := newOrderMetas(t)

	assert.True(t, m.ContainsTable("T_ORDER"), "table lookup ignores case")
	assert.False(t, m.ContainsTable("t_user"))

	err := m.AddTable(&TableDef{Name: "t_order"})
	assert.ErrorIs(t, err, ErrTableExists)

	col, idx := m.GetTable("t_order").GetColumn("STATUS")
	require.NotNil(t, col)
	assert.Equal(t, 1, idx)

	assert.Equal(t, []string{"t_order"}, m.ListTables())
}

func TestTableMetasDropTable(t *testing.T) {
	m := newOrderMetas(t)
	require.NoError(t, m.DropTable("t_order"))
	assert.ErrorIs(t, m.DropTable("t_order"), ErrTableNotFound)
}

func TestTableMetasIsCaseSensitive(t *testing.T) {
	m := newOrderMetas(t)
	tables := []string{"t_user", "t_order"}

	assert.False(t, m.IsCaseSensitive(tables, "status"))
	assert.True(t, m.IsCaseSensitive(tables, "order_id"))
	assert.True(t, m.IsCaseSensitive(tables, "unknown"), "unknown columns default to case-sensitive")

	var nilMetas *TableMetas
	assert.True(t, nilMetas.IsCaseSensitive(tables, "status"), "nil metas default to case-sensitive")
}
