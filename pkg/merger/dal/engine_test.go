// pkg/merger/dal/engine_test.go
package dal

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shardmerge/pkg/merger"
	"shardmerge/pkg/queryresult"
	"shardmerge/pkg/rule"
	"shardmerge/pkg/schema"
	"shardmerge/pkg/statement"
	"shardmerge/pkg/types"
)

const ruleYAML = `
schemaName: logic_db
tables:
  t_order:
    actualDataNodes: [ds_0.t_order_0, ds_0.t_order_1, ds_1.t_order_0, ds_1.t_order_1]
encrypt:
  tables:
    user:
      columns:
        logic_name:
          cipherColumn: name
          assistedQueryColumn: name_assisted
`

func testRule(t *testing.T) *rule.ShardingRule {
	t.Helper()
	r, err := rule.Parse([]byte(ruleYAML))
	require.NoError(t, err)
	return r
}

var describeColumns = []string{"Field", "Type", "Null", "Key", "Default", "Extra"}

func describeShard() *queryresult.Memory {
	return queryresult.NewMemory(describeColumns, [][]any{
		{"id", "int(11) unsigned", "NO", "PRI", "", "auto_increment"},
		{"name", "varchar(100)", "YES", "", "", ""},
		{"pre_name", "varchar(100)", "YES", "", "", ""},
		{"name_assisted", "varchar(100)", "YES", "", "", ""},
	})
}

func describeContext() *statement.DALContext {
	return &statement.DALContext{Type: statement.DALDescribe, Tables: statement.TablesContext{Names: []string{"user"}}}
}

func merge(t *testing.T, e *Engine) merger.MergedResult {
	t.Helper()
	r, err := e.Merge()
	require.NoError(t, err)
	return r
}

// rows reads every remaining row of r as strings.
func rows(t *testing.T, r merger.MergedResult) [][]string {
	t.Helper()
	var out [][]string
	for {
		ok, err := r.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		row := make([]string, r.ColumnCount())
		for i := range row {
			v, err := r.Value(i+1, types.TypeString)
			require.NoError(t, err)
			row[i], _ = v.(string)
		}
		out = append(out, row)
	}
	ok, err := r.Next()
	require.NoError(t, err)
	require.False(t, ok)
	return out
}

func fields(t *testing.T, r merger.MergedResult) []string {
	t.Helper()
	var out []string
	for _, row := range rows(t, r) {
		out = append(out, row[0])
	}
	return out
}

func TestDescribeWithEncryptRule(t *testing.T) {
	second := describeShard()
	r := merge(t, NewEngine(describeContext(), []queryresult.QueryResult{describeShard(), second}, WithRule(testRule(t))))
	assert.Equal(t, []string{"id", "logic_name", "pre_name"}, fields(t, r))

	// only the first shard is read
	ok, err := second.Next()
	require.NoError(t, err)
	assert.True(t, ok)
	v, err := second.Value(1, types.TypeString)
	require.NoError(t, err)
	assert.Equal(t, "id", v)
}

func TestDescribeWithoutEncryptRule(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
	}{
		{"no rule", nil},
		{"table not encrypted", []Option{WithRule(testRule(t))}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := describeContext()
			if tt.opts != nil {
				ctx.Tables.Names = []string{"t_order"}
			}
			r := merge(t, NewEngine(ctx, []queryresult.QueryResult{describeShard()}, tt.opts...))
			assert.Equal(t, []string{"id", "name", "pre_name", "name_assisted"}, fields(t, r))
		})
	}
}

func TestDescribeAllColumns(t *testing.T) {
	r := merge(t, NewEngine(describeContext(), []queryresult.QueryResult{describeShard()}, WithRule(testRule(t))))
	ok, err := r.Next()
	require.NoError(t, err)
	require.True(t, ok)

	want := []string{"id", "int(11) unsigned", "NO", "PRI", "", "auto_increment"}
	for i, w := range want {
		v, err := r.Value(i+1, types.TypeString)
		require.NoError(t, err)
		assert.Equal(t, w, v, "column %d", i+1)
	}
	label, err := r.ColumnLabel(6)
	require.NoError(t, err)
	assert.Equal(t, "Extra", label)
}

func TestDescribeEmpty(t *testing.T) {
	r := merge(t, NewEngine(describeContext(), nil, WithRule(testRule(t))))
	ok, err := r.Next()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, r.ColumnCount())

	r = merge(t, NewEngine(describeContext(), []queryresult.QueryResult{queryresult.NewMemory(describeColumns, nil)}))
	ok, err = r.Next()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDescribeReadBeforeNext(t *testing.T) {
	r := merge(t, NewEngine(describeContext(), []queryresult.QueryResult{describeShard()}))
	_, err := r.Value(1, types.TypeString)
	assert.ErrorIs(t, err, merger.ErrNoCurrentRow)
}

func TestShowDatabases(t *testing.T) {
	shardDatabases := func() []queryresult.QueryResult {
		return []queryresult.QueryResult{
			queryresult.NewMemory([]string{"Database"}, [][]any{{"ds_0"}}),
			queryresult.NewMemory([]string{"Database"}, [][]any{{"ds_1"}}),
		}
	}
	ctx := &statement.DALContext{Type: statement.DALShowDatabases}

	r := merge(t, NewEngine(ctx, shardDatabases(), WithRule(testRule(t))))
	assert.Equal(t, [][]string{{"logic_db"}}, rows(t, r))

	r = merge(t, NewEngine(ctx, shardDatabases()))
	label, err := r.ColumnLabel(1)
	require.NoError(t, err)
	assert.Equal(t, "Database", label)
	assert.Equal(t, [][]string{{defaultSchemaName}}, rows(t, r))
}

func TestShowTables(t *testing.T) {
	metas := schema.NewTableMetas()
	require.NoError(t, metas.AddTable(&schema.TableDef{Name: "t_config"}))

	results := []queryresult.QueryResult{
		queryresult.NewMemory([]string{"Tables_in_ds_0"}, [][]any{{"t_order_0"}, {"t_order_1"}, {"t_config"}, {"tmp_import"}}),
		queryresult.NewMemory([]string{"Tables_in_ds_1"}, [][]any{{[]byte("t_order_0")}, {"t_order_1"}, {"t_config"}}),
	}
	ctx := &statement.DALContext{Type: statement.DALShowTables}
	r := merge(t, NewEngine(ctx, results, WithRule(testRule(t)), WithTableMetas(metas)))

	want := [][]string{{"t_order"}, {"t_config"}}
	if diff := cmp.Diff(want, rows(t, r)); diff != "" {
		t.Errorf("tables mismatch (-want +got):\n%s", diff)
	}
}

func TestShowTablesWithoutShardedTables(t *testing.T) {
	results := []queryresult.QueryResult{
		queryresult.NewMemory([]string{"Tables_in_ds_0"}, [][]any{{"t_config"}}),
		queryresult.NewMemory([]string{"Tables_in_ds_1"}, [][]any{{"t_config"}}),
	}
	r := merge(t, NewEngine(&statement.DALContext{Type: statement.DALShowTableStatus}, results))
	assert.Equal(t, []string{"t_config", "t_config"}, fields(t, r))
}

func TestShowCreateTable(t *testing.T) {
	ddl := "CREATE TABLE `t_order_0` (\n  `order_id` int NOT NULL,\n  KEY `idx_status_t_order_0` (`status`)\n)"
	results := []queryresult.QueryResult{
		queryresult.NewMemory([]string{"Table", "Create Table"}, [][]any{{"t_order_0", ddl}}),
		queryresult.NewMemory([]string{"Table", "Create Table"}, [][]any{{"t_order_1", ddl}}),
	}
	r := merge(t, NewEngine(&statement.DALContext{Type: statement.DALShowCreateTable}, results, WithRule(testRule(t))))

	want := [][]string{{
		"t_order",
		"CREATE TABLE `t_order` (\n  `order_id` int NOT NULL,\n  KEY `idx_status_t_order_0` (`status`)\n)",
	}}
	if diff := cmp.Diff(want, rows(t, r)); diff != "" {
		t.Errorf("create table mismatch (-want +got):\n%s", diff)
	}
}

func TestShowIndex(t *testing.T) {
	columns := []string{"Table", "Non_unique", "Key_name", "Seq_in_index", "Column_name"}
	results := []queryresult.QueryResult{
		queryresult.NewMemory(columns, [][]any{
			{"t_order_0", int64(0), "PRIMARY", int64(1), "order_id"},
			{"t_order_0", int64(1), "idx_user_t_order_0", int64(1), "user_id"},
			{"t_order_1", int64(1), "idx_user_t_order_1", int64(1), "user_id"},
		}),
		queryresult.NewMemory(columns, [][]any{
			{"t_order_0", int64(0), "PRIMARY", int64(1), "order_id"},
			{"t_config", int64(0), "PRIMARY", int64(1), "k"},
		}),
	}
	r := merge(t, NewEngine(&statement.DALContext{Type: statement.DALShowIndex}, results, WithRule(testRule(t))))

	want := [][]string{
		{"t_order", "0", "PRIMARY", "1", "order_id"},
		{"t_order", "1", "idx_user", "1", "user_id"},
		{"t_config", "0", "PRIMARY", "1", "k"},
	}
	if diff := cmp.Diff(want, rows(t, r)); diff != "" {
		t.Errorf("indexes mismatch (-want +got):\n%s", diff)
	}
}

func TestOtherIsTransparent(t *testing.T) {
	first := queryresult.NewMemory([]string{"Variable_name", "Value"}, [][]any{{"version", "8.0"}})
	second := queryresult.NewMemory([]string{"Variable_name", "Value"}, [][]any{{"version", "5.7"}})
	r := merge(t, NewEngine(&statement.DALContext{Type: statement.DALOther}, []queryresult.QueryResult{first, second}))
	assert.Equal(t, [][]string{{"version", "8.0"}}, rows(t, r))

	require.NoError(t, r.Close())
	assert.True(t, first.Closed())
	assert.True(t, second.Closed())
}

func TestShowTablesPropagatesShardError(t *testing.T) {
	boom := errors.New("connection reset")
	results := []queryresult.QueryResult{
		queryresult.NewMemory([]string{"Tables_in_ds_0"}, [][]any{{"t_order_0"}}),
		&failingResult{Memory: queryresult.NewMemory([]string{"Tables_in_ds_1"}, nil), err: boom},
	}
	_, err := NewEngine(&statement.DALContext{Type: statement.DALShowTables}, results, WithRule(testRule(t))).Merge()
	assert.ErrorIs(t, err, boom)
}

type failingResult struct {
	*queryresult.Memory
	err error
}

func (f *failingResult) Next() (bool, error) {
	return false, f.err
}
