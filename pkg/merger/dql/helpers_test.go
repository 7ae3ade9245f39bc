// pkg/merger/dql/helpers_test.go
package dql

import (
	"testing"

	"github.com/stretchr/testify/require"

	"shardmerge/pkg/merger"
	"shardmerge/pkg/queryresult"
	"shardmerge/pkg/types"
)

func shards(columns []string, rowsPerShard ...[][]any) []queryresult.QueryResult {
	results := make([]queryresult.QueryResult, len(rowsPerShard))
	for i, rows := range rowsPerShard {
		results[i] = queryresult.NewMemory(columns, rows)
	}
	return results
}

// drain reads every remaining row of r as strings.
func drain(t *testing.T, r merger.MergedResult) [][]any {
	t.Helper()
	var out [][]any
	for {
		ok, err := r.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		row := make([]any, r.ColumnCount())
		for i := range row {
			v, err := r.Value(i+1, types.TypeString)
			require.NoError(t, err)
			row[i] = v
		}
		out = append(out, row)
	}
	ok, err := r.Next()
	require.NoError(t, err)
	require.False(t, ok, "Next must stay false after exhaustion")
	return out
}

// columnOf reads one column of every remaining row as strings.
func columnOf(t *testing.T, r merger.MergedResult, index int) []string {
	t.Helper()
	var out []string
	for _, row := range drain(t, r) {
		s, _ := row[index-1].(string)
		out = append(out, s)
	}
	return out
}
