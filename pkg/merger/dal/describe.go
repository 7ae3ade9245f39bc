// pkg/merger/dal/describe.go
package dal

import (
	"fmt"

	"shardmerge/pkg/merger"
	"shardmerge/pkg/queryresult"
	"shardmerge/pkg/rule"
	"shardmerge/pkg/types"
)

// describeResult reads DESCRIBE rows from the first shard only. Assisted
// query columns are hidden and cipher columns are shown under their logical
// name.
type describeResult struct {
	merger.Row
	merger.Closer
	first queryresult.QueryResult
	table *rule.EncryptTable
	done  bool
}

func newDescribe(results []queryresult.QueryResult, table *rule.EncryptTable) *describeResult {
	d := &describeResult{Closer: merger.NewCloser(results), table: table}
	if len(results) > 0 {
		d.first = results[0]
	}
	return d
}

func (d *describeResult) Next() (bool, error) {
	if d.done || d.first == nil {
		d.done = true
		return false, nil
	}
	for {
		ok, err := d.first.Next()
		if err != nil {
			return false, err
		}
		if !ok {
			d.done = true
			d.Set(nil)
			return false, nil
		}
		row, err := merger.ReadRow(d.first)
		if err != nil {
			return false, err
		}
		if d.table != nil && len(row) > 0 {
			field, _ := types.AsText(row[0])
			if d.table.IsAssistedQueryColumn(field) {
				continue
			}
			if logic, ok := d.table.LogicColumn(field); ok {
				row[0] = logic
			}
		}
		d.Set(row)
		return true, nil
	}
}

func (d *describeResult) ColumnCount() int {
	if d.first == nil {
		return 0
	}
	return d.first.ColumnCount()
}

func (d *describeResult) ColumnLabel(columnIndex int) (string, error) {
	if d.first == nil {
		return "", fmt.Errorf("column %d of 0: %w", columnIndex, queryresult.ErrColumnIndexOutOfRange)
	}
	return d.first.ColumnLabel(columnIndex)
}
