// pkg/merger/dal/tables.go
package dal

import (
	"strings"

	"shardmerge/pkg/merger"
	"shardmerge/pkg/queryresult"
	"shardmerge/pkg/rule"
	"shardmerge/pkg/schema"
	"shardmerge/pkg/types"
)

// rowRewriter adjusts a kept row after its table column became logical.
type rowRewriter func(row []any, actualTable, logicTable string)

// replaceCreateTable renames the table inside the SHOW CREATE TABLE DDL.
func replaceCreateTable(row []any, actualTable, logicTable string) {
	if len(row) < 2 {
		return
	}
	if ddl, ok := types.AsText(row[1]); ok {
		row[1] = strings.Replace(ddl, actualTable, logicTable, 1)
	}
}

// newLogicTables drains every shard of a table listing and reports each
// sharded table once under its logical name. Unsharded tables are kept once
// when the metadata knows them, and all kept when nothing is sharded.
func newLogicTables(results []queryresult.QueryResult, r *rule.ShardingRule, metas *schema.TableMetas, rewrite rowRewriter) (*merger.Memory, error) {
	labels, err := firstLabels(results)
	if err != nil {
		return nil, err
	}
	sharded := r != nil && r.HasTableRules()
	seen := make(map[string]struct{})
	var rows [][]any

	err = eachRow(results, func(row []any) {
		if len(row) == 0 {
			return
		}
		actual, _ := types.AsText(row[0])
		logic, ok := "", false
		if r != nil {
			logic, ok = r.FindLogicTable(actual)
		}
		if !ok {
			if !sharded {
				rows = append(rows, row)
				return
			}
			if metas != nil && !metas.ContainsTable(actual) {
				return
			}
			if markSeen(seen, actual) {
				rows = append(rows, row)
			}
			return
		}
		if !markSeen(seen, logic) {
			return
		}
		row[0] = logic
		if rewrite != nil {
			rewrite(row, actual, logic)
		}
		rows = append(rows, row)
	})
	if err != nil {
		return nil, err
	}
	return merger.NewMemory(labels, rows, results, nil), nil
}

// newShowIndex drains every shard of SHOW INDEX and reports the indexes of
// logical tables. Index names lose their actual table suffix and duplicate
// (table, index, sequence) rows are dropped.
func newShowIndex(results []queryresult.QueryResult, r *rule.ShardingRule) (*merger.Memory, error) {
	labels, err := firstLabels(results)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	var rows [][]any

	err = eachRow(results, func(row []any) {
		if len(row) < 4 {
			rows = append(rows, row)
			return
		}
		actual, _ := types.AsText(row[0])
		if r != nil {
			if logic, ok := r.FindLogicTable(actual); ok {
				row[0] = logic
				if index, ok := types.AsText(row[2]); ok {
					row[2] = logicIndexName(index, actual)
				}
			}
		}
		table, _ := types.AsText(row[0])
		index, _ := types.AsText(row[2])
		seq, _ := types.Convert(row[3], types.TypeString)
		key := strings.Join([]string{table, index, stringValue(seq)}, "\x00")
		if markSeen(seen, key) {
			rows = append(rows, row)
		}
	})
	if err != nil {
		return nil, err
	}
	return merger.NewMemory(labels, rows, results, nil), nil
}

func logicIndexName(index, actualTable string) string {
	return strings.TrimSuffix(index, "_"+actualTable)
}

func markSeen(seen map[string]struct{}, key string) bool {
	key = strings.ToLower(key)
	if _, ok := seen[key]; ok {
		return false
	}
	seen[key] = struct{}{}
	return true
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}

func firstLabels(results []queryresult.QueryResult) ([]string, error) {
	if len(results) == 0 {
		return nil, nil
	}
	return merger.Labels(results[0])
}

// eachRow reads every row of every shard in order.
func eachRow(results []queryresult.QueryResult, fn func(row []any)) error {
	for _, qr := range results {
		for {
			ok, err := qr.Next()
			if err != nil {
				return err
			}
			if !ok {
				break
			}
			row, err := merger.ReadRow(qr)
			if err != nil {
				return err
			}
			fn(row)
		}
	}
	return nil
}
