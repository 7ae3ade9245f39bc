// pkg/merger/dql/groupby_memory.go
package dql

import (
	"sort"

	"shardmerge/pkg/cache"
	"shardmerge/pkg/merger"
	"shardmerge/pkg/queryresult"
	"shardmerge/pkg/statement"
)

// memoryComponent is the budget component charged by in-memory grouping
const memoryComponent = "group_by_memory"

// newGroupByMemory drains every shard, folds the rows into one state per
// group key and returns the finalized groups. Groups keep first-seen order
// unless the statement has an ORDER BY. Without a GROUP BY all rows fold into
// one implicit group.
func newGroupByMemory(results []queryresult.QueryResult, ctx *statement.SelectContext, groupFold, orderFold []bool, budget *cache.MemoryBudget) (*merger.Memory, error) {
	var labels []string
	if len(results) > 0 {
		var err error
		if labels, err = merger.Labels(results[0]); err != nil {
			return nil, err
		}
	}

	projections := ctx.Projections.AggregationProjections()
	encoder := newGroupKeyEncoder(groupFold)
	states := make(map[string]*aggregationState)
	var order []*aggregationState
	var reserved int64

	fail := func(err error) (*merger.Memory, error) {
		budget.Release(memoryComponent, reserved)
		return nil, err
	}

	for _, qr := range results {
		for {
			ok, err := qr.Next()
			if err != nil {
				return fail(err)
			}
			if !ok {
				break
			}
			row, err := merger.ReadRow(qr)
			if err != nil {
				return fail(err)
			}
			key := encoder.encode(keyOf(row, ctx.GroupBy))
			state, seen := states[key]
			if !seen {
				size := cache.EstimateRowSize(row)
				if err := budget.Reserve(memoryComponent, size); err != nil {
					return fail(err)
				}
				reserved += size
				if state, err = newAggregationState(row, projections); err != nil {
					return fail(err)
				}
				states[key] = state
				order = append(order, state)
			}
			if err := state.merge(row); err != nil {
				return fail(err)
			}
		}
	}

	rows := make([][]any, len(order))
	for i, state := range order {
		rows[i] = state.finish()
	}
	if len(ctx.OrderBy) > 0 {
		cmp := newComparator(ctx.OrderBy, orderFold)
		sort.SliceStable(rows, func(i, j int) bool {
			return cmp.compareRows(rows[i], rows[j]) < 0
		})
	}

	release := func() { budget.Release(memoryComponent, reserved) }
	return merger.NewMemory(labels, rows, results, release), nil
}
