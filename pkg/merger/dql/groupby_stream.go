// pkg/merger/dql/groupby_stream.go
package dql

import (
	"shardmerge/pkg/merger"
	"shardmerge/pkg/queryresult"
	"shardmerge/pkg/statement"
	"shardmerge/pkg/types"
)

// groupByStream folds shard rows that arrive clustered by group key. A group
// is emitted as soon as the underlying order-by merge yields a row with a
// different key, so only one group is buffered at a time.
type groupByStream struct {
	merger.Row
	stream      *orderByStream
	groupBy     []statement.OrderByItem
	keys        *comparator
	projections []statement.AggregationProjection

	// pendingKey is the group key of the row the stream is positioned on.
	pendingKey []any
	pending    bool
	done       bool
}

func newGroupByStream(results []queryresult.QueryResult, ctx *statement.SelectContext, groupFold, orderFold []bool) (*groupByStream, error) {
	stream, err := newOrderByStream(results, ctx.OrderBy, orderFold)
	if err != nil {
		return nil, err
	}
	g := &groupByStream{
		stream:      stream,
		groupBy:     ctx.GroupBy,
		keys:        newComparator(ctx.GroupBy, groupFold),
		projections: ctx.Projections.AggregationProjections(),
	}
	ok, err := stream.Next()
	if err != nil {
		return nil, err
	}
	if ok {
		if g.pendingKey, err = g.readKey(); err != nil {
			return nil, err
		}
		g.pending = true
	}
	return g, nil
}

func (g *groupByStream) readKey() ([]any, error) {
	key := make([]any, len(g.groupBy))
	for i, item := range g.groupBy {
		v, err := g.stream.Value(item.Index, types.TypeObject)
		if err != nil {
			return nil, err
		}
		key[i] = v
	}
	return key, nil
}

func (g *groupByStream) Next() (bool, error) {
	if g.done {
		return false, nil
	}
	if !g.pending {
		g.done = true
		g.Set(nil)
		return false, nil
	}

	first, err := merger.ReadRow(g.stream)
	if err != nil {
		return false, err
	}
	state, err := newAggregationState(first, g.projections)
	if err != nil {
		return false, err
	}
	if err := state.merge(first); err != nil {
		return false, err
	}

	for {
		ok, err := g.stream.Next()
		if err != nil {
			return false, err
		}
		if !ok {
			g.pending = false
			break
		}
		key, err := g.readKey()
		if err != nil {
			return false, err
		}
		if g.keys.compareKeys(key, g.pendingKey) != 0 {
			g.pendingKey = key
			break
		}
		row, err := merger.ReadRow(g.stream)
		if err != nil {
			return false, err
		}
		if err := state.merge(row); err != nil {
			return false, err
		}
	}

	g.Set(state.finish())
	return true, nil
}

func (g *groupByStream) ColumnCount() int {
	return g.stream.ColumnCount()
}

func (g *groupByStream) ColumnLabel(columnIndex int) (string, error) {
	return g.stream.ColumnLabel(columnIndex)
}

func (g *groupByStream) Close() error {
	g.Set(nil)
	return g.stream.Close()
}
