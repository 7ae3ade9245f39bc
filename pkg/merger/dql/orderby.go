// pkg/merger/dql/orderby.go
package dql

import (
	"container/heap"

	"shardmerge/pkg/merger"
	"shardmerge/pkg/queryresult"
	"shardmerge/pkg/statement"
	"shardmerge/pkg/types"
)

// shardCursor is one shard result positioned on a row, with that row's sort
// key cached.
type shardCursor struct {
	qr    queryresult.QueryResult
	shard int
	key   []any
}

// load reads the sort key of the current row.
func (c *shardCursor) load(items []statement.OrderByItem) error {
	if c.key == nil {
		c.key = make([]any, len(items))
	}
	for i, item := range items {
		v, err := c.qr.Value(item.Index, types.TypeObject)
		if err != nil {
			return err
		}
		c.key[i] = v
	}
	return nil
}

// cursorHeap is a min-heap of shard cursors under a comparator. Equal keys
// pop in shard order.
type cursorHeap struct {
	cursors []*shardCursor
	cmp     *comparator
}

func (h *cursorHeap) Len() int { return len(h.cursors) }

func (h *cursorHeap) Less(i, j int) bool {
	a, b := h.cursors[i], h.cursors[j]
	if r := h.cmp.compareKeys(a.key, b.key); r != 0 {
		return r < 0
	}
	return a.shard < b.shard
}

func (h *cursorHeap) Swap(i, j int) { h.cursors[i], h.cursors[j] = h.cursors[j], h.cursors[i] }

func (h *cursorHeap) Push(x any) { h.cursors = append(h.cursors, x.(*shardCursor)) }

func (h *cursorHeap) Pop() any {
	old := h.cursors
	n := len(old)
	c := old[n-1]
	old[n-1] = nil
	h.cursors = old[:n-1]
	return c
}

// orderByStream k-way merges shard results that are each sorted on the
// order items. Only the shard that produced the last row is advanced.
type orderByStream struct {
	*merger.Stream
	items   []statement.OrderByItem
	heap    *cursorHeap
	started bool
}

// newOrderByStream positions every shard on its first row. No row is
// current until the first Next.
func newOrderByStream(results []queryresult.QueryResult, items []statement.OrderByItem, fold []bool) (*orderByStream, error) {
	s := &orderByStream{
		Stream: merger.NewStream(results),
		items:  items,
		heap:   &cursorHeap{cmp: newComparator(items, fold)},
	}
	for i, qr := range results {
		ok, err := qr.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		c := &shardCursor{qr: qr, shard: i}
		if err := c.load(items); err != nil {
			return nil, err
		}
		s.heap.cursors = append(s.heap.cursors, c)
	}
	heap.Init(s.heap)
	return s, nil
}

func (s *orderByStream) setTop() {
	if s.heap.Len() == 0 {
		s.SetCurrent(nil)
		return
	}
	s.SetCurrent(s.heap.cursors[0].qr)
}

func (s *orderByStream) Next() (bool, error) {
	if s.heap.Len() == 0 {
		return false, nil
	}
	if !s.started {
		s.started = true
		s.setTop()
		return true, nil
	}
	top := s.heap.cursors[0]
	ok, err := top.qr.Next()
	if err != nil {
		return false, err
	}
	if ok {
		if err := top.load(s.items); err != nil {
			return false, err
		}
		heap.Fix(s.heap, 0)
	} else {
		heap.Pop(s.heap)
	}
	s.setTop()
	return s.heap.Len() > 0, nil
}
