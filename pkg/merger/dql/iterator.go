// pkg/merger/dql/iterator.go
package dql

import (
	"shardmerge/pkg/merger"
	"shardmerge/pkg/queryresult"
)

// iteratorResult exhausts the shard results one after another in the order
// they were supplied.
type iteratorResult struct {
	*merger.Stream
	shard int
	done  bool
}

func newIteratorResult(results []queryresult.QueryResult) *iteratorResult {
	it := &iteratorResult{Stream: merger.NewStream(results)}
	if len(results) > 0 {
		it.SetCurrent(results[0])
	}
	return it
}

func (it *iteratorResult) Next() (bool, error) {
	if it.done {
		return false, nil
	}
	results := it.Results()
	for it.shard < len(results) {
		qr := results[it.shard]
		it.SetCurrent(qr)
		ok, err := qr.Next()
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
		it.shard++
	}
	it.done = true
	return false, nil
}
