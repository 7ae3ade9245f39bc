// pkg/merger/transparent.go
package merger

import (
	"shardmerge/pkg/queryresult"
)

// TransparentEngine forwards the first shard result unchanged. It serves
// statements that have nothing to combine across shards.
type TransparentEngine struct {
	results []queryresult.QueryResult
}

// NewTransparentEngine creates a transparent engine over results.
func NewTransparentEngine(results []queryresult.QueryResult) *TransparentEngine {
	return &TransparentEngine{results: results}
}

// Merge returns the first shard result, or an empty result when there is none.
func (e *TransparentEngine) Merge() (MergedResult, error) {
	return NewTransparent(e.results), nil
}

// Transparent is a merged result that reads through to the first shard result.
type Transparent struct {
	*Stream
	done bool
}

// NewTransparent creates a transparent result owning results.
func NewTransparent(results []queryresult.QueryResult) *Transparent {
	t := &Transparent{Stream: NewStream(results)}
	if len(results) > 0 {
		t.SetCurrent(results[0])
	}
	return t
}

func (t *Transparent) Next() (bool, error) {
	if t.done || t.Current() == nil {
		return false, nil
	}
	ok, err := t.Current().Next()
	if err != nil {
		return false, err
	}
	if !ok {
		t.done = true
	}
	return ok, nil
}
