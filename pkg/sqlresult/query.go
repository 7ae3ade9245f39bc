// pkg/sqlresult/query.go
package sqlresult

import (
	"context"
	"database/sql"
	"fmt"

	"golang.org/x/sync/errgroup"

	"shardmerge/pkg/queryresult"
)

// QueryAll runs query on every shard concurrently and returns one QueryResult
// per shard, in the order of dbs. If any shard fails, the results already
// opened are closed and the first error is returned.
func QueryAll(ctx context.Context, dbs []*sql.DB, query string, args ...any) ([]queryresult.QueryResult, error) {
	results := make([]*Rows, len(dbs))

	// The rows outlive the group, so queries run on ctx rather than on a
	// group context that is canceled when Wait returns.
	var eg errgroup.Group
	for i, db := range dbs {
		i, db := i, db
		eg.Go(func() error {
			rows, err := db.QueryContext(ctx, query, args...)
			if err != nil {
				return fmt.Errorf("shard %d: %w", i, err)
			}
			r, err := New(rows)
			if err != nil {
				return fmt.Errorf("shard %d: %w", i, err)
			}
			results[i] = r
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		for _, r := range results {
			if r != nil {
				r.Close()
			}
		}
		return nil, err
	}

	out := make([]queryresult.QueryResult, len(results))
	for i, r := range results {
		out[i] = r
	}
	return out, nil
}
