// pkg/merger/dql/decorator.go
package dql

import (
	"shardmerge/pkg/merger"
	"shardmerge/pkg/statement"
)

// decorator re-applies pagination on an already merged result. Reads go to
// the inner result; only Next is overridden.
type decorator struct {
	merger.MergedResult
	skipped bool
	done    bool
}

// Inner returns the wrapped result.
func (d *decorator) Inner() merger.MergedResult {
	return d.MergedResult
}

// skip advances the inner result n times. It reports false when the inner
// result ran out first.
func (d *decorator) skip(n int64) (bool, error) {
	for i := int64(0); i < n; i++ {
		ok, err := d.MergedResult.Next()
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func (d *decorator) step(allowed bool) (bool, error) {
	if !allowed {
		d.done = true
		return false, nil
	}
	ok, err := d.MergedResult.Next()
	if err != nil {
		return false, err
	}
	if !ok {
		d.done = true
	}
	return ok, nil
}

// limitDecorator implements LIMIT offset, count: offset rows are skipped and
// at most count rows follow.
type limitDecorator struct {
	decorator
	offset      int64
	rowCount    int64
	hasRowCount bool
	rowNumber   int64
}

func newLimitDecorator(inner merger.MergedResult, p *statement.PaginationContext) (*limitDecorator, error) {
	offset, err := p.ActualOffset()
	if err != nil {
		return nil, err
	}
	rowCount, ok, err := p.ActualRowCount()
	if err != nil {
		return nil, err
	}
	return &limitDecorator{
		decorator:   decorator{MergedResult: inner},
		offset:      offset,
		rowCount:    rowCount,
		hasRowCount: ok,
	}, nil
}

func (d *limitDecorator) Next() (bool, error) {
	if d.done {
		return false, nil
	}
	if !d.skipped {
		d.skipped = true
		ok, err := d.skip(d.offset)
		if err != nil {
			return false, err
		}
		if !ok {
			d.done = true
			return false, nil
		}
	}
	if !d.hasRowCount {
		return d.step(true)
	}
	d.rowNumber++
	return d.step(d.rowNumber <= d.rowCount)
}

// rowNumberDecorator implements a ROWNUM window: rows numbered above the
// offset and below the row count bound surface. An opened offset (rn >= N)
// keeps row N; an opened row count (rn <= M) keeps row M.
type rowNumberDecorator struct {
	decorator
	skipRows       int64
	rowCount       int64
	hasRowCount    bool
	rowCountOpened bool
	rowNumber      int64
}

func newRowNumberDecorator(inner merger.MergedResult, p *statement.PaginationContext) (*rowNumberDecorator, error) {
	offset, err := p.ActualOffset()
	if err != nil {
		return nil, err
	}
	rowCount, ok, err := p.ActualRowCount()
	if err != nil {
		return nil, err
	}
	skipRows := offset
	if p.OffsetBoundOpened() && skipRows > 0 {
		skipRows--
	}
	return &rowNumberDecorator{
		decorator:      decorator{MergedResult: inner},
		skipRows:       skipRows,
		rowCount:       rowCount,
		hasRowCount:    ok,
		rowCountOpened: p.RowCountBoundOpened(),
	}, nil
}

func (d *rowNumberDecorator) Next() (bool, error) {
	if d.done {
		return false, nil
	}
	if !d.skipped {
		d.skipped = true
		ok, err := d.skip(d.skipRows)
		if err != nil {
			return false, err
		}
		if !ok {
			d.done = true
			return false, nil
		}
		d.rowNumber = d.skipRows + 1
	}
	if !d.hasRowCount {
		return d.step(true)
	}
	n := d.rowNumber
	d.rowNumber++
	if d.rowCountOpened {
		return d.step(n <= d.rowCount)
	}
	return d.step(n < d.rowCount)
}

// topAndRowNumberDecorator implements TOP M with a ROW_NUMBER() > N lower
// bound: rows N+1 through M surface. An opened offset (ROW_NUMBER() >= N)
// keeps row N.
type topAndRowNumberDecorator struct {
	decorator
	offset    int64
	top       int64
	hasTop    bool
	rowNumber int64
}

func newTopAndRowNumberDecorator(inner merger.MergedResult, p *statement.PaginationContext) (*topAndRowNumberDecorator, error) {
	offset, err := p.ActualOffset()
	if err != nil {
		return nil, err
	}
	top, ok, err := p.ActualRowCount()
	if err != nil {
		return nil, err
	}
	if p.OffsetBoundOpened() && offset > 0 {
		offset--
	}
	return &topAndRowNumberDecorator{
		decorator: decorator{MergedResult: inner},
		offset:    offset,
		top:       top,
		hasTop:    ok,
	}, nil
}

func (d *topAndRowNumberDecorator) Next() (bool, error) {
	if d.done {
		return false, nil
	}
	if !d.skipped {
		d.skipped = true
		ok, err := d.skip(d.offset)
		if err != nil {
			return false, err
		}
		if !ok {
			d.done = true
			return false, nil
		}
		d.rowNumber = d.offset
	}
	if !d.hasTop {
		return d.step(true)
	}
	d.rowNumber++
	return d.step(d.rowNumber <= d.top)
}
