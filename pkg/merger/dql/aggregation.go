// pkg/merger/dql/aggregation.go
package dql

import (
	"fmt"

	"github.com/shopspring/decimal"

	"shardmerge/pkg/statement"
	"shardmerge/pkg/types"
)

// avgScale is the number of decimal places of a merged AVG
const avgScale = 4

// aggregationUnit folds one aggregate column across the rows of a group.
type aggregationUnit interface {
	merge(row []any) error
	// finish writes the folded values into row.
	finish(row []any)
}

// newAggregationUnits creates one unit per aggregate projection.
func newAggregationUnits(projections []statement.AggregationProjection) ([]aggregationUnit, error) {
	units := make([]aggregationUnit, 0, len(projections))
	for _, p := range projections {
		switch p.Type {
		case statement.AggregationCount, statement.AggregationSum:
			units = append(units, &accumulationUnit{index: p.Index})
		case statement.AggregationMax:
			units = append(units, &comparableUnit{index: p.Index, keep: 1})
		case statement.AggregationMin:
			units = append(units, &comparableUnit{index: p.Index, keep: -1})
		case statement.AggregationAvg:
			count, okCount := p.DerivedOf(statement.AggregationCount)
			sum, okSum := p.DerivedOf(statement.AggregationSum)
			if !okCount || !okSum {
				return nil, fmt.Errorf("AVG at column %d needs a derived COUNT and SUM", p.Index)
			}
			units = append(units, &averageUnit{index: p.Index, countIndex: count.Index, sumIndex: sum.Index})
		default:
			return nil, fmt.Errorf("unsupported aggregation %v at column %d", p.Type, p.Index)
		}
	}
	return units, nil
}

func column(row []any, index int) (any, error) {
	if index < 1 || index > len(row) {
		return nil, fmt.Errorf("aggregation column %d out of %d columns", index, len(row))
	}
	return row[index-1], nil
}

// accumulationUnit sums partial COUNT or SUM values. All-NULL input stays NULL.
type accumulationUnit struct {
	index int
	sum   decimal.Decimal
	seen  bool
}

func (u *accumulationUnit) merge(row []any) error {
	v, err := column(row, u.index)
	if err != nil || v == nil {
		return err
	}
	d, err := types.ToDecimal(v)
	if err != nil {
		return fmt.Errorf("column %d: %w", u.index, err)
	}
	u.sum = u.sum.Add(d)
	u.seen = true
	return nil
}

func (u *accumulationUnit) finish(row []any) {
	if u.seen {
		row[u.index-1] = u.sum
	} else {
		row[u.index-1] = nil
	}
}

// comparableUnit keeps the greatest (keep 1) or least (keep -1) value.
type comparableUnit struct {
	index int
	keep  int
	value any
}

func (u *comparableUnit) merge(row []any) error {
	v, err := column(row, u.index)
	if err != nil || v == nil {
		return err
	}
	if u.value == nil || types.Compare(v, u.value)*u.keep > 0 {
		u.value = v
	}
	return nil
}

func (u *comparableUnit) finish(row []any) {
	row[u.index-1] = u.value
}

// averageUnit recomputes AVG from its derived COUNT and SUM columns. The
// average is divided once, when the group is finished.
type averageUnit struct {
	index      int
	countIndex int
	sumIndex   int
	count      decimal.Decimal
	sum        decimal.Decimal
	seen       bool
}

func (u *averageUnit) merge(row []any) error {
	c, err := column(row, u.countIndex)
	if err != nil {
		return err
	}
	s, err := column(row, u.sumIndex)
	if err != nil {
		return err
	}
	if c == nil || s == nil {
		return nil
	}
	cd, err := types.ToDecimal(c)
	if err != nil {
		return fmt.Errorf("column %d: %w", u.countIndex, err)
	}
	sd, err := types.ToDecimal(s)
	if err != nil {
		return fmt.Errorf("column %d: %w", u.sumIndex, err)
	}
	u.count = u.count.Add(cd)
	u.sum = u.sum.Add(sd)
	u.seen = true
	return nil
}

func (u *averageUnit) finish(row []any) {
	if !u.seen {
		row[u.index-1] = nil
		row[u.countIndex-1] = nil
		row[u.sumIndex-1] = nil
		return
	}
	row[u.countIndex-1] = u.count
	row[u.sumIndex-1] = u.sum
	if u.count.IsZero() {
		row[u.index-1] = nil
		return
	}
	row[u.index-1] = u.sum.DivRound(u.count, avgScale)
}

// aggregationState folds the rows of one group. The first row supplies the
// values of every column that is not aggregated.
type aggregationState struct {
	row   []any
	units []aggregationUnit
}

func newAggregationState(first []any, projections []statement.AggregationProjection) (*aggregationState, error) {
	units, err := newAggregationUnits(projections)
	if err != nil {
		return nil, err
	}
	row := make([]any, len(first))
	copy(row, first)
	return &aggregationState{row: row, units: units}, nil
}

func (s *aggregationState) merge(row []any) error {
	for _, u := range s.units {
		if err := u.merge(row); err != nil {
			return err
		}
	}
	return nil
}

// finish returns the group row with every aggregate column filled in.
func (s *aggregationState) finish() []any {
	for _, u := range s.units {
		u.finish(s.row)
	}
	return s.row
}
