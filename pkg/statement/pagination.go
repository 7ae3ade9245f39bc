// pkg/statement/pagination.go
package statement

import (
	"errors"
	"fmt"

	"shardmerge/pkg/types"
)

// ErrInvalidPagination is returned when a pagination value cannot be resolved
var ErrInvalidPagination = errors.New("invalid pagination value")

// PaginationValue is an offset or row count, either a literal or a bound
// parameter. BoundOpened marks an inclusive ROW_NUMBER bound (>= or <=).
type PaginationValue struct {
	Value          int64
	Parameterized  bool
	ParameterIndex int // 0-based position in PaginationContext.Parameters
	BoundOpened    bool
}

// Literal creates a literal pagination value.
func Literal(v int64) *PaginationValue {
	return &PaginationValue{Value: v}
}

// Parameter creates a pagination value bound to the parameter at index.
func Parameter(index int) *PaginationValue {
	return &PaginationValue{Parameterized: true, ParameterIndex: index}
}

// Opened returns a copy of v marked as an inclusive bound.
func (v *PaginationValue) Opened() *PaginationValue {
	c := *v
	c.BoundOpened = true
	return &c
}

// PaginationContext holds the offset and row count of a statement together
// with the parameters they may be bound to.
type PaginationContext struct {
	Offset     *PaginationValue
	RowCount   *PaginationValue
	Parameters []any
}

// HasPagination reports whether an offset or row count is present.
func (p *PaginationContext) HasPagination() bool {
	return p.Offset != nil || p.RowCount != nil
}

// ActualOffset returns the resolved offset, 0 when absent.
func (p *PaginationContext) ActualOffset() (int64, error) {
	if p.Offset == nil {
		return 0, nil
	}
	v, err := p.resolve(p.Offset)
	if err != nil {
		return 0, fmt.Errorf("offset: %w", err)
	}
	if v < 0 {
		return 0, nil
	}
	return v, nil
}

// ActualRowCount returns the resolved row count. ok is false when absent.
func (p *PaginationContext) ActualRowCount() (count int64, ok bool, err error) {
	if p.RowCount == nil {
		return 0, false, nil
	}
	v, err := p.resolve(p.RowCount)
	if err != nil {
		return 0, false, fmt.Errorf("row count: %w", err)
	}
	if v < 0 {
		v = 0
	}
	return v, true, nil
}

// OffsetBoundOpened reports whether the offset is an inclusive lower bound.
func (p *PaginationContext) OffsetBoundOpened() bool {
	return p.Offset != nil && p.Offset.BoundOpened
}

// RowCountBoundOpened reports whether the row count is an inclusive upper bound.
func (p *PaginationContext) RowCountBoundOpened() bool {
	return p.RowCount != nil && p.RowCount.BoundOpened
}

func (p *PaginationContext) resolve(v *PaginationValue) (int64, error) {
	if !v.Parameterized {
		return v.Value, nil
	}
	if v.ParameterIndex < 0 || v.ParameterIndex >= len(p.Parameters) {
		return 0, fmt.Errorf("%w: parameter %d of %d", ErrInvalidPagination, v.ParameterIndex, len(p.Parameters))
	}
	raw := p.Parameters[v.ParameterIndex]
	if raw == nil {
		return 0, fmt.Errorf("%w: parameter %d is NULL", ErrInvalidPagination, v.ParameterIndex)
	}
	n, err := types.Convert(raw, types.TypeInt64)
	if err != nil {
		return 0, fmt.Errorf("%w: parameter %d: %v", ErrInvalidPagination, v.ParameterIndex, err)
	}
	return n.(int64), nil
}
