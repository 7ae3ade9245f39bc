// pkg/statement/projection.go
package statement

// AggregationType is the aggregate function of a projection
type AggregationType int

const (
	AggregationCount AggregationType = iota
	AggregationSum
	AggregationAvg
	AggregationMax
	AggregationMin
)

func (t AggregationType) String() string {
	switch t {
	case AggregationCount:
		return "COUNT"
	case AggregationSum:
		return "SUM"
	case AggregationAvg:
		return "AVG"
	case AggregationMax:
		return "MAX"
	default:
		return "MIN"
	}
}

// AggregationProjection is an aggregate column at a 1-based result index.
// An AVG projection carries one derived COUNT and one derived SUM whose
// indexes point at columns appended after the visible projections.
type AggregationProjection struct {
	Type    AggregationType
	Index   int
	Derived []AggregationProjection
}

// DerivedOf returns the derived projection of type t.
func (p AggregationProjection) DerivedOf(t AggregationType) (AggregationProjection, bool) {
	for _, d := range p.Derived {
		if d.Type == t {
			return d, true
		}
	}
	return AggregationProjection{}, false
}

// Projection is one visible select item.
type Projection struct {
	Label       string
	Aggregation *AggregationProjection // nil for a plain column
}

// ProjectionsContext lists the visible select items in order.
type ProjectionsContext struct {
	Items []Projection
}

// AggregationProjections returns the aggregate items in select order.
func (p ProjectionsContext) AggregationProjections() []AggregationProjection {
	var out []AggregationProjection
	for _, item := range p.Items {
		if item.Aggregation != nil {
			out = append(out, *item.Aggregation)
		}
	}
	return out
}

// HasAggregation reports whether any select item is an aggregate. Without a
// GROUP BY this folds every row into one implicit group.
func (p ProjectionsContext) HasAggregation() bool {
	for _, item := range p.Items {
		if item.Aggregation != nil {
			return true
		}
	}
	return false
}
