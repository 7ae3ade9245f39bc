// pkg/statement/order.go
package statement

// OrderDirection is the sort direction of an ORDER BY or GROUP BY item
type OrderDirection int

const (
	OrderAsc OrderDirection = iota
	OrderDesc
)

func (d OrderDirection) String() string {
	if d == OrderDesc {
		return "DESC"
	}
	return "ASC"
}

// NullOrder places NULLs relative to other values.
// NullsDefault sorts NULL as the smallest value, so it comes first for ASC
// and last for DESC.
type NullOrder int

const (
	NullsDefault NullOrder = iota
	NullsFirst
	NullsLast
)

// OrderByItem is one ORDER BY or GROUP BY column, addressed by its 1-based
// position in the shard result.
type OrderByItem struct {
	Index     int
	Direction OrderDirection
	NullOrder NullOrder
}

// NullsFirst reports whether NULL sorts before every other value.
func (o OrderByItem) NullsFirst() bool {
	switch o.NullOrder {
	case NullsFirst:
		return true
	case NullsLast:
		return false
	}
	return o.Direction == OrderAsc
}

// SameAs reports whether two items sort the same column the same way.
func (o OrderByItem) SameAs(other OrderByItem) bool {
	return o.Index == other.Index && o.Direction == other.Direction && o.NullsFirst() == other.NullsFirst()
}
