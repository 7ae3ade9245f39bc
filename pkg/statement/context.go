// pkg/statement/context.go
package statement

// Kind classifies a logical statement for merging.
type Kind int

const (
	KindOther Kind = iota
	KindSelect
	KindInsert
	KindUpdate
	KindDelete
	KindDDL
	KindDAL
)

// String returns the string representation of the statement kind
func (k Kind) String() string {
	switch k {
	case KindSelect:
		return "SELECT"
	case KindInsert:
		return "INSERT"
	case KindUpdate:
		return "UPDATE"
	case KindDelete:
		return "DELETE"
	case KindDDL:
		return "DDL"
	case KindDAL:
		return "DAL"
	default:
		return "OTHER"
	}
}

// Context is the read-only, already parsed view of a routed statement.
type Context interface {
	Kind() Kind
}

// SelectContext describes a SELECT statement.
type SelectContext struct {
	GroupBy     []OrderByItem
	OrderBy     []OrderByItem
	Projections ProjectionsContext
	Pagination  *PaginationContext
	Tables      TablesContext
}

func (*SelectContext) Kind() Kind { return KindSelect }

// GroupByCompatibleWithOrderBy reports whether the group-by items are a prefix
// of the order-by items with the same directions, so each shard returns rows
// already clustered by group key.
func (c *SelectContext) GroupByCompatibleWithOrderBy() bool {
	if len(c.GroupBy) == 0 || len(c.GroupBy) > len(c.OrderBy) {
		return false
	}
	for i, g := range c.GroupBy {
		if !g.SameAs(c.OrderBy[i]) {
			return false
		}
	}
	return true
}

// HasPagination reports whether an offset or row count is present.
func (c *SelectContext) HasPagination() bool {
	return c.Pagination != nil && c.Pagination.HasPagination()
}

// DALContext describes a schema introspection statement.
type DALContext struct {
	Type   DALType
	Tables TablesContext
}

func (*DALContext) Kind() Kind { return KindDAL }

// CommonContext describes any statement without merge semantics.
type CommonContext struct {
	kind Kind
}

// NewCommonContext creates a context for a statement of kind.
func NewCommonContext(kind Kind) *CommonContext {
	return &CommonContext{kind: kind}
}

func (c *CommonContext) Kind() Kind { return c.kind }

// TablesContext holds the logical tables a statement touches.
type TablesContext struct {
	Names []string
}

// SingleTableName returns the only table, or "" when there is not exactly one.
func (t TablesContext) SingleTableName() string {
	if len(t.Names) != 1 {
		return ""
	}
	return t.Names[0]
}
