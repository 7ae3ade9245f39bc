// pkg/schema/schema.go
package schema

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"shardmerge/pkg/types"
)

var (
	ErrTableExists   = errors.New("table already exists")
	ErrTableNotFound = errors.New("table not found")
)

// ColumnDef describes one column of a logical table
type ColumnDef struct {
	Name       string
	Type       types.ValueType
	PrimaryKey bool
	// CaseSensitive is false for columns whose collation compares text
	// case-insensitively (for example MySQL *_ci collations).
	CaseSensitive bool
}

// TableDef describes a logical table
type TableDef struct {
	Name    string
	Columns []ColumnDef
}

// GetColumn returns the column definition and index by name, ignoring case.
// Returns (nil, -1) if not found
func (t *TableDef) GetColumn(name string) (*ColumnDef, int) {
	for i := range t.Columns {
		if strings.EqualFold(t.Columns[i].Name, name) {
			return &t.Columns[i], i
		}
	}
	return nil, -1
}

// TableMetas holds the logical table metadata the merge layer consults.
// Table names are matched case-insensitively.
type TableMetas struct {
	mu     sync.RWMutex
	tables map[string]*TableDef
}

// NewTableMetas creates a new empty set of table metadata
func NewTableMetas() *TableMetas {
	return &TableMetas{tables: make(map[string]*TableDef)}
}

// AddTable registers a table definition
func (m *TableMetas) AddTable(def *TableDef) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(def.Name)
	if _, exists := m.tables[key]; exists {
		return ErrTableExists
	}
	m.tables[key] = def
	return nil
}

// DropTable removes a table definition
func (m *TableMetas) DropTable(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(name)
	if _, exists := m.tables[key]; !exists {
		return ErrTableNotFound
	}
	delete(m.tables, key)
	return nil
}

// GetTable returns a table definition by name, or nil if absent
func (m *TableMetas) GetTable(name string) *TableDef {
	if m == nil {
		return nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tables[strings.ToLower(name)]
}

// ContainsTable reports whether the table is known
func (m *TableMetas) ContainsTable(name string) bool {
	return m.GetTable(name) != nil
}

// ListTables returns all table names in sorted order
func (m *TableMetas) ListTables() []string {
	if m == nil {
		return nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.tables))
	for _, t := range m.tables {
		names = append(names, t.Name)
	}
	sort.Strings(names)
	return names
}

// IsCaseSensitive reports whether column compares case-sensitively in the
// first of tables that declares it. Unknown columns are case-sensitive.
func (m *TableMetas) IsCaseSensitive(tables []string, column string) bool {
	for _, name := range tables {
		t := m.GetTable(name)
		if t == nil {
			continue
		}
		if col, _ := t.GetColumn(column); col != nil {
			return col.CaseSensitive
		}
	}
	return true
}
