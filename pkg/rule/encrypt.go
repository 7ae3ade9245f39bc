// pkg/rule/encrypt.go
package rule

import (
	"fmt"
	"sort"
	"strings"
)

// EncryptColumn names the physical columns behind one logical column
type EncryptColumn struct {
	LogicColumn         string
	CipherColumn        string
	AssistedQueryColumn string
	PlainColumn         string
}

// EncryptTable holds the encrypted columns of one logical table
type EncryptTable struct {
	columns []EncryptColumn
}

// CipherColumns returns the cipher column names
func (t *EncryptTable) CipherColumns() []string {
	out := make([]string, 0, len(t.columns))
	for _, c := range t.columns {
		out = append(out, c.CipherColumn)
	}
	return out
}

// AssistedQueryColumns returns the assisted query column names
func (t *EncryptTable) AssistedQueryColumns() []string {
	var out []string
	for _, c := range t.columns {
		if c.AssistedQueryColumn != "" {
			out = append(out, c.AssistedQueryColumn)
		}
	}
	return out
}

// IsCipherColumn reports whether column is a cipher column
func (t *EncryptTable) IsCipherColumn(column string) bool {
	for _, c := range t.columns {
		if c.CipherColumn == column {
			return true
		}
	}
	return false
}

// IsAssistedQueryColumn reports whether column is an assisted query column
func (t *EncryptTable) IsAssistedQueryColumn(column string) bool {
	for _, c := range t.columns {
		if c.AssistedQueryColumn != "" && c.AssistedQueryColumn == column {
			return true
		}
	}
	return false
}

// LogicColumn returns the logical column whose cipher column is cipherColumn.
func (t *EncryptTable) LogicColumn(cipherColumn string) (string, bool) {
	for _, c := range t.columns {
		if c.CipherColumn == cipherColumn {
			return c.LogicColumn, true
		}
	}
	return "", false
}

// EncryptRule is a read-only snapshot of the encrypt configuration
type EncryptRule struct {
	tables map[string]*EncryptTable // lowercased logical table name
}

// NewEncryptRule validates cfg and builds a snapshot from it.
func NewEncryptRule(cfg EncryptConfig) (*EncryptRule, error) {
	r := &EncryptRule{tables: make(map[string]*EncryptTable)}
	for table, tc := range cfg.Tables {
		logicColumns := make([]string, 0, len(tc.Columns))
		for name := range tc.Columns {
			logicColumns = append(logicColumns, name)
		}
		sort.Strings(logicColumns)

		et := &EncryptTable{}
		for _, logic := range logicColumns {
			cc := tc.Columns[logic]
			if cc.CipherColumn == "" {
				return nil, fmt.Errorf("%w: encrypt column %s.%s has no cipher column", ErrInvalidRule, table, logic)
			}
			et.columns = append(et.columns, EncryptColumn{
				LogicColumn:         logic,
				CipherColumn:        cc.CipherColumn,
				AssistedQueryColumn: cc.AssistedQueryColumn,
				PlainColumn:         cc.PlainColumn,
			})
		}
		r.tables[strings.ToLower(table)] = et
	}
	return r, nil
}

// FindEncryptTable returns the encrypt configuration of a logical table.
func (r *EncryptRule) FindEncryptTable(logicTable string) (*EncryptTable, bool) {
	if r == nil {
		return nil, false
	}
	t, ok := r.tables[strings.ToLower(logicTable)]
	return t, ok
}
