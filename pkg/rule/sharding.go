// pkg/rule/sharding.go
package rule

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrInvalidRule is returned when a rule configuration cannot be built
var ErrInvalidRule = errors.New("invalid rule")

// DataNode is one physical table in one data source
type DataNode struct {
	DataSource string
	Table      string
}

// ParseDataNode parses "<dataSource>.<table>".
func ParseDataNode(s string) (DataNode, error) {
	ds, table, ok := strings.Cut(strings.TrimSpace(s), ".")
	if !ok || ds == "" || table == "" || strings.Contains(table, ".") {
		return DataNode{}, fmt.Errorf("%w: data node %q is not <dataSource>.<table>", ErrInvalidRule, s)
	}
	return DataNode{DataSource: ds, Table: table}, nil
}

// TableRule maps a logical table to its physical data nodes
type TableRule struct {
	LogicTable      string
	ActualDataNodes []DataNode
}

// ShardingRule is a read-only snapshot of the sharding configuration.
// Every method is safe for concurrent use; nothing hands out internal maps.
type ShardingRule struct {
	schemaName    string
	tableRules    []TableRule
	actualToLogic map[string]int // lowercased actual table -> index into tableRules
	encrypt       *EncryptRule
}

// NewShardingRule validates cfg and builds a snapshot from it.
func NewShardingRule(cfg Config) (*ShardingRule, error) {
	r := &ShardingRule{
		schemaName:    cfg.SchemaName,
		actualToLogic: make(map[string]int),
	}

	logicNames := make([]string, 0, len(cfg.Tables))
	for name := range cfg.Tables {
		logicNames = append(logicNames, name)
	}
	sort.Strings(logicNames)

	for _, logic := range logicNames {
		tc := cfg.Tables[logic]
		if len(tc.ActualDataNodes) == 0 {
			return nil, fmt.Errorf("%w: table %q has no actual data nodes", ErrInvalidRule, logic)
		}
		tr := TableRule{LogicTable: logic}
		for _, s := range tc.ActualDataNodes {
			node, err := ParseDataNode(s)
			if err != nil {
				return nil, fmt.Errorf("table %q: %w", logic, err)
			}
			key := strings.ToLower(node.Table)
			if i, taken := r.actualToLogic[key]; taken && i != len(r.tableRules) {
				return nil, fmt.Errorf("%w: actual table %q belongs to %q and %q",
					ErrInvalidRule, node.Table, r.tableRules[i].LogicTable, logic)
			}
			r.actualToLogic[key] = len(r.tableRules)
			tr.ActualDataNodes = append(tr.ActualDataNodes, node)
		}
		r.tableRules = append(r.tableRules, tr)
	}

	encrypt, err := NewEncryptRule(cfg.Encrypt)
	if err != nil {
		return nil, err
	}
	r.encrypt = encrypt
	return r, nil
}

// SchemaName returns the logical schema name
func (r *ShardingRule) SchemaName() string {
	return r.schemaName
}

// TableRules returns a copy of all table rules ordered by logical name
func (r *ShardingRule) TableRules() []TableRule {
	out := make([]TableRule, len(r.tableRules))
	for i, tr := range r.tableRules {
		out[i] = TableRule{
			LogicTable:      tr.LogicTable,
			ActualDataNodes: append([]DataNode(nil), tr.ActualDataNodes...),
		}
	}
	return out
}

// HasTableRules reports whether any table is sharded
func (r *ShardingRule) HasTableRules() bool {
	return len(r.tableRules) > 0
}

// FindLogicTable returns the logical table that owns the actual table.
func (r *ShardingRule) FindLogicTable(actualTable string) (string, bool) {
	i, ok := r.actualToLogic[strings.ToLower(actualTable)]
	if !ok {
		return "", false
	}
	return r.tableRules[i].LogicTable, true
}

// EncryptRule returns the encrypt rule, never nil
func (r *ShardingRule) EncryptRule() *EncryptRule {
	return r.encrypt
}
