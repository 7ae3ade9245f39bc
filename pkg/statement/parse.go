// pkg/statement/parse.go
package statement

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xwb1989/sqlparser"
)

// ErrEmptySQL is returned when there is no statement to classify
var ErrEmptySQL = errors.New("empty SQL statement")

// Classify returns the merge-relevant kind of sql.
func Classify(sql string) (Kind, error) {
	words := keywords(sql, 1)
	if len(words) == 0 {
		return KindOther, ErrEmptySQL
	}
	switch words[0] {
	case "describe", "desc":
		return KindDAL, nil
	}

	switch sqlparser.Preview(sql) {
	case sqlparser.StmtSelect:
		return KindSelect, nil
	case sqlparser.StmtInsert, sqlparser.StmtReplace:
		return KindInsert, nil
	case sqlparser.StmtUpdate:
		return KindUpdate, nil
	case sqlparser.StmtDelete:
		return KindDelete, nil
	case sqlparser.StmtDDL:
		return KindDDL, nil
	case sqlparser.StmtShow, sqlparser.StmtUse, sqlparser.StmtSet:
		return KindDAL, nil
	default:
		return KindOther, nil
	}
}

// Parse builds the statement context of sql. A SELECT gets its tables only;
// group, order, projection and pagination descriptors come from the planner.
func Parse(sql string) (Context, error) {
	kind, err := Classify(sql)
	if err != nil {
		return nil, err
	}
	switch kind {
	case KindSelect:
		tables, err := SelectTables(sql)
		if err != nil {
			return nil, err
		}
		return &SelectContext{Tables: TablesContext{Names: tables}}, nil
	case KindDAL:
		return ParseDAL(sql), nil
	default:
		return NewCommonContext(kind), nil
	}
}

// SelectTables returns the tables named in the FROM clause of a SELECT.
func SelectTables(sql string) ([]string, error) {
	stmt, err := sqlparser.Parse(sql)
	if err != nil {
		return nil, fmt.Errorf("failed to parse SQL: %w", err)
	}
	var names []string
	var collect func(sqlparser.SelectStatement)
	collect = func(s sqlparser.SelectStatement) {
		switch s := s.(type) {
		case *sqlparser.Select:
			names = appendTableExprs(names, s.From)
		case *sqlparser.Union:
			collect(s.Left)
			collect(s.Right)
		case *sqlparser.ParenSelect:
			collect(s.Select)
		}
	}
	sel, ok := stmt.(sqlparser.SelectStatement)
	if !ok {
		return nil, fmt.Errorf("not a SELECT statement: %T", stmt)
	}
	collect(sel)
	return names, nil
}

func appendTableExprs(names []string, exprs sqlparser.TableExprs) []string {
	for _, expr := range exprs {
		switch e := expr.(type) {
		case *sqlparser.AliasedTableExpr:
			if t, ok := e.Expr.(sqlparser.TableName); ok {
				names = appendUnique(names, t.Name.String())
			}
		case *sqlparser.JoinTableExpr:
			names = appendTableExprs(names, sqlparser.TableExprs{e.LeftExpr, e.RightExpr})
		case *sqlparser.ParenTableExpr:
			names = appendTableExprs(names, e.Exprs)
		}
	}
	return names
}

func appendUnique(names []string, name string) []string {
	for _, n := range names {
		if n == name {
			return names
		}
	}
	return append(names, name)
}

// ParseDAL determines the DAL type of sql and the table it targets.
func ParseDAL(sql string) *DALContext {
	words := keywords(sql, 6)
	raw := fields(sql)
	table := func(i int) TablesContext {
		if i >= len(raw) {
			return TablesContext{}
		}
		return TablesContext{Names: []string{tableName(raw[i])}}
	}

	if len(words) >= 2 && (words[0] == "describe" || words[0] == "desc") {
		return &DALContext{Type: DALDescribe, Tables: table(1)}
	}
	if len(words) < 2 || words[0] != "show" {
		return &DALContext{Type: DALOther}
	}

	rest := words[1:]
	if rest[0] == "full" {
		rest = rest[1:]
	}
	switch {
	case len(rest) > 0 && (rest[0] == "databases" || rest[0] == "schemas"):
		return &DALContext{Type: DALShowDatabases}
	case len(rest) > 0 && rest[0] == "tables":
		return &DALContext{Type: DALShowTables}
	case len(rest) > 1 && rest[0] == "table" && rest[1] == "status":
		return &DALContext{Type: DALShowTableStatus}
	case len(rest) > 1 && rest[0] == "create" && rest[1] == "table":
		return &DALContext{Type: DALShowCreateTable, Tables: table(3)}
	case len(rest) > 1 && (rest[0] == "index" || rest[0] == "indexes" || rest[0] == "keys") &&
		(rest[1] == "from" || rest[1] == "in"):
		return &DALContext{Type: DALShowIndex, Tables: table(len(words) - len(rest) + 2)}
	}
	return &DALContext{Type: DALOther}
}

// fields splits sql on whitespace after dropping a trailing semicolon.
func fields(sql string) []string {
	return strings.Fields(strings.TrimSuffix(strings.TrimSpace(sql), ";"))
}

// keywords returns up to n leading words of sql, lowercased.
func keywords(sql string, n int) []string {
	raw := fields(sql)
	if len(raw) > n {
		raw = raw[:n]
	}
	out := make([]string, len(raw))
	for i, w := range raw {
		out[i] = strings.ToLower(w)
	}
	return out
}

// tableName strips quoting and a schema qualifier.
func tableName(word string) string {
	word = strings.Trim(word, "`\"")
	if i := strings.LastIndexByte(word, '.'); i >= 0 {
		word = strings.Trim(word[i+1:], "`\"")
	}
	return word
}
