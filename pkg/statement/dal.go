// pkg/statement/dal.go
package statement

// DALType identifies the schema introspection statement being merged
type DALType int

const (
	DALOther DALType = iota
	DALDescribe
	DALShowDatabases
	DALShowTables
	DALShowTableStatus
	DALShowCreateTable
	DALShowIndex
)

func (t DALType) String() string {
	switch t {
	case DALDescribe:
		return "DESCRIBE"
	case DALShowDatabases:
		return "SHOW DATABASES"
	case DALShowTables:
		return "SHOW TABLES"
	case DALShowTableStatus:
		return "SHOW TABLE STATUS"
	case DALShowCreateTable:
		return "SHOW CREATE TABLE"
	case DALShowIndex:
		return "SHOW INDEX"
	default:
		return "OTHER"
	}
}
