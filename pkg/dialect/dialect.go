// pkg/dialect/dialect.go
package dialect

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownDatabaseType is returned when a database type name is not recognized
var ErrUnknownDatabaseType = errors.New("unknown database type")

// DatabaseType is the SQL dialect of the shards
type DatabaseType int

const (
	Unknown DatabaseType = iota
	MySQL
	PostgreSQL
	Oracle
	SQLServer
	H2
)

var names = map[DatabaseType]string{
	MySQL:      "MySQL",
	PostgreSQL: "PostgreSQL",
	Oracle:     "Oracle",
	SQLServer:  "SQLServer",
	H2:         "H2",
}

// String returns the canonical name of the database type
func (d DatabaseType) String() string {
	if name, ok := names[d]; ok {
		return name
	}
	return "Unknown"
}

// Pagination is the way a dialect expresses row limits
type Pagination int

const (
	PaginationNone Pagination = iota
	// PaginationLimit is LIMIT/OFFSET
	PaginationLimit
	// PaginationRowNumber is a ROWNUM bound in a wrapping query
	PaginationRowNumber
	// PaginationTopAndRowNumber is TOP with a ROW_NUMBER() lower bound
	PaginationTopAndRowNumber
)

// Pagination returns how the dialect paginates
func (d DatabaseType) Pagination() Pagination {
	switch d {
	case MySQL, PostgreSQL, H2:
		return PaginationLimit
	case Oracle:
		return PaginationRowNumber
	case SQLServer:
		return PaginationTopAndRowNumber
	default:
		return PaginationNone
	}
}

// Parse returns the database type for a name, ignoring case.
// "PG", "Postgres" and "MSSQL" are accepted as aliases.
func Parse(name string) (DatabaseType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "mysql", "mariadb":
		return MySQL, nil
	case "postgresql", "postgres", "pg":
		return PostgreSQL, nil
	case "oracle":
		return Oracle, nil
	case "sqlserver", "mssql":
		return SQLServer, nil
	case "h2":
		return H2, nil
	}
	return Unknown, fmt.Errorf("%w: %q", ErrUnknownDatabaseType, name)
}

// UnmarshalText implements encoding.TextUnmarshaler so configuration files
// can name the dialect.
func (d *DatabaseType) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (d DatabaseType) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}
