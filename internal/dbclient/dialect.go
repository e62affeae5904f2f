package dbclient

import (
	"fmt"
	"strings"

	"hostpanel/internal/domain"
)

// Dialect holds the engine-specific SQL the browser needs.
type Dialect interface {
	Name() domain.DatabaseDriver
	// DriverName is the database/sql driver registration name.
	DriverName() string
	DefaultPort() int
	// FallbackDatabase is used when neither the caller nor the host names one.
	FallbackDatabase() string
	DSN(cred domain.HostCredential, database string) string
	// SystemSchemas are hidden from database listings.
	SystemSchemas() []string
	ListDatabasesQuery() string
	TableCountQuery(database string) (string, []any)
	ListTablesQuery(database string) (string, []any)
	DescribeQuery(table string) (string, []any)
	QuoteIdent(name string) string
}

// DialectFor returns the dialect for driver.
func DialectFor(driver domain.DatabaseDriver) (Dialect, error) {
	switch driver {
	case domain.DatabaseDriverMySQL:
		return mysqlDialect{}, nil
	case domain.DatabaseDriverPostgres:
		return postgresDialect{}, nil
	case domain.DatabaseDriverSQLite:
		return sqliteDialect{}, nil
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}
}

func isSystemSchema(d Dialect, name string) bool {
	for _, s := range d.SystemSchemas() {
		if strings.EqualFold(s, name) {
			return true
		}
	}
	return false
}

func quoteWith(name, quote string) string {
	return quote + strings.ReplaceAll(name, quote, quote+quote) + quote
}

func selectPageQuery(d Dialect, table string, limit int) string {
	return fmt.Sprintf("SELECT * FROM %s LIMIT %d", d.QuoteIdent(table), limit)
}

func countRowsQuery(d Dialect, table string) string {
	return "SELECT COUNT(*) FROM " + d.QuoteIdent(table)
}
