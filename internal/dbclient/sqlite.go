package dbclient

import (
	"hostpanel/internal/domain"

	_ "modernc.org/sqlite"
)

// sqliteDialect browses a database file. The host address is the file path and
// attached schemas act as databases.
type sqliteDialect struct{}

func (sqliteDialect) Name() domain.DatabaseDriver { return domain.DatabaseDriverSQLite }
func (sqliteDialect) DriverName() string { return "sqlite" }
func (sqliteDialect) DefaultPort() int { return 0 }
func (sqliteDialect) FallbackDatabase() string { return "main" }

func (sqliteDialect) DSN(cred domain.HostCredential, _ string) string {
	return cred.Address + "?_pragma=busy_timeout(5000)"
}

func (sqliteDialect) SystemSchemas() []string { return []string{"temp"} }

func (sqliteDialect) ListDatabasesQuery() string {
	return "SELECT name FROM pragma_database_list ORDER BY seq"
}

func (d sqliteDialect) TableCountQuery(database string) (string, []any) {
	return "SELECT COUNT(*) FROM " + d.QuoteIdent(database) +
		".sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'", nil
}

func (d sqliteDialect) ListTablesQuery(database string) (string, []any) {
	return "SELECT name FROM " + d.QuoteIdent(database) +
		".sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name", nil
}

func (sqliteDialect) DescribeQuery(table string) (string, []any) {
	return `SELECT name AS "Field", type AS "Type",
		CASE WHEN "notnull" = 0 THEN 'YES' ELSE 'NO' END AS "Null",
		CASE WHEN pk > 0 THEN 'PRI' ELSE '' END AS "Key",
		dflt_value AS "Default"
		FROM pragma_table_info(?)`, []any{table}
}

func (sqliteDialect) QuoteIdent(name string) string { return quoteWith(name, `"`) }
