package dbclient

import (
	"fmt"

	"hostpanel/internal/domain"

	_ "github.com/lib/pq"
)

type postgresDialect struct{}

func (postgresDialect) Name() domain.DatabaseDriver { return domain.DatabaseDriverPostgres }
func (postgresDialect) DriverName() string { return "postgres" }
func (postgresDialect) DefaultPort() int { return 5432 }
func (postgresDialect) FallbackDatabase() string { return "postgres" }

func (d postgresDialect) DSN(cred domain.HostCredential, database string) string {
	port := cred.Port
	if port == 0 {
		port = d.DefaultPort()
	}
	sslMode := cred.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		quoteConnValue(cred.Address), port, quoteConnValue(cred.Username),
		quoteConnValue(cred.Secret), quoteConnValue(database), sslMode,
	)
}

// quoteConnValue quotes a keyword/value connection string value so spaces and
// quotes in passwords survive.
func quoteConnValue(v string) string {
	out := make([]byte, 0, len(v)+2)
	out = append(out, '\'')
	for i := 0; i < len(v); i++ {
		if v[i] == '\'' || v[i] == '\\' {
			out = append(out, '\\')
		}
		out = append(out, v[i])
	}
	return string(append(out, '\''))
}

func (postgresDialect) SystemSchemas() []string {
	return []string{"information_schema", "pg_catalog"}
}

func (postgresDialect) ListDatabasesQuery() string {
	return "SELECT datname FROM pg_database WHERE NOT datistemplate ORDER BY datname"
}

// TableCountQuery only sees the database the handle is connected to;
// other databases report zero.
func (postgresDialect) TableCountQuery(database string) (string, []any) {
	return `SELECT COUNT(*) FROM information_schema.tables
		WHERE table_catalog = $1 AND table_schema = 'public' AND table_type = 'BASE TABLE'`, []any{database}
}

func (postgresDialect) ListTablesQuery(string) (string, []any) {
	return `SELECT table_name FROM information_schema.tables
		WHERE table_schema = 'public' AND table_type = 'BASE TABLE'
		ORDER BY table_name`, nil
}

func (postgresDialect) DescribeQuery(table string) (string, []any) {
	return `SELECT c.column_name AS "Field", c.data_type AS "Type", c.is_nullable AS "Null",
		CASE WHEN EXISTS (
			SELECT 1 FROM information_schema.table_constraints tc
			JOIN information_schema.key_column_usage k
				ON k.constraint_name = tc.constraint_name AND k.table_schema = tc.table_schema
			WHERE tc.constraint_type = 'PRIMARY KEY' AND tc.table_schema = c.table_schema
				AND tc.table_name = c.table_name AND k.column_name = c.column_name
		) THEN 'PRI' ELSE '' END AS "Key",
		c.column_default AS "Default"
		FROM information_schema.columns c
		WHERE c.table_schema = 'public' AND c.table_name = $1
		ORDER BY c.ordinal_position`, []any{table}
}

func (postgresDialect) QuoteIdent(name string) string { return quoteWith(name, `"`) }
