package dbclient

import (
	"strconv"

	"hostpanel/internal/domain"

	"github.com/go-sql-driver/mysql"
)

type mysqlDialect struct{}

func (mysqlDialect) Name() domain.DatabaseDriver { return domain.DatabaseDriverMySQL }
func (mysqlDialect) DriverName() string { return "mysql" }
func (mysqlDialect) DefaultPort() int { return 3306 }
func (mysqlDialect) FallbackDatabase() string { return "mysql" }

// DSN builds user:password@tcp(host:port)/dbname?parseTime=true&charset=utf8mb4.
func (d mysqlDialect) DSN(cred domain.HostCredential, database string) string {
	port := cred.Port
	if port == 0 {
		port = d.DefaultPort()
	}
	cfg := mysql.NewConfig()
	cfg.User = cred.Username
	cfg.Passwd = cred.Secret
	cfg.Net = "tcp"
	cfg.Addr = cred.Address + ":" + strconv.Itoa(port)
	cfg.DBName = database
	cfg.ParseTime = true
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	if cred.SSLMode == "require" {
		cfg.TLSConfig = "true"
	}
	return cfg.FormatDSN()
}

func (mysqlDialect) SystemSchemas() []string {
	return []string{"information_schema", "performance_schema", "mysql", "sys"}
}

func (mysqlDialect) ListDatabasesQuery() string { return "SHOW DATABASES" }

func (mysqlDialect) TableCountQuery(database string) (string, []any) {
	return "SELECT COUNT(*) AS count FROM information_schema.tables WHERE table_schema = ?", []any{database}
}

func (mysqlDialect) ListTablesQuery(string) (string, []any) { return "SHOW TABLES", nil }

func (d mysqlDialect) DescribeQuery(table string) (string, []any) {
	return "DESCRIBE " + d.QuoteIdent(table), nil
}

func (mysqlDialect) QuoteIdent(name string) string { return quoteWith(name, "`") }
