package domain

import (
	"log/slog"
	"net"
	"strconv"
	"time"
)

// DatabaseDriver represents the type of database engine behind a host.
type DatabaseDriver string

const (
	DatabaseDriverMySQL    DatabaseDriver = "mysql"
	DatabaseDriverPostgres DatabaseDriver = "postgres"
	DatabaseDriverSQLite   DatabaseDriver = "sqlite"
)

// DatabaseHost is an external database server registered in the panel.
// The password is stored separately in the SecretStore under SecretKey.
type DatabaseHost struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Driver    DatabaseDriver `json:"driver"`
	Host      string         `json:"host"` // hostname, or file path for sqlite
	Port      int            `json:"port"`
	Username  string         `json:"username"`
	Database  string         `json:"database"` // default database, may be empty
	SSLMode   string         `json:"sslMode"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// SecretKey is the SecretStore key holding the host password.
func (h *DatabaseHost) SecretKey() string {
	return "dbhost:" + h.ID
}

// Credential combines the host record with its secret.
func (h *DatabaseHost) Credential(secret string) HostCredential {
	return HostCredential{
		Driver:          h.Driver,
		Address:         h.Host,
		Port:            h.Port,
		Username:        h.Username,
		Secret:          secret,
		DefaultDatabase: h.Database,
		SSLMode:         h.SSLMode,
	}
}

// DatabaseHostStore manages CRUD operations for database hosts.
type DatabaseHostStore interface {
	CreateHost(h *DatabaseHost) error
	GetHost(id string) (*DatabaseHost, error)
	ListHosts() ([]DatabaseHost, error)
	UpdateHost(h *DatabaseHost) error
	DeleteHost(id string) error
}

// HostCredential holds everything needed to open a connection to one host.
// It is built per operation and never cached.
type HostCredential struct {
	Driver          DatabaseDriver
	Address         string
	Port            int
	Username        string
	Secret          string
	DefaultDatabase string
	SSLMode         string
}

// Endpoint returns host:port, or the bare address when no port is set.
func (c HostCredential) Endpoint() string {
	if c.Port == 0 {
		return c.Address
	}
	return net.JoinHostPort(c.Address, strconv.Itoa(c.Port))
}

// LogValue keeps the secret out of structured logs.
func (c HostCredential) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("driver", string(c.Driver)),
		slog.String("endpoint", c.Endpoint()),
		slog.String("user", c.Username),
	)
}

// DatabaseSummary is one entry of a host's database listing.
type DatabaseSummary struct {
	Name       string `json:"name"`
	TableCount int64  `json:"tables"`
}

// TableSummary is one entry of a database's table listing.
type TableSummary struct {
	Name     string `json:"name"`
	RowCount int64  `json:"rows"`
}

// ColumnDescriptor is a normalized column definition.
type ColumnDescriptor struct {
	Field    string  `json:"field"`
	Type     string  `json:"type"`
	Nullable bool    `json:"nullable"`
	Key      string  `json:"key"`
	Default  *string `json:"default"`
}

// PageSize is the maximum number of rows in a TablePage.
const PageSize = 50

// TablePage is the first page of a table with its schema.
// Row order is whatever the storage engine returns and is not stable.
type TablePage struct {
	Table     string             `json:"table"`
	Columns   []ColumnDescriptor `json:"columns"`
	Rows      []Row              `json:"data"`
	TotalRows int64              `json:"totalRows"`
}

// QueryResult is the outcome of one guarded statement: either a success with rows
// or a failure with the engine message. Use NewQuerySuccess / NewQueryFailure.
type QueryResult struct {
	Success   bool      `json:"success"`
	Statement string    `json:"query"`
	Rows      []Row     `json:"data,omitempty"`
	RowCount  int       `json:"count"`
	Error     string    `json:"error,omitempty"`
	Executed  time.Time `json:"executedAt"`
}

// NewQuerySuccess builds a successful result.
func NewQuerySuccess(statement string, rows []Row) *QueryResult {
	if rows == nil {
		rows = []Row{}
	}
	return &QueryResult{
		Success:   true,
		Statement: statement,
		Rows:      rows,
		RowCount:  len(rows),
		Executed:  time.Now(),
	}
}

// NewQueryFailure builds a failed result carrying the raw error message.
func NewQueryFailure(statement string, err error) *QueryResult {
	return &QueryResult{
		Statement: statement,
		Error:     err.Error(),
		Executed:  time.Now(),
	}
}

// QueryLogEntry records one executed statement for the audit history.
type QueryLogEntry struct {
	ID         string    `json:"id"`
	HostID     string    `json:"hostId"`
	Database   string    `json:"database"`
	Statement  string    `json:"query"`
	Success    bool      `json:"success"`
	RowCount   int       `json:"count"`
	Error      string    `json:"error"`
	ExecutedAt time.Time `json:"executedAt"`
	DurationMs int       `json:"durationMs"`
}

// QueryLogStore persists the query history.
type QueryLogStore interface {
	AppendEntry(e *QueryLogEntry) error
	ListEntries(hostID string, limit int) ([]QueryLogEntry, error)
}
