package dbclient

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"hostpanel/internal/domain"
)

// OpenFunc opens a database/sql handle. Tests replace it with sqlmock.
type OpenFunc func(driverName, dsn string) (*sql.DB, error)

// Provisioner opens one short-lived connection per browser operation.
// Nothing is pooled or reused across operations.
type Provisioner struct {
	open        OpenFunc
	pingTimeout time.Duration
}

// ProvisionerOption configures a Provisioner.
type ProvisionerOption func(*Provisioner)

// WithOpener replaces sql.Open.
func WithOpener(open OpenFunc) ProvisionerOption {
	return func(p *Provisioner) { p.open = open }
}

// WithPingTimeout bounds the connectivity check done on Acquire.
func WithPingTimeout(d time.Duration) ProvisionerOption {
	return func(p *Provisioner) { p.pingTimeout = d }
}

func NewProvisioner(opts ...ProvisionerOption) *Provisioner {
	p := &Provisioner{open: sql.Open, pingTimeout: 10 * time.Second}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Handle is a single connection scoped to one database. Close it when the
// operation ends, on every path.
type Handle struct {
	db       *sql.DB
	dialect  Dialect
	database string
}

// Acquire connects to the host, scoped to database. An empty database falls back to
// the host default, then to the dialect fallback.
func (p *Provisioner) Acquire(ctx context.Context, cred domain.HostCredential, database string) (*Handle, error) {
	dialect, err := DialectFor(cred.Driver)
	if err != nil {
		return nil, &ConnectionError{Host: cred.Endpoint(), Cause: err}
	}
	if database == "" {
		database = cred.DefaultDatabase
	}
	if database == "" {
		database = dialect.FallbackDatabase()
	}

	db, err := p.open(dialect.DriverName(), dialect.DSN(cred, database))
	if err != nil {
		return nil, &ConnectionError{Host: cred.Endpoint(), Cause: fmt.Errorf("open %s: %w", dialect.DriverName(), err)}
	}
	// One physical connection: result sets must be drained before the next query.
	db.SetMaxOpenConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, p.pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, &ConnectionError{Host: cred.Endpoint(), Cause: err}
	}
	return &Handle{db: db, dialect: dialect, database: database}, nil
}

// Database returns the database the handle is scoped to.
func (h *Handle) Database() string { return h.database }

// Dialect returns the engine dialect of the handle.
func (h *Handle) Dialect() Dialect { return h.dialect }

func (h *Handle) Close() error {
	return h.db.Close()
}

// queryRows runs a statement and normalizes up to limit rows; limit <= 0 reads all.
func (h *Handle) queryRows(ctx context.Context, limit int, query string, args ...any) ([]domain.Row, error) {
	rows, err := h.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return readRows(rows, limit)
}

// queryStrings reads the first column of every row as a string.
func (h *Handle) queryStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := h.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}
	var out []string
	for rows.Next() {
		values := make([]sql.RawBytes, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		if len(values) > 0 {
			out = append(out, string(values[0]))
		}
	}
	return out, rows.Err()
}

func (h *Handle) queryCount(ctx context.Context, query string, args ...any) (int64, error) {
	var n int64
	if err := h.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
