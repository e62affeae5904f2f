package dbclient

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"hostpanel/internal/domain"
)

// Browser implements introspection, paging and guarded execution against
// database hosts. Every call acquires its own Handle and closes it before return.
type Browser struct {
	provisioner *Provisioner
	logger      *slog.Logger

	mu    sync.RWMutex
	guard Guard
}

func NewBrowser(provisioner *Provisioner, guard Guard, logger *slog.Logger) *Browser {
	if guard == nil {
		guard = DefaultGuard()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Browser{provisioner: provisioner, guard: guard, logger: logger}
}

// SetGuard swaps the guard used by later Execute calls.
func (b *Browser) SetGuard(g Guard) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.guard = g
}

func (b *Browser) currentGuard() Guard {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.guard
}

// ── Introspection ──────────────────────────────────────────────

// ListDatabases lists non-system databases with their table counts. A failed
// count is reported as 0; a failed connection or listing is a ConnectionError.
func (b *Browser) ListDatabases(ctx context.Context, cred domain.HostCredential) ([]domain.DatabaseSummary, error) {
	h, err := b.provisioner.Acquire(ctx, cred, "")
	if err != nil {
		return []domain.DatabaseSummary{}, err
	}
	defer h.Close()

	names, err := h.queryStrings(ctx, h.dialect.ListDatabasesQuery())
	if err != nil {
		return []domain.DatabaseSummary{}, &ConnectionError{Host: cred.Endpoint(), Cause: fmt.Errorf("list databases: %w", err)}
	}

	out := make([]domain.DatabaseSummary, 0, len(names))
	for _, name := range names {
		if isSystemSchema(h.dialect, name) {
			continue
		}
		query, args := h.dialect.TableCountQuery(name)
		count, err := h.queryCount(ctx, query, args...)
		if err != nil {
			b.logger.Debug("table count unavailable", "database", name, "error", err)
			count = 0
		}
		out = append(out, domain.DatabaseSummary{Name: name, TableCount: count})
	}
	return out, nil
}

// ListTables lists the tables of database with their row counts. A failed
// count is reported as 0.
func (b *Browser) ListTables(ctx context.Context, cred domain.HostCredential, database string) ([]domain.TableSummary, error) {
	h, err := b.provisioner.Acquire(ctx, cred, database)
	if err != nil {
		return []domain.TableSummary{}, err
	}
	defer h.Close()

	query, args := h.dialect.ListTablesQuery(h.database)
	names, err := h.queryStrings(ctx, query, args...)
	if err != nil {
		return []domain.TableSummary{}, fmt.Errorf("list tables in %s: %w", h.database, err)
	}

	out := make([]domain.TableSummary, 0, len(names))
	for _, name := range names {
		count, err := h.queryCount(ctx, countRowsQuery(h.dialect, name))
		if err != nil {
			b.logger.Debug("row count unavailable", "database", h.database, "table", name, "error", err)
			count = 0
		}
		out = append(out, domain.TableSummary{Name: name, RowCount: count})
	}
	return out, nil
}

// DescribeTable returns the column definitions of table.
func (b *Browser) DescribeTable(ctx context.Context, cred domain.HostCredential, database, table string) ([]domain.ColumnDescriptor, error) {
	h, err := b.provisioner.Acquire(ctx, cred, database)
	if err != nil {
		return nil, err
	}
	defer h.Close()
	return describe(ctx, h, table)
}

func describe(ctx context.Context, h *Handle, table string) ([]domain.ColumnDescriptor, error) {
	query, args := h.dialect.DescribeQuery(table)
	rows, err := h.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("describe %s: %w", table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}
	index := map[string]int{}
	for i, c := range cols {
		index[strings.ToLower(c)] = i
	}

	var out []domain.ColumnDescriptor
	for rows.Next() {
		values := make([]sql.NullString, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		get := func(name string) sql.NullString {
			if i, ok := index[name]; ok {
				return values[i]
			}
			return sql.NullString{}
		}
		col := domain.ColumnDescriptor{
			Field:    get("field").String,
			Type:     get("type").String,
			Nullable: strings.EqualFold(get("null").String, "YES"),
			Key:      get("key").String,
		}
		if d := get("default"); d.Valid {
			def := d.String
			col.Default = &def
		}
		out = append(out, col)
	}
	return out, rows.Err()
}
