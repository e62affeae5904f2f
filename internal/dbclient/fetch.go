package dbclient

import (
	"context"

	"hostpanel/internal/domain"
)

// FetchPage loads the schema, the first domain.PageSize rows and the total row
// count of table. Any failure yields a FetchError and no page.
func (b *Browser) FetchPage(ctx context.Context, cred domain.HostCredential, database, table string) (*domain.TablePage, error) {
	h, err := b.provisioner.Acquire(ctx, cred, database)
	if err != nil {
		return nil, &FetchError{Database: database, Table: table, Cause: err}
	}
	defer h.Close()

	fail := func(err error) (*domain.TablePage, error) {
		return nil, &FetchError{Database: h.database, Table: table, Cause: err}
	}

	columns, err := describe(ctx, h, table)
	if err != nil {
		return fail(err)
	}
	rows, err := h.queryRows(ctx, domain.PageSize, selectPageQuery(h.dialect, table, domain.PageSize))
	if err != nil {
		return fail(err)
	}
	total, err := h.queryCount(ctx, countRowsQuery(h.dialect, table))
	if err != nil {
		return fail(err)
	}
	if rows == nil {
		rows = []domain.Row{}
	}
	// The count runs after the select; never report fewer rows than were returned.
	if total < int64(len(rows)) {
		total = int64(len(rows))
	}
	return &domain.TablePage{Table: table, Columns: columns, Rows: rows, TotalRows: total}, nil
}
