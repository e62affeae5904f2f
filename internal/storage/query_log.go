package storage

import (
	"time"

	"hostpanel/internal/domain"

	"github.com/google/uuid"
)

// QueryLogStore keeps the history of statements run from the browser.
type QueryLogStore struct {
	db *DB
}

func NewQueryLogStore(db *DB) *QueryLogStore {
	return &QueryLogStore{db: db}
}

func (s *QueryLogStore) AppendEntry(e *domain.QueryLogEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.ExecutedAt.IsZero() {
		e.ExecutedAt = time.Now()
	}
	_, err := s.db.Conn().Exec(
		`INSERT INTO query_log (id, host_id, database_name, query, success, row_count, error, executed_at, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.HostID, e.Database, e.Statement, boolToInt(e.Success), e.RowCount, e.Error, e.ExecutedAt, e.DurationMs,
	)
	return err
}

// ListEntries returns the newest entries for hostID first; an empty hostID lists
// every host. limit <= 0 means 100.
func (s *QueryLogStore) ListEntries(hostID string, limit int) ([]domain.QueryLogEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.Conn().Query(
		`SELECT id, host_id, database_name, query, success, row_count, error, executed_at, duration_ms
		 FROM query_log WHERE (? = '' OR host_id = ?)
		 ORDER BY executed_at DESC LIMIT ?`, hostID, hostID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []domain.QueryLogEntry{}
	for rows.Next() {
		var e domain.QueryLogEntry
		var success int
		if err := rows.Scan(&e.ID, &e.HostID, &e.Database, &e.Statement, &success, &e.RowCount, &e.Error, &e.ExecutedAt, &e.DurationMs); err != nil {
			return nil, err
		}
		e.Success = success == 1
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
