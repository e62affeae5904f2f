package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"hostpanel/internal/domain"
)

// DBHostStore manages database host records in SQLite.
type DBHostStore struct {
	db *DB
}

func NewDBHostStore(db *DB) *DBHostStore {
	return &DBHostStore{db: db}
}

const hostColumns = `id, name, driver, host, port, username, database_name, ssl_mode, created_at, updated_at`

func (s *DBHostStore) CreateHost(h *domain.DatabaseHost) error {
	now := time.Now()
	h.CreatedAt = now
	h.UpdatedAt = now

	_, err := s.db.Conn().Exec(
		`INSERT INTO db_hosts (`+hostColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		h.ID, h.Name, h.Driver, h.Host, h.Port, h.Username, h.Database, h.SSLMode, h.CreatedAt, h.UpdatedAt,
	)
	return err
}

func (s *DBHostStore) GetHost(id string) (*domain.DatabaseHost, error) {
	row := s.db.Conn().QueryRow(`SELECT `+hostColumns+` FROM db_hosts WHERE id = ?`, id)

	h := &domain.DatabaseHost{}
	err := row.Scan(&h.ID, &h.Name, &h.Driver, &h.Host, &h.Port, &h.Username, &h.Database, &h.SSLMode, &h.CreatedAt, &h.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("database host %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return h, nil
}

func (s *DBHostStore) ListHosts() ([]domain.DatabaseHost, error) {
	rows, err := s.db.Conn().Query(`SELECT ` + hostColumns + ` FROM db_hosts ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	hosts := []domain.DatabaseHost{}
	for rows.Next() {
		var h domain.DatabaseHost
		if err := rows.Scan(&h.ID, &h.Name, &h.Driver, &h.Host, &h.Port, &h.Username, &h.Database, &h.SSLMode, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		hosts = append(hosts, h)
	}
	return hosts, rows.Err()
}

func (s *DBHostStore) UpdateHost(h *domain.DatabaseHost) error {
	h.UpdatedAt = time.Now()
	res, err := s.db.Conn().Exec(
		`UPDATE db_hosts SET name=?, driver=?, host=?, port=?, username=?, database_name=?, ssl_mode=?, updated_at=?
		 WHERE id=?`,
		h.Name, h.Driver, h.Host, h.Port, h.Username, h.Database, h.SSLMode, h.UpdatedAt, h.ID,
	)
	if err != nil {
		return err
	}
	return requireAffected(res, "database host", h.ID)
}

func (s *DBHostStore) DeleteHost(id string) error {
	_, err := s.db.Conn().Exec(`DELETE FROM db_hosts WHERE id = ?`, id)
	return err
}

func requireAffected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return nil
}
