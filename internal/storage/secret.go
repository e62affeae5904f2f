package storage

import (
	"database/sql"
	"errors"
)

// SecretStore keeps host passwords in the panel database. It satisfies
// secret.SecretStore for deployments without a system keychain.
type SecretStore struct {
	db *DB
}

func NewSecretStore(db *DB) *SecretStore {
	return &SecretStore{db: db}
}

func (s *SecretStore) Set(key string, value []byte) error {
	_, err := s.db.Conn().Exec(
		`INSERT INTO secrets (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value=excluded.value`,
		key, value,
	)
	return err
}

// Get returns nil and no error when key is absent.
func (s *SecretStore) Get(key string) ([]byte, error) {
	var value []byte
	err := s.db.Conn().QueryRow(`SELECT value FROM secrets WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return value, err
}

func (s *SecretStore) Delete(key string) error {
	_, err := s.db.Conn().Exec(`DELETE FROM secrets WHERE key = ?`, key)
	return err
}
