package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"hostpanel/internal/domain"
)

// NodeStore manages node records and their latest statistics in SQLite.
type NodeStore struct {
	db *DB
}

func NewNodeStore(db *DB) *NodeStore {
	return &NodeStore{db: db}
}

const nodeColumns = `id, name, fqdn, cpu_warning_threshold, memory_warning_threshold, disk_warning_threshold,
	statistics_json, last_resource_check, has_resource_warnings, server_count, created_at, updated_at`

func (s *NodeStore) CreateNode(n *domain.Node) error {
	now := time.Now()
	n.CreatedAt = now
	n.UpdatedAt = now
	if n.CPUWarningThreshold == 0 {
		n.CPUWarningThreshold = domain.DefaultCPUWarningThreshold
	}
	if n.MemoryWarningThreshold == 0 {
		n.MemoryWarningThreshold = domain.DefaultMemoryWarningThreshold
	}
	if n.DiskWarningThreshold == 0 {
		n.DiskWarningThreshold = domain.DefaultDiskWarningThreshold
	}

	stats, err := json.Marshal(n.Statistics)
	if err != nil {
		return fmt.Errorf("encode statistics: %w", err)
	}
	_, err = s.db.Conn().Exec(
		`INSERT INTO nodes (`+nodeColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.Name, n.FQDN, n.CPUWarningThreshold, n.MemoryWarningThreshold, n.DiskWarningThreshold,
		string(stats), nullTime(n.LastResourceCheck), boolToInt(n.HasResourceWarnings), n.ServerCount,
		n.CreatedAt, n.UpdatedAt,
	)
	return err
}

func (s *NodeStore) GetNode(id string) (*domain.Node, error) {
	row := s.db.Conn().QueryRow(`SELECT `+nodeColumns+` FROM nodes WHERE id = ?`, id)
	n, err := scanNode(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("node %s: %w", id, ErrNotFound)
	}
	return n, err
}

func (s *NodeStore) ListNodes() ([]domain.Node, error) {
	rows, err := s.db.Conn().Query(`SELECT ` + nodeColumns + ` FROM nodes ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Node{}
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *n)
	}
	return out, rows.Err()
}

func (s *NodeStore) UpdateNode(n *domain.Node) error {
	n.UpdatedAt = time.Now()
	res, err := s.db.Conn().Exec(
		`UPDATE nodes SET name=?, fqdn=?, cpu_warning_threshold=?, memory_warning_threshold=?,
		 disk_warning_threshold=?, server_count=?, updated_at=? WHERE id=?`,
		n.Name, n.FQDN, n.CPUWarningThreshold, n.MemoryWarningThreshold, n.DiskWarningThreshold,
		n.ServerCount, n.UpdatedAt, n.ID,
	)
	if err != nil {
		return err
	}
	return requireAffected(res, "node", n.ID)
}

// UpdateStatistics replaces the latest statistics snapshot of a node.
func (s *NodeStore) UpdateStatistics(id string, stats domain.NodeStatistics) error {
	b, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("encode statistics: %w", err)
	}
	res, err := s.db.Conn().Exec(
		`UPDATE nodes SET statistics_json=?, updated_at=? WHERE id=?`, string(b), time.Now(), id,
	)
	if err != nil {
		return err
	}
	return requireAffected(res, "node", id)
}

// RecordResourceCheck stores the outcome of a warning check.
func (s *NodeStore) RecordResourceCheck(id string, hasWarnings bool, at time.Time) error {
	res, err := s.db.Conn().Exec(
		`UPDATE nodes SET last_resource_check=?, has_resource_warnings=? WHERE id=?`,
		at, boolToInt(hasWarnings), id,
	)
	if err != nil {
		return err
	}
	return requireAffected(res, "node", id)
}

func (s *NodeStore) DeleteNode(id string) error {
	_, err := s.db.Conn().Exec(`DELETE FROM nodes WHERE id = ?`, id)
	return err
}

func scanNode(r rowScanner) (*domain.Node, error) {
	n := &domain.Node{}
	var stats string
	var checked sql.NullTime
	var warnings int
	if err := r.Scan(&n.ID, &n.Name, &n.FQDN, &n.CPUWarningThreshold, &n.MemoryWarningThreshold,
		&n.DiskWarningThreshold, &stats, &checked, &warnings, &n.ServerCount, &n.CreatedAt, &n.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(stats), &n.Statistics); err != nil {
		return nil, fmt.Errorf("decode statistics for %s: %w", n.ID, err)
	}
	n.LastResourceCheck = timePtr(checked)
	n.HasResourceWarnings = warnings == 1
	return n, nil
}
