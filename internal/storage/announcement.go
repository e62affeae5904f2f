package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"hostpanel/internal/domain"
)

// AnnouncementStore manages announcements in SQLite.
type AnnouncementStore struct {
	db *DB
}

func NewAnnouncementStore(db *DB) *AnnouncementStore {
	return &AnnouncementStore{db: db}
}

const announcementColumns = `id, title, message, type, is_active, target_servers_json, created_by,
	scheduled_start, scheduled_end, created_at, updated_at`

func (s *AnnouncementStore) CreateAnnouncement(a *domain.Announcement) error {
	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now

	targets, err := marshalTargets(a.TargetServers)
	if err != nil {
		return err
	}
	_, err = s.db.Conn().Exec(
		`INSERT INTO announcements (`+announcementColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Title, a.Message, a.Type, boolToInt(a.IsActive), targets, a.CreatedBy,
		nullTime(a.ScheduledStart), nullTime(a.ScheduledEnd), a.CreatedAt, a.UpdatedAt,
	)
	return err
}

func (s *AnnouncementStore) GetAnnouncement(id string) (*domain.Announcement, error) {
	row := s.db.Conn().QueryRow(`SELECT `+announcementColumns+` FROM announcements WHERE id = ?`, id)
	a, err := scanAnnouncement(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("announcement %s: %w", id, ErrNotFound)
	}
	return a, err
}

// ListAnnouncements returns every announcement, newest first.
func (s *AnnouncementStore) ListAnnouncements() ([]domain.Announcement, error) {
	rows, err := s.db.Conn().Query(`SELECT ` + announcementColumns + ` FROM announcements ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Announcement{}
	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (s *AnnouncementStore) UpdateAnnouncement(a *domain.Announcement) error {
	a.UpdatedAt = time.Now()
	targets, err := marshalTargets(a.TargetServers)
	if err != nil {
		return err
	}
	res, err := s.db.Conn().Exec(
		`UPDATE announcements SET title=?, message=?, type=?, is_active=?, target_servers_json=?,
		 scheduled_start=?, scheduled_end=?, updated_at=? WHERE id=?`,
		a.Title, a.Message, a.Type, boolToInt(a.IsActive), targets,
		nullTime(a.ScheduledStart), nullTime(a.ScheduledEnd), a.UpdatedAt, a.ID,
	)
	if err != nil {
		return err
	}
	return requireAffected(res, "announcement", a.ID)
}

func (s *AnnouncementStore) DeleteAnnouncement(id string) error {
	_, err := s.db.Conn().Exec(`DELETE FROM announcements WHERE id = ?`, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnnouncement(r rowScanner) (*domain.Announcement, error) {
	a := &domain.Announcement{}
	var active int
	var targets string
	var start, end sql.NullTime
	if err := r.Scan(&a.ID, &a.Title, &a.Message, &a.Type, &active, &targets, &a.CreatedBy,
		&start, &end, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.IsActive = active == 1
	if err := json.Unmarshal([]byte(targets), &a.TargetServers); err != nil {
		return nil, fmt.Errorf("decode target servers for %s: %w", a.ID, err)
	}
	a.ScheduledStart = timePtr(start)
	a.ScheduledEnd = timePtr(end)
	return a, nil
}

func marshalTargets(ids []int64) (string, error) {
	if ids == nil {
		ids = []int64{}
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return "", fmt.Errorf("encode target servers: %w", err)
	}
	return string(b), nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
