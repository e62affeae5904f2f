package service

import (
	"fmt"
	"strconv"
	"time"

	"hostpanel/internal/domain"

	"github.com/google/uuid"
)

// AnnouncementService manages announcements and answers which ones are live.
type AnnouncementService struct {
	store domain.AnnouncementStore
	now   func() time.Time
}

func NewAnnouncementService(store domain.AnnouncementStore) *AnnouncementService {
	return &AnnouncementService{store: store, now: time.Now}
}

func (s *AnnouncementService) Create(a *domain.Announcement) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if err := s.store.CreateAnnouncement(a); err != nil {
		return fmt.Errorf("create announcement: %w", err)
	}
	return nil
}

func (s *AnnouncementService) Update(a *domain.Announcement) error {
	if err := a.Validate(); err != nil {
		return err
	}
	return s.store.UpdateAnnouncement(a)
}

func (s *AnnouncementService) Get(id string) (*domain.Announcement, error) {
	return s.store.GetAnnouncement(id)
}

func (s *AnnouncementService) Delete(id string) error {
	return s.store.DeleteAnnouncement(id)
}

func (s *AnnouncementService) List() ([]domain.Announcement, error) {
	return s.store.ListAnnouncements()
}

// ActiveFor returns the announcements currently shown to serverID.
func (s *AnnouncementService) ActiveFor(serverID int64) ([]domain.Announcement, error) {
	all, err := s.store.ListAnnouncements()
	if err != nil {
		return nil, err
	}
	now := s.now()
	out := []domain.Announcement{}
	for _, a := range all {
		if a.IsCurrentlyActive(now) && a.TargetsServer(serverID) {
			out = append(out, a)
		}
	}
	return out, nil
}

// ActiveCount is the navigation badge: the number of announcements with the
// active flag set, or "" when there are none.
func (s *AnnouncementService) ActiveCount() (string, error) {
	all, err := s.store.ListAnnouncements()
	if err != nil {
		return "", err
	}
	n := 0
	for _, a := range all {
		if a.IsActive {
			n++
		}
	}
	if n == 0 {
		return "", nil
	}
	return strconv.Itoa(n), nil
}
