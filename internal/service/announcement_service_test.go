package service_test

import (
	"testing"
	"time"

	"hostpanel/internal/domain"
	"hostpanel/internal/service"
	"hostpanel/internal/storage"
)

func newAnnouncementService(t *testing.T) *service.AnnouncementService {
	t.Helper()
	db, err := storage.New(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return service.NewAnnouncementService(storage.NewAnnouncementStore(db))
}

func TestAnnouncementService_CreateValidates(t *testing.T) {
	svc := newAnnouncementService(t)

	err := svc.Create(&domain.Announcement{Title: "", Message: "x", Type: "loud", CreatedBy: 1})
	if !domain.IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	list, _ := svc.List()
	if len(list) != 0 {
		t.Fatalf("expected nothing stored, got %d", len(list))
	}
}

func TestAnnouncementService_ActiveFor(t *testing.T) {
	svc := newAnnouncementService(t)
	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	fixtures := []*domain.Announcement{
		{Title: "Everyone", Message: "m", Type: domain.AnnouncementInfo, IsActive: true, CreatedBy: 1},
		{Title: "Server 7", Message: "m", Type: domain.AnnouncementWarning, IsActive: true, CreatedBy: 1, TargetServers: []int64{7}},
		{Title: "Disabled", Message: "m", Type: domain.AnnouncementInfo, IsActive: false, CreatedBy: 1},
		{Title: "Later", Message: "m", Type: domain.AnnouncementMaintenance, IsActive: true, CreatedBy: 1, ScheduledStart: &future},
		{Title: "Now", Message: "m", Type: domain.AnnouncementCritical, IsActive: true, CreatedBy: 1, ScheduledStart: &past, ScheduledEnd: &future},
	}
	for _, a := range fixtures {
		if err := svc.Create(a); err != nil {
			t.Fatalf("create %s: %v", a.Title, err)
		}
		if a.ID == "" {
			t.Fatal("expected an id to be assigned")
		}
	}

	active, err := svc.ActiveFor(7)
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 3 {
		t.Fatalf("expected 3 announcements for server 7, got %d", len(active))
	}

	active, _ = svc.ActiveFor(8)
	if len(active) != 2 {
		t.Fatalf("expected 2 announcements for server 8, got %d", len(active))
	}

	badge, err := svc.ActiveCount()
	if err != nil {
		t.Fatal(err)
	}
	if badge != "4" {
		t.Errorf("expected badge 4, got %q", badge)
	}
}

func TestAnnouncementService_ActiveCountEmpty(t *testing.T) {
	svc := newAnnouncementService(t)
	badge, err := svc.ActiveCount()
	if err != nil {
		t.Fatal(err)
	}
	if badge != "" {
		t.Errorf("expected empty badge, got %q", badge)
	}
}
