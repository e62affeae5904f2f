package domain

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"
)

// AnnouncementType is the category of an announcement.
type AnnouncementType string

const (
	AnnouncementInfo        AnnouncementType = "info"
	AnnouncementWarning     AnnouncementType = "warning"
	AnnouncementMaintenance AnnouncementType = "maintenance"
	AnnouncementCritical    AnnouncementType = "critical"
)

// AnnouncementTypes lists the accepted types in display order.
var AnnouncementTypes = []AnnouncementType{
	AnnouncementInfo, AnnouncementWarning, AnnouncementMaintenance, AnnouncementCritical,
}

const (
	maxTitleLength   = 255
	maxMessageLength = 2000
)

// Announcement is a message shown to server owners, optionally limited to a set of
// servers and a time window.
type Announcement struct {
	ID             string           `json:"id"`
	Title          string           `json:"title"`
	Message        string           `json:"message"`
	Type           AnnouncementType `json:"type"`
	IsActive       bool             `json:"isActive"`
	TargetServers  []int64          `json:"targetServers"` // empty means every server
	CreatedBy      int64            `json:"createdBy"`
	ScheduledStart *time.Time       `json:"scheduledStart,omitempty"`
	ScheduledEnd   *time.Time       `json:"scheduledEnd,omitempty"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

// AnnouncementStore manages CRUD operations for announcements.
type AnnouncementStore interface {
	CreateAnnouncement(a *Announcement) error
	GetAnnouncement(id string) (*Announcement, error)
	ListAnnouncements() ([]Announcement, error)
	UpdateAnnouncement(a *Announcement) error
	DeleteAnnouncement(id string) error
}

// ValidationError lists every field rule an announcement breaks.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return "invalid announcement: " + strings.Join(parts, "; ")
}

// Validate checks the announcement against the field rules.
func (a *Announcement) Validate() error {
	fields := map[string]string{}
	switch {
	case strings.TrimSpace(a.Title) == "":
		fields["title"] = "required"
	case utf8.RuneCountInString(a.Title) > maxTitleLength:
		fields["title"] = fmt.Sprintf("must be at most %d characters", maxTitleLength)
	}
	switch {
	case strings.TrimSpace(a.Message) == "":
		fields["message"] = "required"
	case utf8.RuneCountInString(a.Message) > maxMessageLength:
		fields["message"] = fmt.Sprintf("must be at most %d characters", maxMessageLength)
	}
	if !slices.Contains(AnnouncementTypes, a.Type) {
		fields["type"] = "must be one of info, warning, maintenance, critical"
	}
	if a.CreatedBy <= 0 {
		fields["created_by"] = "required"
	}
	for _, id := range a.TargetServers {
		if id <= 0 {
			fields["target_servers"] = "must contain server ids"
			break
		}
	}
	if a.ScheduledStart != nil && a.ScheduledEnd != nil && !a.ScheduledEnd.After(*a.ScheduledStart) {
		fields["scheduled_end"] = "must be after scheduled_start"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// IsValidationError reports whether err is an announcement validation failure.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// TypeColor returns the badge color for the announcement type.
func (a *Announcement) TypeColor() string {
	switch a.Type {
	case AnnouncementInfo:
		return "blue"
	case AnnouncementWarning:
		return "yellow"
	case AnnouncementMaintenance:
		return "orange"
	case AnnouncementCritical:
		return "red"
	default:
		return "gray"
	}
}

// TypeIcon returns the icon name for the announcement type.
func (a *Announcement) TypeIcon() string {
	switch a.Type {
	case AnnouncementInfo:
		return "tabler-info-circle"
	case AnnouncementWarning:
		return "tabler-alert-triangle"
	case AnnouncementMaintenance:
		return "tabler-tool"
	case AnnouncementCritical:
		return "tabler-alert-octagon"
	default:
		return "tabler-bell"
	}
}

// IsScheduled reports whether either end of the window is set.
func (a *Announcement) IsScheduled() bool {
	return a.ScheduledStart != nil || a.ScheduledEnd != nil
}

// IsCurrentlyActive reports whether the announcement is enabled and now falls
// inside its window. Both window ends are inclusive.
func (a *Announcement) IsCurrentlyActive(now time.Time) bool {
	if !a.IsActive {
		return false
	}
	if a.ScheduledStart != nil && now.Before(*a.ScheduledStart) {
		return false
	}
	if a.ScheduledEnd != nil && now.After(*a.ScheduledEnd) {
		return false
	}
	return true
}

// TargetsAllServers reports whether no server filter is set.
func (a *Announcement) TargetsAllServers() bool {
	return len(a.TargetServers) == 0
}

// TargetsServer reports whether the announcement applies to serverID.
func (a *Announcement) TargetsServer(serverID int64) bool {
	if a.TargetsAllServers() {
		return true
	}
	return slices.Contains(a.TargetServers, serverID)
}
