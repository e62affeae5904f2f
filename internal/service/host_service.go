package service

import (
	"errors"
	"fmt"
	"strings"

	"hostpanel/internal/dbclient"
	"hostpanel/internal/domain"
	"hostpanel/internal/secret"

	"github.com/google/uuid"
)

// ─────────────────────────────────────────────────────────────
// Host Service: database host records and their secrets
// ─────────────────────────────────────────────────────────────

// HostInput is the service-layer DTO for creating/updating hosts.
type HostInput struct {
	Name     string `json:"name"`
	Driver   string `json:"driver"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	Database string `json:"database"`
	SSLMode  string `json:"sslMode"`
}

func (in HostInput) validate() error {
	var problems []string
	if strings.TrimSpace(in.Name) == "" {
		problems = append(problems, "name is required")
	}
	if _, err := dbclient.DialectFor(domain.DatabaseDriver(in.Driver)); err != nil {
		problems = append(problems, err.Error())
	}
	if strings.TrimSpace(in.Host) == "" {
		problems = append(problems, "host is required")
	}
	if in.Port < 0 || in.Port > 65535 {
		problems = append(problems, "port is out of range")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidHost, strings.Join(problems, "; "))
	}
	return nil
}

// ErrInvalidHost wraps host input validation failures.
var ErrInvalidHost = errors.New("invalid database host")

// HostService manages database hosts. Passwords live in the SecretStore under
// DatabaseHost.SecretKey.
type HostService struct {
	store   domain.DatabaseHostStore
	secrets secret.SecretStore
}

func NewHostService(store domain.DatabaseHostStore, secrets secret.SecretStore) *HostService {
	return &HostService{store: store, secrets: secrets}
}

// ── Host CRUD ──────────────────────────────────────────────

func (s *HostService) ListHosts() ([]domain.DatabaseHost, error) {
	return s.store.ListHosts()
}

func (s *HostService) GetHost(id string) (*domain.DatabaseHost, error) {
	return s.store.GetHost(id)
}

func (s *HostService) CreateHost(input HostInput) (*domain.DatabaseHost, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	h := &domain.DatabaseHost{ID: uuid.NewString()}
	applyHostInput(h, input)
	if err := s.store.CreateHost(h); err != nil {
		return nil, fmt.Errorf("create host: %w", err)
	}
	if input.Password != "" {
		if err := s.secrets.Set(h.SecretKey(), []byte(input.Password)); err != nil {
			return nil, fmt.Errorf("store host secret: %w", err)
		}
	}
	return h, nil
}

// UpdateHost replaces the host fields. An empty password keeps the stored one.
func (s *HostService) UpdateHost(id string, input HostInput) (*domain.DatabaseHost, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	h, err := s.store.GetHost(id)
	if err != nil {
		return nil, err
	}
	applyHostInput(h, input)
	if err := s.store.UpdateHost(h); err != nil {
		return nil, fmt.Errorf("update host: %w", err)
	}
	if input.Password != "" {
		if err := s.secrets.Set(h.SecretKey(), []byte(input.Password)); err != nil {
			return nil, fmt.Errorf("store host secret: %w", err)
		}
	}
	return h, nil
}

func (s *HostService) DeleteHost(id string) error {
	h := domain.DatabaseHost{ID: id}
	if err := s.secrets.Delete(h.SecretKey()); err != nil {
		return fmt.Errorf("delete host secret: %w", err)
	}
	return s.store.DeleteHost(id)
}

// Credential loads the host and its secret into a fresh HostCredential.
func (s *HostService) Credential(id string) (domain.HostCredential, error) {
	h, err := s.store.GetHost(id)
	if err != nil {
		return domain.HostCredential{}, err
	}
	pw, err := s.secrets.Get(h.SecretKey())
	if err != nil {
		return domain.HostCredential{}, fmt.Errorf("load host secret: %w", err)
	}
	return h.Credential(string(pw)), nil
}

func applyHostInput(h *domain.DatabaseHost, in HostInput) {
	h.Name = strings.TrimSpace(in.Name)
	h.Driver = domain.DatabaseDriver(in.Driver)
	h.Host = strings.TrimSpace(in.Host)
	h.Port = in.Port
	h.Username = in.Username
	h.Database = in.Database
	h.SSLMode = in.SSLMode
	if h.SSLMode == "" {
		h.SSLMode = "disable"
	}
}
