package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"hostpanel/internal/domain"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// NodeWarningRow is one line of the resource-warning dashboard.
type NodeWarningRow struct {
	Node     domain.Node              `json:"node"`
	Warnings []domain.ResourceWarning `json:"warnings"`
	Severity domain.Severity          `json:"severity,omitempty"`
	Color    string                   `json:"color"`
	Summary  string                   `json:"summary"`
}

// NodeService manages nodes and their resource warnings.
type NodeService struct {
	store  domain.NodeStore
	logger *slog.Logger
	now    func() time.Time
}

func NewNodeService(store domain.NodeStore, logger *slog.Logger) *NodeService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &NodeService{store: store, logger: logger, now: time.Now}
}

func (s *NodeService) CreateNode(n *domain.Node) error {
	if strings.TrimSpace(n.Name) == "" {
		return fmt.Errorf("node name is required")
	}
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return s.store.CreateNode(n)
}

func (s *NodeService) ListNodes() ([]domain.Node, error) {
	return s.store.ListNodes()
}

func (s *NodeService) DeleteNode(id string) error {
	return s.store.DeleteNode(id)
}

// ReportStatistics stores a fresh snapshot and re-checks the node's warnings.
func (s *NodeService) ReportStatistics(id string, stats domain.NodeStatistics) ([]domain.ResourceWarning, error) {
	if err := s.store.UpdateStatistics(id, stats); err != nil {
		return nil, err
	}
	n, err := s.store.GetNode(id)
	if err != nil {
		return nil, err
	}
	return s.check(n)
}

// CheckAll re-checks every node and returns how many have warnings.
func (s *NodeService) CheckAll(ctx context.Context) (int, error) {
	nodes, err := s.store.ListNodes()
	if err != nil {
		return 0, err
	}
	flagged := 0
	for i := range nodes {
		if err := ctx.Err(); err != nil {
			return flagged, err
		}
		warnings, err := s.check(&nodes[i])
		if err != nil {
			s.logger.Warn("node check failed", "node", nodes[i].ID, "error", err)
			continue
		}
		if len(warnings) > 0 {
			flagged++
		}
	}
	return flagged, nil
}

// Warnings lists nodes that were flagged by the last check or are over a
// threshold now.
func (s *NodeService) Warnings() ([]NodeWarningRow, error) {
	nodes, err := s.store.ListNodes()
	if err != nil {
		return nil, err
	}
	rows := []NodeWarningRow{}
	for _, n := range nodes {
		warnings := n.CheckResourceWarnings()
		if !n.HasResourceWarnings && len(warnings) == 0 {
			continue
		}
		rows = append(rows, NodeWarningRow{
			Node:     n,
			Warnings: warnings,
			Severity: domain.MaxSeverity(warnings),
			Color:    domain.WarningColor(warnings),
			Summary:  domain.WarningSummary(warnings),
		})
	}
	return rows, nil
}

func (s *NodeService) check(n *domain.Node) ([]domain.ResourceWarning, error) {
	warnings := n.CheckResourceWarnings()
	if err := s.store.RecordResourceCheck(n.ID, len(warnings) > 0, s.now()); err != nil {
		return nil, fmt.Errorf("record check for %s: %w", n.ID, err)
	}
	return warnings, nil
}

// ─────────────────────────────────────────────────────────────
// NodeMonitor: periodic resource checks
// ─────────────────────────────────────────────────────────────

const nodeCheckJob = "node-resource-check"

// NodeMonitor runs NodeService.CheckAll on a cron schedule. A run that is still
// going when the next one fires causes the next one to be skipped.
type NodeMonitor struct {
	nodes   *NodeService
	emitter EventEmitter
	logger  *slog.Logger
	running inflight
	cron    *cron.Cron
}

// EventNodeCheck is emitted with the number of flagged nodes after each run.
const EventNodeCheck = "nodes:checked"

func NewNodeMonitor(nodes *NodeService, emitter EventEmitter, logger *slog.Logger) *NodeMonitor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &NodeMonitor{nodes: nodes, emitter: emitter, logger: logger}
}

// Start schedules the check. schedule is a cron expression such as "@every 1m".
func (m *NodeMonitor) Start(ctx context.Context, schedule string) error {
	c := cron.New()
	if _, err := c.AddFunc(schedule, func() { m.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("invalid node check schedule %q: %w", schedule, err)
	}
	c.Start()
	m.cron = c
	m.logger.Info("node monitor started", "schedule", schedule)
	return nil
}

// RunOnce performs a check unless one is already running. It reports whether it ran.
func (m *NodeMonitor) RunOnce(ctx context.Context) bool {
	if !m.running.Begin(nodeCheckJob) {
		m.logger.Debug("node check still running, skipping")
		return false
	}
	defer m.running.End(nodeCheckJob)

	flagged, err := m.nodes.CheckAll(ctx)
	if err != nil {
		m.logger.Warn("node check failed", "error", err)
		return true
	}
	m.logger.Debug("node check done", "flagged", flagged)
	if m.emitter != nil {
		m.emitter.Emit(ctx, EventNodeCheck, flagged)
	}
	return true
}

// Stop halts the schedule and waits for a running check, bounded by ctx.
func (m *NodeMonitor) Stop(ctx context.Context) {
	if m.cron != nil {
		<-waitOrDone(ctx, m.cron.Stop())
	}
	m.running.Wait(ctx)
}

func waitOrDone(ctx, done context.Context) <-chan struct{} {
	out := make(chan struct{})
	go func() {
		select {
		case <-done.Done():
		case <-ctx.Done():
		}
		close(out)
	}()
	return out
}
