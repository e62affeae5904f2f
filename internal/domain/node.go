package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Default warning thresholds, in percent.
const (
	DefaultCPUWarningThreshold    = 80.0
	DefaultMemoryWarningThreshold = 85.0
	DefaultDiskWarningThreshold   = 90.0
)

// ResourceType names a monitored node resource.
type ResourceType string

const (
	ResourceCPU    ResourceType = "cpu"
	ResourceMemory ResourceType = "memory"
	ResourceDisk   ResourceType = "disk"
)

// Severity ranks a resource warning.
type Severity string

const (
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

func (s Severity) rank() int {
	switch s {
	case SeverityCritical:
		return 3
	case SeverityHigh:
		return 2
	case SeverityMedium:
		return 1
	default:
		return 0
	}
}

// NodeStatistics is the latest resource snapshot reported by a node daemon.
type NodeStatistics struct {
	CPUPercent  float64 `json:"cpu_percent"`
	MemoryUsed  int64   `json:"memory_used"`
	MemoryTotal int64   `json:"memory_total"`
	DiskUsed    int64   `json:"disk_used"`
	DiskTotal   int64   `json:"disk_total"`
}

// Node is a game-server host machine.
type Node struct {
	ID                     string         `json:"id"`
	Name                   string         `json:"name"`
	FQDN                   string         `json:"fqdn"`
	CPUWarningThreshold    float64        `json:"cpuWarningThreshold"`
	MemoryWarningThreshold float64        `json:"memoryWarningThreshold"`
	DiskWarningThreshold   float64        `json:"diskWarningThreshold"`
	Statistics             NodeStatistics `json:"statistics"`
	LastResourceCheck      *time.Time     `json:"lastResourceCheck,omitempty"`
	HasResourceWarnings    bool           `json:"hasResourceWarnings"`
	ServerCount            int            `json:"serversCount"`
	CreatedAt              time.Time      `json:"createdAt"`
	UpdatedAt              time.Time      `json:"updatedAt"`
}

// NodeStore manages node records.
type NodeStore interface {
	CreateNode(n *Node) error
	GetNode(id string) (*Node, error)
	ListNodes() ([]Node, error)
	UpdateNode(n *Node) error
	UpdateStatistics(id string, stats NodeStatistics) error
	RecordResourceCheck(id string, hasWarnings bool, at time.Time) error
	DeleteNode(id string) error
}

// ResourceWarning is one resource above its threshold.
type ResourceWarning struct {
	Type      ResourceType `json:"type"`
	Current   float64      `json:"current"`
	Threshold float64      `json:"threshold"`
	Severity  Severity     `json:"severity"`
}

// CheckResourceWarnings compares the latest statistics against the thresholds.
// A zero total disables the memory or disk check.
func (n *Node) CheckResourceWarnings() []ResourceWarning {
	var warnings []ResourceWarning
	check := func(t ResourceType, current, threshold float64) {
		if threshold <= 0 || current < threshold {
			return
		}
		warnings = append(warnings, ResourceWarning{
			Type:      t,
			Current:   round1(current),
			Threshold: threshold,
			Severity:  severityFor(current, threshold),
		})
	}
	check(ResourceCPU, n.Statistics.CPUPercent, n.CPUWarningThreshold)
	if n.Statistics.MemoryTotal > 0 {
		check(ResourceMemory, percent(n.Statistics.MemoryUsed, n.Statistics.MemoryTotal), n.MemoryWarningThreshold)
	}
	if n.Statistics.DiskTotal > 0 {
		check(ResourceDisk, percent(n.Statistics.DiskUsed, n.Statistics.DiskTotal), n.DiskWarningThreshold)
	}
	return warnings
}

func severityFor(current, threshold float64) Severity {
	switch {
	case current >= 95 || current >= threshold+10:
		return SeverityCritical
	case current >= threshold+5:
		return SeverityHigh
	default:
		return SeverityMedium
	}
}

func percent(used, total int64) float64 {
	return float64(used) * 100 / float64(total)
}

func round1(v float64) float64 {
	return float64(int64(v*10+0.5)) / 10
}

// MaxSeverity returns the highest severity in warnings, or "" when empty.
func MaxSeverity(warnings []ResourceWarning) Severity {
	var top Severity
	for _, w := range warnings {
		if w.Severity.rank() > top.rank() {
			top = w.Severity
		}
	}
	return top
}

// WarningColor maps warnings to a badge color.
func WarningColor(warnings []ResourceWarning) string {
	if len(warnings) == 0 {
		return "success"
	}
	switch MaxSeverity(warnings) {
	case SeverityCritical:
		return "danger"
	case SeverityHigh:
		return "warning"
	default:
		return "primary"
	}
}

// WarningSummary renders warnings as "cpu: 91.5%, memory: 88%".
func WarningSummary(warnings []ResourceWarning) string {
	if len(warnings) == 0 {
		return "No current warnings"
	}
	parts := make([]string, len(warnings))
	for i, w := range warnings {
		parts[i] = fmt.Sprintf("%s: %s%%", w.Type, strconv.FormatFloat(w.Current, 'f', -1, 64))
	}
	return strings.Join(parts, ", ")
}
