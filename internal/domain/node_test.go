package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testNode(stats NodeStatistics) *Node {
	return &Node{
		CPUWarningThreshold:    DefaultCPUWarningThreshold,
		MemoryWarningThreshold: DefaultMemoryWarningThreshold,
		DiskWarningThreshold:   DefaultDiskWarningThreshold,
		Statistics:             stats,
	}
}

func TestNode_CheckResourceWarnings(t *testing.T) {
	tests := []struct {
		name  string
		stats NodeStatistics
		want  []ResourceWarning
	}{
		{name: "healthy", stats: NodeStatistics{CPUPercent: 10, MemoryUsed: 1, MemoryTotal: 10}},
		{
			name:  "cpu medium",
			stats: NodeStatistics{CPUPercent: 82},
			want:  []ResourceWarning{{Type: ResourceCPU, Current: 82, Threshold: 80, Severity: SeverityMedium}},
		},
		{
			name:  "cpu high",
			stats: NodeStatistics{CPUPercent: 86.26},
			want:  []ResourceWarning{{Type: ResourceCPU, Current: 86.3, Threshold: 80, Severity: SeverityHigh}},
		},
		{
			name:  "disk critical at 95",
			stats: NodeStatistics{DiskUsed: 95, DiskTotal: 100},
			want:  []ResourceWarning{{Type: ResourceDisk, Current: 95, Threshold: 90, Severity: SeverityCritical}},
		},
		{name: "zero totals skip memory and disk", stats: NodeStatistics{MemoryUsed: 5, DiskUsed: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, testNode(tt.stats).CheckResourceWarnings())
		})
	}
}

func TestWarningColorAndSummary(t *testing.T) {
	assert.Equal(t, "success", WarningColor(nil))
	assert.Equal(t, "No current warnings", WarningSummary(nil))

	warnings := []ResourceWarning{
		{Type: ResourceCPU, Current: 91.5, Severity: SeverityHigh},
		{Type: ResourceMemory, Current: 88, Severity: SeverityMedium},
	}
	assert.Equal(t, SeverityHigh, MaxSeverity(warnings))
	assert.Equal(t, "warning", WarningColor(warnings))
	assert.Equal(t, "cpu: 91.5%, memory: 88%", WarningSummary(warnings))

	assert.Equal(t, "primary", WarningColor([]ResourceWarning{{Severity: SeverityMedium}}))
}
