package service_test

import (
	"context"
	"testing"

	"hostpanel/internal/domain"
	"hostpanel/internal/service"
	"hostpanel/internal/storage"
)

func newNodeService(t *testing.T) *service.NodeService {
	t.Helper()
	db, err := storage.New(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return service.NewNodeService(storage.NewNodeStore(db), nil)
}

func TestNodeService_ReportStatistics(t *testing.T) {
	svc := newNodeService(t)
	n := &domain.Node{Name: "fra-1"}
	if err := svc.CreateNode(n); err != nil {
		t.Fatal(err)
	}

	warnings, err := svc.ReportStatistics(n.ID, domain.NodeStatistics{
		CPUPercent: 96, MemoryUsed: 88, MemoryTotal: 100, DiskUsed: 10, DiskTotal: 100,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 2 {
		t.Fatalf("expected cpu and memory warnings, got %+v", warnings)
	}
	if warnings[0].Type != domain.ResourceCPU || warnings[0].Severity != domain.SeverityCritical {
		t.Errorf("unexpected cpu warning %+v", warnings[0])
	}
	if warnings[1].Type != domain.ResourceMemory || warnings[1].Severity != domain.SeverityMedium {
		t.Errorf("unexpected memory warning %+v", warnings[1])
	}

	rows, err := svc.Warnings()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].Color != "danger" || rows[0].Summary != "cpu: 96%, memory: 88%" {
		t.Fatalf("unexpected warning rows %+v", rows)
	}
	if !rows[0].Node.HasResourceWarnings || rows[0].Node.LastResourceCheck == nil {
		t.Error("expected the check to be recorded on the node")
	}
}

func TestNodeMonitor_RunOnce(t *testing.T) {
	svc := newNodeService(t)
	for _, name := range []string{"a", "b"} {
		if err := svc.CreateNode(&domain.Node{Name: name}); err != nil {
			t.Fatal(err)
		}
	}
	nodes, _ := svc.ListNodes()
	if _, err := svc.ReportStatistics(nodes[0].ID, domain.NodeStatistics{CPUPercent: 85}); err != nil {
		t.Fatal(err)
	}

	emitter := &service.MockEmitter{}
	m := service.NewNodeMonitor(svc, emitter, nil)
	if !m.RunOnce(context.Background()) {
		t.Fatal("expected check to run")
	}
	if len(emitter.Events) != 1 || emitter.Events[0].Event != service.EventNodeCheck || emitter.Events[0].Data != 1 {
		t.Fatalf("unexpected events %+v", emitter.Events)
	}
}

func TestNodeMonitor_InvalidSchedule(t *testing.T) {
	m := service.NewNodeMonitor(newNodeService(t), nil, nil)
	if err := m.Start(context.Background(), "every minute please"); err == nil {
		t.Fatal("expected invalid schedule error")
	}
	m.Stop(context.Background())
}
