package storage

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"hostpanel/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestNew_ReopenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "panel.db")

	db, err := New(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = New(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())
}

func TestDBHostStore_CRUD(t *testing.T) {
	store := NewDBHostStore(newTestDB(t))

	h := &domain.DatabaseHost{
		ID: "h1", Name: "primary", Driver: domain.DatabaseDriverMySQL,
		Host: "10.0.0.5", Port: 3306, Username: "panel", SSLMode: "disable",
	}
	require.NoError(t, store.CreateHost(h))
	require.NoError(t, store.CreateHost(&domain.DatabaseHost{ID: "h2", Name: "analytics", Driver: domain.DatabaseDriverPostgres}))

	got, err := store.GetHost("h1")
	require.NoError(t, err)
	assert.Equal(t, "primary", got.Name)
	assert.Equal(t, domain.DatabaseDriverMySQL, got.Driver)
	assert.Equal(t, 3306, got.Port)

	hosts, err := store.ListHosts()
	require.NoError(t, err)
	require.Len(t, hosts, 2)
	assert.Equal(t, "analytics", hosts[0].Name)

	got.Database = "game"
	require.NoError(t, store.UpdateHost(got))
	got, err = store.GetHost("h1")
	require.NoError(t, err)
	assert.Equal(t, "game", got.Database)

	require.NoError(t, store.DeleteHost("h1"))
	_, err = store.GetHost("h1")
	assert.True(t, errors.Is(err, ErrNotFound))

	err = store.UpdateHost(&domain.DatabaseHost{ID: "missing"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSecretStore(t *testing.T) {
	store := NewSecretStore(newTestDB(t))

	v, err := store.Get("dbhost:h1")
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, store.Set("dbhost:h1", []byte("first")))
	require.NoError(t, store.Set("dbhost:h1", []byte("second")))
	v, err = store.Get("dbhost:h1")
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), v)

	require.NoError(t, store.Delete("dbhost:h1"))
	v, err = store.Get("dbhost:h1")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestAnnouncementStore_CRUD(t *testing.T) {
	store := NewAnnouncementStore(newTestDB(t))
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	a := &domain.Announcement{
		ID: "a1", Title: "Maintenance", Message: "Node 3 reboot", Type: domain.AnnouncementMaintenance,
		IsActive: true, TargetServers: []int64{4, 9}, CreatedBy: 1, ScheduledStart: &start,
	}
	require.NoError(t, store.CreateAnnouncement(a))

	got, err := store.GetAnnouncement("a1")
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 9}, got.TargetServers)
	assert.True(t, got.IsActive)
	require.NotNil(t, got.ScheduledStart)
	assert.True(t, got.ScheduledStart.Equal(start))
	assert.Nil(t, got.ScheduledEnd)

	got.IsActive = false
	got.TargetServers = nil
	require.NoError(t, store.UpdateAnnouncement(got))

	list, err := store.ListAnnouncements()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.False(t, list[0].IsActive)
	assert.Empty(t, list[0].TargetServers)

	require.NoError(t, store.DeleteAnnouncement("a1"))
	_, err = store.GetAnnouncement("a1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNodeStore(t *testing.T) {
	store := NewNodeStore(newTestDB(t))

	n := &domain.Node{ID: "n1", Name: "fra-1", FQDN: "fra-1.example.net"}
	require.NoError(t, store.CreateNode(n))
	assert.Equal(t, domain.DefaultCPUWarningThreshold, n.CPUWarningThreshold)

	stats := domain.NodeStatistics{CPUPercent: 91.5, MemoryUsed: 7, MemoryTotal: 8, DiskUsed: 10, DiskTotal: 100}
	require.NoError(t, store.UpdateStatistics("n1", stats))

	at := time.Now().Truncate(time.Second)
	require.NoError(t, store.RecordResourceCheck("n1", true, at))

	got, err := store.GetNode("n1")
	require.NoError(t, err)
	assert.Equal(t, stats, got.Statistics)
	assert.True(t, got.HasResourceWarnings)
	require.NotNil(t, got.LastResourceCheck)
	assert.True(t, got.LastResourceCheck.Equal(at))
	assert.Equal(t, domain.DefaultDiskWarningThreshold, got.DiskWarningThreshold)

	assert.ErrorIs(t, store.UpdateStatistics("missing", stats), ErrNotFound)

	nodes, err := store.ListNodes()
	require.NoError(t, err)
	assert.Len(t, nodes, 1)
}

func TestQueryLogStore(t *testing.T) {
	store := NewQueryLogStore(newTestDB(t))
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	for i, host := range []string{"h1", "h2", "h1"} {
		require.NoError(t, store.AppendEntry(&domain.QueryLogEntry{
			HostID: host, Database: "shop", Statement: "SELECT 1", Success: i != 1,
			RowCount: 1, ExecutedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	entries, err := store.ListEntries("h1", 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.True(t, entries[0].ExecutedAt.After(entries[1].ExecutedAt))
	assert.NotEmpty(t, entries[0].ID)
	assert.True(t, entries[0].Success)

	all, err := store.ListEntries("", 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	limited, err := store.ListEntries("", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}
