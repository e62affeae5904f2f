package dbclient

import (
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"testing"

	"hostpanel/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newSQLiteHost creates a database file with a players table of n rows.
func newSQLiteHost(t *testing.T, n int) domain.HostCredential {
	t.Helper()
	path := filepath.Join(t.TempDir(), "game.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE players (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		score REAL DEFAULT 0,
		avatar BLOB
	)`)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE bans (id INTEGER PRIMARY KEY, reason TEXT)`)
	require.NoError(t, err)
	for i := 1; i <= n; i++ {
		_, err = db.Exec(`INSERT INTO players (name, score, avatar) VALUES (?, ?, ?)`, "p", float64(i)/2, nil)
		require.NoError(t, err)
	}
	return domain.HostCredential{Driver: domain.DatabaseDriverSQLite, Address: path}
}

func TestSQLite_Browse(t *testing.T) {
	ctx := context.Background()
	cred := newSQLiteHost(t, 75)
	b := NewBrowser(NewProvisioner(), nil, nil)

	dbs, err := b.ListDatabases(ctx, cred)
	require.NoError(t, err)
	assert.Equal(t, []domain.DatabaseSummary{{Name: "main", TableCount: 2}}, dbs)

	tables, err := b.ListTables(ctx, cred, "main")
	require.NoError(t, err)
	assert.Equal(t, []domain.TableSummary{
		{Name: "bans", RowCount: 0},
		{Name: "players", RowCount: 75},
	}, tables)

	cols, err := b.DescribeTable(ctx, cred, "main", "players")
	require.NoError(t, err)
	require.Len(t, cols, 4)
	assert.Equal(t, "id", cols[0].Field)
	assert.Equal(t, "PRI", cols[0].Key)
	assert.False(t, cols[1].Nullable)
	require.NotNil(t, cols[2].Default)
	assert.Equal(t, "0", *cols[2].Default)

	page, err := b.FetchPage(ctx, cred, "main", "players")
	require.NoError(t, err)
	assert.Len(t, page.Rows, domain.PageSize)
	assert.Equal(t, int64(75), page.TotalRows)
	avatar, ok := page.Rows[0].Get("avatar")
	require.True(t, ok)
	assert.True(t, avatar.IsNull())
}

func TestSQLite_Execute(t *testing.T) {
	ctx := context.Background()
	cred := newSQLiteHost(t, 2)
	b := NewBrowser(NewProvisioner(), nil, nil)

	res, err := b.Execute(ctx, cred, "main", "SELECT id, score FROM players ORDER BY id")
	require.NoError(t, err)
	require.True(t, res.Success, res.Error)
	data, err := json.Marshal(res.Rows)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1,"score":0.5},{"id":2,"score":1}]`, string(data))

	res, err = b.Execute(ctx, cred, "main", "SELECT * FROM missing")
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "missing")

	res, err = b.Execute(ctx, cred, "main", "DELETE FROM players")
	assert.Nil(t, res)
	require.Error(t, err)

	res, err = b.Execute(ctx, cred, "main", "SELECT COUNT(*) AS n FROM players")
	require.NoError(t, err)
	n, _ := res.Rows[0].Get("n")
	assert.Equal(t, "2", n.String())
}
