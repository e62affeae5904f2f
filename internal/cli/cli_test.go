package cli

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"hostpanel/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// =============================================================================
// Test Setup Helpers
// =============================================================================

type cliEnv struct {
	dataDir string
	gameDB  string
}

func setupCLI(t *testing.T) *cliEnv {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)

	gamePath := filepath.Join(dir, "game.db")
	db, err := sql.Open("sqlite", gamePath)
	require.NoError(t, err)
	for _, stmt := range []string{
		`CREATE TABLE players (id INTEGER PRIMARY KEY, name TEXT NOT NULL)`,
		`INSERT INTO players (name) VALUES ('alice'), ('bob')`,
	} {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
	require.NoError(t, db.Close())

	return &cliEnv{dataDir: filepath.Join(dir, "data"), gameDB: gamePath}
}

func (e *cliEnv) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--data-dir", e.dataDir, "--log-level", "error"}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func (e *cliEnv) addGameHost(t *testing.T) string {
	t.Helper()
	out, _, err := e.run(t, "hosts", "add", "--name", "game", "--driver", "sqlite", "--host", e.gameDB, "-o", "json")
	require.NoError(t, err)
	var h domain.DatabaseHost
	require.NoError(t, json.Unmarshal([]byte(out), &h), out)
	require.NotEmpty(t, h.ID)
	return h.ID
}

// =============================================================================
// Commands
// =============================================================================

func TestVersionCommand(t *testing.T) {
	e := setupCLI(t)
	out, _, err := e.run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "hostpanel v"+Version)
}

func TestUnknownOutputFormat(t *testing.T) {
	e := setupCLI(t)
	_, _, err := e.run(t, "hosts", "list", "-o", "yaml")
	assert.ErrorContains(t, err, "unknown output format")
}

func TestHosts(t *testing.T) {
	e := setupCLI(t)
	id := e.addGameHost(t)

	out, _, err := e.run(t, "hosts", "list")
	require.NoError(t, err)
	assert.Contains(t, out, id)
	assert.Contains(t, out, "sqlite")
	assert.Contains(t, out, "(1 rows)")

	out, _, err = e.run(t, "hosts", "remove", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Removed host")

	_, _, err = e.run(t, "hosts", "remove", id)
	assert.Error(t, err)

	out, _, err = e.run(t, "hosts", "list", "-o", "json")
	require.NoError(t, err)
	assert.JSONEq(t, "[]", out)
}

func TestDBCommands(t *testing.T) {
	e := setupCLI(t)
	id := e.addGameHost(t)

	out, _, err := e.run(t, "db", "databases", "--host", id)
	require.NoError(t, err)
	assert.Contains(t, out, "main")

	out, _, err = e.run(t, "db", "tables", "--host", id, "main")
	require.NoError(t, err)
	assert.Contains(t, out, "players")

	out, _, err = e.run(t, "db", "describe", "--host", id, "main", "players")
	require.NoError(t, err)
	assert.Contains(t, out, "PRI")

	out, _, err = e.run(t, "db", "page", "--host", id, "main", "players")
	require.NoError(t, err)
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "2 of 2 rows")

	out, stderr, err := e.run(t, "db", "query", "--host", id, "SELECT name FROM players ORDER BY name")
	require.NoError(t, err)
	assert.Contains(t, out, "bob")
	assert.Contains(t, stderr, "Returned 2 rows")

	out, _, err = e.run(t, "db", "query", "--host", id, "-o", "json", "SELECT 1")
	require.NoError(t, err)
	var res struct {
		Success bool             `json:"success"`
		Data    []map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res), out)
	assert.True(t, res.Success)
	assert.Equal(t, []map[string]any{{"1": float64(1)}}, res.Data)

	_, _, err = e.run(t, "db", "query", "--host", id, "delete from players")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Query Blocked")
	assert.Contains(t, err.Error(), "(DELETE)")

	_, _, err = e.run(t, "db", "page", "--host", id, "main", "player")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Error Loading Table Data")
}

func TestDBCommands_DeniedVerbsFromEnv(t *testing.T) {
	e := setupCLI(t)
	id := e.addGameHost(t)

	_, _, err := e.run(t, "db", "query", "--host", id, "DELETE FROM players WHERE id = 2")
	require.ErrorContains(t, err, "(DELETE)")

	t.Setenv("HOSTPANEL_BROWSER__DENIED_VERBS", "ALTER")
	_, _, err = e.run(t, "db", "query", "--host", id, "ALTER TABLE players ADD COLUMN level INTEGER")
	require.ErrorContains(t, err, "(ALTER)")

	_, stderr, err := e.run(t, "db", "query", "--host", id, "DELETE FROM players WHERE id = 2")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Query Executed")
}

func TestAnnouncementCommands(t *testing.T) {
	e := setupCLI(t)

	_, _, err := e.run(t, "announcements", "add", "--title", "", "--message", "m", "--created-by", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title: required")

	_, _, err = e.run(t, "announcements", "add", "--title", "x", "--message", "m", "--created-by", "1", "--start", "tomorrow")
	assert.ErrorContains(t, err, "--start")

	out, _, err := e.run(t, "announcements", "add",
		"--title", "Maintenance", "--message", "Reboot at 02:00", "--type", "maintenance",
		"--created-by", "1", "--servers", "12,14")
	require.NoError(t, err)
	assert.Contains(t, out, "Created announcement")

	out, _, err = e.run(t, "ann", "list", "--server", "12", "-o", "json")
	require.NoError(t, err)
	var list []domain.Announcement
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Len(t, list, 1)
	assert.Equal(t, []int64{12, 14}, list[0].TargetServers)

	out, _, err = e.run(t, "ann", "list", "--server", "99")
	require.NoError(t, err)
	assert.Contains(t, out, "(0 rows)")
}

func TestNodeCommands(t *testing.T) {
	e := setupCLI(t)

	out, _, err := e.run(t, "nodes", "add", "--name", "eu-1", "--fqdn", "eu-1.example.net", "-o", "json")
	require.NoError(t, err)
	var n domain.Node
	require.NoError(t, json.Unmarshal([]byte(out), &n))
	assert.Equal(t, domain.DefaultCPUWarningThreshold, n.CPUWarningThreshold)

	out, _, err = e.run(t, "nodes", "report", n.ID, "--cpu", "91.5", "--memory-used", "88", "--memory-total", "100")
	require.NoError(t, err)
	assert.Equal(t, "cpu: 91.5%, memory: 88%\n", out)

	out, _, err = e.run(t, "nodes", "warnings")
	require.NoError(t, err)
	assert.Contains(t, out, "eu-1")
	assert.Contains(t, out, "critical")

	out, _, err = e.run(t, "nodes", "check")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "1 node(s)"), out)
}

func TestCommandFlags(t *testing.T) {
	root := NewRootCmd()

	for _, flag := range []string{"config", "data-dir", "log-level", "secrets", "output"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), "flag %q should exist", flag)
	}

	serve, _, err := root.Find([]string{"serve"})
	require.NoError(t, err)
	for _, flag := range []string{"http-addr", "denied-verbs"} {
		assert.NotNil(t, serve.Flags().Lookup(flag), "flag %q should exist", flag)
	}

	query, _, err := root.Find([]string{"db", "query"})
	require.NoError(t, err)
	assert.Equal(t, "query <statement>", query.Use)
	assert.NotNil(t, query.Flags().Lookup("database"))
}
