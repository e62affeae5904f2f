package mcpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"hostpanel/internal/dbclient"
	"hostpanel/internal/domain"
	"hostpanel/internal/secret"
	"hostpanel/internal/service"
	"hostpanel/internal/storage"

	"github.com/mark3labs/mcp-go/mcp"
	_ "modernc.org/sqlite"
)

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "game.db")
	remote, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	for _, stmt := range []string{
		`CREATE TABLE players (id INTEGER PRIMARY KEY, name TEXT NOT NULL)`,
		`INSERT INTO players (name) VALUES ('alice'), ('bob')`,
	} {
		if _, err := remote.Exec(stmt); err != nil {
			t.Fatal(err)
		}
	}
	remote.Close()

	db, err := storage.New(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	hosts := service.NewHostService(storage.NewDBHostStore(db), secret.NewMemoryStore())
	h, err := hosts.CreateHost(service.HostInput{Name: "game", Driver: "sqlite", Host: path})
	if err != nil {
		t.Fatal(err)
	}
	browser := service.NewBrowserService(hosts,
		dbclient.NewBrowser(dbclient.NewProvisioner(), nil, nil),
		&service.MockEmitter{},
		service.WithQueryLog(storage.NewQueryLogStore(db)),
	)

	s := New(Deps{
		Hosts:         hosts,
		Browser:       browser,
		Announcements: service.NewAnnouncementService(storage.NewAnnouncementStore(db)),
		Nodes:         service.NewNodeService(storage.NewNodeStore(db), nil),
	})
	return s, h.ID
}

func callTool(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) string {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	res, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("tool error: %v", err)
	}
	if len(res.Content) != 1 {
		t.Fatalf("expected one content item, got %d", len(res.Content))
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", res.Content[0])
	}
	return text.Text
}

func TestListDatabasesAndTables(t *testing.T) {
	s, hostID := newTestServer(t)

	out := callTool(t, s.handleListDatabases, map[string]any{"hostId": hostID})
	var dbs struct {
		Result       []domain.DatabaseSummary `json:"result"`
		Notification *service.Notification    `json:"notification"`
	}
	if err := json.Unmarshal([]byte(out), &dbs); err != nil {
		t.Fatal(err)
	}
	if dbs.Notification != nil || len(dbs.Result) != 1 || dbs.Result[0].Name != "main" {
		t.Fatalf("unexpected databases: %s", out)
	}

	out = callTool(t, s.handleListTables, map[string]any{"hostId": hostID, "database": "main"})
	var tables struct {
		Result []domain.TableSummary `json:"result"`
	}
	if err := json.Unmarshal([]byte(out), &tables); err != nil {
		t.Fatal(err)
	}
	if len(tables.Result) != 1 || tables.Result[0].Name != "players" || tables.Result[0].RowCount != 2 {
		t.Fatalf("unexpected tables: %s", out)
	}
}

func TestFetchAndDescribe(t *testing.T) {
	s, hostID := newTestServer(t)
	args := map[string]any{"hostId": hostID, "database": "main", "table": "players"}

	out := callTool(t, s.handleFetchTablePage, args)
	if !strings.Contains(out, `"totalRows": 2`) || !strings.Contains(out, `"name": "alice"`) {
		t.Fatalf("unexpected page: %s", out)
	}

	out = callTool(t, s.handleDescribeTable, args)
	var cols []domain.ColumnDescriptor
	if err := json.Unmarshal([]byte(out), &cols); err != nil {
		t.Fatal(err)
	}
	if len(cols) != 2 || cols[0].Field != "id" || cols[0].Key != "PRI" {
		t.Fatalf("unexpected columns: %s", out)
	}
}

func TestExecuteQuery_GuardAndHistory(t *testing.T) {
	s, hostID := newTestServer(t)

	out := callTool(t, s.handleExecuteQuery, map[string]any{"hostId": hostID, "query": "DELETE FROM players"})
	if !strings.Contains(out, `"kind": "query-blocked"`) || strings.Contains(out, `"result"`) {
		t.Fatalf("expected blocked notification only, got %s", out)
	}

	out = callTool(t, s.handleExecuteQuery, map[string]any{"hostId": hostID, "query": "SELECT COUNT(*) AS n FROM players"})
	if !strings.Contains(out, `"n": 2`) || !strings.Contains(out, `"kind": "query-executed"`) {
		t.Fatalf("unexpected result: %s", out)
	}

	out = callTool(t, s.handleQueryHistory, map[string]any{"hostId": hostID})
	var entries []domain.QueryLogEntry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || !entries[0].Success {
		t.Fatalf("expected one logged statement, got %s", out)
	}
}

func TestMissingArguments(t *testing.T) {
	s, _ := newTestServer(t)

	var req mcp.CallToolRequest
	req.Params.Arguments = map[string]any{"hostId": "x"}
	if _, err := s.handleExecuteQuery(context.Background(), req); err == nil || !strings.Contains(err.Error(), "query is required") {
		t.Fatalf("expected missing query error, got %v", err)
	}
}

func TestAnnouncementTools(t *testing.T) {
	s, _ := newTestServer(t)

	out := callTool(t, s.handleCreateAnnouncement, map[string]any{
		"title": "", "message": "m", "type": "info", "createdBy": float64(1),
	})
	if !strings.Contains(out, "title: required") {
		t.Fatalf("expected validation message, got %s", out)
	}

	out = callTool(t, s.handleCreateAnnouncement, map[string]any{
		"title": "Patch day", "message": "Servers restart at 04:00", "type": "maintenance", "createdBy": float64(3),
	})
	if !strings.Contains(out, `"isActive": true`) {
		t.Fatalf("unexpected announcement: %s", out)
	}

	out = callTool(t, s.handleListAnnouncements, map[string]any{"activeOnly": "true", "serverId": float64(12)})
	var active []domain.Announcement
	if err := json.Unmarshal([]byte(out), &active); err != nil {
		t.Fatal(err)
	}
	if len(active) != 1 || active[0].Title != "Patch day" {
		t.Fatalf("unexpected active announcements: %s", out)
	}
}

func TestHostIDFromURI(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"hostpanel://hosts/abc-123/databases", "abc-123"},
		{"hostpanel://hosts/abc/tables", ""},
		{"hostpanel://hosts//databases", ""},
		{"notes://page/x/blocks", ""},
	}
	for _, tt := range tests {
		if got := hostIDFromURI(tt.uri); got != tt.want {
			t.Errorf("hostIDFromURI(%q) = %q, want %q", tt.uri, got, tt.want)
		}
	}
}
