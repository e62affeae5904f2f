package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"hostpanel/internal/dbclient"
	"hostpanel/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// Browser Service: database-browser session actions
// ─────────────────────────────────────────────────────────────

// CredentialSource resolves a host ID into connection parameters.
type CredentialSource interface {
	Credential(hostID string) (domain.HostCredential, error)
}

// BrowserService runs browser actions. It holds no session state: every action
// takes the current BrowserState and returns the next one together with at most
// one notification, which is also emitted as EventBrowserNotification.
type BrowserService struct {
	creds   CredentialSource
	browser *dbclient.Browser
	emitter EventEmitter
	logger  *slog.Logger

	queryLog     domain.QueryLogStore
	queryTimeout time.Duration
}

// BrowserOption configures a BrowserService.
type BrowserOption func(*BrowserService)

// WithQueryLog records every executed statement.
func WithQueryLog(store domain.QueryLogStore) BrowserOption {
	return func(s *BrowserService) { s.queryLog = store }
}

// WithQueryTimeout bounds each action; zero means no limit.
func WithQueryTimeout(d time.Duration) BrowserOption {
	return func(s *BrowserService) { s.queryTimeout = d }
}

func WithLogger(logger *slog.Logger) BrowserOption {
	return func(s *BrowserService) { s.logger = logger }
}

func NewBrowserService(creds CredentialSource, browser *dbclient.Browser, emitter EventEmitter, opts ...BrowserOption) *BrowserService {
	s := &BrowserService{
		creds:   creds,
		browser: browser,
		emitter: emitter,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Browser returns the underlying browser, e.g. to swap its guard.
func (s *BrowserService) Browser() *dbclient.Browser { return s.browser }

// ── Actions ────────────────────────────────────────────────

// Open starts a session on hostID and loads its databases.
func (s *BrowserService) Open(ctx context.Context, hostID string) (domain.BrowserState, *Notification) {
	return s.Refresh(ctx, domain.BrowserState{HostID: hostID})
}

// Refresh reloads the database listing, keeping the current selection.
func (s *BrowserService) Refresh(ctx context.Context, state domain.BrowserState) (domain.BrowserState, *Notification) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	cred, err := s.creds.Credential(state.HostID)
	if err != nil {
		state.Databases = []domain.DatabaseSummary{}
		return state, s.notify(ctx, connectionErrorNotice(err))
	}
	dbs, err := s.browser.ListDatabases(ctx, cred)
	state.Databases = dbs
	if err != nil {
		s.logger.Warn("list databases failed", "host", state.HostID, "error", err)
		return state, s.notify(ctx, connectionErrorNotice(err))
	}
	return state, nil
}

// SelectDatabase selects name, clears the table selection and page, and loads
// the tables of the new database.
func (s *BrowserService) SelectDatabase(ctx context.Context, state domain.BrowserState, name string) (domain.BrowserState, *Notification) {
	state = state.WithDatabase(name)
	if name == "" {
		return state, nil
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	cred, err := s.creds.Credential(state.HostID)
	if err != nil {
		state.Tables = []domain.TableSummary{}
		return state, s.notify(ctx, connectionErrorNotice(err))
	}
	tables, err := s.browser.ListTables(ctx, cred, name)
	state.Tables = tables
	if err != nil {
		s.logger.Warn("list tables failed", "host", state.HostID, "database", name, "error", err)
		return state, s.notify(ctx, tablesErrorNotice(err))
	}
	return state, nil
}

// SelectTable selects name and loads its first page. It is a no-op without a
// selected database. The previous page is dropped before the fetch, so a failure
// leaves no page.
func (s *BrowserService) SelectTable(ctx context.Context, state domain.BrowserState, name string) (domain.BrowserState, *Notification) {
	if state.SelectedDatabase == "" || name == "" {
		return state, nil
	}
	state = state.WithTable(name)

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	cred, err := s.creds.Credential(state.HostID)
	if err != nil {
		return state, s.notify(ctx, tableLoadErrorNotice(err))
	}
	page, err := s.browser.FetchPage(ctx, cred, state.SelectedDatabase, name)
	if err != nil {
		s.logger.Warn("fetch page failed", "host", state.HostID, "database", state.SelectedDatabase, "table", name, "error", err)
		n := tableLoadErrorNotice(err)
		if len(state.Tables) > 0 && !state.HasTable(name) {
			if guess := dbclient.Suggest(name, state.TableNames()); guess != "" {
				n.Body += " Did you mean " + guess + "?"
			}
		}
		return state, s.notify(ctx, n)
	}
	state.Page = page
	return state, nil
}

// ExecuteQuery runs statement against the selected database. A blocked
// statement keeps the previous result; a blank one changes nothing.
func (s *BrowserService) ExecuteQuery(ctx context.Context, state domain.BrowserState, statement string) (domain.BrowserState, *Notification) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	cred, err := s.creds.Credential(state.HostID)
	if err != nil {
		return state, s.notify(ctx, connectionErrorNotice(err))
	}

	started := time.Now()
	res, err := s.browser.Execute(ctx, cred, state.SelectedDatabase, statement)
	if err != nil {
		var blocked *dbclient.QueryBlockedError
		if errors.As(err, &blocked) {
			s.logger.Info("query blocked", "host", state.HostID, "verb", blocked.Verb)
			return state, s.notify(ctx, queryBlockedNotice(blocked.Verb))
		}
		return state, s.notify(ctx, queryErrorNotice(err.Error()))
	}
	if res == nil {
		return state, nil
	}

	state.Result = res
	s.record(state, res, time.Since(started))
	if !res.Success {
		return state, s.notify(ctx, queryErrorNotice(res.Error))
	}
	return state, s.notify(ctx, queryExecutedNotice(res.RowCount))
}

// History lists the most recent statements run against hostID.
func (s *BrowserService) History(hostID string, limit int) ([]domain.QueryLogEntry, error) {
	if s.queryLog == nil {
		return nil, nil
	}
	return s.queryLog.ListEntries(hostID, limit)
}

// ── helpers ────────────────────────────────────────────────

func (s *BrowserService) notify(ctx context.Context, n *Notification) *Notification {
	if s.emitter != nil {
		s.emitter.Emit(ctx, EventBrowserNotification, n)
	}
	return n
}

func (s *BrowserService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.queryTimeout > 0 {
		return context.WithTimeout(ctx, s.queryTimeout)
	}
	return context.WithCancel(ctx)
}

func (s *BrowserService) record(state domain.BrowserState, res *domain.QueryResult, took time.Duration) {
	if s.queryLog == nil {
		return
	}
	entry := &domain.QueryLogEntry{
		HostID:     state.HostID,
		Database:   state.SelectedDatabase,
		Statement:  res.Statement,
		Success:    res.Success,
		RowCount:   res.RowCount,
		Error:      res.Error,
		ExecutedAt: res.Executed,
		DurationMs: int(took.Milliseconds()),
	}
	if err := s.queryLog.AppendEntry(entry); err != nil {
		s.logger.Warn("append query log failed", "host", state.HostID, "error", err)
	}
}
