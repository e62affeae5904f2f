package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"hostpanel/internal/domain"
	"hostpanel/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	sessionName  = "hostpanel"
	sessionKeyID = "browser_session"
	historyLimit = 50
)

func setupBrowserRoutes(router chi.Router, h *browserHandlers) {
	router.Route("/api/browser", func(r chi.Router) {
		r.Post("/{hostID}/open", h.open)
		r.Post("/refresh", h.refresh)
		r.Post("/databases/{name}", h.selectDatabase)
		r.Post("/tables/{name}", h.selectTable)
		r.Post("/query", h.query)
		r.Get("/state", h.state)
		r.Get("/history", h.history)
		r.Delete("/", h.close)
	})
}

// browserResponse is the body of every browser action.
type browserResponse struct {
	State        domain.BrowserState   `json:"state"`
	Notification *service.Notification `json:"notification"`
}

type queryRequest struct {
	Query string `json:"query"`
}

type browserHandlers struct {
	hosts        *service.HostService
	browser      *service.BrowserService
	sessions     *service.SessionRegistry
	sessionStore sessions.Store
	logger       *slog.Logger
}

// sessionID returns the browser session of the request cookie. With create set,
// a missing session is issued and the cookie is written.
func (h *browserHandlers) sessionID(w http.ResponseWriter, r *http.Request, create bool) (string, bool) {
	// A cookie signed with an old secret yields a fresh session and an error.
	sess, _ := h.sessionStore.Get(r, sessionName)
	if id, ok := sess.Values[sessionKeyID].(string); ok && id != "" {
		return id, true
	}
	if !create {
		return "", false
	}
	id := uuid.NewString()
	sess.Values[sessionKeyID] = id
	if err := sess.Save(r, w); err != nil {
		h.logger.Warn("save browser session failed", "error", err)
		return "", false
	}
	return id, true
}

func (h *browserHandlers) open(w http.ResponseWriter, r *http.Request) {
	hostID := chi.URLParam(r, "hostID")
	if _, err := h.hosts.GetHost(hostID); err != nil {
		writeError(w, r, err)
		return
	}
	id, ok := h.sessionID(w, r, true)
	if !ok {
		writeJSON(w, r, http.StatusInternalServerError, errorBody{Error: "could not create browser session"})
		return
	}

	var note *service.Notification
	err := h.sessions.Start(id, func() domain.BrowserState {
		var next domain.BrowserState
		next, note = h.browser.Open(r.Context(), hostID)
		return next
	})
	h.respond(w, r, id, note, err)
}

// update runs action on the caller's session.
func (h *browserHandlers) update(w http.ResponseWriter, r *http.Request, action func(context.Context, domain.BrowserState) (domain.BrowserState, *service.Notification)) {
	id, ok := h.sessionID(w, r, false)
	if !ok {
		writeError(w, r, service.ErrNoSession)
		return
	}
	var note *service.Notification
	err := h.sessions.Update(id, func(cur domain.BrowserState) domain.BrowserState {
		var next domain.BrowserState
		next, note = action(r.Context(), cur)
		return next
	})
	h.respond(w, r, id, note, err)
}

func (h *browserHandlers) respond(w http.ResponseWriter, r *http.Request, id string, note *service.Notification, err error) {
	if err != nil {
		writeError(w, r, err)
		return
	}
	state, _ := h.sessions.Get(id)
	writeJSON(w, r, http.StatusOK, browserResponse{State: state, Notification: note})
}

func (h *browserHandlers) refresh(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, h.browser.Refresh)
}

func (h *browserHandlers) selectDatabase(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	h.update(w, r, func(ctx context.Context, s domain.BrowserState) (domain.BrowserState, *service.Notification) {
		return h.browser.SelectDatabase(ctx, s, name)
	})
}

func (h *browserHandlers) selectTable(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	h.update(w, r, func(ctx context.Context, s domain.BrowserState) (domain.BrowserState, *service.Notification) {
		return h.browser.SelectTable(ctx, s, name)
	})
}

func (h *browserHandlers) query(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	h.update(w, r, func(ctx context.Context, s domain.BrowserState) (domain.BrowserState, *service.Notification) {
		return h.browser.ExecuteQuery(ctx, s, req.Query)
	})
}

func (h *browserHandlers) state(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r, false)
	if !ok {
		writeError(w, r, service.ErrNoSession)
		return
	}
	state, ok := h.sessions.Get(id)
	if !ok {
		writeError(w, r, service.ErrNoSession)
		return
	}
	writeJSON(w, r, http.StatusOK, browserResponse{State: state})
}

func (h *browserHandlers) history(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r, false)
	if !ok {
		writeError(w, r, service.ErrNoSession)
		return
	}
	state, ok := h.sessions.Get(id)
	if !ok {
		writeError(w, r, service.ErrNoSession)
		return
	}
	entries, err := h.browser.History(state.HostID, historyLimit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if entries == nil {
		entries = []domain.QueryLogEntry{}
	}
	writeJSON(w, r, http.StatusOK, entries)
}

func (h *browserHandlers) close(w http.ResponseWriter, r *http.Request) {
	if id, ok := h.sessionID(w, r, false); ok {
		h.sessions.Delete(id)
	}
	w.WriteHeader(http.StatusNoContent)
}
