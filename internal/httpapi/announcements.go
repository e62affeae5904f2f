package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"hostpanel/internal/domain"
	"hostpanel/internal/service"

	"github.com/go-chi/chi/v5"
)

func setupAnnouncementRoutes(router chi.Router, announcements *service.AnnouncementService) {
	h := &announcementHandlers{announcements: announcements}
	router.Route("/api/announcements", func(r chi.Router) {
		r.Get("/", h.list)       // ?active=1&server=ID
		r.Get("/badge", h.badge) // navigation badge count
		r.Post("/", h.create)
		r.Get("/{id}", h.get)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.remove)
	})
}

type announcementHandlers struct {
	announcements *service.AnnouncementService
}

func (h *announcementHandlers) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("active") == "" && q.Get("server") == "" {
		all, err := h.announcements.List()
		if err != nil {
			writeError(w, r, err)
			return
		}
		if all == nil {
			all = []domain.Announcement{}
		}
		writeJSON(w, r, http.StatusOK, all)
		return
	}

	var serverID int64
	if raw := q.Get("server"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			writeError(w, r, fmt.Errorf("%w: server must be a positive id", errBadRequest))
			return
		}
		serverID = id
	}
	active, err := h.announcements.ActiveFor(serverID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, active)
}

func (h *announcementHandlers) badge(w http.ResponseWriter, r *http.Request) {
	count, err := h.announcements.ActiveCount()
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"count": count})
}

func (h *announcementHandlers) get(w http.ResponseWriter, r *http.Request) {
	a, err := h.announcements.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, a)
}

func (h *announcementHandlers) create(w http.ResponseWriter, r *http.Request) {
	var a domain.Announcement
	if err := decodeJSON(r, &a); err != nil {
		writeError(w, r, err)
		return
	}
	a.ID = ""
	if err := h.announcements.Create(&a); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, a)
}

func (h *announcementHandlers) update(w http.ResponseWriter, r *http.Request) {
	var a domain.Announcement
	if err := decodeJSON(r, &a); err != nil {
		writeError(w, r, err)
		return
	}
	a.ID = chi.URLParam(r, "id")
	if err := h.announcements.Update(&a); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, a)
}

func (h *announcementHandlers) remove(w http.ResponseWriter, r *http.Request) {
	if err := h.announcements.Delete(chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
