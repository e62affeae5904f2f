package httpapi

import (
	"net/http"

	"hostpanel/internal/service"

	"github.com/go-chi/chi/v5"
)

func setupHostRoutes(router chi.Router, hosts *service.HostService) {
	h := &hostHandlers{hosts: hosts}
	router.Route("/api/hosts", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Get("/{id}", h.get)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.remove)
	})
}

type hostHandlers struct {
	hosts *service.HostService
}

func (h *hostHandlers) list(w http.ResponseWriter, r *http.Request) {
	hosts, err := h.hosts.ListHosts()
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, hosts)
}

func (h *hostHandlers) get(w http.ResponseWriter, r *http.Request) {
	host, err := h.hosts.GetHost(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, host)
}

func (h *hostHandlers) create(w http.ResponseWriter, r *http.Request) {
	var in service.HostInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	host, err := h.hosts.CreateHost(in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, host)
}

func (h *hostHandlers) update(w http.ResponseWriter, r *http.Request) {
	var in service.HostInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	host, err := h.hosts.UpdateHost(chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, host)
}

func (h *hostHandlers) remove(w http.ResponseWriter, r *http.Request) {
	if err := h.hosts.DeleteHost(chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
