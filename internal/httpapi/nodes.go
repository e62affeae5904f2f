package httpapi

import (
	"net/http"

	"hostpanel/internal/domain"
	"hostpanel/internal/service"

	"github.com/go-chi/chi/v5"
)

func setupNodeRoutes(router chi.Router, nodes *service.NodeService) {
	h := &nodeHandlers{nodes: nodes}
	router.Route("/api/nodes", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Get("/warnings", h.warnings)
		r.Post("/{id}/statistics", h.report)
		r.Delete("/{id}", h.remove)
	})
}

type nodeHandlers struct {
	nodes *service.NodeService
}

type reportResponse struct {
	Warnings []domain.ResourceWarning `json:"warnings"`
	Color    string                   `json:"color"`
	Summary  string                   `json:"summary"`
}

func (h *nodeHandlers) list(w http.ResponseWriter, r *http.Request) {
	nodes, err := h.nodes.ListNodes()
	if err != nil {
		writeError(w, r, err)
		return
	}
	if nodes == nil {
		nodes = []domain.Node{}
	}
	writeJSON(w, r, http.StatusOK, nodes)
}

func (h *nodeHandlers) create(w http.ResponseWriter, r *http.Request) {
	var n domain.Node
	if err := decodeJSON(r, &n); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.nodes.CreateNode(&n); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, n)
}

func (h *nodeHandlers) warnings(w http.ResponseWriter, r *http.Request) {
	rows, err := h.nodes.Warnings()
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, rows)
}

func (h *nodeHandlers) report(w http.ResponseWriter, r *http.Request) {
	var stats domain.NodeStatistics
	if err := decodeJSON(r, &stats); err != nil {
		writeError(w, r, err)
		return
	}
	warnings, err := h.nodes.ReportStatistics(chi.URLParam(r, "id"), stats)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if warnings == nil {
		warnings = []domain.ResourceWarning{}
	}
	writeJSON(w, r, http.StatusOK, reportResponse{
		Warnings: warnings,
		Color:    domain.WarningColor(warnings),
		Summary:  domain.WarningSummary(warnings),
	})
}

func (h *nodeHandlers) remove(w http.ResponseWriter, r *http.Request) {
	if err := h.nodes.DeleteNode(chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
