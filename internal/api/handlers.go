package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/martinsuchenak/netorg/internal/classify"
	"github.com/martinsuchenak/netorg/internal/health"
	"github.com/martinsuchenak/netorg/internal/identify"
	"github.com/martinsuchenak/netorg/internal/log"
	"github.com/martinsuchenak/netorg/internal/model"
	"github.com/martinsuchenak/netorg/internal/organize"
	"github.com/martinsuchenak/netorg/internal/oui"
	"github.com/martinsuchenak/netorg/internal/report"
	"github.com/martinsuchenak/netorg/internal/storage"
	"github.com/martinsuchenak/netorg/internal/unifi"
)

// Controller is the subset of the controller client the API needs.
type Controller interface {
	FetchClients(ctx context.Context) ([]model.Client, error)
	FetchDevices(ctx context.Context) ([]model.Device, error)
	CommitReservation(ctx context.Context, mac, ip, hostname string) error
}

// Handler handles HTTP requests
type Handler struct {
	storage    storage.Storage
	controller Controller
	organizer  *organize.Organizer
	advisor    *health.Advisor
	classifier *classify.Classifier
	identifier *identify.Identifier
	scheme     *model.Scheme
}

// NewHandler creates a new API handler
func NewHandler(s storage.Storage, controller Controller, organizer *organize.Organizer,
	advisor *health.Advisor, classifier *classify.Classifier, identifier *identify.Identifier,
	scheme *model.Scheme) *Handler {
	return &Handler{
		storage:    s,
		controller: controller,
		organizer:  organizer,
		advisor:    advisor,
		classifier: classifier,
		identifier: identifier,
		scheme:     scheme,
	}
}

// RegisterRoutes registers all API routes
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Organization passes
	mux.HandleFunc("POST /api/organize", h.runOrganize)

	// Run history
	mux.HandleFunc("GET /api/runs", h.listRuns)
	mux.HandleFunc("GET /api/runs/{id}", h.getRun)
	mux.HandleFunc("DELETE /api/runs/{id}", h.deleteRun)
	mux.HandleFunc("GET /api/runs/{id}/report", h.getRunReport)
	mux.HandleFunc("GET /api/runs/{id}/report.html", h.getRunReportHTML)

	// Controller pass-through views
	mux.HandleFunc("GET /api/clients", h.listClients)
	mux.HandleFunc("GET /api/devices", h.listDevices)

	// Advisory and reference
	mux.HandleFunc("GET /api/health", h.getHealth)
	mux.HandleFunc("GET /api/scheme", h.getScheme)
	mux.HandleFunc("GET /api/reservations", h.listReservations)
	mux.HandleFunc("GET /api/lookup/{mac}", h.lookupMAC)
}

type organizeRequest struct {
	Apply bool `json:"apply"`
}

// runOrganize handles POST /api/organize
func (h *Handler) runOrganize(w http.ResponseWriter, r *http.Request) {
	var req organizeRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	clients, err := h.controller.FetchClients(r.Context())
	if err != nil {
		h.internalError(w, err)
		return
	}
	devices, err := h.controller.FetchDevices(r.Context())
	if err != nil {
		h.internalError(w, err)
		return
	}
	unifi.ResolveUplinks(clients, devices)

	opts := organize.Options{Apply: req.Apply}
	if req.Apply {
		opts.Committer = h.controller
	}

	result, err := h.organizer.Run(r.Context(), clients, opts)
	if err != nil {
		h.internalError(w, err)
		return
	}

	if err := h.storage.SaveRun(result); err != nil {
		// The pass itself succeeded; surface the result anyway.
		log.Error("Failed to persist run", "run_id", result.RunID, "error", err)
	}

	h.writeJSON(w, http.StatusOK, result)
}

// listRuns handles GET /api/runs?limit=
func (h *Handler) listRuns(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			h.writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	runs, err := h.storage.ListRuns(limit)
	if err != nil {
		h.internalError(w, err)
		return
	}
	if runs == nil {
		runs = []storage.RunSummary{}
	}

	h.writeJSON(w, http.StatusOK, runs)
}

// getRun handles GET /api/runs/{id}
func (h *Handler) getRun(w http.ResponseWriter, r *http.Request) {
	result, ok := h.loadRun(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// deleteRun handles DELETE /api/runs/{id}
func (h *Handler) deleteRun(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "run ID required")
		return
	}

	if err := h.storage.DeleteRun(id); err != nil {
		if errors.Is(err, storage.ErrRunNotFound) {
			h.writeError(w, http.StatusNotFound, "run not found")
			return
		}
		h.internalError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// getRunReport handles GET /api/runs/{id}/report
func (h *Handler) getRunReport(w http.ResponseWriter, r *http.Request) {
	result, ok := h.loadRun(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(report.Markdown(result)))
}

// getRunReportHTML handles GET /api/runs/{id}/report.html
func (h *Handler) getRunReportHTML(w http.ResponseWriter, r *http.Request) {
	result, ok := h.loadRun(w, r)
	if !ok {
		return
	}

	page, err := report.HTML(report.Markdown(result))
	if err != nil {
		h.internalError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(page)
}

// listClients handles GET /api/clients
func (h *Handler) listClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.controller.FetchClients(r.Context())
	if err != nil {
		h.internalError(w, err)
		return
	}

	devices, err := h.controller.FetchDevices(r.Context())
	if err == nil {
		unifi.ResolveUplinks(clients, devices)
	}

	h.writeJSON(w, http.StatusOK, clients)
}

// listDevices handles GET /api/devices
func (h *Handler) listDevices(w http.ResponseWriter, r *http.Request) {
	devices, err := h.controller.FetchDevices(r.Context())
	if err != nil {
		h.internalError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, devices)
}

// getHealth handles GET /api/health
func (h *Handler) getHealth(w http.ResponseWriter, r *http.Request) {
	clients, err := h.controller.FetchClients(r.Context())
	if err != nil {
		h.internalError(w, err)
		return
	}
	devices, err := h.controller.FetchDevices(r.Context())
	if err != nil {
		h.internalError(w, err)
		return
	}

	recs := h.advisor.Evaluate(clients, devices)
	if recs == nil {
		recs = []model.Recommendation{}
	}

	h.writeJSON(w, http.StatusOK, recs)
}

// getScheme handles GET /api/scheme
func (h *Handler) getScheme(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.scheme)
}

// listReservations handles GET /api/reservations
func (h *Handler) listReservations(w http.ResponseWriter, r *http.Request) {
	reservations, err := h.storage.ListReservations()
	if err != nil {
		h.internalError(w, err)
		return
	}
	if reservations == nil {
		reservations = []storage.Reservation{}
	}

	h.writeJSON(w, http.StatusOK, reservations)
}

type lookupResponse struct {
	MAC          string `json:"mac"`
	Manufacturer string `json:"manufacturer"`
	Hint         string `json:"hint,omitempty"`
	Category     string `json:"category,omitempty"`
	Tier         string `json:"tier,omitempty"`
}

// lookupMAC handles GET /api/lookup/{mac}
func (h *Handler) lookupMAC(w http.ResponseWriter, r *http.Request) {
	mac := r.PathValue("mac")
	if oui.Prefix(mac) == "" {
		h.writeError(w, http.StatusBadRequest, "invalid MAC address")
		return
	}

	resp := lookupResponse{
		MAC:          mac,
		Manufacturer: oui.Lookup(mac),
	}
	resp.Hint = oui.ProductHint(resp.Manufacturer)

	if match, ok := h.classifier.Classify(&model.Client{MAC: mac}); ok {
		resp.Category = match.Category
		resp.Tier = match.Tier.String()
	}

	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) loadRun(w http.ResponseWriter, r *http.Request) (*model.Result, bool) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "run ID required")
		return nil, false
	}

	result, err := h.storage.GetRun(id)
	if err != nil {
		if errors.Is(err, storage.ErrRunNotFound) {
			h.writeError(w, http.StatusNotFound, "run not found")
			return nil, false
		}
		h.internalError(w, err)
		return nil, false
	}

	return result, true
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response
func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// internalError logs the error and writes a generic 500 response
func (h *Handler) internalError(w http.ResponseWriter, err error) {
	log.Error("Internal server error", "error", err)
	h.writeError(w, http.StatusInternalServerError, "Internal Server Error")
}
