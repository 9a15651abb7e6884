package kanban

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
)

// Handler exposes Service over HTTP. Every route expects an x-user-id
// header forwarded by the gateway.
//
//	GET    /applications              → list the user's applications
//	POST   /applications              → start tracking a job
//	GET    /applications/{id}         → one application
//	POST   /applications/{id}/status  → move to a new status
//	DELETE /applications/{id}         → stop tracking
type Handler struct {
	svc *Service
}

// NewHandler returns a configured Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts all tracker routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/applications", h.handleApplications)
	mux.HandleFunc("/applications/", h.handleApplication)
}

// ─── Route dispatch ───────────────────────────────────────────────────────────

// handleApplications handles GET and POST /applications.
func (h *Handler) handleApplications(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	switch r.Method {
	case http.MethodGet:
		h.list(w, r, userID)
	case http.MethodPost:
		h.create(w, r, userID)
	default:
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleApplication handles /applications/{id} and /applications/{id}/status.
func (h *Handler) handleApplication(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	switch {
	case len(parts) == 2 && r.Method == http.MethodGet:
		h.get(w, r, userID, parts[1])
	case len(parts) == 2 && r.Method == http.MethodDelete:
		h.delete(w, r, userID, parts[1])
	case len(parts) == 3 && parts[2] == "status" && r.Method == http.MethodPost:
		h.updateStatus(w, r, userID, parts[1])
	case len(parts) == 2 || (len(parts) == 3 && parts[2] == "status"):
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
	default:
		jsonError(w, fmt.Sprintf("unknown route %q", r.URL.Path), http.StatusNotFound)
	}
}

// ─── Individual handlers ──────────────────────────────────────────────────────

func (h *Handler) list(w http.ResponseWriter, r *http.Request, userID string) {
	apps, err := h.svc.List(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	jsonOK(w, http.StatusOK, apps)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request, userID string) {
	var body NewApplication
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	app, err := h.svc.Create(r.Context(), userID, body)
	if err != nil {
		writeError(w, err)
		return
	}
	jsonOK(w, http.StatusCreated, app)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request, userID, id string) {
	app, err := h.svc.Get(r.Context(), userID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	jsonOK(w, http.StatusOK, app)
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request, userID, id string) {
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Status == "" {
		jsonError(w, "body must contain status", http.StatusBadRequest)
		return
	}
	app, err := h.svc.UpdateStatus(r.Context(), userID, id, body.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	jsonOK(w, http.StatusOK, app)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request, userID, id string) {
	if err := h.svc.Delete(r.Context(), userID, id); err != nil {
		writeError(w, err)
		return
	}
	jsonOK(w, http.StatusOK, map[string]bool{"success": true})
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := r.Header.Get("x-user-id")
	if userID == "" {
		jsonError(w, "missing x-user-id header", http.StatusUnauthorized)
		return "", false
	}
	return userID, true
}

func writeError(w http.ResponseWriter, err error) {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		jsonError(w, ve.Msg, http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		jsonError(w, "application not found", http.StatusNotFound)
	case errors.Is(err, ErrDuplicate):
		jsonError(w, "application already exists for this job", http.StatusConflict)
	case errors.Is(err, ErrConflict):
		jsonError(w, "application status changed, reload and retry", http.StatusConflict)
	default:
		log.Printf("[tracker] database error: %v", err)
		jsonError(w, "database error", http.StatusInternalServerError)
	}
}

func jsonOK(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
