package feed

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
)

// Handler exposes saved searches over HTTP. Every route expects an
// x-user-id header.
//
//	POST /search-configs               → save a search
//	GET  /search-configs/{id}/feed     → the refreshed feed
//	POST /search-configs/{id}/refresh  → refresh now
type Handler struct {
	svc *Service
}

// NewHandler returns a configured Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the saved-search routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/search-configs", h.handleCreate)
	mux.HandleFunc("/search-configs/", h.handleConfig)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var body NewSearch
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	cfg, err := h.svc.Create(r.Context(), userID, body)
	if err != nil {
		writeError(w, err)
		return
	}
	jsonOK(w, http.StatusCreated, cfg)
}

func (h *Handler) handleConfig(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 3 {
		jsonError(w, fmt.Sprintf("unknown route %q", r.URL.Path), http.StatusNotFound)
		return
	}
	id, action := parts[1], parts[2]

	switch {
	case action == "feed" && r.Method == http.MethodGet:
		entries, err := h.svc.Feed(r.Context(), userID, id)
		if err != nil {
			writeError(w, err)
			return
		}
		jsonOK(w, http.StatusOK, entries)
	case action == "refresh" && r.Method == http.MethodPost:
		stats, err := h.svc.Refresh(r.Context(), userID, id)
		if err != nil {
			writeError(w, err)
			return
		}
		jsonOK(w, http.StatusOK, map[string]int{
			"inserted":   stats.Inserted,
			"filtered":   stats.Filtered,
			"duplicates": stats.Duplicates,
			"failed":     stats.Failed,
		})
	case action == "feed" || action == "refresh":
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
	default:
		jsonError(w, fmt.Sprintf("unknown route %q", r.URL.Path), http.StatusNotFound)
	}
}

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
		jsonError(w, "search config not found", http.StatusNotFound)
	default:
		log.Printf("[feed] error: %v", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
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
