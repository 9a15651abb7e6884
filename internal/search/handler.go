package search

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"rezzai/jobsearch/internal/scraper"
)

// Handler serves GET /jobs?location=&page=&country=&what=.
type Handler struct {
	svc *Service
}

// NewHandler returns a Handler over svc.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the search route on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/jobs", h.handleJobs)
}

func (h *Handler) handleJobs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	page := 1
	if raw := strings.TrimSpace(q.Get("page")); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil {
			jsonError(w, "page must be an integer", http.StatusBadRequest)
			return
		}
		page = p
	}

	resp, err := h.svc.Search(r.Context(), Request{
		Location: q.Get("location"),
		Page:     page,
		Country:  q.Get("country"),
		What:     q.Get("what"),
	})
	if err != nil {
		writeSearchError(w, err)
		return
	}
	jsonOK(w, resp)
}

func writeSearchError(w http.ResponseWriter, err error) {
	var pe *scraper.ProviderError
	switch {
	case errors.Is(err, scraper.ErrMissingCredentials):
		jsonError(w, "Missing ADZUNA_APP_ID or ADZUNA_APP_KEY", http.StatusInternalServerError)
	case errors.As(err, &pe):
		log.Printf("[search] Adzuna API error: %d %s", pe.Status, pe.Body)
		jsonDetails(w, "Adzuna request failed", pe.Body, http.StatusBadGateway)
	default:
		log.Printf("[search] Jobs API error: %v", err)
		jsonDetails(w, "Failed to fetch jobs", err.Error(), http.StatusInternalServerError)
	}
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func jsonOK(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func jsonDetails(w http.ResponseWriter, msg, details string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg, "details": details})
}
