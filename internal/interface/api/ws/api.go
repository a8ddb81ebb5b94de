package ws

import (
	"encoding/json"
	"net/http"
	"strconv"

	"incidentBot/internal/app/events"
	"incidentBot/internal/domain"
)

const maxListLimit = 500

type Config struct {
	Addr      string
	Incidents domain.IncidentRepository
}

func (c *Config) addr() string {
	if c == nil || c.Addr == "" {
		return ":8080"
	}
	return c.Addr
}

type apiHandlers struct {
	incidents domain.IncidentRepository
}

func newAPIHandlers(cfg Config) *apiHandlers {
	return &apiHandlers{incidents: cfg.Incidents}
}

func (a *apiHandlers) register(mux *http.ServeMux) {
	if a == nil || mux == nil {
		return
	}

	mux.HandleFunc("/healthz", a.handleHealth)
	if a.incidents != nil {
		mux.HandleFunc("/api/incidents", a.withCORS(a.handleListIncidents))
	}
}

func (a *apiHandlers) withCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		setCORSHeaders(w)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next(w, r)
	}
}

func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Access-Control-Allow-Methods", "GET,OPTIONS")
}

func (a *apiHandlers) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (a *apiHandlers) handleListIncidents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = min(n, maxListLimit)
	}

	records, err := a.incidents.ListIncidents(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not list incidents")
		return
	}

	out := make([]events.IncidentDTO, 0, len(records))
	for _, rec := range records {
		if rec == nil {
			continue
		}
		out = append(out, events.NewIncidentDTO(*rec))
	}

	writeJSON(w, http.StatusOK, map[string]any{"incidents": out})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
