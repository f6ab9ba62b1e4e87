package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/sportslens/sportslens/internal/core"
)

// handleFetch proxies one pipeline fetch. The endpoint path arrives in
// the "path" query parameter; every other query parameter is forwarded
// to the remote service.
func (s *Server) handleFetch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	path := query.Get("path")
	if path == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "path query parameter is required"})
		return
	}

	params := core.Params{}
	for key, values := range query {
		if key == "path" || len(values) == 0 {
			continue
		}
		params[key] = values[0]
	}

	envelope, err := s.client.Fetch(r.Context(), path, params)
	if err != nil {
		s.logger.Error("fetch failed", zap.String("path", path), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, envelope)
}

func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	if s.client == nil || s.client.Cache == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "cache is not configured"})
		return
	}

	stats := s.client.Cache.Stats()
	writeJSON(w, http.StatusOK, map[string]any{
		"hits":     stats.Hits,
		"misses":   stats.Misses,
		"hit_rate": stats.HitRate(),
		"entries":  s.client.Cache.Len(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
