package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"
)

// Report listing limits
const (
	DefaultListLimit = 10
	MaxListLimit     = 100
)

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	writeJSON(w, status, map[string]interface{}{
		"error":   message,
		"message": err.Error(),
		"status":  "error",
	})
}

// parseLimit reads the limit query value, falling back to DefaultListLimit
// and capping at MaxListLimit.
func parseLimit(raw string) int {
	if raw == "" {
		return DefaultListLimit
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}

func (s *Server) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}
