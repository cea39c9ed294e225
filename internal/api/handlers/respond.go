package handlers

import (
	"encoding/json"
	"net/http"
)

// maxBodyBytes caps request bodies (loan tapes included)
const maxBodyBytes = 32 << 20

// errorResponse is the body of every non-2xx reply.
// Analyses that find no valid loans are still 200 and carry the report's own "error" key.
type errorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// respondReport writes an already-encoded report with its cache status
func respondReport(w http.ResponseWriter, body []byte, cacheHit bool) {
	cache := "MISS"
	if cacheHit {
		cache = "HIT"
	}
	w.Header().Set("X-Cache", cache)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message, Status: status})
}
