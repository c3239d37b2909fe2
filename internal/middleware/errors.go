package middleware

import (
	"encoding/json"
	"net/http"
)

// WriteError writes the {"error": msg} body used by every non-2xx response.
func WriteError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
