package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/crucial707/asset-audit/internal/snipeit"
)

// ErrMessageInternal is the generic message for 500 responses. Do not expose internal details to clients.
const ErrMessageInternal = "internal server error"

// JSONError sends a JSON error response with a single "error" field.
func JSONError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// JSONValidationError sends a JSON error response with "error" and optional "fields" for field-level details.
// status is typically http.StatusBadRequest (400).
func JSONValidationError(w http.ResponseWriter, message string, fields map[string]string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	out := map[string]interface{}{"error": message}
	if len(fields) > 0 {
		out["fields"] = fields
	}
	json.NewEncoder(w).Encode(out)
}

// RemoteError maps a remote asset directory failure onto the response.
// Real HTTP errors pass through with the remote's status and payload
// verbatim; the remote's 2xx-with-error-envelope quirk becomes 404.
func RemoteError(w http.ResponseWriter, err error) {
	var apiErr *snipeit.APIError
	switch {
	case errors.Is(err, snipeit.ErrAssetNotFound):
		JSONError(w, "asset not found", http.StatusNotFound)
	case errors.Is(err, snipeit.ErrEmptyTerm):
		JSONError(w, err.Error(), http.StatusBadRequest)
	case errors.As(err, &apiErr):
		status := apiErr.StatusCode
		if status >= 200 && status < 300 {
			status = http.StatusNotFound
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, apiErr.Body)
	default:
		JSONError(w, "asset directory unavailable", http.StatusBadGateway)
	}
}
