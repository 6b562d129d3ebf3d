// Package response writes the JSON bodies of the dashboard API.
// Errors share one shape: {"error": "...", "details": ...}.
package response

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
)

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// RespondJSON writes data as JSON with the given status. A nil data writes the
// status only (204 No Content).
//
// The body is encoded before the header is written: a value that cannot be
// encoded turns into a 500 error body instead of a truncated success.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	if data == nil {
		w.WriteHeader(status)
		return
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		log.Printf("failed to encode JSON response: %v", err)
		status = http.StatusInternalServerError
		buf.Reset()
		//nolint:errcheck // ErrorResponse of a constant message always encodes.
		json.NewEncoder(&buf).Encode(ErrorResponse{Error: "failed to encode response"})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // The client went away; nothing left to report to.
	w.Write(buf.Bytes())
}

// RespondError writes an ErrorResponse. details may be an error string, a field
// map from validation, or nil.
//
//	response.RespondError(w, http.StatusNotFound, "asset not found", err.Error())
func RespondError(w http.ResponseWriter, status int, message string, details any) {
	RespondJSON(w, status, ErrorResponse{Error: message, Details: details})
}
