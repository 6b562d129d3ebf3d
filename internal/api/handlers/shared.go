package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/api/middleware"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/api/response"
)

// maxBodyBytes bounds the size of JSON request bodies.
const maxBodyBytes = 1 << 20

// respondJSON sends a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, data any) {
	response.RespondJSON(w, status, data)
}

// parseJSON decodes the request body into a T.
func parseJSON[T any](r *http.Request) (T, error) {
	var v T
	if r.Body == nil {
		return v, fmt.Errorf("request body is empty")
	}
	if err := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes)).Decode(&v); err != nil {
		return v, err
	}
	return v, nil
}

// currentUserID returns the authenticated user id, writing a 401 when it is missing.
func currentUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Missing session")
		return "", false
	}
	return userID, true
}
