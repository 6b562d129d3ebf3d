package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/apperrors"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/validation"
)

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &validation.Error{Fields: map[string]string{"name": "name is required"}}, http.StatusBadRequest},
		{"wrapped invalid address", fmt.Errorf("%w: BTC address %q", apperrors.ErrInvalidAddress, "x"), http.StatusBadRequest},
		{"bad credentials", apperrors.ErrInvalidCredentials, http.StatusUnauthorized},
		{"asset not found", fmt.Errorf("%w: abc", apperrors.ErrAssetNotFound), http.StatusNotFound},
		{"duplicate", fmt.Errorf("%w: BTC-1abc", apperrors.ErrDuplicateAsset), http.StatusConflict},
		{"email taken", apperrors.ErrEmailTaken, http.StatusConflict},
		{"upstream", fmt.Errorf("%w: timeout", apperrors.ErrUpstream), http.StatusBadGateway},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusForError(tt.err); got != tt.want {
				t.Errorf("StatusForError() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRespondServiceError(t *testing.T) {
	t.Run("validation errors carry field details", func(t *testing.T) {
		w := httptest.NewRecorder()
		RespondServiceError(w, "failed to add asset", &validation.Error{Fields: map[string]string{"name": "name is required"}})

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
		var body struct {
			Error   string            `json:"error"`
			Details map[string]string `json:"details"`
		}
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&body)
		if body.Error != "validation failed" {
			t.Errorf("Expected 'validation failed', got '%s'", body.Error)
		}
		if body.Details["name"] != "name is required" {
			t.Errorf("Expected name detail, got %v", body.Details)
		}
	})

	t.Run("sentinel errors are summarised", func(t *testing.T) {
		w := httptest.NewRecorder()
		RespondServiceError(w, "failed to delete asset", fmt.Errorf("%w: abc", apperrors.ErrAssetNotFound))

		var body ErrorResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&body)
		if body.Error != apperrors.ErrAssetNotFound.Error() {
			t.Errorf("Expected '%s', got '%s'", apperrors.ErrAssetNotFound, body.Error)
		}
	})

	t.Run("internal errors use the caller message", func(t *testing.T) {
		w := httptest.NewRecorder()
		RespondServiceError(w, "failed to delete asset", errors.New("disk on fire"))

		if w.Code != http.StatusInternalServerError {
			t.Errorf("Expected 500, got %d", w.Code)
		}
		var body ErrorResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&body)
		if body.Error != "failed to delete asset" {
			t.Errorf("Expected 'failed to delete asset', got '%s'", body.Error)
		}
	})
}
