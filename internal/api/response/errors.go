package response

import (
	"errors"
	"net/http"

	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/apperrors"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/validation"
)

// StatusForError maps a service error to its HTTP status code.
//
//   - validation failures and malformed input: 400
//   - bad credentials and invalid sessions: 401
//   - unknown assets or users: 404
//   - duplicates: 409
//   - provider failures: 502
//   - anything else: 500
func StatusForError(err error) int {
	var validationErr *validation.Error
	switch {
	case errors.As(err, &validationErr),
		errors.Is(err, apperrors.ErrInvalidAddress),
		errors.Is(err, apperrors.ErrMissingAddress),
		errors.Is(err, apperrors.ErrUnsupportedSymbol),
		errors.Is(err, apperrors.ErrInvalidTimeRange),
		errors.Is(err, apperrors.ErrInvalidCategory),
		errors.Is(err, apperrors.ErrInvalidAssetID),
		errors.Is(err, apperrors.ErrMissingRange):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrInvalidCredentials),
		errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrAssetNotFound),
		errors.Is(err, apperrors.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrDuplicateAsset),
		errors.Is(err, apperrors.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrUpstream):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// RespondServiceError sends err with the status from StatusForError. Field-level
// validation failures are sent as a details map; other errors as their message.
// message is used for 500 responses only; otherwise the error itself is the summary.
func RespondServiceError(w http.ResponseWriter, message string, err error) {
	status := StatusForError(err)

	var validationErr *validation.Error
	if errors.As(err, &validationErr) {
		RespondError(w, status, "validation failed", validationErr.Fields)
		return
	}

	if status == http.StatusInternalServerError {
		RespondError(w, status, message, err.Error())
		return
	}
	RespondError(w, status, summary(err), err.Error())
}

// summary returns the message of the outermost sentinel error in err.
func summary(err error) string {
	for _, sentinel := range []error{
		apperrors.ErrInvalidAddress,
		apperrors.ErrMissingAddress,
		apperrors.ErrUnsupportedSymbol,
		apperrors.ErrInvalidTimeRange,
		apperrors.ErrInvalidCategory,
		apperrors.ErrInvalidAssetID,
		apperrors.ErrMissingRange,
		apperrors.ErrInvalidCredentials,
		apperrors.ErrUnauthorized,
		apperrors.ErrAssetNotFound,
		apperrors.ErrUserNotFound,
		apperrors.ErrDuplicateAsset,
		apperrors.ErrEmailTaken,
		apperrors.ErrUpstream,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}
