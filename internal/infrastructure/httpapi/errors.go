package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ersonp/lingo-core/internal/domain/entities"
)

// Error codes returned in the error body.
const (
	CodeNotFound               = "NOT_FOUND"
	CodeDuplicateEntry         = "DUPLICATE_ENTRY"
	CodeConcurrentModification = "CONCURRENT_MODIFICATION"
	CodeLastBranch             = "LAST_BRANCH"
	CodeInvalidResolution      = "INVALID_RESOLUTION"
	CodeInvalidInput           = "INVALID_INPUT"
	CodeInternal               = "INTERNAL"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// statusFor maps a domain error to its HTTP status and error code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, entities.ErrNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, entities.ErrDuplicateBranchName):
		return http.StatusConflict, CodeDuplicateEntry
	case errors.Is(err, entities.ErrConcurrentModification):
		return http.StatusConflict, CodeConcurrentModification
	case errors.Is(err, entities.ErrLastBranch):
		return http.StatusConflict, CodeLastBranch
	case errors.Is(err, entities.ErrInvalidResolution):
		return http.StatusUnprocessableEntity, CodeInvalidResolution
	case errors.Is(err, entities.ErrInvalidInput):
		return http.StatusBadRequest, CodeInvalidInput
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

func (a *API) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		// Storage errors stay in the log.
		a.logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
		message = "internal error"
	}

	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
