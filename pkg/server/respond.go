package server

import (
	"encoding/json"
	"net/http"

	"github.com/matzehuels/flowmark/pkg/errors"
	"github.com/matzehuels/flowmark/pkg/store"
)

// errorResponse is the JSON body for all error responses.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// respondError maps structured error codes to HTTP status codes and
// writes a JSON error body.
func respondError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		switch {
		case err == store.ErrNotFound:
			code = errors.ErrCodeDocumentNotFound
		case err == store.ErrEmptyName:
			code = errors.ErrCodeInvalidInput
		default:
			code = errors.ErrCodeInternal
		}
	}

	respondJSON(w, statusFor(code), errorResponse{
		Code:    string(code),
		Message: errors.UserMessage(err),
	})
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidSyntax,
		errors.ErrCodeInvalidNodeID, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidDirection:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeNodeNotFound,
		errors.ErrCodeDocumentNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
