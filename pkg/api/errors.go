package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	pqerrors "github.com/matzehuels/pathquery/pkg/errors"
)

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Code    pqerrors.Code `json:"code"`
	Message string        `json:"message"`
}

// statusFor maps an error to an HTTP status via its pathquery code.
func statusFor(err error) int {
	switch pqerrors.GetCode(err) {
	case pqerrors.ErrCodeInvalidInput, pqerrors.ErrCodeInvalidParameter,
		pqerrors.ErrCodeInvalidFormat, pqerrors.ErrCodeInvalidName:
		return http.StatusBadRequest
	case pqerrors.ErrCodeInvalidPattern:
		return http.StatusUnprocessableEntity
	case pqerrors.ErrCodeNotFound:
		return http.StatusNotFound
	case pqerrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case pqerrors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	case pqerrors.ErrCodeStorage:
		return http.StatusServiceUnavailable
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	code := pqerrors.GetCode(err)
	if code == "" {
		code = pqerrors.ErrCodeInternal
	}
	status := statusFor(err)
	msg := pqerrors.UserMessage(err)
	if status == http.StatusInternalServerError {
		// Internal details stay in the server log.
		msg = "internal server error"
	}
	writeJSON(w, status, ErrorResponse{Code: code, Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
