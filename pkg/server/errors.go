package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bascanada/auth0logs/pkg/config"
	httpPkg "github.com/bascanada/auth0logs/pkg/http"
)

// APIError is a standardized error response structure.
type APIError struct {
	Message string                 `json:"error"`
	Code    string                 `json:"code"`
	Details map[string]interface{} `json:"details,omitempty"`
}

const (
	ErrCodeContextNotFound = "CONTEXT_NOT_FOUND"
	ErrCodeLogNotFound     = "LOG_NOT_FOUND"
	ErrCodeBackendError    = "BACKEND_ERROR"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeConfigError     = "CONFIG_ERROR"
	ErrCodeValidationError = "VALIDATION_ERROR"
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeNotFound        = "NOT_FOUND"
)

// writeJSON writes a JSON response with a given status code.
func (s *Server) writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to write json response", "err", err)
	}
}

// writeError writes a standardized APIError response.
func (s *Server) writeError(w http.ResponseWriter, statusCode int, code, message string) {
	s.writeJSON(w, statusCode, APIError{
		Code:    code,
		Message: message,
	})
}

// writeBackendError maps a failure of the tenant or of the config to a response.
// Statuses of the Management API are kept, transport failures become 502.
func (s *Server) writeBackendError(w http.ResponseWriter, err error) {
	if errors.Is(err, config.ErrContextNotFound) {
		s.writeError(w, http.StatusNotFound, ErrCodeContextNotFound, err.Error())
		return
	}
	if errors.Is(err, config.ErrTenantNotFound) {
		s.writeError(w, http.StatusInternalServerError, ErrCodeConfigError, err.Error())
		return
	}

	var apiErr *httpPkg.APIError
	if errors.As(err, &apiErr) {
		code := ErrCodeBackendError
		switch {
		case httpPkg.IsNotFound(err):
			code = ErrCodeLogNotFound
		case httpPkg.IsUnauthorized(err):
			code = ErrCodeUnauthorized
		}
		s.writeJSON(w, apiErr.StatusCode, APIError{
			Code:    code,
			Message: apiErr.Message,
			Details: map[string]interface{}{
				"statusCode": apiErr.StatusCode,
				"errorCode":  apiErr.ErrorCode,
			},
		})
		return
	}

	s.logger.Error("tenant request failed", "err", err)
	s.writeError(w, http.StatusBadGateway, ErrCodeBackendError, err.Error())
}
