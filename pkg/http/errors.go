package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// APIError is a non 2xx answer of the Management API.
type APIError struct {
	StatusCode int    `json:"statusCode"`
	Err        string `json:"error"`
	Message    string `json:"message"`
	ErrorCode  string `json:"errorCode"`

	// ResetAt is filled from x-ratelimit-reset on 429 answers.
	ResetAt time.Time `json:"-"`
}

func (e *APIError) Error() string {
	if e.ErrorCode != "" {
		return fmt.Sprintf("%d %s (%s): %s", e.StatusCode, e.Err, e.ErrorCode, e.Message)
	}
	return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Err, e.Message)
}

func newAPIError(res *http.Response, body []byte) *APIError {
	apiErr := &APIError{}
	if err := json.Unmarshal(body, apiErr); err != nil || (apiErr.Message == "" && apiErr.Err == "") {
		apiErr = &APIError{Message: strings.TrimSpace(string(body))}
	}

	// the body code wins only when it is a real http status
	if apiErr.StatusCode < 400 {
		apiErr.StatusCode = res.StatusCode
	}
	if apiErr.Err == "" {
		apiErr.Err = http.StatusText(apiErr.StatusCode)
	}

	if res.StatusCode == http.StatusTooManyRequests {
		if reset, err := strconv.ParseInt(res.Header.Get("x-ratelimit-reset"), 10, 64); err == nil {
			apiErr.ResetAt = time.Unix(reset, 0)
		}
	}

	return apiErr
}

// StatusCode returns the http status of err when it wraps an *APIError, 0 otherwise.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

func IsRateLimited(err error) bool {
	return StatusCode(err) == http.StatusTooManyRequests
}

// IsUnauthorized reports a token the tenant rejected, missing or lacking scopes.
func IsUnauthorized(err error) bool {
	code := StatusCode(err)
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}
