package vectorgov

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

// APIError is the base of every error kind returned by this SDK. Callers
// can match broadly with errors.As(*APIError) or narrowly with one of the
// concrete kinds below.
type APIError struct {
	Message    string
	StatusCode int
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("vectorgov: %s (status %d)", e.Message, e.StatusCode)
	}
	return "vectorgov: " + e.Message
}

// AuthError means the API key was missing, malformed, or rejected (401).
type AuthError struct {
	APIError
}

func (e *AuthError) Unwrap() error { return &e.APIError }

// ValidationError means a request parameter was rejected, either by a local
// pre-flight check or by the server (400). Field names the offending
// parameter when known.
type ValidationError struct {
	APIError
	Field string
}

func (e *ValidationError) Unwrap() error { return &e.APIError }

// RateLimitError means the server returned 429. RetryAfter carries the
// server's hint in seconds, zero when absent.
type RateLimitError struct {
	APIError
	RetryAfter float64
}

func (e *RateLimitError) Unwrap() error { return &e.APIError }

// ServerError means the server returned 5xx and retries were exhausted.
type ServerError struct {
	APIError
}

func (e *ServerError) Unwrap() error { return &e.APIError }

// ConnectionError means no HTTP response was received at all.
type ConnectionError struct {
	APIError
}

func (e *ConnectionError) Unwrap() error { return &e.APIError }

// TimeoutError means the configured deadline elapsed before a response.
type TimeoutError struct {
	APIError
}

func (e *TimeoutError) Unwrap() error { return &e.APIError }

func newAuthError(msg string) *AuthError {
	return &AuthError{APIError{Message: msg, StatusCode: http.StatusUnauthorized}}
}

func newValidationError(msg, field string) *ValidationError {
	return &ValidationError{
		APIError: APIError{Message: msg, StatusCode: http.StatusBadRequest},
		Field:    field,
	}
}

func newConnectionError(msg string) *ConnectionError {
	return &ConnectionError{APIError{Message: msg}}
}

func newTimeoutError(msg string) *TimeoutError {
	return &TimeoutError{APIError{Message: msg}}
}

// errorBody is the JSON error envelope the API uses for non-2xx responses.
type errorBody struct {
	Detail     string   `json:"detail"`
	Message    string   `json:"message"`
	Field      string   `json:"field"`
	RetryAfter *float64 `json:"retry_after"`
}

// classifyStatus converts a non-2xx HTTP response into the matching error
// kind. This is the single place where HTTP outcomes become typed errors;
// nothing downstream re-classifies.
func classifyStatus(status int, body []byte, header http.Header) error {
	var eb errorBody
	msg := string(body)
	if err := json.Unmarshal(body, &eb); err == nil {
		if eb.Detail != "" {
			msg = eb.Detail
		} else if eb.Message != "" {
			msg = eb.Message
		}
	}
	if msg == "" {
		msg = http.StatusText(status)
	}

	switch {
	case status == http.StatusUnauthorized:
		return newAuthError(msg)
	case status == http.StatusBadRequest:
		return newValidationError(msg, eb.Field)
	case status == http.StatusTooManyRequests:
		retryAfter := 0.0
		if eb.RetryAfter != nil {
			retryAfter = *eb.RetryAfter
		}
		if h := header.Get("Retry-After"); h != "" {
			if v, err := strconv.ParseFloat(h, 64); err == nil {
				retryAfter = v
			}
		}
		return &RateLimitError{
			APIError:   APIError{Message: msg, StatusCode: status},
			RetryAfter: retryAfter,
		}
	case status >= 500:
		return &ServerError{APIError{Message: msg, StatusCode: status}}
	default:
		return &APIError{Message: msg, StatusCode: status}
	}
}
