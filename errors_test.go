package vectorgov

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "401 yields AuthError",
			status: http.StatusUnauthorized,
			body:   `{"detail": "invalid API key"}`,
			check: func(t *testing.T, err error) {
				var authErr *AuthError
				require.ErrorAs(t, err, &authErr)
				assert.Equal(t, "invalid API key", authErr.Message)
				assert.Equal(t, http.StatusUnauthorized, authErr.StatusCode)
			},
		},
		{
			name:   "400 yields ValidationError with field",
			status: http.StatusBadRequest,
			body:   `{"detail": "top_k out of range", "field": "top_k"}`,
			check: func(t *testing.T, err error) {
				var valErr *ValidationError
				require.ErrorAs(t, err, &valErr)
				assert.Equal(t, "top_k", valErr.Field)
				assert.Equal(t, "top_k out of range", valErr.Message)
			},
		},
		{
			name:   "429 yields RateLimitError with retry_after from body",
			status: http.StatusTooManyRequests,
			body:   `{"detail": "rate limit exceeded", "retry_after": 12.5}`,
			check: func(t *testing.T, err error) {
				var rlErr *RateLimitError
				require.ErrorAs(t, err, &rlErr)
				assert.Equal(t, 12.5, rlErr.RetryAfter)
			},
		},
		{
			name:   "500 yields ServerError",
			status: http.StatusInternalServerError,
			body:   `{"detail": "boom"}`,
			check: func(t *testing.T, err error) {
				var srvErr *ServerError
				require.ErrorAs(t, err, &srvErr)
				assert.Equal(t, http.StatusInternalServerError, srvErr.StatusCode)
			},
		},
		{
			name:   "unmapped status yields plain APIError",
			status: http.StatusNotFound,
			body:   `{"detail": "no such document"}`,
			check: func(t *testing.T, err error) {
				var apiErr *APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
				var srvErr *ServerError
				assert.False(t, errors.As(err, &srvErr))
			},
		},
		{
			name:   "non-JSON body falls back to raw text",
			status: http.StatusInternalServerError,
			body:   "upstream exploded",
			check: func(t *testing.T, err error) {
				var srvErr *ServerError
				require.ErrorAs(t, err, &srvErr)
				assert.Equal(t, "upstream exploded", srvErr.Message)
			},
		},
		{
			name:   "empty body falls back to status text",
			status: http.StatusServiceUnavailable,
			body:   "",
			check: func(t *testing.T, err error) {
				var srvErr *ServerError
				require.ErrorAs(t, err, &srvErr)
				assert.Equal(t, http.StatusText(http.StatusServiceUnavailable), srvErr.Message)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyStatus(tt.status, []byte(tt.body), http.Header{})
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestClassifyStatusRetryAfterHeaderWins(t *testing.T) {
	header := http.Header{}
	header.Set("Retry-After", "30")
	err := classifyStatus(http.StatusTooManyRequests, []byte(`{"retry_after": 5}`), header)

	var rlErr *RateLimitError
	require.ErrorAs(t, err, &rlErr)
	assert.Equal(t, 30.0, rlErr.RetryAfter)
}

// Every concrete kind must also match a broad *APIError errors.As, so
// callers can catch everything with one check.
func TestErrorKindsUnwrapToAPIError(t *testing.T) {
	kinds := []error{
		newAuthError("x"),
		newValidationError("x", "query"),
		&RateLimitError{APIError: APIError{Message: "x", StatusCode: 429}},
		&ServerError{APIError{Message: "x", StatusCode: 502}},
		newConnectionError("x"),
		newTimeoutError("x"),
	}
	for _, kind := range kinds {
		var apiErr *APIError
		assert.True(t, errors.As(kind, &apiErr), "kind %T should unwrap to *APIError", kind)
	}
}

func TestAPIErrorMessage(t *testing.T) {
	assert.Equal(t, "vectorgov: nope (status 401)", newAuthError("nope").Error())
	assert.Equal(t, "vectorgov: gone", newConnectionError("gone").Error())
}
