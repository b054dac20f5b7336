package vectorgov

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTransport(t *testing.T, serverURL string) *httpTransport {
	t.Helper()
	cfg := defaultConfig()
	cfg.apiKey = "vg_test_key"
	cfg.baseURL = serverURL
	cfg.maxRetries = 3
	cfg.retryDelay = time.Millisecond
	return newHTTPTransport(cfg)
}

func TestRequestSendsHeaders(t *testing.T) {
	var captured http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Header.Clone()
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	tr := testTransport(t, srv.URL)
	_, err := tr.request(context.Background(), http.MethodPost, "/sdk/search", nil, map[string]any{"query": "etp"}, requestOpts{retryable: true})
	require.NoError(t, err)

	assert.Equal(t, "Bearer vg_test_key", captured.Get("Authorization"))
	assert.Equal(t, "application/json", captured.Get("Content-Type"))
	assert.Equal(t, "vectorgov-sdk-go/"+Version, captured.Get("User-Agent"))
	assert.NotEmpty(t, captured.Get("X-Request-ID"))
}

func TestRequestRetriesTransientFailures(t *testing.T) {
	var (
		mu       sync.Mutex
		attempts []time.Time
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		attempts = append(attempts, time.Now())
		n := len(attempts)
		mu.Unlock()
		if n <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"ok": true}`))
	}))
	defer srv.Close()

	tr := testTransport(t, srv.URL)
	tr.retryDelay = 120 * time.Millisecond
	body, err := tr.request(context.Background(), http.MethodPost, "/sdk/search", nil, map[string]any{"query": "etp"}, requestOpts{retryable: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok": true}`, string(body))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, attempts, 3)
	// Exponential backoff: the jittered wait before attempt 2 is drawn from
	// [delay/2, delay) and before attempt 3 from [delay, 2*delay).
	firstGap := attempts[1].Sub(attempts[0])
	secondGap := attempts[2].Sub(attempts[1])
	assert.GreaterOrEqual(t, firstGap, tr.retryDelay/2)
	assert.Greater(t, secondGap, firstGap)
}

func TestRequestExhaustsRetries(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	tr := testTransport(t, srv.URL)
	_, err := tr.request(context.Background(), http.MethodGet, "/sdk/documents", nil, nil, requestOpts{})
	require.Error(t, err)

	var srvErr *ServerError
	require.ErrorAs(t, err, &srvErr)
	assert.Equal(t, http.StatusBadGateway, srvErr.StatusCode)
	assert.Equal(t, int32(3), attempts.Load())
}

func TestRequestDoesNotRetryClientErrors(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail": "bad query", "field": "query"}`))
	}))
	defer srv.Close()

	tr := testTransport(t, srv.URL)
	_, err := tr.request(context.Background(), http.MethodPost, "/sdk/search", nil, map[string]any{}, requestOpts{retryable: true})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "query", valErr.Field)
	assert.Equal(t, int32(1), attempts.Load())
}

func TestRequestDoesNotRetryNonIdempotentCalls(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	tr := testTransport(t, srv.URL)
	_, err := tr.request(context.Background(), http.MethodPost, "/sdk/feedback", nil, map[string]any{}, requestOpts{})
	require.Error(t, err)

	var srvErr *ServerError
	require.ErrorAs(t, err, &srvErr)
	assert.Equal(t, int32(1), attempts.Load())
}

func TestRequestRateLimitCarriesRetryAfter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "0.001")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"detail": "slow down"}`))
	}))
	defer srv.Close()

	tr := testTransport(t, srv.URL)
	_, err := tr.request(context.Background(), http.MethodGet, "/sdk/documents", nil, nil, requestOpts{})
	require.Error(t, err)

	var rlErr *RateLimitError
	require.ErrorAs(t, err, &rlErr)
	assert.Equal(t, 0.001, rlErr.RetryAfter)
	assert.Equal(t, "slow down", rlErr.Message)
}

func TestRequestTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	tr := testTransport(t, srv.URL)
	tr.timeout = 20 * time.Millisecond
	_, err := tr.request(context.Background(), http.MethodPost, "/sdk/feedback", nil, map[string]any{}, requestOpts{})
	require.Error(t, err)

	var toErr *TimeoutError
	assert.ErrorAs(t, err, &toErr)
}

func TestRequestConnectionRefused(t *testing.T) {
	tr := testTransport(t, "http://127.0.0.1:1")
	tr.maxRetries = 1
	_, err := tr.request(context.Background(), http.MethodGet, "/sdk/documents", nil, nil, requestOpts{})
	require.Error(t, err)

	var connErr *ConnectionError
	assert.ErrorAs(t, err, &connErr)
}

func TestRequestQueryParameters(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	tr := testTransport(t, srv.URL)
	_, err := tr.request(context.Background(), http.MethodGet, "/sdk/documents",
		url.Values{"page": {"2"}, "limit": {"10"}}, nil, requestOpts{})
	require.NoError(t, err)

	assert.Equal(t, "2", gotQuery.Get("page"))
	assert.Equal(t, "10", gotQuery.Get("limit"))
}

func TestBackoffDelayGrowsAndCaps(t *testing.T) {
	base := time.Second
	var prevMax time.Duration
	for attempt := 0; attempt < 4; attempt++ {
		delay := backoffDelay(attempt, base)
		max := base << attempt
		assert.GreaterOrEqual(t, delay, max/2, "attempt %d", attempt)
		assert.LessOrEqual(t, delay, max, "attempt %d", attempt)
		assert.GreaterOrEqual(t, max, prevMax)
		prevMax = max
	}
	// Far attempts stay capped at 30s.
	assert.LessOrEqual(t, backoffDelay(40, base), 30*time.Second)
}

func TestStreamEvents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		// Frames flushed in uneven pieces to exercise partial reads.
		_, _ = io.WriteString(w, "data: {\"type\": \"start\", \"query\": \"O que é ETP?\"}\n\n")
		flusher.Flush()
		_, _ = io.WriteString(w, "data: {\"type\": \"retrieval\", \"chunks\": 3, \"time_ms\": 120}\n\ndata: {\"type\": \"tok")
		flusher.Flush()
		_, _ = io.WriteString(w, "en\", \"content\": \"O ETP\"}\n\n")
		flusher.Flush()
		_, _ = io.WriteString(w, ": keep-alive comment, ignored\n")
		_, _ = io.WriteString(w, "data: {\"type\": \"complete\", \"query_hash\": \"h1\", \"citations\": [\"Art. 6\"]}\n\n")
		flusher.Flush()
	}))
	defer srv.Close()

	tr := testTransport(t, srv.URL)
	stream, err := tr.stream(context.Background(), "/sdk/ask/stream", map[string]any{"query": "O que é ETP?"})
	require.NoError(t, err)
	defer stream.Close()

	var types []string
	var answer strings.Builder
	var hash string
	for stream.Next() {
		ev := stream.Event()
		types = append(types, ev.Type)
		if ev.Type == "token" {
			answer.WriteString(ev.Content)
		}
		if ev.Type == "complete" {
			hash = ev.QueryHash
		}
	}
	require.NoError(t, stream.Err())

	assert.Equal(t, []string{"start", "retrieval", "token", "complete"}, types)
	assert.Equal(t, "O ETP", answer.String())
	assert.Equal(t, "h1", hash)
}

func TestStreamRetriesBeforeEstablished(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, "data: {\"type\": \"start\"}\n\n")
	}))
	defer srv.Close()

	tr := testTransport(t, srv.URL)
	stream, err := tr.stream(context.Background(), "/sdk/ask/stream", map[string]any{"query": "etp"})
	require.NoError(t, err)
	defer stream.Close()

	require.True(t, stream.Next())
	assert.Equal(t, "start", stream.Event().Type)
	assert.Equal(t, int32(2), attempts.Load())
}

func TestStreamAuthFailureClassifies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail": "invalid key"}`))
	}))
	defer srv.Close()

	tr := testTransport(t, srv.URL)
	_, err := tr.stream(context.Background(), "/sdk/ask/stream", map[string]any{"query": "etp"})
	require.Error(t, err)

	var authErr *AuthError
	assert.ErrorAs(t, err, &authErr)
}

func TestUploadMultipart(t *testing.T) {
	var (
		gotFields   map[string]string
		gotFilename string
		gotContent  []byte
		contentType string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotFields = map[string]string{}
		for key := range r.MultipartForm.Value {
			gotFields[key] = r.FormValue(key)
		}
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		gotFilename = header.Filename
		gotContent, err = io.ReadAll(file)
		require.NoError(t, err)
		_, _ = w.Write([]byte(`{"success": true, "task_id": "t1"}`))
	}))
	defer srv.Close()

	tr := testTransport(t, srv.URL)
	fields := map[string]string{"tipo_documento": "LEI", "numero": "14.133", "ano": "2021"}
	body, err := tr.upload(context.Background(), "/sdk/documents/upload", fields, "file", "lei-14133.pdf", strings.NewReader("%PDF-1.7 fake"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(contentType, "multipart/form-data; boundary="))
	assert.Equal(t, "LEI", gotFields["tipo_documento"])
	assert.Equal(t, "14.133", gotFields["numero"])
	assert.Equal(t, "2021", gotFields["ano"])
	assert.Equal(t, "lei-14133.pdf", gotFilename)
	assert.Equal(t, "%PDF-1.7 fake", string(gotContent))
	assert.JSONEq(t, `{"success": true, "task_id": "t1"}`, string(body))
}

func TestUploadFailureClassifies(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail": "corrupt PDF", "field": "file"}`))
	}))
	defer srv.Close()

	tr := testTransport(t, srv.URL)
	_, err := tr.upload(context.Background(), "/sdk/documents/upload", nil, "file", "x.pdf", strings.NewReader("x"))
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	// Uploads never retry.
	assert.Equal(t, int32(1), attempts.Load())
}
