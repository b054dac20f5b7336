package vectorgov

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var retriableStatus = map[int]bool{
	http.StatusTooManyRequests:    true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// backoffDelay is baseDelay * 2^attempt capped at 30s, with 50-100% jitter.
func backoffDelay(attempt int, baseDelay time.Duration) time.Duration {
	d := baseDelay << uint(attempt)
	if d > 30*time.Second || d <= 0 {
		d = 30 * time.Second
	}
	return time.Duration(float64(d) * (0.5 + rand.Float64()*0.5))
}

// requestOpts tunes a single exchange.
type requestOpts struct {
	// retryable marks a non-GET call as safe to retry. GETs always are.
	retryable bool
	// timeout overrides the transport default when positive.
	timeout time.Duration
}

// transport performs one HTTP exchange and converts any failure into the
// typed error taxonomy. The facade never re-classifies.
type transport interface {
	request(ctx context.Context, method, path string, query url.Values, body any, opts requestOpts) ([]byte, error)
	stream(ctx context.Context, path string, body any) (*EventStream, error)
	upload(ctx context.Context, path string, fields map[string]string, fileField, filename string, content io.Reader) ([]byte, error)
}

// httpTransport is the production transport. All fields are fixed at
// construction; the type holds no per-call state, so concurrent use is
// safe.
type httpTransport struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	timeout    time.Duration
	maxRetries int
	retryDelay time.Duration
	userAgent  string
}

func newHTTPTransport(cfg clientConfig) *httpTransport {
	hc := cfg.httpClient
	if hc == nil {
		hc = &http.Client{}
	}
	maxRetries := cfg.maxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &httpTransport{
		baseURL:    strings.TrimSuffix(cfg.baseURL, "/"),
		apiKey:     cfg.apiKey,
		httpClient: hc,
		timeout:    cfg.timeout,
		maxRetries: maxRetries,
		retryDelay: cfg.retryDelay,
		userAgent:  "vectorgov-sdk-go/" + Version,
	}
}

func (t *httpTransport) headers(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+t.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", t.userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
}

func (t *httpTransport) fullURL(path string, query url.Values) string {
	u := t.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func encodeBody(body any) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, &APIError{Message: "encode request body: " + err.Error()}
	}
	return data, nil
}

// request performs the exchange with bounded retry. Connection failures,
// timeouts, and retriable statuses (429 and 5xx) are retried with
// exponential backoff when the call is idempotent; any other non-2xx
// classifies immediately.
func (t *httpTransport) request(ctx context.Context, method, path string, query url.Values, body any, opts requestOpts) ([]byte, error) {
	payload, err := encodeBody(body)
	if err != nil {
		return nil, err
	}

	timeout := t.timeout
	if opts.timeout > 0 {
		timeout = opts.timeout
	}
	canRetry := method == http.MethodGet || opts.retryable

	var (
		lastErr    error
		lastStatus int
		lastBody   []byte
		lastHeader http.Header
	)
	for attempt := 0; attempt < t.maxRetries; attempt++ {
		if attempt > 0 {
			delay := backoffDelay(attempt-1, t.retryDelay)
			if lastStatus == http.StatusTooManyRequests && lastHeader != nil {
				if ra, err := strconv.ParseFloat(lastHeader.Get("Retry-After"), 64); err == nil && ra > 0 {
					delay = time.Duration(ra * float64(time.Second))
				}
			}
			select {
			case <-ctx.Done():
				return nil, newTimeoutError("request cancelled while waiting to retry: " + ctx.Err().Error())
			case <-time.After(delay):
			}
		}

		reqCtx, cancel := context.WithTimeout(ctx, timeout)
		respBody, status, header, err := t.do(reqCtx, method, path, query, payload)
		cancel()

		if err != nil {
			lastErr, lastStatus = err, 0
			if !canRetry {
				break
			}
			continue
		}
		if status >= 200 && status < 300 {
			return respBody, nil
		}

		lastErr, lastStatus, lastBody, lastHeader = nil, status, respBody, header
		if !canRetry || !retriableStatus[status] {
			return nil, classifyStatus(status, respBody, header)
		}
	}

	if lastErr != nil {
		return nil, lastErr
	}
	return nil, classifyStatus(lastStatus, lastBody, lastHeader)
}

// do runs exactly one attempt, mapping transport-level failures to
// ConnectionError or TimeoutError.
func (t *httpTransport) do(ctx context.Context, method, path string, query url.Values, payload []byte) ([]byte, int, http.Header, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, t.fullURL(path, query), reader)
	if err != nil {
		return nil, 0, nil, newConnectionError("build request: " + err.Error())
	}
	t.headers(req)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, 0, nil, transportError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, nil, transportError(err)
	}
	return respBody, resp.StatusCode, resp.Header, nil
}

// transportError distinguishes deadline expiry from every other failure
// that produced no response.
func transportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return newTimeoutError("request deadline exceeded")
	}
	var ne interface{ Timeout() bool }
	if errors.As(err, &ne) && ne.Timeout() {
		return newTimeoutError("request timed out: " + err.Error())
	}
	return newConnectionError(err.Error())
}

// upload sends a multipart/form-data POST, used for document upload.
// Uploads are not idempotent and never retry.
func (t *httpTransport) upload(ctx context.Context, path string, fields map[string]string, fileField, filename string, content io.Reader) ([]byte, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.SetBoundary(strings.ReplaceAll(uuid.NewString(), "-", "")); err != nil {
		return nil, &APIError{Message: "multipart boundary: " + err.Error()}
	}
	for key, value := range fields {
		if err := w.WriteField(key, value); err != nil {
			return nil, &APIError{Message: "encode form field: " + err.Error()}
		}
	}
	part, err := w.CreateFormFile(fileField, sanitizeFilename(filename))
	if err != nil {
		return nil, &APIError{Message: "encode file part: " + err.Error()}
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, &APIError{Message: "read upload content: " + err.Error()}
	}
	if err := w.Close(); err != nil {
		return nil, &APIError{Message: "finalize multipart body: " + err.Error()}
	}

	reqCtx, cancel := context.WithTimeout(ctx, 120*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, t.fullURL(path, nil), &buf)
	if err != nil {
		return nil, newConnectionError("build request: " + err.Error())
	}
	t.headers(req)
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, classifyStatus(resp.StatusCode, respBody, resp.Header)
	}
	return respBody, nil
}

// sanitizeFilename strips characters that would break the multipart
// Content-Disposition header.
func sanitizeFilename(name string) string {
	r := strings.NewReplacer(`"`, "_", `\`, "_", "/", "_")
	name = r.Replace(name)
	if len(name) > 255 {
		name = name[:255]
	}
	return name
}

// decodeJSON unmarshals a 2xx payload into out, failing atomically.
func decodeJSON(body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return &APIError{Message: fmt.Sprintf("invalid response payload: %v", err)}
	}
	return nil
}
