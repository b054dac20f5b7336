package vectorgov

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"
)

// StreamEvent is one decoded server-sent event from AskStream.
type StreamEvent struct {
	// Type is one of "start", "retrieval", "token", "complete", "error".
	Type string `json:"type"`

	// Content carries the generated text fragment for "token" events.
	Content string `json:"content"`

	// Query echoes the question on "start" events.
	Query string `json:"query"`

	// Chunks and TimeMS describe the retrieval step on "retrieval" events.
	Chunks int     `json:"chunks"`
	TimeMS float64 `json:"time_ms"`

	// Citations and QueryHash arrive with the "complete" event. QueryHash
	// is accepted by Feedback.
	Citations []map[string]any `json:"citations"`
	QueryHash string           `json:"query_hash"`

	// Message describes "error" events.
	Message string `json:"message"`
}

// EventStream is a one-pass, forward-only sequence of decoded SSE events.
// It is not restartable: once consumed or closed it cannot be replayed.
//
//	stream, err := vg.AskStream(ctx, "O que é ETP?")
//	if err != nil { ... }
//	defer stream.Close()
//	for stream.Next() {
//	    ev := stream.Event()
//	    ...
//	}
//	if err := stream.Err(); err != nil { ... }
type EventStream struct {
	body    io.ReadCloser
	reader  *bufio.Reader
	current StreamEvent
	err     error
	done    bool
}

// Next advances to the next event, reporting false at end of stream or on
// error. Partial SSE frames are buffered and never surface as events.
func (s *EventStream) Next() bool {
	if s.done {
		return false
	}
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			s.done = true
			if err != io.EOF {
				s.err = newConnectionError("stream interrupted: " + err.Error())
			}
			return false
		}
		line = strings.TrimRight(line, "\r\n")
		data, ok := strings.CutPrefix(line, "data: ")
		if !ok {
			// Blank separators, comments, and id: lines carry no payload.
			continue
		}
		var ev StreamEvent
		if err := json.Unmarshal([]byte(data), &ev); err != nil {
			continue
		}
		s.current = ev
		return true
	}
}

// Event returns the event read by the last successful Next.
func (s *EventStream) Event() StreamEvent { return s.current }

// Err reports the first failure encountered, nil on clean end of stream.
func (s *EventStream) Err() error { return s.err }

// Close releases the underlying connection. Safe to call more than once.
func (s *EventStream) Close() error {
	s.done = true
	return s.body.Close()
}

// stream opens an SSE POST. Connection failures and retriable statuses
// retry with backoff until the stream is established; once events flow, a
// broken connection surfaces as ConnectionError instead of reconnecting.
func (t *httpTransport) stream(ctx context.Context, path string, body any) (*EventStream, error) {
	payload, err := encodeBody(body)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt < t.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, newTimeoutError("stream cancelled while waiting to retry: " + ctx.Err().Error())
			case <-time.After(backoffDelay(attempt-1, t.retryDelay)):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.fullURL(path, nil), strings.NewReader(string(payload)))
		if err != nil {
			return nil, newConnectionError("build request: " + err.Error())
		}
		t.headers(req)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "text/event-stream")

		resp, err := t.httpClient.Do(req)
		if err != nil {
			lastErr = transportError(err)
			continue
		}
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return &EventStream{body: resp.Body, reader: bufio.NewReader(resp.Body)}, nil
		}
		respBody, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if !retriableStatus[resp.StatusCode] {
			return nil, classifyStatus(resp.StatusCode, respBody, resp.Header)
		}
		lastErr = classifyStatus(resp.StatusCode, respBody, resp.Header)
	}
	if lastErr == nil {
		lastErr = newConnectionError("stream could not be established")
	}
	return nil, lastErr
}
