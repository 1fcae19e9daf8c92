// Package sse writes Server-Sent Events to an HTTP response.
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Writer streams events to one client. Every event is flushed immediately;
// proxy buffering is disabled via X-Accel-Buffering.
type Writer struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewWriter prepares the response for event streaming and returns a writer
// over it. Fails when the underlying connection cannot flush.
func NewWriter(w http.ResponseWriter) (*Writer, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("response writer does not support streaming")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	return &Writer{w: w, flusher: flusher}, nil
}

func (s *Writer) event(name string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", name, err)
	}
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", name, data); err != nil {
		return fmt.Errorf("write %s event: %w", name, err)
	}
	s.flusher.Flush()
	return nil
}

// TextDelta sends one chunk of assistant text.
func (s *Writer) TextDelta(delta string) error {
	return s.event("text-delta", map[string]string{"delta": delta})
}

// ToolCall announces a tool invocation so the client can show activity.
func (s *Writer) ToolCall(name string) error {
	return s.event("tool-call", map[string]string{"name": name})
}

// StreamError reports a failure that happened after streaming began.
func (s *Writer) StreamError(message string) error {
	return s.event("error", map[string]string{"message": message})
}

// Finish marks the end of the response stream.
func (s *Writer) Finish() error {
	return s.event("finish", map[string]string{})
}
