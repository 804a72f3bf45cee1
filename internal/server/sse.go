package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// reconnectDelay is how long a browser waits before reopening a dropped event stream.
const reconnectDelay = 3 * time.Second

// SSEWriter writes tracker events to one browser as Server-Sent Events.
type SSEWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewSSEWriter starts the stream and tells the browser how long to wait before
// reconnecting.
func NewSSEWriter(w http.ResponseWriter, retry time.Duration) (*SSEWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported")
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	// Reverse proxies must not hold refresh events back.
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	s := &SSEWriter{w: w, flusher: flusher}
	if retry > 0 {
		if _, err := fmt.Fprintf(w, "retry: %d\n\n", retry.Milliseconds()); err != nil {
			return nil, err
		}
	}
	flusher.Flush()
	return s, nil
}

// WriteEvent sends e under its kind, so pages listen with addEventListener(kind).
func (s *SSEWriter) WriteEvent(e Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", e.Kind, data); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// Heartbeat sends a comment line. Browsers ignore it; idle proxies see traffic.
func (s *SSEWriter) Heartbeat() error {
	if _, err := fmt.Fprint(s.w, ": ping\n\n"); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}
