package realtime

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/yungbote/stride-backend/internal/platform/logger"
)

const (
	StreamEventProgress = "progress"
	StreamEventComplete = "complete"
	StreamEventError    = "error"
)

// ProgressStream is a write-only, connection-scoped event channel for one
// execution pass. Emit after Close is a no-op; a write that fails because
// the client went away is suppressed, never raised.
type ProgressStream interface {
	Emit(event string, data any)
	Close()
}

type sseProgressStream struct {
	mu      sync.Mutex
	w       http.ResponseWriter
	flusher http.Flusher
	log     *logger.Logger
	closed  bool
}

// NewSSEProgressStream prepares w for event-stream output. Returns an
// error when the writer cannot flush incrementally.
func NewSSEProgressStream(w http.ResponseWriter, log *logger.Logger) (ProgressStream, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming unsupported")
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	return &sseProgressStream{
		w:       w,
		flusher: flusher,
		log:     log.With("component", "ProgressStream"),
	}, nil
}

func (s *sseProgressStream) Emit(event string, data any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	raw, err := json.Marshal(data)
	if err != nil {
		s.log.Warn("Failed to marshal stream event", "event", event, "error", err)
		return
	}
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, string(raw)); err != nil {
		s.log.Debug("Stream write failed; client likely disconnected", "error", err)
		return
	}
	s.flusher.Flush()
}

func (s *sseProgressStream) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}
