package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/rhuss/slipstream/pkg/api"
	"github.com/rhuss/slipstream/pkg/transport"
)

// sseEventWriter implements transport.EventWriter for HTTP/SSE responses.
// Headers and the 200 status are committed by the first WriteEvent or Flush.
type sseEventWriter struct {
	w  http.ResponseWriter
	rc *http.ResponseController

	mu      sync.Mutex
	started bool
}

var _ transport.EventWriter = (*sseEventWriter)(nil)

func newSSEEventWriter(w http.ResponseWriter) *sseEventWriter {
	return &sseEventWriter{
		w:  w,
		rc: http.NewResponseController(w),
	}
}

// WriteEvent writes a single SSE event without flushing. The event is
// formatted as:
//
//	event: {name}\n     (only for named events)
//	data: {line}\n      (one per line of Data)
//	\n
func (s *sseEventWriter) WriteEvent(_ context.Context, event api.OutboundEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.start()
	if _, err := io.WriteString(s.w, formatEvent(event)); err != nil {
		return fmt.Errorf("%w: write: %w", transport.ErrClientDisconnected, err)
	}
	return nil
}

// Flush sends buffered data to the client.
func (s *sseEventWriter) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.start()
	if err := s.rc.Flush(); err != nil {
		return fmt.Errorf("%w: flush: %w", transport.ErrClientDisconnected, err)
	}
	return nil
}

// hasStarted reports whether the stream headers were committed.
func (s *sseEventWriter) hasStarted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

func (s *sseEventWriter) start() {
	if s.started {
		return
	}
	s.started = true
	h := s.w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	s.w.WriteHeader(http.StatusOK)
}

// formatEvent renders event in the SSE wire format. Every line break in
// Data (LF, CRLF or CR) starts a new data line so the text cannot end the
// event early; SSE clients rejoin the lines with LF.
func formatEvent(event api.OutboundEvent) string {
	var b strings.Builder
	if event.Event != "" {
		b.WriteString("event: ")
		b.WriteString(event.Event)
		b.WriteByte('\n')
	}

	data := strings.ReplaceAll(event.Data, "\r\n", "\n")
	data = strings.ReplaceAll(data, "\r", "\n")
	for _, line := range strings.Split(data, "\n") {
		b.WriteString("data: ")
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	return b.String()
}
