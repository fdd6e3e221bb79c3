package engine

import (
	"context"
	"errors"
	"io"

	"github.com/rhuss/slipstream/pkg/api"
	"github.com/rhuss/slipstream/pkg/provider"
	"github.com/rhuss/slipstream/pkg/transport"
)

// fakeSource implements provider.ChunkSource over a fixed chunk list.
// After the list is exhausted it returns err, blocks until the context
// ends when block is set, or returns io.EOF.
type fakeSource struct {
	chunks []provider.Chunk
	err    error
	block  bool
	onRecv func()

	pos       int
	recvCalls int
	closed    int
}

func (s *fakeSource) Recv(ctx context.Context) (provider.Chunk, error) {
	s.recvCalls++
	if s.onRecv != nil {
		s.onRecv()
	}
	if err := ctx.Err(); err != nil {
		return provider.Chunk{}, err
	}
	if s.pos < len(s.chunks) {
		c := s.chunks[s.pos]
		s.pos++
		return c, nil
	}
	if s.block {
		<-ctx.Done()
		return provider.Chunk{}, ctx.Err()
	}
	if s.err != nil {
		return provider.Chunk{}, s.err
	}
	return provider.Chunk{}, io.EOF
}

func (s *fakeSource) Close() error {
	s.closed++
	return nil
}

// recordingWriter implements transport.EventWriter. It fails with
// ErrClientDisconnected once failAfter events were written (0 = never).
type recordingWriter struct {
	events    []api.OutboundEvent
	flushes   int
	pending   int
	failAfter int
}

var _ transport.EventWriter = (*recordingWriter)(nil)

func (w *recordingWriter) WriteEvent(_ context.Context, event api.OutboundEvent) error {
	if w.failAfter > 0 && len(w.events) >= w.failAfter {
		return errors.Join(transport.ErrClientDisconnected, errors.New("broken pipe"))
	}
	w.events = append(w.events, event)
	w.pending++
	return nil
}

func (w *recordingWriter) Flush() error {
	w.flushes++
	w.pending = 0
	return nil
}

func (w *recordingWriter) data() []string {
	out := make([]string, len(w.events))
	for i, ev := range w.events {
		out[i] = ev.Data
	}
	return out
}

// mockProvider implements provider.Provider for testing.
type mockProvider struct {
	src *fakeSource
	err error

	calls      int
	gotModel   string
	gotPayload *provider.InvocationPayload
}

func (m *mockProvider) Name() string { return "mock" }

func (m *mockProvider) InvokeStream(_ context.Context, model string, payload *provider.InvocationPayload) (provider.ChunkSource, error) {
	m.calls++
	m.gotModel = model
	m.gotPayload = payload
	if m.err != nil {
		return nil, m.err
	}
	return m.src, nil
}

func (m *mockProvider) Close() error { return nil }

func content(s string) provider.Chunk { return provider.ContentChunk([]byte(s)) }

func terminal() provider.Chunk { return provider.TerminalChunk("messageStop") }

func messages(contents ...string) *api.ChatRequest {
	req := &api.ChatRequest{}
	for _, c := range contents {
		req.Messages = append(req.Messages, api.ChatMessage{Role: "user", Content: c})
	}
	return req
}
