package openaicompat

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync"

	"github.com/rhuss/slipstream/pkg/provider"
)

// doneSentinel ends an OpenAI-compatible SSE stream.
const doneSentinel = "[DONE]"

// maxLineSize bounds a single SSE line.
const maxLineSize = 1 << 20

// sseSource reads an OpenAI-compatible SSE response body.
//
// SSE format expected:
//
//	data: {"id":"...","choices":[...]}\n
//	\n
//	data: [DONE]\n
//	\n
//
// Each data payload becomes one content chunk, passed through verbatim.
// The [DONE] sentinel becomes a terminal marker; a body that ends without
// it counts as an interrupted stream.
type sseSource struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
	done    bool

	closeOnce sync.Once
	closeErr  error
}

func newSSESource(body io.ReadCloser) *sseSource {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &sseSource{body: body, scanner: scanner}
}

// Recv returns the next chunk. Cancelling ctx aborts the underlying HTTP
// request, which unblocks a pending read.
func (s *sseSource) Recv(ctx context.Context) (provider.Chunk, error) {
	for {
		if err := ctx.Err(); err != nil {
			return provider.Chunk{}, err
		}
		if s.done {
			return provider.Chunk{}, io.EOF
		}

		if !s.scanner.Scan() {
			if ctx.Err() != nil {
				return provider.Chunk{}, ctx.Err()
			}
			if err := s.scanner.Err(); err != nil {
				return provider.Chunk{}, provider.Interrupted(err)
			}
			return provider.Chunk{}, provider.Interrupted(io.ErrUnexpectedEOF)
		}

		// Lines that are not data fields (blank separators, ":" comments,
		// event names) carry no chunk.
		line := s.scanner.Text()
		payload, ok := strings.CutPrefix(line, "data:")
		if !ok {
			continue
		}
		payload = strings.TrimPrefix(payload, " ")

		if payload == doneSentinel {
			s.done = true
			return provider.TerminalChunk(doneSentinel), nil
		}

		return provider.ContentChunk([]byte(payload)), nil
	}
}

// Close closes the response body, releasing the connection.
func (s *sseSource) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.body.Close()
	})
	return s.closeErr
}
