package bedrock

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/tidwall/gjson"

	"github.com/rhuss/slipstream/pkg/observability"
	"github.com/rhuss/slipstream/pkg/provider"
)

// eventReader is satisfied by *bedrockruntime.InvokeModelWithResponseStreamEventStream.
type eventReader interface {
	Events() <-chan types.ResponseStream
	Close() error
	Err() error
}

// chunkSource adapts a Bedrock response event stream to provider.ChunkSource.
type chunkSource struct {
	stream eventReader
	model  string

	closeOnce sync.Once
	closeErr  error
}

func newChunkSource(stream eventReader, model string) *chunkSource {
	return &chunkSource{stream: stream, model: model}
}

// Recv returns the next chunk. The SDK closes the events channel both on
// clean completion and on failure; Err distinguishes the two.
func (s *chunkSource) Recv(ctx context.Context) (provider.Chunk, error) {
	select {
	case <-ctx.Done():
		return provider.Chunk{}, ctx.Err()
	case ev, ok := <-s.stream.Events():
		if !ok {
			if err := s.stream.Err(); err != nil {
				return provider.Chunk{}, provider.Interrupted(err)
			}
			return provider.Chunk{}, io.EOF
		}
		return s.convert(ev), nil
	}
}

// Close closes the event stream and its HTTP connection.
func (s *chunkSource) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.stream.Close()
	})
	return s.closeErr
}

// convert maps a Bedrock stream union member to a chunk. Only the chunk
// member carries model output; everything else is a terminal marker.
func (s *chunkSource) convert(ev types.ResponseStream) provider.Chunk {
	switch v := ev.(type) {
	case *types.ResponseStreamMemberChunk:
		recordInvocationMetrics(s.model, v.Value.Bytes)
		return provider.ContentChunk(v.Value.Bytes)
	case *types.UnknownUnionMember:
		slog.Debug("bedrock stream returned unknown member", "tag", v.Tag)
		return provider.TerminalChunk(v.Tag)
	default:
		return provider.TerminalChunk(fmt.Sprintf("%T", ev))
	}
}

// invocationMetricsPath locates the token counts Bedrock appends to the
// last chunk of a stream.
const invocationMetricsPath = "amazon-bedrock-invocationMetrics"

// recordInvocationMetrics reads token counts from a chunk payload without
// altering it. Payloads that are not JSON or carry no metrics are ignored.
func recordInvocationMetrics(model string, payload []byte) {
	if len(payload) == 0 || !gjson.ValidBytes(payload) {
		return
	}
	metrics := gjson.GetBytes(payload, invocationMetricsPath)
	if !metrics.Exists() {
		return
	}
	if in := metrics.Get("inputTokenCount"); in.Exists() {
		observability.ProviderTokensTotal.WithLabelValues(providerName, model, "input").Add(in.Float())
	}
	if out := metrics.Get("outputTokenCount"); out.Exists() {
		observability.ProviderTokensTotal.WithLabelValues(providerName, model, "output").Add(out.Float())
	}
}
