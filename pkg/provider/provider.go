package provider

import "context"

// Provider abstracts a streaming LLM inference backend.
//
// Implementations hold only immutable state after construction and must be
// safe for concurrent use by multiple goroutines.
type Provider interface {
	// Name returns the provider identifier (e.g., "bedrock").
	Name() string

	// InvokeStream sends payload to the backend under the given model
	// identifier and returns an open chunk source. Failures that happen
	// before the stream opens are returned as *BackendError. The adapter
	// never retries.
	InvokeStream(ctx context.Context, model string, payload *InvocationPayload) (ChunkSource, error)

	// Close releases provider resources (HTTP clients, connections).
	Close() error
}

// ChunkSource is an open, ordered stream of chunks bound to one backend
// connection.
//
// Recv blocks until the next chunk arrives. It returns io.EOF when the
// backend ends the stream cleanly, an error wrapping ErrStreamInterrupted
// when the stream fails after it was opened, and ctx.Err() when ctx ends
// first.
//
// Close releases the underlying connection. It is idempotent and must be
// called by the consumer on every exit path.
type ChunkSource interface {
	Recv(ctx context.Context) (Chunk, error)
	Close() error
}
