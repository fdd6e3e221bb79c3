package transport

import (
	"context"
	"sync"
)

// InFlightRegistry tracks running streams by request key so a shutting
// down server can cancel the ones that outlive the grace period and then
// wait for them to unwind. All methods are safe for concurrent use.
type InFlightRegistry struct {
	mu      sync.Mutex
	streams map[string]context.CancelCauseFunc
	idle    chan struct{} // closed whenever streams is empty
}

// NewInFlightRegistry creates an empty registry.
func NewInFlightRegistry() *InFlightRegistry {
	idle := make(chan struct{})
	close(idle)
	return &InFlightRegistry{
		streams: make(map[string]context.CancelCauseFunc),
		idle:    idle,
	}
}

// Register records a running stream. Registering an existing key replaces
// its cancel function.
func (r *InFlightRegistry) Register(key string, cancel context.CancelCauseFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.streams) == 0 {
		r.idle = make(chan struct{})
	}
	r.streams[key] = cancel
}

// Remove forgets a stream without cancelling it. Stream owners call it
// when their handler returns.
func (r *InFlightRegistry) Remove(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.streams[key]; !ok {
		return
	}
	delete(r.streams, key)
	if len(r.streams) == 0 {
		close(r.idle)
	}
}

// CancelAll cancels every registered stream with cause and returns how
// many there were. Streams stay registered until their owners Remove
// them, so Drain can wait for them to finish writing.
func (r *InFlightRegistry) CancelAll(cause error) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, cancel := range r.streams {
		cancel(cause)
	}
	return len(r.streams)
}

// Drain blocks until no stream is registered or ctx is done.
func (r *InFlightRegistry) Drain(ctx context.Context) error {
	r.mu.Lock()
	idle := r.idle
	r.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Len returns the number of registered streams.
func (r *InFlightRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.streams)
}
