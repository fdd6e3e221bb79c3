package transport

import (
	"context"
	"errors"

	"github.com/rhuss/slipstream/pkg/api"
)

// ErrClientDisconnected reports that the caller went away while a stream
// was being written. Writers wrap their write and flush failures with it.
var ErrClientDisconnected = errors.New("client disconnected")

// ErrServerShutdown is the cancellation cause for streams that are still
// running when the server's shutdown grace period expires.
var ErrServerShutdown = errors.New("server shutting down")

// ChatStreamer handles the chat-completion streaming operation. The
// implementation receives a request and relays the backend stream to the
// EventWriter.
type ChatStreamer interface {
	StreamChat(ctx context.Context, req *api.ChatRequest, w EventWriter) error
}

// ChatStreamerFunc is an adapter that allows using an ordinary function
// as a ChatStreamer.
type ChatStreamerFunc func(ctx context.Context, req *api.ChatRequest, w EventWriter) error

// StreamChat calls f(ctx, req, w).
func (f ChatStreamerFunc) StreamChat(ctx context.Context, req *api.ChatRequest, w EventWriter) error {
	return f(ctx, req, w)
}

// EventWriter abstracts the outbound event stream. The transport layer
// creates one EventWriter per request.
//
// The first call to WriteEvent or Flush commits the success status and
// stream headers; errors returned before that point can still be reported
// with a regular HTTP status.
type EventWriter interface {
	// WriteEvent sends a single event. Returns an error wrapping
	// ErrClientDisconnected if the client is gone.
	WriteEvent(ctx context.Context, event api.OutboundEvent) error

	// Flush ensures buffered data is sent to the client. Returns an error
	// wrapping ErrClientDisconnected if the client is gone.
	Flush() error
}
