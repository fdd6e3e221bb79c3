// Package transport defines the handler interfaces and middleware chain for
// the slipstream HTTP/SSE transport layer.
//
// The transport layer bridges external clients and the relay engine. It
// deserializes incoming chat requests into the types defined in pkg/api,
// dispatches them for processing, and serializes the relayed stream back to
// the client as server-sent events.
//
// # Handler Interfaces
//
// ChatStreamer is the contract between the transport layer and the engine.
// The EventWriter interface abstracts the outbound event stream, allowing
// the engine to emit events without knowing the underlying protocol.
//
// # Middleware
//
// Middleware wraps a ChatStreamer. The server installs Recovery outermost,
// followed by RequestID and Logging, which records one slog line per request
// at a level that follows the outcome.
//
// # Cancellation
//
// InFlightRegistry tracks the cancel functions of running streams so that
// a shutting-down server can end them with ErrServerShutdown as the cause
// and then Drain them.
package transport
