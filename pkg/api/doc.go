// Package api defines the wire types for the slipstream chat proxy.
//
// The package covers the inbound chat-completion request shape, the
// outbound server-sent event, and the structured error type shared by the
// engine and the transport layer. It performs no I/O.
//
// Core types:
//   - [ChatRequest]: Client request carrying an ordered list of messages
//   - [OutboundEvent]: One server-sent event relayed to the client
//   - [APIError]: Structured error with type, code, param, and message
package api
