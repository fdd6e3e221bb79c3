// Package engine implements the streaming relay at the core of slipstream.
// The Engine struct implements transport.ChatStreamer: it translates an
// incoming chat request into a backend invocation payload, opens one
// streaming invocation through the configured provider, and relays every
// backend chunk to the client as it arrives. Failures before the stream
// opens are reported as backend_unavailable; failures after it opened end
// the stream as interrupted.
package engine
