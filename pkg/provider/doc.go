// Package provider defines the protocol-agnostic interface for streaming LLM
// inference backends. Each adapter (bedrock, openaicompat) performs a single
// streaming invocation per call and exposes the backend's output as a
// pull-based ChunkSource, keeping backend protocol details invisible to the
// engine.
package provider
