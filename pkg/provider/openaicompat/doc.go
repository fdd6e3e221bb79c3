// Package openaicompat implements provider.Provider for OpenAI-compatible
// completions backends (vLLM, LiteLLM, llama.cpp server). The invocation
// payload is posted to /v1/completions with streaming enabled, and every SSE
// data payload is relayed verbatim as one content chunk.
package openaicompat
