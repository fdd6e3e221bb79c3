package engine

import (
	"time"

	"github.com/rhuss/slipstream/pkg/api"
)

// DefaultMaxTokens is the generation limit sent with every invocation.
const DefaultMaxTokens = 4096

// DefaultRequestTimeout bounds a single request including its stream.
const DefaultRequestTimeout = 5 * time.Minute

// Config holds configuration for the relay engine.
type Config struct {
	// Model is the backend model identifier used for every invocation.
	Model string

	// RequestTimeout bounds the total duration of one request. Zero or
	// negative means DefaultRequestTimeout.
	RequestTimeout time.Duration

	// Validation holds request limits.
	Validation api.ValidationConfig
}

func (c Config) requestTimeout() time.Duration {
	if c.RequestTimeout <= 0 {
		return DefaultRequestTimeout
	}
	return c.RequestTimeout
}
