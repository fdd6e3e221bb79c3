package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/rhuss/slipstream/pkg/api"
	"github.com/rhuss/slipstream/pkg/observability"
	"github.com/rhuss/slipstream/pkg/provider"
	"github.com/rhuss/slipstream/pkg/transport"
)

// ErrRequestTimeout is the cancellation cause when a request exceeds
// Config.RequestTimeout.
var ErrRequestTimeout = errors.New("request timeout exceeded")

// Engine relays backend streams to clients. It implements
// transport.ChatStreamer and is safe for concurrent use; the provider is
// the only state shared between requests.
type Engine struct {
	provider provider.Provider
	cfg      Config
}

// Ensure Engine implements transport.ChatStreamer at compile time.
var _ transport.ChatStreamer = (*Engine)(nil)

// New creates a new Engine. The provider must not be nil and a model
// must be configured.
func New(p provider.Provider, cfg Config) (*Engine, error) {
	if p == nil {
		return nil, fmt.Errorf("engine: provider must not be nil")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("engine: model must not be empty")
	}
	return &Engine{
		provider: p,
		cfg:      cfg,
	}, nil
}

// StreamChat validates req, opens one streaming invocation and relays it
// to w. It returns nil when the backend stream completed, an
// *api.APIError of type invalid_request, backend_unavailable or
// stream_interrupted, or an error wrapping transport.ErrClientDisconnected.
func (e *Engine) StreamChat(ctx context.Context, req *api.ChatRequest, w transport.EventWriter) error {
	if apiErr := api.ValidateChatRequest(req, e.cfg.Validation); apiErr != nil {
		observability.StreamOutcomesTotal.WithLabelValues(observability.OutcomeRejected).Inc()
		return apiErr
	}
	payload, err := TranslateRequest(req)
	if err != nil {
		observability.StreamOutcomesTotal.WithLabelValues(observability.OutcomeRejected).Inc()
		return err
	}

	ctx, cancel := context.WithTimeoutCause(ctx, e.cfg.requestTimeout(), ErrRequestTimeout)
	defer cancel()

	src, err := e.provider.InvokeStream(ctx, e.cfg.Model, payload)
	if err != nil {
		// Nothing has been written yet. This is the failover point: a
		// secondary provider or model would be invoked here before the
		// request is rejected.
		observability.StreamOutcomesTotal.WithLabelValues(observability.OutcomeRejected).Inc()
		return api.NewBackendUnavailableError(err)
	}

	observability.StreamingConnections.Inc()
	defer observability.StreamingConnections.Dec()

	// Commit the stream headers so the client sees the stream open even
	// before the first chunk arrives.
	if err := w.Flush(); err != nil {
		src.Close()
		observability.StreamOutcomesTotal.WithLabelValues(observability.OutcomeClientDisconnected).Inc()
		return clientDisconnected(err)
	}

	res := relay(ctx, src, w)
	observability.StreamOutcomesTotal.WithLabelValues(res.outcome.String()).Inc()

	switch res.outcome {
	case outcomeCompleted:
		return nil
	case outcomeInterrupted:
		return api.NewStreamInterruptedError(res.err)
	default:
		return clientDisconnected(res.err)
	}
}

// clientDisconnected makes sure err matches transport.ErrClientDisconnected.
func clientDisconnected(err error) error {
	switch {
	case err == nil:
		return transport.ErrClientDisconnected
	case errors.Is(err, transport.ErrClientDisconnected):
		return err
	default:
		return fmt.Errorf("%w: %w", transport.ErrClientDisconnected, err)
	}
}
