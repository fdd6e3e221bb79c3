package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/rhuss/slipstream/pkg/api"
	"github.com/rhuss/slipstream/pkg/transport"
)

// Adapter serves the chat-completion streaming endpoint over HTTP.
type Adapter struct {
	streamer transport.ChatStreamer
	inflight *transport.InFlightRegistry
	mux      *http.ServeMux
	config   Config
	logger   *slog.Logger
}

// Config holds configuration for the HTTP adapter.
type Config struct {
	MaxBodySize int64
	Logger      *slog.Logger
}

// DefaultConfig returns the default adapter configuration.
func DefaultConfig() Config {
	return Config{
		MaxBodySize: 10 << 20, // 10 MB
	}
}

// NewAdapter creates an HTTP adapter for the given ChatStreamer.
// Middleware is applied to the streamer in the given order.
func NewAdapter(streamer transport.ChatStreamer, cfg Config, middlewares ...transport.Middleware) *Adapter {
	if len(middlewares) > 0 {
		streamer = transport.Chain(middlewares...)(streamer)
	}
	if cfg.MaxBodySize <= 0 {
		cfg.MaxBodySize = DefaultConfig().MaxBodySize
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	a := &Adapter{
		streamer: streamer,
		inflight: transport.NewInFlightRegistry(),
		mux:      http.NewServeMux(),
		config:   cfg,
		logger:   logger,
	}

	a.mux.HandleFunc("POST /v1/chat/completions", a.handleChatCompletions)

	return a
}

// Handler returns the http.Handler for this adapter. The returned handler
// propagates or assigns the X-Request-ID header.
func (a *Adapter) Handler() http.Handler {
	return httpRequestIDMiddleware(a.mux)
}

// InFlight returns the registry of running streams.
func (a *Adapter) InFlight() *transport.InFlightRegistry {
	return a.inflight
}

// httpRequestIDMiddleware takes the request ID from the X-Request-ID
// header or generates one, stores it in the request context and echoes
// it on the response.
func httpRequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(transport.RequestIDHeader)
		if id == "" {
			id = transport.NewRequestID()
		}
		w.Header().Set(transport.RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(transport.ContextWithRequestID(r.Context(), id)))
	})
}

// handleChatCompletions handles POST /v1/chat/completions.
func (a *Adapter) handleChatCompletions(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, a.config.MaxBodySize)

	var req api.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			transport.WriteErrorResponse(w,
				api.NewInvalidRequestError("body", fmt.Sprintf("request body too large (max %d bytes)", a.config.MaxBodySize)),
				http.StatusRequestEntityTooLarge,
			)
			return
		}
		a.logger.Info("rejected request",
			slog.String("request_id", transport.RequestIDFromContext(r.Context())),
			slog.String("error", err.Error()),
		)
		transport.WriteErrorResponse(w,
			api.NewInvalidRequestError("body", "invalid JSON: "+err.Error()),
			http.StatusBadRequest,
		)
		return
	}

	ctx, cancel := context.WithCancelCause(r.Context())
	defer cancel(nil)

	key := transport.NewRequestID()
	a.inflight.Register(key, cancel)
	defer a.inflight.Remove(key)

	sw := newSSEEventWriter(w)
	if err := a.streamer.StreamChat(ctx, &req, sw); err != nil {
		a.writeHandlerError(ctx, w, sw, err)
	}
}

// writeHandlerError reports a handler error to the client. Before the
// stream is open the error maps to an HTTP status; afterwards it can only
// be reported in-band as an error event.
func (a *Adapter) writeHandlerError(ctx context.Context, w http.ResponseWriter, sw *sseEventWriter, err error) {
	if errors.Is(err, transport.ErrClientDisconnected) {
		return
	}

	var apiErr *api.APIError
	if !errors.As(err, &apiErr) {
		apiErr = api.NewServerError(err.Error())
	}

	if sw.hasStarted() || apiErr.Type == api.ErrorTypeStreamInterrupted {
		if sw.WriteEvent(ctx, api.InterruptedEvent()) == nil {
			sw.Flush()
		}
		return
	}

	transport.WriteAPIError(w, apiErr)
}
