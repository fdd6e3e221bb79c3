package transport

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/rhuss/slipstream/pkg/api"
	"github.com/rhuss/slipstream/pkg/observability"
)

// Logging returns middleware that emits one structured log entry per
// request with the request ID, message count, duration and stream outcome.
// The level follows the failure class: rejected requests log at info,
// backend failures at error, interrupted streams at warn and client
// disconnects at debug.
func Logging(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next ChatStreamer) ChatStreamer {
		return ChatStreamerFunc(func(ctx context.Context, req *api.ChatRequest, w EventWriter) error {
			start := time.Now()

			err := next.StreamChat(ctx, req, w)

			messages := 0
			if req != nil {
				messages = len(req.Messages)
			}
			attrs := []slog.Attr{
				slog.String("request_id", RequestIDFromContext(ctx)),
				slog.Int("messages", messages),
				slog.Duration("duration", time.Since(start)),
				slog.String("outcome", Outcome(err)),
			}

			if err == nil {
				logger.LogAttrs(ctx, slog.LevelInfo, "request completed", attrs...)
				return nil
			}

			attrs = append(attrs, slog.String("error", err.Error()))
			logger.LogAttrs(ctx, levelForError(err), "request failed", attrs...)
			return err
		})
	}
}

// Outcome classifies a ChatStreamer result into a stream outcome label.
func Outcome(err error) string {
	if err == nil {
		return observability.OutcomeCompleted
	}
	if errors.Is(err, ErrClientDisconnected) {
		return observability.OutcomeClientDisconnected
	}
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Type == api.ErrorTypeStreamInterrupted {
		return observability.OutcomeInterrupted
	}
	return observability.OutcomeRejected
}

func levelForError(err error) slog.Level {
	if errors.Is(err, ErrClientDisconnected) {
		return slog.LevelDebug
	}
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Type {
		case api.ErrorTypeInvalidRequest:
			return slog.LevelInfo
		case api.ErrorTypeStreamInterrupted:
			return slog.LevelWarn
		}
	}
	return slog.LevelError
}
