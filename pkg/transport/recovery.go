package transport

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/rhuss/slipstream/pkg/api"
)

// Recovery turns a panic in the wrapped streamer into a server_error and
// logs it with the goroutine stack. A nil logger uses slog.Default().
func Recovery(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next ChatStreamer) ChatStreamer {
		return ChatStreamerFunc(func(ctx context.Context, req *api.ChatRequest, w EventWriter) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				logger.ErrorContext(ctx, "panic in stream handler",
					slog.String("request_id", RequestIDFromContext(ctx)),
					slog.Any("panic", r),
					slog.String("stack", string(debug.Stack())),
				)
				err = api.NewServerError(fmt.Sprintf("internal server error: %v", r))
			}()
			return next.StreamChat(ctx, req, w)
		})
	}
}
