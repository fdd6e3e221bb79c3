// Command mock-backend runs a deterministic OpenAI-compatible completions
// server that streams its answers as server-sent events. It lets slipstream
// run locally with engine.provider=openaicompat and no real model.
//
// The response is chosen from the prompt:
//
//	contains "[fail]"  - 503 before the stream opens
//	contains "[cut]"   - a few chunks, then the connection ends without [DONE]
//	anything else      - the prompt echoed back word by word, then [DONE]
//
// Configuration:
//
//	MOCK_PORT        - Listen port (default: 9090)
//	MOCK_CHUNK_DELAY - Pause between chunks, as a Go duration (default: 0)
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	port := os.Getenv("MOCK_PORT")
	if port == "" {
		port = "9090"
	}

	var delay time.Duration
	if v := os.Getenv("MOCK_CHUNK_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			slog.Error("invalid MOCK_CHUNK_DELAY", "value", v, "error", err)
			os.Exit(1)
		}
		delay = d
	}

	srv := &http.Server{Addr: ":" + port, Handler: newMux(delay)}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("mock backend starting", "port", port, "chunk_delay", delay)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("mock backend failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("mock backend shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)
}
