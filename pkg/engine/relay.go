package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/rhuss/slipstream/pkg/api"
	"github.com/rhuss/slipstream/pkg/debug"
	"github.com/rhuss/slipstream/pkg/observability"
	"github.com/rhuss/slipstream/pkg/provider"
	"github.com/rhuss/slipstream/pkg/transport"
)

// relayOutcome says how a relay ended.
type relayOutcome int

const (
	outcomeCompleted relayOutcome = iota
	outcomeInterrupted
	outcomeClientDisconnected
)

func (o relayOutcome) String() string {
	switch o {
	case outcomeCompleted:
		return observability.OutcomeCompleted
	case outcomeInterrupted:
		return observability.OutcomeInterrupted
	default:
		return observability.OutcomeClientDisconnected
	}
}

// relayResult summarizes a finished relay.
type relayResult struct {
	outcome   relayOutcome
	events    int   // events written and flushed
	terminals int   // terminal markers received, including dropped ones
	err       error // cause for interrupted and disconnected outcomes
}

// relay pulls chunks from src and writes one event per chunk to w until
// the stream ends. Each event is flushed before the next chunk is
// requested. src is closed on every exit.
//
// Content chunks are decoded as UTF-8 with invalid sequences replaced by
// U+FFFD; empty ones produce no event. Only the first terminal marker is
// relayed, as the end sentinel; the stream is drained after it.
func relay(ctx context.Context, src provider.ChunkSource, w transport.EventWriter) relayResult {
	defer src.Close()

	var res relayResult
	for {
		chunk, err := src.Recv(ctx)
		if err != nil {
			res.outcome, res.err = classifyRecvError(ctx, err)
			return res
		}

		var event api.OutboundEvent
		switch chunk.Kind {
		case provider.ChunkContent:
			if len(chunk.Bytes) == 0 {
				continue
			}
			event = api.DataEvent(decodeLossy(chunk.Bytes))
			if debug.Enabled(debug.Streaming) {
				debug.Log(ctx, debug.Streaming, "relaying chunk",
					slog.String("request_id", transport.RequestIDFromContext(ctx)),
					slog.Int("bytes", len(chunk.Bytes)),
					slog.String("text", debug.Truncate(event.Data, 200)),
				)
			}
		case provider.ChunkTerminal:
			res.terminals++
			slog.DebugContext(ctx, "terminal marker",
				slog.String("request_id", transport.RequestIDFromContext(ctx)),
				slog.String("variant", chunk.Variant),
				slog.Int("seen", res.terminals),
			)
			if res.terminals > 1 {
				continue
			}
			event = api.EndEvent()
		default:
			continue
		}

		if err := w.WriteEvent(ctx, event); err != nil {
			res.outcome, res.err = outcomeClientDisconnected, err
			return res
		}
		if err := w.Flush(); err != nil {
			res.outcome, res.err = outcomeClientDisconnected, err
			return res
		}
		res.events++
		observability.RelayedEventsTotal.Inc()
	}
}

// classifyRecvError maps a Recv failure to an outcome. A cancelled request
// context means the client went away; any other cancellation cause (the
// request deadline, server shutdown) counts as an interrupted stream.
func classifyRecvError(ctx context.Context, err error) (relayOutcome, error) {
	if errors.Is(err, io.EOF) {
		return outcomeCompleted, nil
	}
	if ctx.Err() != nil {
		cause := context.Cause(ctx)
		if errors.Is(cause, context.Canceled) {
			return outcomeClientDisconnected, cause
		}
		return outcomeInterrupted, cause
	}
	return outcomeInterrupted, err
}

func decodeLossy(b []byte) string {
	return strings.ToValidUTF8(string(b), "\uFFFD")
}
