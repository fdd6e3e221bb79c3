package provider

import (
	"errors"
	"io"
	"testing"
)

func TestBackendErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *BackendError
		want string
	}{
		{
			"message only",
			&BackendError{Provider: "bedrock", Message: "invocation failed"},
			"bedrock: invocation failed",
		},
		{
			"with status",
			&BackendError{Provider: "openaicompat", StatusCode: 429, Message: "rate limited"},
			"openaicompat: rate limited (HTTP 429)",
		},
		{
			"with cause",
			&BackendError{Provider: "bedrock", Message: "invocation failed", Cause: errors.New("ThrottlingException")},
			"bedrock: invocation failed: ThrottlingException",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBackendErrorUnwrap(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	var err error = &BackendError{Provider: "bedrock", Cause: cause}

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause")
	}

	var be *BackendError
	if !errors.As(err, &be) {
		t.Fatal("errors.As should match *BackendError")
	}
}

func TestInterrupted(t *testing.T) {
	err := Interrupted(io.ErrUnexpectedEOF)
	if !errors.Is(err, ErrStreamInterrupted) {
		t.Error("should match ErrStreamInterrupted")
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Error("should keep the underlying error")
	}
	if !errors.Is(Interrupted(nil), ErrStreamInterrupted) {
		t.Error("Interrupted(nil) should match ErrStreamInterrupted")
	}
}

func TestChunkConstructors(t *testing.T) {
	c := ContentChunk([]byte("Hel"))
	if c.Kind != ChunkContent || string(c.Bytes) != "Hel" {
		t.Errorf("ContentChunk = %+v", c)
	}

	term := TerminalChunk("metadata")
	if term.Kind != ChunkTerminal || term.Variant != "metadata" {
		t.Errorf("TerminalChunk = %+v", term)
	}

	if ChunkContent.String() != "content" || ChunkTerminal.String() != "terminal" {
		t.Error("unexpected ChunkKind names")
	}
}
