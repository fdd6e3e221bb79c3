package engine

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/rhuss/slipstream/pkg/api"
)

func TestTranslateRequest_SingleMessage(t *testing.T) {
	payload, err := TranslateRequest(messages("Hi"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}
	if string(data) != `{"prompt":"Hi","max_tokens":4096}` {
		t.Errorf("payload = %s", data)
	}
}

func TestTranslateRequest_LastMessageWins(t *testing.T) {
	tests := []struct {
		name     string
		contents []string
		want     string
	}{
		{"two turns", []string{"first", "second"}, "second"},
		{"many turns", []string{"a", "b", "c", "d"}, "d"},
		{"empty last content", []string{"a", ""}, ""},
		{"unicode", []string{"x", "¿qué tal? 🌍"}, "¿qué tal? 🌍"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := TranslateRequest(messages(tt.contents...))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if payload.Prompt != tt.want {
				t.Errorf("prompt = %q, want %q", payload.Prompt, tt.want)
			}
			if payload.MaxTokens != DefaultMaxTokens {
				t.Errorf("max tokens = %d, want %d", payload.MaxTokens, DefaultMaxTokens)
			}
		})
	}
}

func TestTranslateRequest_DoesNotMutateRequest(t *testing.T) {
	req := messages("a", "b")
	TranslateRequest(req)

	if len(req.Messages) != 2 || req.Messages[0].Content != "a" || req.Messages[1].Content != "b" {
		t.Errorf("request was mutated: %+v", req.Messages)
	}
}

func TestTranslateRequest_Empty(t *testing.T) {
	for name, req := range map[string]*api.ChatRequest{
		"nil request":    nil,
		"nil messages":   {},
		"empty messages": {Messages: []api.ChatMessage{}},
	} {
		t.Run(name, func(t *testing.T) {
			payload, err := TranslateRequest(req)
			if payload != nil {
				t.Errorf("expected nil payload, got %+v", payload)
			}

			var apiErr *api.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *api.APIError, got %T: %v", err, err)
			}
			if apiErr.Type != api.ErrorTypeInvalidRequest {
				t.Errorf("error type = %q, want %q", apiErr.Type, api.ErrorTypeInvalidRequest)
			}
			if apiErr.Param != "messages" {
				t.Errorf("param = %q, want messages", apiErr.Param)
			}
		})
	}
}
