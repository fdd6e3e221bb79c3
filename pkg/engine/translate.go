package engine

import (
	"github.com/rhuss/slipstream/pkg/api"
	"github.com/rhuss/slipstream/pkg/provider"
)

// TranslateRequest converts a chat request into the backend invocation
// payload. Only the last message is forwarded; earlier turns are not part
// of the prompt. A request without messages is rejected.
func TranslateRequest(req *api.ChatRequest) (*provider.InvocationPayload, error) {
	last, ok := req.LastMessage()
	if !ok {
		return nil, api.NewInvalidRequestError("messages", "messages must contain at least one message")
	}
	return &provider.InvocationPayload{
		Prompt:    last.Content,
		MaxTokens: DefaultMaxTokens,
	}, nil
}
