package openaicompat

// completionRequest is the streaming request body sent to /v1/completions.
// Prompt and MaxTokens come from the invocation payload unchanged.
type completionRequest struct {
	Model     string `json:"model"`
	Prompt    string `json:"prompt"`
	MaxTokens int    `json:"max_tokens"`
	Stream    bool   `json:"stream"`
}

// errorResponse is the standard OpenAI error response format.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

// errorDetail contains error details from the backend.
type errorDetail struct {
	Message string  `json:"message"`
	Type    string  `json:"type"`
	Param   *string `json:"param"`
	Code    *string `json:"code"`
}
