package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

type completionRequest struct {
	Model     string `json:"model"`
	Prompt    string `json:"prompt"`
	MaxTokens int    `json:"max_tokens"`
	Stream    bool   `json:"stream"`
}

type completionChunk struct {
	ID      string        `json:"id"`
	Object  string        `json:"object"`
	Model   string        `json:"model"`
	Choices []choiceChunk `json:"choices"`
}

type choiceChunk struct {
	Index        int     `json:"index"`
	Text         string  `json:"text"`
	FinishReason *string `json:"finish_reason"`
}

type errorBody struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// cutAfter is the number of chunks sent before a "[cut]" stream drops.
const cutAfter = 2

func newMux(delay time.Duration) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("POST /v1/completions", &completionsHandler{delay: delay})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})
	return mux
}

type completionsHandler struct {
	delay time.Duration
}

func (h *completionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req completionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_error", "invalid JSON: "+err.Error())
		return
	}
	if !req.Stream {
		writeError(w, http.StatusBadRequest, "invalid_request_error", "only stream=true is supported")
		return
	}
	if strings.Contains(req.Prompt, "[fail]") {
		writeError(w, http.StatusServiceUnavailable, "server_error", "backend overloaded")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "server_error", "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	words := responseWords(req.Prompt)
	cut := strings.Contains(req.Prompt, "[cut]")

	for i, word := range words {
		if cut && i == cutAfter {
			slog.Info("dropping stream", "after_chunks", i)
			return
		}
		if h.delay > 0 {
			select {
			case <-r.Context().Done():
				return
			case <-time.After(h.delay):
			}
		}
		writeChunk(w, req.Model, word, nil)
		flusher.Flush()
	}

	stop := "stop"
	writeChunk(w, req.Model, "", &stop)
	fmt.Fprint(w, "data: [DONE]\n\n")
	flusher.Flush()
}

// responseWords splits the echoed answer into chunks that keep their
// separating space so the concatenation reproduces the text.
func responseWords(prompt string) []string {
	fields := strings.Fields("You said: " + prompt)
	out := make([]string, len(fields))
	for i, f := range fields {
		if i > 0 {
			f = " " + f
		}
		out[i] = f
	}
	return out
}

func writeChunk(w http.ResponseWriter, model, text string, finish *string) {
	data, _ := json.Marshal(completionChunk{
		ID:      "cmpl-mock",
		Object:  "text_completion",
		Model:   model,
		Choices: []choiceChunk{{Text: text, FinishReason: finish}},
	})
	fmt.Fprintf(w, "data: %s\n\n", data)
}

func writeError(w http.ResponseWriter, status int, typ, msg string) {
	var body errorBody
	body.Error.Type = typ
	body.Error.Message = msg
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
