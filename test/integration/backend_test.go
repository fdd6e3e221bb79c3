package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// mockBackend is an OpenAI-compatible completions server whose behavior
// is picked by a marker in the prompt:
//
//	[fail]      503 before the stream opens
//	[cut]       one chunk, then the body ends without [DONE]
//	[hang]      one chunk, then blocks until the caller goes away
//	[unicode]   non-ASCII chunks
//
// Anything else streams "Hel", "lo" and [DONE].
type mockBackend struct {
	srv *httptest.Server

	mu       sync.Mutex
	requests []completionRequest

	// released receives once per [hang] request after its caller left.
	released chan struct{}
}

type completionRequest struct {
	Model     string `json:"model"`
	Prompt    string `json:"prompt"`
	MaxTokens int    `json:"max_tokens"`
	Stream    bool   `json:"stream"`
}

func newMockBackend() *mockBackend {
	b := &mockBackend{released: make(chan struct{}, 8)}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/completions", b.handleCompletions)
	b.srv = httptest.NewServer(mux)
	return b
}

func (b *mockBackend) URL() string { return b.srv.URL }

func (b *mockBackend) Close() { b.srv.Close() }

// lastRequest returns the most recent request whose prompt contains marker.
func (b *mockBackend) lastRequest(marker string) (completionRequest, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := len(b.requests) - 1; i >= 0; i-- {
		if strings.Contains(b.requests[i].Prompt, marker) {
			return b.requests[i], true
		}
	}
	return completionRequest{}, false
}

func (b *mockBackend) countRequests(marker string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, r := range b.requests {
		if strings.Contains(r.Prompt, marker) {
			n++
		}
	}
	return n
}

func (b *mockBackend) handleCompletions(w http.ResponseWriter, r *http.Request) {
	var req completionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":{"message":"invalid request"}}`, http.StatusBadRequest)
		return
	}
	b.mu.Lock()
	b.requests = append(b.requests, req)
	b.mu.Unlock()

	if strings.Contains(req.Prompt, "[fail]") {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":{"message":"overloaded","type":"server_error"}}`))
		return
	}

	flusher := w.(http.Flusher)
	w.Header().Set("Content-Type", "text/event-stream")
	w.WriteHeader(http.StatusOK)

	send := func(lines ...string) {
		for _, l := range lines {
			fmt.Fprintf(w, "data: %s\n", l)
		}
		fmt.Fprint(w, "\n")
		flusher.Flush()
	}

	switch {
	case strings.Contains(req.Prompt, "[cut]"):
		send("Hel")
	case strings.Contains(req.Prompt, "[hang]"):
		send("Hel")
		<-r.Context().Done()
		b.released <- struct{}{}
	case strings.Contains(req.Prompt, "[unicode]"):
		send("grüße ")
		send("日本 ✓")
		send("[DONE]")
	default:
		send("Hel")
		send("lo")
		send("[DONE]")
	}
}
