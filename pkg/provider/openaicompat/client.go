package openaicompat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/rhuss/slipstream/pkg/debug"
	"github.com/rhuss/slipstream/pkg/observability"
	"github.com/rhuss/slipstream/pkg/provider"
)

const providerName = "openaicompat"

// Config holds configuration for the OpenAI-compatible provider adapter.
type Config struct {
	// BaseURL is the backend server URL (e.g., "http://localhost:8000").
	BaseURL string

	// APIKey for backend authentication (optional).
	APIKey string

	// ConnectTimeout bounds the time until the backend answers with
	// response headers. Defaults to 30s. The stream itself is bounded by the
	// caller's context.
	ConnectTimeout time.Duration
}

// Provider implements provider.Provider over HTTP.
type Provider struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// Ensure Provider implements provider.Provider at compile time.
var _ provider.Provider = (*Provider)(nil)

// New creates a new Provider. Returns an error if the configuration is invalid.
func New(cfg Config) (*Provider, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("openaicompat: BaseURL is required")
	}

	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = 30 * time.Second
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = cfg.ConnectTimeout

	return &Provider{
		// No client timeout: a stream can legitimately outlive any fixed
		// deadline. Lifecycle control relies on context cancellation.
		httpClient: &http.Client{Transport: transport},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
	}, nil
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return providerName
}

// InvokeStream posts payload to the completions endpoint and returns the
// open SSE stream as a chunk source.
func (p *Provider) InvokeStream(ctx context.Context, model string, payload *provider.InvocationPayload) (provider.ChunkSource, error) {
	body, err := json.Marshal(completionRequest{
		Model:     model,
		Prompt:    payload.Prompt,
		MaxTokens: payload.MaxTokens,
		Stream:    true,
	})
	if err != nil {
		return nil, &provider.BackendError{Provider: providerName, Message: "failed to marshal request", Cause: err}
	}

	url := p.baseURL + "/v1/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, &provider.BackendError{Provider: providerName, Message: "failed to create HTTP request", Cause: err}
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	if p.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	debug.Log(ctx, debug.Providers, "invoking backend",
		slog.String("url", url),
		slog.String("body", debug.Truncate(string(body), 512)),
	)

	start := time.Now()
	httpResp, err := p.httpClient.Do(httpReq)
	if err != nil {
		observability.ProviderRequestsTotal.WithLabelValues(providerName, model, "error").Inc()
		return nil, mapNetworkError(err)
	}

	// Check for error status codes before starting the stream.
	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		defer httpResp.Body.Close()
		observability.ProviderRequestsTotal.WithLabelValues(providerName, model, "error").Inc()
		return nil, mapHTTPError(httpResp)
	}

	observability.ProviderRequestsTotal.WithLabelValues(providerName, model, "ok").Inc()
	observability.ProviderLatency.WithLabelValues(providerName, model).Observe(time.Since(start).Seconds())

	return newSSESource(httpResp.Body), nil
}

// Close releases idle connections.
func (p *Provider) Close() error {
	p.httpClient.CloseIdleConnections()
	return nil
}
