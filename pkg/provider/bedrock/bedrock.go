package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"github.com/rhuss/slipstream/pkg/debug"
	"github.com/rhuss/slipstream/pkg/observability"
	"github.com/rhuss/slipstream/pkg/provider"
)

const providerName = "bedrock"

// invoker is the subset of *bedrockruntime.Client used by the provider.
type invoker interface {
	InvokeModelWithResponseStream(ctx context.Context, params *bedrockruntime.InvokeModelWithResponseStreamInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelWithResponseStreamOutput, error)
}

// BedrockProvider implements provider.Provider for AWS Bedrock Runtime.
// The SDK client is created once and shared by all requests.
type BedrockProvider struct {
	client invoker
}

// Ensure BedrockProvider implements provider.Provider at compile time.
var _ provider.Provider = (*BedrockProvider)(nil)

// New loads the ambient AWS configuration (environment, shared config
// files, instance roles) and creates a BedrockProvider.
func New(ctx context.Context, cfg Config) (*BedrockProvider, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.Profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("bedrock: loading AWS config: %w", err)
	}

	return &BedrockProvider{client: bedrockruntime.NewFromConfig(awsCfg)}, nil
}

// Name returns the provider identifier.
func (p *BedrockProvider) Name() string {
	return providerName
}

// InvokeStream starts a streaming invocation of model with payload as the
// JSON request body.
func (p *BedrockProvider) InvokeStream(ctx context.Context, model string, payload *provider.InvocationPayload) (provider.ChunkSource, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &provider.BackendError{Provider: providerName, Message: "failed to marshal payload", Cause: err}
	}

	debug.Log(ctx, debug.Providers, "invoking model",
		slog.String("model", model),
		slog.String("body", debug.Truncate(string(body), 512)),
	)

	start := time.Now()
	out, err := p.client.InvokeModelWithResponseStream(ctx, &bedrockruntime.InvokeModelWithResponseStreamInput{
		ModelId:     aws.String(model),
		Body:        body,
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
	})
	if err != nil {
		observability.ProviderRequestsTotal.WithLabelValues(providerName, model, "error").Inc()
		return nil, &provider.BackendError{Provider: providerName, Message: "invocation failed", Cause: err}
	}

	observability.ProviderRequestsTotal.WithLabelValues(providerName, model, "ok").Inc()
	observability.ProviderLatency.WithLabelValues(providerName, model).Observe(time.Since(start).Seconds())

	return newChunkSource(out.GetStream(), model), nil
}

// Close releases provider resources. The SDK client holds no resources
// that need explicit release.
func (p *BedrockProvider) Close() error {
	return nil
}
