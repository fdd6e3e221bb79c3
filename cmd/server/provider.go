package main

import (
	"context"
	"fmt"

	"github.com/rhuss/slipstream/pkg/config"
	"github.com/rhuss/slipstream/pkg/provider"
	"github.com/rhuss/slipstream/pkg/provider/bedrock"
	"github.com/rhuss/slipstream/pkg/provider/openaicompat"
)

// newProvider constructs the backend adapter selected by engine.provider.
func newProvider(ctx context.Context, cfg *config.Config) (provider.Provider, error) {
	switch cfg.Engine.Provider {
	case config.ProviderBedrock:
		p, err := bedrock.New(ctx, bedrock.Config{
			Region:  cfg.Bedrock.Region,
			Profile: cfg.Bedrock.Profile,
		})
		if err != nil {
			return nil, err
		}
		return p, nil
	case config.ProviderOpenAICompat:
		p, err := openaicompat.New(openaicompat.Config{
			BaseURL: cfg.OpenAICompat.BackendURL,
			APIKey:  cfg.OpenAICompat.APIKey,
		})
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Engine.Provider)
	}
}
