// Package config provides unified configuration for the slipstream proxy.
//
// Configuration is loaded with a layered approach:
//  1. Built-in defaults
//  2. YAML config file (discovered or explicitly specified)
//  3. Environment variable overrides (SLIPSTREAM_ prefix)
//  4. File reference resolution (_file suffix fields)
//  5. Validation
package config

import "time"

// Provider names accepted in engine.provider.
const (
	ProviderBedrock      = "bedrock"
	ProviderOpenAICompat = "openaicompat"
)

// Config holds all configuration for the slipstream proxy.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Engine        EngineConfig        `yaml:"engine"`
	Bedrock       BedrockConfig       `yaml:"bedrock"`
	OpenAICompat  OpenAICompatConfig  `yaml:"openaicompat"`
	Logging       LoggingConfig       `yaml:"logging"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"`             // default: all interfaces
	Port            int           `yaml:"port"`             // default: 3000
	ReadTimeout     time.Duration `yaml:"read_timeout"`     // default: 30s
	WriteTimeout    time.Duration `yaml:"write_timeout"`    // default: 0 (streams are unbounded here)
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"` // default: 10s
	MaxBodySize     int64         `yaml:"max_body_size"`    // default: 10 MiB
}

// EngineConfig holds relay settings.
type EngineConfig struct {
	Provider       string        `yaml:"provider"`        // "bedrock" or "openaicompat", default: "bedrock"
	Model          string        `yaml:"model"`           // default: "deepseek.v3.2"
	RequestTimeout time.Duration `yaml:"request_timeout"` // default: 5m
}

// BedrockConfig holds AWS Bedrock Runtime settings. Empty values fall back
// to the AWS SDK's default credential and region chain.
type BedrockConfig struct {
	Region  string `yaml:"region"`
	Profile string `yaml:"profile"`
}

// OpenAICompatConfig holds settings for an OpenAI-compatible completions backend.
type OpenAICompatConfig struct {
	BackendURL string `yaml:"backend_url"`  // required when provider is openaicompat
	APIKey     string `yaml:"api_key"`      // optional
	APIKeyFile string `yaml:"api_key_file"` // _file variant for api_key
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error; default: info
	Format string `yaml:"format"` // text or json; default: text
	Debug  string `yaml:"debug"`  // debug categories, e.g. "providers,streaming"
}

// ObservabilityConfig holds monitoring and instrumentation settings.
type ObservabilityConfig struct {
	Metrics MetricsConfig `yaml:"metrics"`
}

// MetricsConfig holds Prometheus metrics endpoint settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"` // default: true
	Path    string `yaml:"path"`    // default: "/metrics"
}

// Defaults returns a Config with all default values filled in.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:            3000,
			ReadTimeout:     30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxBodySize:     10 << 20,
		},
		Engine: EngineConfig{
			Provider:       ProviderBedrock,
			Model:          "deepseek.v3.2",
			RequestTimeout: 5 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Observability: ObservabilityConfig{
			Metrics: MetricsConfig{
				Enabled: true,
				Path:    "/metrics",
			},
		},
	}
}
