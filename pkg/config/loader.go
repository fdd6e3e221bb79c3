package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "SLIPSTREAM_"

// Load loads configuration from a layered set of sources.
//
// The loading order is:
//  1. Built-in defaults
//  2. YAML config file (explicit path, SLIPSTREAM_CONFIG env, ./config.yaml, /etc/slipstream/config.yaml)
//  3. Environment variable overrides
//  4. File reference resolution (_file suffix)
//  5. Validation
func Load(configPath string) (*Config, error) {
	cfg := Defaults()

	filePath := discoverConfigFile(configPath)
	if filePath != "" {
		if err := loadYAMLFile(filePath, &cfg); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", filePath, err)
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, fmt.Errorf("environment overrides: %w", err)
	}

	if err := resolveFileReferences(&cfg); err != nil {
		return nil, fmt.Errorf("resolving file references: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return &cfg, nil
}

// discoverConfigFile finds the config file path using the discovery order:
// 1. Explicit configPath argument
// 2. SLIPSTREAM_CONFIG environment variable
// 3. ./config.yaml in the current directory
// 4. /etc/slipstream/config.yaml
//
// Returns empty string if no config file is found.
func discoverConfigFile(configPath string) string {
	if configPath != "" {
		return configPath
	}

	if envPath := os.Getenv(EnvPrefix + "CONFIG"); envPath != "" {
		return envPath
	}

	candidates := []string{
		"config.yaml",
		"/etc/slipstream/config.yaml",
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// loadYAMLFile reads and parses a YAML file into the Config struct.
// Fields not present in the YAML retain their current (default) values.
func loadYAMLFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// applyEnvOverrides maps SLIPSTREAM_* environment variables to config
// fields. Malformed numeric, duration and boolean values are reported
// instead of being ignored.
func applyEnvOverrides(cfg *Config) error {
	env := envReader{}

	env.setString("HOST", &cfg.Server.Host)
	env.setInt("PORT", &cfg.Server.Port)
	env.setDuration("READ_TIMEOUT", &cfg.Server.ReadTimeout)
	env.setDuration("WRITE_TIMEOUT", &cfg.Server.WriteTimeout)
	env.setDuration("SHUTDOWN_TIMEOUT", &cfg.Server.ShutdownTimeout)

	env.setString("PROVIDER", &cfg.Engine.Provider)
	env.setString("MODEL", &cfg.Engine.Model)
	env.setDuration("REQUEST_TIMEOUT", &cfg.Engine.RequestTimeout)

	env.setString("AWS_REGION", &cfg.Bedrock.Region)
	env.setString("AWS_PROFILE", &cfg.Bedrock.Profile)

	env.setString("BACKEND_URL", &cfg.OpenAICompat.BackendURL)
	env.setString("API_KEY", &cfg.OpenAICompat.APIKey)
	env.setString("API_KEY_FILE", &cfg.OpenAICompat.APIKeyFile)

	env.setString("LOG_LEVEL", &cfg.Logging.Level)
	env.setString("LOG_FORMAT", &cfg.Logging.Format)
	env.setString("DEBUG", &cfg.Logging.Debug)

	env.setBool("METRICS_ENABLED", &cfg.Observability.Metrics.Enabled)
	env.setString("METRICS_PATH", &cfg.Observability.Metrics.Path)

	return env.err
}

// envReader applies prefixed environment variables and keeps the first
// parse error.
type envReader struct {
	err error
}

func (e *envReader) lookup(name string) (string, bool) {
	v := os.Getenv(EnvPrefix + name)
	return v, v != ""
}

func (e *envReader) fail(name, v string, err error) {
	if e.err == nil {
		e.err = fmt.Errorf("%s%s=%q: %w", EnvPrefix, name, v, err)
	}
}

func (e *envReader) setString(name string, dst *string) {
	if v, ok := e.lookup(name); ok {
		*dst = v
	}
}

func (e *envReader) setInt(name string, dst *int) {
	if v, ok := e.lookup(name); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			e.fail(name, v, err)
			return
		}
		*dst = n
	}
}

func (e *envReader) setDuration(name string, dst *time.Duration) {
	if v, ok := e.lookup(name); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			e.fail(name, v, err)
			return
		}
		*dst = d
	}
}

func (e *envReader) setBool(name string, dst *bool) {
	if v, ok := e.lookup(name); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			e.fail(name, v, err)
			return
		}
		*dst = b
	}
}

// resolveFileReferences reads _file fields and populates the corresponding value fields.
// If the value field is empty and the file field is set, the file is read,
// whitespace is trimmed, and the value field is populated.
func resolveFileReferences(cfg *Config) error {
	// openaicompat.api_key_file -> openaicompat.api_key
	if cfg.OpenAICompat.APIKeyFile != "" && cfg.OpenAICompat.APIKey == "" {
		val, err := readSecretFile(cfg.OpenAICompat.APIKeyFile)
		if err != nil {
			return fmt.Errorf("openaicompat.api_key_file: %w", err)
		}
		cfg.OpenAICompat.APIKey = val
	}
	return nil
}

// readSecretFile reads a file and returns its content with surrounding whitespace trimmed.
func readSecretFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
