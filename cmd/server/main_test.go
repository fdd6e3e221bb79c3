package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/rhuss/slipstream/pkg/api"
	"github.com/rhuss/slipstream/pkg/config"
	"github.com/rhuss/slipstream/pkg/logging"
	"github.com/rhuss/slipstream/pkg/transport"
	transporthttp "github.com/rhuss/slipstream/pkg/transport/http"
)

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("version: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "slipstream "+Version) {
		t.Errorf("output = %q, want version line", out)
	}
	if !strings.Contains(out, "Go Version:") {
		t.Errorf("output = %q, want Go version", out)
	}
}

func TestRootFlags(t *testing.T) {
	for _, name := range []string{"config", "env-file"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("missing persistent flag --%s", name)
		}
	}
	for _, name := range []string{"port", "log-level"} {
		if rootCmd.Flags().Lookup(name) == nil {
			t.Errorf("missing flag --%s", name)
		}
	}
	if f := rootCmd.PersistentFlags().ShorthandLookup("c"); f == nil || f.Name != "config" {
		t.Error("-c should be shorthand for --config")
	}
}

func TestNewProviderOpenAICompat(t *testing.T) {
	cfg := config.Defaults()
	cfg.Engine.Provider = config.ProviderOpenAICompat
	cfg.OpenAICompat.BackendURL = "http://localhost:9090"

	p, err := newProvider(context.Background(), &cfg)
	if err != nil {
		t.Fatalf("newProvider: %v", err)
	}
	defer p.Close()
	if p.Name() != "openaicompat" {
		t.Errorf("Name() = %q, want openaicompat", p.Name())
	}
}

func TestNewProviderUnknown(t *testing.T) {
	cfg := config.Defaults()
	cfg.Engine.Provider = "carrier-pigeon"

	if _, err := newProvider(context.Background(), &cfg); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestLoadDotEnv(t *testing.T) {
	const key = "SLIPSTREAM_TEST_DOTENV_VALUE"
	t.Cleanup(func() { os.Unsetenv(key) })

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(key+"=from-dotenv\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := loadDotEnv(path); err != nil {
		t.Fatalf("loadDotEnv: %v", err)
	}
	if got := os.Getenv(key); got != "from-dotenv" {
		t.Errorf("%s = %q, want from-dotenv", key, got)
	}
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	if err := loadDotEnv(filepath.Join(t.TempDir(), "nope.env")); err != nil {
		t.Errorf("missing file should be ignored, got %v", err)
	}
	if err := loadDotEnv(""); err != nil {
		t.Errorf("empty path should be ignored, got %v", err)
	}
}

func TestLoadConfigFlagOverrides(t *testing.T) {
	t.Setenv("SLIPSTREAM_CONFIG", "")
	t.Setenv("SLIPSTREAM_PORT", "")
	t.Setenv("SLIPSTREAM_LOG_LEVEL", "")

	saved := rootFlags
	t.Cleanup(func() { rootFlags = saved })
	rootFlags.configFile = ""
	rootFlags.envFile = ""

	cmd := &cobra.Command{}
	cmd.Flags().IntVar(&rootFlags.port, "port", 0, "")
	cmd.Flags().StringVar(&rootFlags.logLevel, "log-level", "", "")
	if err := cmd.Flags().Set("port", "8081"); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Server.Port != 8081 {
		t.Errorf("port = %d, want 8081", cfg.Server.Port)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("log level = %q, want unchanged default", cfg.Logging.Level)
	}

	if err := cmd.Flags().Set("log-level", "verbose"); err != nil {
		t.Fatal(err)
	}
	if _, err := loadConfig(cmd); err == nil {
		t.Error("expected validation error for an invalid --log-level")
	}
}

func TestServerOptionsMetricsRoute(t *testing.T) {
	logger, err := logging.New(logging.Config{Level: "error"}, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	noop := transport.ChatStreamerFunc(func(context.Context, *api.ChatRequest, transport.EventWriter) error {
		return nil
	})

	tests := []struct {
		name    string
		enabled bool
		want    int
	}{
		{"enabled", true, http.StatusOK},
		{"disabled", false, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Defaults()
			cfg.Observability.Metrics.Enabled = tt.enabled

			srv := transporthttp.NewServer(noop, serverOptions(&cfg, logger)...)
			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

			if rec.Code != tt.want {
				t.Errorf("GET /metrics = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
