package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/rhuss/slipstream/pkg/api"
	"github.com/rhuss/slipstream/pkg/config"
	"github.com/rhuss/slipstream/pkg/debug"
	"github.com/rhuss/slipstream/pkg/engine"
	"github.com/rhuss/slipstream/pkg/logging"
	"github.com/rhuss/slipstream/pkg/observability"
	transporthttp "github.com/rhuss/slipstream/pkg/transport/http"
)

var rootFlags struct {
	configFile string
	envFile    string
	port       int
	logLevel   string
}

var rootCmd = &cobra.Command{
	Use:   "slipstream",
	Short: "Streaming LLM relay",
	Long: `slipstream accepts chat-completion requests, invokes a streaming LLM backend
(AWS Bedrock or an OpenAI-compatible completions server) and relays every
chunk to the caller as a server-sent event as soon as it arrives.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServer,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootFlags.configFile, "config", "c", "", "config file path (default: discovered)")
	rootCmd.PersistentFlags().StringVar(&rootFlags.envFile, "env-file", ".env", "dotenv file with SLIPSTREAM_* variables")
	rootCmd.Flags().IntVar(&rootFlags.port, "port", 0, "override listen port")
	rootCmd.Flags().StringVar(&rootFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := logging.Setup(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	}, os.Stderr)
	if err != nil {
		return err
	}

	debug.Configure(cfg.Logging.Debug)

	prov, err := newProvider(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("creating provider: %w", err)
	}
	defer prov.Close()

	eng, err := engine.New(prov, engine.Config{
		Model:          cfg.Engine.Model,
		RequestTimeout: cfg.Engine.RequestTimeout,
		Validation:     api.DefaultValidationConfig(),
	})
	if err != nil {
		return fmt.Errorf("creating engine: %w", err)
	}

	srv := transporthttp.NewServer(eng, serverOptions(cfg, logger)...)

	logger.Info("slipstream configured",
		slog.String("provider", prov.Name()),
		slog.String("model", cfg.Engine.Model),
		slog.String("addr", cfg.Addr()),
		slog.Bool("metrics", cfg.Observability.Metrics.Enabled),
		slog.Any("debug", debug.Categories()),
	)

	return srv.ListenAndServe()
}

// loadConfig loads the dotenv file, the layered configuration and the
// command-line overrides, in that order of increasing precedence.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if err := loadDotEnv(rootFlags.envFile); err != nil {
		return nil, err
	}

	cfg, err := config.Load(rootFlags.configFile)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("port") {
		cfg.Server.Port = rootFlags.port
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = rootFlags.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// loadDotEnv exports variables from path without overriding the real
// environment. A missing file is not an error.
func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

func serverOptions(cfg *config.Config, logger *slog.Logger) []transporthttp.ServerOption {
	opts := []transporthttp.ServerOption{
		transporthttp.WithAddr(cfg.Addr()),
		transporthttp.WithLogger(logger),
		transporthttp.WithMaxBodySize(cfg.Server.MaxBodySize),
		transporthttp.WithReadTimeout(cfg.Server.ReadTimeout),
		transporthttp.WithWriteTimeout(cfg.Server.WriteTimeout),
		transporthttp.WithShutdownTimeout(cfg.Server.ShutdownTimeout),
	}
	if cfg.Observability.Metrics.Enabled {
		opts = append(opts,
			transporthttp.WithRoute("GET "+cfg.Observability.Metrics.Path, observability.Handler()),
			transporthttp.WithHTTPMiddleware(observability.MetricsMiddleware),
		)
	}
	return opts
}
