package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mutarjim/translation-service/internal/config"
	"github.com/mutarjim/translation-service/internal/driver"
	"github.com/mutarjim/translation-service/internal/engine"
	"github.com/mutarjim/translation-service/internal/pdf"
	"github.com/mutarjim/translation-service/internal/pipeline"
	"github.com/mutarjim/translation-service/internal/segment"
	"github.com/mutarjim/translation-service/internal/server"
	"github.com/mutarjim/translation-service/internal/task"
)

// buildEngineFn is replaceable in tests.
var buildEngineFn = engine.FromConfig

func serveCmd(cfgFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the translation HTTP service",
		Example: `  mutarjim serve
  mutarjim serve --engine openai --store sqlite
  MUTARJIM_LISTEN=:9090 mutarjim serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			return runServe(cmd, cfg)
		},
	}

	flags := cmd.Flags()
	flags.String("listen", server.DefaultAddr, "HTTP listen address")
	flags.String("store", config.StoreMemory, "task store: memory or sqlite")
	flags.String("sqlite-path", "mutarjim.db", "task database path (sqlite store)")
	flags.String("output-dir", task.DefaultOutputDir, "directory for translated job files")
	flags.Int("task-workers", task.DefaultRunnerWorkers, "background PDF job workers")
	flags.Float64("rate-limit", 10, "per-client requests per second (0 disables limiting)")
	flags.Int("rate-burst", 20, "per-client burst size")
	flags.Duration("request-timeout", server.DefaultRequestTimeout, "deadline per translation request")
	flags.Int("breaker-threshold", 5, "consecutive engine failures before the circuit opens")
	addEngineFlags(flags)

	return cmd
}

// addEngineFlags registers the flags shared by every command that builds a
// translation pipeline.
func addEngineFlags(flags *pflag.FlagSet) {
	flags.String("engine", config.EngineLambda, "translation engine: lambda or openai")
	flags.String("environment", "dev", "deploy environment (prefixes default Lambda function names)")
	flags.String("lambda-en2ar", "", "en2ar Lambda function name override")
	flags.String("lambda-ar2en", "", "ar2en Lambda function name override")
	flags.String("openai-api-key", "", "OpenAI API key (or set OPENAI_API_KEY)")
	flags.String("openai-model", "gpt-4o-mini", "OpenAI chat model")
	flags.String("openai-base-url", "", "OpenAI-compatible API base URL")
	flags.Int("chunk-tokens", segment.DefaultMaxTokens, "token budget per translation chunk")
	flags.Int("workers", driver.DefaultWorkers, "parallel chunk translations")
}

func runServe(cmd *cobra.Command, cfg config.Config) error {
	ctx := cmd.Context()
	logger := newLogger(cmd.ErrOrStderr(), cfg.Verbose)

	store, err := buildStore(cfg)
	if err != nil {
		return fmt.Errorf("opening task store: %w", err)
	}
	defer store.Close()

	eng := buildEngineFn(cfg)

	pipe := pipeline.New(eng,
		pipeline.WithMaxTokens(cfg.ChunkTokens),
		pipeline.WithWorkers(cfg.Workers),
		pipeline.WithLogger(logger),
	)

	extractor := pdf.New()
	if err := pdf.CheckAvailable(); err != nil {
		logger.Warn("pdf extraction unavailable", "error", err)
	}

	runner := task.NewRunner(store, pipe, extractor,
		task.WithRunnerWorkers(cfg.TaskWorkers),
		task.WithOutputDir(cfg.OutputDir),
		task.WithRunnerLogger(logger),
	)
	// Jobs outlive the shutdown signal; Stop drains them.
	runner.Start(context.WithoutCancel(ctx))
	defer runner.Stop()

	srv := server.New(pipe, runner, store,
		server.WithAddr(cfg.Listen),
		server.WithEngineName(eng.Name()),
		server.WithRequestTimeout(cfg.RequestTimeout),
		server.WithRateLimit(cfg.RateLimit, cfg.RateBurst),
		server.WithLogger(logger),
	)

	logger.Info("starting translation service",
		"environment", cfg.Environment,
		"engine", eng.Name(),
		"store", cfg.Store,
		"chunk_tokens", cfg.ChunkTokens,
		"workers", cfg.Workers,
	)
	return srv.Run(ctx)
}

func buildStore(cfg config.Config) (task.Store, error) {
	if cfg.Store == config.StoreSQLite {
		return task.NewSQLiteStore(cfg.SQLitePath)
	}
	return task.NewMemoryStore(), nil
}
