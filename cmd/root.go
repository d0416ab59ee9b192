package main

import (
	"context"
	"fmt"
	"io"
	"os"

	service "github.com/okian/edumetrics/internal/app"
	"github.com/okian/edumetrics/internal/config"
	"github.com/okian/edumetrics/pkg/logger"
	"github.com/spf13/cobra"
)

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "edumetrics",
		Short: "Student exam score forecasts",
		Long: "EduMetrics predicts a student's exam score from study habits and background, " +
			"classifies it into an outcome tier and builds a prioritized action plan.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if p, _ := cmd.Flags().GetString("config"); p != "" {
				return os.Setenv(config.EnvConfig, p)
			}
			return nil
		},
	}

	root.PersistentFlags().String("config", "", "Path to a YAML config file (overrides EDUMETRICS_CONFIG)")

	root.AddCommand(newServeCmd())
	root.AddCommand(newPredictCmd())
	return root
}

// bootstrap loads configuration and initializes the global logger on out.
func bootstrap(ctx context.Context, out io.Writer) (*config.Config, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat), logger.WithWriter(out)); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return cfg, nil
}

// newService maps configuration onto service options.
func newService(cfg *config.Config, log logger.Logger) *service.Service {
	return service.New(
		service.WithLogger(log),
		service.WithModelPath(cfg.ModelPath),
		service.WithModelLoadAttempts(cfg.ModelLoadAttempts),
		service.WithModelLoadRetryDelay(cfg.ModelLoadRetryDelay()),
		service.WithPredictionTimeout(cfg.PredictionTimeout()),
		service.WithFallbackScore(cfg.FallbackScore),
		service.WithFallbackEnabled(cfg.FallbackEnabled),
	)
}
