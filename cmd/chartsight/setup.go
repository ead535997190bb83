package main

import (
	"context"
	"fmt"

	"github.com/newthinker/chartsight/internal/alert"
	"github.com/newthinker/chartsight/internal/analyzer"
	"github.com/newthinker/chartsight/internal/app"
	"github.com/newthinker/chartsight/internal/config"
	"github.com/newthinker/chartsight/internal/history"
	"github.com/newthinker/chartsight/internal/llm/factory"
	"github.com/newthinker/chartsight/internal/metrics"
	"github.com/newthinker/chartsight/internal/notifier"
	"github.com/newthinker/chartsight/internal/storage/blob"
	"go.uber.org/zap"
)

// loadConfig reads the config file or falls back to defaults.
func loadConfig(log *zap.Logger) (*config.Config, error) {
	var cfg *config.Config
	var err error

	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	} else {
		cfg = config.Defaults()
		log.Warn("no config file specified, using defaults")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// newBlobStorage builds the configured history persistence backend.
func newBlobStorage(cfg *config.Config) (blob.Storage, error) {
	switch cfg.History.Storage {
	case "s3":
		return blob.NewS3(blob.S3Config{
			Bucket:    cfg.History.S3.Bucket,
			Endpoint:  cfg.History.S3.Endpoint,
			Region:    cfg.History.S3.Region,
			AccessKey: cfg.History.S3.AccessKey,
			SecretKey: cfg.History.S3.SecretKey,
			Prefix:    cfg.History.S3.Prefix,
		})
	default:
		return blob.NewLocalFS(cfg.History.Path)
	}
}

// newHistory builds and loads the history store.
func newHistory(ctx context.Context, cfg *config.Config, log *zap.Logger) (*history.Store, error) {
	storage, err := newBlobStorage(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating history storage: %w", err)
	}
	hist := history.NewStore(storage, cfg.History.Limit, log)
	hist.Load(ctx)
	return hist, nil
}

// buildApp wires the full pipeline: provider, analyzer, history, app.
func buildApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*app.App, error) {
	if cfg.LLM.Provider == "" {
		return nil, fmt.Errorf("no LLM provider configured (set llm.provider to claude, openai or gemini)")
	}

	provider, err := factory.New(ctx, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("creating LLM provider: %w", err)
	}

	hist, err := newHistory(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	an := analyzer.New(provider, analyzer.Config{
		MaxTokens:   cfg.Analyzer.MaxTokens,
		Temperature: cfg.Analyzer.Temperature,
	}, log)

	a := app.New(an, hist, log)
	a.SetTimeout(cfg.Analyzer.Timeout)
	if cfg.Notifier.WebhookURL != "" {
		a.SetNotifier(notifier.NewWebhook(cfg.Notifier.WebhookURL, cfg.Notifier.Headers))
		if len(cfg.Notifier.Rules) > 0 {
			rules := make([]alert.Rule, 0, len(cfg.Notifier.Rules))
			for _, r := range cfg.Notifier.Rules {
				rules = append(rules, alert.Rule{Name: r.Name, Expr: r.Expr, Types: r.Types})
			}
			ev := alert.NewEvaluator(rules)
			if cfg.Notifier.Cooldown > 0 {
				ev.SetCooldown(cfg.Notifier.Cooldown)
			}
			a.SetAlerts(ev)
		}
	}
	return a, nil
}

// newMetrics builds the metrics registry when enabled.
func newMetrics(cfg *config.Config) *metrics.Registry {
	if !cfg.Metrics.Enabled {
		return nil
	}
	return metrics.NewRegistry()
}
