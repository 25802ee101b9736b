package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"

	"RedditPulse/internal/config"
	"RedditPulse/internal/infrastructure/llm"
	"RedditPulse/internal/infrastructure/reddit"
	"RedditPulse/internal/infrastructure/scheduler"
	"RedditPulse/internal/infrastructure/storage"
	"RedditPulse/internal/infrastructure/telegram"
	"RedditPulse/internal/logging"
	"RedditPulse/internal/usecase"
)

// Application wires configuration to adapters and the aggregation loop.
type Application struct {
	cfg    config.Config
	logger *slog.Logger
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}
	return &Application{cfg: cfg, logger: baseLogger}
}

// Run connects to the store, wires the pipeline, and drives sweeps until the
// context is cancelled. A store that is unreachable at startup is fatal.
func (a *Application) Run(ctx context.Context) error {
	db, err := sql.Open("postgres", a.cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database unreachable: %w", err)
	}

	if err := storage.EnsureSchema(ctx, db); err != nil {
		return err
	}

	repository := storage.NewPostgresRepository(db)
	source := reddit.NewClient(a.cfg.Reddit, nil)
	annotator := llm.NewExtractor(a.cfg.OpenAI, nil)
	notifier := telegram.NewNotifier(a.cfg.Telegram.BotToken, nil)

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Repository: repository,
		Annotator:  annotator,
		Notifier:   notifier,
		Filter:     a.cfg.Scheduler.ListingFilter(),
		Logger:     a.logger.With("component", "pipeline"),
	})

	aggregator := usecase.NewAggregator(usecase.AggregatorDeps{
		Source:     source,
		Pipeline:   pipeline,
		Scheduler:  scheduler.NewIntervalScheduler(a.cfg.Scheduler.PollInterval),
		Categories: a.cfg.Categories,
		Filter:     a.cfg.Scheduler.ListingFilter(),
		BatchLimit: a.cfg.Scheduler.BatchLimit,
		Logger:     a.logger.With("component", "aggregator"),
	})

	a.logger.Info("aggregation loop starting",
		"categories", len(a.cfg.Categories),
		"interval", a.cfg.Scheduler.PollInterval,
		"batch_limit", a.cfg.Scheduler.BatchLimit,
	)
	return aggregator.Run(ctx)
}
