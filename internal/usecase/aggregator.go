package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"RedditPulse/internal/config"
	"RedditPulse/internal/domain"
	"RedditPulse/internal/ports"
)

// AggregatorDeps wires the sweep loop.
type AggregatorDeps struct {
	Source     ports.PostSource
	Pipeline   *Pipeline
	Scheduler  ports.Scheduler
	Categories []config.Category
	Filter     domain.Filter
	BatchLimit int
	Logger     *slog.Logger
}

// Aggregator drives the polling loop over the category registry.
type Aggregator struct {
	source     ports.PostSource
	pipeline   *Pipeline
	scheduler  ports.Scheduler
	categories []config.Category
	filter     domain.Filter
	batchLimit int
	logger     *slog.Logger
}

// NewAggregator constructs the sweep orchestrator.
func NewAggregator(deps AggregatorDeps) *Aggregator {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	filter := deps.Filter
	if filter == "" {
		filter = domain.FilterNew
	}
	limit := deps.BatchLimit
	if limit <= 0 {
		limit = 3
	}
	return &Aggregator{
		source:     deps.Source,
		pipeline:   deps.Pipeline,
		scheduler:  deps.Scheduler,
		categories: deps.Categories,
		filter:     filter,
		batchLimit: limit,
		logger:     logger,
	}
}

// Sweep makes one full pass over every category and subreddit in registry
// order. A failing source or a failing post never aborts the pass.
func (a *Aggregator) Sweep(ctx context.Context) {
	sweepID := uuid.New().String()
	logger := a.logger.With("sweep_id", sweepID)
	logger.Info("sweep started", "categories", len(a.categories))

	var processed, failed int
	for _, category := range a.categories {
		for _, subreddit := range category.Subreddits {
			if ctx.Err() != nil {
				logger.Info("sweep cancelled", "processed", processed)
				return
			}

			posts, err := a.source.ListPosts(ctx, subreddit, a.filter, a.batchLimit)
			if err != nil {
				logger.Error("listing failed", "subreddit", subreddit, "error", err)
				continue
			}

			for _, post := range posts {
				if ctx.Err() != nil {
					logger.Info("sweep cancelled", "processed", processed)
					return
				}
				if err := a.pipeline.Process(ctx, post, category.Name, category.ChatIDs); err != nil {
					failed++
					logger.Error("post failed", "subreddit", subreddit, "post_id", post.ID, "error", err)
					continue
				}
				processed++
			}
		}
	}

	logger.Info("sweep finished", "processed", processed, "failed", failed)
}

// Run registers the sweep with the scheduler and blocks until the context is
// cancelled.
func (a *Aggregator) Run(ctx context.Context) error {
	job := func(time.Time) {
		a.Sweep(ctx)
	}

	if err := a.scheduler.Start(ctx, job); err != nil {
		return err
	}

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return a.scheduler.Stop(stopCtx)
}
