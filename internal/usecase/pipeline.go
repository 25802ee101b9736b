package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"RedditPulse/internal/domain"
	"RedditPulse/internal/ports"
)

// PipelineDeps wires all driven adapters into the per-post pipeline.
type PipelineDeps struct {
	Repository ports.PostRepository
	Annotator  ports.Annotator
	Notifier   ports.Notifier
	Filter     domain.Filter
	Logger     *slog.Logger
}

// Pipeline runs one post through dedup, enrichment, notification and
// persistence.
type Pipeline struct {
	repository ports.PostRepository
	annotator  ports.Annotator
	notifier   ports.Notifier
	filter     domain.Filter
	logger     *slog.Logger
}

// NewPipeline constructs the per-post workflow.
func NewPipeline(deps PipelineDeps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	filter := deps.Filter
	if filter == "" {
		filter = domain.FilterNew
	}
	return &Pipeline{
		repository: deps.Repository,
		annotator:  deps.Annotator,
		notifier:   deps.Notifier,
		filter:     filter,
		logger:     logger,
	}
}

// Process handles a single fetched post. A post that is already stored is a
// no-op: no enrichment call, no notification, no write. Notification failures
// never block persistence.
func (p *Pipeline) Process(ctx context.Context, post domain.Post, category string, chatIDs []string) error {
	exists, err := p.repository.Exists(ctx, post.ID)
	if err != nil {
		return fmt.Errorf("check post %s: %w", post.ID, err)
	}
	if exists {
		p.logger.Debug("post already stored, skipping", "post_id", post.ID)
		return nil
	}

	username, userID := normalizeAuthor(post)

	annotation, err := p.annotator.Annotate(ctx, post.Title, post.Content, post.Subreddit, category)
	if err != nil {
		return fmt.Errorf("annotate post %s: %w", post.ID, err)
	}

	annotation.RedditPostID = post.ID
	annotation.Content = post.Content
	annotation.Category = category
	annotation.FilterType = string(p.filter)
	annotation.Username = username
	annotation.RedditUserID = userID
	annotation.TimeCreated = post.CreatedAt
	// The model echoes the subreddit; the fetched value is authoritative.
	annotation.Subreddit = post.Subreddit

	for _, chatID := range chatIDs {
		if err := p.notifier.Send(ctx, chatID, annotation); err != nil {
			p.logger.Error("notification failed", "post_id", post.ID, "chat_id", chatID, "error", err)
		}
	}

	if err := p.repository.Save(ctx, annotation); err != nil {
		return fmt.Errorf("persist post %s: %w", post.ID, err)
	}

	p.logger.Info("post processed", "post_id", post.ID, "category", category, "topics", len(annotation.Topics))
	return nil
}

// normalizeAuthor substitutes the sentinel for deleted or suspended accounts.
// A post missing either half of the author pair gets the sentinel for both, so
// a live username never ends up attached to the sentinel user record.
func normalizeAuthor(post domain.Post) (username, userID string) {
	if post.Author == "" || post.AuthorID == "" {
		return domain.UnknownAuthor, domain.UnknownAuthor
	}
	return post.Author, post.AuthorID
}
