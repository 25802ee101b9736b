package ports

import (
	"context"
	"time"

	"RedditPulse/internal/domain"
)

// PostSource pulls a bounded batch of submissions from one subreddit listing.
type PostSource interface {
	ListPosts(ctx context.Context, subreddit string, filter domain.Filter, limit int) ([]domain.Post, error)
}

// Annotator extracts structured metadata from a post via the inference service.
type Annotator interface {
	Annotate(ctx context.Context, title, content, subreddit, category string) (domain.Annotation, error)
}

// Notifier renders one annotation as a digest and delivers it to a
// destination chat.
type Notifier interface {
	Send(ctx context.Context, chatID string, annotation domain.Annotation) error
}

// PostRepository persists enriched posts and answers dedup queries.
type PostRepository interface {
	Exists(ctx context.Context, redditPostID string) (bool, error)
	Save(ctx context.Context, annotation domain.Annotation) error
	DeletePost(ctx context.Context, redditPostID string) error
}

// Scheduler controls when sweeps execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
