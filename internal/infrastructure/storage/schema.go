package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// Schema creates the four record kinds. Cascade deletion of a post's topics
// and keywords is an explicit store routine, so the foreign keys carry no
// ON DELETE action.
const Schema = `
CREATE TABLE IF NOT EXISTS users (
    reddit_user_id TEXT PRIMARY KEY,
    username       TEXT NOT NULL,
    created_at     TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS posts (
    reddit_post_id TEXT PRIMARY KEY,
    subreddit      TEXT NOT NULL,
    category       TEXT NOT NULL,
    filter_type    TEXT NOT NULL,
    created_at     TIMESTAMPTZ NOT NULL,
    scraped_at     TIMESTAMPTZ NOT NULL,
    title          TEXT NOT NULL,
    content        TEXT,
    reddit_user_id TEXT NOT NULL REFERENCES users(reddit_user_id),
    sentiment      TEXT,
    action_type    TEXT,
    topic_ids      TEXT[] NOT NULL DEFAULT '{}',
    keyword_ids    TEXT[] NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS topics (
    id             TEXT PRIMARY KEY,
    seq            BIGSERIAL,
    reddit_post_id TEXT NOT NULL REFERENCES posts(reddit_post_id),
    topic          TEXT NOT NULL,
    created_at     TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS keywords (
    id             TEXT PRIMARY KEY,
    seq            BIGSERIAL,
    reddit_post_id TEXT NOT NULL REFERENCES posts(reddit_post_id),
    keyword        TEXT NOT NULL,
    created_at     TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_topics_post ON topics(reddit_post_id);
CREATE INDEX IF NOT EXISTS idx_keywords_post ON keywords(reddit_post_id);
CREATE INDEX IF NOT EXISTS idx_posts_user ON posts(reddit_user_id);
`

// EnsureSchema applies the schema on startup.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
