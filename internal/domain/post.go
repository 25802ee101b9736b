package domain

import (
	"fmt"
	"time"
)

// UnknownAuthor is substituted for both the user id and the username when a
// post's author account is deleted or suspended.
const UnknownAuthor = "Unknown"

// Filter selects which subreddit listing to pull posts from.
type Filter string

const (
	FilterNew    Filter = "new"
	FilterHot    Filter = "hot"
	FilterTop    Filter = "top"
	FilterRising Filter = "rising"
)

// ParseFilter validates a listing filter name from configuration.
func ParseFilter(value string) (Filter, error) {
	switch Filter(value) {
	case FilterNew, FilterHot, FilterTop, FilterRising:
		return Filter(value), nil
	case "":
		return FilterNew, nil
	}
	return "", fmt.Errorf("unknown listing filter %q", value)
}

// Post is a raw submission as returned by the source listing. It has no
// persisted identity of its own; it is folded into StoredPost at write time.
type Post struct {
	ID        string
	Title     string
	Content   string
	AuthorID  string
	Author    string
	Subreddit string
	CreatedAt time.Time
}

// Annotation is the validated enrichment output for a single post, together
// with the provenance stamps attached by the pipeline before persistence.
type Annotation struct {
	Title              string
	Subreddit          string
	Category           string
	Topics             []string
	Questions          []string
	Keywords           []string
	Sentiment          []string
	Actions            []string
	Summary            string
	SuggestedResponses []string

	RedditPostID string
	Content      string
	FilterType   string
	Username     string
	RedditUserID string
	TimeCreated  time.Time
	ScrapedAt    time.Time
}

// User is a source author, created on first encounter and never updated.
type User struct {
	RedditUserID string
	Username     string
	CreatedAt    time.Time
}

// StoredPost is the durable record keyed by the source post id.
type StoredPost struct {
	RedditPostID string
	Subreddit    string
	Category     string
	FilterType   string
	CreatedAt    time.Time
	ScrapedAt    time.Time
	Title        string
	Content      string
	RedditUserID string
	Sentiment    string
	ActionType   string
	TopicIDs     []string
	KeywordIDs   []string
}

// Topic is owned by exactly one StoredPost and removed with it.
type Topic struct {
	ID           string
	RedditPostID string
	Topic        string
	CreatedAt    time.Time
}

// Keyword is owned by exactly one StoredPost and removed with it.
type Keyword struct {
	ID           string
	RedditPostID string
	Keyword      string
	CreatedAt    time.Time
}
