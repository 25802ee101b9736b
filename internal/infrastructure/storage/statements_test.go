package storage

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"RedditPulse/internal/domain"
)

func sampleAnnotation() domain.Annotation {
	return domain.Annotation{
		Title:        "How do I start?",
		Subreddit:    "learnpython",
		Category:     "Teaching Python",
		Topics:       []string{"learning python", "resources"},
		Keywords:     []string{"python", "beginner"},
		Sentiment:    []string{"looking_for_help", "confused"},
		Actions:      []string{"share a roadmap"},
		Summary:      "Author asks where to begin.",
		RedditPostID: "abc123",
		Content:      "I want to learn Python.",
		FilterType:   "new",
		Username:     "gopher42",
		RedditUserID: "t2_99xyz",
		TimeCreated:  time.Date(2025, time.February, 28, 9, 30, 0, 0, time.UTC),
		ScrapedAt:    time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestExistsStmt(t *testing.T) {
	t.Parallel()

	query, args, err := existsStmt("abc123")
	if err != nil {
		t.Fatalf("existsStmt returned error: %v", err)
	}

	if !strings.Contains(query, "FROM posts") || !strings.Contains(query, "reddit_post_id = $1") {
		t.Fatalf("unexpected query: %s", query)
	}
	if len(args) != 1 || args[0] != "abc123" {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestInsertUserStmtNeverUpdates(t *testing.T) {
	t.Parallel()

	query, args, err := insertUserStmt(sampleAnnotation())
	if err != nil {
		t.Fatalf("insertUserStmt returned error: %v", err)
	}

	if !strings.Contains(query, "INSERT INTO users") {
		t.Fatalf("unexpected query: %s", query)
	}
	if !strings.Contains(query, "ON CONFLICT (reddit_user_id) DO NOTHING") {
		t.Fatalf("user insert must not mutate existing rows: %s", query)
	}
	if args[0] != "t2_99xyz" || args[1] != "gopher42" {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestInsertPostStmt(t *testing.T) {
	t.Parallel()

	ann := sampleAnnotation()
	query, args, err := insertPostStmt(ann)
	if err != nil {
		t.Fatalf("insertPostStmt returned error: %v", err)
	}

	if !strings.Contains(query, "INSERT INTO posts") {
		t.Fatalf("unexpected query: %s", query)
	}
	if !strings.Contains(query, "ON CONFLICT (reddit_post_id) DO NOTHING") {
		t.Fatalf("post insert must tolerate duplicate keys: %s", query)
	}

	if args[0] != "abc123" {
		t.Fatalf("unexpected post id arg: %v", args[0])
	}
	if args[9] != "looking_for_help, confused" {
		t.Fatalf("sentiment not joined in order: %v", args[9])
	}
	if args[10] != "share a roadmap" {
		t.Fatalf("action not joined: %v", args[10])
	}
}

func TestChildStmtsCarryBackReference(t *testing.T) {
	t.Parallel()

	ann := sampleAnnotation()

	query, args, err := insertTopicStmt("id1", ann.RedditPostID, "learning python", ann)
	if err != nil {
		t.Fatalf("insertTopicStmt returned error: %v", err)
	}
	if !strings.Contains(query, "INSERT INTO topics") {
		t.Fatalf("unexpected query: %s", query)
	}
	if args[1] != "abc123" {
		t.Fatalf("topic missing owning post reference: %v", args)
	}

	query, args, err = insertKeywordStmt("id2", ann.RedditPostID, "python", ann)
	if err != nil {
		t.Fatalf("insertKeywordStmt returned error: %v", err)
	}
	if !strings.Contains(query, "INSERT INTO keywords") {
		t.Fatalf("unexpected query: %s", query)
	}
	if args[1] != "abc123" {
		t.Fatalf("keyword missing owning post reference: %v", args)
	}
}

func TestAttachChildrenStmt(t *testing.T) {
	t.Parallel()

	query, _, err := attachChildrenStmt("abc123", []string{"t1", "t2"}, []string{"k1"})
	if err != nil {
		t.Fatalf("attachChildrenStmt returned error: %v", err)
	}

	if !strings.Contains(query, "UPDATE posts") {
		t.Fatalf("unexpected query: %s", query)
	}
	if !strings.Contains(query, "topic_ids") || !strings.Contains(query, "keyword_ids") {
		t.Fatalf("reference lists not updated: %s", query)
	}
}

func TestDeleteByPostStmt(t *testing.T) {
	t.Parallel()

	for _, table := range []string{"topics", "keywords", "posts"} {
		query, args, err := deleteByPostStmt(table, "abc123")
		if err != nil {
			t.Fatalf("deleteByPostStmt(%s) returned error: %v", table, err)
		}
		if !strings.Contains(query, "DELETE FROM "+table) {
			t.Fatalf("unexpected query: %s", query)
		}
		if args[0] != "abc123" {
			t.Fatalf("unexpected args: %v", args)
		}
	}
}

func TestJoinSplitTagsRoundTrip(t *testing.T) {
	t.Parallel()

	tags := []string{"looking_for_help", "confused", "excited"}
	joined := JoinTags(tags)
	if joined != "looking_for_help, confused, excited" {
		t.Fatalf("unexpected join: %s", joined)
	}

	restored := SplitTags(joined)
	if !reflect.DeepEqual(tags, restored) {
		t.Fatalf("round trip mismatch: %v vs %v", tags, restored)
	}
}

func TestSplitTagsEmpty(t *testing.T) {
	t.Parallel()

	if got := SplitTags(""); got != nil {
		t.Fatalf("expected nil for empty value, got %v", got)
	}
}

func TestSchemaDeclaresAllRecordKinds(t *testing.T) {
	t.Parallel()

	for _, table := range []string{"users", "posts", "topics", "keywords"} {
		if !strings.Contains(Schema, "CREATE TABLE IF NOT EXISTS "+table) {
			t.Fatalf("schema missing table %s", table)
		}
	}

	if !strings.Contains(Schema, "reddit_post_id TEXT PRIMARY KEY") {
		t.Fatal("posts must be keyed by reddit_post_id")
	}
	if strings.Contains(Schema, "ON DELETE CASCADE") {
		t.Fatal("cascade must be an explicit store routine, not a schema rule")
	}
}
