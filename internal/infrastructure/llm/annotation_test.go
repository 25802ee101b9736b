package llm

import (
	"errors"
	"strings"
	"testing"
)

const validPayload = `{
	"title": "How to Learn Python Effectively",
	"subreddit": "learnpython",
	"category": "Teaching Python",
	"topics_discussed": ["learning python", "resources"],
	"questions_requests": ["What are the best resources?"],
	"keywords": ["python", "beginner"],
	"sentiment": ["looking_for_help", "confused"],
	"actions_next_steps": ["share a roadmap"],
	"summary": "The author wants to learn Python and asks for starting points.",
	"suggested_responses": ["Try working through the official tutorial first."]
}`

func TestParseAnnotationValid(t *testing.T) {
	t.Parallel()

	ann, err := ParseAnnotation([]byte(validPayload))
	if err != nil {
		t.Fatalf("ParseAnnotation returned error: %v", err)
	}

	if ann.Title != "How to Learn Python Effectively" {
		t.Fatalf("unexpected title: %s", ann.Title)
	}
	if ann.Subreddit != "learnpython" {
		t.Fatalf("unexpected subreddit: %s", ann.Subreddit)
	}
	if len(ann.Topics) != 2 || ann.Topics[0] != "learning python" {
		t.Fatalf("unexpected topics: %v", ann.Topics)
	}
	if len(ann.Sentiment) != 2 || ann.Sentiment[0] != "looking_for_help" || ann.Sentiment[1] != "confused" {
		t.Fatalf("sentiment order not preserved: %v", ann.Sentiment)
	}
	if ann.Summary == "" {
		t.Fatal("summary missing")
	}
	if len(ann.SuggestedResponses) != 1 {
		t.Fatalf("unexpected suggested responses: %v", ann.SuggestedResponses)
	}
}

func TestParseAnnotationMissingSummary(t *testing.T) {
	t.Parallel()

	payload := strings.Replace(validPayload,
		`"summary": "The author wants to learn Python and asks for starting points.",`, "", 1)

	_, err := ParseAnnotation([]byte(payload))
	if err == nil {
		t.Fatal("expected error for missing summary")
	}

	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaError, got %T: %v", err, err)
	}
	if schemaErr.Field != "summary" {
		t.Fatalf("unexpected field: %s", schemaErr.Field)
	}
}

func TestParseAnnotationEmptySentiment(t *testing.T) {
	t.Parallel()

	payload := strings.Replace(validPayload,
		`"sentiment": ["looking_for_help", "confused"],`, `"sentiment": [],`, 1)

	_, err := ParseAnnotation([]byte(payload))
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if schemaErr.Field != "sentiment" {
		t.Fatalf("unexpected field: %s", schemaErr.Field)
	}
}

func TestParseAnnotationEmptyTag(t *testing.T) {
	t.Parallel()

	payload := strings.Replace(validPayload,
		`"keywords": ["python", "beginner"],`, `"keywords": ["python", ""],`, 1)

	_, err := ParseAnnotation([]byte(payload))
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if schemaErr.Field != "keywords" {
		t.Fatalf("unexpected field: %s", schemaErr.Field)
	}
}

func TestParseAnnotationOversizedSummary(t *testing.T) {
	t.Parallel()

	payload := strings.Replace(validPayload,
		"The author wants to learn Python and asks for starting points.",
		strings.Repeat("x", maxSummaryLen+1), 1)

	_, err := ParseAnnotation([]byte(payload))
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
}

func TestParseAnnotationInvalidJSON(t *testing.T) {
	t.Parallel()

	_, err := ParseAnnotation([]byte("not json"))
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaError for invalid json, got %v", err)
	}
	if schemaErr.Field != "body" {
		t.Fatalf("unexpected field: %s", schemaErr.Field)
	}
}
