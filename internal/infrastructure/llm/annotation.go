package llm

import (
	"encoding/json"
	"fmt"

	"RedditPulse/internal/domain"
)

// maxSummaryLen caps the stored summary; the prompt asks for 75 words but the
// model is not guaranteed to respect it.
const maxSummaryLen = 1500

// SchemaError reports an enrichment response that decoded as JSON but does
// not satisfy the extraction schema. Items hitting it are skipped, not
// retried within the sweep.
type SchemaError struct {
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("annotation schema violation: field %s %s", e.Field, e.Reason)
}

// extraction mirrors the json_schema response format requested from the model.
type extraction struct {
	Title              string   `json:"title"`
	Subreddit          string   `json:"subreddit"`
	Category           string   `json:"category"`
	TopicsDiscussed    []string `json:"topics_discussed"`
	QuestionsRequests  []string `json:"questions_requests"`
	Keywords           []string `json:"keywords"`
	Sentiment          []string `json:"sentiment"`
	ActionsNextSteps   []string `json:"actions_next_steps"`
	Summary            *string  `json:"summary"`
	SuggestedResponses []string `json:"suggested_responses"`
}

// ParseAnnotation strictly decodes and validates a raw model response. It is
// deliberately independent of the transport call so canned payloads can
// exercise every rejection path.
func ParseAnnotation(raw []byte) (domain.Annotation, error) {
	var ext extraction
	if err := json.Unmarshal(raw, &ext); err != nil {
		return domain.Annotation{}, &SchemaError{Field: "body", Reason: fmt.Sprintf("is not valid JSON: %v", err)}
	}

	if ext.Title == "" {
		return domain.Annotation{}, &SchemaError{Field: "title", Reason: "is missing or empty"}
	}
	if ext.Subreddit == "" {
		return domain.Annotation{}, &SchemaError{Field: "subreddit", Reason: "is missing or empty"}
	}
	if ext.Category == "" {
		return domain.Annotation{}, &SchemaError{Field: "category", Reason: "is missing or empty"}
	}
	if ext.Summary == nil || *ext.Summary == "" {
		return domain.Annotation{}, &SchemaError{Field: "summary", Reason: "is missing or empty"}
	}
	if len(*ext.Summary) > maxSummaryLen {
		return domain.Annotation{}, &SchemaError{Field: "summary", Reason: fmt.Sprintf("exceeds %d characters", maxSummaryLen)}
	}
	if len(ext.Sentiment) == 0 {
		return domain.Annotation{}, &SchemaError{Field: "sentiment", Reason: "must contain at least one value"}
	}

	for field, values := range map[string][]string{
		"topics_discussed":   ext.TopicsDiscussed,
		"questions_requests": ext.QuestionsRequests,
		"keywords":           ext.Keywords,
		"sentiment":          ext.Sentiment,
		"actions_next_steps": ext.ActionsNextSteps,
	} {
		for _, value := range values {
			if value == "" {
				return domain.Annotation{}, &SchemaError{Field: field, Reason: "contains an empty tag"}
			}
		}
	}

	return domain.Annotation{
		Title:              ext.Title,
		Subreddit:          ext.Subreddit,
		Category:           ext.Category,
		Topics:             ext.TopicsDiscussed,
		Questions:          ext.QuestionsRequests,
		Keywords:           ext.Keywords,
		Sentiment:          ext.Sentiment,
		Actions:            ext.ActionsNextSteps,
		Summary:            *ext.Summary,
		SuggestedResponses: ext.SuggestedResponses,
	}, nil
}
