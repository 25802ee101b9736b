package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"RedditPulse/internal/config"
	"RedditPulse/internal/domain"
	"RedditPulse/internal/ports"
)

const systemPrompt = `You are an AI assistant tasked with extracting structured data from online Reddit posts.
You will be given a title, the full text of a post, the subreddit, and the category of the subreddit.
Analyze the post and extract:
1. All topics discussed.
2. All specific questions or requests made.
3. Relevant keywords and phrases.
4. Sentiment as a list of contextualized sentiments (for example: positive, negative, neutral, looking_for_help, angry, confused, excited, afraid, promoting).
5. Any explicit actions or next steps based on the content that one could react to.
6. A 75-word max summary of the post, written to help the author through their issue.
7. Up to 3 suggested responses that help the author if the sentiment shows they are looking for help.
Return the information strictly in the requested JSON structure.`

// Extractor implements ports.Annotator against an OpenAI-compatible
// chat-completions API with a JSON-schema constrained response.
type Extractor struct {
	endpoint string
	model    string
	apiKey   string
	http     *http.Client
	now      func() time.Time
}

var _ ports.Annotator = (*Extractor)(nil)

// NewExtractor builds an extractor from configuration.
func NewExtractor(cfg config.OpenAIConfig, client *http.Client) *Extractor {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &Extractor{
		endpoint: cfg.Endpoint,
		model:    cfg.Model,
		apiKey:   cfg.APIKey,
		http:     client,
		now:      time.Now,
	}
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Annotate sends one post to the model and returns the validated annotation,
// stamped with the extraction time.
func (e *Extractor) Annotate(ctx context.Context, title, content, subreddit, category string) (domain.Annotation, error) {
	if e.apiKey == "" || e.endpoint == "" || e.model == "" {
		return domain.Annotation{}, fmt.Errorf("extractor misconfigured")
	}

	body, err := json.Marshal(map[string]any{
		"model": e.model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": fmt.Sprintf("Title: %s\nContent: %s\nSubreddit: %s\nCategory: %s", title, content, subreddit, category)},
		},
		"response_format": responseFormat(),
	})
	if err != nil {
		return domain.Annotation{}, fmt.Errorf("marshal extraction payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.Annotation{}, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+e.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.http.Do(req)
	if err != nil {
		return domain.Annotation{}, fmt.Errorf("call extraction api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return domain.Annotation{}, fmt.Errorf("extraction api error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return domain.Annotation{}, fmt.Errorf("decode chat response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return domain.Annotation{}, &SchemaError{Field: "choices", Reason: "is empty"}
	}

	annotation, err := ParseAnnotation([]byte(chat.Choices[0].Message.Content))
	if err != nil {
		return domain.Annotation{}, err
	}

	annotation.ScrapedAt = e.now().UTC()
	return annotation, nil
}

func responseFormat() map[string]any {
	stringArray := map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "string"},
	}

	return map[string]any{
		"type": "json_schema",
		"json_schema": map[string]any{
			"name": "post_extraction_schema",
			"schema": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"title":               map[string]any{"type": "string"},
					"subreddit":           map[string]any{"type": "string"},
					"category":            map[string]any{"type": "string"},
					"topics_discussed":    stringArray,
					"questions_requests":  stringArray,
					"keywords":            stringArray,
					"sentiment":           stringArray,
					"actions_next_steps":  stringArray,
					"summary":             map[string]any{"type": "string"},
					"suggested_responses": stringArray,
				},
				"additionalProperties": false,
			},
		},
	}
}
