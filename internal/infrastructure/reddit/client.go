package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"RedditPulse/internal/config"
	"RedditPulse/internal/domain"
	"RedditPulse/internal/ports"
)

// Client pulls subreddit listings from the public JSON endpoints.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	limiter   *rate.Limiter
}

var _ ports.PostSource = (*Client)(nil)

// NewClient builds a listing client from configuration.
func NewClient(cfg config.RedditConfig, client *http.Client) *Client {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}

	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 60
	}

	return &Client{
		baseURL:   strings.TrimSuffix(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		http:      client,
		limiter:   rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), 1),
	}
}

// listing mirrors the envelope of /r/{subreddit}/{filter}.json.
type listing struct {
	Data struct {
		Children []struct {
			Data submission `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type submission struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	Selftext       string  `json:"selftext"`
	SelftextHTML   string  `json:"selftext_html"`
	Author         string  `json:"author"`
	AuthorFullname string  `json:"author_fullname"`
	Subreddit      string  `json:"subreddit"`
	CreatedUTC     float64 `json:"created_utc"`
}

// ListPosts fetches up to limit submissions from one subreddit listing.
// Deleted or suspended authors come back with empty author fields; callers
// decide the sentinel.
func (c *Client) ListPosts(ctx context.Context, subreddit string, filter domain.Filter, limit int) ([]domain.Post, error) {
	if subreddit == "" {
		return nil, fmt.Errorf("subreddit is required")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	listingURL, err := c.buildListingURL(subreddit, filter, limit)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, listingURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request listing: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reddit returned %s for r/%s", resp.Status, subreddit)
	}

	var payload listing
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode listing: %w", err)
	}

	posts := make([]domain.Post, 0, len(payload.Data.Children))
	for _, child := range payload.Data.Children {
		post := toPost(child.Data, subreddit)
		posts = append(posts, post)
		if len(posts) >= limit {
			break
		}
	}

	return posts, nil
}

func (c *Client) buildListingURL(subreddit string, filter domain.Filter, limit int) (string, error) {
	parsed, err := url.Parse(fmt.Sprintf("%s/r/%s/%s.json", c.baseURL, subreddit, filter))
	if err != nil {
		return "", fmt.Errorf("invalid listing url for r/%s: %w", subreddit, err)
	}

	query := parsed.Query()
	query.Set("limit", strconv.Itoa(limit))
	query.Set("raw_json", "1")
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}

func toPost(sub submission, subreddit string) domain.Post {
	author := sub.Author
	if author == "[deleted]" {
		author = ""
	}

	// Suspended accounts keep their username in listings but lose the
	// fullname. Blank both halves so the pair is always complete or empty.
	authorID := sub.AuthorFullname
	if author == "" || authorID == "" {
		author, authorID = "", ""
	}

	name := sub.Subreddit
	if name == "" {
		name = subreddit
	}

	return domain.Post{
		ID:        sub.ID,
		Title:     sub.Title,
		Content:   bodyText(sub),
		AuthorID:  authorID,
		Author:    author,
		Subreddit: name,
		CreatedAt: time.Unix(int64(sub.CreatedUTC), 0).UTC(),
	}
}

// bodyText prefers the markdown selftext; crossposted and media submissions
// sometimes carry only the rendered HTML variant.
func bodyText(sub submission) string {
	if strings.TrimSpace(sub.Selftext) != "" {
		return sub.Selftext
	}
	if sub.SelftextHTML == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(sub.SelftextHTML))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Text())
}
