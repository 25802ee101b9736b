package telegram

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"RedditPulse/internal/domain"
	"RedditPulse/internal/ports"
)

// Telegram rejects messages longer than 4096 characters.
const maxMessageLen = 4096

// Notifier delivers annotation digests to Telegram chats via the bot API.
type Notifier struct {
	botToken string
	apiBase  string
	client   *http.Client
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier registers the bot token.
func NewNotifier(botToken string, client *http.Client) *Notifier {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return &Notifier{
		botToken: botToken,
		apiBase:  "https://api.telegram.org",
		client:   client,
	}
}

// Send formats the annotation as an HTML digest and posts it to the given chat.
func (n *Notifier) Send(ctx context.Context, chatID string, annotation domain.Annotation) error {
	if n.botToken == "" || chatID == "" {
		return fmt.Errorf("telegram notifier misconfigured")
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", n.apiBase, n.botToken)
	form := url.Values{}
	form.Set("chat_id", chatID)
	form.Set("text", FormatMessage(annotation))
	form.Set("parse_mode", "HTML")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram error: %s", resp.Status)
	}

	return nil
}

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// EscapeHTML makes raw post text safe for Telegram's HTML parse mode.
func EscapeHTML(text string) string {
	return htmlEscaper.Replace(text)
}

// FormatMessage renders one annotation as the per-post digest. Field values
// are escaped; the surrounding bold tags are ours.
func FormatMessage(ann domain.Annotation) string {
	suggested := "No response available"
	if len(ann.SuggestedResponses) > 0 {
		suggested = ann.SuggestedResponses[0]
	}

	postURL := fmt.Sprintf("https://www.reddit.com/r/%s/comments/%s", ann.Subreddit, EscapeHTML(ann.RedditPostID))

	render := func(summary string) string {
		return fmt.Sprintf(
			"<b>Title</b>: %s\n"+
				"<b>Topics</b>: %s\n"+
				"<b>Sentiment</b>: %s\n"+
				"<b>Action To Take</b>: %s\n"+
				"<b>Suggested Response</b>: %s\n"+
				"<b>Summary</b>: %s\n"+
				"<b>Post URL</b>: %s",
			EscapeHTML(ann.Title),
			EscapeHTML(strings.Join(ann.Topics, ", ")),
			EscapeHTML(strings.Join(ann.Sentiment, ", ")),
			EscapeHTML(strings.Join(ann.Actions, ", ")),
			EscapeHTML(suggested),
			EscapeHTML(summary),
			postURL,
		)
	}

	message := render(ann.Summary)
	if len(message) > maxMessageLen {
		// Shorten only the summary so the trailing URL and the surrounding
		// tags stay intact.
		message = render(trimTail(ann.Summary, len(message)-maxMessageLen))
	}
	if len(message) > maxMessageLen {
		message = trimTail(message, len(message)-maxMessageLen)
	}
	return message
}

// trimTail drops at least n bytes from the end of s without splitting a
// multi-byte rune.
func trimTail(s string, n int) string {
	keep := len(s) - n
	if keep <= 0 {
		return ""
	}
	for keep > 0 && !utf8.RuneStart(s[keep]) {
		keep--
	}
	return s[:keep]
}
