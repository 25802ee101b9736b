package storage

import (
	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"RedditPulse/internal/domain"
)

var builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func existsStmt(redditPostID string) (string, []interface{}, error) {
	return builder.
		Select("1").
		From("posts").
		Where(sq.Eq{"reddit_post_id": redditPostID}).
		ToSql()
}

func insertUserStmt(ann domain.Annotation) (string, []interface{}, error) {
	return builder.
		Insert("users").
		Columns("reddit_user_id", "username", "created_at").
		Values(ann.RedditUserID, ann.Username, ann.ScrapedAt).
		Suffix("ON CONFLICT (reddit_user_id) DO NOTHING").
		ToSql()
}

func insertPostStmt(ann domain.Annotation) (string, []interface{}, error) {
	return builder.
		Insert("posts").
		Columns("reddit_post_id", "subreddit", "category", "filter_type",
			"created_at", "scraped_at", "title", "content",
			"reddit_user_id", "sentiment", "action_type").
		Values(ann.RedditPostID, ann.Subreddit, ann.Category, ann.FilterType,
			ann.TimeCreated, ann.ScrapedAt, ann.Title, ann.Content,
			ann.RedditUserID, JoinTags(ann.Sentiment), JoinTags(ann.Actions)).
		Suffix("ON CONFLICT (reddit_post_id) DO NOTHING").
		ToSql()
}

func insertTopicStmt(id, redditPostID, topic string, ann domain.Annotation) (string, []interface{}, error) {
	return builder.
		Insert("topics").
		Columns("id", "reddit_post_id", "topic", "created_at").
		Values(id, redditPostID, topic, ann.ScrapedAt).
		ToSql()
}

func insertKeywordStmt(id, redditPostID, keyword string, ann domain.Annotation) (string, []interface{}, error) {
	return builder.
		Insert("keywords").
		Columns("id", "reddit_post_id", "keyword", "created_at").
		Values(id, redditPostID, keyword, ann.ScrapedAt).
		ToSql()
}

func attachChildrenStmt(redditPostID string, topicIDs, keywordIDs []string) (string, []interface{}, error) {
	return builder.
		Update("posts").
		Set("topic_ids", pq.StringArray(topicIDs)).
		Set("keyword_ids", pq.StringArray(keywordIDs)).
		Where(sq.Eq{"reddit_post_id": redditPostID}).
		ToSql()
}

func deleteByPostStmt(table, redditPostID string) (string, []interface{}, error) {
	return builder.
		Delete(table).
		Where(sq.Eq{"reddit_post_id": redditPostID}).
		ToSql()
}
