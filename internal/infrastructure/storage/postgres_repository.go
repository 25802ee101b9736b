package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"RedditPulse/internal/domain"
	"RedditPulse/internal/ports"
)

// tagSeparator joins multi-valued sentiment/action tags onto the post row.
const tagSeparator = ", "

// PostgresRepository persists enriched posts into Postgres.
type PostgresRepository struct {
	db    *sql.DB
	newID func() string
}

var _ ports.PostRepository = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{
		db:    db,
		newID: func() string { return uuid.New().String() },
	}
}

// Exists reports whether a post with the given source id is already stored.
func (r *PostgresRepository) Exists(ctx context.Context, redditPostID string) (bool, error) {
	query, args, err := existsStmt(redditPostID)
	if err != nil {
		return false, fmt.Errorf("build exists query: %w", err)
	}

	var one int
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query post existence: %w", err)
	}
	return true, nil
}

// Save stores one annotation as a post with its owned topic and keyword
// children. The post row is inserted before any child so an interruption
// leaves a valid childless post, and re-saved at the end so its reference
// lists are complete. Losing the insert race to another sweep is a no-op.
func (r *PostgresRepository) Save(ctx context.Context, ann domain.Annotation) error {
	if err := r.getOrCreateUser(ctx, ann); err != nil {
		return err
	}

	inserted, err := r.insertPost(ctx, ann)
	if err != nil {
		return err
	}
	if !inserted {
		// Another writer already stored this post; its children belong to it.
		return nil
	}

	topicIDs, err := r.insertTopics(ctx, ann)
	if err != nil {
		return err
	}

	keywordIDs, err := r.insertKeywords(ctx, ann)
	if err != nil {
		return err
	}

	return r.attachChildren(ctx, ann.RedditPostID, topicIDs, keywordIDs)
}

// getOrCreateUser records an author on first encounter and never mutates the
// existing row afterwards.
func (r *PostgresRepository) getOrCreateUser(ctx context.Context, ann domain.Annotation) error {
	query, args, err := insertUserStmt(ann)
	if err != nil {
		return fmt.Errorf("build user insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert user %s: %w", ann.RedditUserID, err)
	}
	return nil
}

func (r *PostgresRepository) insertPost(ctx context.Context, ann domain.Annotation) (bool, error) {
	query, args, err := insertPostStmt(ann)
	if err != nil {
		return false, fmt.Errorf("build post insert: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("insert post %s: %w", ann.RedditPostID, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("post insert result: %w", err)
	}
	return rows > 0, nil
}

func (r *PostgresRepository) insertTopics(ctx context.Context, ann domain.Annotation) ([]string, error) {
	ids := make([]string, 0, len(ann.Topics))
	for _, topic := range ann.Topics {
		id := r.newID()
		query, args, err := insertTopicStmt(id, ann.RedditPostID, topic, ann)
		if err != nil {
			return nil, fmt.Errorf("build topic insert: %w", err)
		}
		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return nil, fmt.Errorf("insert topic for post %s: %w", ann.RedditPostID, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *PostgresRepository) insertKeywords(ctx context.Context, ann domain.Annotation) ([]string, error) {
	ids := make([]string, 0, len(ann.Keywords))
	for _, keyword := range ann.Keywords {
		id := r.newID()
		query, args, err := insertKeywordStmt(id, ann.RedditPostID, keyword, ann)
		if err != nil {
			return nil, fmt.Errorf("build keyword insert: %w", err)
		}
		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return nil, fmt.Errorf("insert keyword for post %s: %w", ann.RedditPostID, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *PostgresRepository) attachChildren(ctx context.Context, redditPostID string, topicIDs, keywordIDs []string) error {
	query, args, err := attachChildrenStmt(redditPostID, topicIDs, keywordIDs)
	if err != nil {
		return fmt.Errorf("build child attach: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("attach children to post %s: %w", redditPostID, err)
	}
	return nil
}

// DeletePost removes a post and cascades to its owned topics and keywords.
// The author's user row is never touched.
func (r *PostgresRepository) DeletePost(ctx context.Context, redditPostID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}

	for _, table := range []string{"topics", "keywords", "posts"} {
		query, args, buildErr := deleteByPostStmt(table, redditPostID)
		if buildErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("build delete from %s: %w", table, buildErr)
		}
		if _, execErr := tx.ExecContext(ctx, query, args...); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("delete from %s for post %s: %w", table, redditPostID, execErr)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete: %w", err)
	}
	return nil
}

// FindPost reads a stored post back by its source id.
func (r *PostgresRepository) FindPost(ctx context.Context, redditPostID string) (domain.StoredPost, error) {
	query, args, err := builder.
		Select("reddit_post_id", "subreddit", "category", "filter_type",
			"created_at", "scraped_at", "title", "content",
			"reddit_user_id", "sentiment", "action_type", "topic_ids", "keyword_ids").
		From("posts").
		Where(sq.Eq{"reddit_post_id": redditPostID}).
		ToSql()
	if err != nil {
		return domain.StoredPost{}, fmt.Errorf("build post query: %w", err)
	}

	var (
		post       domain.StoredPost
		content    sql.NullString
		sentiment  sql.NullString
		actionType sql.NullString
		topicIDs   pq.StringArray
		keywordIDs pq.StringArray
	)

	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&post.RedditPostID, &post.Subreddit, &post.Category, &post.FilterType,
		&post.CreatedAt, &post.ScrapedAt, &post.Title, &content,
		&post.RedditUserID, &sentiment, &actionType, &topicIDs, &keywordIDs,
	)
	if err != nil {
		return domain.StoredPost{}, fmt.Errorf("query post %s: %w", redditPostID, err)
	}

	post.Content = content.String
	post.Sentiment = sentiment.String
	post.ActionType = actionType.String
	post.TopicIDs = topicIDs
	post.KeywordIDs = keywordIDs
	return post, nil
}

// FindUser reads an author back by source user id.
func (r *PostgresRepository) FindUser(ctx context.Context, redditUserID string) (domain.User, error) {
	query, args, err := builder.
		Select("reddit_user_id", "username", "created_at").
		From("users").
		Where(sq.Eq{"reddit_user_id": redditUserID}).
		ToSql()
	if err != nil {
		return domain.User{}, fmt.Errorf("build user query: %w", err)
	}

	var user domain.User
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&user.RedditUserID, &user.Username, &user.CreatedAt)
	if err != nil {
		return domain.User{}, fmt.Errorf("query user %s: %w", redditUserID, err)
	}
	return user, nil
}

// TopicsFor lists the topic children owned by a post, in insertion order.
func (r *PostgresRepository) TopicsFor(ctx context.Context, redditPostID string) ([]domain.Topic, error) {
	query, args, err := builder.
		Select("id", "reddit_post_id", "topic", "created_at").
		From("topics").
		Where(sq.Eq{"reddit_post_id": redditPostID}).
		OrderBy("seq").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build topics query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query topics: %w", err)
	}
	defer rows.Close()

	var topics []domain.Topic
	for rows.Next() {
		var t domain.Topic
		if err := rows.Scan(&t.ID, &t.RedditPostID, &t.Topic, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan topic: %w", err)
		}
		topics = append(topics, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("topics iteration: %w", err)
	}
	return topics, nil
}

// KeywordsFor lists the keyword children owned by a post, in insertion order.
func (r *PostgresRepository) KeywordsFor(ctx context.Context, redditPostID string) ([]domain.Keyword, error) {
	query, args, err := builder.
		Select("id", "reddit_post_id", "keyword", "created_at").
		From("keywords").
		Where(sq.Eq{"reddit_post_id": redditPostID}).
		OrderBy("seq").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build keywords query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query keywords: %w", err)
	}
	defer rows.Close()

	var keywords []domain.Keyword
	for rows.Next() {
		var k domain.Keyword
		if err := rows.Scan(&k.ID, &k.RedditPostID, &k.Keyword, &k.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan keyword: %w", err)
		}
		keywords = append(keywords, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("keywords iteration: %w", err)
	}
	return keywords, nil
}

// JoinTags collapses an ordered tag list onto a single column value.
func JoinTags(tags []string) string {
	return strings.Join(tags, tagSeparator)
}

// SplitTags restores a joined column value to its tag list.
func SplitTags(joined string) []string {
	if joined == "" {
		return nil
	}
	return strings.Split(joined, tagSeparator)
}
