package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"moodring/internal/model"
)

type postRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) PostRepository {
	return &postRepository{db: db}
}

// postRowColumns is the shared projection for every joined listing query.
// Engagement is computed inline with three correlated subqueries; the
// viewer id feeds the user_has_liked check ($viewer placeholder is
// replaced with the right positional parameter per query).
const postRowColumns = `
	p.id, p.user_id, p.text, p.feeling_emoji, p.feeling_name, p.created_at, p.updated_at,
	u.username AS author_username,
	u.display_name AS author_display_name,
	u.avatar_url AS author_avatar_url,
	(SELECT COUNT(*) FROM likes l WHERE l.post_id = p.id) AS like_count,
	(SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id AND c.is_deleted = FALSE) AS comment_count,
	EXISTS(SELECT 1 FROM likes lv WHERE lv.post_id = p.id AND lv.user_id = %s) AS user_has_liked`

// Create inserts a new post. Text is validated upstream; feeling fields
// may both be nil.
func (r *postRepository) Create(ctx context.Context, userID int64, req *model.CreatePostRequest) (*model.Post, error) {
	query := `
		INSERT INTO posts (user_id, text, feeling_emoji, feeling_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id, user_id, text, feeling_emoji, feeling_name, created_at, updated_at, is_deleted
	`

	var post model.Post
	err := r.db.GetContext(ctx, &post, query, userID, req.Text, req.FeelingEmoji, req.FeelingName)
	if err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}

	return &post, nil
}

// GetByID retrieves a single live post in the bare row shape.
func (r *postRepository) GetByID(ctx context.Context, postID int64) (*model.Post, error) {
	query := `
		SELECT id, user_id, text, feeling_emoji, feeling_name, created_at, updated_at, is_deleted
		FROM posts
		WHERE id = $1 AND is_deleted = FALSE
	`

	var post model.Post
	err := r.db.GetContext(ctx, &post, query, postID)
	if err == sql.ErrNoRows {
		return nil, model.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}

	return &post, nil
}

// GetRowByID retrieves a single live post with author and viewer-scoped
// stats joined in. The author join is LEFT so a missing or deactivated
// author still yields the post (with null author columns).
func (r *postRepository) GetRowByID(ctx context.Context, postID, viewerID int64) (*model.PostRow, error) {
	query := fmt.Sprintf(`
		SELECT `+postRowColumns+`
		FROM posts p
		LEFT JOIN users u ON u.id = p.user_id AND u.is_active = TRUE
		WHERE p.id = $1 AND p.is_deleted = FALSE
	`, "$2")

	var row model.PostRow
	err := r.db.GetContext(ctx, &row, query, postID, viewerID)
	if err == sql.ErrNoRows {
		return nil, model.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get post row: %w", err)
	}

	return &row, nil
}

// GetEngagement computes stats for one post in a single follow-up query.
// A viewerID of 0 means anonymous: user_has_liked is always false then.
func (r *postRepository) GetEngagement(ctx context.Context, postID, viewerID int64) (model.EngagementStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM likes l WHERE l.post_id = $1) AS like_count,
			(SELECT COUNT(*) FROM comments c WHERE c.post_id = $1 AND c.is_deleted = FALSE) AS comment_count,
			EXISTS(SELECT 1 FROM likes lv WHERE lv.post_id = $1 AND lv.user_id = $2) AS user_has_liked
	`

	var stats model.EngagementStats
	err := r.db.GetContext(ctx, &stats, query, postID, viewerID)
	if err != nil {
		return model.EngagementStats{}, fmt.Errorf("get engagement: %w", err)
	}

	return stats, nil
}

// ListFeed returns the viewer's feed page: live posts from active
// followed authors (plus the viewer's own when IncludeOwn), within the
// trailing window, newest first with id as the deterministic tiebreak.
// Callers must Normalize the query first.
func (r *postRepository) ListFeed(ctx context.Context, q model.FeedQuery) ([]model.PostRow, error) {
	authorPredicate := `p.user_id IN (SELECT f.following_id FROM follows f WHERE f.follower_id = $1)`
	if q.IncludeOwn {
		authorPredicate = `(` + authorPredicate + ` OR p.user_id = $1)`
	}

	query := fmt.Sprintf(`
		SELECT `+postRowColumns+`
		FROM posts p
		JOIN users u ON u.id = p.user_id
		WHERE p.is_deleted = FALSE
		  AND u.is_active = TRUE
		  AND p.created_at >= NOW() - ($2 * INTERVAL '1 day')
		  AND `+authorPredicate+`
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $3 OFFSET $4
	`, "$1")

	rows := []model.PostRow{}
	err := r.db.SelectContext(ctx, &rows, query, q.ViewerID, q.Days, q.Limit, q.Offset)
	if err != nil {
		return nil, fmt.Errorf("list feed: %w", err)
	}

	return rows, nil
}

// ListRecent returns the global listing of live posts, newest first.
func (r *postRepository) ListRecent(ctx context.Context, viewerID int64, limit, offset int) ([]model.PostRow, error) {
	query := fmt.Sprintf(`
		SELECT `+postRowColumns+`
		FROM posts p
		JOIN users u ON u.id = p.user_id
		WHERE p.is_deleted = FALSE AND u.is_active = TRUE
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $2 OFFSET $3
	`, "$1")

	rows := []model.PostRow{}
	err := r.db.SelectContext(ctx, &rows, query, viewerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list recent posts: %w", err)
	}

	return rows, nil
}

// ListByUser returns one user's live posts, newest first.
func (r *postRepository) ListByUser(ctx context.Context, userID, viewerID int64, limit, offset int) ([]model.PostRow, error) {
	query := fmt.Sprintf(`
		SELECT `+postRowColumns+`
		FROM posts p
		LEFT JOIN users u ON u.id = p.user_id AND u.is_active = TRUE
		WHERE p.user_id = $2 AND p.is_deleted = FALSE
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $3 OFFSET $4
	`, "$1")

	rows := []model.PostRow{}
	err := r.db.SelectContext(ctx, &rows, query, viewerID, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list posts by user: %w", err)
	}

	return rows, nil
}

// Update edits a post's text and feeling. Ownership is enforced in the
// same statement; a zero-row result is disambiguated afterwards.
func (r *postRepository) Update(ctx context.Context, postID, userID int64, req *model.UpdatePostRequest) (*model.Post, error) {
	query := `
		UPDATE posts
		SET text = $3, feeling_emoji = $4, feeling_name = $5, updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND is_deleted = FALSE
		RETURNING id, user_id, text, feeling_emoji, feeling_name, created_at, updated_at, is_deleted
	`

	var post model.Post
	err := r.db.GetContext(ctx, &post, query, postID, userID, req.Text, req.FeelingEmoji, req.FeelingName)
	if err == sql.ErrNoRows {
		var exists bool
		r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM posts WHERE id = $1 AND is_deleted = FALSE)`, postID)
		if exists {
			return nil, model.ErrNotPostOwner
		}
		return nil, model.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}

	return &post, nil
}

// SoftDelete flips is_deleted; likes and comment rows stay where they are.
func (r *postRepository) SoftDelete(ctx context.Context, postID, userID int64) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE posts SET is_deleted = TRUE, updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND is_deleted = FALSE
	`, postID, userID)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		var exists bool
		r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM posts WHERE id = $1 AND is_deleted = FALSE)`, postID)
		if exists {
			return model.ErrNotPostOwner
		}
		return model.ErrPostNotFound
	}

	return nil
}

// GetAuthorID returns the author of a post (for event publishing).
func (r *postRepository) GetAuthorID(ctx context.Context, postID int64) (int64, error) {
	var authorID int64
	err := r.db.GetContext(ctx, &authorID, `SELECT user_id FROM posts WHERE id = $1 AND is_deleted = FALSE`, postID)
	if err == sql.ErrNoRows {
		return 0, model.ErrPostNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("get author id: %w", err)
	}
	return authorID, nil
}

// Exists checks if a post exists and is not deleted.
func (r *postRepository) Exists(ctx context.Context, postID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM posts WHERE id = $1 AND is_deleted = FALSE)`, postID)
	if err != nil {
		return false, fmt.Errorf("check post exists: %w", err)
	}
	return exists, nil
}
