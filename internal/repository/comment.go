package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"moodring/internal/model"
)

type commentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create inserts a new comment on a live post.
func (r *commentRepository) Create(ctx context.Context, postID, userID int64, text string) (*model.Comment, error) {
	query := `
		INSERT INTO comments (post_id, user_id, text, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING id, post_id, user_id, text, created_at, updated_at, is_deleted
	`
	var comment model.Comment
	err := r.db.GetContext(ctx, &comment, query, postID, userID, text)
	if err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	return &comment, nil
}

// GetByID retrieves a single live comment.
func (r *commentRepository) GetByID(ctx context.Context, commentID int64) (*model.Comment, error) {
	query := `
		SELECT id, post_id, user_id, text, created_at, updated_at, is_deleted
		FROM comments
		WHERE id = $1 AND is_deleted = FALSE
	`
	var comment model.Comment
	err := r.db.GetContext(ctx, &comment, query, commentID)
	if err == sql.ErrNoRows {
		return nil, model.ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return &comment, nil
}

// ListByPost returns live comments on a post, oldest first, with the
// author joined in. The LEFT join keeps comments whose author row is
// gone or deactivated.
func (r *commentRepository) ListByPost(ctx context.Context, postID int64, limit, offset int) ([]model.CommentRow, error) {
	query := `
		SELECT c.id, c.post_id, c.user_id, c.text, c.created_at, c.updated_at,
		       u.username AS author_username,
		       u.display_name AS author_display_name,
		       u.avatar_url AS author_avatar_url
		FROM comments c
		LEFT JOIN users u ON u.id = c.user_id AND u.is_active = TRUE
		WHERE c.post_id = $1 AND c.is_deleted = FALSE
		ORDER BY c.created_at ASC, c.id ASC
		LIMIT $2 OFFSET $3
	`

	rows := []model.CommentRow{}
	err := r.db.SelectContext(ctx, &rows, query, postID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("get comments: %w", err)
	}

	return rows, nil
}

// Update edits a comment's text. Only the owner can update.
func (r *commentRepository) Update(ctx context.Context, commentID, userID int64, text string) (*model.Comment, error) {
	query := `
		UPDATE comments
		SET text = $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3 AND is_deleted = FALSE
		RETURNING id, post_id, user_id, text, created_at, updated_at, is_deleted
	`
	var comment model.Comment
	err := r.db.GetContext(ctx, &comment, query, text, commentID, userID)
	if err == sql.ErrNoRows {
		var exists bool
		r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM comments WHERE id = $1 AND is_deleted = FALSE)`, commentID)
		if exists {
			return nil, model.ErrNotCommentOwner
		}
		return nil, model.ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}
	return &comment, nil
}

// SoftDelete flips is_deleted on a comment, which removes it from
// listings and from every commentCount from that point on. Only the
// owner can delete.
func (r *commentRepository) SoftDelete(ctx context.Context, commentID, userID int64) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE comments SET is_deleted = TRUE, updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND is_deleted = FALSE
	`, commentID, userID)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		var exists bool
		r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM comments WHERE id = $1 AND is_deleted = FALSE)`, commentID)
		if exists {
			return model.ErrNotCommentOwner
		}
		return model.ErrCommentNotFound
	}

	return nil
}
