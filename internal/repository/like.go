package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"moodring/internal/model"
)

type likeRepository struct {
	db *sqlx.DB
}

func NewLikeRepository(db *sqlx.DB) LikeRepository {
	return &likeRepository{db: db}
}

// Create inserts a like. The unique (post_id, user_id) constraint makes
// this idempotent: a duplicate insert affects zero rows and returns
// false, no matter how the concurrent race interleaved.
func (r *likeRepository) Create(ctx context.Context, postID, userID int64) (bool, error) {
	query := `
		INSERT INTO likes (post_id, user_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (post_id, user_id) DO NOTHING
	`
	result, err := r.db.ExecContext(ctx, query, postID, userID)
	if err != nil {
		return false, fmt.Errorf("insert like: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// Delete removes a like; returns false when there was nothing to remove.
func (r *likeRepository) Delete(ctx context.Context, postID, userID int64) (bool, error) {
	query := `DELETE FROM likes WHERE post_id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, postID, userID)
	if err != nil {
		return false, fmt.Errorf("delete like: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *likeRepository) Exists(ctx context.Context, postID, userID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM likes WHERE post_id = $1 AND user_id = $2)`
	var exists bool
	err := r.db.GetContext(ctx, &exists, query, postID, userID)
	if err != nil {
		return false, fmt.Errorf("check like existence: %w", err)
	}
	return exists, nil
}

func (r *likeRepository) CountByPost(ctx context.Context, postID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM likes WHERE post_id = $1`, postID)
	if err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}
	return count, nil
}

// GetPostLikers returns users who liked a post, most recent like first.
func (r *likeRepository) GetPostLikers(ctx context.Context, postID int64, limit, offset int) ([]model.UserSummary, error) {
	query := `
		SELECT u.id, u.username, u.display_name, u.avatar_url
		FROM likes l
		JOIN users u ON u.id = l.user_id
		WHERE l.post_id = $1 AND u.is_active = TRUE
		ORDER BY l.created_at DESC
		LIMIT $2 OFFSET $3
	`

	users := []model.UserSummary{}
	err := r.db.SelectContext(ctx, &users, query, postID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("get post likers: %w", err)
	}

	return users, nil
}
