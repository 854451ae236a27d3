package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"moodring/internal/model"
)

type followRepository struct {
	db *sqlx.DB
}

func NewFollowRepository(db *sqlx.DB) FollowRepository {
	return &followRepository{db: db}
}

// Create inserts a follow edge. The unique constraint is the single
// source of truth for "already following": no pre-check, the conflict
// outcome decides.
func (r *followRepository) Create(ctx context.Context, followerID, followingID int64) (bool, error) {
	query := `
		INSERT INTO follows (follower_id, following_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (follower_id, following_id) DO NOTHING
	`
	result, err := r.db.ExecContext(ctx, query, followerID, followingID)
	if err != nil {
		return false, fmt.Errorf("failed to create follow: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// Delete removes a follow edge; returns false when there was no edge.
func (r *followRepository) Delete(ctx context.Context, followerID, followingID int64) (bool, error) {
	query := `DELETE FROM follows WHERE follower_id = $1 AND following_id = $2`
	result, err := r.db.ExecContext(ctx, query, followerID, followingID)
	if err != nil {
		return false, fmt.Errorf("failed to delete follow: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows > 0, nil
}

func (r *followRepository) Exists(ctx context.Context, followerID, followingID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM follows WHERE follower_id = $1 AND following_id = $2)`
	var exists bool
	err := r.db.GetContext(ctx, &exists, query, followerID, followingID)
	if err != nil {
		return false, fmt.Errorf("failed to check follow existence: %w", err)
	}
	return exists, nil
}

// GetFollowers retrieves users who follow the specified user, most
// recent follow first.
func (r *followRepository) GetFollowers(ctx context.Context, userID int64, limit, offset int) ([]model.UserSummary, error) {
	query := `
		SELECT u.id, u.username, u.display_name, u.avatar_url
		FROM follows f
		JOIN users u ON u.id = f.follower_id
		WHERE f.following_id = $1 AND u.is_active = TRUE
		ORDER BY f.created_at DESC
		LIMIT $2 OFFSET $3
	`

	users := []model.UserSummary{}
	err := r.db.SelectContext(ctx, &users, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get followers: %w", err)
	}

	return users, nil
}

// GetFollowing retrieves users that the specified user follows, most
// recent follow first.
func (r *followRepository) GetFollowing(ctx context.Context, userID int64, limit, offset int) ([]model.UserSummary, error) {
	query := `
		SELECT u.id, u.username, u.display_name, u.avatar_url
		FROM follows f
		JOIN users u ON u.id = f.following_id
		WHERE f.follower_id = $1 AND u.is_active = TRUE
		ORDER BY f.created_at DESC
		LIMIT $2 OFFSET $3
	`

	users := []model.UserSummary{}
	err := r.db.SelectContext(ctx, &users, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get following: %w", err)
	}

	return users, nil
}
