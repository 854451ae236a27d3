package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"moodring/internal/model"
)

// userRepository implements UserRepository using sqlx
type userRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user into the database
func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	query := `
		INSERT INTO users (username, email, password_hashed, display_name, bio, avatar_url, avatar_key, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE, NOW(), NOW())
		RETURNING id, is_active, created_at, updated_at
	`

	row := r.db.QueryRowxContext(ctx, query,
		u.Username,
		u.Email,
		u.PasswordHashed,
		u.DisplayName,
		u.Bio,
		u.AvatarURL,
		u.AvatarKey,
	)

	err := row.Scan(
		&u.ID,
		&u.IsActive,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// GetByID retrieves an active user by their ID
func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `
		SELECT id, username, email, password_hashed, display_name, bio, avatar_url, avatar_key, is_active, created_at, updated_at
		FROM users
		WHERE id = $1 AND is_active = TRUE
	`

	var u model.User
	err := r.db.GetContext(ctx, &u, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return &u, nil
}

// GetByUsername retrieves an active user by their username
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `
		SELECT id, username, email, password_hashed, display_name, bio, avatar_url, avatar_key, is_active, created_at, updated_at
		FROM users
		WHERE username = $1 AND is_active = TRUE
	`

	var u model.User
	err := r.db.GetContext(ctx, &u, query, username)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	return &u, nil
}

// ExistsByUsername checks if a username is already taken
func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, username)
	if err != nil {
		return false, fmt.Errorf("failed to check username existence: %w", err)
	}

	return exists, nil
}

// ExistsByEmail checks if an email is already registered
func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, email)
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}

	return exists, nil
}

// UpdateProfile applies the non-nil fields and returns the fresh row.
// COALESCE keeps untouched columns as they were.
func (r *userRepository) UpdateProfile(ctx context.Context, id int64, req *model.UpdateProfileRequest) (*model.User, error) {
	query := `
		UPDATE users
		SET display_name = COALESCE($2, display_name),
		    bio = COALESCE($3, bio),
		    updated_at = NOW()
		WHERE id = $1 AND is_active = TRUE
		RETURNING id, username, email, password_hashed, display_name, bio, avatar_url, avatar_key, is_active, created_at, updated_at
	`

	var u model.User
	err := r.db.GetContext(ctx, &u, query, id, req.DisplayName, req.Bio)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return &u, nil
}

// UpdateAvatar stores the new avatar location on the user row
func (r *userRepository) UpdateAvatar(ctx context.Context, id int64, avatarURL, avatarKey string) error {
	query := `
		UPDATE users
		SET avatar_url = $2, avatar_key = $3, updated_at = NOW()
		WHERE id = $1 AND is_active = TRUE
	`

	result, err := r.db.ExecContext(ctx, query, id, avatarURL, avatarKey)
	if err != nil {
		return fmt.Errorf("failed to update avatar: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check avatar update: %w", err)
	}
	if rows == 0 {
		return model.ErrUserNotFound
	}

	return nil
}

func (r *userRepository) Search(ctx context.Context, query string, limit int) ([]model.UserSummary, error) {
	searchQuery := `
		SELECT id, username, display_name, avatar_url
		FROM users
		WHERE username ILIKE $1 AND is_active = TRUE
		ORDER BY username ASC
		LIMIT $2
	`

	users := []model.UserSummary{}
	err := r.db.SelectContext(ctx, &users, searchQuery, escapeLikePattern(query)+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}

	return users, nil
}

// escapeLikePattern neutralizes LIKE metacharacters in user input so a
// search for "%" or "_" matches those literal characters instead of
// acting as a wildcard.
func escapeLikePattern(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// GetProfileCounts counts follower/following edges and live posts for a profile
func (r *userRepository) GetProfileCounts(ctx context.Context, userID int64) (int, int, int, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM follows WHERE following_id = $1) AS follower_count,
			(SELECT COUNT(*) FROM follows WHERE follower_id = $1) AS following_count,
			(SELECT COUNT(*) FROM posts WHERE user_id = $1 AND is_deleted = FALSE) AS post_count
	`

	var counts struct {
		FollowerCount  int `db:"follower_count"`
		FollowingCount int `db:"following_count"`
		PostCount      int `db:"post_count"`
	}
	err := r.db.GetContext(ctx, &counts, query, userID)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to get profile counts: %w", err)
	}

	return counts.FollowerCount, counts.FollowingCount, counts.PostCount, nil
}
