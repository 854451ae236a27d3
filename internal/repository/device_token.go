package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type deviceTokenRepository struct {
	db *sqlx.DB
}

func NewDeviceTokenRepository(db *sqlx.DB) DeviceTokenRepository {
	return &deviceTokenRepository{db: db}
}

// Upsert registers a device token. Tokens follow the device: if another
// account registered this token before, ownership moves to userID and
// the token is reactivated.
func (r *deviceTokenRepository) Upsert(ctx context.Context, userID int64, token, platform string) error {
	query := `
		INSERT INTO device_tokens (user_id, token, platform, is_active, last_seen_at, created_at)
		VALUES ($1, $2, $3, TRUE, NOW(), NOW())
		ON CONFLICT (token) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			platform = EXCLUDED.platform,
			is_active = TRUE,
			last_seen_at = NOW()
	`
	_, err := r.db.ExecContext(ctx, query, userID, token, platform)
	if err != nil {
		return fmt.Errorf("upsert device token: %w", err)
	}
	return nil
}

// GetActiveTokensByUserID returns the raw active FCM tokens for a user.
func (r *deviceTokenRepository) GetActiveTokensByUserID(ctx context.Context, userID int64) ([]string, error) {
	query := `
		SELECT token
		FROM device_tokens
		WHERE user_id = $1 AND is_active = TRUE
		ORDER BY last_seen_at DESC
	`
	tokens := []string{}
	err := r.db.SelectContext(ctx, &tokens, query, userID)
	if err != nil {
		return nil, fmt.Errorf("get device tokens: %w", err)
	}
	return tokens, nil
}

// Deactivate flags a token the push provider rejected as no longer
// registered. The row is kept for audit; it just stops receiving pushes.
func (r *deviceTokenRepository) Deactivate(ctx context.Context, token string) error {
	query := `UPDATE device_tokens SET is_active = FALSE WHERE token = $1`
	_, err := r.db.ExecContext(ctx, query, token)
	if err != nil {
		return fmt.Errorf("deactivate device token: %w", err)
	}
	return nil
}

// Delete removes a device token owned by the user.
func (r *deviceTokenRepository) Delete(ctx context.Context, userID int64, token string) error {
	query := `DELETE FROM device_tokens WHERE user_id = $1 AND token = $2`
	_, err := r.db.ExecContext(ctx, query, userID, token)
	if err != nil {
		return fmt.Errorf("delete device token: %w", err)
	}
	return nil
}
