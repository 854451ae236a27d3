package model

import (
	"time"
)

// DeviceToken represents a user's registered device for push notifications.
// Tokens follow the device: re-registering an existing token reassigns it
// to the new user and reactivates it.
type DeviceToken struct {
	ID         int64     `db:"id" json:"id"`
	UserID     int64     `db:"user_id" json:"-"`
	Token      string    `db:"token" json:"-"` // FCM token, hidden from JSON
	Platform   string    `db:"platform" json:"platform"`
	IsActive   bool      `db:"is_active" json:"is_active"`
	LastSeenAt time.Time `db:"last_seen_at" json:"last_seen_at"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// RegisterTokenRequest is the request body for registering a device token.
type RegisterTokenRequest struct {
	Token    string `json:"token"`
	Platform string `json:"platform"` // "ios" or "android"
}

// DeleteTokenRequest is the request body for removing a device token.
type DeleteTokenRequest struct {
	Token string `json:"token"`
}

// PushResult summarizes a multicast push attempt.
type PushResult struct {
	Attempted    int `json:"attempted"`
	SuccessCount int `json:"successCount"`
	FailureCount int `json:"failureCount"`
}

// Platform constants
const (
	PlatformIOS     = "ios"
	PlatformAndroid = "android"
)
