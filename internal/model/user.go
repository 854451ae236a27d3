package model

import (
	"errors"
	"time"
)

// User represents a user in the system
type User struct {
	ID             int64     `db:"id" json:"id"`
	Username       string    `db:"username" json:"username"`
	Email          string    `db:"email" json:"email"`
	PasswordHashed string    `db:"password_hashed" json:"-"` // "-" hides from JSON output
	DisplayName    *string   `db:"display_name" json:"display_name"`
	Bio            *string   `db:"bio" json:"bio"`
	AvatarURL      *string   `db:"avatar_url" json:"avatar_url"`
	AvatarKey      *string   `db:"avatar_key" json:"-"`
	IsActive       bool      `db:"is_active" json:"-"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// UserSummary is the public author card used in lists and sub-objects.
type UserSummary struct {
	ID          int64   `db:"id" json:"id"`
	Username    string  `db:"username" json:"username"`
	DisplayName *string `db:"display_name" json:"displayName"`
	AvatarURL   *string `db:"avatar_url" json:"avatarUrl"`
}

// UserProfile is a full profile view with computed counts and the
// viewer relationship. IsFollowing stays null when the viewer is
// anonymous or is looking at their own profile.
type UserProfile struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	DisplayName    *string   `json:"displayName"`
	Bio            *string   `json:"bio"`
	AvatarURL      *string   `json:"avatarUrl"`
	CreatedAt      time.Time `json:"createdAt"`
	FollowerCount  int       `json:"followerCount"`
	FollowingCount int       `json:"followingCount"`
	PostCount      int       `json:"postCount"`
	IsFollowing    *bool     `json:"isFollowing"`
}

// UnknownUsername is the placeholder shown when a post's author row
// is missing or inactive. A broken author never fails the response.
const UnknownUsername = "unknown"

// RegisterRequest represents the data needed to register a new user
type RegisterRequest struct {
	Username    string  `json:"username"`
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	DisplayName string  `json:"display_name"`
	AvatarURL   *string `json:"-"`
	AvatarKey   *string `json:"-"`
}

// LoginRequest represents the data needed to log in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UpdateProfileRequest is the request body for PUT /users/me.
// Nil fields are left untouched.
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name"`
	Bio         *string `json:"bio"`
}

const (
	MinUsernameLength = 3
	MaxUsernameLength = 30
	MinPasswordLength = 8
	MaxBioLength      = 500
	MaxSearchResults  = 20
)

var (
	// ErrUserNotFound is returned when a user cannot be found
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameExists is returned when attempting to create a user with a taken username
	ErrUsernameExists = errors.New("username already exists")

	// ErrEmailExists is returned when attempting to create a user with a taken email
	ErrEmailExists = errors.New("email already exists")

	// ErrInvalidCredentials is returned when login credentials are incorrect
	ErrInvalidCredentials = errors.New("invalid credentials")
)
