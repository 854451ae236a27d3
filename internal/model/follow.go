package model

import (
	"errors"
	"time"
)

type Follow struct {
	FollowerID  int64     `db:"follower_id" json:"follower_id"`
	FollowingID int64     `db:"following_id" json:"following_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type FollowListResponse struct {
	Users   []UserSummary `json:"users"`
	HasMore bool          `json:"hasMore"`
}

var (
	ErrAlreadyFollowing = errors.New("already following this user")
	ErrNotFollowing     = errors.New("not following this user")
	ErrCannotFollowSelf = errors.New("cannot follow yourself")
)
