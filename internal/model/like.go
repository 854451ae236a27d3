package model

import (
	"errors"
	"time"
)

// Like is a hard row in the likes table; unliking deletes it.
// The (post_id, user_id) pair is unique, which is what makes the
// like operation idempotent under concurrent requests.
type Like struct {
	PostID    int64     `db:"post_id" json:"post_id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ErrNotLiked is returned when removing a like that does not exist
var ErrNotLiked = errors.New("post not liked")

// LikeStatus is the response for the per-post like check.
type LikeStatus struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"likeCount"`
}
