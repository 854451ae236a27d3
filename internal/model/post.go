package model

import (
	"errors"
	"time"
)

// Post represents a bare posts-table row, with no author or engagement
// data attached. Reads that only touch the posts table produce this shape.
type Post struct {
	ID           int64     `db:"id" json:"id"`
	UserID       int64     `db:"user_id" json:"user_id"`
	Text         string    `db:"text" json:"text"`
	FeelingEmoji *string   `db:"feeling_emoji" json:"feeling_emoji"`
	FeelingName  *string   `db:"feeling_name" json:"feeling_name"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
	IsDeleted    bool      `db:"is_deleted" json:"-"`
}

// PostRow is the flat shape produced by listing queries that join the
// author and compute engagement in the same statement. Author columns
// are nullable: the join may miss when the author row is gone.
type PostRow struct {
	ID           int64     `db:"id"`
	UserID       int64     `db:"user_id"`
	Text         string    `db:"text"`
	FeelingEmoji *string   `db:"feeling_emoji"`
	FeelingName  *string   `db:"feeling_name"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`

	AuthorUsername    *string `db:"author_username"`
	AuthorDisplayName *string `db:"author_display_name"`
	AuthorAvatarURL   *string `db:"author_avatar_url"`

	LikeCount    int  `db:"like_count"`
	CommentCount int  `db:"comment_count"`
	UserHasLiked bool `db:"user_has_liked"`
}

// EngagementStats holds the computed counters attached to a post for a
// particular viewer. UserHasLiked is always false for anonymous viewers.
type EngagementStats struct {
	LikeCount    int  `db:"like_count" json:"likeCount"`
	CommentCount int  `db:"comment_count" json:"commentCount"`
	UserHasLiked bool `db:"user_has_liked" json:"userHasLiked"`
}

// PostAuthor is the author sub-object of the canonical post payload.
type PostAuthor struct {
	ID          int64   `json:"id"`
	Username    string  `json:"username"`
	DisplayName *string `json:"displayName"`
	AvatarURL   *string `json:"avatarUrl"`
}

// PostDTO is the canonical post payload every post-bearing endpoint
// returns, regardless of which row shape the read produced.
type PostDTO struct {
	ID           int64           `json:"id"`
	Text         string          `json:"text"`
	FeelingEmoji *string         `json:"feelingEmoji"`
	FeelingName  *string         `json:"feelingName"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
	Author       PostAuthor      `json:"author"`
	Stats        EngagementStats `json:"stats"`
}

// CreatePostRequest is the request body for creating a post.
type CreatePostRequest struct {
	Text         string  `json:"text"`
	FeelingEmoji *string `json:"feeling_emoji"`
	FeelingName  *string `json:"feeling_name"`
}

// UpdatePostRequest is the request body for editing a post.
type UpdatePostRequest struct {
	Text         string  `json:"text"`
	FeelingEmoji *string `json:"feeling_emoji"`
	FeelingName  *string `json:"feeling_name"`
}

// PostListResponse is the paginated post list response.
type PostListResponse struct {
	Posts   []PostDTO `json:"posts"`
	Limit   int       `json:"limit"`
	Offset  int       `json:"offset"`
	HasMore bool      `json:"hasMore"`
}

const (
	MaxPostTextLength = 2000
)

// Post errors
var (
	ErrPostNotFound = errors.New("post not found")
	ErrNotPostOwner = errors.New("not the owner of this post")
	ErrTextRequired = errors.New("post text is required")
	ErrTextTooLong  = errors.New("post text too long")
)
