package model

import (
	"errors"
	"time"
)

// Comment represents a comment on a post.
type Comment struct {
	ID        int64     `db:"id" json:"id"`
	PostID    int64     `db:"post_id" json:"post_id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Text      string    `db:"text" json:"text"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
	IsDeleted bool      `db:"is_deleted" json:"-"`
}

// CommentRow is the listing shape with the author joined in.
type CommentRow struct {
	ID        int64     `db:"id"`
	PostID    int64     `db:"post_id"`
	UserID    int64     `db:"user_id"`
	Text      string    `db:"text"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	AuthorUsername    *string `db:"author_username"`
	AuthorDisplayName *string `db:"author_display_name"`
	AuthorAvatarURL   *string `db:"author_avatar_url"`
}

// CommentDTO is the comment payload returned to clients.
type CommentDTO struct {
	ID        int64      `json:"id"`
	PostID    int64      `json:"postId"`
	Text      string     `json:"text"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	Author    PostAuthor `json:"author"`
}

// CreateCommentRequest is the request body for creating a comment.
type CreateCommentRequest struct {
	Text string `json:"text"`
}

const (
	MaxCommentLength = 1000
)

// Comment errors
var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrNotCommentOwner = errors.New("not the owner of this comment")
	ErrCommentRequired = errors.New("comment text is required")
	ErrCommentTooLong  = errors.New("comment text too long")
)
