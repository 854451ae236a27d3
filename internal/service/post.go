package service

import (
	"context"
	"fmt"
	"strings"

	"moodring/internal/model"
	"moodring/internal/repository"
)

const (
	PostDefaultLimit = 20
	PostMaxLimit     = 100
)

type PostService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	formatter   *PostFormatter
}

func NewPostService(
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	formatter *PostFormatter,
) *PostService {
	return &PostService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		formatter:   formatter,
	}
}

// PostDetail is a single post with its comment thread.
type PostDetail struct {
	Post     model.PostDTO      `json:"post"`
	Comments []model.CommentDTO `json:"comments"`
}

// Create validates and stores a new post, then formats it for the
// response via the bare-post path (the insert returns no author or
// stats; a fresh post's stats are necessarily zero, but the follow-up
// query keeps one formatting path for all bare rows).
func (s *PostService) Create(ctx context.Context, userID int64, req *model.CreatePostRequest) (*model.PostDTO, error) {
	req.Text = strings.TrimSpace(req.Text)
	if err := validatePostText(req.Text, req.FeelingEmoji, req.FeelingName); err != nil {
		return nil, err
	}

	post, err := s.postRepo.Create(ctx, userID, req)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	dto, err := s.formatter.FormatPost(ctx, post, userID)
	if err != nil {
		return nil, err
	}
	return &dto, nil
}

// GetByID retrieves a single post with its comments. viewerID 0 means
// anonymous: userHasLiked comes back false.
func (s *PostService) GetByID(ctx context.Context, postID, viewerID int64) (*PostDetail, error) {
	row, err := s.postRepo.GetRowByID(ctx, postID, viewerID)
	if err != nil {
		return nil, err
	}

	commentRows, err := s.commentRepo.ListByPost(ctx, postID, PostMaxLimit, 0)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	return &PostDetail{
		Post:     s.formatter.FormatRow(row),
		Comments: s.formatter.FormatCommentRows(commentRows),
	}, nil
}

// List returns the global listing of recent posts.
func (s *PostService) List(ctx context.Context, viewerID int64, limit, offset int) (*model.PostListResponse, error) {
	limit, offset = clampPage(limit, offset)

	rows, err := s.postRepo.ListRecent(ctx, viewerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	posts := s.formatter.FormatRows(rows)
	return &model.PostListResponse{
		Posts:   posts,
		Limit:   limit,
		Offset:  offset,
		HasMore: len(posts) == limit,
	}, nil
}

// ListByUser returns one user's posts.
func (s *PostService) ListByUser(ctx context.Context, userID, viewerID int64, limit, offset int) (*model.PostListResponse, error) {
	limit, offset = clampPage(limit, offset)

	rows, err := s.postRepo.ListByUser(ctx, userID, viewerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list posts by user: %w", err)
	}

	posts := s.formatter.FormatRows(rows)
	return &model.PostListResponse{
		Posts:   posts,
		Limit:   limit,
		Offset:  offset,
		HasMore: len(posts) == limit,
	}, nil
}

// Update edits the caller's own post.
func (s *PostService) Update(ctx context.Context, postID, userID int64, req *model.UpdatePostRequest) (*model.PostDTO, error) {
	req.Text = strings.TrimSpace(req.Text)
	if err := validatePostText(req.Text, req.FeelingEmoji, req.FeelingName); err != nil {
		return nil, err
	}

	post, err := s.postRepo.Update(ctx, postID, userID, req)
	if err != nil {
		return nil, err
	}

	dto, err := s.formatter.FormatPost(ctx, post, userID)
	if err != nil {
		return nil, err
	}
	return &dto, nil
}

// Delete soft-deletes the caller's own post. Likes and comments stay in
// place; the post simply stops appearing anywhere.
func (s *PostService) Delete(ctx context.Context, postID, userID int64) error {
	return s.postRepo.SoftDelete(ctx, postID, userID)
}

func validatePostText(text string, emoji, name *string) error {
	if text == "" {
		return model.ErrTextRequired
	}
	if len(text) > model.MaxPostTextLength {
		return model.ErrTextTooLong
	}
	// A feeling is emoji+name together or nothing
	if (emoji == nil) != (name == nil) {
		return fmt.Errorf("feeling_emoji and feeling_name must both be provided or both omitted")
	}
	return nil
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = PostDefaultLimit
	}
	if limit > PostMaxLimit {
		limit = PostMaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
