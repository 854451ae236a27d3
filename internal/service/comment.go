package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"moodring/internal/model"
	"moodring/internal/queue"
	"moodring/internal/repository"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	formatter   *PostFormatter
	publisher   queue.Publisher
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	formatter *PostFormatter,
	publisher queue.Publisher,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		formatter:   formatter,
		publisher:   publisher,
	}
}

// Create adds a comment to a live post and queues a push for the author.
func (s *CommentService) Create(ctx context.Context, postID, userID int64, req *model.CreateCommentRequest) (*model.Comment, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, model.ErrCommentRequired
	}
	if len(text) > model.MaxCommentLength {
		return nil, model.ErrCommentTooLong
	}

	exists, err := s.postRepo.Exists(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("check post exists: %w", err)
	}
	if !exists {
		return nil, model.ErrPostNotFound
	}

	comment, err := s.commentRepo.Create(ctx, postID, userID, text)
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	// Queue the push after the write landed, best-effort. Commenting on
	// your own post doesn't notify.
	if s.publisher != nil {
		authorID, err := s.postRepo.GetAuthorID(ctx, postID)
		if err == nil && authorID != userID {
			event := queue.NewPostCommentedEvent(postID, comment.ID, userID, authorID)
			if _, err := s.publisher.Publish(ctx, queue.StreamNotifications, event); err != nil {
				log.Printf("[CommentService] Failed to publish PostCommented event: %v", err)
			}
		}
	}

	return comment, nil
}

// ListByPost returns a post's live comments, oldest first.
func (s *CommentService) ListByPost(ctx context.Context, postID int64, limit, offset int) ([]model.CommentDTO, error) {
	limit, offset = clampPage(limit, offset)

	exists, err := s.postRepo.Exists(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("check post exists: %w", err)
	}
	if !exists {
		return nil, model.ErrPostNotFound
	}

	rows, err := s.commentRepo.ListByPost(ctx, postID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	return s.formatter.FormatCommentRows(rows), nil
}

// Update edits the caller's own comment.
func (s *CommentService) Update(ctx context.Context, commentID, userID int64, text string) (*model.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, model.ErrCommentRequired
	}
	if len(text) > model.MaxCommentLength {
		return nil, model.ErrCommentTooLong
	}

	return s.commentRepo.Update(ctx, commentID, userID, text)
}

// Delete soft-deletes the caller's own comment. The post's commentCount
// drops immediately because counting skips soft-deleted rows.
func (s *CommentService) Delete(ctx context.Context, commentID, userID int64) error {
	return s.commentRepo.SoftDelete(ctx, commentID, userID)
}
