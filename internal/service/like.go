package service

import (
	"context"
	"fmt"
	"log"

	"moodring/internal/model"
	"moodring/internal/queue"
	"moodring/internal/repository"
)

type LikeService struct {
	likeRepo  repository.LikeRepository
	postRepo  repository.PostRepository
	publisher queue.Publisher
}

func NewLikeService(
	likeRepo repository.LikeRepository,
	postRepo repository.PostRepository,
	publisher queue.Publisher,
) *LikeService {
	return &LikeService{
		likeRepo:  likeRepo,
		postRepo:  postRepo,
		publisher: publisher,
	}
}

// Like records a like on a post. The operation is idempotent: liking a
// post twice succeeds both times and reports alreadyLiked on the second.
// The unique constraint settles concurrent duplicates, so there is no
// pre-check race to lose.
func (s *LikeService) Like(ctx context.Context, postID, userID int64) (alreadyLiked bool, err error) {
	exists, err := s.postRepo.Exists(ctx, postID)
	if err != nil {
		return false, fmt.Errorf("check post exists: %w", err)
	}
	if !exists {
		return false, model.ErrPostNotFound
	}

	inserted, err := s.likeRepo.Create(ctx, postID, userID)
	if err != nil {
		return false, err
	}
	if !inserted {
		return true, nil
	}

	log.Printf("[LikeService] User %d liked post %d", userID, postID)

	// Queue the push after the write landed, best-effort. Self-likes
	// don't notify.
	if s.publisher != nil {
		authorID, err := s.postRepo.GetAuthorID(ctx, postID)
		if err == nil && authorID != userID {
			event := queue.NewPostLikedEvent(postID, userID, authorID)
			if _, err := s.publisher.Publish(ctx, queue.StreamNotifications, event); err != nil {
				log.Printf("[LikeService] Failed to publish PostLiked event: %v", err)
			}
		}
	}

	return false, nil
}

// Unlike removes a like. Removing a like that isn't there is an error,
// unlike the insert side: the client state was wrong, not racing.
func (s *LikeService) Unlike(ctx context.Context, postID, userID int64) error {
	removed, err := s.likeRepo.Delete(ctx, postID, userID)
	if err != nil {
		return err
	}
	if !removed {
		exists, err := s.postRepo.Exists(ctx, postID)
		if err != nil {
			return fmt.Errorf("check post exists: %w", err)
		}
		if !exists {
			return model.ErrPostNotFound
		}
		return model.ErrNotLiked
	}

	log.Printf("[LikeService] User %d unliked post %d", userID, postID)
	return nil
}

// Check reports whether the viewer has liked the post, plus the current count.
func (s *LikeService) Check(ctx context.Context, postID, userID int64) (*model.LikeStatus, error) {
	exists, err := s.postRepo.Exists(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("check post exists: %w", err)
	}
	if !exists {
		return nil, model.ErrPostNotFound
	}

	liked, err := s.likeRepo.Exists(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	count, err := s.likeRepo.CountByPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	return &model.LikeStatus{Liked: liked, LikeCount: count}, nil
}

// GetLikers returns users who liked a post, most recent first.
func (s *LikeService) GetLikers(ctx context.Context, postID int64, limit, offset int) ([]model.UserSummary, error) {
	limit, offset = clampPage(limit, offset)

	exists, err := s.postRepo.Exists(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("check post exists: %w", err)
	}
	if !exists {
		return nil, model.ErrPostNotFound
	}

	return s.likeRepo.GetPostLikers(ctx, postID, limit, offset)
}
