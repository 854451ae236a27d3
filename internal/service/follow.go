package service

import (
	"context"
	"log"

	"moodring/internal/model"
	"moodring/internal/queue"
	"moodring/internal/repository"
)

type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
	publisher  queue.Publisher
}

func NewFollowService(
	followRepo repository.FollowRepository,
	userRepo repository.UserRepository,
	publisher queue.Publisher,
) *FollowService {
	return &FollowService{
		followRepo: followRepo,
		userRepo:   userRepo,
		publisher:  publisher,
	}
}

// Follow creates the follower->following edge. There is no pre-check
// for an existing edge: the insert's conflict outcome is the single
// authoritative signal, so two concurrent follows resolve to exactly
// one edge and one ErrAlreadyFollowing.
func (s *FollowService) Follow(ctx context.Context, followerID, followingID int64) error {
	if followerID == followingID {
		return model.ErrCannotFollowSelf
	}

	_, err := s.userRepo.GetByID(ctx, followingID)
	if err != nil {
		return err
	}

	inserted, err := s.followRepo.Create(ctx, followerID, followingID)
	if err != nil {
		return err
	}
	if !inserted {
		return model.ErrAlreadyFollowing
	}

	// Queue the push after the write landed, best-effort.
	if s.publisher != nil {
		event := queue.NewUserFollowedEvent(followerID, followingID)
		msgID, err := s.publisher.Publish(ctx, queue.StreamNotifications, event)
		if err != nil {
			log.Printf("[FollowService] Failed to publish UserFollowed event: follower=%d following=%d err=%v",
				followerID, followingID, err)
		} else {
			log.Printf("[FollowService] Published UserFollowed: follower=%d following=%d msgID=%s",
				followerID, followingID, msgID)
		}
	}

	return nil
}

// Unfollow removes the edge; removing a missing edge is ErrNotFollowing.
func (s *FollowService) Unfollow(ctx context.Context, followerID, followingID int64) error {
	removed, err := s.followRepo.Delete(ctx, followerID, followingID)
	if err != nil {
		return err
	}
	if !removed {
		return model.ErrNotFollowing
	}

	return nil
}

// IsFollowing reports whether follower follows following.
func (s *FollowService) IsFollowing(ctx context.Context, followerID, followingID int64) (bool, error) {
	return s.followRepo.Exists(ctx, followerID, followingID)
}

// GetFollowers retrieves users who follow the specified user. Fetches
// limit+1 rows to learn whether another page exists without a COUNT.
func (s *FollowService) GetFollowers(ctx context.Context, userID int64, limit, offset int) (*model.FollowListResponse, error) {
	limit, offset = clampPage(limit, offset)

	users, err := s.followRepo.GetFollowers(ctx, userID, limit+1, offset)
	if err != nil {
		return nil, err
	}

	hasMore := len(users) > limit
	if hasMore {
		users = users[:limit]
	}

	return &model.FollowListResponse{
		Users:   users,
		HasMore: hasMore,
	}, nil
}

// GetFollowing retrieves users that the specified user follows.
func (s *FollowService) GetFollowing(ctx context.Context, userID int64, limit, offset int) (*model.FollowListResponse, error) {
	limit, offset = clampPage(limit, offset)

	users, err := s.followRepo.GetFollowing(ctx, userID, limit+1, offset)
	if err != nil {
		return nil, err
	}

	hasMore := len(users) > limit
	if hasMore {
		users = users[:limit]
	}

	return &model.FollowListResponse{
		Users:   users,
		HasMore: hasMore,
	}, nil
}
