package service

import (
	"context"
	"errors"
	"testing"

	"moodring/internal/model"
	"moodring/internal/queue"
)

func likablePostRepo(authorID int64) *mockPostRepository {
	return &mockPostRepository{
		existsFn: func(ctx context.Context, postID int64) (bool, error) {
			return true, nil
		},
		getAuthorIDFn: func(ctx context.Context, postID int64) (int64, error) {
			return authorID, nil
		},
	}
}

func TestLikeService_Like(t *testing.T) {
	publisher := &mockPublisher{}
	svc := NewLikeService(&mockLikeRepository{}, likablePostRepo(1), publisher)

	alreadyLiked, err := svc.Like(context.Background(), 100, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if alreadyLiked {
		t.Error("first like should not report alreadyLiked")
	}

	if len(publisher.published) != 1 {
		t.Fatalf("published %d events, want 1", len(publisher.published))
	}
	event := publisher.published[0]
	if event.Type != queue.EventPostLiked {
		t.Errorf("event type = %s, want %s", event.Type, queue.EventPostLiked)
	}
	if event.ActorID != 2 || event.RecipientID != 1 || event.PostID != 100 {
		t.Errorf("event = %+v", event)
	}
}

// The conflict outcome of the insert is the idempotence signal: a
// duplicate like succeeds, reports alreadyLiked, and publishes nothing.
func TestLikeService_Like_Duplicate(t *testing.T) {
	publisher := &mockPublisher{}
	likes := &mockLikeRepository{
		createFn: func(ctx context.Context, postID, userID int64) (bool, error) {
			return false, nil
		},
	}
	svc := NewLikeService(likes, likablePostRepo(1), publisher)

	alreadyLiked, err := svc.Like(context.Background(), 100, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !alreadyLiked {
		t.Error("duplicate like should report alreadyLiked")
	}
	if len(publisher.published) != 0 {
		t.Errorf("published %d events, want 0", len(publisher.published))
	}
}

func TestLikeService_Like_SelfLikeNoEvent(t *testing.T) {
	publisher := &mockPublisher{}
	svc := NewLikeService(&mockLikeRepository{}, likablePostRepo(2), publisher)

	// User 2 likes their own post
	if _, err := svc.Like(context.Background(), 100, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(publisher.published) != 0 {
		t.Errorf("self-like published %d events, want 0", len(publisher.published))
	}
}

func TestLikeService_Like_PostNotFound(t *testing.T) {
	posts := &mockPostRepository{
		existsFn: func(ctx context.Context, postID int64) (bool, error) {
			return false, nil
		},
	}
	svc := NewLikeService(&mockLikeRepository{}, posts, &mockPublisher{})

	_, err := svc.Like(context.Background(), 999, 2)
	if !errors.Is(err, model.ErrPostNotFound) {
		t.Errorf("error = %v, want %v", err, model.ErrPostNotFound)
	}
}

// A failed event publish never fails the like itself.
func TestLikeService_Like_PublishFailureIgnored(t *testing.T) {
	publisher := &mockPublisher{err: errors.New("redis down")}
	svc := NewLikeService(&mockLikeRepository{}, likablePostRepo(1), publisher)

	alreadyLiked, err := svc.Like(context.Background(), 100, 2)
	if err != nil {
		t.Fatalf("like should succeed despite publish failure: %v", err)
	}
	if alreadyLiked {
		t.Error("should not report alreadyLiked")
	}
}

func TestLikeService_Unlike(t *testing.T) {
	svc := NewLikeService(&mockLikeRepository{}, likablePostRepo(1), &mockPublisher{})

	if err := svc.Unlike(context.Background(), 100, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLikeService_Unlike_NotLiked(t *testing.T) {
	likes := &mockLikeRepository{
		deleteFn: func(ctx context.Context, postID, userID int64) (bool, error) {
			return false, nil
		},
	}
	svc := NewLikeService(likes, likablePostRepo(1), &mockPublisher{})

	err := svc.Unlike(context.Background(), 100, 2)
	if !errors.Is(err, model.ErrNotLiked) {
		t.Errorf("error = %v, want %v", err, model.ErrNotLiked)
	}
}

func TestLikeService_Unlike_PostGone(t *testing.T) {
	likes := &mockLikeRepository{
		deleteFn: func(ctx context.Context, postID, userID int64) (bool, error) {
			return false, nil
		},
	}
	posts := &mockPostRepository{
		existsFn: func(ctx context.Context, postID int64) (bool, error) {
			return false, nil
		},
	}
	svc := NewLikeService(likes, posts, &mockPublisher{})

	err := svc.Unlike(context.Background(), 999, 2)
	if !errors.Is(err, model.ErrPostNotFound) {
		t.Errorf("error = %v, want %v", err, model.ErrPostNotFound)
	}
}

func TestLikeService_Check(t *testing.T) {
	likes := &mockLikeRepository{
		existsFn: func(ctx context.Context, postID, userID int64) (bool, error) {
			return true, nil
		},
		countByPostFn: func(ctx context.Context, postID int64) (int, error) {
			return 12, nil
		},
	}
	svc := NewLikeService(likes, likablePostRepo(1), &mockPublisher{})

	status, err := svc.Check(context.Background(), 100, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !status.Liked || status.LikeCount != 12 {
		t.Errorf("status = %+v, want liked with 12 likes", status)
	}
}
