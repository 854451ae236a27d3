package worker

import (
	"context"
	"fmt"
	"log"
	"time"

	"moodring/internal/queue"
)

// EngagementNotifier delivers the push for one engagement event.
// This abstracts the push service so workers don't depend on FCM directly.
type EngagementNotifier interface {
	NotifyEngagement(ctx context.Context, eventType string, actorID, recipientID, postID int64) error
}

// Handler processes engagement events from the queue.
type Handler struct {
	notifier EngagementNotifier
}

// NewHandler creates a new event handler.
func NewHandler(notifier EngagementNotifier) *Handler {
	return &Handler{notifier: notifier}
}

// HandleEvent routes an event to the appropriate handler based on type.
func (h *Handler) HandleEvent(ctx context.Context, event queue.EngagementEvent) error {
	startTime := time.Now()
	var err error

	switch event.Type {
	case queue.EventPostLiked:
		err = h.handlePostLiked(ctx, event)
	case queue.EventPostCommented:
		err = h.handlePostCommented(ctx, event)
	case queue.EventUserFollowed:
		err = h.handleUserFollowed(ctx, event)
	default:
		log.Printf("[Worker] Unknown event type: %s", event.Type)
		return fmt.Errorf("unknown event type: %s", event.Type)
	}

	if err != nil {
		log.Printf("[Worker] HandleEvent FAILED: type=%s duration=%v err=%v",
			event.Type, time.Since(startTime), err)
		return err
	}

	log.Printf("[Worker] HandleEvent OK: type=%s duration=%v", event.Type, time.Since(startTime))
	return nil
}

// handlePostLiked notifies the post author that someone liked their post.
func (h *Handler) handlePostLiked(ctx context.Context, event queue.EngagementEvent) error {
	log.Printf("[Worker] PostLiked: post=%d actor=%d recipient=%d", event.PostID, event.ActorID, event.RecipientID)

	// Self-likes are filtered at publish time; guard anyway.
	if event.ActorID == event.RecipientID {
		return nil
	}

	if err := h.notifier.NotifyEngagement(ctx, event.Type, event.ActorID, event.RecipientID, event.PostID); err != nil {
		return fmt.Errorf("notify like: %w", err)
	}

	return nil
}

// handlePostCommented notifies the post author that someone commented.
func (h *Handler) handlePostCommented(ctx context.Context, event queue.EngagementEvent) error {
	log.Printf("[Worker] PostCommented: post=%d comment=%d actor=%d recipient=%d",
		event.PostID, event.CommentID, event.ActorID, event.RecipientID)

	if event.ActorID == event.RecipientID {
		return nil
	}

	if err := h.notifier.NotifyEngagement(ctx, event.Type, event.ActorID, event.RecipientID, event.PostID); err != nil {
		return fmt.Errorf("notify comment: %w", err)
	}

	return nil
}

// handleUserFollowed notifies the followed user about their new follower.
func (h *Handler) handleUserFollowed(ctx context.Context, event queue.EngagementEvent) error {
	log.Printf("[Worker] UserFollowed: actor=%d recipient=%d", event.ActorID, event.RecipientID)

	if event.ActorID == event.RecipientID {
		return nil
	}

	if err := h.notifier.NotifyEngagement(ctx, event.Type, event.ActorID, event.RecipientID, 0); err != nil {
		return fmt.Errorf("notify follow: %w", err)
	}

	return nil
}
