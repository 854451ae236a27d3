package queue

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Publisher defines the interface for publishing events to a stream.
type Publisher interface {
	// Publish adds an event to the specified stream.
	// Returns the message ID assigned by Redis.
	Publish(ctx context.Context, stream string, event EngagementEvent) (messageID string, err error)
}

// RedisPublisher implements Publisher using Redis Streams.
type RedisPublisher struct {
	client *redis.Client
}

// NewPublisher creates a new Publisher backed by Redis Streams.
func NewPublisher(client *redis.Client) Publisher {
	return &RedisPublisher{client: client}
}

// Publish adds an event to the stream using XADD.
// Uses "*" for auto-generated message ID (timestamp-sequence).
func (p *RedisPublisher) Publish(ctx context.Context, stream string, event EngagementEvent) (string, error) {
	startTime := time.Now()

	values, err := event.ToMap()
	if err != nil {
		log.Printf("[Publisher] Publish FAILED: stream=%s type=%s err=%v", stream, event.Type, err)
		return "", fmt.Errorf("serialize event: %w", err)
	}

	// XADD stream * field value [field value ...]
	// "*" means Redis auto-generates the message ID
	messageID, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: values,
	}).Result()

	if err != nil {
		log.Printf("[Publisher] Publish FAILED: stream=%s type=%s err=%v", stream, event.Type, err)
		return "", fmt.Errorf("xadd to stream: %w", err)
	}

	log.Printf("[Publisher] Publish OK: stream=%s type=%s actor=%d recipient=%d msgID=%s duration=%v",
		stream, event.Type, event.ActorID, event.RecipientID, messageID, time.Since(startTime))

	return messageID, nil
}

// PublishPostLiked is a convenience method for publishing post liked events.
func (p *RedisPublisher) PublishPostLiked(ctx context.Context, postID, actorID, recipientID int64) (string, error) {
	event := NewPostLikedEvent(postID, actorID, recipientID)
	return p.Publish(ctx, StreamNotifications, event)
}

// PublishPostCommented is a convenience method for publishing post commented events.
func (p *RedisPublisher) PublishPostCommented(ctx context.Context, postID, commentID, actorID, recipientID int64) (string, error) {
	event := NewPostCommentedEvent(postID, commentID, actorID, recipientID)
	return p.Publish(ctx, StreamNotifications, event)
}

// PublishUserFollowed is a convenience method for publishing user followed events.
func (p *RedisPublisher) PublishUserFollowed(ctx context.Context, actorID, recipientID int64) (string, error) {
	event := NewUserFollowedEvent(actorID, recipientID)
	return p.Publish(ctx, StreamNotifications, event)
}
