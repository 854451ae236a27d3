package queue

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types for the notification stream
const (
	EventPostLiked     = "post_liked"
	EventPostCommented = "post_commented"
	EventUserFollowed  = "user_followed"
)

// Stream names
const (
	StreamNotifications = "stream:notifications"
)

// Consumer group name for notification workers
const (
	ConsumerGroupNotifications = "notification_workers"
)

// EngagementEvent represents an event published to the notification
// stream. All engagement events share this structure; RecipientID is
// always the user whose devices should be pushed to.
type EngagementEvent struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"` // Unix timestamp when event occurred

	ActorID     int64 `json:"actor_id"`     // Who liked/commented/followed
	RecipientID int64 `json:"recipient_id"` // Post author or followed user

	// Post events (PostLiked, PostCommented)
	PostID    int64 `json:"post_id,omitempty"`
	CommentID int64 `json:"comment_id,omitempty"`
}

// NewPostLikedEvent creates an event for when a user likes a post.
// Worker will push "X liked your post" to the author's devices.
func NewPostLikedEvent(postID, actorID, recipientID int64) EngagementEvent {
	return EngagementEvent{
		Type:        EventPostLiked,
		Timestamp:   time.Now().Unix(),
		ActorID:     actorID,
		RecipientID: recipientID,
		PostID:      postID,
	}
}

// NewPostCommentedEvent creates an event for when a user comments on a post.
func NewPostCommentedEvent(postID, commentID, actorID, recipientID int64) EngagementEvent {
	return EngagementEvent{
		Type:        EventPostCommented,
		Timestamp:   time.Now().Unix(),
		ActorID:     actorID,
		RecipientID: recipientID,
		PostID:      postID,
		CommentID:   commentID,
	}
}

// NewUserFollowedEvent creates an event for when a user follows another.
func NewUserFollowedEvent(actorID, recipientID int64) EngagementEvent {
	return EngagementEvent{
		Type:        EventUserFollowed,
		Timestamp:   time.Now().Unix(),
		ActorID:     actorID,
		RecipientID: recipientID,
	}
}

// ToMap converts the event to a map for Redis XADD.
// Redis Streams store field-value pairs, so we serialize to JSON in a "data" field.
func (e EngagementEvent) ToMap() (map[string]interface{}, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return map[string]interface{}{
		"type": e.Type,
		"data": string(data),
	}, nil
}

// ParseEngagementEvent parses an EngagementEvent from Redis stream message values.
func ParseEngagementEvent(values map[string]interface{}) (EngagementEvent, error) {
	data, ok := values["data"].(string)
	if !ok {
		return EngagementEvent{}, fmt.Errorf("missing or invalid 'data' field")
	}

	var event EngagementEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return EngagementEvent{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return event, nil
}
