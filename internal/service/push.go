package service

import (
	"context"
	"fmt"
	"log"

	"moodring/internal/model"
	"moodring/internal/repository"
)

// PushService owns device-token bookkeeping and push delivery. Callers
// on the request path never wait on it directly; the worker drives it
// for engagement events, and only the device-token endpoints and the
// test push touch it synchronously.
type PushService struct {
	sender    PushSender
	tokenRepo repository.DeviceTokenRepository
	userRepo  repository.UserRepository
}

func NewPushService(
	sender PushSender,
	tokenRepo repository.DeviceTokenRepository,
	userRepo repository.UserRepository,
) *PushService {
	return &PushService{
		sender:    sender,
		tokenRepo: tokenRepo,
		userRepo:  userRepo,
	}
}

// RegisterDeviceToken stores (or reclaims) a device token for the user.
func (s *PushService) RegisterDeviceToken(ctx context.Context, userID int64, req *model.RegisterTokenRequest) error {
	if req.Token == "" {
		return fmt.Errorf("token is required")
	}
	platform := req.Platform
	if platform != model.PlatformAndroid {
		platform = model.PlatformIOS
	}

	return s.tokenRepo.Upsert(ctx, userID, req.Token, platform)
}

// DeleteDeviceToken removes a token owned by the user (logout flow).
func (s *PushService) DeleteDeviceToken(ctx context.Context, userID int64, token string) error {
	if token == "" {
		return fmt.Errorf("token is required")
	}
	return s.tokenRepo.Delete(ctx, userID, token)
}

// SendToUser pushes a notification to every active device the user has
// registered, then deactivates the tokens the provider declared dead.
// A user with no active devices is not an error: there is just nothing
// to deliver.
func (s *PushService) SendToUser(ctx context.Context, userID int64, notif model.PushNotification) (*model.PushResult, error) {
	tokens, err := s.tokenRepo.GetActiveTokensByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get device tokens: %w", err)
	}
	if len(tokens) == 0 {
		return &model.PushResult{}, nil
	}

	result, deadTokens, err := s.sender.SendMulticast(ctx, tokens, notif)
	if err != nil {
		return nil, err
	}

	for _, token := range deadTokens {
		if err := s.tokenRepo.Deactivate(ctx, token); err != nil {
			log.Printf("[PushService] Failed to deactivate dead token: user=%d err=%v", userID, err)
		}
	}

	return result, nil
}

// NotifyEngagement builds and delivers the push for one engagement
// event. The actor's username goes in the body; an actor that vanished
// since the event was queued falls back to the placeholder name.
func (s *PushService) NotifyEngagement(ctx context.Context, eventType string, actorID, recipientID, postID int64) error {
	actorName := model.UnknownUsername
	if actor, err := s.userRepo.GetByID(ctx, actorID); err == nil {
		actorName = actor.Username
	}

	var notif model.PushNotification
	switch eventType {
	case "post_liked":
		notif = model.PushNotification{
			Title: "New like",
			Body:  fmt.Sprintf("%s liked your post", actorName),
			Data: map[string]string{
				"type":    model.NotificationTypeLike,
				"post_id": fmt.Sprintf("%d", postID),
			},
		}
	case "post_commented":
		notif = model.PushNotification{
			Title: "New comment",
			Body:  fmt.Sprintf("%s commented on your post", actorName),
			Data: map[string]string{
				"type":    model.NotificationTypeComment,
				"post_id": fmt.Sprintf("%d", postID),
			},
		}
	case "user_followed":
		notif = model.PushNotification{
			Title: "New follower",
			Body:  fmt.Sprintf("%s started following you", actorName),
			Data: map[string]string{
				"type":    model.NotificationTypeFollow,
				"user_id": fmt.Sprintf("%d", actorID),
			},
		}
	default:
		return fmt.Errorf("unknown engagement event type: %s", eventType)
	}

	_, err := s.SendToUser(ctx, recipientID, notif)
	return err
}

// SendTest pushes a throwaway notification to the caller's own devices.
func (s *PushService) SendTest(ctx context.Context, userID int64) (*model.PushResult, error) {
	return s.SendToUser(ctx, userID, model.PushNotification{
		Title: "Test push",
		Body:  "If you see this, push is working",
		Data:  map[string]string{"type": model.NotificationTypeTest},
	})
}
