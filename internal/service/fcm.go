package service

import (
	"context"
	"fmt"
	"log"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"moodring/internal/model"
)

// PushSender is the provider boundary for push delivery. It reports the
// multicast outcome plus the tokens the provider declared dead, so the
// caller can deactivate them.
type PushSender interface {
	SendMulticast(ctx context.Context, tokens []string, notif model.PushNotification) (*model.PushResult, []string, error)
}

// FCMClient wraps the Firebase Cloud Messaging client.
//
// Mobile apps register with FCM and hand us a device token; when we want
// to notify a user we send a multicast to their stored tokens and FCM
// delivers even when the app is closed.
type FCMClient struct {
	client *messaging.Client
}

// NewFCMClient creates a new FCM client from a service account
// credentials file (the JSON downloaded from the Firebase console).
func NewFCMClient(ctx context.Context, credentialsFile string) (*FCMClient, error) {
	if credentialsFile == "" {
		return nil, fmt.Errorf("missing firebase credentials file")
	}

	opt := option.WithCredentialsFile(credentialsFile)
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("get messaging client: %w", err)
	}

	log.Printf("[FCM] Initialized")
	return &FCMClient{client: client}, nil
}

// SendMulticast sends a push notification to multiple device tokens in
// one API call (FCM handles the fan-out; 500 tokens per request is the
// provider cap, far above any single user's device count here).
//
// Returned deadTokens are the ones FCM rejected as unregistered or
// malformed; everything else that failed is transient and just logged.
func (c *FCMClient) SendMulticast(ctx context.Context, tokens []string, notif model.PushNotification) (*model.PushResult, []string, error) {
	if len(tokens) == 0 {
		return &model.PushResult{}, nil, nil
	}

	message := &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: notif.Title,
			Body:  notif.Body,
		},
		Data: notif.Data,
		Android: &messaging.AndroidConfig{
			Priority: "high", // Ensures delivery even in battery-saving mode
			Notification: &messaging.AndroidNotification{
				Sound: "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: "default",
				},
			},
		},
	}

	response, err := c.client.SendEachForMulticast(ctx, message)
	if err != nil {
		return nil, nil, fmt.Errorf("send multicast: %w", err)
	}

	log.Printf("[FCM] Sent to %d tokens: %d success, %d failure",
		len(tokens), response.SuccessCount, response.FailureCount)

	var deadTokens []string
	for i, resp := range response.Responses {
		if resp.Success {
			continue
		}
		if messaging.IsUnregistered(resp.Error) || messaging.IsInvalidArgument(resp.Error) {
			deadTokens = append(deadTokens, tokens[i])
			continue
		}
		log.Printf("[FCM] Token %d failed: %v", i, resp.Error)
	}

	return &model.PushResult{
		Attempted:    len(tokens),
		SuccessCount: response.SuccessCount,
		FailureCount: response.FailureCount,
	}, deadTokens, nil
}
