package service

import (
	"context"
	"strings"
	"testing"

	"moodring/internal/model"
)

func tokensRepo(tokens ...string) *mockDeviceTokenRepository {
	return &mockDeviceTokenRepository{
		getActiveFn: func(ctx context.Context, userID int64) ([]string, error) {
			return tokens, nil
		},
	}
}

func TestPushService_RegisterDeviceToken(t *testing.T) {
	tests := []struct {
		name         string
		req          model.RegisterTokenRequest
		wantPlatform string
		wantErr      bool
	}{
		{"android kept", model.RegisterTokenRequest{Token: "tok", Platform: "android"}, model.PlatformAndroid, false},
		{"ios kept", model.RegisterTokenRequest{Token: "tok", Platform: "ios"}, model.PlatformIOS, false},
		{"unknown platform defaults to ios", model.RegisterTokenRequest{Token: "tok", Platform: "web"}, model.PlatformIOS, false},
		{"empty token rejected", model.RegisterTokenRequest{Platform: "ios"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPlatform string
			tokens := &mockDeviceTokenRepository{
				upsertFn: func(ctx context.Context, userID int64, token, platform string) error {
					gotPlatform = platform
					return nil
				},
			}
			svc := NewPushService(&mockPushSender{}, tokens, &mockUserRepository{})

			err := svc.RegisterDeviceToken(context.Background(), 1, &tt.req)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if gotPlatform != tt.wantPlatform {
				t.Errorf("platform = %q, want %q", gotPlatform, tt.wantPlatform)
			}
		})
	}
}

func TestPushService_SendToUser_NoDevices(t *testing.T) {
	sender := &mockPushSender{}
	svc := NewPushService(sender, tokensRepo(), &mockUserRepository{})

	result, err := svc.SendToUser(context.Background(), 1, model.PushNotification{Title: "hi"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Attempted != 0 {
		t.Errorf("attempted = %d, want 0", result.Attempted)
	}
	if len(sender.sent) != 0 {
		t.Errorf("sender called %d times, want 0", len(sender.sent))
	}
}

// Tokens the provider reports as dead get deactivated so the next send
// skips them.
func TestPushService_SendToUser_DeactivatesDeadTokens(t *testing.T) {
	sender := &mockPushSender{
		sendFn: func(ctx context.Context, tokens []string, notif model.PushNotification) (*model.PushResult, []string, error) {
			return &model.PushResult{Attempted: 3, SuccessCount: 1, FailureCount: 2}, []string{"dead1", "dead2"}, nil
		},
	}
	tokens := tokensRepo("live", "dead1", "dead2")
	svc := NewPushService(sender, tokens, &mockUserRepository{})

	result, err := svc.SendToUser(context.Background(), 1, model.PushNotification{Title: "hi"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.SuccessCount != 1 {
		t.Errorf("successCount = %d, want 1", result.SuccessCount)
	}
	if len(tokens.deactivated) != 2 {
		t.Fatalf("deactivated %d tokens, want 2", len(tokens.deactivated))
	}
	if tokens.deactivated[0] != "dead1" || tokens.deactivated[1] != "dead2" {
		t.Errorf("deactivated = %v", tokens.deactivated)
	}
}

func TestPushService_NotifyEngagement_Messages(t *testing.T) {
	tests := []struct {
		name      string
		eventType string
		wantTitle string
		wantBody  string
		wantType  string
	}{
		{"like", "post_liked", "New like", "alice liked your post", model.NotificationTypeLike},
		{"comment", "post_commented", "New comment", "alice commented on your post", model.NotificationTypeComment},
		{"follow", "user_followed", "New follower", "alice started following you", model.NotificationTypeFollow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &mockUserRepository{
				getByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
					return &model.User{ID: id, Username: "alice"}, nil
				},
			}
			sender := &mockPushSender{}
			svc := NewPushService(sender, tokensRepo("tok"), users)

			if err := svc.NotifyEngagement(context.Background(), tt.eventType, 2, 1, 100); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(sender.sent) != 1 {
				t.Fatalf("sender called %d times, want 1", len(sender.sent))
			}
			notif := sender.sent[0]
			if notif.Title != tt.wantTitle {
				t.Errorf("title = %q, want %q", notif.Title, tt.wantTitle)
			}
			if notif.Body != tt.wantBody {
				t.Errorf("body = %q, want %q", notif.Body, tt.wantBody)
			}
			if notif.Data["type"] != tt.wantType {
				t.Errorf("data type = %q, want %q", notif.Data["type"], tt.wantType)
			}
		})
	}
}

// The actor may have deleted their account between the event being
// queued and the worker picking it up.
func TestPushService_NotifyEngagement_VanishedActor(t *testing.T) {
	sender := &mockPushSender{}
	svc := NewPushService(sender, tokensRepo("tok"), &mockUserRepository{})

	if err := svc.NotifyEngagement(context.Background(), "post_liked", 2, 1, 100); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("sender called %d times, want 1", len(sender.sent))
	}
	if !strings.HasPrefix(sender.sent[0].Body, model.UnknownUsername) {
		t.Errorf("body = %q, want %q prefix", sender.sent[0].Body, model.UnknownUsername)
	}
}

func TestPushService_NotifyEngagement_UnknownType(t *testing.T) {
	svc := NewPushService(&mockPushSender{}, tokensRepo("tok"), &mockUserRepository{})

	if err := svc.NotifyEngagement(context.Background(), "post_shared", 2, 1, 100); err == nil {
		t.Fatal("expected error for unknown event type")
	}
}

func TestPushService_SendTest(t *testing.T) {
	sender := &mockPushSender{}
	svc := NewPushService(sender, tokensRepo("tok1", "tok2"), &mockUserRepository{})

	result, err := svc.SendTest(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Attempted != 2 {
		t.Errorf("attempted = %d, want 2", result.Attempted)
	}
	if len(sender.sent) != 1 || sender.sent[0].Data["type"] != model.NotificationTypeTest {
		t.Errorf("sent = %+v", sender.sent)
	}
}
