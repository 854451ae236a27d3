package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"moodring/internal/model"
)

// =============================================================================
// REGISTER TESTS
// =============================================================================

func TestUserService_Register_Success(t *testing.T) {
	mockRepo := &mockUserRepository{
		createFn: func(ctx context.Context, user *model.User) error {
			// Simulate database setting ID and timestamps
			user.ID = 1
			user.CreatedAt = time.Now()
			user.UpdatedAt = time.Now()
			return nil
		},
	}
	svc := NewUserService(mockRepo, &mockFollowRepository{})

	req := &model.RegisterRequest{
		Username:    "testuser",
		Email:       "test@example.com",
		Password:    "securepassword123",
		DisplayName: "Test User",
	}

	user, err := svc.Register(context.Background(), req)

	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if user == nil {
		t.Fatal("expected user, got nil")
	}

	if user.Username != req.Username {
		t.Errorf("username = %q, want %q", user.Username, req.Username)
	}
	if user.DisplayName == nil || *user.DisplayName != req.DisplayName {
		t.Errorf("display_name = %v, want %q", user.DisplayName, req.DisplayName)
	}

	// Verify password was hashed (not stored in plain text!)
	if user.PasswordHashed == req.Password {
		t.Error("password should be hashed, not stored in plain text")
	}
	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHashed), []byte(req.Password))
	if err != nil {
		t.Error("password hash should be valid bcrypt hash")
	}

	if len(mockRepo.createCalls) != 1 {
		t.Errorf("Create called %d times, want 1", len(mockRepo.createCalls))
	}
}

func TestUserService_Register_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  model.RegisterRequest
	}{
		{
			name: "empty username",
			req:  model.RegisterRequest{Username: "", Email: "a@b.c", Password: "password123"},
		},
		{
			name: "username too short",
			req:  model.RegisterRequest{Username: "ab", Email: "a@b.c", Password: "password123"},
		},
		{
			name: "username too long",
			req:  model.RegisterRequest{Username: "abcdefghijklmnopqrstuvwxyz01234", Email: "a@b.c", Password: "password123"},
		},
		{
			name: "missing email",
			req:  model.RegisterRequest{Username: "testuser", Email: "", Password: "password123"},
		},
		{
			name: "malformed email",
			req:  model.RegisterRequest{Username: "testuser", Email: "not-an-email", Password: "password123"},
		},
		{
			name: "password too short",
			req:  model.RegisterRequest{Username: "testuser", Email: "a@b.c", Password: "short"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mockUserRepository{}
			svc := NewUserService(mockRepo, &mockFollowRepository{})

			user, err := svc.Register(context.Background(), &tt.req)

			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if user != nil {
				t.Error("user should be nil on validation failure")
			}
			if len(mockRepo.createCalls) != 0 {
				t.Error("Create should not be called on validation failure")
			}
		})
	}
}

func TestUserService_Register_UsernameExists(t *testing.T) {
	mockRepo := &mockUserRepository{
		existsByUsernameFn: func(ctx context.Context, username string) (bool, error) {
			return true, nil
		},
	}
	svc := NewUserService(mockRepo, &mockFollowRepository{})

	req := &model.RegisterRequest{
		Username: "existinguser",
		Email:    "existing@example.com",
		Password: "password123",
	}

	user, err := svc.Register(context.Background(), req)

	if !errors.Is(err, model.ErrUsernameExists) {
		t.Errorf("error = %v, want %v", err, model.ErrUsernameExists)
	}
	if user != nil {
		t.Error("user should be nil when registration fails")
	}
	if len(mockRepo.createCalls) != 0 {
		t.Error("Create should not be called when username exists")
	}
}

func TestUserService_Register_EmailExists(t *testing.T) {
	mockRepo := &mockUserRepository{
		existsByEmailFn: func(ctx context.Context, email string) (bool, error) {
			return true, nil
		},
	}
	svc := NewUserService(mockRepo, &mockFollowRepository{})

	req := &model.RegisterRequest{
		Username: "testuser",
		Email:    "taken@example.com",
		Password: "password123",
	}

	_, err := svc.Register(context.Background(), req)

	if !errors.Is(err, model.ErrEmailExists) {
		t.Errorf("error = %v, want %v", err, model.ErrEmailExists)
	}
}

func TestUserService_Register_CreateError(t *testing.T) {
	dbError := errors.New("insert failed")
	mockRepo := &mockUserRepository{
		createFn: func(ctx context.Context, user *model.User) error {
			return dbError
		},
	}
	svc := NewUserService(mockRepo, &mockFollowRepository{})

	req := &model.RegisterRequest{
		Username: "testuser",
		Email:    "test@example.com",
		Password: "password123",
	}

	_, err := svc.Register(context.Background(), req)

	if !errors.Is(err, dbError) {
		t.Errorf("error should wrap create error")
	}
}

func TestUserService_Register_DisplayNameDefaultsToUsername(t *testing.T) {
	mockRepo := &mockUserRepository{
		createFn: func(ctx context.Context, user *model.User) error {
			user.ID = 1
			return nil
		},
	}
	svc := NewUserService(mockRepo, &mockFollowRepository{})

	req := &model.RegisterRequest{
		Username: "testuser",
		Email:    "test@example.com",
		Password: "password123",
		// DisplayName intentionally omitted
	}

	user, err := svc.Register(context.Background(), req)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.DisplayName == nil || *user.DisplayName != "testuser" {
		t.Errorf("display_name = %v, want %q", user.DisplayName, "testuser")
	}
}

// =============================================================================
// LOGIN TESTS - Table-Driven
// =============================================================================

func TestUserService_Login(t *testing.T) {
	validPassword := "correctpassword"
	validHash, _ := bcrypt.GenerateFromPassword([]byte(validPassword), bcrypt.MinCost)

	testUser := &model.User{
		ID:             1,
		Username:       "testuser",
		PasswordHashed: string(validHash),
	}

	tests := []struct {
		name          string
		username      string
		password      string
		mockGetByUser func(ctx context.Context, username string) (*model.User, error)
		wantErr       error
		wantUser      bool
	}{
		{
			name:     "successful login",
			username: "testuser",
			password: validPassword,
			mockGetByUser: func(ctx context.Context, username string) (*model.User, error) {
				return testUser, nil
			},
			wantErr:  nil,
			wantUser: true,
		},
		{
			name:     "user not found",
			username: "nonexistent",
			password: "anypassword",
			mockGetByUser: func(ctx context.Context, username string) (*model.User, error) {
				return nil, model.ErrUserNotFound
			},
			wantErr:  model.ErrInvalidCredentials, // Don't reveal user doesn't exist
			wantUser: false,
		},
		{
			name:     "wrong password",
			username: "testuser",
			password: "wrongpassword",
			mockGetByUser: func(ctx context.Context, username string) (*model.User, error) {
				return testUser, nil
			},
			wantErr:  model.ErrInvalidCredentials,
			wantUser: false,
		},
		{
			name:     "database error",
			username: "testuser",
			password: validPassword,
			mockGetByUser: func(ctx context.Context, username string) (*model.User, error) {
				return nil, errors.New("database error")
			},
			wantErr:  model.ErrInvalidCredentials, // Don't reveal internal errors
			wantUser: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mockUserRepository{
				getByUsernameFn: tt.mockGetByUser,
			}
			svc := NewUserService(mockRepo, &mockFollowRepository{})

			req := &model.LoginRequest{
				Username: tt.username,
				Password: tt.password,
			}

			user, err := svc.Login(context.Background(), req)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}

			if tt.wantUser && user == nil {
				t.Error("expected user, got nil")
			}
			if !tt.wantUser && user != nil {
				t.Error("expected nil user")
			}
		})
	}
}

// =============================================================================
// PROFILE TESTS
// =============================================================================

// IsFollowing is tri-state: nil for anonymous viewers and self-views,
// true/false only for a real third-party viewer.
func TestUserService_GetProfile_FollowState(t *testing.T) {
	viewer := int64(2)
	self := int64(1)

	mockRepo := &mockUserRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			return &model.User{ID: id, Username: "testuser"}, nil
		},
		getProfileCountsFn: func(ctx context.Context, userID int64) (int, int, int, error) {
			return 10, 5, 3, nil
		},
	}
	mockFollows := &mockFollowRepository{
		existsFn: func(ctx context.Context, followerID, followingID int64) (bool, error) {
			return true, nil
		},
	}
	svc := NewUserService(mockRepo, mockFollows)

	tests := []struct {
		name     string
		viewerID *int64
		want     *bool
	}{
		{name: "anonymous viewer", viewerID: nil, want: nil},
		{name: "self view", viewerID: &self, want: nil},
		{name: "third-party viewer", viewerID: &viewer, want: boolPtr(true)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile, err := svc.GetProfile(context.Background(), 1, tt.viewerID)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if tt.want == nil {
				if profile.IsFollowing != nil {
					t.Errorf("isFollowing = %v, want nil", *profile.IsFollowing)
				}
			} else {
				if profile.IsFollowing == nil {
					t.Fatal("isFollowing = nil, want value")
				}
				if *profile.IsFollowing != *tt.want {
					t.Errorf("isFollowing = %v, want %v", *profile.IsFollowing, *tt.want)
				}
			}

			if profile.FollowerCount != 10 || profile.FollowingCount != 5 || profile.PostCount != 3 {
				t.Errorf("counts = %d/%d/%d, want 10/5/3",
					profile.FollowerCount, profile.FollowingCount, profile.PostCount)
			}
		})
	}
}

func TestUserService_GetProfile_NotFound(t *testing.T) {
	mockRepo := &mockUserRepository{}
	svc := NewUserService(mockRepo, &mockFollowRepository{})

	_, err := svc.GetProfile(context.Background(), 999, nil)
	if !errors.Is(err, model.ErrUserNotFound) {
		t.Errorf("error = %v, want %v", err, model.ErrUserNotFound)
	}
}

// =============================================================================
// UPDATE PROFILE TESTS
// =============================================================================

func TestUserService_UpdateProfile_Validation(t *testing.T) {
	longBio := make([]byte, model.MaxBioLength+1)
	for i := range longBio {
		longBio[i] = 'x'
	}

	tests := []struct {
		name string
		req  model.UpdateProfileRequest
	}{
		{name: "bio too long", req: model.UpdateProfileRequest{Bio: strPtr(string(longBio))}},
		{name: "blank display name", req: model.UpdateProfileRequest{DisplayName: strPtr("   ")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewUserService(&mockUserRepository{}, &mockFollowRepository{})

			_, err := svc.UpdateProfile(context.Background(), 1, &tt.req)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
		})
	}
}

// =============================================================================
// SEARCH TESTS
// =============================================================================

func TestUserService_Search(t *testing.T) {
	var gotLimit int
	mockRepo := &mockUserRepository{
		searchFn: func(ctx context.Context, query string, limit int) ([]model.UserSummary, error) {
			gotLimit = limit
			return []model.UserSummary{{ID: 1, Username: "alice"}}, nil
		},
	}
	svc := NewUserService(mockRepo, &mockFollowRepository{})

	users, err := svc.Search(context.Background(), "  ali  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("got %d users, want 1", len(users))
	}
	if gotLimit != model.MaxSearchResults {
		t.Errorf("limit = %d, want %d", gotLimit, model.MaxSearchResults)
	}
}

func TestUserService_Search_EmptyQuery(t *testing.T) {
	mockRepo := &mockUserRepository{
		searchFn: func(ctx context.Context, query string, limit int) ([]model.UserSummary, error) {
			t.Fatal("repository should not be queried for an empty search")
			return nil, nil
		},
	}
	svc := NewUserService(mockRepo, &mockFollowRepository{})

	users, err := svc.Search(context.Background(), "   ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if users == nil || len(users) != 0 {
		t.Errorf("got %v, want empty slice", users)
	}
}

func boolPtr(b bool) *bool { return &b }

func strPtr(s string) *string { return &s }
