package service

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"moodring/internal/model"
	"moodring/internal/repository"
)

// UserService handles business logic for user operations
type UserService struct {
	repo       repository.UserRepository
	followRepo repository.FollowRepository
}

func NewUserService(repo repository.UserRepository, followRepo repository.FollowRepository) *UserService {
	return &UserService{
		repo:       repo,
		followRepo: followRepo,
	}
}

// Register creates a new user account with optional avatar metadata.
func (s *UserService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	if req.Username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if len(req.Username) < model.MinUsernameLength || len(req.Username) > model.MaxUsernameLength {
		return nil, fmt.Errorf("username must be between %d and %d characters", model.MinUsernameLength, model.MaxUsernameLength)
	}
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return nil, fmt.Errorf("a valid email is required")
	}
	if len(req.Password) < model.MinPasswordLength {
		return nil, fmt.Errorf("password must be at least %d characters", model.MinPasswordLength)
	}
	if (req.AvatarURL == nil) != (req.AvatarKey == nil) {
		return nil, fmt.Errorf("avatar_url and avatar_key must both be provided or both omitted")
	}

	// Check if username already exists
	exists, err := s.repo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		return nil, model.ErrUsernameExists
	}

	exists, err = s.repo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, model.ErrEmailExists
	}

	// Hash the password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:       req.Username,
		Email:          req.Email,
		PasswordHashed: string(hashedPassword),
		AvatarURL:      req.AvatarURL,
		AvatarKey:      req.AvatarKey,
	}

	// Display name defaults to the username
	displayName := req.DisplayName
	if displayName == "" {
		displayName = req.Username
	}
	user.DisplayName = &displayName

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Login authenticates a user with username and password.
func (s *UserService) Login(ctx context.Context, req *model.LoginRequest) (*model.User, error) {
	// Get user by username
	user, err := s.repo.GetByUsername(ctx, req.Username)
	if err != nil {
		// Don't reveal whether username exists or not
		return nil, model.ErrInvalidCredentials
	}

	// Compare password with hash
	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHashed), []byte(req.Password))
	if err != nil {
		return nil, model.ErrInvalidCredentials
	}

	return user, nil
}

// GetByID retrieves a user by ID.
func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return s.repo.GetByID(ctx, id)
}

// GetProfile retrieves a user's profile with computed counts and the
// viewer relationship. The relationship is tri-state: IsFollowing stays
// nil for anonymous viewers and for self-views, and is only ever
// true/false when a real third-party viewer is asking.
func (s *UserService) GetProfile(ctx context.Context, userID int64, viewerID *int64) (*model.UserProfile, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.buildProfile(ctx, user, viewerID)
}

// GetProfileByUsername is GetProfile keyed by username.
func (s *UserService) GetProfileByUsername(ctx context.Context, username string, viewerID *int64) (*model.UserProfile, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	return s.buildProfile(ctx, user, viewerID)
}

func (s *UserService) buildProfile(ctx context.Context, user *model.User, viewerID *int64) (*model.UserProfile, error) {
	followers, following, posts, err := s.repo.GetProfileCounts(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile counts: %w", err)
	}

	profile := &model.UserProfile{
		ID:             user.ID,
		Username:       user.Username,
		DisplayName:    user.DisplayName,
		Bio:            user.Bio,
		AvatarURL:      user.AvatarURL,
		CreatedAt:      user.CreatedAt,
		FollowerCount:  followers,
		FollowingCount: following,
		PostCount:      posts,
	}

	if viewerID != nil && *viewerID != user.ID {
		isFollowing, err := s.followRepo.Exists(ctx, *viewerID, user.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check follow status: %w", err)
		}
		profile.IsFollowing = &isFollowing
	}

	return profile, nil
}

// UpdateProfile applies the non-nil fields of req to the user's profile.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, req *model.UpdateProfileRequest) (*model.User, error) {
	if req.Bio != nil && len(*req.Bio) > model.MaxBioLength {
		return nil, fmt.Errorf("bio must be at most %d characters", model.MaxBioLength)
	}
	if req.DisplayName != nil && strings.TrimSpace(*req.DisplayName) == "" {
		return nil, fmt.Errorf("display_name cannot be blank")
	}

	return s.repo.UpdateProfile(ctx, userID, req)
}

// Search finds users by username prefix.
func (s *UserService) Search(ctx context.Context, query string) ([]model.UserSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []model.UserSummary{}, nil
	}

	return s.repo.Search(ctx, query, model.MaxSearchResults)
}
