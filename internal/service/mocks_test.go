package service

import (
	"context"

	"moodring/internal/model"
	"moodring/internal/queue"
)

// Function-field mocks: each test assigns only the behavior it needs,
// and unset methods fall back to a safe zero response.

type mockUserRepository struct {
	createFn           func(ctx context.Context, user *model.User) error
	getByIDFn          func(ctx context.Context, id int64) (*model.User, error)
	getByUsernameFn    func(ctx context.Context, username string) (*model.User, error)
	existsByUsernameFn func(ctx context.Context, username string) (bool, error)
	existsByEmailFn    func(ctx context.Context, email string) (bool, error)
	updateProfileFn    func(ctx context.Context, id int64, req *model.UpdateProfileRequest) (*model.User, error)
	searchFn           func(ctx context.Context, query string, limit int) ([]model.UserSummary, error)
	getProfileCountsFn func(ctx context.Context, userID int64) (int, int, int, error)

	// Track calls for assertions
	createCalls []*model.User
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	m.createCalls = append(m.createCalls, user)
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(ctx, username)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	if m.existsByUsernameFn != nil {
		return m.existsByUsernameFn(ctx, username)
	}
	return false, nil
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.existsByEmailFn != nil {
		return m.existsByEmailFn(ctx, email)
	}
	return false, nil
}

func (m *mockUserRepository) UpdateProfile(ctx context.Context, id int64, req *model.UpdateProfileRequest) (*model.User, error) {
	if m.updateProfileFn != nil {
		return m.updateProfileFn(ctx, id, req)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) UpdateAvatar(ctx context.Context, id int64, avatarURL, avatarKey string) error {
	return nil
}

func (m *mockUserRepository) Search(ctx context.Context, query string, limit int) ([]model.UserSummary, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, query, limit)
	}
	return []model.UserSummary{}, nil
}

func (m *mockUserRepository) GetProfileCounts(ctx context.Context, userID int64) (int, int, int, error) {
	if m.getProfileCountsFn != nil {
		return m.getProfileCountsFn(ctx, userID)
	}
	return 0, 0, 0, nil
}

type mockFollowRepository struct {
	createFn       func(ctx context.Context, followerID, followingID int64) (bool, error)
	deleteFn       func(ctx context.Context, followerID, followingID int64) (bool, error)
	existsFn       func(ctx context.Context, followerID, followingID int64) (bool, error)
	getFollowersFn func(ctx context.Context, userID int64, limit, offset int) ([]model.UserSummary, error)
	getFollowingFn func(ctx context.Context, userID int64, limit, offset int) ([]model.UserSummary, error)
}

func (m *mockFollowRepository) Create(ctx context.Context, followerID, followingID int64) (bool, error) {
	if m.createFn != nil {
		return m.createFn(ctx, followerID, followingID)
	}
	return true, nil
}

func (m *mockFollowRepository) Delete(ctx context.Context, followerID, followingID int64) (bool, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, followerID, followingID)
	}
	return true, nil
}

func (m *mockFollowRepository) Exists(ctx context.Context, followerID, followingID int64) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, followerID, followingID)
	}
	return false, nil
}

func (m *mockFollowRepository) GetFollowers(ctx context.Context, userID int64, limit, offset int) ([]model.UserSummary, error) {
	if m.getFollowersFn != nil {
		return m.getFollowersFn(ctx, userID, limit, offset)
	}
	return []model.UserSummary{}, nil
}

func (m *mockFollowRepository) GetFollowing(ctx context.Context, userID int64, limit, offset int) ([]model.UserSummary, error) {
	if m.getFollowingFn != nil {
		return m.getFollowingFn(ctx, userID, limit, offset)
	}
	return []model.UserSummary{}, nil
}

type mockPostRepository struct {
	createFn        func(ctx context.Context, userID int64, req *model.CreatePostRequest) (*model.Post, error)
	getByIDFn       func(ctx context.Context, postID int64) (*model.Post, error)
	getRowByIDFn    func(ctx context.Context, postID, viewerID int64) (*model.PostRow, error)
	getEngagementFn func(ctx context.Context, postID, viewerID int64) (model.EngagementStats, error)
	listFeedFn      func(ctx context.Context, q model.FeedQuery) ([]model.PostRow, error)
	listRecentFn    func(ctx context.Context, viewerID int64, limit, offset int) ([]model.PostRow, error)
	listByUserFn    func(ctx context.Context, userID, viewerID int64, limit, offset int) ([]model.PostRow, error)
	updateFn        func(ctx context.Context, postID, userID int64, req *model.UpdatePostRequest) (*model.Post, error)
	softDeleteFn    func(ctx context.Context, postID, userID int64) error
	getAuthorIDFn   func(ctx context.Context, postID int64) (int64, error)
	existsFn        func(ctx context.Context, postID int64) (bool, error)
}

func (m *mockPostRepository) Create(ctx context.Context, userID int64, req *model.CreatePostRequest) (*model.Post, error) {
	if m.createFn != nil {
		return m.createFn(ctx, userID, req)
	}
	return nil, model.ErrPostNotFound
}

func (m *mockPostRepository) GetByID(ctx context.Context, postID int64) (*model.Post, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, postID)
	}
	return nil, model.ErrPostNotFound
}

func (m *mockPostRepository) GetRowByID(ctx context.Context, postID, viewerID int64) (*model.PostRow, error) {
	if m.getRowByIDFn != nil {
		return m.getRowByIDFn(ctx, postID, viewerID)
	}
	return nil, model.ErrPostNotFound
}

func (m *mockPostRepository) GetEngagement(ctx context.Context, postID, viewerID int64) (model.EngagementStats, error) {
	if m.getEngagementFn != nil {
		return m.getEngagementFn(ctx, postID, viewerID)
	}
	return model.EngagementStats{}, nil
}

func (m *mockPostRepository) ListFeed(ctx context.Context, q model.FeedQuery) ([]model.PostRow, error) {
	if m.listFeedFn != nil {
		return m.listFeedFn(ctx, q)
	}
	return nil, nil
}

func (m *mockPostRepository) ListRecent(ctx context.Context, viewerID int64, limit, offset int) ([]model.PostRow, error) {
	if m.listRecentFn != nil {
		return m.listRecentFn(ctx, viewerID, limit, offset)
	}
	return nil, nil
}

func (m *mockPostRepository) ListByUser(ctx context.Context, userID, viewerID int64, limit, offset int) ([]model.PostRow, error) {
	if m.listByUserFn != nil {
		return m.listByUserFn(ctx, userID, viewerID, limit, offset)
	}
	return nil, nil
}

func (m *mockPostRepository) Update(ctx context.Context, postID, userID int64, req *model.UpdatePostRequest) (*model.Post, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, postID, userID, req)
	}
	return nil, model.ErrPostNotFound
}

func (m *mockPostRepository) SoftDelete(ctx context.Context, postID, userID int64) error {
	if m.softDeleteFn != nil {
		return m.softDeleteFn(ctx, postID, userID)
	}
	return model.ErrPostNotFound
}

func (m *mockPostRepository) GetAuthorID(ctx context.Context, postID int64) (int64, error) {
	if m.getAuthorIDFn != nil {
		return m.getAuthorIDFn(ctx, postID)
	}
	return 0, model.ErrPostNotFound
}

func (m *mockPostRepository) Exists(ctx context.Context, postID int64) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, postID)
	}
	return false, nil
}

type mockLikeRepository struct {
	createFn        func(ctx context.Context, postID, userID int64) (bool, error)
	deleteFn        func(ctx context.Context, postID, userID int64) (bool, error)
	existsFn        func(ctx context.Context, postID, userID int64) (bool, error)
	countByPostFn   func(ctx context.Context, postID int64) (int, error)
	getPostLikersFn func(ctx context.Context, postID int64, limit, offset int) ([]model.UserSummary, error)
}

func (m *mockLikeRepository) Create(ctx context.Context, postID, userID int64) (bool, error) {
	if m.createFn != nil {
		return m.createFn(ctx, postID, userID)
	}
	return true, nil
}

func (m *mockLikeRepository) Delete(ctx context.Context, postID, userID int64) (bool, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, postID, userID)
	}
	return true, nil
}

func (m *mockLikeRepository) Exists(ctx context.Context, postID, userID int64) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, postID, userID)
	}
	return false, nil
}

func (m *mockLikeRepository) CountByPost(ctx context.Context, postID int64) (int, error) {
	if m.countByPostFn != nil {
		return m.countByPostFn(ctx, postID)
	}
	return 0, nil
}

func (m *mockLikeRepository) GetPostLikers(ctx context.Context, postID int64, limit, offset int) ([]model.UserSummary, error) {
	if m.getPostLikersFn != nil {
		return m.getPostLikersFn(ctx, postID, limit, offset)
	}
	return []model.UserSummary{}, nil
}

type mockCommentRepository struct {
	createFn     func(ctx context.Context, postID, userID int64, text string) (*model.Comment, error)
	getByIDFn    func(ctx context.Context, commentID int64) (*model.Comment, error)
	listByPostFn func(ctx context.Context, postID int64, limit, offset int) ([]model.CommentRow, error)
	updateFn     func(ctx context.Context, commentID, userID int64, text string) (*model.Comment, error)
	softDeleteFn func(ctx context.Context, commentID, userID int64) error
}

func (m *mockCommentRepository) Create(ctx context.Context, postID, userID int64, text string) (*model.Comment, error) {
	if m.createFn != nil {
		return m.createFn(ctx, postID, userID, text)
	}
	return &model.Comment{ID: 1, PostID: postID, UserID: userID, Text: text}, nil
}

func (m *mockCommentRepository) GetByID(ctx context.Context, commentID int64) (*model.Comment, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, commentID)
	}
	return nil, model.ErrCommentNotFound
}

func (m *mockCommentRepository) ListByPost(ctx context.Context, postID int64, limit, offset int) ([]model.CommentRow, error) {
	if m.listByPostFn != nil {
		return m.listByPostFn(ctx, postID, limit, offset)
	}
	return nil, nil
}

func (m *mockCommentRepository) Update(ctx context.Context, commentID, userID int64, text string) (*model.Comment, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, commentID, userID, text)
	}
	return nil, model.ErrCommentNotFound
}

func (m *mockCommentRepository) SoftDelete(ctx context.Context, commentID, userID int64) error {
	if m.softDeleteFn != nil {
		return m.softDeleteFn(ctx, commentID, userID)
	}
	return nil
}

// mockPublisher records published events instead of touching Redis.
type mockPublisher struct {
	published []queue.EngagementEvent
	err       error
}

func (m *mockPublisher) Publish(ctx context.Context, stream string, event queue.EngagementEvent) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.published = append(m.published, event)
	return "1-0", nil
}

type mockDeviceTokenRepository struct {
	upsertFn    func(ctx context.Context, userID int64, token, platform string) error
	getActiveFn func(ctx context.Context, userID int64) ([]string, error)

	deactivated []string
	deleted     []string
}

func (m *mockDeviceTokenRepository) Upsert(ctx context.Context, userID int64, token, platform string) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, userID, token, platform)
	}
	return nil
}

func (m *mockDeviceTokenRepository) GetActiveTokensByUserID(ctx context.Context, userID int64) ([]string, error) {
	if m.getActiveFn != nil {
		return m.getActiveFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockDeviceTokenRepository) Deactivate(ctx context.Context, token string) error {
	m.deactivated = append(m.deactivated, token)
	return nil
}

func (m *mockDeviceTokenRepository) Delete(ctx context.Context, userID int64, token string) error {
	m.deleted = append(m.deleted, token)
	return nil
}

// mockPushSender records multicasts and can declare some tokens dead.
type mockPushSender struct {
	sendFn func(ctx context.Context, tokens []string, notif model.PushNotification) (*model.PushResult, []string, error)

	sent []model.PushNotification
}

func (m *mockPushSender) SendMulticast(ctx context.Context, tokens []string, notif model.PushNotification) (*model.PushResult, []string, error) {
	m.sent = append(m.sent, notif)
	if m.sendFn != nil {
		return m.sendFn(ctx, tokens, notif)
	}
	return &model.PushResult{Attempted: len(tokens), SuccessCount: len(tokens)}, nil, nil
}
