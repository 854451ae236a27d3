package repository

import (
	"context"
	"time"

	"moodring/internal/model"
)

// Every write below is a single atomic statement. Idempotent inserts
// (likes, follows) lean on unique constraints instead of pre-checks, so
// concurrent duplicates resolve in the database, not in Go.

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateProfile(ctx context.Context, id int64, req *model.UpdateProfileRequest) (*model.User, error)
	UpdateAvatar(ctx context.Context, id int64, avatarURL, avatarKey string) error
	Search(ctx context.Context, query string, limit int) ([]model.UserSummary, error)
	// GetProfileCounts computes follower/following/post counts by counting
	// rows; nothing denormalized is maintained.
	GetProfileCounts(ctx context.Context, userID int64) (followers, following, posts int, err error)
}

type RefreshTokenRepository interface {
	Create(ctx context.Context, token *model.RefreshToken) error
	FindByTokenHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error)
	Revoke(ctx context.Context, id string, replacedBy *string) error
	RevokeAllForUser(ctx context.Context, userID int64) error
	DeleteExpired(ctx context.Context, olderThan time.Duration) (int64, error)
}

type FollowRepository interface {
	// Create returns false when the edge already existed.
	Create(ctx context.Context, followerID, followingID int64) (bool, error)
	// Delete returns false when there was no edge to remove.
	Delete(ctx context.Context, followerID, followingID int64) (bool, error)
	Exists(ctx context.Context, followerID, followingID int64) (bool, error)
	GetFollowers(ctx context.Context, userID int64, limit, offset int) ([]model.UserSummary, error)
	GetFollowing(ctx context.Context, userID int64, limit, offset int) ([]model.UserSummary, error)
}

type PostRepository interface {
	Create(ctx context.Context, userID int64, req *model.CreatePostRequest) (*model.Post, error)
	// GetByID returns the bare row shape: no author, no stats.
	GetByID(ctx context.Context, postID int64) (*model.Post, error)
	// GetRowByID returns the joined shape with author and viewer-scoped stats.
	GetRowByID(ctx context.Context, postID, viewerID int64) (*model.PostRow, error)
	// GetEngagement is the follow-up-query path for stats when a read
	// produced a bare Post.
	GetEngagement(ctx context.Context, postID, viewerID int64) (model.EngagementStats, error)
	ListFeed(ctx context.Context, q model.FeedQuery) ([]model.PostRow, error)
	ListRecent(ctx context.Context, viewerID int64, limit, offset int) ([]model.PostRow, error)
	ListByUser(ctx context.Context, userID, viewerID int64, limit, offset int) ([]model.PostRow, error)
	Update(ctx context.Context, postID, userID int64, req *model.UpdatePostRequest) (*model.Post, error)
	SoftDelete(ctx context.Context, postID, userID int64) error
	GetAuthorID(ctx context.Context, postID int64) (int64, error)
	// Exists checks if a post exists (not deleted)
	Exists(ctx context.Context, postID int64) (bool, error)
}

type LikeRepository interface {
	// Create returns false when the viewer had already liked the post.
	Create(ctx context.Context, postID, userID int64) (bool, error)
	// Delete returns false when there was no like to remove.
	Delete(ctx context.Context, postID, userID int64) (bool, error)
	Exists(ctx context.Context, postID, userID int64) (bool, error)
	CountByPost(ctx context.Context, postID int64) (int, error)
	GetPostLikers(ctx context.Context, postID int64, limit, offset int) ([]model.UserSummary, error)
}

type CommentRepository interface {
	Create(ctx context.Context, postID, userID int64, text string) (*model.Comment, error)
	GetByID(ctx context.Context, commentID int64) (*model.Comment, error)
	ListByPost(ctx context.Context, postID int64, limit, offset int) ([]model.CommentRow, error)
	Update(ctx context.Context, commentID, userID int64, text string) (*model.Comment, error)
	SoftDelete(ctx context.Context, commentID, userID int64) error
}

type DeviceTokenRepository interface {
	// Upsert registers a token, reassigning it to userID and reactivating
	// it if some other account registered it before.
	Upsert(ctx context.Context, userID int64, token, platform string) error
	GetActiveTokensByUserID(ctx context.Context, userID int64) ([]string, error)
	// Deactivate flags a token the push provider reported as dead.
	Deactivate(ctx context.Context, token string) error
	Delete(ctx context.Context, userID int64, token string) error
}
