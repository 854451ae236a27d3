package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"moodring/internal/httputil"
	"moodring/internal/model"
	"moodring/internal/service"
	"moodring/internal/transport/http/middleware"
)

type FollowHandler struct {
	followService *service.FollowService
}

func NewFollowHandler(followService *service.FollowService) *FollowHandler {
	return &FollowHandler{
		followService: followService,
	}
}

// Follow handles POST /follows/user/{userId}
func (h *FollowHandler) Follow(w http.ResponseWriter, r *http.Request) {
	followerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	followingID, ok := parseTargetUserID(w, r)
	if !ok {
		return
	}

	if err := h.followService.Follow(r.Context(), followerID, followingID); err != nil {
		switch {
		case errors.Is(err, model.ErrCannotFollowSelf):
			httputil.WriteBadRequest(w, "Cannot follow yourself")
		case errors.Is(err, model.ErrAlreadyFollowing):
			httputil.WriteConflict(w, "Already following this user")
		case errors.Is(err, model.ErrUserNotFound):
			httputil.WriteNotFound(w, "User not found")
		default:
			log.Printf("[ERROR] Follow handler: follower=%d following=%d err=%v", followerID, followingID, err)
			httputil.WriteInternalError(w, "Failed to follow user")
		}
		return
	}

	httputil.WriteSuccessMessage(w, nil, "Successfully followed user")
}

// Unfollow handles DELETE /follows/user/{userId}
func (h *FollowHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	followerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	followingID, ok := parseTargetUserID(w, r)
	if !ok {
		return
	}

	if err := h.followService.Unfollow(r.Context(), followerID, followingID); err != nil {
		switch {
		case errors.Is(err, model.ErrNotFollowing):
			httputil.WriteNotFound(w, "Not following this user")
		default:
			log.Printf("[ERROR] Unfollow handler: follower=%d following=%d err=%v", followerID, followingID, err)
			httputil.WriteInternalError(w, "Failed to unfollow user")
		}
		return
	}

	httputil.WriteSuccessMessage(w, nil, "Successfully unfollowed user")
}

// Check handles GET /follows/user/{userId}/check
// Returns whether the authenticated user follows the target user.
func (h *FollowHandler) Check(w http.ResponseWriter, r *http.Request) {
	followerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	followingID, ok := parseTargetUserID(w, r)
	if !ok {
		return
	}

	following, err := h.followService.IsFollowing(r.Context(), followerID, followingID)
	if err != nil {
		log.Printf("[ERROR] Check follow handler: follower=%d following=%d err=%v", followerID, followingID, err)
		httputil.WriteInternalError(w, "Failed to check follow status")
		return
	}

	httputil.WriteSuccess(w, map[string]bool{"isFollowing": following})
}

// GetFollowers handles GET /follows/user/{userId}/followers
func (h *FollowHandler) GetFollowers(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseTargetUserID(w, r)
	if !ok {
		return
	}

	limit, offset, ok := parsePagination(w, r)
	if !ok {
		return
	}

	result, err := h.followService.GetFollowers(r.Context(), userID, limit, offset)
	if err != nil {
		log.Printf("[ERROR] GetFollowers handler: user=%d err=%v", userID, err)
		httputil.WriteInternalError(w, "Failed to fetch followers")
		return
	}

	httputil.WriteSuccess(w, result)
}

// GetFollowing handles GET /follows/user/{userId}/following
func (h *FollowHandler) GetFollowing(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseTargetUserID(w, r)
	if !ok {
		return
	}

	limit, offset, ok := parsePagination(w, r)
	if !ok {
		return
	}

	result, err := h.followService.GetFollowing(r.Context(), userID, limit, offset)
	if err != nil {
		log.Printf("[ERROR] GetFollowing handler: user=%d err=%v", userID, err)
		httputil.WriteInternalError(w, "Failed to fetch following")
		return
	}

	httputil.WriteSuccess(w, result)
}

func parseTargetUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userIDStr := chi.URLParam(r, "userId")
	userID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return 0, false
	}
	return userID, true
}
