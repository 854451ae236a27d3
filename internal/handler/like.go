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

type LikeHandler struct {
	likeService *service.LikeService
}

func NewLikeHandler(likeService *service.LikeService) *LikeHandler {
	return &LikeHandler{
		likeService: likeService,
	}
}

// Like handles POST /likes/post/{postId}
// Idempotent: liking an already-liked post succeeds with a distinct message.
func (h *LikeHandler) Like(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	postID, ok := parsePostID(w, r)
	if !ok {
		return
	}

	alreadyLiked, err := h.likeService.Like(r.Context(), postID, userID)
	if err != nil {
		if errors.Is(err, model.ErrPostNotFound) {
			httputil.WriteNotFound(w, "Post not found")
			return
		}
		log.Printf("[ERROR] Like handler: user=%d post=%d err=%v", userID, postID, err)
		httputil.WriteInternalError(w, "Failed to like post")
		return
	}

	if alreadyLiked {
		httputil.WriteSuccessMessage(w, nil, "Post already liked")
		return
	}
	httputil.WriteSuccessMessage(w, nil, "Post liked successfully")
}

// Unlike handles DELETE /likes/post/{postId}
func (h *LikeHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	postID, ok := parsePostID(w, r)
	if !ok {
		return
	}

	err := h.likeService.Unlike(r.Context(), postID, userID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrPostNotFound):
			httputil.WriteNotFound(w, "Post not found")
		case errors.Is(err, model.ErrNotLiked):
			httputil.WriteNotFound(w, "Post not liked")
		default:
			log.Printf("[ERROR] Unlike handler: user=%d post=%d err=%v", userID, postID, err)
			httputil.WriteInternalError(w, "Failed to unlike post")
		}
		return
	}

	httputil.WriteSuccessMessage(w, nil, "Post unliked successfully")
}

// Check handles GET /likes/post/{postId}/check
// Returns whether the authenticated user likes the post, plus the count.
func (h *LikeHandler) Check(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	postID, ok := parsePostID(w, r)
	if !ok {
		return
	}

	status, err := h.likeService.Check(r.Context(), postID, userID)
	if err != nil {
		if errors.Is(err, model.ErrPostNotFound) {
			httputil.WriteNotFound(w, "Post not found")
			return
		}
		log.Printf("[ERROR] Check like handler: user=%d post=%d err=%v", userID, postID, err)
		httputil.WriteInternalError(w, "Failed to check like status")
		return
	}

	httputil.WriteSuccess(w, status)
}

// GetLikers handles GET /likes/post/{postId}
// Returns the users who liked the post, most recent first.
func (h *LikeHandler) GetLikers(w http.ResponseWriter, r *http.Request) {
	postID, ok := parsePostID(w, r)
	if !ok {
		return
	}

	limit, offset, ok := parsePagination(w, r)
	if !ok {
		return
	}

	likers, err := h.likeService.GetLikers(r.Context(), postID, limit, offset)
	if err != nil {
		if errors.Is(err, model.ErrPostNotFound) {
			httputil.WriteNotFound(w, "Post not found")
			return
		}
		log.Printf("[ERROR] GetLikers handler: post=%d err=%v", postID, err)
		httputil.WriteInternalError(w, "Failed to get likers")
		return
	}

	httputil.WriteSuccess(w, likers)
}

func parsePostID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	postIDStr := chi.URLParam(r, "postId")
	postID, err := strconv.ParseInt(postIDStr, 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return 0, false
	}
	return postID, true
}
