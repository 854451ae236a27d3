package handler

import (
	"encoding/json"
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

type PostHandler struct {
	postService *service.PostService
}

func NewPostHandler(postService *service.PostService) *PostHandler {
	return &PostHandler{
		postService: postService,
	}
}

// Create handles POST /posts
// Creates a new post for the authenticated user.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	post, err := h.postService.Create(r.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrTextRequired):
			httputil.WriteBadRequest(w, "Post text is required")
		case errors.Is(err, model.ErrTextTooLong):
			httputil.WriteBadRequest(w, "Post text too long (max 2000 characters)")
		default:
			log.Printf("[ERROR] Create post handler: user=%d err=%v", userID, err)
			httputil.WriteBadRequest(w, err.Error())
		}
		return
	}

	httputil.WriteCreated(w, post, "Post created successfully")
}

// GetByID handles GET /posts/{id}
// Returns the post with engagement stats plus its comments.
func (h *PostHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	postIDStr := chi.URLParam(r, "id")
	postID, err := strconv.ParseInt(postIDStr, 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}

	// Anonymous viewers get userHasLiked=false
	var viewerID int64
	if id, ok := middleware.GetUserIDFromContext(r.Context()); ok {
		viewerID = id
	}

	detail, err := h.postService.GetByID(r.Context(), postID, viewerID)
	if err != nil {
		if errors.Is(err, model.ErrPostNotFound) {
			httputil.WriteNotFound(w, "Post not found")
			return
		}
		log.Printf("[ERROR] Get post handler: post=%d err=%v", postID, err)
		httputil.WriteInternalError(w, "Failed to get post")
		return
	}

	httputil.WriteSuccess(w, detail)
}

// List handles GET /posts
// Returns recent posts from all active users, newest first.
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset, ok := parsePagination(w, r)
	if !ok {
		return
	}

	var viewerID int64
	if id, ok := middleware.GetUserIDFromContext(r.Context()); ok {
		viewerID = id
	}

	posts, err := h.postService.List(r.Context(), viewerID, limit, offset)
	if err != nil {
		log.Printf("[ERROR] List posts handler: err=%v", err)
		httputil.WriteInternalError(w, "Failed to get posts")
		return
	}

	httputil.WriteSuccess(w, posts)
}

// GetUserPosts handles GET /posts/user/{userId}
// Returns a user's posts, newest first.
func (h *PostHandler) GetUserPosts(w http.ResponseWriter, r *http.Request) {
	userIDStr := chi.URLParam(r, "userId")
	userID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}

	limit, offset, ok := parsePagination(w, r)
	if !ok {
		return
	}

	var viewerID int64
	if id, ok := middleware.GetUserIDFromContext(r.Context()); ok {
		viewerID = id
	}

	posts, err := h.postService.ListByUser(r.Context(), userID, viewerID, limit, offset)
	if err != nil {
		log.Printf("[ERROR] Get user posts handler: user=%d err=%v", userID, err)
		httputil.WriteInternalError(w, "Failed to get user posts")
		return
	}

	httputil.WriteSuccess(w, posts)
}

// Update handles PUT /posts/{id}
// Edits a post's text and feeling (only owner can edit).
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	postIDStr := chi.URLParam(r, "id")
	postID, err := strconv.ParseInt(postIDStr, 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}

	var req model.UpdatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	post, err := h.postService.Update(r.Context(), postID, userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrPostNotFound):
			httputil.WriteNotFound(w, "Post not found")
		case errors.Is(err, model.ErrNotPostOwner):
			httputil.WriteForbidden(w, "You can only edit your own posts")
		case errors.Is(err, model.ErrTextRequired):
			httputil.WriteBadRequest(w, "Post text is required")
		case errors.Is(err, model.ErrTextTooLong):
			httputil.WriteBadRequest(w, "Post text too long (max 2000 characters)")
		default:
			log.Printf("[ERROR] Update post handler: user=%d post=%d err=%v", userID, postID, err)
			httputil.WriteBadRequest(w, err.Error())
		}
		return
	}

	httputil.WriteSuccessMessage(w, post, "Post updated successfully")
}

// Delete handles DELETE /posts/{id}
// Soft-deletes a post (only owner can delete).
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	postIDStr := chi.URLParam(r, "id")
	postID, err := strconv.ParseInt(postIDStr, 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}

	err = h.postService.Delete(r.Context(), postID, userID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrPostNotFound):
			httputil.WriteNotFound(w, "Post not found")
		case errors.Is(err, model.ErrNotPostOwner):
			httputil.WriteForbidden(w, "You can only delete your own posts")
		default:
			log.Printf("[ERROR] Delete post handler: user=%d post=%d err=%v", userID, postID, err)
			httputil.WriteInternalError(w, "Failed to delete post")
		}
		return
	}

	httputil.WriteSuccessMessage(w, nil, "Post deleted successfully")
}

// parsePagination reads limit/offset query params. Out-of-range values
// are clamped later at the service layer; only non-numeric input is a 400.
func parsePagination(w http.ResponseWriter, r *http.Request) (limit, offset int, ok bool) {
	if l := r.URL.Query().Get("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil {
			httputil.WriteBadRequest(w, "Invalid limit parameter")
			return 0, 0, false
		}
		limit = parsed
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		parsed, err := strconv.Atoi(o)
		if err != nil {
			httputil.WriteBadRequest(w, "Invalid offset parameter")
			return 0, 0, false
		}
		offset = parsed
	}
	return limit, offset, true
}
