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

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// GetProfile handles GET /users/{id}
// Returns the public profile with counts and follow state for the viewer.
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userIDStr := chi.URLParam(r, "id")
	userID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}

	var viewerID *int64
	if id, ok := middleware.GetUserIDFromContext(r.Context()); ok {
		viewerID = &id
	}

	profile, err := h.userService.GetProfile(r.Context(), userID, viewerID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, "User not found")
			return
		}
		log.Printf("[ERROR] GetProfile handler: user=%d err=%v", userID, err)
		httputil.WriteInternalError(w, "Failed to get profile")
		return
	}

	httputil.WriteSuccess(w, profile)
}

// GetProfileByUsername handles GET /users/username/{username}
func (h *UserHandler) GetProfileByUsername(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	if username == "" {
		httputil.WriteBadRequest(w, "Username is required")
		return
	}

	var viewerID *int64
	if id, ok := middleware.GetUserIDFromContext(r.Context()); ok {
		viewerID = &id
	}

	profile, err := h.userService.GetProfileByUsername(r.Context(), username, viewerID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, "User not found")
			return
		}
		log.Printf("[ERROR] GetProfileByUsername handler: username=%s err=%v", username, err)
		httputil.WriteInternalError(w, "Failed to get profile")
		return
	}

	httputil.WriteSuccess(w, profile)
}

// UpdateMe handles PUT /users/me
// Updates the authenticated user's display name and bio.
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateProfile(r.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, "User not found")
			return
		}
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	httputil.WriteSuccessMessage(w, user, "Profile updated successfully")
}

// Search handles GET /users/search?query=
// Prefix search on username; an empty query returns an empty list.
func (h *UserHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")

	users, err := h.userService.Search(r.Context(), query)
	if err != nil {
		log.Printf("[ERROR] Search handler: query=%q err=%v", query, err)
		httputil.WriteInternalError(w, "Failed to search users")
		return
	}

	httputil.WriteSuccess(w, users)
}
