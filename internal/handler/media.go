package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"moodring/internal/httputil"
	"moodring/internal/model"
	"moodring/internal/service"
	"moodring/internal/transport/http/middleware"
)

type MediaHandler struct {
	mediaService *service.MediaService
}

func NewMediaHandler(mediaService *service.MediaService) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

// PresignAvatarUpload handles POST /media/avatar/presign
// Returns a presigned URL for uploading an avatar directly to S3.
func (h *MediaHandler) PresignAvatarUpload(w http.ResponseWriter, r *http.Request) {
	_, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB is plenty for JSON
	var req model.PresignAvatarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	req.ContentType = strings.TrimSpace(req.ContentType)
	if req.ContentType == "" {
		httputil.WriteBadRequest(w, "content_type is required")
		return
	}

	res, err := h.mediaService.PresignAvatarUpload(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidImageType):
			httputil.WriteBadRequest(w, "Unsupported image type. Allowed: jpeg, png, gif, webp")
		case errors.Is(err, model.ErrFileTooLarge):
			httputil.WriteBadRequest(w, "Avatar exceeds 5MB limit")
		default:
			httputil.WriteInternalError(w, "Failed to create upload URL")
		}
		return
	}

	httputil.WriteSuccess(w, res)
}
