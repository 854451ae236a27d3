package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"moodring/internal/httputil"
	"moodring/internal/model"
	"moodring/internal/service"
	"moodring/internal/transport/http/middleware"
)

type NotificationHandler struct {
	pushService *service.PushService
}

func NewNotificationHandler(pushService *service.PushService) *NotificationHandler {
	return &NotificationHandler{
		pushService: pushService,
	}
}

// RegisterToken handles POST /notifications/device-token
// Registers a device token for push notifications. Re-registering an
// existing token reclaims it for the authenticated user.
func (h *NotificationHandler) RegisterToken(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.RegisterTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if req.Token == "" {
		httputil.WriteBadRequest(w, "token is required")
		return
	}

	if err := h.pushService.RegisterDeviceToken(r.Context(), userID, &req); err != nil {
		log.Printf("[ERROR] Register device token: user=%d err=%v", userID, err)
		httputil.WriteInternalError(w, "Failed to register device token")
		return
	}

	httputil.WriteSuccessMessage(w, nil, "Device token registered")
}

// RemoveToken handles DELETE /notifications/device-token
// Removes a device token (e.g., on logout).
func (h *NotificationHandler) RemoveToken(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.DeleteTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if req.Token == "" {
		httputil.WriteBadRequest(w, "token is required")
		return
	}

	if err := h.pushService.DeleteDeviceToken(r.Context(), userID, req.Token); err != nil {
		log.Printf("[ERROR] Remove device token: user=%d err=%v", userID, err)
		httputil.WriteInternalError(w, "Failed to remove device token")
		return
	}

	httputil.WriteSuccessMessage(w, nil, "Device token removed")
}

// SendTest handles POST /notifications/test
// Sends a test push to the caller's own devices so clients can verify
// their token registration end to end.
func (h *NotificationHandler) SendTest(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	result, err := h.pushService.SendTest(r.Context(), userID)
	if err != nil {
		log.Printf("[ERROR] Send test push: user=%d err=%v", userID, err)
		httputil.WriteInternalError(w, "Failed to send test notification")
		return
	}

	if result.Attempted == 0 {
		httputil.WriteNotFound(w, "No registered devices for this user")
		return
	}

	httputil.WriteSuccessMessage(w, result, "Test notification sent")
}
