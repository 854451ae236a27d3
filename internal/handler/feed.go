package handler

import (
	"log"
	"net/http"
	"strconv"

	"moodring/internal/httputil"
	"moodring/internal/model"
	"moodring/internal/service"
	"moodring/internal/transport/http/middleware"
)

type FeedHandler struct {
	feedService *service.FeedService
}

func NewFeedHandler(feedService *service.FeedService) *FeedHandler {
	return &FeedHandler{
		feedService: feedService,
	}
}

// GetFeed handles GET /feed
// Returns the chronological feed for the authenticated user.
//
// Query params:
//   - limit: posts per page (default 20, max 100)
//   - offset: rows to skip (default 0)
//   - days: time window in days (default 2)
//   - includeOwn: include the viewer's own posts (default false)
//
// Out-of-range values are clamped rather than rejected; only
// non-numeric input is a 400.
func (h *FeedHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	q := model.FeedQuery{ViewerID: userID}

	if l := r.URL.Query().Get("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil {
			httputil.WriteBadRequest(w, "Invalid limit parameter")
			return
		}
		q.Limit = parsed
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		parsed, err := strconv.Atoi(o)
		if err != nil {
			httputil.WriteBadRequest(w, "Invalid offset parameter")
			return
		}
		q.Offset = parsed
	}
	if d := r.URL.Query().Get("days"); d != "" {
		parsed, err := strconv.Atoi(d)
		if err != nil {
			httputil.WriteBadRequest(w, "Invalid days parameter")
			return
		}
		q.Days = parsed
	}
	if io := r.URL.Query().Get("includeOwn"); io != "" {
		parsed, err := strconv.ParseBool(io)
		if err != nil {
			httputil.WriteBadRequest(w, "Invalid includeOwn parameter")
			return
		}
		q.IncludeOwn = parsed
	}

	feed, err := h.feedService.GetFeed(r.Context(), q)
	if err != nil {
		log.Printf("[ERROR] GetFeed handler: user=%d err=%v", userID, err)
		httputil.WriteInternalError(w, "Failed to get feed")
		return
	}

	httputil.WriteSuccess(w, feed)
}
