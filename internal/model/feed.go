package model

import "fmt"

const (
	DefaultFeedLimit = 20
	MaxFeedLimit     = 100
	DefaultFeedDays  = 2
)

// FeedQuery carries the normalized feed parameters. Always pass it
// through Normalize before handing it to a repository.
type FeedQuery struct {
	ViewerID   int64
	Limit      int
	Offset     int
	Days       int
	IncludeOwn bool
}

// Normalize clamps out-of-range values to safe defaults instead of
// rejecting the request: limit to [1,100] (default 20), offset to >= 0,
// days to >= 1 (default 2).
func (q *FeedQuery) Normalize() {
	if q.Limit <= 0 {
		q.Limit = DefaultFeedLimit
	}
	if q.Limit > MaxFeedLimit {
		q.Limit = MaxFeedLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	if q.Days < 1 {
		q.Days = DefaultFeedDays
	}
}

// TimeWindow renders the trailing window for the feed filters block.
func (q FeedQuery) TimeWindow() string {
	if q.Days == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", q.Days)
}

// FeedPagination describes the page the feed response covers. HasMore
// is an approximation: it is true whenever the page came back full.
type FeedPagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"hasMore"`
}

// FeedFilters echoes the effective filters back to the client.
type FeedFilters struct {
	TimeWindow       string `json:"timeWindow"`
	IncludesOwnPosts bool   `json:"includesOwnPosts"`
}

// FeedResponse is the paginated feed payload.
type FeedResponse struct {
	Posts      []PostDTO      `json:"posts"`
	Pagination FeedPagination `json:"pagination"`
	Filters    FeedFilters    `json:"filters"`
}
