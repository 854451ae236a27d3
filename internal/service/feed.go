package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"moodring/internal/model"
	"moodring/internal/repository"
)

// FeedService assembles the chronological feed: one ad-hoc join per
// request, no materialized feed state anywhere.
type FeedService struct {
	postRepo  repository.PostRepository
	formatter *PostFormatter
}

func NewFeedService(postRepo repository.PostRepository, formatter *PostFormatter) *FeedService {
	return &FeedService{
		postRepo:  postRepo,
		formatter: formatter,
	}
}

// GetFeed returns one feed page for the viewer. Out-of-range parameters
// are clamped, not rejected. HasMore is an approximation: true whenever
// the page came back full, so the last page reads hasMore=true when the
// total is an exact multiple of the limit. The client only uses it to
// decide whether to ask for another page, so the extra empty fetch is
// accepted over a second COUNT query per request.
func (s *FeedService) GetFeed(ctx context.Context, q model.FeedQuery) (*model.FeedResponse, error) {
	startTime := time.Now()

	if q.ViewerID <= 0 {
		return nil, fmt.Errorf("viewer id is required")
	}
	q.Normalize()

	rows, err := s.postRepo.ListFeed(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list feed: %w", err)
	}

	posts := s.formatter.FormatRows(rows)
	hasMore := len(posts) == q.Limit

	log.Printf("[FeedService] GetFeed OK: user=%d posts=%d hasMore=%v duration=%v",
		q.ViewerID, len(posts), hasMore, time.Since(startTime))

	return &model.FeedResponse{
		Posts: posts,
		Pagination: model.FeedPagination{
			Limit:   q.Limit,
			Offset:  q.Offset,
			HasMore: hasMore,
		},
		Filters: model.FeedFilters{
			TimeWindow:       q.TimeWindow(),
			IncludesOwnPosts: q.IncludeOwn,
		},
	}, nil
}
