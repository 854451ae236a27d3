package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"moodring/internal/model"
)

func TestPostFormatter_FormatRow(t *testing.T) {
	formatter := NewPostFormatter(&mockPostRepository{}, &mockUserRepository{})

	username := "alice"
	displayName := "Alice"
	row := model.PostRow{
		ID:                100,
		UserID:            1,
		Text:              "hello",
		AuthorUsername:    &username,
		AuthorDisplayName: &displayName,
		LikeCount:         3,
		CommentCount:      2,
		UserHasLiked:      true,
	}

	dto := formatter.FormatRow(&row)

	if dto.ID != 100 || dto.Text != "hello" {
		t.Errorf("dto = %+v", dto)
	}
	if dto.Author.Username != "alice" {
		t.Errorf("author username = %q, want %q", dto.Author.Username, "alice")
	}
	if dto.Author.DisplayName == nil || *dto.Author.DisplayName != "Alice" {
		t.Errorf("author display name = %v, want Alice", dto.Author.DisplayName)
	}
	if dto.Stats.LikeCount != 3 || dto.Stats.CommentCount != 2 || !dto.Stats.UserHasLiked {
		t.Errorf("stats = %+v", dto.Stats)
	}
}

// A row whose author join came back null (deactivated or deleted user)
// renders with the placeholder name instead of failing.
func TestPostFormatter_FormatRow_UnknownAuthor(t *testing.T) {
	formatter := NewPostFormatter(&mockPostRepository{}, &mockUserRepository{})

	row := model.PostRow{ID: 100, UserID: 1, Text: "orphaned"}
	dto := formatter.FormatRow(&row)

	if dto.Author.Username != model.UnknownUsername {
		t.Errorf("author username = %q, want %q", dto.Author.Username, model.UnknownUsername)
	}
	if dto.Author.ID != 1 {
		t.Errorf("author id = %d, want 1", dto.Author.ID)
	}
}

func TestPostFormatter_FormatPost(t *testing.T) {
	username := "bob"
	mockUsers := &mockUserRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			return &model.User{ID: id, Username: username}, nil
		},
	}
	mockPosts := &mockPostRepository{
		getEngagementFn: func(ctx context.Context, postID, viewerID int64) (model.EngagementStats, error) {
			return model.EngagementStats{LikeCount: 7, CommentCount: 1, UserHasLiked: viewerID == 2}, nil
		},
	}
	formatter := NewPostFormatter(mockPosts, mockUsers)

	post := model.Post{ID: 100, UserID: 1, Text: "hi"}

	dto, err := formatter.FormatPost(context.Background(), &post, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dto.Author.Username != "bob" {
		t.Errorf("author username = %q, want bob", dto.Author.Username)
	}
	if dto.Stats.LikeCount != 7 || !dto.Stats.UserHasLiked {
		t.Errorf("stats = %+v", dto.Stats)
	}
}

func TestPostFormatter_FormatPost_MissingAuthor(t *testing.T) {
	mockUsers := &mockUserRepository{} // GetByID defaults to ErrUserNotFound
	mockPosts := &mockPostRepository{
		getEngagementFn: func(ctx context.Context, postID, viewerID int64) (model.EngagementStats, error) {
			return model.EngagementStats{}, nil
		},
	}
	formatter := NewPostFormatter(mockPosts, mockUsers)

	dto, err := formatter.FormatPost(context.Background(), &model.Post{ID: 1, UserID: 9}, 0)
	if err != nil {
		t.Fatalf("missing author should degrade, not fail: %v", err)
	}
	if dto.Author.Username != model.UnknownUsername {
		t.Errorf("author username = %q, want %q", dto.Author.Username, model.UnknownUsername)
	}
}

func TestPostFormatter_FormatPost_StatsError(t *testing.T) {
	statsErr := errors.New("query failed")
	mockUsers := &mockUserRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			return &model.User{ID: id, Username: "bob"}, nil
		},
	}
	mockPosts := &mockPostRepository{
		getEngagementFn: func(ctx context.Context, postID, viewerID int64) (model.EngagementStats, error) {
			return model.EngagementStats{}, statsErr
		},
	}
	formatter := NewPostFormatter(mockPosts, mockUsers)

	_, err := formatter.FormatPost(context.Background(), &model.Post{ID: 1, UserID: 9}, 0)
	if !errors.Is(err, statsErr) {
		t.Errorf("error = %v, want %v", err, statsErr)
	}
}

// Concurrent enrichment must keep results aligned with input order.
func TestPostFormatter_FormatPosts_PreservesOrder(t *testing.T) {
	mockUsers := &mockUserRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			username := fmt.Sprintf("user%d", id)
			return &model.User{ID: id, Username: username}, nil
		},
	}
	mockPosts := &mockPostRepository{
		getEngagementFn: func(ctx context.Context, postID, viewerID int64) (model.EngagementStats, error) {
			return model.EngagementStats{LikeCount: int(postID)}, nil
		},
	}
	formatter := NewPostFormatter(mockPosts, mockUsers)

	const n = 30
	posts := make([]model.Post, n)
	for i := range posts {
		posts[i] = model.Post{ID: int64(i + 1), UserID: int64(i + 1)}
	}

	dtos, err := formatter.FormatPosts(context.Background(), posts, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dtos) != n {
		t.Fatalf("got %d dtos, want %d", len(dtos), n)
	}
	for i, dto := range dtos {
		wantID := int64(i + 1)
		if dto.ID != wantID {
			t.Errorf("dtos[%d].ID = %d, want %d", i, dto.ID, wantID)
		}
		if dto.Stats.LikeCount != int(wantID) {
			t.Errorf("dtos[%d] stats = %+v", i, dto.Stats)
		}
	}
}

func TestPostFormatter_FormatPosts_PropagatesError(t *testing.T) {
	statsErr := errors.New("boom")
	mockUsers := &mockUserRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			return &model.User{ID: id, Username: "x"}, nil
		},
	}
	mockPosts := &mockPostRepository{
		getEngagementFn: func(ctx context.Context, postID, viewerID int64) (model.EngagementStats, error) {
			if postID == 3 {
				return model.EngagementStats{}, statsErr
			}
			return model.EngagementStats{}, nil
		},
	}
	formatter := NewPostFormatter(mockPosts, mockUsers)

	posts := []model.Post{{ID: 1, UserID: 1}, {ID: 2, UserID: 2}, {ID: 3, UserID: 3}}
	_, err := formatter.FormatPosts(context.Background(), posts, 0)
	if !errors.Is(err, statsErr) {
		t.Errorf("error = %v, want %v", err, statsErr)
	}
}

func TestPostFormatter_FormatCommentRow_UnknownAuthor(t *testing.T) {
	formatter := NewPostFormatter(&mockPostRepository{}, &mockUserRepository{})

	row := model.CommentRow{ID: 5, PostID: 100, UserID: 1, Text: "nice"}
	dto := formatter.FormatCommentRow(&row)

	if dto.Author.Username != model.UnknownUsername {
		t.Errorf("author username = %q, want %q", dto.Author.Username, model.UnknownUsername)
	}
	if dto.PostID != 100 || dto.Text != "nice" {
		t.Errorf("dto = %+v", dto)
	}
}
