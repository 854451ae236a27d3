package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"moodring/internal/model"
	"moodring/internal/repository"
)

// formatConcurrency bounds the fan-out when enriching bare posts.
const formatConcurrency = 8

// PostFormatter converts either post row shape into the canonical
// PostDTO. Joined rows (PostRow) convert without touching storage;
// bare rows (Post) get their author and stats resolved on demand.
type PostFormatter struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
}

func NewPostFormatter(postRepo repository.PostRepository, userRepo repository.UserRepository) *PostFormatter {
	return &PostFormatter{
		postRepo: postRepo,
		userRepo: userRepo,
	}
}

// FormatRow converts a joined row. No storage access: author and stats
// were already computed by the listing query. A null author username
// (missing or deactivated author) falls back to the "unknown" placeholder
// rather than failing the response.
func (f *PostFormatter) FormatRow(row *model.PostRow) model.PostDTO {
	author := model.PostAuthor{
		ID:          row.UserID,
		Username:    model.UnknownUsername,
		DisplayName: row.AuthorDisplayName,
		AvatarURL:   row.AuthorAvatarURL,
	}
	if row.AuthorUsername != nil {
		author.Username = *row.AuthorUsername
	}

	return model.PostDTO{
		ID:           row.ID,
		Text:         row.Text,
		FeelingEmoji: row.FeelingEmoji,
		FeelingName:  row.FeelingName,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
		Author:       author,
		Stats: model.EngagementStats{
			LikeCount:    row.LikeCount,
			CommentCount: row.CommentCount,
			UserHasLiked: row.UserHasLiked,
		},
	}
}

// FormatRows converts a page of joined rows, preserving row order.
func (f *PostFormatter) FormatRows(rows []model.PostRow) []model.PostDTO {
	dtos := make([]model.PostDTO, len(rows))
	for i := range rows {
		dtos[i] = f.FormatRow(&rows[i])
	}
	return dtos
}

// FormatPost converts a bare post by resolving the author and running
// the follow-up engagement query. viewerID 0 means anonymous. A missing
// author degrades to the placeholder; a failed stats query is a real
// error.
func (f *PostFormatter) FormatPost(ctx context.Context, post *model.Post, viewerID int64) (model.PostDTO, error) {
	author := model.PostAuthor{
		ID:       post.UserID,
		Username: model.UnknownUsername,
	}
	user, err := f.userRepo.GetByID(ctx, post.UserID)
	switch {
	case err == nil:
		author.Username = user.Username
		author.DisplayName = user.DisplayName
		author.AvatarURL = user.AvatarURL
	case errors.Is(err, model.ErrUserNotFound):
		// keep the placeholder
	default:
		return model.PostDTO{}, fmt.Errorf("resolve author: %w", err)
	}

	stats, err := f.postRepo.GetEngagement(ctx, post.ID, viewerID)
	if err != nil {
		return model.PostDTO{}, err
	}

	return model.PostDTO{
		ID:           post.ID,
		Text:         post.Text,
		FeelingEmoji: post.FeelingEmoji,
		FeelingName:  post.FeelingName,
		CreatedAt:    post.CreatedAt,
		UpdatedAt:    post.UpdatedAt,
		Author:       author,
		Stats:        stats,
	}, nil
}

// FormatPosts enriches a batch of bare posts concurrently. Each post is
// resolved independently; results land in the slot matching the input
// index, so completion order never reorders the output.
func (f *PostFormatter) FormatPosts(ctx context.Context, posts []model.Post, viewerID int64) ([]model.PostDTO, error) {
	dtos := make([]model.PostDTO, len(posts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(formatConcurrency)
	for i := range posts {
		g.Go(func() error {
			dto, err := f.FormatPost(gctx, &posts[i], viewerID)
			if err != nil {
				return err
			}
			dtos[i] = dto
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return dtos, nil
}

// FormatCommentRow converts a joined comment row, with the same author
// fallback rules as posts.
func (f *PostFormatter) FormatCommentRow(row *model.CommentRow) model.CommentDTO {
	author := model.PostAuthor{
		ID:          row.UserID,
		Username:    model.UnknownUsername,
		DisplayName: row.AuthorDisplayName,
		AvatarURL:   row.AuthorAvatarURL,
	}
	if row.AuthorUsername != nil {
		author.Username = *row.AuthorUsername
	}

	return model.CommentDTO{
		ID:        row.ID,
		PostID:    row.PostID,
		Text:      row.Text,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
		Author:    author,
	}
}

// FormatCommentRows converts a page of comment rows, preserving order.
func (f *PostFormatter) FormatCommentRows(rows []model.CommentRow) []model.CommentDTO {
	dtos := make([]model.CommentDTO, len(rows))
	for i := range rows {
		dtos[i] = f.FormatCommentRow(&rows[i])
	}
	return dtos
}
