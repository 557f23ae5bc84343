package service

import (
	"context"
	"strings"

	"yatube/internal/model"
	"yatube/internal/pkg"
)

type CommentService struct {
	posts    PostRepository
	comments CommentRepository
}

func NewCommentService(posts PostRepository, comments CommentRepository) *CommentService {
	return &CommentService{posts: posts, comments: comments}
}

// Add 匿名返回 ErrUnauthenticated，帖子不存在返回 ErrNotFound
func (s *CommentService) Add(ctx context.Context, viewerID, postID uint64, text string) (*model.Comment, error) {
	if viewerID == 0 {
		return nil, pkg.ErrUnauthenticated
	}
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, (&pkg.ValidationError{}).Add("text", "This field is required.")
	}
	c := &model.Comment{PostID: postID, AuthorID: viewerID, Text: text}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CommentService) List(ctx context.Context, postID uint64) ([]model.Comment, error) {
	return s.comments.ListByPost(ctx, postID)
}
