package service

import (
	"context"
	"fmt"

	"github.com/forgo/quill/api/internal/model"
)

// CommentRepository defines the interface for comment storage
type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	ListByBlog(ctx context.Context, blogID string) ([]*model.CommentDetail, error)
}

// BlogLookup is the part of blog storage comments depend on
type BlogLookup interface {
	GetByID(ctx context.Context, id string) (*model.Blog, error)
}

// CommentService handles comment business logic
type CommentService struct {
	commentRepo CommentRepository
	blogs       BlogLookup
}

// CommentServiceConfig holds configuration for the comment service
type CommentServiceConfig struct {
	CommentRepo CommentRepository
	Blogs       BlogLookup
}

// NewCommentService creates a new comment service
func NewCommentService(cfg CommentServiceConfig) *CommentService {
	return &CommentService{
		commentRepo: cfg.CommentRepo,
		blogs:       cfg.Blogs,
	}
}

// CreateCommentRequest represents a new comment
type CreateCommentRequest struct {
	Blog    string
	Author  string
	Content string
}

// Create posts a comment as the caller on an existing blog
func (s *CommentService) Create(ctx context.Context, callerID string, req CreateCommentRequest) (*model.Comment, error) {
	if req.Author != callerID {
		return nil, ErrNotCommentAuthor
	}

	blog, err := s.blogs.GetByID(ctx, req.Blog)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if blog == nil {
		return nil, ErrBlogNotFound
	}

	comment := &model.Comment{
		Blog:    blog.ID,
		Author:  callerID,
		Content: req.Content,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	return comment, nil
}

// ListByBlog returns a blog's comments, oldest first. An unknown blog has none.
func (s *CommentService) ListByBlog(ctx context.Context, blogID string) ([]*model.CommentDetail, error) {
	comments, err := s.commentRepo.ListByBlog(ctx, blogID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return comments, nil
}
