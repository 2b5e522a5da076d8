package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/forgo/quill/api/internal/model"
	"github.com/forgo/quill/api/internal/storage"
)

// BlogRepository defines the interface for blog storage
type BlogRepository interface {
	Create(ctx context.Context, blog *model.Blog) error
	GetByID(ctx context.Context, id string) (*model.Blog, error)
	GetDetail(ctx context.Context, id string) (*model.BlogDetail, error)
	List(ctx context.Context) ([]*model.Blog, error)
	Update(ctx context.Context, blog *model.Blog) error
	Delete(ctx context.Context, id string) error
}

// ImageStore persists base64 encoded images and returns their URLs
type ImageStore interface {
	Save(ctx context.Context, owner, encoded string) (string, error)
	Delete(ctx context.Context, url string) error
}

// BlogService handles blog business logic
type BlogService struct {
	blogRepo BlogRepository
	images   ImageStore
}

// BlogServiceConfig holds configuration for the blog service
type BlogServiceConfig struct {
	BlogRepo BlogRepository
	Images   ImageStore
}

// NewBlogService creates a new blog service
func NewBlogService(cfg BlogServiceConfig) *BlogService {
	return &BlogService{
		blogRepo: cfg.BlogRepo,
		images:   cfg.Images,
	}
}

// CreateBlogRequest represents a new blog post
type CreateBlogRequest struct {
	Title   string
	Content string
	Author  string
	Photo   string // base64, optionally with a data URL prefix
}

// UpdateBlogRequest represents an edit to an existing blog post.
// An empty Photo keeps the current image.
type UpdateBlogRequest struct {
	ID      string
	Title   string
	Content string
	Author  string
	Photo   string
}

// Create stores the cover image and then the blog. Posts can only be
// created on behalf of the caller.
func (s *BlogService) Create(ctx context.Context, callerID string, req CreateBlogRequest) (*model.Blog, error) {
	if req.Author != callerID {
		return nil, ErrNotBlogAuthor
	}

	photoURL, err := s.saveImage(ctx, callerID, req.Photo)
	if err != nil {
		return nil, err
	}

	blog := &model.Blog{
		Title:     strings.TrimSpace(req.Title),
		Content:   req.Content,
		PhotoPath: photoURL,
		Author:    callerID,
	}

	if err := s.blogRepo.Create(ctx, blog); err != nil {
		s.discardImage(ctx, photoURL)
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	return blog, nil
}

// List returns all blogs, newest first
func (s *BlogService) List(ctx context.Context) ([]*model.Blog, error) {
	blogs, err := s.blogRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return blogs, nil
}

// GetDetail returns a blog with its author's name and username
func (s *BlogService) GetDetail(ctx context.Context, id string) (*model.BlogDetail, error) {
	blog, err := s.blogRepo.GetDetail(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if blog == nil {
		return nil, ErrBlogNotFound
	}
	return blog, nil
}

// Update edits a blog owned by the caller, swapping the image when a new
// photo is supplied. The old image is removed only after the record is saved.
func (s *BlogService) Update(ctx context.Context, callerID string, req UpdateBlogRequest) (*model.Blog, error) {
	if req.Author != callerID {
		return nil, ErrNotBlogAuthor
	}

	blog, err := s.getOwned(ctx, callerID, req.ID)
	if err != nil {
		return nil, err
	}

	oldPhoto := blog.PhotoPath
	newPhoto := ""
	if req.Photo != "" {
		newPhoto, err = s.saveImage(ctx, callerID, req.Photo)
		if err != nil {
			return nil, err
		}
		blog.PhotoPath = newPhoto
	}

	blog.Title = strings.TrimSpace(req.Title)
	blog.Content = req.Content

	if err := s.blogRepo.Update(ctx, blog); err != nil {
		s.discardImage(ctx, newPhoto)
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if newPhoto != "" {
		s.discardImage(ctx, oldPhoto)
	}

	return blog, nil
}

// Delete removes a blog owned by the caller together with its comments
// and cover image
func (s *BlogService) Delete(ctx context.Context, callerID, id string) error {
	blog, err := s.getOwned(ctx, callerID, id)
	if err != nil {
		return err
	}

	if err := s.blogRepo.Delete(ctx, blog.ID); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	s.discardImage(ctx, blog.PhotoPath)
	return nil
}

func (s *BlogService) getOwned(ctx context.Context, callerID, id string) (*model.Blog, error) {
	blog, err := s.blogRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if blog == nil {
		return nil, ErrBlogNotFound
	}
	if blog.Author != callerID {
		return nil, ErrNotBlogAuthor
	}
	return blog, nil
}

func (s *BlogService) saveImage(ctx context.Context, owner, encoded string) (string, error) {
	url, err := s.images.Save(ctx, owner, encoded)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidImage) {
			return "", ErrInvalidImage
		}
		return "", fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return url, nil
}

// discardImage removes an image that is no longer referenced. Failures
// leave an orphaned file and are only logged.
func (s *BlogService) discardImage(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := s.images.Delete(ctx, url); err != nil {
		slog.Warn("failed to delete blog image", "url", url, "error", err)
	}
}
