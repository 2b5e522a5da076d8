package handler

import (
	"context"
	"net/http"

	"github.com/forgo/quill/api/internal/middleware"
	"github.com/forgo/quill/api/internal/model"
	"github.com/forgo/quill/api/internal/service"
)

// BlogService is the blog API the blog handler depends on
type BlogService interface {
	Create(ctx context.Context, callerID string, req service.CreateBlogRequest) (*model.Blog, error)
	List(ctx context.Context) ([]*model.Blog, error)
	GetDetail(ctx context.Context, id string) (*model.BlogDetail, error)
	Update(ctx context.Context, callerID string, req service.UpdateBlogRequest) (*model.Blog, error)
	Delete(ctx context.Context, callerID, id string) error
}

// BlogHandler handles blog endpoints
type BlogHandler struct {
	blogService BlogService
}

// NewBlogHandler creates a new blog handler
func NewBlogHandler(blogService BlogService) *BlogHandler {
	return &BlogHandler{blogService: blogService}
}

// CreateBlogRequest represents the create blog request body
type CreateBlogRequest struct {
	Title   string `json:"title" validate:"required,max=200"`
	Author  string `json:"author" validate:"required,record=user"`
	Content string `json:"content" validate:"required"`
	Photo   string `json:"photo" validate:"required"`
}

// UpdateBlogRequest represents the update blog request body
type UpdateBlogRequest struct {
	Title   string `json:"title" validate:"required,max=200"`
	Content string `json:"content" validate:"required"`
	Author  string `json:"author" validate:"required,record=user"`
	BlogID  string `json:"blogId" validate:"required,record=blog"`
	Photo   string `json:"photo,omitempty"`
}

// Create handles POST /blog
func (h *BlogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateBlogRequest
	if problem := decodeAndValidate(w, r, &req); problem != nil {
		WriteError(w, problem)
		return
	}

	blog, err := h.blogService.Create(r.Context(), middleware.GetUserID(r.Context()), service.CreateBlogRequest{
		Title:   req.Title,
		Content: req.Content,
		Author:  req.Author,
		Photo:   req.Photo,
	})
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]interface{}{"blog": blog})
}

// List handles GET /blog/all
func (h *BlogHandler) List(w http.ResponseWriter, r *http.Request) {
	blogs, err := h.blogService.List(r.Context())
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{"blogs": blogs})
}

// Get handles GET /blog/{id}
func (h *BlogHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if problem := validateRecordParam("id", id, "blog"); problem != nil {
		WriteError(w, problem)
		return
	}

	blog, err := h.blogService.GetDetail(r.Context(), id)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{"blog": blog})
}

// Update handles PUT /blog
func (h *BlogHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateBlogRequest
	if problem := decodeAndValidate(w, r, &req); problem != nil {
		WriteError(w, problem)
		return
	}

	_, err := h.blogService.Update(r.Context(), middleware.GetUserID(r.Context()), service.UpdateBlogRequest{
		ID:      req.BlogID,
		Title:   req.Title,
		Content: req.Content,
		Author:  req.Author,
		Photo:   req.Photo,
	})
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteMessage(w, http.StatusOK, "Blog updated!")
}

// Delete handles DELETE /blog/{id}
func (h *BlogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if problem := validateRecordParam("id", id, "blog"); problem != nil {
		WriteError(w, problem)
		return
	}

	if err := h.blogService.Delete(r.Context(), middleware.GetUserID(r.Context()), id); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteMessage(w, http.StatusOK, "Blog deleted!")
}
