package handler

import (
	"context"
	"net/http"

	"github.com/forgo/quill/api/internal/middleware"
	"github.com/forgo/quill/api/internal/model"
	"github.com/forgo/quill/api/internal/service"
)

// CommentService is the comment API the comment handler depends on
type CommentService interface {
	Create(ctx context.Context, callerID string, req service.CreateCommentRequest) (*model.Comment, error)
	ListByBlog(ctx context.Context, blogID string) ([]*model.CommentDetail, error)
}

// CommentHandler handles comment endpoints
type CommentHandler struct {
	commentService CommentService
}

// NewCommentHandler creates a new comment handler
func NewCommentHandler(commentService CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// CreateCommentRequest represents the create comment request body
type CreateCommentRequest struct {
	Blog    string `json:"blog" validate:"required,record=blog"`
	Author  string `json:"author" validate:"required,record=user"`
	Content string `json:"content" validate:"required,max=2000"`
}

// Create handles POST /comment
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateCommentRequest
	if problem := decodeAndValidate(w, r, &req); problem != nil {
		WriteError(w, problem)
		return
	}

	_, err := h.commentService.Create(r.Context(), middleware.GetUserID(r.Context()), service.CreateCommentRequest{
		Blog:    req.Blog,
		Author:  req.Author,
		Content: req.Content,
	})
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteMessage(w, http.StatusCreated, "Comment created")
}

// ListByBlog handles GET /comment/{id}, where id is the blog id
func (h *CommentHandler) ListByBlog(w http.ResponseWriter, r *http.Request) {
	blogID := r.PathValue("id")
	if problem := validateRecordParam("id", blogID, "blog"); problem != nil {
		WriteError(w, problem)
		return
	}

	comments, err := h.commentService.ListByBlog(r.Context(), blogID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, comments, nil)
}
