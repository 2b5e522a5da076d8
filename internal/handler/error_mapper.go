package handler

import (
	"errors"
	"log/slog"

	"github.com/forgo/quill/api/internal/model"
	"github.com/forgo/quill/api/internal/service"
)

// MapServiceError converts a service error to a ProblemDetails response.
// Every handler funnels service failures through here so statuses stay
// consistent across the API.
func MapServiceError(err error) *model.ProblemDetails {
	if err == nil {
		return nil
	}

	switch {
	// ===== Authentication Errors → 401 =====
	case errors.Is(err, service.ErrInvalidCredentials):
		pd := model.NewUnauthorizedError(err.Error())
		pd.Code = model.ErrCodeLoginFailed
		return pd
	case errors.Is(err, service.ErrUnauthorized):
		return model.NewUnauthorizedError("Unauthorized")

	// ===== Authorization Errors → 403 =====
	case errors.Is(err, service.ErrNotBlogAuthor),
		errors.Is(err, service.ErrNotCommentAuthor):
		pd := model.NewForbiddenError(err.Error())
		pd.Code = model.ErrCodeNotAuthor
		return pd

	// ===== Not Found Errors → 404 =====
	case errors.Is(err, service.ErrUserNotFound):
		return model.NewNotFoundError("user")
	case errors.Is(err, service.ErrBlogNotFound):
		return model.NewNotFoundError("blog")

	// ===== Conflict Errors → 409 =====
	case errors.Is(err, service.ErrEmailAlreadyExists),
		errors.Is(err, service.ErrUsernameTaken):
		return model.NewConflictError(err.Error())

	// ===== Validation Errors → 400 =====
	case errors.Is(err, service.ErrInvalidImage):
		return model.NewValidationError([]model.FieldError{{Field: "photo", Message: err.Error()}})

	// ===== Persistence Errors → 500 =====
	case errors.Is(err, service.ErrPersistence):
		slog.Error("persistence failure", "error", err)
		pd := model.NewInternalError("")
		pd.Code = model.ErrCodeDatabase
		return pd

	// ===== Default → 500 =====
	default:
		slog.Error("unhandled service error", "error", err)
		return model.NewInternalError("")
	}
}
