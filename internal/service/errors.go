package service

import "errors"

// Centralized service layer errors.
// Handlers map these to HTTP statuses in one place (handler.MapServiceError).

// ===== Session Errors =====
var (
	// ErrUnauthorized covers every token verification failure. Callers never
	// learn whether a token was expired, tampered with or superseded.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrPersistence wraps failures of the backing stores.
	ErrPersistence = errors.New("persistence failure")
)

// ===== Authentication Errors =====
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrEmailAlreadyExists = errors.New("email already in use")
	ErrUsernameTaken      = errors.New("username not available, choose another username")
	ErrUserNotFound       = errors.New("user not found")
)

// ===== Blog Errors =====
var (
	ErrBlogNotFound  = errors.New("blog not found")
	ErrNotBlogAuthor = errors.New("only the author may modify this blog")
	ErrInvalidImage  = errors.New("photo must be a base64 encoded png or jpeg image")
)

// ===== Comment Errors =====
var (
	ErrNotCommentAuthor = errors.New("comments can only be posted as yourself")
)
