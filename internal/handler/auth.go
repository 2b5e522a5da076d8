package handler

import (
	"context"
	"net/http"

	"github.com/forgo/quill/api/internal/middleware"
	"github.com/forgo/quill/api/internal/model"
	"github.com/forgo/quill/api/internal/service"
)

// AuthService is the account and session API the auth handler depends on
type AuthService interface {
	Register(ctx context.Context, req service.RegisterRequest) (*service.AuthResult, error)
	Login(ctx context.Context, req service.LoginRequest) (*service.AuthResult, error)
	Logout(ctx context.Context, refreshToken string) error
	Refresh(ctx context.Context, refreshToken string) (*service.AuthResult, error)
	GetUserByID(ctx context.Context, userID string) (*model.User, error)
}

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService AuthService
	cookies     *Cookies
}

// AuthHandlerConfig holds dependencies for the auth handler
type AuthHandlerConfig struct {
	AuthService AuthService
	Cookies     *Cookies
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(cfg AuthHandlerConfig) *AuthHandler {
	return &AuthHandler{
		authService: cfg.AuthService,
		cookies:     cfg.Cookies,
	}
}

// RegisterRequest represents the register endpoint request body
type RegisterRequest struct {
	Username        string `json:"username" validate:"required,min=5,max=30"`
	Name            string `json:"name" validate:"required,max=30"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8,max=25,password"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// LoginRequest represents the login endpoint request body
type LoginRequest struct {
	Username string `json:"username" validate:"required,min=5,max=30"`
	Password string `json:"password" validate:"required,min=8,max=25,password"`
}

// AuthResponse reports the session state after an auth call
type AuthResponse struct {
	User *model.UserPublic `json:"user"`
	Auth bool              `json:"auth"`
}

// Register handles POST /register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if problem := decodeAndValidate(w, r, &req); problem != nil {
		WriteError(w, problem)
		return
	}

	result, err := h.authService.Register(r.Context(), service.RegisterRequest{
		Username: req.Username,
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	h.cookies.SetSession(w, result.Tokens)
	WriteJSON(w, http.StatusCreated, AuthResponse{User: result.User.ToPublic(), Auth: true})
}

// Login handles POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if problem := decodeAndValidate(w, r, &req); problem != nil {
		WriteError(w, problem)
		return
	}

	result, err := h.authService.Login(r.Context(), service.LoginRequest{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	h.cookies.SetSession(w, result.Tokens)
	WriteJSON(w, http.StatusOK, AuthResponse{User: result.User.ToPublic(), Auth: true})
}

// Logout handles POST /logout. The refresh token cookie is revoked as-is
// and both cookies are cleared.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.authService.Logout(r.Context(), h.cookies.RefreshToken(r)); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	h.cookies.Clear(w)
	WriteJSON(w, http.StatusOK, AuthResponse{User: nil, Auth: false})
}

// Refresh handles GET /refresh
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	token := h.cookies.RefreshToken(r)
	if token == "" {
		WriteError(w, model.NewUnauthorizedError("Unauthorized"))
		return
	}

	result, err := h.authService.Refresh(r.Context(), token)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	h.cookies.SetSession(w, result.Tokens)
	WriteJSON(w, http.StatusOK, AuthResponse{User: result.User.ToPublic(), Auth: true})
}

// Me handles GET /me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	user, err := h.authService.GetUserByID(r.Context(), userID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, user.ToPublic(), map[string]string{
		"self": "/me",
	})
}
