package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/forgo/quill/api/internal/database"
	"github.com/forgo/quill/api/internal/model"
	"golang.org/x/crypto/bcrypt"
)

// bcrypt cost factor (10-14 recommended for production)
const defaultBcryptCost = 12

// UserRepository defines the interface for user storage
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

// AuthService handles registration, login and session renewal
type AuthService struct {
	userRepo   UserRepository
	sessions   *SessionManager
	bcryptCost int
	dummyHash  []byte
}

// AuthServiceConfig holds configuration for the auth service
type AuthServiceConfig struct {
	UserRepo   UserRepository
	Sessions   *SessionManager
	BcryptCost int // Default: 12
}

// NewAuthService creates a new auth service
func NewAuthService(cfg AuthServiceConfig) *AuthService {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = defaultBcryptCost
	}
	dummy, _ := bcrypt.GenerateFromPassword([]byte("quill-dummy-password"), cfg.BcryptCost)

	return &AuthService{
		userRepo:   cfg.UserRepo,
		sessions:   cfg.Sessions,
		bcryptCost: cfg.BcryptCost,
		dummyHash:  dummy,
	}
}

// RegisterRequest represents a registration request. Field rules are
// enforced at the transport layer.
type RegisterRequest struct {
	Username string
	Name     string
	Email    string
	Password string
}

// LoginRequest represents a login request
type LoginRequest struct {
	Username string
	Password string
}

// AuthResult is a user together with a freshly issued token pair
type AuthResult struct {
	User   *model.User
	Tokens *TokenPair
}

// Register creates an account and opens a session for it.
// Email conflicts are reported before username conflicts.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	emailInUse, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if emailInUse {
		return nil, ErrEmailAlreadyExists
	}

	usernameInUse, err := s.userRepo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if usernameInUse {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username: req.Username,
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Hash:     string(hash),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// Lost a race with a concurrent registration
		if errors.Is(err, database.ErrDuplicate) {
			if strings.Contains(err.Error(), "email") {
				return nil, ErrEmailAlreadyExists
			}
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	return s.openSession(ctx, user)
}

// Login verifies credentials and opens a session, replacing any prior one.
// Unknown usernames and wrong passwords fail identically.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if user == nil {
		// Same bcrypt cost whether or not the username exists
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(req.Password))
		return nil, ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Hash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	return s.openSession(ctx, user)
}

// Logout revokes the presented refresh token. The token is matched
// literally; it is not verified first.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.sessions.Revoke(ctx, refreshToken)
}

// Refresh rotates the presented refresh token and returns the session's user
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	pair, err := s.sessions.Refresh(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, pair.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if user == nil {
		// Account removed after the token was issued
		_ = s.sessions.Revoke(ctx, pair.RefreshToken)
		return nil, ErrUnauthorized
	}

	return &AuthResult{User: user, Tokens: pair}, nil
}

// GetUserByID retrieves a user by ID
func (s *AuthService) GetUserByID(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// ValidateAccessToken returns the user id of a valid access token
func (s *AuthService) ValidateAccessToken(token string) (string, error) {
	return s.sessions.VerifyAccessToken(token)
}

func (s *AuthService) openSession(ctx context.Context, user *model.User) (*AuthResult, error) {
	pair, err := s.sessions.IssuePair(user.ID)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.StoreRefreshToken(ctx, pair.RefreshToken, user.ID); err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Tokens: pair}, nil
}
