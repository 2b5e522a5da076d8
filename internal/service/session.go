package service

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/forgo/quill/api/pkg/jwt"
)

// RefreshToken is the stored form of a user's live refresh token
type RefreshToken struct {
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// TokenRepository defines the interface for refresh token storage.
// There is at most one record per user.
type TokenRepository interface {
	Find(ctx context.Context, userID string) (*RefreshToken, error)
	Upsert(ctx context.Context, token *RefreshToken) error
	Rotate(ctx context.Context, userID, oldHash string, token *RefreshToken) (bool, error)
	DeleteByHash(ctx context.Context, hash string) error
	DeleteExpired(ctx context.Context) (int, error)
}

// TokenPair is an access token plus the refresh token that can renew it
type TokenPair struct {
	UserID           string `json:"-"`
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token"`
	AccessExpiresIn  int    `json:"access_expires_in"`  // seconds
	RefreshExpiresIn int    `json:"refresh_expires_in"` // seconds
}

// SessionManager issues, verifies, rotates and revokes token pairs
type SessionManager struct {
	jwtService *jwt.Service
	tokenRepo  TokenRepository
	now        func() time.Time
}

// SessionManagerConfig holds configuration for the session manager
type SessionManagerConfig struct {
	JWTService *jwt.Service
	TokenRepo  TokenRepository
	Now        func() time.Time // Default: time.Now
}

// NewSessionManager creates a new session manager
func NewSessionManager(cfg SessionManagerConfig) *SessionManager {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &SessionManager{
		jwtService: cfg.JWTService,
		tokenRepo:  cfg.TokenRepo,
		now:        cfg.Now,
	}
}

// IssuePair signs a fresh access/refresh pair for a user. Nothing is
// persisted; callers follow up with StoreRefreshToken.
func (s *SessionManager) IssuePair(userID string) (*TokenPair, error) {
	access, err := s.jwtService.SignAccess(userID)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refresh, err := s.jwtService.SignRefresh(userID)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	return &TokenPair{
		UserID:           userID,
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresIn:  int(s.jwtService.AccessTTL().Seconds()),
		RefreshExpiresIn: int(s.jwtService.RefreshTTL().Seconds()),
	}, nil
}

// StoreRefreshToken makes token the user's only live refresh token
func (s *SessionManager) StoreRefreshToken(ctx context.Context, token, userID string) error {
	if err := s.tokenRepo.Upsert(ctx, s.record(token, userID)); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

// VerifyAccessToken returns the user id carried by a valid access token
func (s *SessionManager) VerifyAccessToken(token string) (string, error) {
	claims, err := s.jwtService.ValidateAccess(token)
	if err != nil {
		return "", ErrUnauthorized
	}
	return claims.UserID, nil
}

// VerifyRefreshToken checks signature and expiry only; the store is not consulted
func (s *SessionManager) VerifyRefreshToken(token string) (string, error) {
	claims, err := s.jwtService.ValidateRefresh(token)
	if err != nil {
		return "", ErrUnauthorized
	}
	return claims.UserID, nil
}

// Refresh exchanges the user's live refresh token for a new pair.
// The presented token must verify and equal the stored one; the swap is a
// compare-and-set so two refreshes racing on one token cannot both win.
func (s *SessionManager) Refresh(ctx context.Context, presented string) (*TokenPair, error) {
	userID, err := s.VerifyRefreshToken(presented)
	if err != nil {
		return nil, err
	}

	stored, err := s.tokenRepo.Find(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	presentedHash := hashToken(presented)
	if stored == nil || !hashesEqual(stored.TokenHash, presentedHash) {
		return nil, ErrUnauthorized
	}

	pair, err := s.IssuePair(userID)
	if err != nil {
		return nil, err
	}

	swapped, err := s.tokenRepo.Rotate(ctx, userID, presentedHash, s.record(pair.RefreshToken, userID))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !swapped {
		return nil, ErrUnauthorized
	}

	return pair, nil
}

// Revoke deletes the stored record holding exactly this token.
// Unknown or empty tokens are a no-op.
func (s *SessionManager) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.tokenRepo.DeleteByHash(ctx, hashToken(token)); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

// SweepExpired removes stored refresh tokens past their expiry
func (s *SessionManager) SweepExpired(ctx context.Context) (int, error) {
	n, err := s.tokenRepo.DeleteExpired(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return n, nil
}

func (s *SessionManager) record(token, userID string) *RefreshToken {
	now := s.now()
	return &RefreshToken{
		UserID:    userID,
		TokenHash: hashToken(token),
		ExpiresAt: now.Add(s.jwtService.RefreshTTL()),
		CreatedAt: now,
	}
}

// hashToken creates a SHA-256 hash of the token for storage
func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

func hashesEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
