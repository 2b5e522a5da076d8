package jwt

import (
	"errors"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrTokenExpired     = errors.New("token expired")
	ErrInvalidSignature = errors.New("invalid signature")
	ErrInvalidKey       = errors.New("invalid key")
)

const (
	DefaultAccessTTL  = 30 * time.Minute
	DefaultRefreshTTL = 60 * time.Minute
)

// Kind distinguishes access tokens from refresh tokens
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

// Claims represents JWT claims
type Claims struct {
	gojwt.RegisteredClaims

	UserID string `json:"user_id"`
	Kind   Kind   `json:"kind"`
}

// Service handles JWT operations
type Service struct {
	accessSecret  []byte
	refreshSecret []byte
	issuer        string
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
	parser        *gojwt.Parser
}

// Config holds JWT service configuration
type Config struct {
	AccessSecret  []byte
	RefreshSecret []byte
	Issuer        string
	AccessTTL     time.Duration // Default: 30 minutes
	RefreshTTL    time.Duration // Default: 60 minutes

	// Now overrides the clock used for signing and validation.
	Now func() time.Time
}

// NewService creates a new JWT service
func NewService(cfg Config) (*Service, error) {
	if len(cfg.AccessSecret) == 0 || len(cfg.RefreshSecret) == 0 {
		return nil, ErrInvalidKey
	}
	if cfg.AccessTTL == 0 {
		cfg.AccessTTL = DefaultAccessTTL
	}
	if cfg.RefreshTTL == 0 {
		cfg.RefreshTTL = DefaultRefreshTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	opts := []gojwt.ParserOption{
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithExpirationRequired(),
		gojwt.WithTimeFunc(cfg.Now),
	}
	if cfg.Issuer != "" {
		opts = append(opts, gojwt.WithIssuer(cfg.Issuer))
	}

	return &Service{
		accessSecret:  cfg.AccessSecret,
		refreshSecret: cfg.RefreshSecret,
		issuer:        cfg.Issuer,
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		now:           cfg.Now,
		parser:        gojwt.NewParser(opts...),
	}, nil
}

// SignAccess creates a signed access token for a user
func (s *Service) SignAccess(userID string) (string, error) {
	return s.sign(KindAccess, userID, s.accessSecret, s.accessTTL)
}

// SignRefresh creates a signed refresh token for a user
func (s *Service) SignRefresh(userID string) (string, error) {
	return s.sign(KindRefresh, userID, s.refreshSecret, s.refreshTTL)
}

// ValidateAccess validates an access token and returns the claims
func (s *Service) ValidateAccess(token string) (*Claims, error) {
	return s.validate(token, KindAccess, s.accessSecret)
}

// ValidateRefresh validates a refresh token and returns the claims
func (s *Service) ValidateRefresh(token string) (*Claims, error) {
	return s.validate(token, KindRefresh, s.refreshSecret)
}

// AccessTTL returns the access token lifetime
func (s *Service) AccessTTL() time.Duration {
	return s.accessTTL
}

// RefreshTTL returns the refresh token lifetime
func (s *Service) RefreshTTL() time.Duration {
	return s.refreshTTL
}

func (s *Service) sign(kind Kind, userID string, secret []byte, ttl time.Duration) (string, error) {
	if userID == "" {
		return "", ErrInvalidToken
	}

	now := s.now()
	claims := Claims{
		RegisteredClaims: gojwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   userID,
			IssuedAt:  gojwt.NewNumericDate(now),
			NotBefore: gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(ttl)),
			// jti keeps two tokens minted in the same second distinct
			ID: uuid.NewString(),
		},
		UserID: userID,
		Kind:   kind,
	}

	return gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString(secret)
}

func (s *Service) validate(tokenString string, kind Kind, secret []byte) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	var claims Claims
	_, err := s.parser.ParseWithClaims(tokenString, &claims, func(*gojwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, gojwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, gojwt.ErrTokenSignatureInvalid):
			return nil, ErrInvalidSignature
		default:
			return nil, ErrInvalidToken
		}
	}

	if claims.Kind != kind || claims.UserID == "" {
		return nil, ErrInvalidToken
	}

	return &claims, nil
}

// NewTestService creates a JWT service with fixed secrets for testing
// This should only be used in tests, not in production code
func NewTestService(issuer string, now func() time.Time) *Service {
	svc, _ := NewService(Config{
		AccessSecret:  []byte("test-access-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
		Issuer:        issuer,
		Now:           now,
	})
	return svc
}
