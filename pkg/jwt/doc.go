// Package jwt provides JSON Web Token utilities for the Quill API.
//
// The jwt package signs and validates the two token kinds that make up a
// session: short-lived access tokens and longer-lived refresh tokens. Each
// kind is signed with its own HS256 secret, so a token of one kind never
// validates as the other.
//
// # Token Generation
//
//	service, err := jwt.NewService(jwt.Config{
//	    AccessSecret:  []byte("access-secret"),
//	    RefreshSecret: []byte("refresh-secret"),
//	    Issuer:        "quill",
//	    AccessTTL:     30 * time.Minute,
//	    RefreshTTL:    60 * time.Minute,
//	})
//
//	access, err := service.SignAccess(userID)
//	refresh, err := service.SignRefresh(userID)
//
// # Token Validation
//
//	claims, err := service.ValidateAccess(access)
//	if err != nil {
//	    // ErrInvalidToken, ErrInvalidSignature or ErrTokenExpired
//	}
//	userID := claims.UserID
//
// # Claims
//
// Registered claims (iss, sub, exp, iat, nbf, jti) plus:
//
//	type Claims struct {
//	    UserID string // identity id
//	    Kind   Kind   // "access" or "refresh"
//	}
package jwt
