// Package service implements the business logic layer for the Quill API.
//
// # Session Manager
//
// SessionManager owns the token lifecycle: it signs access/refresh pairs,
// persists the single live refresh token per user, rotates it on refresh
// and deletes it on logout. A presented refresh token is accepted only if it
// verifies and matches the stored one, so a superseded token is rejected
// even before it expires. All verification failures collapse into
// ErrUnauthorized; store failures surface as ErrPersistence.
//
// # Service Pattern
//
//   - Constructor function (NewXxxService) accepts a config struct with repository dependencies
//   - Services define the repository interfaces they need
//   - Errors are sentinel values from errors.go, wrapped where context helps
//
// # Example Usage
//
//	sessions := NewSessionManager(SessionManagerConfig{
//	    JWTService: signer,
//	    TokenRepo:  tokenRepository,
//	})
//	pair, err := sessions.IssuePair(user.ID)
//	if err == nil {
//	    err = sessions.StoreRefreshToken(ctx, pair.RefreshToken, user.ID)
//	}
package service
