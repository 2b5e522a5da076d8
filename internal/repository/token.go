package repository

import (
	"context"
	"errors"
	"time"

	"github.com/forgo/quill/api/internal/database"
	"github.com/forgo/quill/api/internal/service"
)

// TokenRepository handles refresh token data access.
//
// Each user has at most one record, refresh_token:⟨user id⟩, so writes for the
// same user replace each other instead of accumulating.
type TokenRepository struct {
	db database.Database
}

// NewTokenRepository creates a new token repository
func NewTokenRepository(db database.Database) *TokenRepository {
	return &TokenRepository{db: db}
}

// Find returns the live refresh token record for a user, nil when absent
func (r *TokenRepository) Find(ctx context.Context, userID string) (*service.RefreshToken, error) {
	query := `SELECT * FROM type::record('refresh_token', $user)`
	vars := map[string]interface{}{"user": userID}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return parseRefreshToken(result)
}

// Upsert writes the user's refresh token, replacing any prior one
func (r *TokenRepository) Upsert(ctx context.Context, token *service.RefreshToken) error {
	query := `
		UPSERT type::record('refresh_token', $user) CONTENT {
			user: type::record($user),
			token_hash: $token_hash,
			expires_at: <datetime>$expires_at,
			created_at: time::now()
		}
	`

	vars := map[string]interface{}{
		"user":       token.UserID,
		"token_hash": token.TokenHash,
		"expires_at": token.ExpiresAt.UTC().Format(time.RFC3339Nano),
	}

	return r.db.Execute(ctx, query, vars)
}

// Rotate replaces the user's token only if the stored hash still equals
// oldHash. It reports whether the swap happened.
func (r *TokenRepository) Rotate(ctx context.Context, userID, oldHash string, token *service.RefreshToken) (bool, error) {
	query := `
		UPDATE type::record('refresh_token', $user) SET
			token_hash = $token_hash,
			expires_at = <datetime>$expires_at,
			created_at = time::now()
		WHERE token_hash = $old_hash
		RETURN AFTER
	`

	vars := map[string]interface{}{
		"user":       userID,
		"old_hash":   oldHash,
		"token_hash": token.TokenHash,
		"expires_at": token.ExpiresAt.UTC().Format(time.RFC3339Nano),
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return false, err
	}

	return len(statementRows(result, 0)) > 0, nil
}

// DeleteByHash removes the record holding this token hash. Absence is not an error.
func (r *TokenRepository) DeleteByHash(ctx context.Context, hash string) error {
	query := `DELETE refresh_token WHERE token_hash = $hash`
	vars := map[string]interface{}{"hash": hash}

	return r.db.Execute(ctx, query, vars)
}

// DeleteExpired removes records past their expiry and returns how many went
func (r *TokenRepository) DeleteExpired(ctx context.Context) (int, error) {
	query := `DELETE refresh_token WHERE expires_at < time::now() RETURN BEFORE`

	result, err := r.db.Query(ctx, query, nil)
	if err != nil {
		return 0, err
	}

	return len(statementRows(result, 0)), nil
}

func parseRefreshToken(row interface{}) (*service.RefreshToken, error) {
	data, err := asRecord(row)
	if err != nil {
		return nil, err
	}

	return &service.RefreshToken{
		UserID:    convertSurrealID(data["user"]),
		TokenHash: getString(data, "token_hash"),
		ExpiresAt: parseTime(data["expires_at"]),
		CreatedAt: parseTime(data["created_at"]),
	}, nil
}
