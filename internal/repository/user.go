package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/forgo/quill/api/internal/database"
	"github.com/forgo/quill/api/internal/model"
)

// UserRepository handles user data access
type UserRepository struct {
	db database.Database
}

// NewUserRepository creates a new user repository
func NewUserRepository(db database.Database) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user. A unique index violation on username or email
// is returned as database.ErrDuplicate.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		CREATE user CONTENT {
			username: $username,
			email: $email,
			name: $name,
			hash: $hash,
			created_on: time::now(),
			updated_on: time::now()
		}
	`

	vars := map[string]interface{}{
		"username": user.Username,
		"email":    strings.ToLower(user.Email),
		"name":     user.Name,
		"hash":     user.Hash,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return err
		}
		return fmt.Errorf("create user: %w", err)
	}

	rows := statementRows(result, 0)
	if len(rows) == 0 {
		return errors.New("create user: no result returned")
	}
	created, err := parseUser(rows[0])
	if err != nil {
		return err
	}

	user.ID = created.ID
	user.Email = created.Email
	user.CreatedOn = created.CreatedOn
	user.UpdatedOn = created.UpdatedOn
	return nil
}

// GetByID retrieves a user by ID, nil when absent
func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT * FROM type::record($id)`
	return r.getOne(ctx, query, map[string]interface{}{"id": id})
}

// GetByUsername retrieves a user by exact username, nil when absent
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT * FROM user WHERE username = $username LIMIT 1`
	return r.getOne(ctx, query, map[string]interface{}{"username": username})
}

// ExistsByEmail reports whether an account uses this email (case-insensitive)
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT count() AS count FROM user WHERE email = $email GROUP ALL`
	return r.exists(ctx, query, map[string]interface{}{"email": strings.ToLower(email)})
}

// ExistsByUsername reports whether an account uses this exact username
func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	query := `SELECT count() AS count FROM user WHERE username = $username GROUP ALL`
	return r.exists(ctx, query, map[string]interface{}{"username": username})
}

func (r *UserRepository) getOne(ctx context.Context, query string, vars map[string]interface{}) (*model.User, error) {
	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return parseUser(result)
}

func (r *UserRepository) exists(ctx context.Context, query string, vars map[string]interface{}) (bool, error) {
	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return false, err
	}
	return extractCount(result) > 0, nil
}

func parseUser(row interface{}) (*model.User, error) {
	data, err := asRecord(row)
	if err != nil {
		return nil, err
	}

	return &model.User{
		ID:        convertSurrealID(data["id"]),
		Username:  getString(data, "username"),
		Email:     getString(data, "email"),
		Name:      getString(data, "name"),
		Hash:      getString(data, "hash"),
		CreatedOn: parseTime(data["created_on"]),
		UpdatedOn: parseTime(data["updated_on"]),
	}, nil
}
