package model

import "time"

// Field limits for account data
const (
	MinUsernameLength = 5
	MaxUsernameLength = 30
	MaxNameLength     = 30
	MinPasswordLength = 8
	MaxPasswordLength = 25
)

// User represents a user account
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Hash      string    `json:"-"` // Never expose password hash
	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

// UserPublic is the user shape returned by the auth endpoints
type UserPublic struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedOn time.Time `json:"created_on"`
}

// ToPublic converts a User to its public representation
func (u *User) ToPublic() *UserPublic {
	if u == nil {
		return nil
	}
	return &UserPublic{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Name:      u.Name,
		CreatedOn: u.CreatedOn,
	}
}
