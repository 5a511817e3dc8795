package users

import "context"

// Repository port for user accounts
type Repository interface {
	// Create fails with shared.ErrConflict on duplicate email or username.
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}

// PasswordHasher hides the hashing algorithm from the services.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

// TokenIssuer signs and verifies access tokens.
type TokenIssuer interface {
	Issue(u *User) (string, error)
	Verify(token string) (Claims, error)
}

// Claims carried by an access token
type Claims struct {
	UserID string
	Role   Role
}
