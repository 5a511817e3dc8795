package mysql

import (
	"context"
	"database/sql"

	domain "github.com/bryanwahyu/safe-space/internal/domain/users"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	const q = `
INSERT INTO users (id, username, email, password_hash, role, created_at)
VALUES (?,?,?,?,?,?);`
	_, err := r.db.ExecContext(ctx, q, u.ID, u.Username, u.Email, u.PasswordHash, u.Role, u.CreatedAt.UTC())
	return classify(err)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const q = `SELECT id, username, email, password_hash, role, created_at FROM users WHERE id=? LIMIT 1;`
	return scanUser(r.db.QueryRowContext(ctx, q, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const q = `SELECT id, username, email, password_hash, role, created_at FROM users WHERE email=? LIMIT 1;`
	return scanUser(r.db.QueryRowContext(ctx, q, email))
}

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt); err != nil {
		return nil, classify(err)
	}
	u.CreatedAt = u.CreatedAt.UTC()
	return &u, nil
}
