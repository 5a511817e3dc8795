package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/bryanwahyu/safe-space/internal/application"
	"github.com/bryanwahyu/safe-space/internal/domain/shared"
	domain "github.com/bryanwahyu/safe-space/internal/domain/users"
	"github.com/bryanwahyu/safe-space/internal/logging"
)

// ErrInvalidCredentials is returned by Login for an unknown email or a wrong
// password. It wraps shared.ErrUnauthorized.
var ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", shared.ErrUnauthorized)

// Service implements registration, login and identity lookup.
type Service struct {
	Users  domain.Repository
	Hasher domain.PasswordHasher
	Tokens domain.TokenIssuer
	Clock  application.Clock
	Log    logging.Logger
}

// RegisterInput is the payload of POST /auth/register.
type RegisterInput struct {
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
}

// Session is a signed token plus the user it was issued for.
type Session struct {
	Token string
	User  *domain.User
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	in.Username = application.SanitizeString(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if err := application.ValidateUsername(in.Username); err != nil {
		return nil, err
	}
	if err := application.ValidateEmail(in.Email); err != nil {
		return nil, err
	}
	if err := application.ValidatePassword(in.Password); err != nil {
		return nil, err
	}
	if in.Role == "" {
		in.Role = domain.RoleTeen
	}
	if !in.Role.Valid() {
		return nil, fmt.Errorf("%w: invalid role %q", shared.ErrInvalidInput, in.Role)
	}
	if in.Role == domain.RoleAdmin {
		return nil, fmt.Errorf("%w: admin accounts cannot self-register", shared.ErrForbidden)
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &domain.User{
		ID:           uuid.New().String(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
		CreatedAt:    s.Clock.Now(),
	}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, shared.ErrConflict) {
			return nil, fmt.Errorf("%w: user with this email or username", shared.ErrConflict)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.Log.Info(ctx, "user registered", "user_id", u.ID, "role", u.Role)
	return s.session(u)
}

func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", shared.ErrInvalidInput)
	}

	u, err := s.Users.GetByEmail(ctx, email)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !s.Hasher.Compare(u.PasswordHash, password) {
		s.Log.Warn(ctx, "login failed", "user_id", u.ID)
		return nil, ErrInvalidCredentials
	}
	return s.session(u)
}

// Me returns the user behind a verified token.
func (s *Service) Me(ctx context.Context, userID string) (*domain.User, error) {
	if userID == "" {
		return nil, shared.ErrUnauthorized
	}
	u, err := s.Users.GetByID(ctx, userID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.ErrUnauthorized
	}
	return u, err
}

// Authenticate verifies a bearer token and loads its user.
func (s *Service) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.Tokens.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrUnauthorized, err)
	}
	return s.Me(ctx, claims.UserID)
}

func (s *Service) session(u *domain.User) (*Session, error) {
	token, err := s.Tokens.Issue(u)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &Session{Token: token, User: u}, nil
}
