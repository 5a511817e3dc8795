package httpserver

import (
	"net/http"

	appauth "github.com/bryanwahyu/safe-space/internal/application/auth"
	"github.com/bryanwahyu/safe-space/internal/domain/shared"
	"github.com/bryanwahyu/safe-space/internal/middleware"
)

func writeSession(w http.ResponseWriter, status int, s *appauth.Session) error {
	return writeJSON(w, status, map[string]any{
		"success": true,
		"token":   s.Token,
		"data":    s.User,
	})
}

// POST /api/v1/auth/register
// Body: {"username","email","password","role"}
func (r *Router) handleRegister(w http.ResponseWriter, req *http.Request) error {
	var body appauth.RegisterInput
	if err := decode(w, req, &body); err != nil {
		return err
	}
	s, err := r.auth.Register(req.Context(), body)
	if err != nil {
		return err
	}
	return writeSession(w, http.StatusCreated, s)
}

// POST /api/v1/auth/login
func (r *Router) handleLogin(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decode(w, req, &body); err != nil {
		return err
	}
	s, err := r.auth.Login(req.Context(), body.Email, body.Password)
	if err != nil {
		return err
	}
	return writeSession(w, http.StatusOK, s)
}

// GET /api/v1/auth/me
func (r *Router) handleMe(w http.ResponseWriter, req *http.Request) error {
	u := middleware.UserFromContext(req.Context())
	if u == nil {
		return shared.ErrUnauthorized
	}
	return ok(w, http.StatusOK, u)
}
