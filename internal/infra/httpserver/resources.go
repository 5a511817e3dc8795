package httpserver

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	appresources "github.com/bryanwahyu/safe-space/internal/application/resources"
	domain "github.com/bryanwahyu/safe-space/internal/domain/resources"
	"github.com/bryanwahyu/safe-space/internal/domain/shared"
	"github.com/bryanwahyu/safe-space/internal/domain/users"
	"github.com/bryanwahyu/safe-space/internal/middleware"
)

func roleFrom(req *http.Request) (users.Role, error) {
	u := middleware.UserFromContext(req.Context())
	if u == nil {
		return "", shared.ErrUnauthorized
	}
	return u.Role, nil
}

// GET /api/v1/resources?category=&approved=&page=&limit=
func (r *Router) handleListResources(w http.ResponseWriter, req *http.Request) error {
	q := req.URL.Query()
	f := domain.Filter{Category: domain.Category(q.Get("category"))}
	if v := q.Get("approved"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: approved must be true or false", shared.ErrInvalidInput)
		}
		f.Approved = &b
	}
	page, size := pageParams(req)
	p, err := r.resources.List(req.Context(), f, page, size)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   len(p.Data),
		"data":    p.Data,
		"page":    p.Page,
		"pages":   p.TotalPages,
		"total":   p.Total,
	})
}

// GET /api/v1/resources/{id}
func (r *Router) handleGetResource(w http.ResponseWriter, req *http.Request) error {
	res, err := r.resources.Get(req.Context(), chi.URLParam(req, "id"))
	if err != nil {
		return err
	}
	return ok(w, http.StatusOK, res)
}

// POST /api/v1/resources (admin)
func (r *Router) handleCreateResource(w http.ResponseWriter, req *http.Request) error {
	role, err := roleFrom(req)
	if err != nil {
		return err
	}
	var body appresources.Input
	if err := decode(w, req, &body); err != nil {
		return err
	}
	res, err := r.resources.Create(req.Context(), role, body)
	if err != nil {
		return err
	}
	return ok(w, http.StatusCreated, res)
}

// PUT /api/v1/resources/{id} (admin)
func (r *Router) handleUpdateResource(w http.ResponseWriter, req *http.Request) error {
	role, err := roleFrom(req)
	if err != nil {
		return err
	}
	var body appresources.Input
	if err := decode(w, req, &body); err != nil {
		return err
	}
	res, err := r.resources.Update(req.Context(), role, chi.URLParam(req, "id"), body)
	if err != nil {
		return err
	}
	return ok(w, http.StatusOK, res)
}

// DELETE /api/v1/resources/{id} (admin)
func (r *Router) handleDeleteResource(w http.ResponseWriter, req *http.Request) error {
	role, err := roleFrom(req)
	if err != nil {
		return err
	}
	if err := r.resources.Delete(req.Context(), role, chi.URLParam(req, "id")); err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "resource removed"})
}
