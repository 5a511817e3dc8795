package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	appcommunity "github.com/bryanwahyu/safe-space/internal/application/community"
	domain "github.com/bryanwahyu/safe-space/internal/domain/community"
	"github.com/bryanwahyu/safe-space/internal/domain/shared"
	"github.com/bryanwahyu/safe-space/internal/middleware"
)

func actorFrom(req *http.Request) (appcommunity.Actor, error) {
	u := middleware.UserFromContext(req.Context())
	if u == nil {
		return appcommunity.Actor{}, shared.ErrUnauthorized
	}
	return appcommunity.Actor{UserID: u.ID, Username: u.Username, Role: u.Role}, nil
}

// postView adds the caller's like state to a post. Anonymous callers always
// see false.
type postView struct {
	*domain.Post
	LikedByMe bool `json:"likedByMe"`
}

func viewPost(req *http.Request, p *domain.Post) postView {
	uid := middleware.UserIDFromContext(req.Context())
	return postView{Post: p, LikedByMe: uid != "" && p.LikedBy(uid)}
}

func writePage(w http.ResponseWriter, req *http.Request, p appcommunity.Page) error {
	views := make([]postView, 0, len(p.Data))
	for _, post := range p.Data {
		views = append(views, viewPost(req, post))
	}
	return writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   len(views),
		"data":    views,
		"page":    p.Page,
		"pages":   p.TotalPages,
		"total":   p.Total,
	})
}

// GET /api/v1/community/posts?page=&limit=&category=
func (r *Router) handleListPosts(w http.ResponseWriter, req *http.Request) error {
	page, size := pageParams(req)
	p, err := r.community.List(req.Context(), req.URL.Query().Get("category"), page, size)
	if err != nil {
		return err
	}
	return writePage(w, req, p)
}

// GET /api/v1/community/posts/user/{userId}
func (r *Router) handleUserPosts(w http.ResponseWriter, req *http.Request) error {
	page, size := pageParams(req)
	p, err := r.community.ListByUser(req.Context(), chi.URLParam(req, "userId"), page, size)
	if err != nil {
		return err
	}
	return writePage(w, req, p)
}

// GET /api/v1/community/posts/{id}
func (r *Router) handleGetPost(w http.ResponseWriter, req *http.Request) error {
	p, err := r.community.Get(req.Context(), chi.URLParam(req, "id"))
	if err != nil {
		return err
	}
	return ok(w, http.StatusOK, viewPost(req, p))
}

// GET /api/v1/community/categories
func (r *Router) handleCategories(w http.ResponseWriter, req *http.Request) error {
	cats, err := r.community.Categories(req.Context())
	if err != nil {
		return err
	}
	return ok(w, http.StatusOK, cats)
}

// POST /api/v1/community/posts
func (r *Router) handleCreatePost(w http.ResponseWriter, req *http.Request) error {
	actor, err := actorFrom(req)
	if err != nil {
		return err
	}
	var body appcommunity.PostInput
	if err := decode(w, req, &body); err != nil {
		return err
	}
	p, err := r.community.Create(req.Context(), actor, body)
	if err != nil {
		return err
	}
	return ok(w, http.StatusCreated, p)
}

// PUT /api/v1/community/posts/{id}
func (r *Router) handleUpdatePost(w http.ResponseWriter, req *http.Request) error {
	actor, err := actorFrom(req)
	if err != nil {
		return err
	}
	var body appcommunity.PostInput
	if err := decode(w, req, &body); err != nil {
		return err
	}
	p, err := r.community.Update(req.Context(), actor, chi.URLParam(req, "id"), body)
	if err != nil {
		return err
	}
	return ok(w, http.StatusOK, p)
}

// DELETE /api/v1/community/posts/{id}
func (r *Router) handleDeletePost(w http.ResponseWriter, req *http.Request) error {
	actor, err := actorFrom(req)
	if err != nil {
		return err
	}
	if err := r.community.Delete(req.Context(), actor, chi.URLParam(req, "id")); err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "post removed"})
}

// POST /api/v1/community/posts/{id}/like
func (r *Router) handleLikePost(w http.ResponseWriter, req *http.Request) error {
	actor, err := actorFrom(req)
	if err != nil {
		return err
	}
	p, liked, err := r.community.ToggleLike(req.Context(), actor, chi.URLParam(req, "id"))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{"success": true, "liked": liked, "data": viewPost(req, p)})
}
