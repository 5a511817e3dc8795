package community

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/bryanwahyu/safe-space/internal/application"
	domain "github.com/bryanwahyu/safe-space/internal/domain/community"
	"github.com/bryanwahyu/safe-space/internal/domain/shared"
	"github.com/bryanwahyu/safe-space/internal/domain/users"
	"github.com/bryanwahyu/safe-space/internal/logging"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Actor is the authenticated caller.
type Actor struct {
	UserID   string
	Username string
	Role     users.Role
}

// Service implements community post use-cases.
type Service struct {
	Repo  domain.Repository
	Clock application.Clock
	Log   logging.Logger
}

// PostInput is the create/update payload. Nil fields are left unchanged on update.
type PostInput struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	Category *string `json:"category"`
}

// Page of posts
type Page struct {
	Data       []*domain.Post `json:"data"`
	Page       int            `json:"page"`
	TotalPages int            `json:"pages"`
	Total      int64          `json:"total"`
}

func (s *Service) List(ctx context.Context, category string, page, pageSize int) (Page, error) {
	category = strings.TrimSpace(category)
	if strings.EqualFold(category, domain.AllCategories) {
		category = ""
	}
	return s.list(ctx, domain.Filter{Category: category}, page, pageSize)
}

func (s *Service) ListByUser(ctx context.Context, userID string, page, pageSize int) (Page, error) {
	if userID == "" {
		return Page{}, fmt.Errorf("%w: user id is required", shared.ErrInvalidInput)
	}
	return s.list(ctx, domain.Filter{UserID: userID}, page, pageSize)
}

func (s *Service) list(ctx context.Context, f domain.Filter, page, pageSize int) (Page, error) {
	page, pageSize = shared.Page(page, pageSize, DefaultPageSize, MaxPageSize)
	list, total, err := s.Repo.List(ctx, f, page, pageSize)
	if err != nil {
		return Page{}, fmt.Errorf("list posts: %w", err)
	}
	if list == nil {
		list = []*domain.Post{}
	}
	return Page{Data: list, Page: page, TotalPages: shared.Pages(total, pageSize), Total: total}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Post, error) {
	if err := application.ValidateID(id); err != nil {
		return nil, err
	}
	return s.Repo.Get(ctx, id)
}

func (s *Service) Categories(ctx context.Context) ([]string, error) {
	cats, err := s.Repo.Categories(ctx)
	if err != nil {
		return nil, err
	}
	if cats == nil {
		cats = []string{}
	}
	return cats, nil
}

func (s *Service) Create(ctx context.Context, actor Actor, in PostInput) (*domain.Post, error) {
	if actor.UserID == "" {
		return nil, shared.ErrUnauthorized
	}
	p := &domain.Post{
		ID:       uuid.New().String(),
		UserID:   actor.UserID,
		Username: actor.Username,
		Category: domain.DefaultCategory,
		Likes:    []string{},
	}
	if in.Content == nil {
		return nil, fmt.Errorf("%w: content is required", shared.ErrInvalidInput)
	}
	if err := apply(p, in); err != nil {
		return nil, err
	}
	now := s.Clock.Now()
	p.CreatedAt, p.UpdatedAt = now, now

	if err := s.Repo.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("save post: %w", err)
	}
	s.Log.Info(ctx, "post created", "post_id", p.ID, "user_id", actor.UserID, "category", p.Category)
	return p, nil
}

func (s *Service) Update(ctx context.Context, actor Actor, id string, in PostInput) (*domain.Post, error) {
	p, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := apply(p, in); err != nil {
		return nil, err
	}
	p.UpdatedAt = s.Clock.Now()
	if err := s.Repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, actor Actor, id string) error {
	if _, err := s.owned(ctx, actor, id); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	s.Log.Info(ctx, "post deleted", "post_id", id, "user_id", actor.UserID)
	return nil
}

// ToggleLike flips the caller's like and returns the updated post.
func (s *Service) ToggleLike(ctx context.Context, actor Actor, id string) (*domain.Post, bool, error) {
	if actor.UserID == "" {
		return nil, false, shared.ErrUnauthorized
	}
	if err := application.ValidateID(id); err != nil {
		return nil, false, err
	}
	liked, err := s.Repo.ToggleLike(ctx, id, actor.UserID)
	if err != nil {
		return nil, false, err
	}
	p, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return p, liked, nil
}

// owned loads a post the actor may modify: the author or an admin.
func (s *Service) owned(ctx context.Context, actor Actor, id string) (*domain.Post, error) {
	if actor.UserID == "" {
		return nil, shared.ErrUnauthorized
	}
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.UserID != actor.UserID && actor.Role != users.RoleAdmin {
		return nil, fmt.Errorf("%w: not authorized to modify this post", shared.ErrForbidden)
	}
	return p, nil
}

func apply(p *domain.Post, in PostInput) error {
	if in.Title != nil {
		p.Title = application.SanitizeString(*in.Title)
	}
	if in.Content != nil {
		content := strings.TrimSpace(*in.Content)
		if err := application.ValidateText("content", content, domain.MaxContentLength); err != nil {
			return err
		}
		p.Content = content
	}
	if in.Category != nil {
		if c := strings.ToLower(application.SanitizeString(*in.Category)); c != "" && c != domain.AllCategories {
			p.Category = c
		}
	}
	return nil
}
