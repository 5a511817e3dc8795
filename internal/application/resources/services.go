package resources

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/bryanwahyu/safe-space/internal/application"
	domain "github.com/bryanwahyu/safe-space/internal/domain/resources"
	"github.com/bryanwahyu/safe-space/internal/domain/shared"
	"github.com/bryanwahyu/safe-space/internal/domain/users"
	"github.com/bryanwahyu/safe-space/internal/logging"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100

	maxTitleLength       = 200
	maxDescriptionLength = 2000
)

// Service implements curated resource use-cases. Writes are admin only.
type Service struct {
	Repo  domain.Repository
	Clock application.Clock
	Log   logging.Logger
}

// Input is the create/update payload. Nil fields are left unchanged on update.
type Input struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Category    *domain.Category `json:"category"`
	URL         *string          `json:"url"`
	Tags        []string         `json:"tags"`
	IsApproved  *bool            `json:"isApproved"`
}

type Page struct {
	Data       []*domain.Resource `json:"data"`
	Page       int                `json:"page"`
	TotalPages int                `json:"pages"`
	Total      int64              `json:"total"`
}

func (s *Service) List(ctx context.Context, f domain.Filter, page, pageSize int) (Page, error) {
	if f.Category != "" && !f.Category.Valid() {
		return Page{}, fmt.Errorf("%w: unknown category %q", shared.ErrInvalidInput, f.Category)
	}
	page, pageSize = shared.Page(page, pageSize, DefaultPageSize, MaxPageSize)
	list, total, err := s.Repo.List(ctx, f, page, pageSize)
	if err != nil {
		return Page{}, fmt.Errorf("list resources: %w", err)
	}
	if list == nil {
		list = []*domain.Resource{}
	}
	return Page{Data: list, Page: page, TotalPages: shared.Pages(total, pageSize), Total: total}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Resource, error) {
	if err := application.ValidateID(id); err != nil {
		return nil, err
	}
	return s.Repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, role users.Role, in Input) (*domain.Resource, error) {
	if err := requireAdmin(role); err != nil {
		return nil, err
	}
	if in.Title == nil || in.Description == nil || in.Category == nil || in.URL == nil {
		return nil, fmt.Errorf("%w: title, description, category and url are required", shared.ErrInvalidInput)
	}
	r := &domain.Resource{ID: uuid.New().String(), Tags: []string{}}
	if err := apply(r, in); err != nil {
		return nil, err
	}
	// new resources wait for review
	r.IsApproved = false
	now := s.Clock.Now()
	r.CreatedAt, r.UpdatedAt = now, now

	if err := s.Repo.Save(ctx, r); err != nil {
		return nil, fmt.Errorf("save resource: %w", err)
	}
	s.Log.Info(ctx, "resource created", "resource_id", r.ID, "category", r.Category)
	return r, nil
}

func (s *Service) Update(ctx context.Context, role users.Role, id string, in Input) (*domain.Resource, error) {
	if err := requireAdmin(role); err != nil {
		return nil, err
	}
	r, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(r, in); err != nil {
		return nil, err
	}
	if in.IsApproved != nil {
		r.IsApproved = *in.IsApproved
	}
	r.UpdatedAt = s.Clock.Now()
	if err := s.Repo.Update(ctx, r); err != nil {
		return nil, fmt.Errorf("update resource: %w", err)
	}
	return r, nil
}

func (s *Service) Delete(ctx context.Context, role users.Role, id string) error {
	if err := requireAdmin(role); err != nil {
		return err
	}
	if err := application.ValidateID(id); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	s.Log.Info(ctx, "resource deleted", "resource_id", id)
	return nil
}

func requireAdmin(role users.Role) error {
	if role != users.RoleAdmin {
		return fmt.Errorf("%w: admin role required", shared.ErrForbidden)
	}
	return nil
}

func apply(r *domain.Resource, in Input) error {
	if in.Title != nil {
		title := application.SanitizeString(*in.Title)
		if err := application.ValidateText("title", title, maxTitleLength); err != nil {
			return err
		}
		r.Title = title
	}
	if in.Description != nil {
		desc := strings.TrimSpace(*in.Description)
		if err := application.ValidateText("description", desc, maxDescriptionLength); err != nil {
			return err
		}
		r.Description = desc
	}
	if in.Category != nil {
		if !in.Category.Valid() {
			return fmt.Errorf("%w: unknown category %q", shared.ErrInvalidInput, *in.Category)
		}
		r.Category = *in.Category
	}
	if in.URL != nil {
		u := strings.TrimSpace(*in.URL)
		if err := application.ValidateURL(u); err != nil {
			return err
		}
		r.URL = u
	}
	if in.Tags != nil {
		tags := make([]string, 0, len(in.Tags))
		for _, t := range in.Tags {
			if t = application.SanitizeString(t); t != "" {
				tags = append(tags, t)
			}
		}
		r.Tags = tags
	}
	return nil
}
