package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	domain "github.com/bryanwahyu/safe-space/internal/domain/resources"
	"github.com/bryanwahyu/safe-space/internal/domain/shared"
)

type ResourceRepository struct {
	mu        sync.RWMutex
	resources map[string]*domain.Resource
}

func NewResourceRepository() *ResourceRepository {
	return &ResourceRepository{resources: make(map[string]*domain.Resource)}
}

func (r *ResourceRepository) Save(_ context.Context, res *domain.Resource) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.resources[res.ID]; ok {
		return shared.ErrConflict
	}
	c := cloneResource(res)
	r.resources[res.ID] = &c
	return nil
}

func (r *ResourceRepository) Update(_ context.Context, res *domain.Resource) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.resources[res.ID]; !ok {
		return shared.ErrNotFound
	}
	c := cloneResource(res)
	r.resources[res.ID] = &c
	return nil
}

func (r *ResourceRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.resources[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.resources, id)
	return nil
}

func (r *ResourceRepository) Get(_ context.Context, id string) (*domain.Resource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res, ok := r.resources[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	c := cloneResource(res)
	return &c, nil
}

func (r *ResourceRepository) List(_ context.Context, f domain.Filter, page, pageSize int) ([]*domain.Resource, int64, error) {
	page, pageSize = shared.Page(page, pageSize, 10, math.MaxInt32)

	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]*domain.Resource, 0)
	for _, res := range r.resources {
		if f.Category != "" && res.Category != f.Category {
			continue
		}
		if f.Approved != nil && res.IsApproved != *f.Approved {
			continue
		}
		matched = append(matched, res)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := int64(len(matched))
	out := make([]*domain.Resource, 0, pageSize)
	start := (page - 1) * pageSize
	for i := start; i < len(matched) && i < start+pageSize; i++ {
		c := cloneResource(matched[i])
		out = append(out, &c)
	}
	return out, total, nil
}

func cloneResource(res *domain.Resource) domain.Resource {
	c := *res
	c.Tags = append([]string{}, res.Tags...)
	return c
}
