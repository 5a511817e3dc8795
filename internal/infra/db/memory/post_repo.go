package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	domain "github.com/bryanwahyu/safe-space/internal/domain/community"
	"github.com/bryanwahyu/safe-space/internal/domain/shared"
)

type PostRepository struct {
	mu    sync.RWMutex
	seq   int64
	posts map[string]*storedPost
}

type storedPost struct {
	post domain.Post
	seq  int64
}

func NewPostRepository() *PostRepository {
	return &PostRepository{posts: make(map[string]*storedPost)}
}

func (r *PostRepository) Save(_ context.Context, p *domain.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[p.ID]; ok {
		return shared.ErrConflict
	}
	r.seq++
	r.posts[p.ID] = &storedPost{post: clonePost(p), seq: r.seq}
	return nil
}

// Update replaces title, content, category and updatedAt.
func (r *PostRepository) Update(_ context.Context, p *domain.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sp, ok := r.posts[p.ID]
	if !ok {
		return shared.ErrNotFound
	}
	sp.post.Title = p.Title
	sp.post.Content = p.Content
	sp.post.Category = p.Category
	sp.post.UpdatedAt = p.UpdatedAt
	return nil
}

func (r *PostRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.posts, id)
	return nil
}

func (r *PostRepository) Get(_ context.Context, id string) (*domain.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sp, ok := r.posts[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	p := clonePost(&sp.post)
	return &p, nil
}

func (r *PostRepository) List(_ context.Context, f domain.Filter, page, pageSize int) ([]*domain.Post, int64, error) {
	page, pageSize = shared.Page(page, pageSize, 10, math.MaxInt32)

	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]*storedPost, 0)
	for _, sp := range r.posts {
		if f.Category != "" && sp.post.Category != f.Category {
			continue
		}
		if f.UserID != "" && sp.post.UserID != f.UserID {
			continue
		}
		matched = append(matched, sp)
	}
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.post.CreatedAt.Equal(b.post.CreatedAt) {
			return a.post.CreatedAt.After(b.post.CreatedAt)
		}
		return a.seq > b.seq
	})

	total := int64(len(matched))
	out := make([]*domain.Post, 0, pageSize)
	start := (page - 1) * pageSize
	for i := start; i < len(matched) && i < start+pageSize; i++ {
		p := clonePost(&matched[i].post)
		out = append(out, &p)
	}
	return out, total, nil
}

func (r *PostRepository) Categories(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, sp := range r.posts {
		if !seen[sp.post.Category] {
			seen[sp.post.Category] = true
			out = append(out, sp.post.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *PostRepository) ToggleLike(_ context.Context, postID, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sp, ok := r.posts[postID]
	if !ok {
		return false, shared.ErrNotFound
	}
	for i, id := range sp.post.Likes {
		if id == userID {
			sp.post.Likes = append(sp.post.Likes[:i], sp.post.Likes[i+1:]...)
			return false, nil
		}
	}
	sp.post.Likes = append(sp.post.Likes, userID)
	return true, nil
}

func clonePost(p *domain.Post) domain.Post {
	c := *p
	c.Likes = append([]string{}, p.Likes...)
	return c
}
