package community

import "context"

// Repository port for community posts
type Repository interface {
	Save(ctx context.Context, p *Post) error
	Update(ctx context.Context, p *Post) error
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*Post, error)
	List(ctx context.Context, f Filter, page, pageSize int) ([]*Post, int64, error)
	Categories(ctx context.Context) ([]string, error)

	// ToggleLike flips userID's like and reports whether the post is now liked.
	ToggleLike(ctx context.Context, postID, userID string) (bool, error)
}
