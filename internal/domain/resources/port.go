package resources

import "context"

// Repository port for resources
type Repository interface {
	Save(ctx context.Context, r *Resource) error
	Update(ctx context.Context, r *Resource) error
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*Resource, error)
	List(ctx context.Context, f Filter, page, pageSize int) ([]*Resource, int64, error)
}
