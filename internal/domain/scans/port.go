package scans

import "context"

// Repository port (interface untuk persistence)
type Repository interface {
	// Save appends a new record. Records are never updated afterwards.
	Save(ctx context.Context, r *Record) error
	Get(ctx context.Context, userID string, id RecordID) (*Record, error)

	// ListByUser returns records newest first (created_at DESC, seq DESC)
	// together with the user's total count for the kind.
	ListByUser(ctx context.Context, userID string, kind Kind, page, pageSize int) ([]*Record, int64, error)
	Latest(ctx context.Context, userID string, kind Kind, limit int) ([]*Record, error)
	Count(ctx context.Context, userID string, kind Kind) (int64, error)
	URLStats(ctx context.Context, userID string) (Stats, error)
}

// ArtifactStore port (interface untuk penyimpanan export)
type ArtifactStore interface {
	PutJSON(ctx context.Context, key string, body []byte) (string, error)
}
