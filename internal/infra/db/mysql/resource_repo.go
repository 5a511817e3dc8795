package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	domain "github.com/bryanwahyu/safe-space/internal/domain/resources"
	"github.com/bryanwahyu/safe-space/internal/domain/shared"
)

type ResourceRepository struct {
	db *sql.DB
}

func NewResourceRepository(db *sql.DB) *ResourceRepository {
	return &ResourceRepository{db: db}
}

const resourceColumns = `id, title, description, category, url, tags, is_approved, created_at, updated_at`

func (r *ResourceRepository) Save(ctx context.Context, res *domain.Resource) error {
	const q = `
INSERT INTO resources (id, title, description, category, url, tags, is_approved, created_at, updated_at)
VALUES (?,?,?,?,?,?,?,?,?);`
	tags, err := jsonStrings(res.Tags)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, q,
		res.ID, res.Title, res.Description, res.Category, res.URL, tags, res.IsApproved,
		res.CreatedAt.UTC(), res.UpdatedAt.UTC())
	return classify(err)
}

func (r *ResourceRepository) Update(ctx context.Context, res *domain.Resource) error {
	const q = `
UPDATE resources
SET title=?, description=?, category=?, url=?, tags=?, is_approved=?, updated_at=?
WHERE id=?;`
	tags, err := jsonStrings(res.Tags)
	if err != nil {
		return err
	}
	result, err := r.db.ExecContext(ctx, q,
		res.Title, res.Description, res.Category, res.URL, tags, res.IsApproved, res.UpdatedAt.UTC(), res.ID)
	if err != nil {
		return classify(err)
	}
	return mustAffect(result)
}

func (r *ResourceRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM resources WHERE id=?;`, id)
	if err != nil {
		return classify(err)
	}
	return mustAffect(result)
}

func (r *ResourceRepository) Get(ctx context.Context, id string) (*domain.Resource, error) {
	q := `SELECT ` + resourceColumns + ` FROM resources WHERE id=? LIMIT 1;`
	res, err := scanResource(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, classify(err)
	}
	return res, nil
}

func (r *ResourceRepository) List(ctx context.Context, f domain.Filter, page, pageSize int) ([]*domain.Resource, int64, error) {
	page, pageSize = shared.Page(page, pageSize, 10, math.MaxInt32)

	where := " WHERE 1=1"
	args := []any{}
	if f.Category != "" {
		where += " AND category = ?"
		args = append(args, f.Category)
	}
	if f.Approved != nil {
		where += " AND is_approved = ?"
		args = append(args, *f.Approved)
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM resources"+where, args...).Scan(&total); err != nil {
		return nil, 0, classify(err)
	}

	q := `SELECT ` + resourceColumns + ` FROM resources` + where + ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, append(args, pageSize, (page-1)*pageSize)...)
	if err != nil {
		return nil, 0, classify(err)
	}
	defer rows.Close()

	out := make([]*domain.Resource, 0)
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning row: %w", err)
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, classify(err)
	}
	return out, total, nil
}

func scanResource(row rowScanner) (*domain.Resource, error) {
	var (
		res  domain.Resource
		tags []byte
	)
	if err := row.Scan(&res.ID, &res.Title, &res.Description, &res.Category, &res.URL, &tags,
		&res.IsApproved, &res.CreatedAt, &res.UpdatedAt); err != nil {
		return nil, err
	}
	var err error
	if res.Tags, err = decodeStrings(tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	res.CreatedAt, res.UpdatedAt = res.CreatedAt.UTC(), res.UpdatedAt.UTC()
	return &res, nil
}

// mustAffect turns a zero-row UPDATE/DELETE into shared.ErrNotFound.
func mustAffect(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return shared.ErrNotFound
	}
	return nil
}
