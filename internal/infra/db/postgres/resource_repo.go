package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"github.com/lib/pq"

	domain "github.com/bryanwahyu/safe-space/internal/domain/resources"
	"github.com/bryanwahyu/safe-space/internal/domain/shared"
)

type ResourceRepository struct{ db *sql.DB }

func NewResourceRepository(db *sql.DB) *ResourceRepository { return &ResourceRepository{db: db} }

const resourceColumns = `id, title, description, category, url, tags, is_approved, created_at, updated_at`

func (r *ResourceRepository) Save(ctx context.Context, res *domain.Resource) error {
	const q = `
INSERT INTO resources (id, title, description, category, url, tags, is_approved, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9);`
	_, err := r.db.ExecContext(ctx, q,
		res.ID, res.Title, res.Description, res.Category, res.URL, pq.Array(nonNil(res.Tags)), res.IsApproved,
		res.CreatedAt.UTC(), res.UpdatedAt.UTC())
	return classify(err)
}

func (r *ResourceRepository) Update(ctx context.Context, res *domain.Resource) error {
	const q = `
UPDATE resources
SET title=$1, description=$2, category=$3, url=$4, tags=$5, is_approved=$6, updated_at=$7
WHERE id=$8;`
	result, err := r.db.ExecContext(ctx, q,
		res.Title, res.Description, res.Category, res.URL, pq.Array(nonNil(res.Tags)), res.IsApproved,
		res.UpdatedAt.UTC(), res.ID)
	if err != nil {
		return classify(err)
	}
	return mustAffect(result)
}

func (r *ResourceRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM resources WHERE id=$1;`, id)
	if err != nil {
		return classify(err)
	}
	return mustAffect(result)
}

func (r *ResourceRepository) Get(ctx context.Context, id string) (*domain.Resource, error) {
	q := `SELECT ` + resourceColumns + ` FROM resources WHERE id=$1;`
	res, err := scanResource(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, classify(err)
	}
	return res, nil
}

func (r *ResourceRepository) List(ctx context.Context, f domain.Filter, page, pageSize int) ([]*domain.Resource, int64, error) {
	page, pageSize = shared.Page(page, pageSize, 10, math.MaxInt32)

	var a args
	where := " WHERE 1=1"
	if f.Category != "" {
		where += " AND category = " + a.add(f.Category)
	}
	if f.Approved != nil {
		where += " AND is_approved = " + a.add(*f.Approved)
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM resources"+where, a...).Scan(&total); err != nil {
		return nil, 0, classify(err)
	}

	q := `SELECT ` + resourceColumns + ` FROM resources` + where +
		` ORDER BY created_at DESC, id DESC LIMIT ` + a.add(pageSize) + ` OFFSET ` + a.add((page-1)*pageSize)
	rows, err := r.db.QueryContext(ctx, q, a...)
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
		tags pq.StringArray
	)
	if err := row.Scan(&res.ID, &res.Title, &res.Description, &res.Category, &res.URL, &tags,
		&res.IsApproved, &res.CreatedAt, &res.UpdatedAt); err != nil {
		return nil, err
	}
	res.Tags = nonNil(tags)
	res.CreatedAt, res.UpdatedAt = res.CreatedAt.UTC(), res.UpdatedAt.UTC()
	return &res, nil
}
