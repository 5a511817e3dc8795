package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	domain "github.com/bryanwahyu/safe-space/internal/domain/community"
	"github.com/bryanwahyu/safe-space/internal/domain/shared"
)

type PostRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) *PostRepository {
	return &PostRepository{db: db}
}

const postColumns = `id, user_id, username, title, content, category, created_at, updated_at`

func (r *PostRepository) Save(ctx context.Context, p *domain.Post) error {
	const q = `
INSERT INTO posts (id, user_id, username, title, content, category, created_at, updated_at)
VALUES (?,?,?,?,?,?,?,?);`
	_, err := r.db.ExecContext(ctx, q,
		p.ID, p.UserID, p.Username, p.Title, p.Content, p.Category, p.CreatedAt.UTC(), p.UpdatedAt.UTC())
	return classify(err)
}

func (r *PostRepository) Update(ctx context.Context, p *domain.Post) error {
	const q = `UPDATE posts SET title=?, content=?, category=?, updated_at=? WHERE id=?;`
	res, err := r.db.ExecContext(ctx, q, p.Title, p.Content, p.Category, p.UpdatedAt.UTC(), p.ID)
	if err != nil {
		return classify(err)
	}
	return mustAffect(res)
}

// Delete removes the post; likes go with it (ON DELETE CASCADE).
func (r *PostRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id=?;`, id)
	if err != nil {
		return classify(err)
	}
	return mustAffect(res)
}

func (r *PostRepository) Get(ctx context.Context, id string) (*domain.Post, error) {
	q := `SELECT ` + postColumns + ` FROM posts WHERE id=? LIMIT 1;`
	p, err := scanPost(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, classify(err)
	}
	if err := r.attachLikes(ctx, []*domain.Post{p}); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PostRepository) List(ctx context.Context, f domain.Filter, page, pageSize int) ([]*domain.Post, int64, error) {
	page, pageSize = shared.Page(page, pageSize, 10, math.MaxInt32)

	where := " WHERE 1=1"
	args := []any{}
	if f.Category != "" {
		where += " AND category = ?"
		args = append(args, f.Category)
	}
	if f.UserID != "" {
		where += " AND user_id = ?"
		args = append(args, f.UserID)
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM posts"+where, args...).Scan(&total); err != nil {
		return nil, 0, classify(err)
	}

	q := `SELECT ` + postColumns + ` FROM posts` + where + ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, append(args, pageSize, (page-1)*pageSize)...)
	if err != nil {
		return nil, 0, classify(err)
	}
	defer rows.Close()

	out := make([]*domain.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning row: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, classify(err)
	}
	if err := r.attachLikes(ctx, out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *PostRepository) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT category FROM posts ORDER BY category;`)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, classify(rows.Err())
}

// ToggleLike runs in a transaction so the delete-or-insert decision is atomic
// per post.
func (r *PostRepository) ToggleLike(ctx context.Context, postID, userID string) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, classify(err)
	}
	defer func() { _ = tx.Rollback() }()

	var id string
	if err := tx.QueryRowContext(ctx, `SELECT id FROM posts WHERE id=? FOR UPDATE;`, postID).Scan(&id); err != nil {
		return false, classify(err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM post_likes WHERE post_id=? AND user_id=?;`, postID, userID)
	if err != nil {
		return false, classify(err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	liked := removed == 0
	if liked {
		if _, err := tx.ExecContext(ctx, `INSERT INTO post_likes (post_id, user_id) VALUES (?,?);`, postID, userID); err != nil {
			return false, classify(err)
		}
	}
	if err := tx.Commit(); err != nil {
		return false, classify(err)
	}
	return liked, nil
}

func (r *PostRepository) attachLikes(ctx context.Context, posts []*domain.Post) error {
	if len(posts) == 0 {
		return nil
	}
	byID := make(map[string]*domain.Post, len(posts))
	args := make([]any, 0, len(posts))
	for _, p := range posts {
		p.Likes = []string{}
		byID[p.ID] = p
		args = append(args, p.ID)
	}

	q := `SELECT post_id, user_id FROM post_likes WHERE post_id IN (` + placeholders(len(args)) + `) ORDER BY post_id, user_id`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return classify(err)
	}
	defer rows.Close()

	for rows.Next() {
		var postID, userID string
		if err := rows.Scan(&postID, &userID); err != nil {
			return err
		}
		if p, ok := byID[postID]; ok {
			p.Likes = append(p.Likes, userID)
		}
	}
	return classify(rows.Err())
}

func scanPost(row rowScanner) (*domain.Post, error) {
	var p domain.Post
	if err := row.Scan(&p.ID, &p.UserID, &p.Username, &p.Title, &p.Content, &p.Category, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.CreatedAt, p.UpdatedAt = p.CreatedAt.UTC(), p.UpdatedAt.UTC()
	p.Likes = []string{}
	return &p, nil
}
