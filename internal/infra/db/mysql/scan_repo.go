package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"

	domain "github.com/bryanwahyu/safe-space/internal/domain/scans"
	"github.com/bryanwahyu/safe-space/internal/domain/shared"
)

type ScanRepository struct {
	db *sql.DB
}

func NewScanRepository(db *sql.DB) *ScanRepository {
	return &ScanRepository{db: db}
}

const scanColumns = `seq, id, user_id, kind, content, is_safe, risk_score, categories, reason, analysis, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

// Save inserts an immutable scan record and sets its sequence number.
func (r *ScanRepository) Save(ctx context.Context, rec *domain.Record) error {
	const q = `
INSERT INTO scan_records
(id, user_id, kind, content, is_safe, risk_score, categories, reason, analysis, created_at)
VALUES (?,?,?,?,?,?,?,?,?,?);`

	cats, err := jsonStrings(rec.Verdict.Categories)
	if err != nil {
		return err
	}
	var analysis any
	if rec.Verdict.Analysis != nil {
		b, err := json.Marshal(rec.Verdict.Analysis)
		if err != nil {
			return err
		}
		analysis = b
	}

	res, err := r.db.ExecContext(ctx, q,
		rec.ID, rec.UserID, rec.Input.Kind, rec.Input.Text,
		rec.Verdict.IsSafe, rec.Verdict.RiskScore, cats, rec.Verdict.Reason, analysis,
		rec.CreatedAt.UTC(),
	)
	if err != nil {
		return classify(err)
	}
	if seq, err := res.LastInsertId(); err == nil {
		rec.Seq = seq
	}
	return nil
}

func (r *ScanRepository) Get(ctx context.Context, userID string, id domain.RecordID) (*domain.Record, error) {
	q := `SELECT ` + scanColumns + ` FROM scan_records WHERE user_id=? AND id=? LIMIT 1;`
	rec, err := scanRecord(r.db.QueryRowContext(ctx, q, userID, id))
	if err != nil {
		return nil, classify(err)
	}
	return rec, nil
}

// ListByUser returns one page, newest first, plus the total count for the user and kind.
func (r *ScanRepository) ListByUser(ctx context.Context, userID string, kind domain.Kind, page, pageSize int) ([]*domain.Record, int64, error) {
	page, pageSize = shared.Page(page, pageSize, 20, math.MaxInt32)

	total, err := r.Count(ctx, userID, kind)
	if err != nil {
		return nil, 0, err
	}

	q := `SELECT ` + scanColumns + ` FROM scan_records
WHERE user_id=? AND kind=?
ORDER BY created_at DESC, seq DESC
LIMIT ? OFFSET ?;`
	out, err := r.query(ctx, q, userID, kind, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *ScanRepository) Latest(ctx context.Context, userID string, kind domain.Kind, limit int) ([]*domain.Record, error) {
	if limit <= 0 {
		limit = 5
	}
	q := `SELECT ` + scanColumns + ` FROM scan_records
WHERE user_id=? AND kind=?
ORDER BY created_at DESC, seq DESC
LIMIT ?;`
	return r.query(ctx, q, userID, kind, limit)
}

func (r *ScanRepository) Count(ctx context.Context, userID string, kind domain.Kind) (int64, error) {
	const q = `SELECT COUNT(*) FROM scan_records WHERE user_id=? AND kind=?;`
	var n int64
	if err := r.db.QueryRowContext(ctx, q, userID, kind).Scan(&n); err != nil {
		return 0, classify(err)
	}
	return n, nil
}

// URLStats aggregates URL scans: safe is score < 30, unsafe is score >= 70.
func (r *ScanRepository) URLStats(ctx context.Context, userID string) (domain.Stats, error) {
	const q = `
SELECT COUNT(*),
       COALESCE(SUM(risk_score < ?),0),
       COALESCE(SUM(risk_score >= ?),0),
       COALESCE(AVG(risk_score),0)
FROM scan_records
WHERE user_id=? AND kind=?;`

	var st domain.Stats
	err := r.db.QueryRowContext(ctx, q, domain.SafeThreshold, domain.UnsafeStatsThreshold, userID, domain.KindURL).
		Scan(&st.Total, &st.Safe, &st.Unsafe, &st.AvgRiskScore)
	if err != nil {
		return domain.Stats{}, classify(err)
	}
	return st, nil
}

func (r *ScanRepository) query(ctx context.Context, q string, args ...any) ([]*domain.Record, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	out := make([]*domain.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return out, nil
}

func scanRecord(row rowScanner) (*domain.Record, error) {
	var (
		rec      domain.Record
		cats     []byte
		analysis []byte
	)
	if err := row.Scan(
		&rec.Seq, &rec.ID, &rec.UserID, &rec.Input.Kind, &rec.Input.Text,
		&rec.Verdict.IsSafe, &rec.Verdict.RiskScore, &cats, &rec.Verdict.Reason, &analysis,
		&rec.CreatedAt,
	); err != nil {
		return nil, err
	}

	var err error
	if rec.Verdict.Categories, err = decodeStrings(cats); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	if len(analysis) > 0 {
		rec.Verdict.Analysis = &domain.Analysis{}
		if err := json.Unmarshal(analysis, rec.Verdict.Analysis); err != nil {
			return nil, fmt.Errorf("decode analysis: %w", err)
		}
	}
	rec.CreatedAt = rec.CreatedAt.UTC()
	return &rec, nil
}
