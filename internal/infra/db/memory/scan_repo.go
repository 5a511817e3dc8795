// Package memory holds thread-safe in-process repositories. They back the
// "memory" database driver for local development and the service tests.
package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	domain "github.com/bryanwahyu/safe-space/internal/domain/scans"
	"github.com/bryanwahyu/safe-space/internal/domain/shared"
)

type ScanRepository struct {
	mu      sync.RWMutex
	seq     int64
	records []*domain.Record
}

func NewScanRepository() *ScanRepository {
	return &ScanRepository{}
}

// Save appends a copy of r and assigns its sequence number.
func (r *ScanRepository) Save(_ context.Context, rec *domain.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.records {
		if existing.ID == rec.ID {
			return shared.ErrConflict
		}
	}
	r.seq++
	rec.Seq = r.seq
	r.records = append(r.records, cloneRecord(rec))
	return nil
}

func (r *ScanRepository) Get(_ context.Context, userID string, id domain.RecordID) (*domain.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rec := range r.records {
		if rec.ID == id && rec.UserID == userID {
			return cloneRecord(rec), nil
		}
	}
	return nil, shared.ErrNotFound
}

// selectLocked returns the user's records of kind, newest first. Caller holds mu.
func (r *ScanRepository) selectLocked(userID string, kind domain.Kind) []*domain.Record {
	out := make([]*domain.Record, 0)
	for _, rec := range r.records {
		if rec.UserID == userID && (kind == "" || rec.Input.Kind == kind) {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Seq > out[j].Seq
	})
	return out
}

func (r *ScanRepository) ListByUser(_ context.Context, userID string, kind domain.Kind, page, pageSize int) ([]*domain.Record, int64, error) {
	page, pageSize = shared.Page(page, pageSize, 20, math.MaxInt32)

	r.mu.RLock()
	defer r.mu.RUnlock()

	all := r.selectLocked(userID, kind)
	total := int64(len(all))
	start := (page - 1) * pageSize
	if start >= len(all) {
		return []*domain.Record{}, total, nil
	}
	end := min(start+pageSize, len(all))

	out := make([]*domain.Record, 0, end-start)
	for _, rec := range all[start:end] {
		out = append(out, cloneRecord(rec))
	}
	return out, total, nil
}

func (r *ScanRepository) Latest(ctx context.Context, userID string, kind domain.Kind, limit int) ([]*domain.Record, error) {
	if limit <= 0 {
		limit = 5
	}
	out, _, err := r.ListByUser(ctx, userID, kind, 1, limit)
	return out, err
}

func (r *ScanRepository) Count(_ context.Context, userID string, kind domain.Kind) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.selectLocked(userID, kind))), nil
}

// URLStats mirrors the SQL aggregate: safe is score < 30, unsafe is score >= 70.
func (r *ScanRepository) URLStats(_ context.Context, userID string) (domain.Stats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var st domain.Stats
	var sum int64
	for _, rec := range r.selectLocked(userID, domain.KindURL) {
		st.Total++
		sum += int64(rec.Verdict.RiskScore)
		if rec.Verdict.RiskScore < domain.SafeThreshold {
			st.Safe++
		}
		if rec.Verdict.RiskScore >= domain.UnsafeStatsThreshold {
			st.Unsafe++
		}
	}
	if st.Total > 0 {
		st.AvgRiskScore = float64(sum) / float64(st.Total)
	}
	return st, nil
}

func cloneRecord(rec *domain.Record) *domain.Record {
	c := *rec
	c.Verdict.Categories = append([]string{}, rec.Verdict.Categories...)
	if rec.Verdict.Analysis != nil {
		a := *rec.Verdict.Analysis
		c.Verdict.Analysis = &a
	}
	return &c
}
