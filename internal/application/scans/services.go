package scans

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bryanwahyu/safe-space/internal/application"
	"github.com/bryanwahyu/safe-space/internal/domain/ai"
	domain "github.com/bryanwahyu/safe-space/internal/domain/scans"
	"github.com/bryanwahyu/safe-space/internal/domain/shared"
	"github.com/bryanwahyu/safe-space/internal/logging"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100

	exportBatchSize = 100
)

// Service implements use-cases untuk Scan.
// Service is designed to be used concurrently and is thread-safe.
type Service struct {
	Repo      domain.Repository
	Evaluator *domain.Evaluator
	Clock     application.Clock
	Log       logging.Logger

	// optional integrations; nil disables the feature
	Artifacts domain.ArtifactStore
	Explainer ai.Explainer
}

//
// ==== USE CASES ====
//

// ScanURL validates the URL, evaluates it, stores the record and returns it.
// Surrounding whitespace is tolerated by validation but the submitted text is
// evaluated and stored as is.
func (s *Service) ScanURL(ctx context.Context, userID, rawURL string) (*domain.Record, error) {
	if err := application.ValidateURL(rawURL); err != nil {
		return nil, err
	}
	return s.scan(ctx, userID, domain.Input{Kind: domain.KindURL, Text: rawURL})
}

// ScanMessage evaluates a message with the placeholder heuristic and stores it.
func (s *Service) ScanMessage(ctx context.Context, userID, message string) (*domain.Record, error) {
	if err := application.ValidateText("message", message, 0); err != nil {
		return nil, err
	}
	return s.scan(ctx, userID, domain.Input{Kind: domain.KindMessage, Text: message})
}

func (s *Service) scan(ctx context.Context, userID string, in domain.Input) (*domain.Record, error) {
	if userID == "" {
		return nil, shared.ErrUnauthorized
	}

	now := s.Clock.Now()
	// the record's createdAt and the verdict's scannedAt share one instant
	ev := domain.Evaluator{Now: func() time.Time { return now }}
	if s.Evaluator != nil {
		ev.IntN = s.Evaluator.IntN
	}
	verdict := ev.Evaluate(in)

	rec := &domain.Record{
		ID:        domain.RecordID(uuid.New().String()),
		UserID:    userID,
		Input:     in,
		Verdict:   verdict,
		CreatedAt: now,
	}
	if err := s.Repo.Save(ctx, rec); err != nil {
		s.Log.Error(ctx, "scan not stored", "user_id", userID, "kind", in.Kind, "err", err)
		return nil, fmt.Errorf("store scan: %w", err)
	}

	s.Log.Info(ctx, "scan stored",
		"user_id", userID,
		"kind", in.Kind,
		"risk_score", verdict.RiskScore,
		"is_safe", verdict.IsSafe,
	)
	return rec, nil
}

// History returns one page of the user's records of the given kind, newest first.
func (s *Service) History(ctx context.Context, userID string, kind domain.Kind, page, pageSize int) (domain.PaginatedResult, error) {
	if userID == "" {
		return domain.PaginatedResult{}, shared.ErrUnauthorized
	}
	if !kind.Valid() {
		return domain.PaginatedResult{}, fmt.Errorf("%w: unknown scan type %q", shared.ErrInvalidInput, kind)
	}
	page, pageSize = shared.Page(page, pageSize, DefaultPageSize, MaxPageSize)

	list, total, err := s.Repo.ListByUser(ctx, userID, kind, page, pageSize)
	if err != nil {
		return domain.PaginatedResult{}, fmt.Errorf("list scans: %w", err)
	}
	if list == nil {
		list = []*domain.Record{}
	}
	return domain.PaginatedResult{
		Data:       list,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: shared.Pages(total, pageSize),
	}, nil
}

// Get ambil 1 record milik user. Records of another kind are reported as not found.
func (s *Service) Get(ctx context.Context, userID string, kind domain.Kind, id domain.RecordID) (*domain.Record, error) {
	if userID == "" {
		return nil, shared.ErrUnauthorized
	}
	if err := application.ValidateID(string(id)); err != nil {
		return nil, err
	}
	rec, err := s.Repo.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if kind != "" && rec.Input.Kind != kind {
		return nil, shared.ErrNotFound
	}
	return rec, nil
}

// Explain asks the AI explainer to describe a stored URL verdict.
func (s *Service) Explain(ctx context.Context, userID string, id domain.RecordID) (string, error) {
	if s.Explainer == nil {
		return "", shared.ErrFeatureDisabled
	}
	rec, err := s.Get(ctx, userID, domain.KindURL, id)
	if err != nil {
		return "", err
	}
	text, err := s.Explainer.Explain(ctx, rec.Input.Text, rec.Verdict)
	if err != nil {
		if !errors.Is(err, ai.ErrQuotaExceeded) {
			s.Log.Warn(ctx, "explain failed", "record_id", id, "err", err)
		}
		return "", err
	}
	return text, nil
}

// ExportResult describes an uploaded history export.
type ExportResult struct {
	URL     string `json:"url"`
	Key     string `json:"key"`
	Records int    `json:"records"`
}

// Export uploads every record the user owns (both kinds) as one JSON document.
func (s *Service) Export(ctx context.Context, userID string) (ExportResult, error) {
	if s.Artifacts == nil {
		return ExportResult{}, shared.ErrFeatureDisabled
	}
	if userID == "" {
		return ExportResult{}, shared.ErrUnauthorized
	}

	all := make([]*domain.Record, 0)
	for _, kind := range []domain.Kind{domain.KindURL, domain.KindMessage} {
		for page := 1; ; page++ {
			list, total, err := s.Repo.ListByUser(ctx, userID, kind, page, exportBatchSize)
			if err != nil {
				return ExportResult{}, fmt.Errorf("list scans: %w", err)
			}
			all = append(all, list...)
			if len(list) == 0 || int64(page*exportBatchSize) >= total {
				break
			}
		}
	}

	now := s.Clock.Now()
	body, err := json.Marshal(map[string]any{
		"userId":     userID,
		"exportedAt": now,
		"records":    all,
	})
	if err != nil {
		return ExportResult{}, err
	}

	key := fmt.Sprintf("exports/%s/%s.json", userID, now.Format("20060102T150405Z"))
	url, err := s.Artifacts.PutJSON(ctx, key, body)
	if err != nil {
		return ExportResult{}, fmt.Errorf("upload export: %w", err)
	}
	s.Log.Info(ctx, "scan history exported", "user_id", userID, "records", len(all), "key", key)
	return ExportResult{URL: url, Key: key, Records: len(all)}, nil
}
