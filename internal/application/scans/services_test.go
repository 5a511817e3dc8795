package scans_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/safe-space/internal/application"
	"github.com/bryanwahyu/safe-space/internal/application/scans"
	"github.com/bryanwahyu/safe-space/internal/domain/ai"
	domain "github.com/bryanwahyu/safe-space/internal/domain/scans"
	"github.com/bryanwahyu/safe-space/internal/domain/shared"
	"github.com/bryanwahyu/safe-space/internal/infra/db/memory"
	"github.com/bryanwahyu/safe-space/internal/logging"
)

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newService() (*scans.Service, *application.FixedClock) {
	clock := &application.FixedClock{T: t0}
	return &scans.Service{
		Repo:      memory.NewScanRepository(),
		Evaluator: &domain.Evaluator{IntN: func(int) int { return 42 }},
		Clock:     clock,
		Log:       logging.Nop(),
	}, clock
}

type failingRepo struct {
	domain.Repository
	err error
}

func (f failingRepo) Save(context.Context, *domain.Record) error { return f.err }

func (f failingRepo) ListByUser(context.Context, string, domain.Kind, int, int) ([]*domain.Record, int64, error) {
	return nil, 0, f.err
}

type fakeArtifacts struct {
	key  string
	body []byte
	err  error
}

func (f *fakeArtifacts) PutJSON(_ context.Context, key string, body []byte) (string, error) {
	f.key, f.body = key, body
	if f.err != nil {
		return "", f.err
	}
	return "http://minio.local/bucket/" + key, nil
}

type fakeExplainer struct {
	text string
	err  error
	got  string
}

func (f *fakeExplainer) Explain(_ context.Context, url string, _ domain.Verdict) (string, error) {
	f.got = url
	return f.text, f.err
}

func TestScanURL_StoresVerdict(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	raw := "  http://phishing-site.tk  "
	rec, err := svc.ScanURL(ctx, "u1", raw)
	require.NoError(t, err)
	assert.Equal(t, domain.KindURL, rec.Input.Kind)
	assert.Equal(t, raw, rec.Input.Text)
	assert.Equal(t, 75, rec.Verdict.RiskScore)
	assert.False(t, rec.Verdict.IsSafe)
	assert.Equal(t, domain.ReasonHighRisk, rec.Verdict.Reason)
	require.NotNil(t, rec.Verdict.Analysis)
	assert.Equal(t, len(raw), rec.Verdict.Analysis.Length)
	assert.Equal(t, t0, rec.Verdict.Analysis.ScannedAt)
	assert.Equal(t, t0, rec.CreatedAt)

	got, err := svc.Get(ctx, "u1", domain.KindURL, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.Verdict, got.Verdict)
}

func TestScanURL_InvalidInput(t *testing.T) {
	svc, _ := newService()

	for _, in := range []string{"", "   ", "not a url", "javascript:alert(1)", "localhost"} {
		_, err := svc.ScanURL(context.Background(), "u1", in)
		assert.ErrorIs(t, err, shared.ErrInvalidInput, in)
	}
}

func TestScan_RequiresUser(t *testing.T) {
	svc, _ := newService()

	_, err := svc.ScanURL(context.Background(), "", "https://example.com")
	assert.ErrorIs(t, err, shared.ErrUnauthorized)

	_, err = svc.ScanMessage(context.Background(), "", "hello")
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
}

func TestScanMessage_Placeholder(t *testing.T) {
	svc, _ := newService()

	rec, err := svc.ScanMessage(context.Background(), "u1", "you are great")
	require.NoError(t, err)
	assert.True(t, rec.Verdict.IsSafe)
	assert.Equal(t, 42, rec.Verdict.RiskScore)
	assert.Empty(t, rec.Verdict.Categories)
	assert.Nil(t, rec.Verdict.Analysis)

	_, err = svc.ScanMessage(context.Background(), "u1", " ")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestScan_StoreUnavailable(t *testing.T) {
	svc, _ := newService()
	svc.Repo = failingRepo{err: fmt.Errorf("dial tcp: %w", shared.ErrStoreUnavailable)}

	_, err := svc.ScanURL(context.Background(), "u1", "https://example.com")
	assert.ErrorIs(t, err, shared.ErrStoreUnavailable)

	_, err = svc.History(context.Background(), "u1", domain.KindURL, 1, 10)
	assert.ErrorIs(t, err, shared.ErrStoreUnavailable)
}

func TestHistory_Envelope(t *testing.T) {
	svc, clock := newService()
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		_, err := svc.ScanURL(ctx, "u1", fmt.Sprintf("https://site%d.example.com", i))
		require.NoError(t, err)
		clock.Advance(time.Second)
	}
	_, err := svc.ScanMessage(ctx, "u1", "hi")
	require.NoError(t, err)

	res, err := svc.History(ctx, "u1", domain.KindURL, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Page)
	assert.Equal(t, scans.DefaultPageSize, res.PageSize)
	assert.Equal(t, int64(12), res.Total)
	assert.Equal(t, 2, res.TotalPages)
	require.Len(t, res.Data, 2)
	assert.Equal(t, "https://site1.example.com", res.Data[0].Input.Text)

	res, err = svc.History(ctx, "u1", domain.KindURL, 1, 1000)
	require.NoError(t, err)
	assert.Equal(t, scans.MaxPageSize, res.PageSize)

	res, err = svc.History(ctx, "u2", domain.KindMessage, 1, 10)
	require.NoError(t, err)
	assert.NotNil(t, res.Data)
	assert.Empty(t, res.Data)
	assert.Equal(t, 0, res.TotalPages)

	_, err = svc.History(ctx, "u1", domain.Kind("video"), 1, 10)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	res, err = svc.History(ctx, "u1", domain.KindURL, math.MaxInt, 10)
	require.NoError(t, err)
	assert.Empty(t, res.Data)
	assert.Equal(t, int64(12), res.Total)
}

func TestGet_KindAndOwnership(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	rec, err := svc.ScanMessage(ctx, "u1", "hello")
	require.NoError(t, err)

	_, err = svc.Get(ctx, "u1", domain.KindURL, rec.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = svc.Get(ctx, "u2", domain.KindMessage, rec.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = svc.Get(ctx, "u1", domain.KindMessage, "not-a-uuid")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestExplain(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	rec, err := svc.ScanURL(ctx, "u1", "https://example.com")
	require.NoError(t, err)

	_, err = svc.Explain(ctx, "u1", rec.ID)
	assert.ErrorIs(t, err, shared.ErrFeatureDisabled)

	ex := &fakeExplainer{text: "looks fine"}
	svc.Explainer = ex
	text, err := svc.Explain(ctx, "u1", rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "looks fine", text)
	assert.Equal(t, "https://example.com", ex.got)

	ex.err = ai.ErrQuotaExceeded
	_, err = svc.Explain(ctx, "u1", rec.ID)
	assert.ErrorIs(t, err, ai.ErrQuotaExceeded)
}

func TestExport(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	_, err := svc.Export(ctx, "u1")
	assert.ErrorIs(t, err, shared.ErrFeatureDisabled)

	art := &fakeArtifacts{}
	svc.Artifacts = art

	_, err = svc.ScanURL(ctx, "u1", "https://example.com")
	require.NoError(t, err)
	_, err = svc.ScanMessage(ctx, "u1", "hello")
	require.NoError(t, err)

	res, err := svc.Export(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Records)
	assert.Equal(t, "exports/u1/20250301T120000Z.json", res.Key)
	assert.Equal(t, "http://minio.local/bucket/"+res.Key, res.URL)

	var doc struct {
		UserID  string            `json:"userId"`
		Records []json.RawMessage `json:"records"`
	}
	require.NoError(t, json.Unmarshal(art.body, &doc))
	assert.Equal(t, "u1", doc.UserID)
	assert.Len(t, doc.Records, 2)

	art.err = errors.New("bucket gone")
	_, err = svc.Export(ctx, "u1")
	assert.Error(t, err)
}
