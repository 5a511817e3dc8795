package dashboard_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/safe-space/internal/application/dashboard"
	"github.com/bryanwahyu/safe-space/internal/domain/community"
	"github.com/bryanwahyu/safe-space/internal/domain/scans"
	"github.com/bryanwahyu/safe-space/internal/domain/shared"
	"github.com/bryanwahyu/safe-space/internal/infra/db/memory"
)

var t0 = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

func save(t *testing.T, repo *memory.ScanRepository, id string, kind scans.Kind, score int, safe bool, at time.Time) {
	t.Helper()
	require.NoError(t, repo.Save(context.Background(), &scans.Record{
		ID:        scans.RecordID(id),
		UserID:    "u1",
		Input:     scans.Input{Kind: kind, Text: id},
		Verdict:   scans.Verdict{IsSafe: safe, RiskScore: score, Categories: []string{}},
		CreatedAt: at,
	}))
}

func TestDashboard_Empty(t *testing.T) {
	svc := &dashboard.Service{Scans: memory.NewScanRepository(), Posts: memory.NewPostRepository()}

	d, err := svc.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, dashboard.Stats{}, d.Stats)
	assert.Empty(t, d.RecentActivity)
	assert.NotNil(t, d.Achievements)
	assert.Empty(t, d.Achievements)
	assert.NotNil(t, d.Notifications)

	_, err = svc.Get(context.Background(), "")
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
}

func TestDashboard_Aggregates(t *testing.T) {
	scanRepo := memory.NewScanRepository()
	postRepo := memory.NewPostRepository()
	svc := &dashboard.Service{Scans: scanRepo, Posts: postRepo}

	for i := 0; i < 10; i++ {
		save(t, scanRepo, fmt.Sprintf("safe%d", i), scans.KindURL, 0, true, t0.Add(time.Duration(i)*time.Minute))
	}
	save(t, scanRepo, "risky", scans.KindURL, 75, false, t0.Add(time.Hour))
	save(t, scanRepo, "msg-ok", scans.KindMessage, 42, true, t0.Add(2*time.Hour))
	save(t, scanRepo, "msg-bad", scans.KindMessage, 42, false, t0.Add(3*time.Hour))
	require.NoError(t, postRepo.Save(context.Background(), &community.Post{ID: "p1", UserID: "u1", Content: "hello", Category: "general", CreatedAt: t0.Add(4 * time.Hour)}))
	require.NoError(t, postRepo.Save(context.Background(), &community.Post{ID: "p2", UserID: "u2", Content: "other", Category: "general", CreatedAt: t0.Add(5 * time.Hour)}))

	d, err := svc.Get(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, dashboard.Stats{
		TotalScans:    11,
		SafeScans:     10,
		UnsafeScans:   1,
		AvgRiskScore:  7,
		TotalMessages: 2,
		TotalPosts:    1,
	}, d.Stats)

	require.Len(t, d.RecentActivity, 8)
	assert.Equal(t, "post", d.RecentActivity[0].Type)
	assert.Equal(t, 0, d.RecentActivity[0].RiskScore)
	assert.Equal(t, "msg-bad", d.RecentActivity[1].Content)
	assert.Equal(t, 100, d.RecentActivity[1].RiskScore)
	assert.Equal(t, "msg-ok", d.RecentActivity[2].Content)
	assert.Equal(t, 0, d.RecentActivity[2].RiskScore)
	assert.Equal(t, "risky", d.RecentActivity[3].Content)
	assert.Equal(t, 75, d.RecentActivity[3].RiskScore)
	for i := 1; i < len(d.RecentActivity); i++ {
		assert.False(t, d.RecentActivity[i].Timestamp.After(d.RecentActivity[i-1].Timestamp))
	}

	titles := make([]string, 0, len(d.Achievements))
	for _, a := range d.Achievements {
		titles = append(titles, a.Title)
	}
	assert.Equal(t, []string{"First Scan", "Safety Conscious", "Community Contributor"}, titles)
}

func TestDashboard_RecentActivityCapped(t *testing.T) {
	scanRepo := memory.NewScanRepository()
	postRepo := memory.NewPostRepository()
	svc := &dashboard.Service{Scans: scanRepo, Posts: postRepo}

	for i := 0; i < 7; i++ {
		at := t0.Add(time.Duration(i) * time.Minute)
		save(t, scanRepo, fmt.Sprintf("u%d", i), scans.KindURL, 10, true, at)
		save(t, scanRepo, fmt.Sprintf("m%d", i), scans.KindMessage, 10, true, at)
		require.NoError(t, postRepo.Save(context.Background(), &community.Post{ID: fmt.Sprintf("p%d", i), UserID: "u1", Content: "x", Category: "general", CreatedAt: at}))
	}

	d, err := svc.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, d.RecentActivity, 10)
	assert.Equal(t, int64(7), d.Stats.TotalPosts)
	assert.Equal(t, t0.Add(6*time.Minute), d.RecentActivity[0].Timestamp)
}
