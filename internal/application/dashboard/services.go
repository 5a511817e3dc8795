package dashboard

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/bryanwahyu/safe-space/internal/domain/community"
	"github.com/bryanwahyu/safe-space/internal/domain/scans"
	"github.com/bryanwahyu/safe-space/internal/domain/shared"
)

const (
	recentPerSource = 5
	recentLimit     = 10

	safetyConsciousScans = 10
)

// Stats counters. Scan counters cover URL scans only.
type Stats struct {
	TotalScans    int64 `json:"totalScans"`
	SafeScans     int64 `json:"safeScans"`
	UnsafeScans   int64 `json:"unsafeScans"`
	AvgRiskScore  int   `json:"avgRiskScore"`
	TotalMessages int64 `json:"totalMessages"`
	TotalPosts    int64 `json:"totalPosts"`
}

type Activity struct {
	Type      string    `json:"type"`
	Content   string    `json:"content"`
	RiskScore int       `json:"riskScore"`
	Timestamp time.Time `json:"timestamp"`
}

type Achievement struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Unlocked    bool   `json:"unlocked"`
}

type Dashboard struct {
	Stats          Stats         `json:"stats"`
	RecentActivity []Activity    `json:"recentActivity"`
	Achievements   []Achievement `json:"achievements"`
	Notifications  []string      `json:"notifications"`
}

// Service assembles the per-user dashboard from the scan and post stores.
type Service struct {
	Scans scans.Repository
	Posts community.Repository
}

func (s *Service) Get(ctx context.Context, userID string) (*Dashboard, error) {
	if userID == "" {
		return nil, shared.ErrUnauthorized
	}

	urlStats, err := s.Scans.URLStats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("url stats: %w", err)
	}
	totalMessages, err := s.Scans.Count(ctx, userID, scans.KindMessage)
	if err != nil {
		return nil, fmt.Errorf("count messages: %w", err)
	}
	posts, totalPosts, err := s.Posts.List(ctx, community.Filter{UserID: userID}, 1, recentPerSource)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	recentURLs, err := s.Scans.Latest(ctx, userID, scans.KindURL, recentPerSource)
	if err != nil {
		return nil, fmt.Errorf("recent urls: %w", err)
	}
	recentMessages, err := s.Scans.Latest(ctx, userID, scans.KindMessage, recentPerSource)
	if err != nil {
		return nil, fmt.Errorf("recent messages: %w", err)
	}

	stats := Stats{
		TotalScans:    urlStats.Total,
		SafeScans:     urlStats.Safe,
		UnsafeScans:   urlStats.Unsafe,
		AvgRiskScore:  int(math.Round(urlStats.AvgRiskScore)),
		TotalMessages: totalMessages,
		TotalPosts:    totalPosts,
	}

	return &Dashboard{
		Stats:          stats,
		RecentActivity: recentActivity(recentURLs, recentMessages, posts),
		Achievements:   achievements(stats),
		Notifications:  []string{},
	}, nil
}

func recentActivity(urls, messages []*scans.Record, posts []*community.Post) []Activity {
	out := make([]Activity, 0, len(urls)+len(messages)+len(posts))
	for _, r := range urls {
		out = append(out, Activity{Type: "url", Content: r.Input.Text, RiskScore: r.Verdict.RiskScore, Timestamp: r.CreatedAt})
	}
	for _, r := range messages {
		// messages report only safe/unsafe
		score := 0
		if !r.Verdict.IsSafe {
			score = scans.MaxRiskScore
		}
		out = append(out, Activity{Type: "message", Content: r.Input.Text, RiskScore: score, Timestamp: r.CreatedAt})
	}
	for _, p := range posts {
		out = append(out, Activity{Type: "post", Content: p.Content, Timestamp: p.CreatedAt})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if len(out) > recentLimit {
		out = out[:recentLimit]
	}
	return out
}

func achievements(st Stats) []Achievement {
	out := []Achievement{}
	if st.TotalScans >= 1 {
		out = append(out, Achievement{ID: 1, Title: "First Scan", Description: "Completed your first safety scan", Unlocked: true})
	}
	if st.SafeScans >= safetyConsciousScans {
		out = append(out, Achievement{ID: 2, Title: "Safety Conscious", Description: "Scanned 10 items safely", Unlocked: true})
	}
	if st.TotalPosts >= 1 {
		out = append(out, Achievement{ID: 3, Title: "Community Contributor", Description: "Created your first post", Unlocked: true})
	}
	return out
}
