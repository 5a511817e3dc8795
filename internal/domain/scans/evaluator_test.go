package scans_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/safe-space/internal/domain/scans"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newEvaluator() *scans.Evaluator {
	e := scans.NewEvaluator()
	e.Now = func() time.Time { return fixedNow }
	return e
}

func TestEvaluateURL_CleanHTTPS(t *testing.T) {
	v := newEvaluator().EvaluateURL("https://example.com")

	assert.True(t, v.IsSafe)
	assert.Equal(t, 0, v.RiskScore)
	assert.Empty(t, v.Categories)
	assert.NotNil(t, v.Categories)
	assert.Empty(t, v.Reason)
	require.NotNil(t, v.Analysis)
	assert.Equal(t, 19, v.Analysis.Length)
	assert.True(t, v.Analysis.HasSecureScheme)
	assert.Equal(t, fixedNow, v.Analysis.ScannedAt)
}

func TestEvaluateURL_PhishingOnTk(t *testing.T) {
	v := newEvaluator().EvaluateURL("http://phishing-verify-account.tk")

	// phishing 40 + suspicious_domains 20 + insecure_protocol 15
	assert.Equal(t, 75, v.RiskScore)
	assert.False(t, v.IsSafe)
	assert.Equal(t, scans.ReasonHighRisk, v.Reason)
	assert.Equal(t, []string{"phishing", "suspicious_domains", "insecure_protocol"}, v.Categories)
	assert.False(t, v.Analysis.HasSecureScheme)
}

func TestEvaluateURL_StructureCountedOnce(t *testing.T) {
	v := newEvaluator().EvaluateURL("https://1.2.3.4@evil.com")

	assert.Equal(t, []string{scans.CategorySuspiciousStructure}, v.Categories)
	assert.Equal(t, 30, v.RiskScore)
	assert.False(t, v.IsSafe)
	assert.Equal(t, scans.ReasonMediumRisk, v.Reason)
}

func TestEvaluateURL_ClampedToMax(t *testing.T) {
	// 40+40+20+20+20+30+15 = 185
	v := newEvaluator().EvaluateURL("http://scam-virus-xxx-casino.tk/@")

	assert.Equal(t, scans.MaxRiskScore, v.RiskScore)
	assert.Equal(t, []string{
		"phishing", "malware", "adult", "gambling", "suspicious_domains",
		scans.CategorySuspiciousStructure, scans.CategoryInsecureProtocol,
	}, v.Categories)
}

func TestEvaluateURL_CategoryWeightAppliedOnce(t *testing.T) {
	v := newEvaluator().EvaluateURL("https://scam.fraud.fake.spoof.example")

	assert.Equal(t, []string{"phishing"}, v.Categories)
	assert.Equal(t, 40, v.RiskScore)
}

func TestEvaluateURL_OrderFollowsTable(t *testing.T) {
	// patterns appear in reverse table order in the URL
	v := newEvaluator().EvaluateURL("https://bit.ly/poker-nsfw-trojan-scam")

	assert.Equal(t, []string{"phishing", "malware", "adult", "gambling", "suspicious_domains"}, v.Categories)
	assert.Equal(t, 100, v.RiskScore)
}

func TestEvaluateURL_CaseInsensitive(t *testing.T) {
	v := newEvaluator().EvaluateURL("HTTPS://Casino.Example.com")

	assert.Equal(t, []string{"gambling"}, v.Categories)
	assert.Equal(t, 20, v.RiskScore)
	assert.True(t, v.IsSafe)
	assert.True(t, v.Analysis.HasSecureScheme)
}

func TestEvaluateURL_Thresholds(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		score  int
		safe   bool
		reason string
	}{
		{"insecure only", "http://example.com", 15, true, ""},
		{"gambling insecure", "http://casino.example.com", 35, false, scans.ReasonMediumRisk},
		{"malware secure", "https://virus.example.com", 40, false, scans.ReasonMediumRisk},
		{"phishing adult", "https://fake-porn.example.com", 60, false, scans.ReasonHighRisk},
		{"scheme-less", "example.com", 15, true, ""},
		{"substring false positive", "https://alphabet.example.com", 20, true, ""},
	}
	e := newEvaluator()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := e.EvaluateURL(tc.url)
			assert.Equal(t, tc.score, v.RiskScore)
			assert.Equal(t, tc.safe, v.IsSafe)
			assert.Equal(t, tc.reason, v.Reason)
		})
	}
}

func TestEvaluateURL_DottedQuadWithoutRangeCheck(t *testing.T) {
	v := newEvaluator().EvaluateURL("https://999.888.777.666/login")

	assert.Contains(t, v.Categories, scans.CategorySuspiciousStructure)
}

func TestEvaluateMessage_Placeholder(t *testing.T) {
	e := scans.NewEvaluator()
	for i := 0; i < 200; i++ {
		v := e.EvaluateMessage("click this scam link")
		assert.True(t, v.IsSafe)
		assert.GreaterOrEqual(t, v.RiskScore, 0)
		assert.Less(t, v.RiskScore, 100)
		assert.Empty(t, v.Categories)
		assert.Empty(t, v.Reason)
		assert.Nil(t, v.Analysis)
	}
}

func TestEvaluateMessage_UsesInjectedSource(t *testing.T) {
	e := &scans.Evaluator{IntN: func(n int) int { return n - 1 }}

	v := e.EvaluateMessage("hello")
	assert.Equal(t, 99, v.RiskScore)
}

func TestEvaluate_DispatchesOnKind(t *testing.T) {
	e := newEvaluator()

	url := e.Evaluate(scans.Input{Kind: scans.KindURL, Text: "http://example.com"})
	assert.NotNil(t, url.Analysis)

	msg := e.Evaluate(scans.Input{Kind: scans.KindMessage, Text: "http://example.com"})
	assert.Nil(t, msg.Analysis)
	assert.True(t, msg.IsSafe)
}
