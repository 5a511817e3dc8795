package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bryanwahyu/safe-space/internal/domain/scans"
)

func TestGetUserPrompt(t *testing.T) {
	p := GetUserPrompt("http://phishing-site.tk", scans.Verdict{
		RiskScore:  75,
		Categories: []string{"phishing", "suspicious_domains", "insecure_protocol"},
		Reason:     scans.ReasonHighRisk,
	})
	assert.Contains(t, p, "URL: http://phishing-site.tk\n")
	assert.Contains(t, p, "Safe: false\n")
	assert.Contains(t, p, "Risk score: 75/100\n")
	assert.Contains(t, p, "Categories: phishing, suspicious_domains, insecure_protocol\n")
	assert.Contains(t, p, "Reason: High risk URL detected\n")

	p = GetUserPrompt("https://example.com", scans.Verdict{IsSafe: true, Categories: []string{}})
	assert.Contains(t, p, "Categories: none\n")
	assert.NotContains(t, p, "Reason:")
}
