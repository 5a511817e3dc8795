package scans

import (
	"math/rand/v2"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// Category is a named bucket of lexical patterns. A category contributes its
// weight at most once, however many of its patterns match.
type Category struct {
	Name     string
	Patterns []string
	Weight   int
}

// URLCategories is evaluated in order; matched names keep this order.
var URLCategories = []Category{
	{Name: "phishing", Patterns: []string{"phishing", "scam", "fraud", "fake", "spoof", "verify-account", "secure-login"}, Weight: 40},
	{Name: "malware", Patterns: []string{"malware", "virus", "trojan", "spyware", "adware", "ransomware"}, Weight: 40},
	{Name: "adult", Patterns: []string{"porn", "adult", "xxx", "nsfw", "explicit"}, Weight: 20},
	{Name: "gambling", Patterns: []string{"gambling", "casino", "bet", "poker", "lottery"}, Weight: 20},
	{Name: "suspicious_domains", Patterns: []string{".tk", ".ml", ".ga", ".cf", "bit.ly", "tinyurl.com", "short.link"}, Weight: 20},
}

const (
	CategorySuspiciousStructure = "suspicious_structure"
	CategoryInsecureProtocol    = "insecure_protocol"

	suspiciousStructureWeight = 30
	insecureProtocolWeight    = 15

	MaxRiskScore      = 100
	SafeThreshold     = 30 // score below this is safe
	HighRiskThreshold = 60

	ReasonHighRisk   = "High risk URL detected"
	ReasonMediumRisk = "Medium risk URL detected"

	secureScheme = "https://"
)

// any 1-3 digit groups count, octets are not range checked
var rxDottedQuad = regexp.MustCompile(`[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}`)

// Evaluator produces verdicts for submitted content. It holds no mutable
// state and is safe for concurrent use. Zero value is ready to use.
type Evaluator struct {
	// Now stamps URL analyses; defaults to time.Now.
	Now func() time.Time
	// IntN backs the message placeholder score; defaults to math/rand/v2.
	IntN func(n int) int
}

func NewEvaluator() *Evaluator {
	return &Evaluator{Now: time.Now, IntN: rand.IntN}
}

// Evaluate dispatches on the input kind.
func (e *Evaluator) Evaluate(in Input) Verdict {
	if in.Kind == KindURL {
		return e.EvaluateURL(in.Text)
	}
	return e.EvaluateMessage(in.Text)
}

// EvaluateMessage is a placeholder: the text is not inspected, the verdict is
// always safe and the score is uniform in [0, 100). Repeated calls with the
// same text may return different scores.
func (e *Evaluator) EvaluateMessage(_ string) Verdict {
	intn := e.IntN
	if intn == nil {
		intn = rand.IntN
	}
	return Verdict{
		IsSafe:     true,
		RiskScore:  intn(MaxRiskScore),
		Categories: []string{},
	}
}

// EvaluateURL scores a URL purely lexically. Matching is case-insensitive,
// including the https:// scheme check.
func (e *Evaluator) EvaluateURL(rawURL string) Verdict {
	lower := strings.ToLower(rawURL)
	categories := make([]string, 0, len(URLCategories)+2)
	score := 0

	for _, c := range URLCategories {
		if containsAny(lower, c.Patterns) {
			categories = append(categories, c.Name)
			score += c.Weight
		}
	}

	if strings.Contains(lower, "@") || rxDottedQuad.MatchString(lower) {
		categories = append(categories, CategorySuspiciousStructure)
		score += suspiciousStructureWeight
	}

	secure := strings.HasPrefix(lower, secureScheme)
	if !secure {
		categories = append(categories, CategoryInsecureProtocol)
		score += insecureProtocolWeight
	}

	if score > MaxRiskScore {
		score = MaxRiskScore
	}

	now := e.Now
	if now == nil {
		now = time.Now
	}

	v := Verdict{
		IsSafe:     score < SafeThreshold,
		RiskScore:  score,
		Categories: categories,
		Reason:     reasonFor(score),
		Analysis: &Analysis{
			Length:          utf8.RuneCountInString(rawURL),
			HasSecureScheme: secure,
			ScannedAt:       now().UTC(),
		},
	}
	return v
}

func reasonFor(score int) string {
	switch {
	case score < SafeThreshold:
		return ""
	case score >= HighRiskThreshold:
		return ReasonHighRisk
	default:
		return ReasonMediumRisk
	}
}

func containsAny(s string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
