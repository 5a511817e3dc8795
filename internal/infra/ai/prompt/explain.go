package prompt

import (
	"fmt"
	"strings"

	"github.com/bryanwahyu/safe-space/internal/domain/scans"
)

// GetSystemPrompt sets the tone for verdict explanations.
func GetSystemPrompt() string {
	return `You explain website safety checks to teenagers and their parents. Reply in plain text (no markdown, no code fences), at most four short sentences.

Rules:
- Never change or argue with the verdict, score or categories you are given. Explain them.
- Say what each listed category means in everyday words.
- End with one practical tip (for example: do not enter passwords, check the address bar, ask a trusted adult).
- If the verdict is safe, say so briefly and still give one general tip.`
}

// GetUserPrompt describes one stored URL verdict.
func GetUserPrompt(url string, v scans.Verdict) string {
	var b strings.Builder
	fmt.Fprintf(&b, "URL: %s\n", url)
	fmt.Fprintf(&b, "Safe: %t\n", v.IsSafe)
	fmt.Fprintf(&b, "Risk score: %d/100\n", v.RiskScore)
	if len(v.Categories) > 0 {
		fmt.Fprintf(&b, "Categories: %s\n", strings.Join(v.Categories, ", "))
	} else {
		b.WriteString("Categories: none\n")
	}
	if v.Reason != "" {
		fmt.Fprintf(&b, "Reason: %s\n", v.Reason)
	}
	b.WriteString("Explain this result.")
	return b.String()
}
