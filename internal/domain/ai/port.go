package ai

import (
	"context"

	"github.com/bryanwahyu/safe-space/internal/domain/scans"
)

// Explainer turns a stored URL verdict into a plain-language explanation.
// It never changes the verdict.
type Explainer interface {
	Explain(ctx context.Context, url string, v scans.Verdict) (string, error)
}
