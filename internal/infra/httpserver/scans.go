package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	domain "github.com/bryanwahyu/safe-space/internal/domain/scans"
	"github.com/bryanwahyu/safe-space/internal/middleware"
)

// historyItem is a stored record with its verdict fields inlined.
type historyItem struct {
	ID         domain.RecordID  `json:"id"`
	Type       domain.Kind      `json:"type"`
	Content    string           `json:"content"`
	CreatedAt  time.Time        `json:"createdAt"`
	IsSafe     bool             `json:"isSafe"`
	RiskScore  int              `json:"riskScore"`
	Categories []string         `json:"categories"`
	Reason     string           `json:"reason,omitempty"`
	Analysis   *domain.Analysis `json:"analysis,omitempty"`
}

func toHistoryItem(rec *domain.Record) historyItem {
	cats := rec.Verdict.Categories
	if cats == nil {
		cats = []string{}
	}
	return historyItem{
		ID:         rec.ID,
		Type:       rec.Input.Kind,
		Content:    rec.Input.Text,
		CreatedAt:  rec.CreatedAt,
		IsSafe:     rec.Verdict.IsSafe,
		RiskScore:  rec.Verdict.RiskScore,
		Categories: cats,
		Reason:     rec.Verdict.Reason,
		Analysis:   rec.Verdict.Analysis,
	}
}

func (r *Router) writeScan(w http.ResponseWriter, rec *domain.Record) error {
	if r.metrics != nil {
		r.metrics.ObserveScan(string(rec.Input.Kind), rec.Verdict.IsSafe, rec.Verdict.RiskScore)
	}
	return writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"id":      rec.ID,
		"data":    rec.Verdict,
	})
}

// POST /api/v1/urls/scan
// Body: {"url": "<url>"}
func (r *Router) handleScanURL(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		URL string `json:"url"`
	}
	if err := decode(w, req, &body); err != nil {
		return err
	}
	rec, err := r.scans.ScanURL(req.Context(), middleware.UserIDFromContext(req.Context()), body.URL)
	if err != nil {
		return err
	}
	return r.writeScan(w, rec)
}

// POST /api/v1/messages/scan
// Body: {"message": "<text>"}
func (r *Router) handleScanMessage(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Message string `json:"message"`
	}
	if err := decode(w, req, &body); err != nil {
		return err
	}
	rec, err := r.scans.ScanMessage(req.Context(), middleware.UserIDFromContext(req.Context()), body.Message)
	if err != nil {
		return err
	}
	return r.writeScan(w, rec)
}

// GET /api/v1/{urls|messages}/history?page=&limit=
func (r *Router) handleHistory(kind domain.Kind) handlerFunc {
	return func(w http.ResponseWriter, req *http.Request) error {
		page, size := pageParams(req)
		res, err := r.scans.History(req.Context(), middleware.UserIDFromContext(req.Context()), kind, page, size)
		if err != nil {
			return err
		}
		items := make([]historyItem, 0, len(res.Data))
		for _, rec := range res.Data {
			items = append(items, toHistoryItem(rec))
		}
		return writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"count":   len(items),
			"data":    items,
			"page":    res.Page,
			"pages":   res.TotalPages,
			"total":   res.Total,
		})
	}
}

// GET /api/v1/urls/{id}
func (r *Router) handleGetScan(w http.ResponseWriter, req *http.Request) error {
	id := domain.RecordID(chi.URLParam(req, "id"))
	rec, err := r.scans.Get(req.Context(), middleware.UserIDFromContext(req.Context()), domain.KindURL, id)
	if err != nil {
		return err
	}
	return ok(w, http.StatusOK, toHistoryItem(rec))
}

// POST /api/v1/urls/{id}/explain
func (r *Router) handleExplain(w http.ResponseWriter, req *http.Request) error {
	id := domain.RecordID(chi.URLParam(req, "id"))
	text, err := r.scans.Explain(req.Context(), middleware.UserIDFromContext(req.Context()), id)
	if err != nil {
		return err
	}
	return ok(w, http.StatusOK, map[string]any{"id": id, "explanation": text})
}

// POST /api/v1/scans/export
func (r *Router) handleExport(w http.ResponseWriter, req *http.Request) error {
	res, err := r.scans.Export(req.Context(), middleware.UserIDFromContext(req.Context()))
	if err != nil {
		return err
	}
	return ok(w, http.StatusOK, res)
}

// GET /api/v1/dashboard
func (r *Router) handleDashboard(w http.ResponseWriter, req *http.Request) error {
	d, err := r.dashboard.Get(req.Context(), middleware.UserIDFromContext(req.Context()))
	if err != nil {
		return err
	}
	return ok(w, http.StatusOK, d)
}
