package analytics

import "github.com/go-chi/chi/v5"

// Routes returns the analytics subrouter, mounted under /api/analytics.
// Admin-only; the handlers re-check the role on top of the route guard.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/summary", h.Summary)
	r.Get("/trends", h.Trends)
	r.Get("/topics", h.Topics)
	r.Get("/clusters", h.Clusters)
	r.Get("/predictions", h.Predictions)
	r.Get("/patterns", h.Patterns)
	r.Get("/gaps", h.Gaps)
	r.Get("/score-stats", h.ScoreStats)
	r.Get("/export/detailed", h.ExportDetailed)
	r.Get("/export/summary", h.ExportSummary)
	return r
}
