package analytics

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/dalemusser/facultyhub/internal/app/system/csvexport"
	"go.uber.org/zap"
)

// utf8BOM prefixes both exports so Excel opens them as UTF-8.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ExportDetailed handles GET /api/analytics/export/detailed: the
// one-row-per-sub-record CSV of the full collection.
func (h *Handler) ExportDetailed(w http.ResponseWriter, r *http.Request) {
	profiles, ok := h.load(w, r)
	if !ok {
		return
	}

	filename := csvexport.DetailedFilename(h.Now())
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, url.PathEscape(filename)))

	// BOM first so Excel detects UTF-8.
	_, _ = w.Write(utf8BOM)

	if err := csvexport.WriteDetailed(w, profiles); err != nil {
		// Headers are already sent; log and let the truncated body show.
		h.Log.Error("detailed export write failed", zap.Error(err))
	}
}

// ExportSummary handles GET /api/analytics/export/summary: one row per
// faculty member with counts.
func (h *Handler) ExportSummary(w http.ResponseWriter, r *http.Request) {
	profiles, ok := h.load(w, r)
	if !ok {
		return
	}

	filename := csvexport.SummaryFilename(h.Now())
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, url.PathEscape(filename)))

	_, _ = w.Write(utf8BOM)

	if err := csvexport.WriteSummary(w, profiles); err != nil {
		h.Log.Error("summary export write failed", zap.Error(err))
	}
}
