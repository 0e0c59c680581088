// Package analytics serves the admin-side aggregate views: department
// summaries, trends, topics, activity clusters, predictions, patterns,
// gap analysis, score statistics, and the CSV exports. Every endpoint
// bulk-loads the profile collection and feeds the pure aggregator.
package analytics

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	profilestore "github.com/dalemusser/facultyhub/internal/app/store/profiles"
	"github.com/dalemusser/facultyhub/internal/app/system/analytics"
	"github.com/dalemusser/facultyhub/internal/app/system/auth"
	"github.com/dalemusser/facultyhub/internal/app/system/timeouts"
	"github.com/dalemusser/facultyhub/internal/domain/models"
	"go.uber.org/zap"
)

// Handler holds the analytics dependencies.
type Handler struct {
	Profiles *profilestore.Store
	Log      *zap.Logger

	// Now is the clock used for the prediction window and export
	// filenames. Overridable in tests.
	Now func() time.Time
}

func NewHandler(profiles *profilestore.Store, logger *zap.Logger) *Handler {
	return &Handler{Profiles: profiles, Log: logger, Now: time.Now}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// load authorizes the request and bulk-loads every profile. A nil slice
// with ok=false means the response was already written.
func (h *Handler) load(w http.ResponseWriter, r *http.Request) ([]models.FacultyProfile, bool) {
	user, ok := auth.CurrentUser(r)
	if !ok || !user.IsAdmin() {
		writeError(w, http.StatusForbidden, "Forbidden")
		return nil, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	profiles, err := h.Profiles.All(ctx)
	if err != nil {
		h.Log.Error("analytics profile load failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to load profiles")
		return nil, false
	}
	return profiles, true
}

// Summary handles GET /api/analytics/summary.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	profiles, ok := h.load(w, r)
	if !ok {
		return
	}
	normalized := analytics.CleanAndNormalize(profiles)
	plain := make([]models.FacultyProfile, len(normalized))
	for i := range normalized {
		plain[i] = normalized[i].FacultyProfile
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"departments":  analytics.DepartmentSummary(plain),
		"totalFaculty": len(profiles),
	})
}

// Trends handles GET /api/analytics/trends.
func (h *Handler) Trends(w http.ResponseWriter, r *http.Request) {
	profiles, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, analytics.ResearchTrends(profiles))
}

// Topics handles GET /api/analytics/topics: the collection-wide topic
// counts, descending, ties in first-encounter order.
func (h *Handler) Topics(w http.ResponseWriter, r *http.Request) {
	profiles, ok := h.load(w, r)
	if !ok {
		return
	}

	counts := map[string]int{}
	var order []string
	for i := range profiles {
		for _, tc := range analytics.ExtractTopics(&profiles[i]) {
			if _, seen := counts[tc.Topic]; !seen {
				order = append(order, tc.Topic)
			}
			counts[tc.Topic] += tc.Count
		}
	}

	topics := make([]analytics.TopicCount, 0, len(order))
	for _, topic := range order {
		topics = append(topics, analytics.TopicCount{Topic: topic, Count: counts[topic]})
	}
	sort.SliceStable(topics, func(i, j int) bool { return topics[i].Count > topics[j].Count })

	writeJSON(w, http.StatusOK, map[string]any{"topics": topics})
}

// Clusters handles GET /api/analytics/clusters.
func (h *Handler) Clusters(w http.ResponseWriter, r *http.Request) {
	profiles, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"clusters": analytics.ClassifyActivity(profiles)})
}

// Predictions handles GET /api/analytics/predictions.
func (h *Handler) Predictions(w http.ResponseWriter, r *http.Request) {
	profiles, ok := h.load(w, r)
	if !ok {
		return
	}
	preds := analytics.PredictActivity(profiles, h.Now().Year())
	writeJSON(w, http.StatusOK, map[string]any{"predictions": preds})
}

// Patterns handles GET /api/analytics/patterns.
func (h *Handler) Patterns(w http.ResponseWriter, r *http.Request) {
	profiles, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"patterns": analytics.ResearchPatterns(profiles)})
}

// Gaps handles GET /api/analytics/gaps.
func (h *Handler) Gaps(w http.ResponseWriter, r *http.Request) {
	profiles, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"gaps": analytics.ResearchGaps(profiles)})
}

// ScoreStats handles GET /api/analytics/score-stats.
func (h *Handler) ScoreStats(w http.ResponseWriter, r *http.Request) {
	profiles, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"scoreStats": analytics.DepartmentScoreStats(profiles)})
}
