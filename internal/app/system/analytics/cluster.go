// internal/app/system/analytics/cluster.go
package analytics

import (
	"github.com/dalemusser/facultyhub/internal/domain/models"
)

// Activity levels produced by the threshold classifier.
const (
	LevelLow    = "Low"
	LevelMedium = "Medium"
	LevelHigh   = "High"
)

// ClassifyScore maps a feature sum to an activity level. This is a
// fixed-threshold classifier, not statistical clustering: >10 is High,
// >5 is Medium, everything else Low.
func ClassifyScore(sum int) string {
	switch {
	case sum > 10:
		return LevelHigh
	case sum > 5:
		return LevelMedium
	default:
		return LevelLow
	}
}

// ClusteredProfile pairs a faculty email with its activity level.
type ClusteredProfile struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Score int    `json:"score"`
	Level string `json:"level"`
}

// ClassifyActivity assigns every profile an activity level from the sum
// of its feature vector (publication count, engagement count, title
// count, activity score). Output order matches input order.
func ClassifyActivity(profiles []models.FacultyProfile) []ClusteredProfile {
	out := make([]ClusteredProfile, 0, len(profiles))
	for i := range profiles {
		p := &profiles[i]
		sum := len(p.ResearchPublications) + len(p.ResearchEngagements) +
			len(p.ResearchTitles) + ActivityScore(p)
		out = append(out, ClusteredProfile{
			Email: p.Email,
			Name:  p.Name,
			Score: sum,
			Level: ClassifyScore(sum),
		})
	}
	return out
}
