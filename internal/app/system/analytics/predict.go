// internal/app/system/analytics/predict.go
package analytics

import (
	"github.com/dalemusser/facultyhub/internal/domain/models"
)

// Trend labels.
const (
	TrendIncreasing = "Increasing"
	TrendDecreasing = "Decreasing"
	TrendStable     = "Stable"
)

// recentWindowYears defines "recent": titles dated within the last two
// calendar years (inclusive of the current year).
const recentWindowYears = 2

// Prediction is the naive linear growth projection for one faculty
// member.
type Prediction struct {
	Email      string  `json:"email"`
	Score      int     `json:"score"`
	Level      string  `json:"level"`
	Trend      string  `json:"trend"`
	GrowthRate float64 `json:"growthRate"`
}

// PredictActivity compares recent research-title output (year >=
// currentYear-2) against earlier output. With no prior-period titles,
// growth is 1.0 when any recent titles exist, else 0.0; otherwise
// (recent-past)/past. Trend is Increasing above +0.1, Decreasing below
// -0.1, Stable between. Title years that do not parse fall in neither
// bucket.
//
// currentYear is a parameter so tests do not depend on the wall clock.
func PredictActivity(profiles []models.FacultyProfile, currentYear int) []Prediction {
	cutoff := currentYear - recentWindowYears
	out := make([]Prediction, 0, len(profiles))
	for i := range profiles {
		p := &profiles[i]

		recent, past := 0, 0
		for _, t := range p.ResearchTitles {
			y, ok := parseYear(t.Year)
			if !ok {
				continue
			}
			if y >= cutoff {
				recent++
			} else {
				past++
			}
		}

		var growth float64
		switch {
		case past == 0 && recent > 0:
			growth = 1.0
		case past == 0:
			growth = 0.0
		default:
			growth = float64(recent-past) / float64(past)
		}

		trend := TrendStable
		if growth > 0.1 {
			trend = TrendIncreasing
		} else if growth < -0.1 {
			trend = TrendDecreasing
		}

		score := ActivityScore(p)
		out = append(out, Prediction{
			Email:      p.Email,
			Score:      score,
			Level:      ClassifyScore(score),
			Trend:      trend,
			GrowthRate: growth,
		})
	}
	return out
}
