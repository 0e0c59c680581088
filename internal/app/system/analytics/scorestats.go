// internal/app/system/analytics/scorestats.go
package analytics

import (
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/dalemusser/facultyhub/internal/domain/models"
)

// ScoreStats summarizes the activity-score distribution of one
// department.
type ScoreStats struct {
	Department string  `json:"department"`
	Count      int     `json:"count"`
	Mean       float64 `json:"mean"`
	Median     float64 `json:"median"`
	StdDev     float64 `json:"stdDev"`
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
}

// DepartmentScoreStats computes per-department descriptive statistics of
// activity scores. Profiles without a department are grouped under
// "Unassigned". Output is sorted by department name.
func DepartmentScoreStats(profiles []models.FacultyProfile) []ScoreStats {
	byDept := make(map[string][]float64)
	for i := range profiles {
		p := &profiles[i]
		dept := string(p.Department)
		if p.Department == models.DeptUnset {
			dept = UnassignedDepartment
		}
		byDept[dept] = append(byDept[dept], float64(ActivityScore(p)))
	}

	out := make([]ScoreStats, 0, len(byDept))
	for dept, scores := range byDept {
		data := stats.Float64Data(scores)
		mean, _ := stats.Mean(data)
		median, _ := stats.Median(data)
		sd, _ := stats.StdDevP(data)
		min, _ := stats.Min(data)
		max, _ := stats.Max(data)
		out = append(out, ScoreStats{
			Department: dept,
			Count:      len(scores),
			Mean:       mean,
			Median:     median,
			StdDev:     sd,
			Min:        min,
			Max:        max,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Department < out[j].Department })
	return out
}
