// internal/app/system/analytics/summary.go
package analytics

import (
	"github.com/dalemusser/facultyhub/internal/domain/models"
)

// UnassignedDepartment is the fallback bucket for profiles with no
// department set.
const UnassignedDepartment = "Unassigned"

// DepartmentStats is one department's aggregate row.
type DepartmentStats struct {
	TotalFaculty      int `json:"totalFaculty"`
	Publications      int `json:"publications"`
	Engagements       int `json:"engagements"`
	Titles            int `json:"titles"` // completed research titles only
	ActiveResearchers int `json:"activeResearchers"`
	OngoingResearch   int `json:"ongoingResearch"`
}

// DepartmentSummary groups profiles by department and aggregates counts.
// "Titles" counts only completed research titles; ActiveResearchers
// counts faculty with at least one on-going title; OngoingResearch sums
// on-going title counts.
func DepartmentSummary(profiles []models.FacultyProfile) map[string]DepartmentStats {
	summary := make(map[string]DepartmentStats)
	for i := range profiles {
		p := &profiles[i]
		dept := string(p.Department)
		if dept == "" {
			dept = UnassignedDepartment
		}
		s := summary[dept]
		s.TotalFaculty++
		s.Titles += p.CompletedTitleCount()
		s.Publications += len(p.ResearchPublications)
		s.Engagements += len(p.ResearchEngagements)
		if p.HasOngoingTitle() {
			s.ActiveResearchers++
		}
		s.OngoingResearch += p.OngoingTitleCount()
		summary[dept] = s
	}
	return summary
}
