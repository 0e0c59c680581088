// internal/app/system/analytics/trends.go
package analytics

import (
	"github.com/dalemusser/facultyhub/internal/domain/models"
)

// StatusSplit is the per-year on-going vs completed split of research
// titles.
type StatusSplit struct {
	Ongoing   int `json:"ongoing"`
	Completed int `json:"completed"`
}

// Trends maps year strings (exactly as they appear in the free-text year
// fields, unparsed) to occurrence counts.
type Trends struct {
	Publications map[string]int         `json:"publications"`
	Engagements  map[string]int         `json:"engagements"`
	Titles       map[string]int         `json:"titles"`
	Status       map[string]StatusSplit `json:"status"`
}

// ResearchTrends builds year-indexed counts for publications,
// engagements, and titles, plus the ongoing/completed split per year.
func ResearchTrends(profiles []models.FacultyProfile) Trends {
	tr := Trends{
		Publications: make(map[string]int),
		Engagements:  make(map[string]int),
		Titles:       make(map[string]int),
		Status:       make(map[string]StatusSplit),
	}
	for i := range profiles {
		p := &profiles[i]
		for _, pub := range p.ResearchPublications {
			tr.Publications[pub.Year]++
		}
		for _, eng := range p.ResearchEngagements {
			tr.Engagements[eng.Year]++
		}
		for _, t := range p.ResearchTitles {
			tr.Titles[t.Year]++
			split := tr.Status[t.Year]
			if t.Status == models.ResearchStatusOngoing {
				split.Ongoing++
			} else {
				split.Completed++
			}
			tr.Status[t.Year] = split
		}
	}
	return tr
}
