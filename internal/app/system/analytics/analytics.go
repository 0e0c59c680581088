// internal/app/system/analytics/analytics.go

// Package analytics computes the admin-side aggregate views over an
// already-loaded collection of faculty profiles.
//
// Everything here is a pure function: no I/O, no caching, no
// incremental update. Callers bulk-load the profile collection and
// re-run the aggregations on every analytics page load, which is an
// accepted non-property at the intended faculty-count scale.
package analytics

import (
	"strings"

	"github.com/dalemusser/facultyhub/internal/domain/models"
)

// Weights of the activity score.
const (
	publicationWeight = 3
	engagementWeight  = 2
	titleWeight       = 1
)

// ActivityScore is the weighted linear combination used for coarse
// activity classification: 3·publications + 2·engagements + 1·titles.
func ActivityScore(p *models.FacultyProfile) int {
	return len(p.ResearchPublications)*publicationWeight +
		len(p.ResearchEngagements)*engagementWeight +
		len(p.ResearchTitles)*titleWeight
}

// NormalizedProfile is a profile plus the derived fields the analytics
// views consume.
type NormalizedProfile struct {
	models.FacultyProfile

	ActivityScore int          `json:"activityScore"`
	Topics        []TopicCount `json:"topics"`
}

// CleanAndNormalize trims and canonicalizes classification fields,
// recomputes the research counts from the loaded collections (titles and
// total count completed titles only), and attaches the activity score
// and per-profile topic extraction.
func CleanAndNormalize(profiles []models.FacultyProfile) []NormalizedProfile {
	out := make([]NormalizedProfile, 0, len(profiles))
	for i := range profiles {
		p := profiles[i]
		p.Normalize()
		completed := p.CompletedTitleCount()
		p.ResearchCount = models.ResearchCount{
			Titles:       completed,
			Publications: len(p.ResearchPublications),
			Engagements:  len(p.ResearchEngagements),
			Total:        completed,
		}
		out = append(out, NormalizedProfile{
			FacultyProfile: p,
			ActivityScore:  ActivityScore(&p),
			Topics:         ExtractTopics(&p),
		})
	}
	return out
}

// parseYear extracts the leading integer of a free-text year field,
// mirroring how the source data was parsed (leading digits, anything
// after ignored). ok is false when the field has no leading digits.
func parseYear(s string) (int, bool) {
	s = strings.TrimSpace(s)
	i := 0
	neg := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}
	start := i
	n := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		n = n*10 + int(s[i]-'0')
		i++
	}
	if i == start {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}
