// internal/app/system/analytics/patterns.go
package analytics

import (
	"fmt"

	"github.com/dalemusser/facultyhub/internal/domain/models"
)

// ResearchPatterns counts simple co-occurrence patterns across the
// collection:
//   - "Publication-Engagement-<year>": a publication and an engagement by
//     the same faculty member in the same year
//   - "Research-<type>-<status>": each research title's type/status pair
//   - "Funding-<agency>": each funded title's agency
//   - "Specialization-<text>": each non-empty specialization
//
// This is frequency counting, nothing more; the keys are what the admin
// view renders directly.
func ResearchPatterns(profiles []models.FacultyProfile) map[string]int {
	patterns := make(map[string]int)
	for i := range profiles {
		p := &profiles[i]

		for _, pub := range p.ResearchPublications {
			for _, eng := range p.ResearchEngagements {
				if pub.Year == eng.Year {
					patterns[fmt.Sprintf("Publication-Engagement-%s", pub.Year)]++
				}
			}
		}

		for _, t := range p.ResearchTitles {
			patterns[fmt.Sprintf("Research-%s-%s", t.Type, t.Status)]++
			if t.Type == models.ResearchTypeFunded && t.FundingAgency != "" {
				patterns[fmt.Sprintf("Funding-%s", t.FundingAgency)]++
			}
		}

		if p.Specialization != "" {
			patterns[fmt.Sprintf("Specialization-%s", p.Specialization)]++
		}
	}
	return patterns
}
