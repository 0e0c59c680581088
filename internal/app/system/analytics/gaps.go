// internal/app/system/analytics/gaps.go
package analytics

import (
	"sort"

	"github.com/dalemusser/facultyhub/internal/domain/models"
)

// gapTopicCount caps the per-department top-topics list compared against
// the expected areas.
const gapTopicCount = 5

// expectedAreas is the hand-authored list of research keywords each
// school is expected to cover. It is a static lookup table, not a
// learned model; any expected keyword missing from a department's top-5
// topics is reported as a gap.
var expectedAreas = map[models.Department][]string{
	models.DeptSASTE: {"education", "teaching", "curriculum", "pedagogy", "assessment"},
	models.DeptSITE:  {"technology", "engineering", "innovation", "computing", "systems"},
	models.DeptSBHAM: {"business", "management", "economics", "finance", "marketing"},
	models.DeptSNAHS: {"health", "nursing", "medicine", "care", "clinical"},
	models.DeptSOM:   {"medicine", "health", "clinical", "patient", "treatment"},
	models.DeptBEU:   {"education", "teaching", "learning", "assessment", "development"},
}

// DepartmentGaps is one department's topic coverage report.
type DepartmentGaps struct {
	Department models.Department `json:"department"`
	TopTopics  []TopicCount      `json:"topTopics"`
	GapAreas   []string          `json:"gapAreas"`
}

// ResearchGaps aggregates each department's extracted topics (summing
// each member profile's top-10 topics), keeps the top 5, and reports the
// expected keywords absent from that top-5. Profiles without a
// department are skipped. Output is sorted by department code for
// stable rendering.
func ResearchGaps(profiles []models.FacultyProfile) []DepartmentGaps {
	deptTopics := make(map[models.Department]map[string]int)
	deptOrder := make(map[models.Department][]string)

	for i := range profiles {
		p := &profiles[i]
		if p.Department == models.DeptUnset {
			continue
		}
		topics := deptTopics[p.Department]
		if topics == nil {
			topics = make(map[string]int)
			deptTopics[p.Department] = topics
		}
		for _, tc := range ExtractTopics(p) {
			if _, seen := topics[tc.Topic]; !seen {
				deptOrder[p.Department] = append(deptOrder[p.Department], tc.Topic)
			}
			topics[tc.Topic] += tc.Count
		}
	}

	out := make([]DepartmentGaps, 0, len(deptTopics))
	for dept, topics := range deptTopics {
		sorted := make([]TopicCount, 0, len(topics))
		for _, topic := range deptOrder[dept] {
			sorted = append(sorted, TopicCount{Topic: topic, Count: topics[topic]})
		}
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Count > sorted[j].Count
		})
		if len(sorted) > gapTopicCount {
			sorted = sorted[:gapTopicCount]
		}

		current := make(map[string]struct{}, len(sorted))
		for _, tc := range sorted {
			current[tc.Topic] = struct{}{}
		}
		var gaps []string
		for _, area := range expectedAreas[dept] {
			if _, ok := current[area]; !ok {
				gaps = append(gaps, area)
			}
		}

		out = append(out, DepartmentGaps{
			Department: dept,
			TopTopics:  sorted,
			GapAreas:   gaps,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Department < out[j].Department })
	return out
}
