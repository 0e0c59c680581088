// internal/app/system/analytics/topics.go
package analytics

import (
	"sort"
	"strings"

	"github.com/dalemusser/facultyhub/internal/domain/models"
)

// topTopicCount caps ExtractTopics output.
const topTopicCount = 10

// stopWords are excluded from topic extraction, together with any token
// of length <= 3. The list is fixed; changing it changes every
// department's top-topics and gap report.
var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "this": {}, "that": {},
	"from": {}, "research": {}, "study": {}, "analysis": {}, "based": {},
	"using": {}, "development": {}, "approach": {},
}

// TopicCount is one extracted topic with its occurrence count.
type TopicCount struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

// ExtractTopics tokenizes the titles of a profile's research titles and
// publications (lower-cased, whitespace-split), drops stop words and
// short tokens, and returns the top 10 topics by descending count.
// Ties keep first-encounter order (stable sort), so output is
// deterministic for a given profile.
func ExtractTopics(p *models.FacultyProfile) []TopicCount {
	counts := make(map[string]int)
	var order []string

	addTitle := func(title string) {
		for _, word := range strings.Fields(strings.ToLower(title)) {
			if len(word) <= 3 {
				continue
			}
			if _, stop := stopWords[word]; stop {
				continue
			}
			if _, seen := counts[word]; !seen {
				order = append(order, word)
			}
			counts[word]++
		}
	}

	for _, t := range p.ResearchTitles {
		addTitle(t.Title)
	}
	for _, pub := range p.ResearchPublications {
		addTitle(pub.Title)
	}

	topics := make([]TopicCount, 0, len(order))
	for _, w := range order {
		topics = append(topics, TopicCount{Topic: w, Count: counts[w]})
	}
	sort.SliceStable(topics, func(i, j int) bool {
		return topics[i].Count > topics[j].Count
	})
	if len(topics) > topTopicCount {
		topics = topics[:topTopicCount]
	}
	return topics
}
