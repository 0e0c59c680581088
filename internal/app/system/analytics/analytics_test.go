package analytics_test

import (
	"testing"

	"github.com/dalemusser/facultyhub/internal/app/system/analytics"
	"github.com/dalemusser/facultyhub/internal/domain/models"
)

func profileWithCounts(email string, pubs, engs, titles int) models.FacultyProfile {
	p := models.FacultyProfile{Email: email, Name: email}
	for i := 0; i < pubs; i++ {
		p.ResearchPublications = append(p.ResearchPublications, models.ResearchPublication{Title: "pub", Year: "2024"})
	}
	for i := 0; i < engs; i++ {
		p.ResearchEngagements = append(p.ResearchEngagements, models.ResearchEngagement{Title: "eng", Year: "2024"})
	}
	for i := 0; i < titles; i++ {
		p.ResearchTitles = append(p.ResearchTitles, models.ResearchTitle{Title: "title", Year: "2024", Type: models.ResearchTypeSelfFunded, Status: models.ResearchStatusOngoing})
	}
	return p
}

func TestActivityScore_Weights(t *testing.T) {
	p := profileWithCounts("a@uni.edu", 2, 3, 4)
	got := analytics.ActivityScore(&p)
	want := 2*3 + 3*2 + 4*1
	if got != want {
		t.Fatalf("ActivityScore = %d, want %d", got, want)
	}
}

func TestActivityScore_Empty(t *testing.T) {
	p := models.FacultyProfile{Email: "b@uni.edu"}
	if got := analytics.ActivityScore(&p); got != 0 {
		t.Fatalf("ActivityScore of empty profile = %d, want 0", got)
	}
}

func TestCleanAndNormalize_CountsCompletedTitlesOnly(t *testing.T) {
	p := profileWithCounts("c@uni.edu", 2, 1, 0)
	p.ResearchTitles = []models.ResearchTitle{
		{Title: "done", Year: "2022", Status: models.ResearchStatusCompleted},
		{Title: "wip", Year: "2024", Status: models.ResearchStatusOngoing},
		{Title: "done2", Year: "2023", Status: models.ResearchStatusCompleted},
	}

	out := analytics.CleanAndNormalize([]models.FacultyProfile{p})
	if len(out) != 1 {
		t.Fatalf("got %d profiles, want 1", len(out))
	}
	rc := out[0].ResearchCount
	if rc.Titles != 2 || rc.Total != 2 {
		t.Errorf("titles/total = %d/%d, want 2/2 (completed only)", rc.Titles, rc.Total)
	}
	if rc.Publications != 2 || rc.Engagements != 1 {
		t.Errorf("publications/engagements = %d/%d, want 2/1", rc.Publications, rc.Engagements)
	}
	if out[0].ActivityScore != 2*3+1*2+3*1 {
		t.Errorf("activity score = %d, want %d", out[0].ActivityScore, 2*3+1*2+3*1)
	}
}

func TestCleanAndNormalize_NilSlicesBecomeEmpty(t *testing.T) {
	out := analytics.CleanAndNormalize([]models.FacultyProfile{{Email: "d@uni.edu"}})
	p := out[0]
	if p.Education == nil || p.ResearchEngagements == nil || p.ResearchPublications == nil || p.ResearchTitles == nil {
		t.Fatal("expected nil collection fields to be normalized to empty slices")
	}
}

func TestExtractTopics_FiltersStopWordsAndShortTokens(t *testing.T) {
	p := models.FacultyProfile{
		Email: "e@uni.edu",
		ResearchTitles: []models.ResearchTitle{
			{Title: "Effects of Climate Change on Coastal Agriculture"},
		},
	}

	topics := analytics.ExtractTopics(&p)
	got := make(map[string]int, len(topics))
	for _, tc := range topics {
		got[tc.Topic] = tc.Count
	}
	want := []string{"effects", "climate", "change", "coastal", "agriculture"}
	if len(got) != len(want) {
		t.Fatalf("got topics %v, want exactly %v", topics, want)
	}
	for _, w := range want {
		if got[w] != 1 {
			t.Errorf("topic %q count = %d, want 1", w, got[w])
		}
	}
}

func TestExtractTopics_CaseFoldingAndCounts(t *testing.T) {
	p := models.FacultyProfile{
		Email: "f@uni.edu",
		ResearchTitles: []models.ResearchTitle{
			{Title: "Machine Learning Applications"},
			{Title: "machine learning pipelines"},
		},
		ResearchPublications: []models.ResearchPublication{
			{Title: "MACHINE vision"},
		},
	}

	topics := analytics.ExtractTopics(&p)
	if len(topics) == 0 || topics[0].Topic != "machine" || topics[0].Count != 3 {
		t.Fatalf("top topic = %+v, want machine:3", topics)
	}
}

func TestExtractTopics_CapsAtTen(t *testing.T) {
	titles := []models.ResearchTitle{
		{Title: "alpha bravo charlie delta echoes foxtrot golfing hotels indigo juliet kilos limas"},
	}
	p := models.FacultyProfile{Email: "g@uni.edu", ResearchTitles: titles}
	topics := analytics.ExtractTopics(&p)
	if len(topics) != 10 {
		t.Fatalf("got %d topics, want cap of 10", len(topics))
	}
}

func TestDepartmentSummary_Aggregates(t *testing.T) {
	a := profileWithCounts("a@uni.edu", 3, 1, 0)
	a.Department = models.DeptSITE
	a.ResearchTitles = []models.ResearchTitle{
		{Title: "t1", Status: models.ResearchStatusOngoing},
		{Title: "t2", Status: models.ResearchStatusCompleted},
	}
	b := profileWithCounts("b@uni.edu", 2, 0, 0)
	b.Department = models.DeptSITE
	c := profileWithCounts("c@uni.edu", 1, 0, 0)

	summary := analytics.DepartmentSummary([]models.FacultyProfile{a, b, c})

	site := summary["SITE"]
	if site.TotalFaculty != 2 {
		t.Errorf("SITE totalFaculty = %d, want 2", site.TotalFaculty)
	}
	if site.Publications != 5 {
		t.Errorf("SITE publications = %d, want 5", site.Publications)
	}
	if site.ActiveResearchers != 1 {
		t.Errorf("SITE activeResearchers = %d, want 1", site.ActiveResearchers)
	}
	if site.Titles != 1 {
		t.Errorf("SITE titles (completed) = %d, want 1", site.Titles)
	}
	if site.OngoingResearch != 1 {
		t.Errorf("SITE ongoingResearch = %d, want 1", site.OngoingResearch)
	}

	unassigned := summary[analytics.UnassignedDepartment]
	if unassigned.TotalFaculty != 1 || unassigned.Publications != 1 {
		t.Errorf("Unassigned = %+v, want one faculty with one publication", unassigned)
	}
}

func TestResearchTrends_YearKeysUnparsed(t *testing.T) {
	p := models.FacultyProfile{
		Email: "h@uni.edu",
		ResearchPublications: []models.ResearchPublication{
			{Title: "x", Year: "2023"},
			{Title: "y", Year: "2023"},
			{Title: "z", Year: "circa 2020"},
		},
		ResearchTitles: []models.ResearchTitle{
			{Title: "t", Year: "2023", Status: models.ResearchStatusOngoing},
			{Title: "u", Year: "2023", Status: models.ResearchStatusCompleted},
		},
	}

	tr := analytics.ResearchTrends([]models.FacultyProfile{p})
	if tr.Publications["2023"] != 2 {
		t.Errorf("publications[2023] = %d, want 2", tr.Publications["2023"])
	}
	if tr.Publications["circa 2020"] != 1 {
		t.Errorf("expected free-text year kept verbatim as a key, got %v", tr.Publications)
	}
	split := tr.Status["2023"]
	if split.Ongoing != 1 || split.Completed != 1 {
		t.Errorf("status[2023] = %+v, want 1 ongoing / 1 completed", split)
	}
}

func TestClassifyScore_Thresholds(t *testing.T) {
	cases := []struct {
		sum  int
		want string
	}{
		{0, analytics.LevelLow},
		{5, analytics.LevelLow},
		{6, analytics.LevelMedium},
		{10, analytics.LevelMedium},
		{11, analytics.LevelHigh},
	}
	for _, tc := range cases {
		if got := analytics.ClassifyScore(tc.sum); got != tc.want {
			t.Errorf("ClassifyScore(%d) = %q, want %q", tc.sum, got, tc.want)
		}
	}
}

func TestClassifyActivity_SumIncludesScore(t *testing.T) {
	// 1 pub + 1 eng + 1 title: feature sum = 3, score = 3+2+1 = 6, total 9 -> Medium.
	p := profileWithCounts("i@uni.edu", 1, 1, 1)
	out := analytics.ClassifyActivity([]models.FacultyProfile{p})
	if len(out) != 1 {
		t.Fatalf("got %d results, want 1", len(out))
	}
	if out[0].Score != 9 || out[0].Level != analytics.LevelMedium {
		t.Fatalf("got score=%d level=%q, want 9/Medium", out[0].Score, out[0].Level)
	}
}

func TestPredictActivity_GrowthRates(t *testing.T) {
	const year = 2026

	onlyRecent := models.FacultyProfile{Email: "recent@uni.edu", ResearchTitles: []models.ResearchTitle{
		{Title: "r1", Year: "2025"},
		{Title: "r2", Year: "2026"},
	}}
	declining := models.FacultyProfile{Email: "declining@uni.edu", ResearchTitles: []models.ResearchTitle{
		{Title: "p1", Year: "2020"},
		{Title: "p2", Year: "2021"},
		{Title: "r1", Year: "2025"},
	}}
	idle := models.FacultyProfile{Email: "idle@uni.edu"}

	out := analytics.PredictActivity([]models.FacultyProfile{onlyRecent, declining, idle}, year)
	if len(out) != 3 {
		t.Fatalf("got %d predictions, want 3", len(out))
	}

	if out[0].GrowthRate != 1.0 || out[0].Trend != analytics.TrendIncreasing {
		t.Errorf("recent-only: growth=%v trend=%q, want 1.0/Increasing", out[0].GrowthRate, out[0].Trend)
	}
	if out[1].GrowthRate != -0.5 || out[1].Trend != analytics.TrendDecreasing {
		t.Errorf("declining: growth=%v trend=%q, want -0.5/Decreasing", out[1].GrowthRate, out[1].Trend)
	}
	if out[2].GrowthRate != 0.0 || out[2].Trend != analytics.TrendStable {
		t.Errorf("idle: growth=%v trend=%q, want 0.0/Stable", out[2].GrowthRate, out[2].Trend)
	}
}

func TestPredictActivity_RecentWindowBoundary(t *testing.T) {
	// Cutoff for 2026 is 2024: a 2024 title is recent, a 2023 title is past.
	p := models.FacultyProfile{Email: "edge@uni.edu", ResearchTitles: []models.ResearchTitle{
		{Title: "past", Year: "2023"},
		{Title: "recent", Year: "2024"},
	}}
	out := analytics.PredictActivity([]models.FacultyProfile{p}, 2026)
	if out[0].GrowthRate != 0.0 {
		t.Fatalf("growth = %v, want 0.0 (one recent vs one past)", out[0].GrowthRate)
	}
}

func TestPredictActivity_UnparseableYearsIgnored(t *testing.T) {
	p := models.FacultyProfile{Email: "junk@uni.edu", ResearchTitles: []models.ResearchTitle{
		{Title: "no year", Year: "n/a"},
		{Title: "blank", Year: ""},
	}}
	out := analytics.PredictActivity([]models.FacultyProfile{p}, 2026)
	if out[0].GrowthRate != 0.0 || out[0].Trend != analytics.TrendStable {
		t.Fatalf("got growth=%v trend=%q, want 0.0/Stable when no title year parses", out[0].GrowthRate, out[0].Trend)
	}
}

func TestResearchPatterns(t *testing.T) {
	p := models.FacultyProfile{
		Email:          "pat@uni.edu",
		Specialization: "Data Science",
		ResearchPublications: []models.ResearchPublication{
			{Title: "p", Year: "2024"},
		},
		ResearchEngagements: []models.ResearchEngagement{
			{Title: "e", Year: "2024"},
			{Title: "e2", Year: "2022"},
		},
		ResearchTitles: []models.ResearchTitle{
			{Title: "t1", Type: models.ResearchTypeFunded, Status: models.ResearchStatusOngoing, FundingAgency: "DOST"},
			{Title: "t2", Type: models.ResearchTypeSelfFunded, Status: models.ResearchStatusCompleted},
		},
	}

	got := analytics.ResearchPatterns([]models.FacultyProfile{p})
	checks := map[string]int{
		"Publication-Engagement-2024":  1,
		"Research-funded-on-going":     1,
		"Research-self-funded-completed": 1,
		"Funding-DOST":                 1,
		"Specialization-Data Science":  1,
	}
	for k, want := range checks {
		if got[k] != want {
			t.Errorf("pattern %q = %d, want %d (all: %v)", k, got[k], want, got)
		}
	}
	if _, ok := got["Publication-Engagement-2022"]; ok {
		t.Error("year mismatch should not produce a pattern")
	}
}

func TestResearchGaps_ReportsMissingExpectedAreas(t *testing.T) {
	p := models.FacultyProfile{
		Email:      "gap@uni.edu",
		Department: models.DeptSITE,
		ResearchTitles: []models.ResearchTitle{
			{Title: "technology technology technology"},
			{Title: "engineering engineering"},
			{Title: "computing systems innovation"},
		},
	}

	out := analytics.ResearchGaps([]models.FacultyProfile{p})
	if len(out) != 1 {
		t.Fatalf("got %d departments, want 1", len(out))
	}
	g := out[0]
	if g.Department != models.DeptSITE {
		t.Fatalf("department = %q, want SITE", g.Department)
	}
	if len(g.TopTopics) != 5 {
		t.Fatalf("top topics = %v, want 5 entries", g.TopTopics)
	}
	if len(g.GapAreas) != 0 {
		t.Errorf("gap areas = %v, want none when all expected areas covered", g.GapAreas)
	}
}

func TestResearchGaps_SkipsUnassigned(t *testing.T) {
	p := models.FacultyProfile{
		Email:          "nodept@uni.edu",
		ResearchTitles: []models.ResearchTitle{{Title: "technology systems"}},
	}
	out := analytics.ResearchGaps([]models.FacultyProfile{p})
	if len(out) != 0 {
		t.Fatalf("got %v, want no report for unassigned profiles", out)
	}
}

func TestResearchGaps_PartialCoverage(t *testing.T) {
	p := models.FacultyProfile{
		Email:      "partial@uni.edu",
		Department: models.DeptSBHAM,
		ResearchTitles: []models.ResearchTitle{
			{Title: "business management strategies"},
		},
	}

	out := analytics.ResearchGaps([]models.FacultyProfile{p})
	g := out[0]
	gaps := make(map[string]bool, len(g.GapAreas))
	for _, a := range g.GapAreas {
		gaps[a] = true
	}
	for _, want := range []string{"economics", "finance", "marketing"} {
		if !gaps[want] {
			t.Errorf("expected %q in gap areas, got %v", want, g.GapAreas)
		}
	}
	if gaps["business"] || gaps["management"] {
		t.Errorf("covered areas reported as gaps: %v", g.GapAreas)
	}
}

func TestDepartmentScoreStats(t *testing.T) {
	a := profileWithCounts("a@uni.edu", 1, 0, 0) // score 3
	a.Department = models.DeptSOM
	b := profileWithCounts("b@uni.edu", 2, 0, 1) // score 7
	b.Department = models.DeptSOM

	out := analytics.DepartmentScoreStats([]models.FacultyProfile{a, b})
	if len(out) != 1 {
		t.Fatalf("got %d rows, want 1", len(out))
	}
	s := out[0]
	if s.Department != "SOM" || s.Count != 2 {
		t.Fatalf("row = %+v, want SOM with count 2", s)
	}
	if s.Mean != 5 || s.Median != 5 || s.Min != 3 || s.Max != 7 {
		t.Errorf("mean/median/min/max = %v/%v/%v/%v, want 5/5/3/7", s.Mean, s.Median, s.Min, s.Max)
	}
	if s.StdDev != 2 {
		t.Errorf("population stddev = %v, want 2", s.StdDev)
	}
}
