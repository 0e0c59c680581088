package analytics_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/facultyhub/internal/app/features/analytics"
	profilestore "github.com/dalemusser/facultyhub/internal/app/store/profiles"
	"github.com/dalemusser/facultyhub/internal/domain/models"
	"github.com/dalemusser/facultyhub/internal/testutil"
	"go.uber.org/zap"
)

type testEnv struct {
	handler *analytics.Handler
	fx      *testutil.Fixtures
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	h := analytics.NewHandler(profilestore.New(db, zap.NewNop()), zap.NewNop())
	h.Now = func() time.Time { return time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC) }
	return &testEnv{handler: h, fx: testutil.NewFixtures(t, db)}
}

func adminGet(t *testing.T, serve http.HandlerFunc, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := testutil.NewAuthenticatedRequest("GET", target, testutil.AdminUser())
	rec := httptest.NewRecorder()
	serve(rec, req)
	return rec
}

func TestSummary_AdminOnly(t *testing.T) {
	env := newTestEnv(t)

	req := testutil.NewAuthenticatedRequest("GET", "/api/analytics/summary", testutil.FacultyUser("prof@uni.edu"))
	rec := httptest.NewRecorder()
	env.handler.Summary(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected status 403, got %d", rec.Code)
	}
}

func TestSummary_Aggregates(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	env.fx.CreateProfileWithResearch(ctx, "a@uni.edu", "Amy", models.DeptSITE,
		[]models.ResearchPublication{{Title: "P1", Year: "2025"}}, nil, nil)
	env.fx.CreateProfile(ctx, "b@uni.edu", "Ben", models.DeptUnset)

	rec := adminGet(t, env.handler.Summary, "/api/analytics/summary")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		TotalFaculty int                        `json:"totalFaculty"`
		Departments  map[string]json.RawMessage `json:"departments"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.TotalFaculty != 2 {
		t.Errorf("totalFaculty = %d, want 2", resp.TotalFaculty)
	}
	if _, ok := resp.Departments["SITE"]; !ok {
		t.Error("expected a SITE department bucket")
	}
	if _, ok := resp.Departments["Unassigned"]; !ok {
		t.Error("expected an Unassigned bucket for the unset department")
	}
}

func TestPredictions_UsesInjectedClock(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// All titles recent relative to the pinned 2026 clock.
	env.fx.CreateProfileWithResearch(ctx, "c@uni.edu", "Cara", models.DeptSOM,
		nil, nil, []models.ResearchTitle{
			{Title: "T1", Year: "2025", Type: models.ResearchTypeSelfFunded, Status: models.ResearchStatusOngoing},
		})

	rec := adminGet(t, env.handler.Predictions, "/api/analytics/predictions")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var resp struct {
		Predictions []struct {
			Email string  `json:"email"`
			Trend string  `json:"trend"`
			Rate  float64 `json:"growthRate"`
		} `json:"predictions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(resp.Predictions) != 1 {
		t.Fatalf("got %d predictions, want 1", len(resp.Predictions))
	}
	// Recent activity with no past activity reads as full growth.
	if resp.Predictions[0].Rate != 1.0 {
		t.Errorf("growthRate = %v, want 1.0", resp.Predictions[0].Rate)
	}
}

func TestTopics_AggregatesAcrossProfiles(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	env.fx.CreateProfileWithResearch(ctx, "d@uni.edu", "Dee", models.DeptSITE,
		nil, nil, []models.ResearchTitle{
			{Title: "Machine Learning Basics", Year: "2025", Type: models.ResearchTypeSelfFunded, Status: models.ResearchStatusOngoing},
		})
	env.fx.CreateProfileWithResearch(ctx, "e@uni.edu", "Eve", models.DeptSITE,
		nil, nil, []models.ResearchTitle{
			{Title: "Machine Vision Systems", Year: "2025", Type: models.ResearchTypeSelfFunded, Status: models.ResearchStatusOngoing},
		})

	rec := adminGet(t, env.handler.Topics, "/api/analytics/topics")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var resp struct {
		Topics []struct {
			Topic string `json:"topic"`
			Count int    `json:"count"`
		} `json:"topics"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(resp.Topics) == 0 || resp.Topics[0].Topic != "machine" || resp.Topics[0].Count != 2 {
		t.Errorf("got %+v, want machine=2 first", resp.Topics)
	}
}

func TestExportDetailed_HeadersAndBOM(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	env.fx.CreateProfile(ctx, "f@uni.edu", "Fay", models.DeptBEU)

	rec := adminGet(t, env.handler.ExportDetailed, "/api/analytics/export/detailed")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	cd := rec.Header().Get("Content-Disposition")
	if !strings.Contains(cd, "faculty_research_data_2026-08-29.csv") {
		t.Errorf("Content-Disposition = %q, want pinned-date filename", cd)
	}
	if !strings.HasPrefix(rec.Body.String(), "\ufeff") {
		t.Error("expected UTF-8 BOM prefix")
	}
}

func TestExportSummary_RowPerFaculty(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	env.fx.CreateProfile(ctx, "g@uni.edu", "Gus", models.DeptSOM)

	rec := adminGet(t, env.handler.ExportSummary, "/api/analytics/export/summary")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.HasPrefix(body, "\ufeff") {
		t.Error("expected UTF-8 BOM prefix")
	}
	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(body, "\ufeff")), "\r\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want header + 1 row", len(lines))
	}
	if !strings.Contains(lines[1], "g@uni.edu") {
		t.Errorf("row = %q", lines[1])
	}
}
