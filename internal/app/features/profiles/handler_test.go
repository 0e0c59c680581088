package profiles_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/facultyhub/internal/app/features/profiles"
	profilestore "github.com/dalemusser/facultyhub/internal/app/store/profiles"
	"github.com/dalemusser/facultyhub/internal/app/system/debounce"
	"github.com/dalemusser/facultyhub/internal/domain/models"
	"github.com/dalemusser/facultyhub/internal/testutil"
	"go.uber.org/zap"
)

// manualClock collects timer callbacks so tests fire the debounce window
// deterministically.
type manualClock struct {
	mu  sync.Mutex
	fns []func()
}

type manualTimer struct{}

func (manualTimer) Stop() bool { return true }

func (c *manualClock) AfterFunc(d time.Duration, f func()) debounce.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fns = append(c.fns, f)
	return manualTimer{}
}

// fireLast runs the most recently armed timer, which is the only live
// one under the last-call-wins contract.
func (c *manualClock) fireLast(t *testing.T) {
	c.mu.Lock()
	if len(c.fns) == 0 {
		c.mu.Unlock()
		t.Fatal("no armed timer to fire")
	}
	f := c.fns[len(c.fns)-1]
	c.mu.Unlock()
	f()
}

type testEnv struct {
	handler *profiles.Handler
	fx      *testutil.Fixtures
	clock   *manualClock
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	clock := &manualClock{}
	h := profiles.NewHandler(profilestore.New(db, zap.NewNop()), zap.NewNop())
	h.Window = clock
	return &testEnv{handler: h, fx: testutil.NewFixtures(t, db), clock: clock}
}

func profileRequest(method, target, email string, body string, user testutil.TestUser) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	req = testutil.WithChiURLParam(req, "email", email)
	return testutil.WithUser(req, user)
}

func TestGet_OwnerCanRead(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	env.fx.CreateProfile(ctx, "alice@uni.edu", "Alice", models.DeptSITE)

	req := profileRequest("GET", "/api/profiles/alice@uni.edu", "alice@uni.edu", "", testutil.FacultyUser("alice@uni.edu"))
	rec := httptest.NewRecorder()
	env.handler.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var p models.FacultyProfile
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if p.Email != "alice@uni.edu" || p.Department != models.DeptSITE {
		t.Errorf("got %+v", p)
	}
}

func TestGet_AdminCanReadAnyProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	env.fx.CreateProfile(ctx, "bob@uni.edu", "Bob", models.DeptSOM)

	req := profileRequest("GET", "/api/profiles/bob@uni.edu", "bob@uni.edu", "", testutil.AdminUser())
	rec := httptest.NewRecorder()
	env.handler.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
}

func TestGet_OtherFacultyForbidden(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	env.fx.CreateProfile(ctx, "carol@uni.edu", "Carol", models.DeptSOM)

	req := profileRequest("GET", "/api/profiles/carol@uni.edu", "carol@uni.edu", "", testutil.FacultyUser("mallory@uni.edu"))
	rec := httptest.NewRecorder()
	env.handler.Get(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected status 403, got %d", rec.Code)
	}
}

func TestGet_NotFound(t *testing.T) {
	env := newTestEnv(t)

	req := profileRequest("GET", "/api/profiles/ghost@uni.edu", "ghost@uni.edu", "", testutil.AdminUser())
	rec := httptest.NewRecorder()
	env.handler.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}
}

func TestList_AdminOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	env.fx.CreateProfile(ctx, "a@uni.edu", "Amy", models.DeptSITE)
	env.fx.CreateProfile(ctx, "b@uni.edu", "Ben", models.DeptSOM)

	req := testutil.WithUser(httptest.NewRequest("GET", "/api/profiles", nil), testutil.AdminUser())
	rec := httptest.NewRecorder()
	env.handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var body struct {
		Count    int                      `json:"count"`
		Profiles []models.FacultyProfile `json:"profiles"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if body.Count != 2 || len(body.Profiles) != 2 {
		t.Errorf("got count=%d len=%d", body.Count, len(body.Profiles))
	}

	req = testutil.WithUser(httptest.NewRequest("GET", "/api/profiles", nil), testutil.FacultyUser("a@uni.edu"))
	rec = httptest.NewRecorder()
	env.handler.List(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("faculty list: expected status 403, got %d", rec.Code)
	}
}
