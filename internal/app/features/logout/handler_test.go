package logout_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/facultyhub/internal/app/features/logout"
	"github.com/dalemusser/facultyhub/internal/app/system/auth"
	"go.uber.org/zap"
)

func TestServeLogout_ClearsSessionAndRedirects(t *testing.T) {
	sm, err := auth.NewSessionManager("test-session-key-must-be-32-chars-long", "test-session", "", false, zap.NewNop())
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}
	h := logout.NewHandler(sm, zap.NewNop())

	signinRec := httptest.NewRecorder()
	signinReq := httptest.NewRequest("POST", "/login", nil)
	if err := sm.SignIn(signinRec, signinReq, &auth.SessionUser{Email: "a@uni.edu", Role: auth.RoleFaculty}); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	req := httptest.NewRequest("GET", "/logout", nil)
	for _, c := range signinRec.Result().Cookies() {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeLogout(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("Location = %q, want /", loc)
	}

	var cleared bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == "test-session" && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("expected the session cookie to be expired")
	}
}

func TestServeLogout_NoSession(t *testing.T) {
	sm, err := auth.NewSessionManager("test-session-key-must-be-32-chars-long", "test-session", "", false, zap.NewNop())
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}
	h := logout.NewHandler(sm, zap.NewNop())

	req := httptest.NewRequest("GET", "/logout", nil)
	rec := httptest.NewRecorder()
	h.ServeLogout(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
}
