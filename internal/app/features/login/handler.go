// internal/app/features/login/handler.go

// Package login implements the password sign-in used by the bootstrap
// superadmin and any other local admin accounts. Faculty sign in through
// Microsoft OAuth instead.
package login

import (
	"context"
	"encoding/json"
	"net/http"

	adminstore "github.com/dalemusser/facultyhub/internal/app/store/admins"
	"github.com/dalemusser/facultyhub/internal/app/system/auth"
	"github.com/dalemusser/facultyhub/internal/app/system/normalize"
	"github.com/dalemusser/facultyhub/internal/app/system/ratelimit"
	"github.com/dalemusser/facultyhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

type Handler struct {
	Admins     *adminstore.Store
	SessionMgr *auth.SessionManager
	Limiter    *ratelimit.LoginLimiter
	Log        *zap.Logger
}

func NewHandler(admins *adminstore.Store, sessionMgr *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{
		Admins:     admins,
		SessionMgr: sessionMgr,
		Limiter:    ratelimit.NewLoginLimiter(),
		Log:        logger,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ServeLogin handles POST /api/auth/login.
//
// Success: 200 { "role": "admin" } plus the session cookie.
// Bad credentials: 401. Rate limited: 429.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Malformed login payload"})
		return
	}
	email := normalize.Email(req.Email)
	if email == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Email and password are required"})
		return
	}

	if allowed, reason := h.Limiter.Check(r, email); !allowed {
		h.Log.Warn("login rate limited",
			zap.String("email", email), zap.String("reason", reason))
		writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "Too many login attempts. Try again later."})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	admin, err := h.Admins.Authenticate(ctx, email, req.Password)
	if err == adminstore.ErrBadCredentials {
		h.Log.Info("login rejected", zap.String("email", email))
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid email or password"})
		return
	}
	if err != nil {
		h.Log.Error("login lookup failed", zap.String("email", email), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Login failed"})
		return
	}

	user := &auth.SessionUser{Email: admin.Email, Name: admin.Name, Role: auth.RoleAdmin}
	if err := h.SessionMgr.SignIn(w, r, user); err != nil {
		h.Log.Error("session sign-in failed", zap.String("email", email), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Login failed"})
		return
	}

	h.Limiter.ResetEmail(email)
	h.Log.Info("admin signed in", zap.String("email", admin.Email))
	writeJSON(w, http.StatusOK, map[string]string{"role": auth.RoleAdmin})
}
