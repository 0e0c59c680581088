// Package profiles serves the faculty profile JSON API: fetch, debounced
// section edits, sync status, admin classification, the admin collection
// listing, and the live change subscription.
package profiles

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	profilestore "github.com/dalemusser/facultyhub/internal/app/store/profiles"
	"github.com/dalemusser/facultyhub/internal/app/system/auth"
	"github.com/dalemusser/facultyhub/internal/app/system/avatarcache"
	"github.com/dalemusser/facultyhub/internal/app/system/debounce"
	"github.com/dalemusser/facultyhub/internal/app/system/errs"
	"github.com/dalemusser/facultyhub/internal/app/system/normalize"
	"github.com/dalemusser/facultyhub/internal/app/system/timeouts"
	"github.com/dalemusser/facultyhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler holds dependencies for the profile endpoints. Window overrides
// the debounce clock; nil means the debounce package default. Avatars is
// the shared avatar cache; nil disables the cached path.
type Handler struct {
	Profiles *profilestore.Store
	Avatars  *avatarcache.Cache
	Log      *zap.Logger

	Window debounce.Clock // optional clock override for tests

	mu       sync.Mutex
	updaters map[string]*debounce.Updater
}

func NewHandler(profiles *profilestore.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Profiles: profiles,
		Log:      logger,
		updaters: make(map[string]*debounce.Updater),
	}
}

// updaterFor returns the debounced updater for one profile, creating it
// on first use. Updaters live for the process lifetime; the map is
// bounded by the number of signed-in faculty.
func (h *Handler) updaterFor(email string) *debounce.Updater {
	email = normalize.Email(email)

	h.mu.Lock()
	defer h.mu.Unlock()
	if u, ok := h.updaters[email]; ok {
		return u
	}

	write := func(ctx context.Context, section models.Section, payload any) error {
		return h.Profiles.UpdateSection(ctx, email, section, payload)
	}
	var u *debounce.Updater
	if h.Window != nil {
		u = debounce.NewWithClock(debounce.DefaultWindow, h.Window, write, h.Log)
	} else {
		u = debounce.New(write, h.Log)
	}
	h.updaters[email] = u
	return u
}

// CloseUpdaters drops every pending debounced write. Called at shutdown.
func (h *Handler) CloseUpdaters() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, u := range h.updaters {
		u.Close()
	}
}

// pathEmail pulls the {email} URL parameter.
func pathEmail(r *http.Request) string {
	return normalize.Email(chi.URLParam(r, "email"))
}

// canAccess reports whether the signed-in user may read the profile:
// the owner, or any admin.
func canAccess(r *http.Request, email string) (*auth.SessionUser, bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return nil, false
	}
	if user.IsAdmin() {
		return user, true
	}
	return user, normalize.Email(user.Email) == email
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// Get handles GET /api/profiles/{email}. Owner or admin.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	email := pathEmail(r)
	if _, ok := canAccess(r, email); !ok {
		writeError(w, http.StatusForbidden, "Forbidden")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := h.Profiles.Get(ctx, email)
	if err == errs.ErrProfileNotFound {
		writeError(w, http.StatusNotFound, "Profile not found")
		return
	}
	if err != nil {
		h.Log.Error("profile fetch failed", zap.String("email", email), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to load profile")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// List handles GET /api/profiles. Admin only (enforced by routes); the
// full scan feeds the admin dashboard, analytics, and export.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok || !user.IsAdmin() {
		writeError(w, http.StatusForbidden, "Forbidden")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	all, err := h.Profiles.All(ctx)
	if err != nil {
		h.Log.Error("profile listing failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to load profiles")
		return
	}
	if all == nil {
		all = []models.FacultyProfile{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"profiles": all, "count": len(all)})
}
