package profiles

import (
	"context"
	"net/http"

	"github.com/dalemusser/facultyhub/internal/app/system/errs"
	"github.com/dalemusser/facultyhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Avatar handles GET /api/profiles/{email}/avatar. Owner or admin.
//
// The cache holds the Graph photo (as a data URL) or the last uploaded
// photo URL; a cache hit skips the store entirely. On a miss the stored
// photo URL is returned and backfilled into the cache, so repeat renders
// of the same avatar stop hitting Mongo.
func (h *Handler) Avatar(w http.ResponseWriter, r *http.Request) {
	email := pathEmail(r)
	if _, ok := canAccess(r, email); !ok {
		writeError(w, http.StatusForbidden, "Forbidden")
		return
	}

	if h.Avatars != nil {
		if url, ok := h.Avatars.Get(email); ok {
			writeJSON(w, http.StatusOK, map[string]string{"url": url})
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := h.Profiles.Get(ctx, email)
	if err == errs.ErrProfileNotFound {
		writeError(w, http.StatusNotFound, "Profile not found")
		return
	}
	if err != nil {
		h.Log.Error("avatar lookup failed", zap.String("email", email), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to load avatar")
		return
	}
	if p.PhotoURL == "" {
		writeError(w, http.StatusNotFound, "No avatar set")
		return
	}

	if h.Avatars != nil {
		h.Avatars.Set(email, p.PhotoURL)
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": p.PhotoURL})
}
