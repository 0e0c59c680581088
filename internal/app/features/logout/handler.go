// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"github.com/dalemusser/facultyhub/internal/app/system/auth"
	"go.uber.org/zap"
)

type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
}

func NewHandler(sessionMgr *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
	}
}

// ServeLogout handles GET /logout: clears the session and sends the
// browser home.
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	if user, ok := auth.CurrentUser(r); ok {
		h.Log.Info("user signed out", zap.String("email", user.Email))
	}
	if err := h.SessionMgr.SignOut(w, r); err != nil {
		// Still redirect; the expired cookie was already queued.
		h.Log.Warn("session clear failed during logout", zap.Error(err))
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
