// Package checkrole serves the role lookup endpoint the sign-in flow
// calls to decide where to send a user after authentication.
package checkrole

import (
	"context"
	"encoding/json"
	"net/http"

	adminstore "github.com/dalemusser/facultyhub/internal/app/store/admins"
	"github.com/dalemusser/facultyhub/internal/app/system/auth"
	"github.com/dalemusser/facultyhub/internal/app/system/normalize"
	"github.com/dalemusser/facultyhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Handler holds dependencies for the role check.
type Handler struct {
	Admins *adminstore.Store
	Log    *zap.Logger
}

func NewHandler(admins *adminstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Admins: admins, Log: logger}
}

// Serve handles GET /api/auth/check-role?email=…
//
// Missing email: 400 { "error": "Email is required" }
// Known admin:   200 { "role": "admin" }
// Anyone else:   200 { "role": "faculty" }
// Store failure: 500 { "error": "Failed to check role" }
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	email := normalize.QueryParam(r.URL.Query().Get("email"))
	if email == "" {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Email is required"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	isAdmin, err := h.Admins.IsAdmin(ctx, email)
	if err != nil {
		h.Log.Error("check-role: admin lookup failed",
			zap.String("email", email), zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Failed to check role"})
		return
	}

	role := auth.RoleFaculty
	if isAdmin {
		role = auth.RoleAdmin
	}
	_ = json.NewEncoder(w).Encode(map[string]string{"role": role})
}
