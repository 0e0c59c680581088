// Package apitoken issues short-lived bearer tokens to signed-in users.
// Scripts and non-browser clients exchange their session for a token
// here, then send it as an Authorization bearer on later API calls.
package apitoken

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/facultyhub/internal/app/system/auth"
	"github.com/dalemusser/facultyhub/internal/app/system/tokens"
	"go.uber.org/zap"
)

// Handler holds the token issuance dependencies.
type Handler struct {
	Tokens *tokens.Service
	Log    *zap.Logger
}

func NewHandler(svc *tokens.Service, logger *zap.Logger) *Handler {
	return &Handler{Tokens: svc, Log: logger}
}

// Issue handles POST /api/auth/token. The token's subject is the
// signed-in user's email, which the bearer middleware resolves back to
// a session user on later requests.
func (h *Handler) Issue(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Sign in required")
		return
	}

	tok, err := h.Tokens.MintFor(user.Email, tokens.DefaultTTL)
	if err != nil {
		h.Log.Error("token mint failed", zap.String("email", user.Email), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	h.Log.Info("api token issued", zap.String("email", user.Email))
	writeJSON(w, http.StatusOK, map[string]any{
		"token":     tok,
		"tokenType": "Bearer",
		"expiresIn": int(tokens.DefaultTTL.Seconds()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
