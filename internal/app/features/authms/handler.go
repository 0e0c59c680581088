// Package authms implements Microsoft (Azure AD) OAuth sign-in. A
// successful callback ensures a faculty profile exists, stamps the last
// login, resolves the session role, and kicks off a background avatar
// fetch from Microsoft Graph.
package authms

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	adminstore "github.com/dalemusser/facultyhub/internal/app/store/admins"
	"github.com/dalemusser/facultyhub/internal/app/store/oauthstate"
	profilestore "github.com/dalemusser/facultyhub/internal/app/store/profiles"
	"github.com/dalemusser/facultyhub/internal/app/system/auth"
	"github.com/dalemusser/facultyhub/internal/app/system/avatarcache"
	"github.com/dalemusser/facultyhub/internal/app/system/msgraph"
	"github.com/dalemusser/facultyhub/internal/app/system/normalize"
	"github.com/dalemusser/facultyhub/internal/app/system/timeouts"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/microsoft"
)

// Handler handles Microsoft OAuth authentication.
type Handler struct {
	Profiles   *profilestore.Store
	Admins     *adminstore.Store
	StateStore *oauthstate.Store
	SessionMgr *auth.SessionManager
	Avatars    *avatarcache.Cache
	Log        *zap.Logger

	// OAuth configuration
	ClientID     string
	ClientSecret string
	TenantID     string
	RedirectURL  string // e.g. "https://facultyhub.example.edu/auth/microsoft/callback"

	// GraphBaseURL overrides the Microsoft Graph endpoint in tests.
	GraphBaseURL string
}

// NewHandler creates a Microsoft OAuth handler.
func NewHandler(
	profiles *profilestore.Store,
	admins *adminstore.Store,
	stateStore *oauthstate.Store,
	sessionMgr *auth.SessionManager,
	avatars *avatarcache.Cache,
	clientID, clientSecret, tenantID, baseURL string,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Profiles:     profiles,
		Admins:       admins,
		StateStore:   stateStore,
		SessionMgr:   sessionMgr,
		Avatars:      avatars,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TenantID:     tenantID,
		RedirectURL:  baseURL + "/auth/microsoft/callback",
		Log:          logger,
	}
}

func (h *Handler) oauth2Config() *oauth2.Config {
	tenant := h.TenantID
	if tenant == "" {
		tenant = "common"
	}
	return &oauth2.Config{
		ClientID:     h.ClientID,
		ClientSecret: h.ClientSecret,
		RedirectURL:  h.RedirectURL,
		Scopes:       []string{"openid", "profile", "email", "User.Read"},
		Endpoint:     microsoft.AzureADEndpoint(tenant),
	}
}

// IsConfigured reports whether Microsoft OAuth is configured.
func (h *Handler) IsConfigured() bool {
	return h.ClientID != "" && h.ClientSecret != ""
}

// ServeLogin handles GET /auth/microsoft: redirects to the Microsoft
// consent screen with a one-time CSRF state.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if !h.IsConfigured() {
		h.Log.Warn("Microsoft OAuth not configured")
		http.Redirect(w, r, "/login?error=microsoft_not_configured", http.StatusSeeOther)
		return
	}

	state, err := generateState()
	if err != nil {
		h.Log.Error("failed to generate OAuth state", zap.Error(err))
		http.Redirect(w, r, "/login?error=internal", http.StatusSeeOther)
		return
	}

	returnURL := normalize.QueryParam(r.URL.Query().Get("return"))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	expiresAt := time.Now().UTC().Add(10 * time.Minute)
	if err := h.StateStore.Save(ctx, state, returnURL, expiresAt); err != nil {
		h.Log.Error("failed to save OAuth state", zap.Error(err))
		http.Redirect(w, r, "/login?error=internal", http.StatusSeeOther)
		return
	}

	url := h.oauth2Config().AuthCodeURL(state)
	h.Log.Debug("initiating Microsoft OAuth flow", zap.String("return_url", returnURL))
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// ServeCallback handles GET /auth/microsoft/callback.
func (h *Handler) ServeCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.Log.Warn("Microsoft OAuth error",
			zap.String("error", errParam),
			zap.String("description", r.URL.Query().Get("error_description")))
		http.Redirect(w, r, "/login?error=microsoft_denied", http.StatusSeeOther)
		return
	}

	state := r.URL.Query().Get("state")
	if state == "" {
		h.Log.Warn("missing OAuth state parameter")
		http.Redirect(w, r, "/login?error=invalid_state", http.StatusSeeOther)
		return
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	returnURL, valid, err := h.StateStore.Validate(ctxTimeout, state)
	if err != nil {
		h.Log.Error("failed to validate OAuth state", zap.Error(err))
		http.Redirect(w, r, "/login?error=internal", http.StatusSeeOther)
		return
	}
	if !valid {
		h.Log.Warn("invalid or expired OAuth state")
		http.Redirect(w, r, "/login?error=invalid_state", http.StatusSeeOther)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		h.Log.Warn("missing OAuth code parameter")
		http.Redirect(w, r, "/login?error=invalid_code", http.StatusSeeOther)
		return
	}

	token, err := h.oauth2Config().Exchange(ctx, code)
	if err != nil {
		h.Log.Error("failed to exchange OAuth code", zap.Error(err))
		http.Redirect(w, r, "/login?error=token_exchange", http.StatusSeeOther)
		return
	}

	msUser, err := h.fetchUserInfo(ctx, token)
	if err != nil {
		h.Log.Error("failed to fetch Microsoft user info", zap.Error(err))
		http.Redirect(w, r, "/login?error=user_info", http.StatusSeeOther)
		return
	}
	email := normalize.Email(msUser.email)
	if email == "" {
		h.Log.Warn("Microsoft account has no email claim")
		http.Redirect(w, r, "/login?error=no_email", http.StatusSeeOther)
		return
	}

	// First sign-in creates the profile; every sign-in stamps last_login.
	if _, _, err := h.Profiles.EnsureProfile(ctxTimeout, email, msUser.name); err != nil {
		h.Log.Error("profile ensure failed", zap.String("email", email), zap.Error(err))
		http.Redirect(w, r, "/login?error=internal", http.StatusSeeOther)
		return
	}
	if err := h.Profiles.TouchLastLogin(ctxTimeout, email); err != nil {
		h.Log.Warn("last-login stamp failed", zap.String("email", email), zap.Error(err))
	}

	// Role lookup degrades to faculty so a transient admin-store failure
	// never locks anyone out.
	role := auth.RoleFaculty
	if isAdmin, err := h.Admins.IsAdmin(ctxTimeout, email); err != nil {
		h.Log.Warn("role lookup failed, defaulting to faculty",
			zap.String("email", email), zap.Error(err))
	} else if isAdmin {
		role = auth.RoleAdmin
	}

	user := &auth.SessionUser{Email: email, Name: msUser.name, Role: role}
	if err := h.SessionMgr.SignIn(w, r, user); err != nil {
		h.Log.Error("session sign-in failed", zap.String("email", email), zap.Error(err))
		http.Redirect(w, r, "/login?error=session", http.StatusSeeOther)
		return
	}

	h.fetchAvatarAsync(email, token)

	h.Log.Info("user signed in via Microsoft OAuth",
		zap.String("email", email), zap.String("role", role))

	dest := safeReturn(returnURL, roleHome(role))
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

// fetchAvatarAsync pulls the profile photo from Microsoft Graph in the
// background; a missing photo or a failed fetch just leaves the cache
// cold and the UI on its placeholder.
func (h *Handler) fetchAvatarAsync(email string, token *oauth2.Token) {
	if h.Avatars == nil {
		return
	}

	base := h.GraphBaseURL
	if base == "" {
		base = msgraph.DefaultBaseURL
	}
	client := msgraph.New(base, nil, oauthTokens{token: token}, h.Log)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeouts.Long())
		defer cancel()

		photo, err := client.FetchPhoto(ctx, email)
		if err == msgraph.ErrNoPhoto {
			return
		}
		if err != nil {
			h.Log.Warn("avatar fetch failed", zap.String("email", email), zap.Error(err))
			return
		}

		url := fmt.Sprintf("data:%s;base64,%s",
			photo.ContentType, base64.StdEncoding.EncodeToString(photo.Data))
		h.Avatars.Set(email, url)
	}()
}

// oauthTokens adapts a static OAuth2 token to the retry layer's token
// source. ForceRefresh cannot mint a new Microsoft token here, so it
// returns the same one.
type oauthTokens struct {
	token *oauth2.Token
}

func (o oauthTokens) Token(ctx context.Context) (string, error) {
	return o.token.AccessToken, nil
}

func (o oauthTokens) ForceRefresh(ctx context.Context) (string, error) {
	return o.token.AccessToken, nil
}

// msUserInfo is the subset of the Graph /me document the sign-in needs.
type msUserInfo struct {
	email string
	name  string
}

// fetchUserInfo retrieves the signed-in user from Microsoft Graph.
func (h *Handler) fetchUserInfo(ctx context.Context, token *oauth2.Token) (*msUserInfo, error) {
	base := h.GraphBaseURL
	if base == "" {
		base = msgraph.DefaultBaseURL
	}
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))

	me, err := msgraph.FetchMe(ctx, client, base)
	if err != nil {
		return nil, err
	}

	email := me.Mail
	if email == "" {
		email = me.UserPrincipalName
	}
	return &msUserInfo{email: email, name: me.DisplayName}, nil
}

// roleHome is where each role lands after sign-in.
func roleHome(role string) string {
	if role == auth.RoleAdmin {
		return "/admin"
	}
	return "/faculty"
}

// safeReturn accepts only same-site absolute paths.
func safeReturn(returnURL, fallback string) string {
	if returnURL == "" || !strings.HasPrefix(returnURL, "/") || strings.HasPrefix(returnURL, "//") {
		return fallback
	}
	return returnURL
}

// generateState creates a cryptographically secure random state string.
func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
