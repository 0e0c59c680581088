// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	analyticsfeature "github.com/dalemusser/facultyhub/internal/app/features/analytics"
	apitokenfeature "github.com/dalemusser/facultyhub/internal/app/features/apitoken"
	authmsfeature "github.com/dalemusser/facultyhub/internal/app/features/authms"
	checkrolefeature "github.com/dalemusser/facultyhub/internal/app/features/checkrole"
	healthfeature "github.com/dalemusser/facultyhub/internal/app/features/health"
	loginfeature "github.com/dalemusser/facultyhub/internal/app/features/login"
	logoutfeature "github.com/dalemusser/facultyhub/internal/app/features/logout"
	profilesfeature "github.com/dalemusser/facultyhub/internal/app/features/profiles"
	uploadsfeature "github.com/dalemusser/facultyhub/internal/app/features/uploads"
	adminstore "github.com/dalemusser/facultyhub/internal/app/store/admins"
	"github.com/dalemusser/facultyhub/internal/app/store/oauthstate"
	profilestore "github.com/dalemusser/facultyhub/internal/app/store/profiles"
	"github.com/dalemusser/facultyhub/internal/app/system/auth"
	"github.com/dalemusser/facultyhub/internal/app/system/avatarcache"
	"github.com/dalemusser/facultyhub/internal/app/system/tokens"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// profileHandler is kept for Shutdown, which flushes any pending
// debounced section writes before the process exits.
var profileHandler *profilesfeature.Handler

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed.
//
// FacultyHub mounts the health check, the auth API (role lookup, password
// login, Microsoft OAuth, logout, bearer-token issuance), and the
// signed-in API surface: profiles, uploads, and analytics.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Create the session manager using app config.
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Bearer tokens let non-browser clients hit the API. The token
	// service signs with the session key and validates on each request.
	tokenSvc, err := tokens.NewService([]byte(appCfg.SessionKey), "facultyhub", "facultyhub-api", logger)
	if err != nil {
		logger.Error("token service init failed", zap.Error(err))
		return nil, err
	}
	sessionMgr.SetTokenValidator(tokenSvc)

	// Stores shared across features.
	profiles := profilestore.New(deps.MongoDatabase, logger)
	admins := adminstore.New(deps.MongoDatabase, logger)
	states := oauthstate.New(deps.MongoDatabase)
	avatars := avatarcache.New()

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Serve locally stored uploads directly when using disk storage.
	if _, ok := deps.Storage.(*storage.Local); ok {
		r.Handle(appCfg.StorageLocalURL+"/*", fileserver.Handler(appCfg.StorageLocalURL, appCfg.StorageLocalPath))
	}

	// Microsoft OAuth sign-in for faculty
	msHandler := authmsfeature.NewHandler(profiles, admins, states, sessionMgr, avatars,
		appCfg.MicrosoftClientID, appCfg.MicrosoftClientSecret, appCfg.MicrosoftTenantID,
		appCfg.BaseURL, logger)
	r.Mount("/auth/microsoft", authmsfeature.Routes(msHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

	profileHandler = profilesfeature.NewHandler(profiles, logger)
	profileHandler.Avatars = avatars
	uploadsHandler := uploadsfeature.NewHandler(deps.Storage, profiles, avatars, logger)
	analyticsHandler := analyticsfeature.NewHandler(profiles, logger)

	r.Route("/api", func(api chi.Router) {
		// Public auth endpoints
		api.Mount("/auth/check-role", checkrolefeature.Routes(checkrolefeature.NewHandler(admins, logger)))
		api.Mount("/auth/login", loginfeature.Routes(loginfeature.NewHandler(admins, sessionMgr, logger)))

		// Everything else requires a session or bearer token.
		api.Group(func(priv chi.Router) {
			priv.Use(sessionMgr.RequireSignedIn)
			priv.Mount("/auth/token", apitokenfeature.Routes(apitokenfeature.NewHandler(tokenSvc, logger)))
			priv.Mount("/profiles", profilesfeature.Routes(profileHandler))
			priv.Mount("/uploads", uploadsfeature.Routes(uploadsHandler))
			priv.Mount("/analytics", analyticsfeature.Routes(analyticsHandler))
		})
	})

	return r, nil
}
