// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"

	adminstore "github.com/dalemusser/facultyhub/internal/app/store/admins"
	"github.com/dalemusser/facultyhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if n := timeouts.ConfigureFromEnv(); n > 0 {
		logger.Info("timeout overrides applied from environment", zap.Int("count", n))
	}
	if appCfg.SuperAdminEmail != "" {
		if err := ensureSuperAdmin(ctx, deps, appCfg, logger); err != nil {
			return err
		}
	}
	return nil
}

// ensureSuperAdmin creates the bootstrap admin account if it does not
// exist. An existing account is left untouched, so a changed
// superadmin_password in config never rotates a live credential.
func ensureSuperAdmin(ctx context.Context, deps DBDeps, appCfg AppConfig, logger *zap.Logger) error {
	admins := adminstore.New(deps.MongoDatabase, logger)
	if err := admins.EnsureSuperAdmin(ctx, appCfg.SuperAdminEmail, appCfg.SuperAdminName, appCfg.SuperAdminPassword); err != nil {
		return fmt.Errorf("ensure superadmin: %w", err)
	}
	logger.Info("superadmin account ensured", zap.String("email", appCfg.SuperAdminEmail))
	return nil
}
