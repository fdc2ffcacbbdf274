// Package di provides dependency injection configuration for the
// Paperlog server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/paperlog/paperlog-server/internal/auth"
	"github.com/paperlog/paperlog-server/internal/config"
	"github.com/paperlog/paperlog-server/internal/di/providers"
	"github.com/paperlog/paperlog-server/internal/logger"
	"github.com/paperlog/paperlog-server/internal/service"
	"github.com/paperlog/paperlog-server/internal/validation"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)
	do.Provide(injector, providers.ProvideValidator)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Catalog layer
	do.Provide(injector, providers.ProvideCatalogClient)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)

	// Business services
	do.Provide(injector, providers.ProvideSessionService)
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideCatalogService)
	do.Provide(injector, providers.ProvideReadingService)
	do.Provide(injector, providers.ProvideStatsService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services. This triggers lazy
// initialization so startup failures surface immediately.
func Bootstrap(injector *do.RootScope) error {
	// Invoke core services to trigger initialization
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[providers.AuthKey](injector)
	_ = do.MustInvoke[*validation.Validator](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)

	// Business services
	_ = do.MustInvoke[*service.SessionService](injector)
	_ = do.MustInvoke[*service.AuthService](injector)
	_ = do.MustInvoke[*service.CatalogService](injector)
	_ = do.MustInvoke[*service.ReadingService](injector)
	_ = do.MustInvoke[*service.StatsService](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
