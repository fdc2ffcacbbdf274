package providers

import (
	"github.com/samber/do/v2"

	"github.com/paperlog/paperlog-server/internal/auth"
	"github.com/paperlog/paperlog-server/internal/catalog"
	"github.com/paperlog/paperlog-server/internal/config"
	"github.com/paperlog/paperlog-server/internal/logger"
	"github.com/paperlog/paperlog-server/internal/service"
	"github.com/paperlog/paperlog-server/internal/validation"
)

// ProvideSessionService provides the session management service.
func ProvideSessionService(i do.Injector) (*service.SessionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSessionService(storeHandle.Store, tokenService, log.Logger), nil
}

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	sessionService := do.MustInvoke[*service.SessionService](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, tokenService, sessionService, validator, log.Logger), nil
}

// ProvideCatalogService provides the book metadata lookup service.
func ProvideCatalogService(i do.Injector) (*service.CatalogService, error) {
	client := do.MustInvoke[*catalog.Client](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCatalogService(client, log.Logger), nil
}

// ProvideReadingService provides the reading log service.
func ProvideReadingService(i do.Injector) (*service.ReadingService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewReadingService(storeHandle.Store, validator, log.Logger), nil
}

// ProvideStatsService provides the statistics service.
func ProvideStatsService(i do.Injector) (*service.StatsService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewStatsService(storeHandle.Store, cfg.Goal.YearlyBooks, log.Logger), nil
}
