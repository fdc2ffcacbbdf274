package providers

import (
	"github.com/samber/do/v2"

	"github.com/paperlog/paperlog-server/internal/catalog"
	"github.com/paperlog/paperlog-server/internal/config"
	"github.com/paperlog/paperlog-server/internal/logger"
)

// ProvideCatalogClient provides the book catalog HTTP client.
func ProvideCatalogClient(i do.Injector) (*catalog.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	client := catalog.NewClient(
		cfg.Catalog.BaseURL,
		cfg.Catalog.APIKey,
		cfg.Catalog.RequestsPerSecond,
		log.Logger,
	)

	log.Info("Catalog client configured",
		"base_url", cfg.Catalog.BaseURL,
		"rate", cfg.Catalog.RequestsPerSecond,
	)

	return client, nil
}
