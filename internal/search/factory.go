package search

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/shoplane/storefront_api/internal/config"
)

// New selects the configured search backend. The choice is made once at
// process startup; a full-featured backend that cannot be initialized is
// replaced by the in-memory fallback with a warning, never a startup crash.
func New(ctx context.Context, cfg *config.Config, loader CatalogLoader) *Gateway {
	switch cfg.Search.Backend {
	case config.SearchBackendRediSearch:
		backend, err := NewRediSearchBackend(ctx, &cfg.Redis)
		if err != nil {
			log.Warn().Err(err).
				Msg("redisearch backend initialization failed - falling back to in-memory search")
			return NewGateway(NewMemoryBackend(loader))
		}
		log.Info().Msg("redisearch backend selected")
		return NewGateway(backend)
	default:
		log.Info().Msg("in-memory search backend selected")
		return NewGateway(NewMemoryBackend(loader))
	}
}
