package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/shoplane/storefront_api/internal/search"
	"github.com/shoplane/storefront_api/internal/service"
)

// IndexWorker periodically feeds the full catalog to the active search
// backend. Indexing is best-effort: the search read path never depends on a
// run having completed.
type IndexWorker struct {
	catalogService *service.CatalogService
	gateway        *search.Gateway
	interval       time.Duration
}

// NewIndexWorker constructs an IndexWorker.
func NewIndexWorker(catalogService *service.CatalogService, gateway *search.Gateway, interval time.Duration) *IndexWorker {
	return &IndexWorker{
		catalogService: catalogService,
		gateway:        gateway,
		interval:       interval,
	}
}

// Start begins the periodic index loop and listens for context cancellation.
func (w *IndexWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Str("backend", w.gateway.BackendName()).Msg("Starting search index worker")

	// Run immediately on start
	w.run(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Search index worker stopped")
			return
		}
	}
}

func (w *IndexWorker) run(ctx context.Context) {
	start := time.Now()

	products, err := w.catalogService.LoadCatalog(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load catalog for indexing")
		return
	}

	if err := w.gateway.IndexProducts(ctx, products); err != nil {
		log.Error().Err(err).Msg("Failed to index products")
		return
	}

	log.Info().
		Int("products", len(products)).
		Dur("duration", time.Since(start)).
		Msg("Search index sync completed")
}
