package cache

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/shoplane/storefront_api/internal/models"
	"github.com/shoplane/storefront_api/internal/utils"
)

// SnapshotLoader produces the full normalized catalog for a snapshot build.
// The catalog service implements it by fetching everything from the upstream
// API and normalizing each record.
type SnapshotLoader interface {
	LoadCatalog(ctx context.Context) ([]models.Product, error)
}

// CatalogSnapshot is an immutable view of the full catalog plus a slug→id
// index. A new snapshot fully replaces the old one; it is never edited in
// place, so readers never observe a partially-built snapshot.
type CatalogSnapshot struct {
	Products  []models.Product
	SlugIndex map[string]int
}

// CatalogCache holds the process-lifetime catalog snapshot. The first caller
// of EnsureReady triggers the upstream fetch; concurrent callers coalesce
// onto the same in-flight load. There is no background refresh — staleness
// is an accepted trade-off of the upstream's missing query capability.
type CatalogCache struct {
	loader SnapshotLoader
	group  singleflight.Group

	mu   sync.RWMutex
	snap *CatalogSnapshot
}

// NewCatalogCache constructs a CatalogCache around the given loader.
func NewCatalogCache(loader SnapshotLoader) *CatalogCache {
	return &CatalogCache{loader: loader}
}

// EnsureReady builds the snapshot if it does not exist yet. At most one
// upstream fetch-all is in flight at a time; every concurrent caller of that
// attempt observes its outcome. A failed attempt leaves the cache empty so a
// later call retries.
func (c *CatalogCache) EnsureReady(ctx context.Context) error {
	if c.ready() {
		return nil
	}

	_, err, _ := c.group.Do("catalog", func() (interface{}, error) {
		// A previous flight may have completed between the ready check and
		// joining this one.
		if c.ready() {
			return nil, nil
		}

		products, err := c.loader.LoadCatalog(ctx)
		if err != nil {
			return nil, err
		}

		snap := buildSnapshot(products)

		c.mu.Lock()
		c.snap = snap
		c.mu.Unlock()

		log.Info().Int("products", len(snap.Products)).Msg("catalog snapshot built")
		return nil, nil
	})
	return err
}

// Snapshot returns the current snapshot. It is only valid after EnsureReady
// has returned nil; before that it returns nil.
func (c *CatalogCache) Snapshot() *CatalogSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}

// ResolveSlug maps a derived slug to a product id. The index is checked
// first; on a miss the products are scanned linearly as a double-check
// against index construction bugs before giving up.
func (c *CatalogCache) ResolveSlug(slug string) (int, bool) {
	snap := c.Snapshot()
	if snap == nil {
		return 0, false
	}

	if id, ok := snap.SlugIndex[slug]; ok {
		return id, true
	}

	for i := range snap.Products {
		if utils.Slugify(snap.Products[i].Title) == slug {
			return snap.Products[i].ID, true
		}
	}
	return 0, false
}

func (c *CatalogCache) ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap != nil
}

// buildSnapshot constructs the slug index. Two titles can normalize to the
// same slug; the first product keeps the slug and the collision is logged,
// leaving the later product reachable by numeric id only.
func buildSnapshot(products []models.Product) *CatalogSnapshot {
	index := make(map[string]int, len(products))
	for i := range products {
		p := &products[i]
		if existing, ok := index[p.Slug]; ok {
			log.Warn().
				Str("slug", p.Slug).
				Int("kept_id", existing).
				Int("shadowed_id", p.ID).
				Msg("slug collision in catalog snapshot")
			continue
		}
		index[p.Slug] = p.ID
	}
	return &CatalogSnapshot{Products: products, SlugIndex: index}
}
