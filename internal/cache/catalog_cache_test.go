package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoplane/storefront_api/internal/models"
	"github.com/shoplane/storefront_api/internal/utils"
)

// fakeLoader counts LoadCatalog calls and can block or fail on demand.
type fakeLoader struct {
	products []models.Product
	calls    atomic.Int32

	mu       sync.Mutex
	failures int

	started chan struct{} // closed once a load has begun, if set
	release chan struct{} // load blocks until closed, if set
}

func (l *fakeLoader) LoadCatalog(context.Context) ([]models.Product, error) {
	l.calls.Add(1)
	if l.started != nil {
		select {
		case <-l.started:
		default:
			close(l.started)
		}
	}
	if l.release != nil {
		<-l.release
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failures > 0 {
		l.failures--
		return nil, errors.New("connection refused")
	}
	return l.products, nil
}

func testProducts() []models.Product {
	titles := []string{"Alpha Laptop", "Beta Phone", "Gamma Tablet"}
	products := make([]models.Product, len(titles))
	for i, title := range titles {
		products[i] = models.Product{
			ID:    i + 1,
			Title: title,
			Slug:  utils.Slugify(title),
		}
	}
	return products
}

func TestEnsureReadyBuildsSnapshotOnce(t *testing.T) {
	loader := &fakeLoader{products: testProducts()}
	c := NewCatalogCache(loader)
	ctx := context.Background()

	require.NoError(t, c.EnsureReady(ctx))
	require.NoError(t, c.EnsureReady(ctx))

	assert.Equal(t, int32(1), loader.calls.Load())
	require.NotNil(t, c.Snapshot())
	assert.Len(t, c.Snapshot().Products, 3)
}

func TestEnsureReadyCoalescesConcurrentCallers(t *testing.T) {
	loader := &fakeLoader{
		products: testProducts(),
		started:  make(chan struct{}),
		release:  make(chan struct{}),
	}
	c := NewCatalogCache(loader)

	var wg sync.WaitGroup
	errs := make([]error, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		errs[0] = c.EnsureReady(context.Background())
	}()

	// Join only after the first load is in flight.
	<-loader.started
	wg.Add(1)
	go func() {
		defer wg.Done()
		errs[1] = c.EnsureReady(context.Background())
	}()

	close(loader.release)
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, int32(1), loader.calls.Load(), "exactly one fetch-all for concurrent callers")
}

func TestEnsureReadyFailurePropagatesAndRetries(t *testing.T) {
	loader := &fakeLoader{products: testProducts(), failures: 1}
	c := NewCatalogCache(loader)
	ctx := context.Background()

	require.Error(t, c.EnsureReady(ctx))
	assert.Nil(t, c.Snapshot())

	// The in-flight attempt was cleared, so the next call retries.
	require.NoError(t, c.EnsureReady(ctx))
	assert.Equal(t, int32(2), loader.calls.Load())
	assert.NotNil(t, c.Snapshot())
}

func TestResolveSlugForEveryProduct(t *testing.T) {
	c := NewCatalogCache(&fakeLoader{products: testProducts()})
	require.NoError(t, c.EnsureReady(context.Background()))

	for _, p := range c.Snapshot().Products {
		id, ok := c.ResolveSlug(utils.Slugify(p.Title))
		require.True(t, ok)
		assert.Equal(t, p.ID, id)
	}
}

func TestResolveSlugFallsBackToLinearScan(t *testing.T) {
	c := NewCatalogCache(&fakeLoader{products: testProducts()})
	require.NoError(t, c.EnsureReady(context.Background()))

	// Simulate an index construction bug: drop an entry from the index and
	// confirm the scan still resolves the product.
	delete(c.Snapshot().SlugIndex, "beta-phone")

	id, ok := c.ResolveSlug("beta-phone")
	require.True(t, ok)
	assert.Equal(t, 2, id)
}

func TestResolveSlugMiss(t *testing.T) {
	c := NewCatalogCache(&fakeLoader{products: testProducts()})
	require.NoError(t, c.EnsureReady(context.Background()))

	_, ok := c.ResolveSlug("no-such-slug")
	assert.False(t, ok)
}

func TestSlugCollisionKeepsFirstProduct(t *testing.T) {
	products := []models.Product{
		{ID: 1, Title: "Same Name", Slug: "same-name"},
		{ID: 2, Title: "Same Name", Slug: "same-name"},
	}
	c := NewCatalogCache(&fakeLoader{products: products})
	require.NoError(t, c.EnsureReady(context.Background()))

	id, ok := c.ResolveSlug("same-name")
	require.True(t, ok)
	assert.Equal(t, 1, id)
}
