package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoplane/storefront_api/internal/models"
	"github.com/shoplane/storefront_api/internal/utils"
	"github.com/shoplane/storefront_api/pkg/dummyjson"
)

// fakeUpstream implements UpstreamCatalog over a fixed product set and
// records how it was called.
type fakeUpstream struct {
	products   []dummyjson.Product
	categories []string

	listCalls     int
	lastLimit     int
	lastSkip      int
	lastCategory  string
	failNextList  bool
	delegateTotal int
}

func (f *fakeUpstream) ListProducts(_ context.Context, limit, skip int) (*dummyjson.ProductPage, error) {
	f.listCalls++
	f.lastLimit, f.lastSkip, f.lastCategory = limit, skip, ""
	if f.failNextList {
		f.failNextList = false
		return nil, errors.New("connection refused")
	}
	return f.page(limit, skip), nil
}

func (f *fakeUpstream) ListProductsByCategory(_ context.Context, category string, limit, skip int) (*dummyjson.ProductPage, error) {
	f.listCalls++
	f.lastLimit, f.lastSkip, f.lastCategory = limit, skip, category
	if f.failNextList {
		f.failNextList = false
		return nil, errors.New("connection refused")
	}
	matched := make([]dummyjson.Product, 0)
	for _, p := range f.products {
		if p.Category == category {
			matched = append(matched, p)
		}
	}
	return &dummyjson.ProductPage{Products: matched, Total: len(matched), Skip: skip, Limit: limit}, nil
}

func (f *fakeUpstream) GetProduct(_ context.Context, id int) (*dummyjson.Product, error) {
	for _, p := range f.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, dummyjson.ErrNotFound
}

func (f *fakeUpstream) ListCategories(_ context.Context) ([]string, error) {
	return f.categories, nil
}

func (f *fakeUpstream) page(limit, skip int) *dummyjson.ProductPage {
	total := len(f.products)
	if f.delegateTotal > 0 {
		total = f.delegateTotal
	}
	items := f.products
	if skip < len(items) {
		items = items[skip:]
	} else {
		items = nil
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return &dummyjson.ProductPage{Products: items, Total: total, Skip: skip, Limit: limit}
}

func fixtureProducts() []dummyjson.Product {
	return []dummyjson.Product{
		{ID: 1, Title: "Alpha Laptop", Price: 1200, Brand: "TechCorp", Category: "laptops"},
		{ID: 2, Title: "Beta Phone", Price: 800, Brand: "Nexus", Category: "smartphones"},
		{ID: 3, Title: "Gamma Tablet", Price: 300, Brand: "Nexus", Category: "tablets"},
		{ID: 4, Title: "Delta Watch", Price: 150, Category: "wearables"},
		{ID: 5, Title: "Epsilon Rig", Price: 1500, Brand: "TechCorp", Category: "laptops"},
		{ID: 6, Title: "Zeta Cam", Price: 450, Brand: "Orbit", Category: "cameras"},
		{ID: 7, Title: "Eta Drone", Price: 999.99, Brand: "Orbit", Category: "cameras"},
		{ID: 8, Title: "Theta Hub", Price: 950, Brand: "TechCorp", Category: "accessories"},
	}
}

func newTestService(upstream *fakeUpstream) *CatalogService {
	return NewCatalogService(upstream, NewCatalogNormalizer(), NewPriceResolver())
}

func TestListProductsDelegatesWhenUpstreamCanServe(t *testing.T) {
	upstream := &fakeUpstream{products: fixtureProducts(), delegateTotal: 194}
	svc := newTestService(upstream)

	list, err := svc.ListProducts(context.Background(), ListOptions{Limit: 3, Skip: 2}, models.PriceTierRetail)
	require.NoError(t, err)

	// Caller pagination forwarded unchanged, upstream totals trusted verbatim.
	assert.Equal(t, 3, upstream.lastLimit)
	assert.Equal(t, 2, upstream.lastSkip)
	assert.Equal(t, 194, list.Total)
	assert.Equal(t, 2, list.Skip)
	assert.Equal(t, 3, list.Limit)
	assert.Len(t, list.Items, 3)
}

func TestListProductsDelegatesCategoryRequests(t *testing.T) {
	upstream := &fakeUpstream{products: fixtureProducts()}
	svc := newTestService(upstream)

	list, err := svc.ListProducts(context.Background(), ListOptions{Category: "cameras"}, models.PriceTierRetail)
	require.NoError(t, err)

	assert.Equal(t, "cameras", upstream.lastCategory)
	assert.Len(t, list.Items, 2)
	assert.Equal(t, 2, list.Total)
}

func TestListProductsEmulatesBrandFilter(t *testing.T) {
	upstream := &fakeUpstream{products: fixtureProducts()}
	svc := newTestService(upstream)

	list, err := svc.ListProducts(context.Background(), ListOptions{Brands: []string{"TechCorp"}}, models.PriceTierRetail)
	require.NoError(t, err)

	// Emulation fetches the whole catalog, never a page.
	assert.Equal(t, 0, upstream.lastLimit)
	assert.Equal(t, 0, upstream.lastSkip)

	require.Len(t, list.Items, 3)
	assert.Equal(t, 3, list.Total)
	for _, p := range list.Items {
		assert.Equal(t, "TechCorp", p.Brand)
	}
}

func TestListProductsEmulatesBrandAndPriceFilter(t *testing.T) {
	upstream := &fakeUpstream{products: fixtureProducts()}
	svc := newTestService(upstream)

	minPrice := 1000.0
	list, err := svc.ListProducts(context.Background(), ListOptions{
		Brands:   []string{"TechCorp"},
		MinPrice: &minPrice,
	}, models.PriceTierRetail)
	require.NoError(t, err)

	require.Len(t, list.Items, 2)
	assert.Equal(t, 2, list.Total)
	assert.Equal(t, "Alpha Laptop", list.Items[0].Title)
	assert.Equal(t, "Epsilon Rig", list.Items[1].Title)
}

func TestListProductsEmulatedSorting(t *testing.T) {
	t.Run("price_asc is non-decreasing", func(t *testing.T) {
		svc := newTestService(&fakeUpstream{products: fixtureProducts()})
		list, err := svc.ListProducts(context.Background(), ListOptions{Sort: SortPriceAsc}, models.PriceTierRetail)
		require.NoError(t, err)
		require.Len(t, list.Items, 8)
		for i := 1; i < len(list.Items); i++ {
			assert.LessOrEqual(t, list.Items[i-1].Price, list.Items[i].Price)
		}
	})

	t.Run("price_desc is non-increasing", func(t *testing.T) {
		svc := newTestService(&fakeUpstream{products: fixtureProducts()})
		list, err := svc.ListProducts(context.Background(), ListOptions{Sort: SortPriceDesc}, models.PriceTierRetail)
		require.NoError(t, err)
		for i := 1; i < len(list.Items); i++ {
			assert.GreaterOrEqual(t, list.Items[i-1].Price, list.Items[i].Price)
		}
	})

	t.Run("newest is non-increasing by id", func(t *testing.T) {
		svc := newTestService(&fakeUpstream{products: fixtureProducts()})
		list, err := svc.ListProducts(context.Background(), ListOptions{Sort: SortNewest}, models.PriceTierRetail)
		require.NoError(t, err)
		for i := 1; i < len(list.Items); i++ {
			assert.Greater(t, list.Items[i-1].ID, list.Items[i].ID)
		}
	})
}

func TestListProductsEmulatedPagination(t *testing.T) {
	svc := newTestService(&fakeUpstream{products: fixtureProducts()})

	list, err := svc.ListProducts(context.Background(), ListOptions{
		Sort:  SortPriceAsc,
		Limit: 3,
		Skip:  2,
	}, models.PriceTierRetail)
	require.NoError(t, err)

	// Total counts the filtered set before pagination.
	assert.Equal(t, 8, list.Total)
	assert.Len(t, list.Items, 3)
	assert.Equal(t, 2, list.Skip)
	assert.Equal(t, 3, list.Limit)
}

func TestListProductsEmulatedNoLimitReturnsEverything(t *testing.T) {
	svc := newTestService(&fakeUpstream{products: fixtureProducts()})

	list, err := svc.ListProducts(context.Background(), ListOptions{Sort: SortNewest}, models.PriceTierRetail)
	require.NoError(t, err)

	assert.Len(t, list.Items, 8)
	assert.Equal(t, 8, list.Limit)
}

func TestListProductsEmptyResultIsNotAnError(t *testing.T) {
	svc := newTestService(&fakeUpstream{products: fixtureProducts()})

	list, err := svc.ListProducts(context.Background(), ListOptions{Brands: []string{"NoSuchBrand"}}, models.PriceTierRetail)
	require.NoError(t, err)

	assert.Empty(t, list.Items)
	assert.Equal(t, 0, list.Total)
}

func TestListProductsAppliesEffectivePrices(t *testing.T) {
	svc := newTestService(&fakeUpstream{products: fixtureProducts()})

	list, err := svc.ListProducts(context.Background(), ListOptions{Brands: []string{"TechCorp"}}, models.PriceTierB2B)
	require.NoError(t, err)

	for _, p := range list.Items {
		require.NotNil(t, p.EffectivePrice)
		assert.InDelta(t, p.Price*0.9, p.EffectivePrice.Amount, 0.01)
		assert.Equal(t, "USD", p.EffectivePrice.CurrencyCode)
	}
}

func TestListProductsUpstreamFailureDoesNotPoisonCache(t *testing.T) {
	upstream := &fakeUpstream{products: fixtureProducts(), failNextList: true}
	svc := newTestService(upstream)

	_, err := svc.ListProducts(context.Background(), ListOptions{Brands: []string{"TechCorp"}}, models.PriceTierRetail)
	require.Error(t, err)
	assert.ErrorIs(t, err, utils.ErrUpstreamUnavailable)

	// The failed snapshot attempt is cleared; a retry succeeds.
	list, err := svc.ListProducts(context.Background(), ListOptions{Brands: []string{"TechCorp"}}, models.PriceTierRetail)
	require.NoError(t, err)
	assert.Equal(t, 3, list.Total)
}

func TestGetProductByIDOrSlug(t *testing.T) {
	svc := newTestService(&fakeUpstream{products: fixtureProducts()})
	ctx := context.Background()

	t.Run("by id", func(t *testing.T) {
		p, err := svc.GetProductByIDOrSlug(ctx, "5", models.PriceTierRetail)
		require.NoError(t, err)
		assert.Equal(t, "Epsilon Rig", p.Title)
		require.NotNil(t, p.EffectivePrice)
		assert.Equal(t, 1500.0, p.EffectivePrice.Amount)
	})

	t.Run("by slug", func(t *testing.T) {
		p, err := svc.GetProductByIDOrSlug(ctx, "alpha-laptop", models.PriceTierRetail)
		require.NoError(t, err)
		assert.Equal(t, 1, p.ID)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := svc.GetProductByIDOrSlug(ctx, "999", models.PriceTierRetail)
		assert.ErrorIs(t, err, utils.ErrNotFound)
	})

	t.Run("unknown slug", func(t *testing.T) {
		_, err := svc.GetProductByIDOrSlug(ctx, "no-such-slug", models.PriceTierRetail)
		assert.ErrorIs(t, err, utils.ErrNotFound)
	})
}

func TestGetCategories(t *testing.T) {
	svc := newTestService(&fakeUpstream{
		products:   fixtureProducts(),
		categories: []string{"laptops", "mens-shirts"},
	})

	categories, err := svc.GetCategories(context.Background())
	require.NoError(t, err)

	require.Len(t, categories, 2)
	assert.Equal(t, models.Category{ID: 1, Name: "Laptops", Slug: "laptops"}, categories[0])
	assert.Equal(t, models.Category{ID: 2, Name: "Mens Shirts", Slug: "mens-shirts"}, categories[1])
}
