package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/shoplane/storefront_api/internal/cache"
	"github.com/shoplane/storefront_api/internal/models"
	"github.com/shoplane/storefront_api/internal/utils"
	"github.com/shoplane/storefront_api/pkg/dummyjson"
)

// Sort orders supported by product listings. Anything other than relevance
// has to be emulated locally because the upstream cannot sort.
const (
	SortRelevance = "relevance"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortNewest    = "newest"
)

// UpstreamCatalog is the subset of the upstream client the catalog service
// depends on.
type UpstreamCatalog interface {
	ListProducts(ctx context.Context, limit, skip int) (*dummyjson.ProductPage, error)
	ListProductsByCategory(ctx context.Context, category string, limit, skip int) (*dummyjson.ProductPage, error)
	GetProduct(ctx context.Context, id int) (*dummyjson.Product, error)
	ListCategories(ctx context.Context) ([]string, error)
}

// ListOptions are the filter, sort and pagination parameters accepted by
// ListProducts.
type ListOptions struct {
	Category string
	Brands   []string
	MinPrice *float64
	MaxPrice *float64
	Sort     string
	Limit    int
	Skip     int
}

// ProductList is a page of products plus pagination totals. Total always
// counts the full filtered set, not just the returned page.
type ProductList struct {
	Items []models.Product `json:"items"`
	Total int              `json:"total"`
	Skip  int              `json:"skip"`
	Limit int              `json:"limit"`
}

// CatalogService presents a rich query surface (brand/price filtering,
// sorting, slug lookup) over an upstream API that supports none of it. Each
// listing request is planned: either the upstream can serve it directly, or
// the full catalog is pulled through the cache and the query is emulated.
// The service holds no per-request state; concurrent calls are independent.
type CatalogService struct {
	upstream   UpstreamCatalog
	normalizer *CatalogNormalizer
	prices     *PriceResolver
	cache      *cache.CatalogCache
}

// NewCatalogService constructs a CatalogService with its own catalog cache.
func NewCatalogService(upstream UpstreamCatalog, normalizer *CatalogNormalizer, prices *PriceResolver) *CatalogService {
	s := &CatalogService{
		upstream:   upstream,
		normalizer: normalizer,
		prices:     prices,
	}
	s.cache = cache.NewCatalogCache(s)
	return s
}

// Cache exposes the catalog cache for collaborators that snapshot the full
// catalog out of band (e.g. the search index worker).
func (s *CatalogService) Cache() *cache.CatalogCache {
	return s.cache
}

// LoadCatalog fetches the entire catalog from the upstream and normalizes it.
// It implements cache.SnapshotLoader and search backend lazy loading.
func (s *CatalogService) LoadCatalog(ctx context.Context) ([]models.Product, error) {
	page, err := s.upstream.ListProducts(ctx, 0, 0)
	if err != nil {
		return nil, mapUpstreamErr(err)
	}
	return s.normalizer.NormalizeProducts(page.Products)
}

// ListProducts returns a page of products for the given options with the
// caller's effective prices applied.
//
// Planning rule: brand filters, price bounds and non-relevance sorts cannot
// be pushed to the upstream, so any of them forces full-catalog emulation.
// Plain category/pagination requests are delegated and the upstream's
// pagination totals are trusted verbatim.
func (s *CatalogService) ListProducts(ctx context.Context, opts ListOptions, tier models.PriceTier) (*ProductList, error) {
	needsEmulation := len(opts.Brands) > 0 ||
		opts.MinPrice != nil ||
		opts.MaxPrice != nil ||
		(opts.Sort != "" && opts.Sort != SortRelevance)

	var (
		list *ProductList
		err  error
	)
	if needsEmulation {
		list, err = s.listEmulated(ctx, opts)
	} else {
		list, err = s.listDelegated(ctx, opts)
	}
	if err != nil {
		return nil, err
	}

	list.Items = s.prices.ApplyEffectivePrices(list.Items, tier)
	return list, nil
}

// listDelegated forwards the caller's pagination to the upstream unchanged.
func (s *CatalogService) listDelegated(ctx context.Context, opts ListOptions) (*ProductList, error) {
	var (
		page *dummyjson.ProductPage
		err  error
	)
	if opts.Category != "" {
		page, err = s.upstream.ListProductsByCategory(ctx, opts.Category, opts.Limit, opts.Skip)
	} else {
		page, err = s.upstream.ListProducts(ctx, opts.Limit, opts.Skip)
	}
	if err != nil {
		return nil, mapUpstreamErr(err)
	}

	items, err := s.normalizer.NormalizeProducts(page.Products)
	if err != nil {
		return nil, err
	}

	return &ProductList{
		Items: items,
		Total: page.Total,
		Skip:  page.Skip,
		Limit: page.Limit,
	}, nil
}

// listEmulated runs the filter/sort/paginate pipeline over the full catalog
// snapshot.
func (s *CatalogService) listEmulated(ctx context.Context, opts ListOptions) (*ProductList, error) {
	if err := s.cache.EnsureReady(ctx); err != nil {
		return nil, err
	}
	snap := s.cache.Snapshot()

	filtered := make([]models.Product, 0, len(snap.Products))
	for _, p := range snap.Products {
		if opts.Category != "" && p.Category.Slug != opts.Category {
			continue
		}
		if len(opts.Brands) > 0 && !brandMatches(p.Brand, opts.Brands) {
			continue
		}
		if opts.MinPrice != nil && p.Price < *opts.MinPrice {
			continue
		}
		if opts.MaxPrice != nil && p.Price > *opts.MaxPrice {
			continue
		}
		filtered = append(filtered, p)
	}

	switch opts.Sort {
	case SortPriceAsc:
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Price < filtered[j].Price })
	case SortPriceDesc:
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Price > filtered[j].Price })
	case SortNewest:
		// Numeric id stands in for recency: the upstream guarantees no
		// creation timestamp.
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].ID > filtered[j].ID })
	}

	total := len(filtered)

	skip := opts.Skip
	if skip < 0 {
		skip = 0
	}
	if skip > total {
		skip = total
	}

	limit := opts.Limit
	var items []models.Product
	if limit <= 0 {
		items = filtered[skip:]
		limit = len(items)
	} else {
		end := skip + limit
		if end > total {
			end = total
		}
		items = filtered[skip:end]
	}

	return &ProductList{
		Items: items,
		Total: total,
		Skip:  skip,
		Limit: limit,
	}, nil
}

// GetProductByIDOrSlug resolves a product by numeric id or derived slug and
// applies the caller's effective price.
func (s *CatalogService) GetProductByIDOrSlug(ctx context.Context, idOrSlug string, tier models.PriceTier) (*models.Product, error) {
	if id, err := strconv.Atoi(idOrSlug); err == nil {
		return s.getByID(ctx, id, tier)
	}
	return s.getBySlug(ctx, idOrSlug, tier)
}

func (s *CatalogService) getByID(ctx context.Context, id int, tier models.PriceTier) (*models.Product, error) {
	raw, err := s.upstream.GetProduct(ctx, id)
	if err != nil {
		return nil, mapUpstreamErr(err)
	}
	product, err := s.normalizer.NormalizeProduct(*raw)
	if err != nil {
		return nil, err
	}
	product = s.prices.ApplyEffectivePrice(product, tier)
	return &product, nil
}

func (s *CatalogService) getBySlug(ctx context.Context, slug string, tier models.PriceTier) (*models.Product, error) {
	if err := s.cache.EnsureReady(ctx); err != nil {
		return nil, err
	}

	id, ok := s.cache.ResolveSlug(slug)
	if !ok {
		return nil, fmt.Errorf("%w: slug %q", utils.ErrNotFound, slug)
	}

	snap := s.cache.Snapshot()
	for i := range snap.Products {
		if snap.Products[i].ID == id {
			product := s.prices.ApplyEffectivePrice(snap.Products[i], tier)
			return &product, nil
		}
	}
	return nil, fmt.Errorf("%w: slug %q", utils.ErrNotFound, slug)
}

// GetCategories returns the normalized category list. Ids are positional,
// stable for one upstream response.
func (s *CatalogService) GetCategories(ctx context.Context) ([]models.Category, error) {
	labels, err := s.upstream.ListCategories(ctx)
	if err != nil {
		return nil, mapUpstreamErr(err)
	}

	categories := make([]models.Category, 0, len(labels))
	for i, label := range labels {
		c := s.normalizer.NormalizeCategory(label)
		c.ID = i + 1
		categories = append(categories, c)
	}
	return categories, nil
}

func brandMatches(brand string, brands []string) bool {
	for _, b := range brands {
		if brand == b {
			return true
		}
	}
	return false
}

// mapUpstreamErr folds transport errors into the service error taxonomy.
func mapUpstreamErr(err error) error {
	if errors.Is(err, dummyjson.ErrNotFound) {
		return fmt.Errorf("%w: %v", utils.ErrNotFound, err)
	}
	return fmt.Errorf("%w: %v", utils.ErrUpstreamUnavailable, err)
}
