package search

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/shoplane/storefront_api/internal/models"
)

// CatalogLoader supplies the full normalized catalog when the in-memory
// backend has not been fed an index yet.
type CatalogLoader interface {
	LoadCatalog(ctx context.Context) ([]models.Product, error)
}

// MemoryBackend is the default/fallback search variant: a case-insensitive
// substring match over product titles and descriptions with locally computed
// facets. It has no external dependency, so it can always be substituted for
// a backend that fails to initialize.
type MemoryBackend struct {
	loader CatalogLoader

	mu   sync.RWMutex
	docs []models.SearchDocument
}

// NewMemoryBackend constructs the in-memory backend.
func NewMemoryBackend(loader CatalogLoader) *MemoryBackend {
	return &MemoryBackend{loader: loader}
}

// Name identifies the backend variant.
func (b *MemoryBackend) Name() string {
	return "memory"
}

// IndexProducts replaces the held document set with the given products.
func (b *MemoryBackend) IndexProducts(_ context.Context, products []models.Product) error {
	docs := make([]models.SearchDocument, len(products))
	for i, p := range products {
		docs[i] = toDocument(p)
	}

	b.mu.Lock()
	b.docs = docs
	b.mu.Unlock()
	return nil
}

// Search matches the term against name and description, applies any filters
// as an additional AND predicate, tallies brand/category facets over the
// filtered set, and paginates last.
func (b *MemoryBackend) Search(ctx context.Context, term string, opts Options) (*models.SearchResult, error) {
	docs, err := b.documents(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(term)
	matched := make([]models.SearchDocument, 0)
	for _, d := range docs {
		if !strings.Contains(strings.ToLower(d.Name), needle) &&
			!strings.Contains(strings.ToLower(d.Description), needle) {
			continue
		}
		if !matchesFilters(d, opts.Filters) {
			continue
		}
		matched = append(matched, d)
	}

	facets := tallyFacets(matched)

	start := (opts.Page - 1) * opts.PerPage
	if start > len(matched) {
		start = len(matched)
	}
	end := start + opts.PerPage
	if end > len(matched) {
		end = len(matched)
	}

	hits := make([]models.SearchHit, 0, end-start)
	for _, d := range matched[start:end] {
		hits = append(hits, models.SearchHit{Document: d})
	}

	return &models.SearchResult{
		Hits:        hits,
		Found:       len(matched),
		FacetCounts: facets,
		Page:        opts.Page,
		PerPage:     opts.PerPage,
	}, nil
}

// documents returns the indexed set, or loads the catalog once lazily when
// nothing has been indexed yet.
func (b *MemoryBackend) documents(ctx context.Context) ([]models.SearchDocument, error) {
	b.mu.RLock()
	docs := b.docs
	b.mu.RUnlock()
	if docs != nil {
		return docs, nil
	}

	products, err := b.loader.LoadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	if err := b.IndexProducts(ctx, products); err != nil {
		return nil, err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.docs, nil
}

func toDocument(p models.Product) models.SearchDocument {
	return models.SearchDocument{
		ID:          p.ID,
		Name:        p.Title,
		Slug:        p.Slug,
		Description: p.Description,
		Category:    p.Category.Slug,
		Brand:       p.Brand,
		Price:       p.Price,
	}
}

// matchesFilters applies literal equality on the normalized document fields.
func matchesFilters(d models.SearchDocument, filters []Filter) bool {
	for _, f := range filters {
		if documentField(d, f.Field) != f.Value {
			return false
		}
	}
	return true
}

func documentField(d models.SearchDocument, field string) string {
	switch field {
	case "id":
		return strconv.Itoa(d.ID)
	case "name":
		return d.Name
	case "slug":
		return d.Slug
	case "brand":
		return d.Brand
	case "category":
		return d.Category
	case "price":
		return strconv.FormatFloat(d.Price, 'f', -1, 64)
	default:
		return ""
	}
}

// tallyFacets counts brand and category values across the
// filtered-before-pagination result set.
func tallyFacets(docs []models.SearchDocument) []models.FacetCount {
	fields := []struct {
		name  string
		value func(models.SearchDocument) string
	}{
		{"brand", func(d models.SearchDocument) string { return d.Brand }},
		{"category", func(d models.SearchDocument) string { return d.Category }},
	}

	facets := make([]models.FacetCount, 0, len(fields))
	for _, f := range fields {
		counts := make(map[string]int)
		for _, d := range docs {
			if v := f.value(d); v != "" {
				counts[v]++
			}
		}

		values := make([]models.FacetValue, 0, len(counts))
		for v, n := range counts {
			values = append(values, models.FacetValue{Value: v, Count: n})
		}
		sort.Slice(values, func(i, j int) bool {
			if values[i].Count != values[j].Count {
				return values[i].Count > values[j].Count
			}
			return values[i].Value < values[j].Value
		})

		facets = append(facets, models.FacetCount{Field: f.name, Values: values})
	}
	return facets
}
