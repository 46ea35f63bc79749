package search

import (
	"context"
	"strings"

	"github.com/shoplane/storefront_api/internal/models"
)

const (
	// MinTermLength is the shortest term any backend will be asked to search.
	MinTermLength = 3

	defaultPerPage = 10
)

// Options carries optional filter and pagination parameters for a search.
type Options struct {
	Filters []Filter
	Page    int
	PerPage int
}

// Filter is a field:=value equality predicate applied on top of the term
// match.
type Filter struct {
	Field string
	Value string
}

// ParseFilters parses "field:=value" predicate strings, ignoring entries
// that do not match the expected form.
func ParseFilters(raw []string) []Filter {
	filters := make([]Filter, 0, len(raw))
	for _, r := range raw {
		field, value, ok := strings.Cut(r, ":=")
		if !ok {
			continue
		}
		field = strings.TrimSpace(field)
		value = strings.TrimSpace(value)
		if field == "" || value == "" {
			continue
		}
		filters = append(filters, Filter{Field: field, Value: value})
	}
	return filters
}

// Backend is one interchangeable full-text search implementation. All
// variants return the same normalized hit/facet/pagination shape.
type Backend interface {
	Name() string
	Search(ctx context.Context, term string, opts Options) (*models.SearchResult, error)
	IndexProducts(ctx context.Context, products []models.Product) error
}

// Gateway fronts the backend selected at startup and enforces the input
// rules shared by every variant.
type Gateway struct {
	backend Backend
}

// NewGateway wraps a backend.
func NewGateway(backend Backend) *Gateway {
	return &Gateway{backend: backend}
}

// BackendName reports which backend variant is active.
func (g *Gateway) BackendName() string {
	return g.backend.Name()
}

// Search runs a term search. Terms shorter than MinTermLength are invalid
// input and short-circuit to an empty result without contacting the backend.
func (g *Gateway) Search(ctx context.Context, term string, opts Options) (*models.SearchResult, error) {
	opts = normalizeOptions(opts)

	if len(strings.TrimSpace(term)) < MinTermLength {
		return &models.SearchResult{
			Hits:        []models.SearchHit{},
			Found:       0,
			FacetCounts: []models.FacetCount{},
			Page:        opts.Page,
			PerPage:     opts.PerPage,
		}, nil
	}

	return g.backend.Search(ctx, term, opts)
}

// IndexProducts feeds products to the backend's index. Best-effort and
// backend-specific; the read path never depends on it having run.
func (g *Gateway) IndexProducts(ctx context.Context, products []models.Product) error {
	return g.backend.IndexProducts(ctx, products)
}

func normalizeOptions(opts Options) Options {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.PerPage < 1 {
		opts.PerPage = defaultPerPage
	}
	return opts
}
