package models

// SearchDocument is the normalized document shape returned by every search
// backend, regardless of how the backend stores products internally.
type SearchDocument struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Brand       string  `json:"brand,omitempty"`
	Price       float64 `json:"price"`
}

// SearchHit is a single result in backend relevance order.
type SearchHit struct {
	Document SearchDocument `json:"document"`
}

// FacetValue is one tallied value within a facet.
type FacetValue struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// FacetCount aggregates result counts over one categorical field.
type FacetCount struct {
	Field  string       `json:"field"`
	Values []FacetValue `json:"values"`
}

// SearchResult is the normalized hit/facet/pagination shape shared by all
// search backends.
type SearchResult struct {
	Hits        []SearchHit  `json:"hits"`
	Found       int          `json:"found"`
	FacetCounts []FacetCount `json:"facetCounts"`
	Page        int          `json:"page"`
	PerPage     int          `json:"perPage"`
}
