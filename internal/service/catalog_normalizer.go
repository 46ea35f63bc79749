package service

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/shoplane/storefront_api/internal/models"
	"github.com/shoplane/storefront_api/internal/utils"
	"github.com/shoplane/storefront_api/pkg/dummyjson"
)

// CatalogNormalizer converts raw upstream records into the canonical
// Product/Category shapes. Records that do not match the expected upstream
// shape are rejected hard — silently coercing malformed catalog data would
// corrupt pricing and filtering downstream.
type CatalogNormalizer struct {
	validate *validator.Validate
}

// NewCatalogNormalizer constructs a CatalogNormalizer.
func NewCatalogNormalizer() *CatalogNormalizer {
	return &CatalogNormalizer{validate: validator.New()}
}

// NormalizeCategory turns a bare upstream category label into a
// {slug, name} pair. It never fails: an empty label produces the fallback
// category. It only accepts the upstream raw slug form, not an
// already-normalized display name.
func (n *CatalogNormalizer) NormalizeCategory(rawLabel string) models.Category {
	if rawLabel == "" {
		return models.Category{Slug: "unknown", Name: "Unknown Category"}
	}
	return models.Category{Slug: rawLabel, Name: categoryDisplayName(rawLabel)}
}

// NormalizeProduct validates a raw upstream record and converts it into the
// canonical product shape, deriving the slug from the title.
func (n *CatalogNormalizer) NormalizeProduct(raw dummyjson.Product) (models.Product, error) {
	if err := n.validate.Struct(raw); err != nil {
		return models.Product{}, fmt.Errorf("%w: product %d: %v", utils.ErrUpstreamInvalid, raw.ID, err)
	}

	return models.Product{
		ID:                 raw.ID,
		Title:              raw.Title,
		Slug:               utils.Slugify(raw.Title),
		Description:        raw.Description,
		Price:              raw.Price,
		DiscountPercentage: raw.DiscountPercentage,
		Brand:              raw.Brand,
		Category:           n.NormalizeCategory(raw.Category),
		Stock:              raw.Stock,
		Images:             raw.Images,
		Thumbnail:          raw.Thumbnail,
	}, nil
}

// NormalizeProducts converts a batch of raw records, failing on the first
// record that does not match the expected shape.
func (n *CatalogNormalizer) NormalizeProducts(raw []dummyjson.Product) ([]models.Product, error) {
	products := make([]models.Product, 0, len(raw))
	for _, r := range raw {
		p, err := n.NormalizeProduct(r)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

// categoryDisplayName converts an upstream slug like "mens-shirts" into
// display text like "Mens Shirts".
func categoryDisplayName(slug string) string {
	words := strings.Split(strings.ReplaceAll(slug, "-", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
