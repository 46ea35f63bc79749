package service

import (
	"math"

	"github.com/shoplane/storefront_api/internal/models"
)

const (
	defaultCurrencyCode = "USD"

	// Negotiated tier discount applied to the list price.
	b2bDiscountPercentage = 10.0
)

// PriceResolver computes the effective price a given caller sees. Applying it
// is part of the catalog contract: every product leaving the catalog surface
// carries an effective price for the caller's tier.
type PriceResolver struct{}

// NewPriceResolver constructs a PriceResolver.
func NewPriceResolver() *PriceResolver {
	return &PriceResolver{}
}

// ApplyEffectivePrice returns a copy of product with EffectivePrice populated
// for the caller's pricing tier. The input is not mutated.
func (r *PriceResolver) ApplyEffectivePrice(product models.Product, tier models.PriceTier) models.Product {
	currency := defaultCurrencyCode
	if product.EffectivePrice != nil && product.EffectivePrice.CurrencyCode != "" {
		currency = product.EffectivePrice.CurrencyCode
	}

	price := models.Price{
		Amount:       product.Price,
		CurrencyCode: currency,
	}
	if tier == models.PriceTierB2B {
		discount := b2bDiscountPercentage
		price.Amount = round2(product.Price * (1 - discount/100))
		price.DiscountPercentage = &discount
	}

	product.EffectivePrice = &price
	return product
}

// ApplyEffectivePrices applies the tier price to every product in the slice,
// returning a new slice.
func (r *PriceResolver) ApplyEffectivePrices(products []models.Product, tier models.PriceTier) []models.Product {
	result := make([]models.Product, len(products))
	for i, p := range products {
		result[i] = r.ApplyEffectivePrice(p, tier)
	}
	return result
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
