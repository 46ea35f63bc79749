package models

// PriceTier enumerates the supported caller pricing tiers.
type PriceTier string

const (
	PriceTierRetail PriceTier = "retail"
	PriceTierB2B    PriceTier = "b2b"
)

// Price is a monetary amount with its currency.
type Price struct {
	Amount             float64  `json:"amount"`
	CurrencyCode       string   `json:"currencyCode"`
	DiscountPercentage *float64 `json:"discountPercentage,omitempty"`
}

// Product is the canonical catalog product shape used across the service.
// Slug is derived from Title and is stable for the lifetime of a catalog
// snapshot. EffectivePrice is nil until the price resolver has run.
type Product struct {
	ID                 int      `json:"id"`
	Title              string   `json:"title"`
	Slug               string   `json:"slug"`
	Description        string   `json:"description"`
	Price              float64  `json:"price"`
	DiscountPercentage *float64 `json:"discountPercentage,omitempty"`
	Brand              string   `json:"brand,omitempty"`
	Category           Category `json:"category"`
	Stock              *int     `json:"stock,omitempty"`
	Images             []string `json:"images,omitempty"`
	Thumbnail          string   `json:"thumbnail,omitempty"`
	EffectivePrice     *Price   `json:"effectivePrice,omitempty"`
}
