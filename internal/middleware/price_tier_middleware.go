package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/shoplane/storefront_api/internal/models"
)

const (
	// PriceTierHeader carries the caller's negotiated pricing tier.
	PriceTierHeader = "X-Price-Tier"

	// PriceTierKey is the gin context key the tier is stored under.
	PriceTierKey = "price_tier"
)

// PriceTierMiddleware resolves the caller's pricing tier from the request and
// stores it in the context so every catalog handler prices products the same
// way. Unknown or missing values fall back to retail.
func PriceTierMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tier := models.PriceTier(c.GetHeader(PriceTierHeader))
		if tier != models.PriceTierB2B {
			tier = models.PriceTierRetail
		}
		c.Set(PriceTierKey, tier)
		c.Next()
	}
}

// TierFromContext reads the pricing tier stored by PriceTierMiddleware,
// defaulting to retail.
func TierFromContext(c *gin.Context) models.PriceTier {
	if tier, ok := c.Get(PriceTierKey); ok {
		if t, ok := tier.(models.PriceTier); ok {
			return t
		}
	}
	return models.PriceTierRetail
}
