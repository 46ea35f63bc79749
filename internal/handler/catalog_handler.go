package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/shoplane/storefront_api/internal/middleware"
	"github.com/shoplane/storefront_api/internal/service"
	"github.com/shoplane/storefront_api/internal/utils"
)

// CatalogHandler handles catalog listing and lookup HTTP endpoints.
type CatalogHandler struct {
	catalogService *service.CatalogService
}

// NewCatalogHandler constructs a CatalogHandler.
func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// GetProducts returns the product list with optional filters, sorting and pagination.
func (h *CatalogHandler) GetProducts(c *gin.Context) {
	opts := service.ListOptions{
		Category: c.Query("category"),
		Sort:     c.Query("sort"),
	}

	if v := c.Query("brands"); v != "" {
		for _, b := range strings.Split(v, ",") {
			if b = strings.TrimSpace(b); b != "" {
				opts.Brands = append(opts.Brands, b)
			}
		}
	}
	if v := c.Query("min_price"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			opts.MinPrice = &f
		}
	}
	if v := c.Query("max_price"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			opts.MaxPrice = &f
		}
	}
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			opts.Limit = n
		}
	}
	if v := c.Query("skip"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			opts.Skip = n
		}
	}

	list, err := h.catalogService.ListProducts(c.Request.Context(), opts, middleware.TierFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessWithPagination(c, 200, "Products retrieved successfully", gin.H{
		"items": list.Items,
	}, list.Skip, list.Limit, list.Total)
}

// GetProduct returns a single product looked up by numeric id or slug.
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	product, err := h.catalogService.GetProductByIDOrSlug(c.Request.Context(), c.Param("idOrSlug"), middleware.TierFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Product retrieved successfully", product)
}

// GetCategories returns the normalized category list.
func (h *CatalogHandler) GetCategories(c *gin.Context) {
	categories, err := h.catalogService.GetCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Categories retrieved successfully", gin.H{
		"categories": categories,
	})
}

// respondError maps service errors onto the API error envelope.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, utils.ErrNotFound):
		utils.Error(c, 404, utils.ErrNotFound.Error(), "Product or category not found")
	case errors.Is(err, utils.ErrUpstreamInvalid):
		utils.Error(c, 502, utils.ErrUpstreamInvalid.Error(), "Upstream catalog returned malformed data")
	case errors.Is(err, utils.ErrUpstreamUnavailable):
		utils.Error(c, 503, utils.ErrUpstreamUnavailable.Error(), "Upstream catalog is unavailable")
	default:
		utils.Error(c, 500, "INTERNAL_ERROR", "Unexpected error")
	}
}
