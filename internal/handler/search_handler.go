package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/shoplane/storefront_api/internal/search"
	"github.com/shoplane/storefront_api/internal/utils"
)

// SearchHandler handles full-text search endpoints.
type SearchHandler struct {
	gateway *search.Gateway
}

// NewSearchHandler constructs a SearchHandler.
func NewSearchHandler(gateway *search.Gateway) *SearchHandler {
	return &SearchHandler{gateway: gateway}
}

// Search runs a term search against the configured backend.
func (h *SearchHandler) Search(c *gin.Context) {
	term := strings.TrimSpace(c.Query("q"))
	if len(term) < search.MinTermLength {
		utils.Error(c, 400, utils.ErrQueryTooShort.Error(), "Search term must be at least 3 characters")
		return
	}

	opts := search.Options{
		Filters: search.ParseFilters(c.QueryArray("filters")),
	}
	if v := c.Query("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			opts.Page = n
		}
	}
	if v := c.Query("per_page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			opts.PerPage = n
		}
	}

	result, err := h.gateway.Search(c.Request.Context(), term, opts)
	if err != nil {
		utils.Error(c, 503, utils.ErrSearchUnavailable.Error(), "Search is currently unavailable")
		return
	}

	utils.Success(c, 200, "Search completed successfully", result)
}
