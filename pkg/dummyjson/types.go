package dummyjson

// Product is a raw product record as returned by the upstream catalog API.
// The category field is a bare string label; normalization happens in the
// service layer. Validate tags describe the minimum shape the rest of the
// system depends on.
type Product struct {
	ID                 int      `json:"id" validate:"required,gt=0"`
	Title              string   `json:"title" validate:"required"`
	Description        string   `json:"description"`
	Price              float64  `json:"price" validate:"gte=0"`
	DiscountPercentage *float64 `json:"discountPercentage,omitempty"`
	Brand              string   `json:"brand,omitempty"`
	Category           string   `json:"category"`
	Stock              *int     `json:"stock,omitempty"`
	Images             []string `json:"images,omitempty"`
	Thumbnail          string   `json:"thumbnail,omitempty"`
}

// ProductPage is the paginated list envelope returned by the list, category
// and search endpoints.
type ProductPage struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
	Skip     int       `json:"skip"`
	Limit    int       `json:"limit"`
}
