package models

// Category is a normalized product category. Slug carries the upstream's raw
// identifier unchanged; Name is the display form derived from it.
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}
