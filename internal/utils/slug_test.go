package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"simple", "Smartphone X", "smartphone-x"},
		{"punctuation", "Alpha: Laptop (Pro)", "alpha-laptop-pro"},
		{"multiple separators", "A  --  B", "a-b"},
		{"leading and trailing junk", "  !Widget!  ", "widget"},
		{"digits preserved", "Camera 4K v2", "camera-4k-v2"},
		{"already a slug", "mens-shirts", "mens-shirts"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.title))
		})
	}
}

func TestSlugifyDeterministic(t *testing.T) {
	title := "Essence Mascara Lash Princess"
	assert.Equal(t, Slugify(title), Slugify(title))
}
