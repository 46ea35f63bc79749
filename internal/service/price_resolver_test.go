package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoplane/storefront_api/internal/models"
)

func TestApplyEffectivePriceRetail(t *testing.T) {
	r := NewPriceResolver()
	p := models.Product{ID: 1, Title: "Alpha", Price: 1200}

	got := r.ApplyEffectivePrice(p, models.PriceTierRetail)

	require.NotNil(t, got.EffectivePrice)
	assert.Equal(t, 1200.0, got.EffectivePrice.Amount)
	assert.Equal(t, "USD", got.EffectivePrice.CurrencyCode)
	assert.Nil(t, got.EffectivePrice.DiscountPercentage)
}

func TestApplyEffectivePriceB2B(t *testing.T) {
	r := NewPriceResolver()

	tests := []struct {
		price float64
		want  float64
	}{
		{1200, 1080},
		{999.99, 899.99},
		{14.99, 13.49},
	}

	for _, tt := range tests {
		got := r.ApplyEffectivePrice(models.Product{Price: tt.price}, models.PriceTierB2B)
		require.NotNil(t, got.EffectivePrice)
		assert.InDelta(t, tt.want, got.EffectivePrice.Amount, 1e-9)
		require.NotNil(t, got.EffectivePrice.DiscountPercentage)
		assert.Equal(t, 10.0, *got.EffectivePrice.DiscountPercentage)
	}
}

func TestApplyEffectivePriceDoesNotMutateInput(t *testing.T) {
	r := NewPriceResolver()
	p := models.Product{ID: 1, Price: 100}

	_ = r.ApplyEffectivePrice(p, models.PriceTierB2B)

	assert.Nil(t, p.EffectivePrice)
}
