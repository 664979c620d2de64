package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func price(v float64) *float64 { return &v }

func TestDisplayPrice(t *testing.T) {
	tests := []struct {
		name    string
		listing Listing
		want    string
	}{
		{"free without price", Listing{PriceType: PriceFree}, "Free"},
		{"free ignores stored price", Listing{PriceType: PriceFree, Price: price(250)}, "Free"},
		{"fixed", Listing{PriceType: PriceFixed, Price: price(12.5)}, "$12.50"},
		{"fixed without price", Listing{PriceType: PriceFixed}, "Contact seller"},
		{"negotiable with price", Listing{PriceType: PriceNegotiable, Price: price(99)}, "$99.00 (negotiable)"},
		{"negotiable without price", Listing{PriceType: PriceNegotiable}, "Negotiable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.listing.DisplayPrice())
		})
	}
}

func TestListingView_JSON(t *testing.T) {
	l := Listing{Title: "Chair", PriceType: PriceFree, Price: price(10)}
	raw, err := json.Marshal(l.View())
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "Chair", out["title"])
	assert.Equal(t, "Free", out["displayPrice"])
}

func TestValidPriceType(t *testing.T) {
	assert.True(t, ValidPriceType("free"))
	assert.False(t, ValidPriceType("auction"))
	assert.False(t, ValidPriceType(""))
}

func TestNewRating(t *testing.T) {
	assert.Equal(t, Rating{}, NewRating(0, 0))
	assert.Equal(t, Rating{TotalPoints: 9, TotalReviews: 2, AverageRating: 4.5}, NewRating(9, 2))
}
