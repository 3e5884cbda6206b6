package catalog

import (
	"testing"

	"go-wigstore-api/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestComputeFacets(t *testing.T) {
	products := []model.Product{
		{
			Price:    decimal.RequireFromString("89.99"),
			HairType: model.HairHuman,
			Quality:  model.QualityPremium,
			Texture:  "Body Wave",
			Origin:   "Brazilian",
			Color:    "Natural Black",
			Inches:   []string{"18", "22"},
		},
		{
			Price:    decimal.RequireFromString("29.50"),
			HairType: model.HairSynthetic,
			Quality:  model.QualityBasic,
			Texture:  "body wave",
			Origin:   "",
			Color:    "Blonde",
			Inches:   []string{"8 inch", "22"},
			Variants: []model.ProductVariant{{Color: "Burgundy", Length: "10"}},
		},
	}

	f := ComputeFacets(products)

	assert.Equal(t, []model.HairType{model.HairHuman, model.HairSynthetic}, f.HairTypes)
	assert.Equal(t, []model.Quality{model.QualityBasic, model.QualityPremium}, f.Qualities)
	assert.Equal(t, []string{"Body Wave"}, f.Textures)
	assert.Equal(t, []string{"Brazilian"}, f.Origins)
	assert.Equal(t, []string{"Blonde", "Burgundy", "Natural Black"}, f.Colors)
	assert.Equal(t, []string{"8 inch", "10", "18", "22"}, f.Lengths)
	assert.True(t, f.PriceRange.Min.Equal(decimal.RequireFromString("29.50")))
	assert.True(t, f.PriceRange.Max.Equal(decimal.RequireFromString("89.99")))
}

func TestComputeFacetsEmpty(t *testing.T) {
	f := ComputeFacets(nil)
	assert.Empty(t, f.HairTypes)
	assert.Empty(t, f.Colors)
	assert.True(t, f.PriceRange.Min.IsZero())
}
