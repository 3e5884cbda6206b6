package service

import (
	"go-wigstore-api/internal/model"

	"github.com/shopspring/decimal"
)

// CreateProductRequest is the admin create payload.
type CreateProductRequest struct {
	Name           string           `json:"name" validate:"required,max=255"`
	Slug           string           `json:"slug" validate:"omitempty,max=255"`
	Description    string           `json:"description" validate:"required"`
	Price          *decimal.Decimal `json:"price" validate:"required,gte=0"`
	CompareAtPrice *decimal.Decimal `json:"compare_at_price" validate:"omitempty,gte=0"`
	SKU            string           `json:"sku" validate:"required,max=64"`
	CategoryID     string           `json:"category_id" validate:"required"`

	HairType model.HairType `json:"hair_type" validate:"omitempty,oneof=HUMAN_HAIR SYNTHETIC BLEND HEAT_FRIENDLY"`
	Quality  model.Quality  `json:"quality" validate:"omitempty,oneof=BASIC STANDARD PREMIUM LUXURY"`
	Inches   []string       `json:"inches"`
	Density  string         `json:"density"`
	Texture  string         `json:"texture"`
	Origin   string         `json:"origin"`
	Color    string         `json:"color"`

	CapConstruction string `json:"cap_construction"`
	LaceType        string `json:"lace_type"`
	CapSize         string `json:"cap_size"`
	BabyHair        bool   `json:"baby_hair"`
	PrePlucked      bool   `json:"pre_plucked"`
	BleachedKnots   bool   `json:"bleached_knots"`

	IsActive *bool               `json:"is_active"`
	Stock    int                 `json:"stock" validate:"gte=0"`
	Status   model.ProductStatus `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE OUT_OF_STOCK"`
	Featured bool                `json:"featured"`
	Tags     []string            `json:"tags"`
	Images   []string            `json:"images"`

	SEOTitle       string `json:"seo_title" validate:"max=255"`
	SEODescription string `json:"seo_description"`

	Rating      *decimal.Decimal `json:"rating" validate:"omitempty,gte=0,lte=5"`
	ReviewCount int              `json:"review_count" validate:"gte=0"`

	Variants []VariantRequest `json:"variants" validate:"dive"`
}

type VariantRequest struct {
	SKU     string           `json:"sku" validate:"required,max=64"`
	Color   string           `json:"color"`
	Length  string           `json:"length"`
	Density string           `json:"density"`
	Price   *decimal.Decimal `json:"price" validate:"omitempty,gte=0"`
	Stock   int              `json:"stock" validate:"gte=0"`
}

// UpdateProductRequest is a partial update: nil fields are left untouched.
type UpdateProductRequest struct {
	Name           *string          `json:"name" validate:"omitempty,min=1,max=255"`
	Slug           *string          `json:"slug" validate:"omitempty,min=1,max=255"`
	Description    *string          `json:"description"`
	Price          *decimal.Decimal `json:"price" validate:"omitempty,gte=0"`
	CompareAtPrice *decimal.Decimal `json:"compare_at_price" validate:"omitempty,gte=0"`
	SKU            *string          `json:"sku" validate:"omitempty,min=1,max=64"`
	CategoryID     *string          `json:"category_id" validate:"omitempty,min=1"`

	HairType *model.HairType `json:"hair_type" validate:"omitempty,oneof=HUMAN_HAIR SYNTHETIC BLEND HEAT_FRIENDLY"`
	Quality  *model.Quality  `json:"quality" validate:"omitempty,oneof=BASIC STANDARD PREMIUM LUXURY"`
	Inches   *[]string       `json:"inches"`
	Density  *string         `json:"density"`
	Texture  *string         `json:"texture"`
	Origin   *string         `json:"origin"`
	Color    *string         `json:"color"`

	CapConstruction *string `json:"cap_construction"`
	LaceType        *string `json:"lace_type"`
	CapSize         *string `json:"cap_size"`
	BabyHair        *bool   `json:"baby_hair"`
	PrePlucked      *bool   `json:"pre_plucked"`
	BleachedKnots   *bool   `json:"bleached_knots"`

	IsActive *bool                `json:"is_active"`
	Stock    *int                 `json:"stock" validate:"omitempty,gte=0"`
	Status   *model.ProductStatus `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE OUT_OF_STOCK"`
	Featured *bool                `json:"featured"`
	Tags     *[]string            `json:"tags"`
	Images   *[]string            `json:"images"`

	SEOTitle       *string `json:"seo_title" validate:"omitempty,max=255"`
	SEODescription *string `json:"seo_description"`

	Rating      *decimal.Decimal `json:"rating" validate:"omitempty,gte=0,lte=5"`
	ReviewCount *int             `json:"review_count" validate:"omitempty,gte=0"`
}

func (r *CreateProductRequest) toModel() *model.Product {
	p := &model.Product{
		Name:            r.Name,
		Slug:            r.Slug,
		Description:     r.Description,
		Price:           r.Price.Round(2),
		CompareAtPrice:  r.CompareAtPrice,
		SKU:             r.SKU,
		CategoryID:      r.CategoryID,
		HairType:        r.HairType,
		Quality:         r.Quality,
		Inches:          nonNil(r.Inches),
		Density:         r.Density,
		Texture:         r.Texture,
		Origin:          r.Origin,
		Color:           r.Color,
		CapConstruction: r.CapConstruction,
		LaceType:        r.LaceType,
		CapSize:         r.CapSize,
		BabyHair:        r.BabyHair,
		PrePlucked:      r.PrePlucked,
		BleachedKnots:   r.BleachedKnots,
		IsActive:        true,
		Stock:           r.Stock,
		Status:          r.Status,
		Featured:        r.Featured,
		Tags:            nonNil(r.Tags),
		Images:          nonNil(r.Images),
		SEOTitle:        r.SEOTitle,
		SEODescription:  r.SEODescription,
		Rating:          decimal.Zero,
		ReviewCount:     r.ReviewCount,
		Variants:        []model.ProductVariant{},
	}
	if r.IsActive != nil {
		p.IsActive = *r.IsActive
	}
	if p.Status == "" {
		p.Status = model.StatusActive
	}
	if r.Rating != nil {
		p.Rating = r.Rating.Round(2)
	}
	for _, v := range r.Variants {
		p.Variants = append(p.Variants, model.ProductVariant{
			SKU:     v.SKU,
			Color:   v.Color,
			Length:  v.Length,
			Density: v.Density,
			Price:   v.Price,
			Stock:   v.Stock,
		})
	}
	return p
}

// apply merges the non-nil fields into p and reports whether stock changed.
func (r *UpdateProductRequest) apply(p *model.Product) (stockChanged bool) {
	setIf(&p.Name, r.Name)
	setIf(&p.Description, r.Description)
	setIf(&p.SKU, r.SKU)
	setIf(&p.CategoryID, r.CategoryID)
	setIf(&p.HairType, r.HairType)
	setIf(&p.Quality, r.Quality)
	setIf(&p.Inches, r.Inches)
	setIf(&p.Density, r.Density)
	setIf(&p.Texture, r.Texture)
	setIf(&p.Origin, r.Origin)
	setIf(&p.Color, r.Color)
	setIf(&p.CapConstruction, r.CapConstruction)
	setIf(&p.LaceType, r.LaceType)
	setIf(&p.CapSize, r.CapSize)
	setIf(&p.BabyHair, r.BabyHair)
	setIf(&p.PrePlucked, r.PrePlucked)
	setIf(&p.BleachedKnots, r.BleachedKnots)
	setIf(&p.IsActive, r.IsActive)
	setIf(&p.Status, r.Status)
	setIf(&p.Featured, r.Featured)
	setIf(&p.Tags, r.Tags)
	setIf(&p.Images, r.Images)
	setIf(&p.SEOTitle, r.SEOTitle)
	setIf(&p.SEODescription, r.SEODescription)
	setIf(&p.ReviewCount, r.ReviewCount)

	if r.Price != nil {
		p.Price = r.Price.Round(2)
	}
	if r.CompareAtPrice != nil {
		p.CompareAtPrice = r.CompareAtPrice
	}
	if r.Rating != nil {
		p.Rating = r.Rating.Round(2)
	}
	if r.Stock != nil && *r.Stock != p.Stock {
		p.Stock = *r.Stock
		stockChanged = true
	}
	return stockChanged
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
