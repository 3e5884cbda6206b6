package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type HairType string

const (
	HairHuman        HairType = "HUMAN_HAIR"
	HairSynthetic    HairType = "SYNTHETIC"
	HairBlend        HairType = "BLEND"
	HairHeatFriendly HairType = "HEAT_FRIENDLY"
)

var HairTypes = []HairType{HairHuman, HairSynthetic, HairBlend, HairHeatFriendly}

type Quality string

const (
	QualityBasic    Quality = "BASIC"
	QualityStandard Quality = "STANDARD"
	QualityPremium  Quality = "PREMIUM"
	QualityLuxury   Quality = "LUXURY"
)

var Qualities = []Quality{QualityBasic, QualityStandard, QualityPremium, QualityLuxury}

type ProductStatus string

const (
	StatusActive     ProductStatus = "ACTIVE"
	StatusInactive   ProductStatus = "INACTIVE"
	StatusOutOfStock ProductStatus = "OUT_OF_STOCK"
)

var ProductStatuses = []ProductStatus{StatusActive, StatusInactive, StatusOutOfStock}

type Product struct {
	BaseModel
	Name           string           `gorm:"type:varchar(255);not null" json:"name"`
	Slug           string           `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
	Description    string           `gorm:"type:text" json:"description"`
	Price          decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0" json:"price"`
	CompareAtPrice *decimal.Decimal `gorm:"type:decimal(12,2)" json:"compare_at_price,omitempty"`
	SKU            string           `gorm:"type:varchar(64);uniqueIndex;not null" json:"sku"`
	CategoryID     string           `gorm:"type:varchar(64);index;not null" json:"category_id"`

	HairType HairType `gorm:"type:varchar(20);index" json:"hair_type,omitempty"`
	Quality  Quality  `gorm:"type:varchar(20);index" json:"quality,omitempty"`
	Inches   []string `gorm:"serializer:json;type:text" json:"inches"`
	Density  string   `gorm:"type:varchar(50)" json:"density,omitempty"`
	Texture  string   `gorm:"type:varchar(100);index" json:"texture,omitempty"`
	Origin   string   `gorm:"type:varchar(100);index" json:"origin,omitempty"`
	Color    string   `gorm:"type:varchar(100)" json:"color,omitempty"`

	CapConstruction string `gorm:"type:varchar(100)" json:"cap_construction,omitempty"`
	LaceType        string `gorm:"type:varchar(100)" json:"lace_type,omitempty"`
	CapSize         string `gorm:"type:varchar(50)" json:"cap_size,omitempty"`
	BabyHair        bool   `gorm:"default:false" json:"baby_hair"`
	PrePlucked      bool   `gorm:"default:false" json:"pre_plucked"`
	BleachedKnots   bool   `gorm:"default:false" json:"bleached_knots"`

	IsActive bool          `gorm:"index;not null" json:"is_active"`
	Stock    int           `gorm:"not null;default:0" json:"stock"`
	Status   ProductStatus `gorm:"type:varchar(20);index;not null;default:'ACTIVE'" json:"status"`
	Featured bool          `gorm:"index;default:false" json:"featured"`
	Tags     []string      `gorm:"serializer:json;type:text" json:"tags"`
	Images   []string      `gorm:"serializer:json;type:text" json:"images"`

	SEOTitle       string `gorm:"type:varchar(255)" json:"seo_title,omitempty"`
	SEODescription string `gorm:"type:text" json:"seo_description,omitempty"`

	// Stored once; never synthesized on read.
	Rating      decimal.Decimal `gorm:"type:decimal(3,2);not null;default:0" json:"rating"`
	ReviewCount int             `gorm:"not null;default:0" json:"review_count"`

	Variants []ProductVariant `gorm:"foreignKey:ProductID" json:"variants"`
}

// ProductVariant is a purchasable color/length/density combination with its own stock.
type ProductVariant struct {
	BaseModel
	ProductID uuid.UUID        `gorm:"type:uuid;index;not null" json:"product_id"`
	SKU       string           `gorm:"type:varchar(64);uniqueIndex;not null" json:"sku"`
	Color     string           `gorm:"type:varchar(100)" json:"color,omitempty"`
	Length    string           `gorm:"type:varchar(50)" json:"length,omitempty"`
	Density   string           `gorm:"type:varchar(50)" json:"density,omitempty"`
	Price     *decimal.Decimal `gorm:"type:decimal(12,2)" json:"price,omitempty"`
	Stock     int              `gorm:"not null;default:0" json:"stock"`
}

// UnitPrice is the variant override when present, else the product price.
func (p *Product) UnitPrice(v *ProductVariant) decimal.Decimal {
	if v != nil && v.Price != nil {
		return *v.Price
	}
	return p.Price
}

// FindVariant returns the variant with the given id.
func (p *Product) FindVariant(id uuid.UUID) *ProductVariant {
	for i := range p.Variants {
		if p.Variants[i].ID == id {
			return &p.Variants[i]
		}
	}
	return nil
}

// MatchVariant returns the first variant matching every non-empty descriptor field.
func (p *Product) MatchVariant(color, length, density string) *ProductVariant {
	if color == "" && length == "" && density == "" {
		return nil
	}
	for i := range p.Variants {
		v := &p.Variants[i]
		if color != "" && !equalFold(v.Color, color) {
			continue
		}
		if length != "" && !equalFold(v.Length, length) {
			continue
		}
		if density != "" && !equalFold(v.Density, density) {
			continue
		}
		return v
	}
	return nil
}

// Purchasable reports whether the storefront may sell the product.
func (p *Product) Purchasable() bool {
	return p.IsActive && p.Status != StatusInactive
}

// ProductResponse is the storefront shape: the product plus its joined category.
type ProductResponse struct {
	Product
	Category *Category `json:"category,omitempty"`
}
