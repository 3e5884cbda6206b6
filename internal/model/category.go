package model

// Category is part of a static seed set; it is never edited through the API.
type Category struct {
	ID          string `gorm:"type:varchar(64);primaryKey" json:"id"`
	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	Slug        string `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
	Description string `gorm:"type:text" json:"description"`
}

const (
	CategoryHumanHair   = "cat_human_hair"
	CategorySynthetic   = "cat_synthetic"
	CategoryLaceFront   = "cat_lace_front"
	CategoryBundles     = "cat_bundles"
	CategoryAccessories = "cat_accessories"
)

// DefaultCategories is the seed set loaded at startup.
var DefaultCategories = []Category{
	{ID: CategoryHumanHair, Name: "Human Hair Wigs", Slug: "human-hair-wigs", Description: "100% human hair wigs, ready to style and color"},
	{ID: CategorySynthetic, Name: "Synthetic Wigs", Slug: "synthetic-wigs", Description: "Affordable, low maintenance synthetic fibre wigs"},
	{ID: CategoryLaceFront, Name: "Lace Front Wigs", Slug: "lace-front-wigs", Description: "Natural hairline lace front and full lace units"},
	{ID: CategoryBundles, Name: "Hair Bundles", Slug: "hair-bundles", Description: "Weft bundles and closures for sew-ins"},
	{ID: CategoryAccessories, Name: "Hair Accessories", Slug: "hair-accessories", Description: "Wig caps, glue, edge control and care products"},
}
