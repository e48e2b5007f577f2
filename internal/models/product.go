package models

import "fmt"

// Category partitions the product catalog. Every product belongs to exactly
// one category.
type Category string

const (
	CategoryDevice    Category = "DEVICE"
	CategoryRefill    Category = "REFILL"
	CategoryAccessory Category = "ACCESSORY"
	CategorySparePart Category = "SPARE_PART"
)

// Categories lists all categories in their fixed priority order: the order
// used when an invoice has to be forced onto the first available category.
var Categories = []Category{
	CategoryRefill,
	CategoryDevice,
	CategoryAccessory,
	CategorySparePart,
}

// ParseCategory converts a raw string into a Category
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryDevice, CategoryRefill, CategoryAccessory, CategorySparePart:
		return Category(s), nil
	default:
		return "", fmt.Errorf("unknown category %q", s)
	}
}

// Product is one catalog entry
type Product struct {
	ID       int64    `db:"product_id" json:"product_id"`
	Name     string   `db:"product_name" json:"product_name"`
	Brand    string   `db:"brand" json:"brand"`
	Category Category `db:"category" json:"category"`

	// GrammageG is the refill content weight in grams. Zero for categories
	// without grammage (devices, accessories, spare parts); exported as an
	// empty CSV field in that case.
	GrammageG int `db:"grammage_g" json:"grammage_g"`
}

// Partitions holds the per-category product id lists consumed by the sales
// simulator. A category with an empty list is structurally absent for the
// run.
type Partitions struct {
	Device    []int64
	Refill    []int64
	Accessory []int64
	SparePart []int64
}

// ByCategory returns the id list for the given category
func (p *Partitions) ByCategory(c Category) []int64 {
	switch c {
	case CategoryDevice:
		return p.Device
	case CategoryRefill:
		return p.Refill
	case CategoryAccessory:
		return p.Accessory
	case CategorySparePart:
		return p.SparePart
	default:
		return nil
	}
}

// Has reports whether the category has at least one product
func (p *Partitions) Has(c Category) bool {
	return len(p.ByCategory(c)) > 0
}

// Empty reports whether every category list is empty
func (p *Partitions) Empty() bool {
	for _, c := range Categories {
		if p.Has(c) {
			return false
		}
	}
	return true
}

// PartitionProducts splits a catalog into per-category id lists
func PartitionProducts(products []Product) Partitions {
	var parts Partitions
	for _, prod := range products {
		switch prod.Category {
		case CategoryDevice:
			parts.Device = append(parts.Device, prod.ID)
		case CategoryRefill:
			parts.Refill = append(parts.Refill, prod.ID)
		case CategoryAccessory:
			parts.Accessory = append(parts.Accessory, prod.ID)
		case CategorySparePart:
			parts.SparePart = append(parts.SparePart, prod.ID)
		}
	}
	return parts
}
