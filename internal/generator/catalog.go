package generator

import (
	"fmt"

	"github.com/aromalab/retailgen/internal/data"
	"github.com/aromalab/retailgen/internal/models"
	"github.com/aromalab/retailgen/internal/utils"
)

// CatalogConfig controls product catalog generation
type CatalogConfig struct {
	// Total number of products in the final catalog
	TotalProducts int
	// Fixed counts by category; the remainder becomes regular refills
	NumDevices     int
	NumAccessories int
	NumSpareParts  int
	// Include the fixed industrial-size refill rows
	IncludeBulkRefills bool
}

// CatalogGenerator produces the product catalog from embedded reference
// data. Products are shuffled before ids are assigned so categories are
// interleaved rather than blocked together.
type CatalogGenerator struct {
	rng     *utils.Random
	refData *data.ReferenceData
	config  CatalogConfig
}

// NewCatalogGenerator creates a catalog generator
func NewCatalogGenerator(rng *utils.Random, refData *data.ReferenceData, config CatalogConfig) *CatalogGenerator {
	return &CatalogGenerator{
		rng:     rng,
		refData: refData,
		config:  config,
	}
}

// Generate builds the full product list with sequential ids starting at 1
func (g *CatalogGenerator) Generate() ([]models.Product, error) {
	cat := g.refData.Catalog
	cfg := g.config

	if cfg.NumDevices > len(cat.Devices) {
		return nil, fmt.Errorf("num_devices %d exceeds device catalog size %d", cfg.NumDevices, len(cat.Devices))
	}
	if cfg.NumAccessories > len(cat.Accessories) {
		return nil, fmt.Errorf("num_accessories %d exceeds accessory catalog size %d", cfg.NumAccessories, len(cat.Accessories))
	}
	if cfg.NumSpareParts > len(cat.SpareParts) {
		return nil, fmt.Errorf("num_spare_parts %d exceeds spare part catalog size %d", cfg.NumSpareParts, len(cat.SpareParts))
	}

	numBulk := 0
	if cfg.IncludeBulkRefills {
		numBulk = len(cat.BulkRefills)
	}
	fixed := cfg.NumDevices + cfg.NumAccessories + cfg.NumSpareParts + numBulk
	if fixed > cfg.TotalProducts {
		return nil, fmt.Errorf("fixed products (devices+accessories+spare_parts+bulk=%d) exceed total_products %d", fixed, cfg.TotalProducts)
	}
	numRegularRefills := cfg.TotalProducts - fixed

	products := make([]models.Product, 0, cfg.TotalProducts)

	for _, name := range cat.Devices[:cfg.NumDevices] {
		brand := g.rng.PickString(cat.DeviceBrands)
		products = append(products, models.Product{
			Name:     fmt.Sprintf("%s %s", brand, name),
			Brand:    brand,
			Category: models.CategoryDevice,
		})
	}

	for _, name := range cat.Accessories[:cfg.NumAccessories] {
		brand := g.rng.PickString(cat.DeviceBrands)
		products = append(products, models.Product{
			Name:     fmt.Sprintf("%s %s", brand, name),
			Brand:    brand,
			Category: models.CategoryAccessory,
		})
	}

	for _, name := range cat.SpareParts[:cfg.NumSpareParts] {
		brand := g.rng.PickString(cat.DeviceBrands)
		products = append(products, models.Product{
			Name:     fmt.Sprintf("%s %s", brand, name),
			Brand:    brand,
			Category: models.CategorySparePart,
		})
	}

	if cfg.IncludeBulkRefills {
		for _, br := range cat.BulkRefills {
			name := fmt.Sprintf("%s Refill Liquid %s %d", br.Brand, br.Scent, br.GrammageG)
			if br.Suffix != "" {
				name += " " + br.Suffix
			}
			products = append(products, models.Product{
				Name:      name,
				Brand:     br.Brand,
				Category:  models.CategoryRefill,
				GrammageG: br.GrammageG,
			})
		}
	}

	// Regular refills spread evenly across refill brands
	base := numRegularRefills / len(cat.RefillBrands)
	remainder := numRegularRefills % len(cat.RefillBrands)
	for i, brand := range cat.RefillBrands {
		quota := base
		if i < remainder {
			quota++
		}
		for n := 0; n < quota; n++ {
			scent := g.rng.PickString(cat.Scents)
			grammage := cat.RefillSizesG[g.rng.IntN(len(cat.RefillSizesG))]
			products = append(products, models.Product{
				Name:      fmt.Sprintf("%s Refill Liquid %s %d", brand, scent, grammage),
				Brand:     brand,
				Category:  models.CategoryRefill,
				GrammageG: grammage,
			})
		}
	}

	// Mix the categories, then assign ids in final order
	g.rng.Shuffle(len(products), func(i, j int) {
		products[i], products[j] = products[j], products[i]
	})
	for i := range products {
		products[i].ID = int64(i + 1)
	}

	return products, nil
}

// ProductColumns is the column contract of products.csv
var ProductColumns = []string{"product_id", "product_name", "brand", "category", "grammage_g"}

// WriteProductsCSV writes the product catalog to products.csv
func WriteProductsCSV(products []models.Product, outputDir string, compress, showProgress bool) (string, error) {
	writer, err := NewCSVWriter(CSVWriterConfig{
		OutputDir: outputDir,
		Filename:  "products",
		Headers:   ProductColumns,
		Compress:  compress,
	})
	if err != nil {
		return "", err
	}

	var progress *ProgressReporter
	if showProgress {
		progress = NewProgressReporter(ProgressConfig{
			Total: int64(len(products)),
			Label: "  Products",
		})
	}

	for _, p := range products {
		row := []string{
			FormatInt64(p.ID),
			p.Name,
			p.Brand,
			string(p.Category),
			FormatGrammage(p.GrammageG),
		}
		if err := writer.WriteRow(row); err != nil {
			writer.Close()
			return "", err
		}
		if progress != nil {
			progress.Add(1)
		}
	}

	if progress != nil {
		progress.Finish()
	}

	if err := writer.Close(); err != nil {
		return "", err
	}
	return writer.Path(), nil
}
