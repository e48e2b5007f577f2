package generator

import (
	"testing"

	"github.com/aromalab/retailgen/internal/data"
	"github.com/aromalab/retailgen/internal/models"
	"github.com/aromalab/retailgen/internal/utils"
)

func testCatalogConfig() CatalogConfig {
	return CatalogConfig{
		TotalProducts:      100,
		NumDevices:         5,
		NumAccessories:     10,
		NumSpareParts:      8,
		IncludeBulkRefills: true,
	}
}

func TestCatalogGenerate(t *testing.T) {
	refData, err := data.Load()
	if err != nil {
		t.Fatalf("Failed to load reference data: %v", err)
	}

	gen := NewCatalogGenerator(utils.NewRandom(42), refData, testCatalogConfig())
	products, err := gen.Generate()
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	t.Run("TotalCount", func(t *testing.T) {
		if len(products) != 100 {
			t.Errorf("Expected 100 products, got %d", len(products))
		}
	})

	t.Run("SequentialIDs", func(t *testing.T) {
		for i, p := range products {
			if p.ID != int64(i+1) {
				t.Fatalf("Product at index %d has id %d", i, p.ID)
			}
		}
	})

	t.Run("CategoryCounts", func(t *testing.T) {
		counts := make(map[models.Category]int)
		for _, p := range products {
			counts[p.Category]++
		}
		if counts[models.CategoryDevice] != 5 {
			t.Errorf("Expected 5 devices, got %d", counts[models.CategoryDevice])
		}
		if counts[models.CategoryAccessory] != 10 {
			t.Errorf("Expected 10 accessories, got %d", counts[models.CategoryAccessory])
		}
		if counts[models.CategorySparePart] != 8 {
			t.Errorf("Expected 8 spare parts, got %d", counts[models.CategorySparePart])
		}
		if counts[models.CategoryRefill] != 77 {
			t.Errorf("Expected 77 refills (74 regular + 3 bulk), got %d", counts[models.CategoryRefill])
		}
	})

	t.Run("GrammageOnlyOnRefills", func(t *testing.T) {
		for _, p := range products {
			hasGrammage := p.GrammageG > 0
			isRefill := p.Category == models.CategoryRefill
			if hasGrammage != isRefill {
				t.Errorf("Product %d (%s, %s): grammage %d", p.ID, p.Name, p.Category, p.GrammageG)
			}
		}
	})

	t.Run("NamesCarryBrand", func(t *testing.T) {
		for _, p := range products {
			if p.Brand == "" {
				t.Fatalf("Product %d has no brand", p.ID)
			}
			if len(p.Name) <= len(p.Brand) || p.Name[:len(p.Brand)] != p.Brand {
				t.Errorf("Product %d name %q does not start with brand %q", p.ID, p.Name, p.Brand)
			}
		}
	})
}

func TestCatalogGenerateDeterministic(t *testing.T) {
	refData, err := data.Load()
	if err != nil {
		t.Fatalf("Failed to load reference data: %v", err)
	}

	first, err := NewCatalogGenerator(utils.NewRandom(7), refData, testCatalogConfig()).Generate()
	if err != nil {
		t.Fatalf("First generate failed: %v", err)
	}
	second, err := NewCatalogGenerator(utils.NewRandom(7), refData, testCatalogConfig()).Generate()
	if err != nil {
		t.Fatalf("Second generate failed: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("Different catalog sizes: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("Products differ at index %d: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestCatalogGenerateRejectsImpossibleConfig(t *testing.T) {
	refData, err := data.Load()
	if err != nil {
		t.Fatalf("Failed to load reference data: %v", err)
	}

	tests := []struct {
		name   string
		config CatalogConfig
	}{
		{"TooManyDevices", CatalogConfig{TotalProducts: 100, NumDevices: 99}},
		{"TooManyAccessories", CatalogConfig{TotalProducts: 100, NumAccessories: 99}},
		{"FixedExceedsTotal", CatalogConfig{TotalProducts: 5, NumDevices: 3, NumAccessories: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewCatalogGenerator(utils.NewRandom(1), refData, tt.config).Generate(); err == nil {
				t.Error("Expected an error, got nil")
			}
		})
	}
}

func TestWriteProductsCSV(t *testing.T) {
	refData, err := data.Load()
	if err != nil {
		t.Fatalf("Failed to load reference data: %v", err)
	}
	products, err := NewCatalogGenerator(utils.NewRandom(1), refData, testCatalogConfig()).Generate()
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	dir := t.TempDir()
	path, err := WriteProductsCSV(products, dir, false, false)
	if err != nil {
		t.Fatalf("WriteProductsCSV failed: %v", err)
	}
	rows := readCSVFile(t, path)
	if len(rows) != len(products)+1 {
		t.Fatalf("Expected %d rows incl header, got %d", len(products)+1, len(rows))
	}
	for i, col := range ProductColumns {
		if rows[0][i] != col {
			t.Errorf("Header column %d: expected %q, got %q", i, col, rows[0][i])
		}
	}
}
