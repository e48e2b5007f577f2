package data

import (
	"testing"
)

func TestLoadReferenceData(t *testing.T) {
	ref, err := Load()
	if err != nil {
		t.Fatalf("Failed to load reference data: %v", err)
	}

	t.Run("Catalog", func(t *testing.T) {
		if len(ref.Catalog.Devices) == 0 {
			t.Error("Expected device names, got none")
		}
		if len(ref.Catalog.RefillBrands) < len(ref.Catalog.DeviceBrands) {
			t.Error("Expected at least as many refill brands as device brands")
		}
		for _, size := range ref.Catalog.RefillSizesG {
			if size <= 0 {
				t.Errorf("Refill size must be positive, got %d", size)
			}
		}
	})

	t.Run("BulkRefills", func(t *testing.T) {
		refillBrands := make(map[string]bool)
		for _, b := range ref.Catalog.RefillBrands {
			refillBrands[b] = true
		}
		for _, br := range ref.Catalog.BulkRefills {
			if !refillBrands[br.Brand] {
				t.Errorf("Bulk refill brand %q is not a refill brand", br.Brand)
			}
			if br.GrammageG <= 0 {
				t.Errorf("Bulk refill %q has non-positive grammage %d", br.Brand, br.GrammageG)
			}
		}
	})

	t.Run("Names", func(t *testing.T) {
		if len(ref.Names.FirstNames) == 0 {
			t.Error("Expected first names, got none")
		}
		if len(ref.Names.LastNames) == 0 {
			t.Error("Expected last names, got none")
		}
		if len(ref.Names.EmailDomains) == 0 {
			t.Error("Expected email domains, got none")
		}
	})
}

func TestLoadIsIdempotent(t *testing.T) {
	a, err := Load()
	if err != nil {
		t.Fatalf("First load failed: %v", err)
	}
	b, err := Load()
	if err != nil {
		t.Fatalf("Second load failed: %v", err)
	}
	if a != b {
		t.Error("Expected Load to return the same instance")
	}
}
