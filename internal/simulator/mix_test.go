package simulator

import (
	"testing"

	"github.com/aromalab/retailgen/internal/models"
	"github.com/aromalab/retailgen/internal/utils"
)

func TestComposeMixLineCount(t *testing.T) {
	// Mandatory categories are always kept, so a mix may exceed the drawn
	// target when all four inclusion gates fire at once. The hard upper
	// bound is therefore max(LinesRange.Max, category count).
	params := DefaultParams()
	parts := testPartitions()
	rng := utils.NewRandom(1)

	maxLen := params.LinesRange.Max
	if maxLen < 4 {
		maxLen = 4
	}

	for i := 0; i < 5000; i++ {
		mix := ComposeMix(rng, params, parts, 0)
		if len(mix) < params.LinesRange.Min || len(mix) > maxLen {
			t.Fatalf("Mix length %d outside [%d, %d]", len(mix), params.LinesRange.Min, maxLen)
		}
	}
}

func TestComposeMixMandatoryOverflow(t *testing.T) {
	// Every inclusion gate forced on: all four categories are mandatory
	// and survive even when the drawn target is smaller.
	params := DefaultParams()
	params.PDeviceIfNoDevice = 1.0
	params.PRefillWhenDevice = 1.0
	params.PAccessoryLine = 1.0
	params.PSparePartLine = 1.0
	parts := testPartitions()
	rng := utils.NewRandom(1)

	for i := 0; i < 100; i++ {
		mix := ComposeMix(rng, params, parts, 0)
		if len(mix) != 4 {
			t.Fatalf("Expected all 4 mandatory categories, got %d: %v", len(mix), mix)
		}
		seen := make(map[models.Category]int)
		for _, cat := range mix {
			seen[cat]++
		}
		for _, cat := range []models.Category{models.CategoryDevice, models.CategoryRefill, models.CategoryAccessory, models.CategorySparePart} {
			if seen[cat] != 1 {
				t.Fatalf("Expected exactly one %s line, got %d", cat, seen[cat])
			}
		}
	}
}

func TestComposeMixDeviceCap(t *testing.T) {
	params := DefaultParams()
	params.PDeviceIfNoDevice = 1.0
	params.PDeviceRepeatBase = 1.0
	params.DeviceRepeatDecay = []float64{1.0, 1.0, 1.0}
	parts := testPartitions()
	rng := utils.NewRandom(1)

	t.Run("AtCap", func(t *testing.T) {
		for i := 0; i < 500; i++ {
			for _, cat := range ComposeMix(rng, params, parts, params.MaxDevices) {
				if cat == models.CategoryDevice {
					t.Fatal("Device line composed for customer at the ownership cap")
				}
			}
		}
	})

	t.Run("BudgetWithinInvoice", func(t *testing.T) {
		owned := params.MaxDevices - 1
		for i := 0; i < 500; i++ {
			devices := 0
			for _, cat := range ComposeMix(rng, params, parts, owned) {
				if cat == models.CategoryDevice {
					devices++
				}
			}
			if devices > 1 {
				t.Fatalf("Mix contains %d device lines with only 1 slot left under the cap", devices)
			}
		}
	})
}

func TestComposeMixForcedCategory(t *testing.T) {
	// With every inclusion gate closed, the first non-empty category in
	// priority order is forced.
	params := DefaultParams()
	params.PDeviceIfNoDevice = 0.0
	params.PDeviceRepeatBase = 0.0
	params.PRefillWhenDevice = 0.0
	params.PRefillWhenNoDevice = 0.0
	params.PAccessoryLine = 0.0
	params.PSparePartLine = 0.0
	rng := utils.NewRandom(1)

	tests := []struct {
		name  string
		parts *models.Partitions
		want  models.Category
	}{
		{"RefillFirst", testPartitions(), models.CategoryRefill},
		{"DeviceWhenNoRefills", &models.Partitions{Device: []int64{1}, Accessory: []int64{2}}, models.CategoryDevice},
		{"AccessoryWhenNoDevices", &models.Partitions{Accessory: []int64{2}, SparePart: []int64{3}}, models.CategoryAccessory},
		{"SparePartLast", &models.Partitions{SparePart: []int64{3}}, models.CategorySparePart},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mix := ComposeMix(rng, params, tt.parts, 0)
			if len(mix) == 0 {
				t.Fatal("Expected a forced category, got empty mix")
			}
			if mix[0] != tt.want {
				t.Errorf("Expected forced category %s, got %s", tt.want, mix[0])
			}
		})
	}
}

func TestComposeMixEmptyPartitions(t *testing.T) {
	rng := utils.NewRandom(1)
	if mix := ComposeMix(rng, DefaultParams(), &models.Partitions{}, 0); mix != nil {
		t.Fatalf("Expected nil mix for empty partitions, got %v", mix)
	}
}

func TestComposeMixFillerSkipsEmptyCategories(t *testing.T) {
	// Only spare parts exist: every slot must be a spare part line.
	params := DefaultParams()
	params.LinesRange = IntRange{Min: 3, Max: 3}
	parts := &models.Partitions{SparePart: []int64{98, 99, 100}}
	rng := utils.NewRandom(1)

	for i := 0; i < 100; i++ {
		mix := ComposeMix(rng, params, parts, 0)
		if len(mix) != 3 {
			t.Fatalf("Expected 3 lines, got %d", len(mix))
		}
		for _, cat := range mix {
			if cat != models.CategorySparePart {
				t.Fatalf("Expected only spare parts, got %s", cat)
			}
		}
	}
}
