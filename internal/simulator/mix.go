package simulator

import (
	"github.com/aromalab/retailgen/internal/models"
	"github.com/aromalab/retailgen/internal/utils"
)

// fillerPolicy orders categories by preference when padding an invoice
// beyond its mandatory lines. Refills dominate; devices are rare add-ons.
var fillerPolicy = []struct {
	Category models.Category
	Weight   int
}{
	{models.CategoryRefill, 70},
	{models.CategoryDevice, 10},
	{models.CategoryAccessory, 12},
	{models.CategorySparePart, 8},
}

// forcedPriority is the order in which a category is force-included when
// every inclusion gate failed.
var forcedPriority = []models.Category{
	models.CategoryRefill,
	models.CategoryDevice,
	models.CategoryAccessory,
	models.CategorySparePart,
}

// ComposeMix decides which category each line of one invoice belongs to.
// It is a pure decision function over the provided randomness stream: the
// caller owns devicesOwned and applies ownership changes during line
// generation.
//
// A customer at the device cap never receives a device line, neither as a
// mandatory pick nor as filler. Returns nil when every category list is
// empty, which abandons the invoice.
func ComposeMix(rng *utils.Random, p *Params, parts *models.Partitions, devicesOwned int) []models.Category {
	// Remaining device lines this customer may still accumulate. Counted
	// down as the mix takes device slots so one invoice cannot push
	// ownership past the cap.
	deviceBudget := p.MaxDevices - devicesOwned

	deviceEligible := deviceBudget > 0 && parts.Has(models.CategoryDevice)

	includeDevice := false
	if deviceEligible {
		if devicesOwned == 0 {
			includeDevice = rng.Probability(p.PDeviceIfNoDevice)
		} else {
			idx := devicesOwned
			if idx > len(p.DeviceRepeatDecay)-1 {
				idx = len(p.DeviceRepeatDecay) - 1
			}
			includeDevice = rng.Probability(p.PDeviceRepeatBase * p.DeviceRepeatDecay[idx])
		}
	}

	// Refill coupling follows device presence on this invoice, not
	// ownership history.
	var includeRefill bool
	if includeDevice {
		includeRefill = rng.Probability(p.PRefillWhenDevice)
	} else {
		includeRefill = rng.Probability(p.PRefillWhenNoDevice)
	}

	includeAccessory := rng.Probability(p.PAccessoryLine)
	includeSpare := rng.Probability(p.PSparePartLine)

	totalLines := rng.IntRange(p.LinesRange.Min, p.LinesRange.Max)

	var mix []models.Category
	if includeDevice {
		mix = append(mix, models.CategoryDevice)
		deviceBudget--
	}
	if includeRefill && parts.Has(models.CategoryRefill) {
		mix = append(mix, models.CategoryRefill)
	}
	if includeAccessory && parts.Has(models.CategoryAccessory) {
		mix = append(mix, models.CategoryAccessory)
	}
	if includeSpare && parts.Has(models.CategorySparePart) {
		mix = append(mix, models.CategorySparePart)
	}

	if len(mix) == 0 {
		forced := forceCategory(parts, deviceBudget > 0)
		if forced == "" {
			return nil
		}
		mix = append(mix, forced)
		if forced == models.CategoryDevice {
			deviceBudget--
		}
	}

	// Pad remaining slots with weighted picks over the categories that can
	// actually serve a line.
	for len(mix) < totalLines {
		var candidates []models.Category
		var weights []int
		for _, f := range fillerPolicy {
			if !parts.Has(f.Category) {
				continue
			}
			if f.Category == models.CategoryDevice && deviceBudget <= 0 {
				continue
			}
			candidates = append(candidates, f.Category)
			weights = append(weights, f.Weight)
		}
		if len(candidates) == 0 {
			if mix[0] == models.CategoryDevice && deviceBudget <= 0 {
				break
			}
			mix = append(mix, mix[0])
			continue
		}
		pick := candidates[rng.WeightedPick(weights)]
		if pick == models.CategoryDevice {
			deviceBudget--
		}
		mix = append(mix, pick)
	}

	return mix
}

// forceCategory returns the first category with products in priority order,
// or "" when no category has any.
func forceCategory(parts *models.Partitions, deviceAllowed bool) models.Category {
	for _, cat := range forcedPriority {
		if cat == models.CategoryDevice && !deviceAllowed {
			continue
		}
		if parts.Has(cat) {
			return cat
		}
	}
	return ""
}
