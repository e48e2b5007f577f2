package simulator

import (
	"fmt"
	"strings"

	"github.com/aromalab/retailgen/internal/models"
)

// IntRange is an inclusive integer range
type IntRange struct {
	Min int
	Max int
}

// FloatRange is an inclusive real range
type FloatRange struct {
	Min float64
	Max float64
}

// Params holds every tunable of the purchase journey simulation.
// All values can be overridden independently; DefaultParams documents
// the baseline behavior.
type Params struct {
	// Monthly dynamics
	PBuyMonth  float64
	PLostMonth float64

	// Device ownership logic
	PDeviceIfNoDevice float64
	PDeviceRepeatBase float64
	DeviceRepeatDecay []float64
	MaxDevices        int

	// Category inclusion
	PRefillWhenDevice   float64
	PRefillWhenNoDevice float64
	PAccessoryLine      float64
	PSparePartLine      float64

	// Invoice shape
	LinesRange IntRange

	// Quantities per category
	QtyDevice    IntRange
	QtyRefill    IntRange
	QtyAccessory IntRange
	QtySpare     IntRange

	// Unit prices per category
	PriceDevice    FloatRange
	PriceRefill    FloatRange
	PriceAccessory FloatRange
	PriceSpare     FloatRange

	// Line modifiers
	PReturnLine     float64
	PDiscountedLine float64
	DiscountMax     float64
}

// DefaultParams returns the baseline simulation parameters
func DefaultParams() *Params {
	return &Params{
		PBuyMonth:  0.70,
		PLostMonth: 0.01,

		PDeviceIfNoDevice: 0.90,
		PDeviceRepeatBase: 0.03,
		DeviceRepeatDecay: []float64{1.0, 0.4, 0.2, 0.1},
		MaxDevices:        3,

		PRefillWhenDevice:   0.85,
		PRefillWhenNoDevice: 0.85,
		PAccessoryLine:      0.07,
		PSparePartLine:      0.04,

		LinesRange: IntRange{Min: 1, Max: 3},

		QtyDevice:    IntRange{Min: 1, Max: 1},
		QtyRefill:    IntRange{Min: 1, Max: 3},
		QtyAccessory: IntRange{Min: 1, Max: 1},
		QtySpare:     IntRange{Min: 1, Max: 1},

		PriceDevice:    FloatRange{Min: 120.0, Max: 650.0},
		PriceRefill:    FloatRange{Min: 10.0, Max: 60.0},
		PriceAccessory: FloatRange{Min: 10.0, Max: 40.0},
		PriceSpare:     FloatRange{Min: 15.0, Max: 80.0},

		PReturnLine:     0.01,
		PDiscountedLine: 0.35,
		DiscountMax:     0.25,
	}
}

// QtyRange returns the quantity range for a category
func (p *Params) QtyRange(cat models.Category) IntRange {
	switch cat {
	case models.CategoryDevice:
		return p.QtyDevice
	case models.CategoryRefill:
		return p.QtyRefill
	case models.CategoryAccessory:
		return p.QtyAccessory
	default:
		return p.QtySpare
	}
}

// PriceRange returns the unit price range for a category
func (p *Params) PriceRange(cat models.Category) FloatRange {
	switch cat {
	case models.CategoryDevice:
		return p.PriceDevice
	case models.CategoryRefill:
		return p.PriceRefill
	case models.CategoryAccessory:
		return p.PriceAccessory
	default:
		return p.PriceSpare
	}
}

// Validate checks all parameters and reports every problem at once,
// so a bad configuration fails before any customer is simulated.
func (p *Params) Validate() error {
	var errs []string

	probs := []struct {
		name  string
		value float64
	}{
		{"p_buy_month", p.PBuyMonth},
		{"p_lost_month", p.PLostMonth},
		{"p_device_if_no_device", p.PDeviceIfNoDevice},
		{"p_device_repeat_base", p.PDeviceRepeatBase},
		{"p_refill_when_device", p.PRefillWhenDevice},
		{"p_refill_when_no_device", p.PRefillWhenNoDevice},
		{"p_accessory_line", p.PAccessoryLine},
		{"p_spare_part_line", p.PSparePartLine},
		{"p_return_line", p.PReturnLine},
		{"p_discounted_line", p.PDiscountedLine},
		{"discount_max", p.DiscountMax},
	}
	for _, pr := range probs {
		if pr.value < 0 || pr.value > 1 {
			errs = append(errs, fmt.Sprintf("%s must be between 0.0 and 1.0 (got %g)", pr.name, pr.value))
		}
	}

	if p.MaxDevices < 0 {
		errs = append(errs, "max_devices must be non-negative")
	}
	if len(p.DeviceRepeatDecay) == 0 {
		errs = append(errs, "device_repeat_decay must not be empty")
	}
	for i, d := range p.DeviceRepeatDecay {
		if d < 0 || d > 1 {
			errs = append(errs, fmt.Sprintf("device_repeat_decay[%d] must be between 0.0 and 1.0 (got %g)", i, d))
		}
		if i > 0 && d > p.DeviceRepeatDecay[i-1] {
			errs = append(errs, fmt.Sprintf("device_repeat_decay must be non-increasing (index %d)", i))
		}
	}

	intRanges := []struct {
		name string
		r    IntRange
	}{
		{"lines_range", p.LinesRange},
		{"qty_device", p.QtyDevice},
		{"qty_refill", p.QtyRefill},
		{"qty_accessory", p.QtyAccessory},
		{"qty_spare", p.QtySpare},
	}
	for _, ir := range intRanges {
		if ir.r.Min < 1 {
			errs = append(errs, fmt.Sprintf("%s min must be at least 1 (got %d)", ir.name, ir.r.Min))
		}
		if ir.r.Min > ir.r.Max {
			errs = append(errs, fmt.Sprintf("%s min must not exceed max (%d > %d)", ir.name, ir.r.Min, ir.r.Max))
		}
	}

	floatRanges := []struct {
		name string
		r    FloatRange
	}{
		{"price_device", p.PriceDevice},
		{"price_refill", p.PriceRefill},
		{"price_accessory", p.PriceAccessory},
		{"price_spare", p.PriceSpare},
	}
	for _, fr := range floatRanges {
		if fr.r.Min < 0 {
			errs = append(errs, fmt.Sprintf("%s min must be non-negative (got %g)", fr.name, fr.r.Min))
		}
		if fr.r.Min > fr.r.Max {
			errs = append(errs, fmt.Sprintf("%s min must not exceed max (%g > %g)", fr.name, fr.r.Min, fr.r.Max))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("simulation parameter errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
