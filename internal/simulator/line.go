package simulator

import (
	"github.com/aromalab/retailgen/internal/models"
	"github.com/aromalab/retailgen/internal/utils"
)

// sampleLines turns a composed category mix into concrete sale lines for
// one invoice. Products are drawn without replacement within the invoice
// whenever a category's list is large enough; repeats are allowed otherwise.
// Returns the updated device ownership count.
func sampleLines(rng *utils.Random, p *Params, parts *models.Partitions, inv models.Invoice, mix []models.Category, devicesOwned int) ([]models.SaleLine, int) {
	// Pre-draw product ids per category so duplicates within one invoice
	// only appear when a list is too small to avoid them.
	counts := make(map[models.Category]int, 4)
	for _, cat := range mix {
		counts[cat]++
	}
	picks := make(map[models.Category][]int64, len(counts))
	for _, cat := range models.Categories {
		if n := counts[cat]; n > 0 {
			picks[cat] = rng.SampleInt64s(parts.ByCategory(cat), n)
		}
	}

	lines := make([]models.SaleLine, 0, len(mix))
	for _, cat := range mix {
		ids := picks[cat]
		if len(ids) == 0 {
			continue
		}
		productID := ids[0]
		picks[cat] = ids[1:]

		qtyRange := p.QtyRange(cat)
		qty := rng.IntRange(qtyRange.Min, qtyRange.Max)
		priceRange := p.PriceRange(cat)
		unitPrice := rng.Float64Range(priceRange.Min, priceRange.Max)

		if cat == models.CategoryDevice && devicesOwned < p.MaxDevices {
			devicesOwned++
		}

		discount := 0.0
		if rng.Probability(p.PDiscountedLine) {
			discount = rng.Float64Range(0.0, p.DiscountMax)
		}

		if rng.Probability(p.PReturnLine) {
			if qty > 0 {
				qty = -qty
			}
		}

		revenue := utils.FromFloat(float64(qty) * unitPrice * (1.0 - discount))

		lines = append(lines, models.SaleLine{
			InvoiceID:   inv.ID,
			CustomerID:  inv.CustomerID,
			InvoiceDate: inv.Date,
			ProductID:   productID,
			Quantity:    qty,
			Revenue:     revenue,
			StoreID:     inv.StoreID,
		})
	}

	return lines, devicesOwned
}
