package simulator

import (
	"time"

	"github.com/aromalab/retailgen/internal/models"
	"github.com/aromalab/retailgen/internal/utils"
)

type journeyState int

const (
	stateActive journeyState = iota
	stateLost
)

// Journey simulates one customer's month-by-month purchase history from
// their signup date to the horizon. Each journey owns its randomness
// stream, so journeys can run concurrently and in any order with
// reproducible results.
type Journey struct {
	CustomerID int64
	CreatedAt  time.Time
	Horizon    time.Time
	Params     *Params
	Products   *models.Partitions
	StoreIDs   []string

	rng *utils.Random
}

// NewJourney builds a journey for one customer using a dedicated
// randomness stream.
func NewJourney(rng *utils.Random, customerID int64, createdAt, horizon time.Time, params *Params, products *models.Partitions, storeIDs []string) *Journey {
	return &Journey{
		CustomerID: customerID,
		CreatedAt:  createdAt,
		Horizon:    horizon,
		Params:     params,
		Products:   products,
		StoreIDs:   storeIDs,
		rng:        rng,
	}
}

// Run walks the customer through every month between signup and the
// horizon and returns all sale lines produced. An empty result is a valid
// outcome: the customer may churn immediately or simply never buy.
func (j *Journey) Run() []models.SaleLine {
	p := j.Params
	state := stateActive
	devicesOwned := 0
	invoiceSeq := 0

	var lines []models.SaleLine

	for month := utils.MonthStart(j.CreatedAt); !month.After(j.Horizon); month = utils.NextMonth(month) {
		if state != stateActive {
			break
		}

		// Monthly churn comes first: a churning month emits nothing.
		if j.rng.Probability(p.PLostMonth) {
			state = stateLost
			break
		}

		if !j.rng.Probability(p.PBuyMonth) {
			continue
		}

		invoiceSeq++
		invoiceDate := utils.RandomDateInMonth(j.rng, month, j.CreatedAt)
		if invoiceDate.After(j.Horizon) {
			// Past the horizon; stop rather than backdate.
			break
		}

		storeID := ""
		if len(j.StoreIDs) > 0 {
			storeID = j.rng.PickString(j.StoreIDs)
		}

		inv := models.Invoice{
			ID:         models.InvoiceID(j.CustomerID, invoiceDate, invoiceSeq),
			CustomerID: j.CustomerID,
			Date:       invoiceDate,
			StoreID:    storeID,
		}

		mix := ComposeMix(j.rng, p, j.Products, devicesOwned)
		if len(mix) == 0 {
			// Nothing sellable; the invoice is abandoned.
			continue
		}

		var invLines []models.SaleLine
		invLines, devicesOwned = sampleLines(j.rng, p, j.Products, inv, mix, devicesOwned)
		lines = append(lines, invLines...)
	}

	return lines
}
