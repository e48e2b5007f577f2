package generator

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aromalab/retailgen/internal/data"
	"github.com/aromalab/retailgen/internal/models"
	"github.com/aromalab/retailgen/internal/utils"
)

// CustomerConfig controls customer base generation.
// Contact fields are optional per customer: each is present with its own
// probability, and marketing opt-ins depend on whether the matching
// channel exists.
type CustomerConfig struct {
	NumCustomers int

	// Signup date range, uniform by day
	CreatedAtStart time.Time
	CreatedAtEnd   time.Time

	// Field presence probabilities
	PFirstName float64
	PLastName  float64
	PEmail     float64
	PPhone     float64

	// Opt-in probabilities conditioned on channel presence
	PEmailOptInIfEmailPresent float64
	PEmailOptInIfEmailMissing float64
	PSMSOptInIfPhonePresent   float64
	PSMSOptInIfPhoneMissing   float64
	PCallOptInIfPhonePresent  float64
	PCallOptInIfPhoneMissing  float64
}

// CustomerGenerator produces the customer base from embedded name data
type CustomerGenerator struct {
	rng     *utils.Random
	refData *data.ReferenceData
	config  CustomerConfig
}

// NewCustomerGenerator creates a customer generator
func NewCustomerGenerator(rng *utils.Random, refData *data.ReferenceData, config CustomerConfig) *CustomerGenerator {
	return &CustomerGenerator{
		rng:     rng,
		refData: refData,
		config:  config,
	}
}

// Generate builds all customers, sorted by signup date with sequential
// ids starting at 1, so lower ids are always older customers.
func (g *CustomerGenerator) Generate() ([]models.Customer, error) {
	cfg := g.config
	if cfg.CreatedAtStart.After(cfg.CreatedAtEnd) {
		return nil, fmt.Errorf("created_at_start %s is after created_at_end %s",
			FormatDate(cfg.CreatedAtStart), FormatDate(cfg.CreatedAtEnd))
	}

	totalDays := utils.DaysBetween(cfg.CreatedAtStart, cfg.CreatedAtEnd)

	customers := make([]models.Customer, cfg.NumCustomers)
	for i := range customers {
		c := &customers[i]
		c.CreatedAt = cfg.CreatedAtStart.AddDate(0, 0, g.rng.IntRange(0, totalDays))

		if g.rng.Probability(cfg.PFirstName) {
			c.FirstName = g.rng.PickString(g.refData.Names.FirstNames)
		}
		if g.rng.Probability(cfg.PLastName) {
			c.LastName = g.rng.PickString(g.refData.Names.LastNames)
		}
		if g.rng.Probability(cfg.PEmail) {
			c.Email = g.generateEmail(c.FirstName, c.LastName)
		}
		if g.rng.Probability(cfg.PPhone) {
			c.Phone = g.generatePhone()
		}

		if c.Email != "" {
			c.EmailOptIn = g.rng.Probability(cfg.PEmailOptInIfEmailPresent)
		} else {
			c.EmailOptIn = g.rng.Probability(cfg.PEmailOptInIfEmailMissing)
		}
		if c.Phone != "" {
			c.SMSOptIn = g.rng.Probability(cfg.PSMSOptInIfPhonePresent)
			c.CallOptIn = g.rng.Probability(cfg.PCallOptInIfPhonePresent)
		} else {
			c.SMSOptIn = g.rng.Probability(cfg.PSMSOptInIfPhoneMissing)
			c.CallOptIn = g.rng.Probability(cfg.PCallOptInIfPhoneMissing)
		}
	}

	// Stable sort keeps generation order for same-day signups, so the
	// result is fully deterministic.
	sort.SliceStable(customers, func(i, j int) bool {
		return customers[i].CreatedAt.Before(customers[j].CreatedAt)
	})
	for i := range customers {
		customers[i].ID = int64(i + 1)
	}

	return customers, nil
}

// generateEmail builds an email address, falling back to random names
// when the customer record has none.
func (g *CustomerGenerator) generateEmail(firstName, lastName string) string {
	if firstName == "" {
		firstName = g.rng.PickString(g.refData.Names.FirstNames)
	}
	if lastName == "" {
		lastName = g.rng.PickString(g.refData.Names.LastNames)
	}
	domain := g.rng.PickString(g.refData.Names.EmailDomains)

	local := strings.ToLower(firstName) + "." + strings.ToLower(lastName)
	// A numeric suffix keeps addresses mostly unique across a large base.
	if g.rng.Probability(0.7) {
		local += g.rng.NumericString(2 + g.rng.IntN(3))
	}
	return local + "@" + domain
}

func (g *CustomerGenerator) generatePhone() string {
	return fmt.Sprintf("+1-%s-%s-%s",
		g.rng.NumericString(3),
		g.rng.NumericString(3),
		g.rng.NumericString(4))
}

// CustomerColumns is the column contract of customers.csv
var CustomerColumns = []string{
	"customer_id",
	"created_at",
	"first_name",
	"last_name",
	"email",
	"phone",
	"email_opt_in",
	"sms_opt_in",
	"call_opt_in",
}

// WriteCustomersCSV writes the customer base to customers.csv
func WriteCustomersCSV(customers []models.Customer, outputDir string, compress, showProgress bool) (string, error) {
	writer, err := NewCSVWriter(CSVWriterConfig{
		OutputDir: outputDir,
		Filename:  "customers",
		Headers:   CustomerColumns,
		Compress:  compress,
	})
	if err != nil {
		return "", err
	}

	var progress *ProgressReporter
	if showProgress {
		progress = NewProgressReporter(ProgressConfig{
			Total: int64(len(customers)),
			Label: "  Customers",
		})
	}

	for i := range customers {
		c := &customers[i]
		row := []string{
			FormatInt64(c.ID),
			FormatDate(c.CreatedAt),
			c.FirstName,
			c.LastName,
			c.Email,
			c.Phone,
			FormatBool(c.EmailOptIn),
			FormatBool(c.SMSOptIn),
			FormatBool(c.CallOptIn),
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
