package generator

import (
	"fmt"
	"time"

	"github.com/aromalab/retailgen/internal/models"
	"github.com/aromalab/retailgen/internal/simulator"
	"github.com/aromalab/retailgen/internal/utils"
)

// SalesShardConfig configures one sales generation worker. Each worker
// writes its own shard file, so workers never contend on output.
type SalesShardConfig struct {
	WorkerID  int
	Customers []models.CustomerRef

	// RootRNG is the run's seed source. Each customer derives a private
	// stream from it by id, so a customer's history is identical no
	// matter which worker simulates it.
	RootRNG *utils.Random

	Params   *simulator.Params
	Products *models.Partitions
	StoreIDs []string
	Horizon  time.Time

	OutputDir string
	Compress  bool

	// ProgressChan receives absolute line counts (optional)
	ProgressChan chan<- workerProgress
}

// SalesShardGenerator streams one worker's share of customers through the
// journey simulator into a shard of sales_transactions.
type SalesShardGenerator struct {
	config SalesShardConfig
	writer *CSVWriter
}

// NewSalesShardGenerator opens the worker's shard file
// (sales_transactions_NNN.csv) and prepares for streaming.
func NewSalesShardGenerator(cfg SalesShardConfig) (*SalesShardGenerator, error) {
	writer, err := NewCSVWriter(CSVWriterConfig{
		OutputDir: cfg.OutputDir,
		Filename:  fmt.Sprintf("sales_transactions_%03d", cfg.WorkerID),
		Headers:   models.SaleColumns,
		Compress:  cfg.Compress,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create sales shard: %w", err)
	}

	return &SalesShardGenerator{
		config: cfg,
		writer: writer,
	}, nil
}

// GenerateAndStream simulates every assigned customer and writes their
// sale lines to the shard. Returns the number of lines written.
func (g *SalesShardGenerator) GenerateAndStream() (int64, error) {
	cfg := g.config
	var count int64

	const progressEvery = 1000
	lastReported := int64(0)

	for _, customer := range cfg.Customers {
		rng := cfg.RootRNG.ForID(customer.ID)
		journey := simulator.NewJourney(rng, customer.ID, customer.CreatedAt, cfg.Horizon, cfg.Params, cfg.Products, cfg.StoreIDs)

		lines := journey.Run()
		if len(lines) == 0 {
			continue
		}

		rows := make([][]string, len(lines))
		for i := range lines {
			l := &lines[i]
			rows[i] = []string{
				l.InvoiceID,
				FormatInt64(l.CustomerID),
				FormatDate(l.InvoiceDate),
				FormatInt64(l.ProductID),
				FormatInt(l.Quantity),
				FormatMoney(l.Revenue),
				l.StoreID,
			}
		}
		if err := g.writer.WriteRows(rows); err != nil {
			g.writer.Close()
			return count, fmt.Errorf("worker %d: %w", cfg.WorkerID, err)
		}
		count += int64(len(rows))

		if cfg.ProgressChan != nil && count-lastReported >= progressEvery {
			lastReported = count
			select {
			case cfg.ProgressChan <- workerProgress{workerID: cfg.WorkerID, count: count}:
			default:
			}
		}
	}

	if cfg.ProgressChan != nil {
		select {
		case cfg.ProgressChan <- workerProgress{workerID: cfg.WorkerID, count: count}:
		default:
		}
	}

	if err := g.writer.Close(); err != nil {
		return count, fmt.Errorf("worker %d: failed to close shard: %w", cfg.WorkerID, err)
	}

	return count, nil
}

// ShardFile returns the path of the shard this worker wrote
func (g *SalesShardGenerator) ShardFile() string {
	return g.writer.Path()
}
