package generator

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aromalab/retailgen/internal/data"
	"github.com/aromalab/retailgen/internal/models"
	"github.com/aromalab/retailgen/internal/simulator"
	"github.com/aromalab/retailgen/internal/utils"
)

// Orchestrator coordinates the three generation phases: product catalog,
// customer base, and the sales transaction stream.
type Orchestrator struct {
	rng          *utils.Random
	refData      *data.ReferenceData
	config       OrchestratorConfig
	verbose      bool
	showProgress bool

	// Retained between phases
	products  []models.Product
	partition *models.Partitions
	customers []models.Customer
	storeIDs  []string
}

// OrchestratorConfig holds settings for a full generation run
type OrchestratorConfig struct {
	NumCustomers int

	// Catalog shape
	TotalProducts      int
	NumDevices         int
	NumAccessories     int
	NumSpareParts      int
	IncludeBulkRefills bool

	NumStores int

	// Customer signup window and sales horizon
	CreatedAtStart time.Time
	CreatedAtEnd   time.Time
	Horizon        time.Time

	// Customer field probabilities
	Customer CustomerConfig

	// Journey simulation parameters
	Params *simulator.Params

	OutputDir string
	Seed      int64
	Workers   int
	Compress  bool
}

// GenerationResult holds statistics from a generation run
type GenerationResult struct {
	RunID         string
	ProductCount  int
	CustomerCount int
	StoreCount    int
	SaleLineCount int64
	ShardCount    int
	Duration      time.Duration
}

// OrchestratorOptions holds optional settings for the orchestrator
type OrchestratorOptions struct {
	Verbose      bool
	ShowProgress bool
}

// NewOrchestrator validates the simulation parameters up front and
// prepares a run. A bad configuration fails here, before any output file
// is touched.
func NewOrchestrator(config OrchestratorConfig, opts OrchestratorOptions) (*Orchestrator, error) {
	refData, err := data.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load reference data: %w", err)
	}

	if config.Params == nil {
		config.Params = simulator.DefaultParams()
	}
	if err := config.Params.Validate(); err != nil {
		return nil, err
	}

	rng := utils.NewRandom(config.Seed)

	return &Orchestrator{
		rng:          rng,
		refData:      refData,
		config:       config,
		verbose:      opts.Verbose,
		showProgress: opts.ShowProgress,
	}, nil
}

// GenerateEntities generates the product catalog and customer base
func (o *Orchestrator) GenerateEntities() (*GenerationResult, error) {
	startTime := time.Now()
	result := &GenerationResult{}

	o.log("Generating %d products...", o.config.TotalProducts)
	catalogGen := NewCatalogGenerator(o.rng.Fork(), o.refData, CatalogConfig{
		TotalProducts:      o.config.TotalProducts,
		NumDevices:         o.config.NumDevices,
		NumAccessories:     o.config.NumAccessories,
		NumSpareParts:      o.config.NumSpareParts,
		IncludeBulkRefills: o.config.IncludeBulkRefills,
	})
	products, err := catalogGen.Generate()
	if err != nil {
		return nil, fmt.Errorf("catalog generation failed: %w", err)
	}
	o.products = products
	parts := models.PartitionProducts(products)
	o.partition = &parts
	result.ProductCount = len(products)

	if _, err := WriteProductsCSV(products, o.config.OutputDir, o.config.Compress, o.showProgress); err != nil {
		return nil, fmt.Errorf("failed to write products CSV: %w", err)
	}
	o.log("  Wrote products.csv (%d rows)", len(products))

	o.log("Generating %d customers...", o.config.NumCustomers)
	custCfg := o.config.Customer
	custCfg.NumCustomers = o.config.NumCustomers
	custCfg.CreatedAtStart = o.config.CreatedAtStart
	custCfg.CreatedAtEnd = o.config.CreatedAtEnd
	customerGen := NewCustomerGenerator(o.rng.Fork(), o.refData, custCfg)
	customers, err := customerGen.Generate()
	if err != nil {
		return nil, fmt.Errorf("customer generation failed: %w", err)
	}
	o.customers = customers
	result.CustomerCount = len(customers)

	if _, err := WriteCustomersCSV(customers, o.config.OutputDir, o.config.Compress, o.showProgress); err != nil {
		return nil, fmt.Errorf("failed to write customers CSV: %w", err)
	}
	o.log("  Wrote customers.csv (%d rows)", len(customers))

	o.storeIDs = MakeStoreIDs(o.config.NumStores)
	result.StoreCount = len(o.storeIDs)

	result.Duration = time.Since(startTime)
	return result, nil
}

// GenerateSales runs the journey simulator for every customer with
// parallel workers, each streaming to its own shard file.
// Must be called after GenerateEntities.
func (o *Orchestrator) GenerateSales() (*GenerationResult, error) {
	if len(o.customers) == 0 {
		return nil, fmt.Errorf("no customers found - call GenerateEntities first")
	}

	startTime := time.Now()
	result := &GenerationResult{}

	workerCount := GetWorkerCount(o.config.Workers)
	o.log("Generating sales using %d workers...", workerCount)

	refs := make([]models.CustomerRef, len(o.customers))
	for i := range o.customers {
		refs[i] = o.customers[i].Ref()
	}
	workerCustomers := PartitionCustomers(refs, workerCount)

	avgMonths := monthSpan(o.config.CreatedAtStart, o.config.Horizon) / 2.0
	estimatedTotal := EstimateLineCount(len(o.customers), avgMonths, o.config.Params.PBuyMonth)

	var progress *AggregatedProgressReporter
	if o.showProgress {
		progress = NewAggregatedProgressReporter(AggregatedProgressConfig{
			Total:       estimatedTotal,
			Label:       "  Sales lines",
			WorkerCount: workerCount,
		})
		progress.Start()
	}

	var wg sync.WaitGroup
	results := make([]WorkerResult, workerCount)
	errChan := make(chan error, workerCount)

	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			var progressChan chan<- workerProgress
			if progress != nil {
				progressChan = progress.GetProgressChan()
			}

			gen, err := NewSalesShardGenerator(SalesShardConfig{
				WorkerID:     workerID,
				Customers:    workerCustomers[workerID],
				RootRNG:      o.rng,
				Params:       o.config.Params,
				Products:     o.partition,
				StoreIDs:     o.storeIDs,
				Horizon:      o.config.Horizon,
				OutputDir:    o.config.OutputDir,
				Compress:     o.config.Compress,
				ProgressChan: progressChan,
			})
			if err != nil {
				errChan <- fmt.Errorf("worker %d: %w", workerID, err)
				return
			}

			workerStart := time.Now()
			count, err := gen.GenerateAndStream()
			if err != nil {
				errChan <- err
				return
			}

			results[workerID] = WorkerResult{
				WorkerID:  workerID,
				LineCount: count,
				Duration:  time.Since(workerStart),
				ShardFile: gen.ShardFile(),
			}
		}(i)
	}

	wg.Wait()
	close(errChan)

	if progress != nil {
		progress.Finish()
	}

	for err := range errChan {
		return nil, err
	}

	for _, r := range results {
		result.SaleLineCount += r.LineCount
	}
	result.ShardCount = workerCount
	result.Duration = time.Since(startTime)
	return result, nil
}

// GenerateAll runs entity and sales generation and writes the run
// manifest.
func (o *Orchestrator) GenerateAll() (*GenerationResult, error) {
	entityResult, err := o.GenerateEntities()
	if err != nil {
		return nil, err
	}

	salesResult, err := o.GenerateSales()
	if err != nil {
		return nil, err
	}

	entityResult.SaleLineCount = salesResult.SaleLineCount
	entityResult.ShardCount = salesResult.ShardCount
	entityResult.Duration += salesResult.Duration
	entityResult.RunID = uuid.NewString()

	if err := o.writeManifest(entityResult); err != nil {
		return nil, err
	}

	return entityResult, nil
}

// Manifest describes one completed generation run. It is written next to
// the data files so an import can verify what it is loading.
type Manifest struct {
	RunID         string    `json:"run_id"`
	GeneratedAt   time.Time `json:"generated_at"`
	Seed          int64     `json:"seed"`
	Horizon       string    `json:"horizon"`
	ProductCount  int       `json:"product_count"`
	CustomerCount int       `json:"customer_count"`
	StoreCount    int       `json:"store_count"`
	SaleLineCount int64     `json:"sale_line_count"`
	ShardCount    int       `json:"shard_count"`
	Compressed    bool      `json:"compressed"`
}

func (o *Orchestrator) writeManifest(result *GenerationResult) error {
	manifest := Manifest{
		RunID:         result.RunID,
		GeneratedAt:   time.Now().UTC(),
		Seed:          o.config.Seed,
		Horizon:       FormatDate(o.config.Horizon),
		ProductCount:  result.ProductCount,
		CustomerCount: result.CustomerCount,
		StoreCount:    result.StoreCount,
		SaleLineCount: result.SaleLineCount,
		ShardCount:    result.ShardCount,
		Compressed:    o.config.Compress,
	}

	payload, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}

	path := filepath.Join(o.config.OutputDir, "manifest.json")
	if err := os.WriteFile(path, payload, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	o.log("  Wrote manifest.json (run %s)", result.RunID)
	return nil
}

// MakeStoreIDs builds the store id list S0001..SNNNN
func MakeStoreIDs(n int) []string {
	ids := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		ids = append(ids, fmt.Sprintf("S%04d", i))
	}
	return ids
}

// monthSpan returns the approximate number of months between two dates
func monthSpan(start, end time.Time) float64 {
	if end.Before(start) {
		return 0
	}
	return float64(utils.DaysBetween(start, end)) / 30.0
}

// log prints a message if verbose mode is enabled
func (o *Orchestrator) log(format string, args ...interface{}) {
	if o.verbose {
		fmt.Printf(format+"\n", args...)
	}
}

// PrintSummary prints a summary of the generation results
func PrintSummary(result *GenerationResult) {
	fmt.Println()
	fmt.Println("=== Generation Complete ===")
	fmt.Printf("Products:    %d\n", result.ProductCount)
	fmt.Printf("Customers:   %d\n", result.CustomerCount)
	fmt.Printf("Stores:      %d\n", result.StoreCount)
	fmt.Printf("Sale lines:  %d\n", result.SaleLineCount)
	fmt.Printf("Shards:      %d\n", result.ShardCount)
	fmt.Printf("Duration:    %s\n", result.Duration.Round(time.Millisecond))
	fmt.Println()
}
