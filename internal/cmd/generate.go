package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aromalab/retailgen/internal/config"
	"github.com/aromalab/retailgen/internal/generator"
	"github.com/aromalab/retailgen/internal/ui"
)

var (
	// Generation parameters (frequently changed)
	numCustomers int
	numProducts  int
	numStores    int
	horizonDate  string
	outputDir    string
	seed         int64
	entitiesOnly bool
	compress     bool
	workers      int
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the synthetic CRM dataset",
	Long: `Generate a synthetic retail CRM dataset as CSV files.

This command creates:
- products.csv: the product catalog (devices, refills, accessories, spare parts)
- customers.csv: the customer base with partially-filled contact fields
- sales_transactions_NNN.csv: one shard of invoice line items per worker

Each customer runs a month-by-month purchase journey from signup to the
horizon date: device adoption with a repeat-purchase decay, refill habit,
occasional accessories and spare parts, returns, discounts, and churn.
The same seed always reproduces the same dataset, for any worker count.

Journey probabilities and price ranges are configured in
internal/config/defaults.go and can be overridden via retailgen.yaml or
RETAILGEN_* environment variables.

Example:
  retailgen generate --customers 100000
  retailgen generate --customers 10000 --entities   # Catalog + customers only
  retailgen generate --seed 42 --workers 8          # Reproducible`,
	Run: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().IntVar(&numCustomers, "customers", 0, "number of customers to generate (0 = config default)")
	generateCmd.Flags().IntVar(&numProducts, "products", 0, "catalog size (0 = config default)")
	generateCmd.Flags().IntVar(&numStores, "stores", -1, "number of stores, 0 disables store assignment (-1 = config default)")
	generateCmd.Flags().StringVar(&horizonDate, "horizon", "", "last simulated date, YYYY-MM-DD (empty = config default)")
	generateCmd.Flags().StringVar(&outputDir, "output", "", "output directory for CSV files (empty = config default)")
	generateCmd.Flags().Int64Var(&seed, "seed", 0, "random seed for reproducibility (0 = random)")
	generateCmd.Flags().BoolVar(&entitiesOnly, "entities", false, "generate only catalog and customers (no sales)")
	generateCmd.Flags().BoolVar(&compress, "compress", false, "compress output with xz (creates .csv.xz files)")
	generateCmd.Flags().IntVar(&workers, "workers", 0, "number of parallel workers (0 = auto-detect CPUs)")
}

func runGenerate(cmd *cobra.Command, args []string) {
	// Initialize UI
	u := ui.New()
	if noColor {
		u.SetNoColor(true)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, u.Error(err.Error()))
		os.Exit(1)
	}
	applyGenerateFlags(cmd, cfg)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, u.Error(err.Error()))
		os.Exit(1)
	}

	// Check xz availability if compression is requested
	if cfg.Generate.Compress {
		if err := generator.CheckXZAvailable(); err != nil {
			fmt.Fprintln(os.Stderr, u.Error("xz compression requested but xz is not available"))
			fmt.Fprintln(os.Stderr, "Install with: apt install xz-utils (Linux) or brew install xz (macOS)")
			os.Exit(1)
		}
	}

	fmt.Println(u.Header("Retail CRM Dataset Generator"))
	fmt.Println()
	fmt.Println(u.KeyValue("Customers", fmt.Sprintf("%d", cfg.Generate.NumCustomers)))
	fmt.Println(u.KeyValue("Products", fmt.Sprintf("%d", cfg.Generate.TotalProducts)))
	fmt.Println(u.KeyValue("Stores", fmt.Sprintf("%d", cfg.Generate.NumStores)))
	fmt.Println(u.KeyValue("Signups", fmt.Sprintf("%s to %s", cfg.Generate.CreatedAtStart, cfg.Generate.CreatedAtEnd)))
	fmt.Println(u.KeyValue("Horizon", cfg.Generate.Horizon))
	fmt.Println(u.KeyValue("Output", cfg.Generate.OutputDir))
	if cfg.Generate.Seed != 0 {
		fmt.Println(u.KeyValue("Seed", fmt.Sprintf("%d", cfg.Generate.Seed)))
	}
	if cfg.Generate.Compress {
		fmt.Println(u.KeyValue("Compression", "xz (.csv.xz)"))
	}
	workerCount := generator.GetWorkerCount(cfg.Generate.NumWorkers)
	fmt.Println(u.KeyValue("Workers", fmt.Sprintf("%d", workerCount)))
	if entitiesOnly {
		fmt.Println(u.KeyValue("Mode", "entities only (no sales)"))
	}
	fmt.Println()

	orch, err := generator.NewOrchestrator(orchestratorConfig(cfg), generator.OrchestratorOptions{
		Verbose:      verbose,
		ShowProgress: !entitiesOnly,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, u.Error(err.Error()))
		os.Exit(1)
	}

	var result *generator.GenerationResult

	if entitiesOnly {
		spin := u.NewSpinner("Generating catalog and customers")
		spin.Start()
		result, err = orch.GenerateEntities()
		if err != nil {
			spin.Error(err.Error())
			os.Exit(1)
		}
		spin.Success("complete")
	} else {
		fmt.Println(u.Bold("Generating dataset..."))
		result, err = orch.GenerateAll()
		if err != nil {
			fmt.Fprintln(os.Stderr, u.Error(err.Error()))
			os.Exit(1)
		}
	}

	printGenerateSummary(u, result)
	fmt.Println()
	fmt.Println(u.Success("Output files written to: " + cfg.Generate.OutputDir))
}

// applyGenerateFlags overrides the loaded config with flags the user
// actually set on the command line.
func applyGenerateFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("customers") {
		cfg.Generate.NumCustomers = numCustomers
	}
	if cmd.Flags().Changed("products") {
		cfg.Generate.TotalProducts = numProducts
	}
	if cmd.Flags().Changed("stores") {
		cfg.Generate.NumStores = numStores
	}
	if cmd.Flags().Changed("horizon") {
		cfg.Generate.Horizon = horizonDate
	}
	if cmd.Flags().Changed("output") {
		cfg.Generate.OutputDir = outputDir
	}
	if cmd.Flags().Changed("seed") {
		cfg.Generate.Seed = seed
	}
	if cmd.Flags().Changed("workers") {
		cfg.Generate.NumWorkers = workers
	}
	if cmd.Flags().Changed("compress") {
		cfg.Generate.Compress = compress
	}
}

// orchestratorConfig maps a validated Config onto the orchestrator.
// Dates are parsed here; Validate has already rejected malformed ones.
func orchestratorConfig(cfg *config.Config) generator.OrchestratorConfig {
	start, _ := config.ParseDate(cfg.Generate.CreatedAtStart)
	end, _ := config.ParseDate(cfg.Generate.CreatedAtEnd)
	horizon, _ := config.ParseDate(cfg.Generate.Horizon)

	return generator.OrchestratorConfig{
		NumCustomers: cfg.Generate.NumCustomers,

		TotalProducts:      cfg.Generate.TotalProducts,
		NumDevices:         cfg.Generate.NumDevices,
		NumAccessories:     cfg.Generate.NumAccessories,
		NumSpareParts:      cfg.Generate.NumSpareParts,
		IncludeBulkRefills: cfg.Generate.BulkRefills,

		NumStores: cfg.Generate.NumStores,

		CreatedAtStart: start,
		CreatedAtEnd:   end,
		Horizon:        horizon,

		Customer: generator.CustomerConfig{
			NumCustomers:   cfg.Generate.NumCustomers,
			CreatedAtStart: start,
			CreatedAtEnd:   end,

			PFirstName: cfg.Generate.PFirstName,
			PLastName:  cfg.Generate.PLastName,
			PEmail:     cfg.Generate.PEmail,
			PPhone:     cfg.Generate.PPhone,

			PEmailOptInIfEmailPresent: cfg.Generate.PEmailOptInIfEmailPresent,
			PEmailOptInIfEmailMissing: cfg.Generate.PEmailOptInIfEmailMissing,
			PSMSOptInIfPhonePresent:   cfg.Generate.PSMSOptInIfPhonePresent,
			PSMSOptInIfPhoneMissing:   cfg.Generate.PSMSOptInIfPhoneMissing,
			PCallOptInIfPhonePresent:  cfg.Generate.PCallOptInIfPhonePresent,
			PCallOptInIfPhoneMissing:  cfg.Generate.PCallOptInIfPhoneMissing,
		},

		Params: cfg.Sales.Params(),

		OutputDir: cfg.Generate.OutputDir,
		Seed:      cfg.Generate.Seed,
		Workers:   cfg.Generate.NumWorkers,
		Compress:  cfg.Generate.Compress,
	}
}

// printGenerateSummary prints a styled generation summary
func printGenerateSummary(u *ui.UI, result *generator.GenerationResult) {
	items := []ui.KV{
		{Key: "Products", Value: fmt.Sprintf("%d", result.ProductCount)},
		{Key: "Customers", Value: fmt.Sprintf("%d", result.CustomerCount)},
		{Key: "Stores", Value: fmt.Sprintf("%d", result.StoreCount)},
		{Key: "Sale lines", Value: fmt.Sprintf("%d", result.SaleLineCount)},
		{Key: "Shards", Value: fmt.Sprintf("%d", result.ShardCount)},
		{Key: "Duration", Value: result.Duration.Round(time.Millisecond).String()},
		{Key: "Status", Value: "Success"},
	}
	if result.RunID != "" {
		items = append([]ui.KV{{Key: "Run ID", Value: result.RunID}}, items...)
	}

	fmt.Println(u.SummaryBox("Generation Complete", items))
}
