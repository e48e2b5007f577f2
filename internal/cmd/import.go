package cmd

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/spf13/cobra"

	"github.com/aromalab/retailgen/internal/generator"
	"github.com/aromalab/retailgen/internal/models"
	"github.com/aromalab/retailgen/internal/ui"
)

var (
	importDBConnection string
	importInputDir     string
	importMaxOpenConns int
	importMaxIdleConns int
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import CSV data into MySQL/MariaDB database",
	Long: `Import generated CSV data into a MySQL/MariaDB database using LOAD DATA LOCAL INFILE.

This command performs bulk data loading with automatic parallelization.
It handles both plain CSV files and xz-compressed files (.csv.xz), and
loads sharded sales files (sales_transactions_000.csv, ...) in order.

The import process:
1. Creates tables if they don't exist
2. Disables foreign key and unique checks for speed
3. Loads all tables in parallel with fail-fast cancellation
4. Creates indexes and foreign keys after loading

Sales CSV headers are verified before loading. The historical column
names net_amount (revenue) and qty (quantity) are accepted; any other
unexpected column aborts the import.

Examples:
  retailgen import --db "user:pass@tcp(localhost:3306)/crm"
  retailgen import --db "user:pass@tcp(localhost:3306)/crm" --input ./my-data`,
	Run: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVar(&importDBConnection, "db", "", "database connection string (required)")
	importCmd.Flags().StringVar(&importInputDir, "input", "./output", "input directory containing CSV files")
	importCmd.Flags().IntVar(&importMaxOpenConns, "db-max-open", 10, "max open database connections")
	importCmd.Flags().IntVar(&importMaxIdleConns, "db-max-idle", 10, "max idle database connections")

	importCmd.MarkFlagRequired("db")
}

// tableConfig holds metadata for loading a single table
type tableConfig struct {
	name    string
	csvFile string
	loadSQL string

	// Expected CSV header and accepted legacy column names.
	headerCols    []string
	headerAliases map[string]string
}

// loadResult holds the result of loading a table
type loadResult struct {
	table    string
	rows     int64
	duration time.Duration
	err      error
}

// salesHeaderAliases maps historical sales column names onto the
// current contract.
var salesHeaderAliases = map[string]string{
	"net_amount": "revenue",
	"qty":        "quantity",
}

// All tables with their LOAD DATA INFILE SQL
var tablesToLoad = []tableConfig{
	{
		name:       "raw_products",
		csvFile:    "products",
		headerCols: generator.ProductColumns,
		loadSQL: `LOAD DATA LOCAL INFILE '%s'
INTO TABLE raw_products
FIELDS TERMINATED BY ','
ENCLOSED BY '"'
LINES TERMINATED BY '\n'
IGNORE 1 LINES
(product_id, product_name, brand, category, @grammage_g)
SET
    grammage_g = NULLIF(@grammage_g, '')`,
	},
	{
		name:       "raw_customers",
		csvFile:    "customers",
		headerCols: generator.CustomerColumns,
		loadSQL: `LOAD DATA LOCAL INFILE '%s'
INTO TABLE raw_customers
FIELDS TERMINATED BY ','
ENCLOSED BY '"'
LINES TERMINATED BY '\n'
IGNORE 1 LINES
(customer_id, created_at, @first_name, @last_name, @email, @phone,
 email_opt_in, sms_opt_in, call_opt_in)
SET
    first_name = NULLIF(@first_name, ''),
    last_name = NULLIF(@last_name, ''),
    email = NULLIF(@email, ''),
    phone = NULLIF(@phone, '')`,
	},
	{
		name:          "raw_sales_transactions",
		csvFile:       "sales_transactions",
		headerCols:    models.SaleColumns,
		headerAliases: salesHeaderAliases,
		loadSQL: `LOAD DATA LOCAL INFILE '%s'
INTO TABLE raw_sales_transactions
FIELDS TERMINATED BY ','
ENCLOSED BY '"'
LINES TERMINATED BY '\n'
IGNORE 1 LINES
(invoice_id, customer_id, invoice_date, product_id, quantity, revenue, @store_id)
SET
    store_id = NULLIF(@store_id, '')`,
	},
}

func runImport(cmd *cobra.Command, args []string) {
	// Initialize UI
	u := ui.New()
	if noColor {
		u.SetNoColor(true)
	}

	fmt.Println(u.Header("Retail CRM Data Importer"))
	fmt.Println()
	fmt.Println(u.KeyValue("Database", maskDSN(importDBConnection)))
	fmt.Println(u.KeyValue("Input", importInputDir))
	fmt.Println(u.KeyValue("DB Pool", fmt.Sprintf("%d open / %d idle", importMaxOpenConns, importMaxIdleConns)))
	fmt.Println()

	// Validate input directory
	if err := validateInputDir(importInputDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Check xz availability if we have compressed files
	if hasCompressedFiles(importInputDir) {
		if _, err := exec.LookPath("xz"); err != nil {
			fmt.Fprintln(os.Stderr, "Error: xz not found but compressed files detected")
			fmt.Fprintln(os.Stderr, "Install xz-utils (Linux) or xz (macOS via Homebrew)")
			os.Exit(1)
		}
	}

	// Enable LOCAL INFILE in DSN
	dsn := ensureLocalInfileEnabled(importDBConnection)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// Configure pool for parallel loading
	db.SetMaxOpenConns(importMaxOpenConns)
	db.SetMaxIdleConns(importMaxIdleConns)

	// Test connection
	ctx := context.Background()
	spin := u.NewSpinner("Connecting to database")
	spin.Start()
	if err := db.PingContext(ctx); err != nil {
		spin.Error("connection failed: " + err.Error())
		os.Exit(1)
	}
	spin.Success("connected!")

	// Create schema if needed
	spinTables := u.NewSpinner("Creating tables")
	spinTables.Start()
	if err := createTablesIfNotExist(ctx, db); err != nil {
		spinTables.Error("failed: " + err.Error())
		os.Exit(1)
	}
	spinTables.Success("tables ready")

	// Disable checks for bulk loading
	if err := disableChecks(ctx, db); err != nil {
		fmt.Fprintf(os.Stderr, "Error disabling checks: %v\n", err)
		os.Exit(1)
	}

	// Load all tables in parallel
	u.Section("Loading data...")
	startTime := time.Now()
	results, loadErr := loadTablesParallel(ctx, db, importInputDir, u)
	loadDuration := time.Since(startTime)

	// Stop early if any table failed
	if loadErr != nil {
		fmt.Fprintln(os.Stderr, u.Error("Import stopped due to error"))
		printImportSummary(u, results, loadDuration)
		os.Exit(1)
	}

	// Re-enable checks
	if err := enableChecks(ctx, db); err != nil {
		fmt.Fprintf(os.Stderr, "Error re-enabling checks: %v\n", err)
		os.Exit(1)
	}

	// Create indexes
	u.Section("Creating indexes...")
	if err := createIndexes(ctx, db, u); err != nil {
		fmt.Fprintln(os.Stderr, u.Error("Error creating indexes: "+err.Error()))
		os.Exit(1)
	}

	printImportSummary(u, results, loadDuration)
}

// createTablesIfNotExist creates tables using CREATE TABLE IF NOT EXISTS
func createTablesIfNotExist(ctx context.Context, db *sql.DB) error {
	content, err := schemaFS.ReadFile("schemas/schema_no_indexes.sql")
	if err != nil {
		return fmt.Errorf("failed to read schema: %w", err)
	}

	for _, stmt := range splitSQLStatements(string(content)) {
		trimmed := strings.TrimSpace(stmt)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(strings.ToUpper(trimmed), "CREATE TABLE") {
			trimmed = strings.Replace(trimmed, "CREATE TABLE", "CREATE TABLE IF NOT EXISTS", 1)
		}
		if _, err := db.ExecContext(ctx, trimmed); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	return nil
}

// createIndexes creates indexes and foreign keys after data load
func createIndexes(ctx context.Context, db *sql.DB, u *ui.UI) error {
	content, err := schemaFS.ReadFile("schemas/schema_indexes.sql")
	if err != nil {
		return fmt.Errorf("failed to read index schema: %w", err)
	}

	var stmts []string
	for _, stmt := range splitSQLStatements(string(content)) {
		if strings.TrimSpace(stmt) != "" {
			stmts = append(stmts, stmt)
		}
	}

	progress := u.NewIndexProgress(len(stmts))

	for i, stmt := range stmts {
		progress.Update(i + 1)

		if _, err := db.ExecContext(ctx, stmt); err != nil {
			// Ignore "already exists" errors for indexes and constraints
			errStr := err.Error()
			if strings.Contains(errStr, "Duplicate") ||
				strings.Contains(errStr, "already exists") {
				continue
			}
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	progress.Complete()

	return nil
}

// loadTablesParallel loads all tables concurrently with fail-fast behavior
func loadTablesParallel(ctx context.Context, db *sql.DB, inputDir string, u *ui.UI) ([]loadResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]loadResult, len(tablesToLoad))
	var mu sync.Mutex
	var firstErr error
	var wg sync.WaitGroup

	for i, table := range tablesToLoad {
		wg.Add(1)
		go func(idx int, tbl tableConfig) {
			defer wg.Done()

			// Check if cancelled before starting
			select {
			case <-ctx.Done():
				return
			default:
			}

			result := loadTable(ctx, db, inputDir, tbl, u)
			results[idx] = result

			if result.err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = result.err
				}
				mu.Unlock()
				cancel() // Immediately cancel all other goroutines
			}
		}(i, table)
	}

	wg.Wait()
	return results, firstErr
}

// loadTable loads a single table from CSV (supports sharded files)
func loadTable(ctx context.Context, db *sql.DB, inputDir string, tbl tableConfig, u *ui.UI) loadResult {
	start := time.Now()
	result := loadResult{table: tbl.name}

	// Check for sharded files first (sales_transactions_000.csv, etc.)
	shardedFiles := findShardedFiles(inputDir, tbl.csvFile)
	if len(shardedFiles) > 0 {
		u.PrintShardLoading(tbl.name, len(shardedFiles))
		result.rows, result.err = loadShardedFiles(ctx, db, shardedFiles, tbl)
		result.duration = time.Since(start)

		u.PrintTableLoadResult(tbl.name, result.rows, result.duration, len(shardedFiles), result.err)
		return result
	}

	// Fall back to single file (prefer .csv.xz, fall back to .csv)
	csvPath := filepath.Join(inputDir, tbl.csvFile+".csv")
	xzPath := filepath.Join(inputDir, tbl.csvFile+".csv.xz")

	var filePath string
	var isCompressed bool

	if _, err := os.Stat(xzPath); err == nil {
		filePath = xzPath
		isCompressed = true
	} else if _, err := os.Stat(csvPath); err == nil {
		filePath = csvPath
		isCompressed = false
	} else {
		result.err = fmt.Errorf("file not found: %s or %s", csvPath, xzPath)
		u.PrintTableLoadResult(tbl.name, 0, time.Since(start), 1, result.err)
		return result
	}

	if isCompressed {
		result.rows, result.err = loadCompressedFile(ctx, db, filePath, tbl)
	} else {
		result.rows, result.err = loadPlainFile(ctx, db, filePath, tbl)
	}

	result.duration = time.Since(start)
	u.PrintTableLoadResult(tbl.name, result.rows, result.duration, 1, result.err)

	return result
}

// findShardedFiles finds all shard files matching basename_*.csv or basename_*.csv.xz
func findShardedFiles(inputDir, basename string) []string {
	var files []string

	// Check for compressed shards first
	xzPattern := filepath.Join(inputDir, basename+"_*.csv.xz")
	if matches, err := filepath.Glob(xzPattern); err == nil && len(matches) > 0 {
		files = matches
	}

	// If no compressed shards, check for uncompressed
	if len(files) == 0 {
		csvPattern := filepath.Join(inputDir, basename+"_*.csv")
		if matches, err := filepath.Glob(csvPattern); err == nil {
			files = matches
		}
	}

	// Consistent ordering (_000, _001, etc.)
	sort.Strings(files)

	return files
}

// loadShardedFiles loads all shard files for a table in order
func loadShardedFiles(ctx context.Context, db *sql.DB, files []string, tbl tableConfig) (int64, error) {
	var totalRows int64

	for i, filePath := range files {
		var rows int64
		var err error

		if strings.HasSuffix(filePath, ".xz") {
			rows, err = loadCompressedFile(ctx, db, filePath, tbl)
		} else {
			rows, err = loadPlainFile(ctx, db, filePath, tbl)
		}

		if err != nil {
			return totalRows, fmt.Errorf("shard %d (%s): %w", i+1, filepath.Base(filePath), err)
		}

		totalRows += rows
	}

	return totalRows, nil
}

// loadPlainFile verifies the header, then loads an uncompressed CSV file
func loadPlainFile(ctx context.Context, db *sql.DB, filePath string, tbl tableConfig) (int64, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return 0, fmt.Errorf("failed to get absolute path: %w", err)
	}

	if err := checkCSVHeader(absPath, tbl); err != nil {
		return 0, err
	}

	mysql.RegisterLocalFile(absPath)
	defer mysql.DeregisterLocalFile(absPath)

	loadSQL := fmt.Sprintf(tbl.loadSQL, absPath)
	res, err := db.ExecContext(ctx, loadSQL)
	if err != nil {
		return 0, fmt.Errorf("LOAD DATA failed: %w", err)
	}

	rows, _ := res.RowsAffected()
	return rows, nil
}

// loadCompressedFile decompresses an xz file to a temp file, then loads it
func loadCompressedFile(ctx context.Context, db *sql.DB, xzPath string, tbl tableConfig) (int64, error) {
	tmpFile, err := os.CreateTemp("", fmt.Sprintf("retailgen_%s_*.csv", tbl.name))
	if err != nil {
		return 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	// Decompress xz to temp file
	xzCmd := exec.CommandContext(ctx, "xz", "-d", "-c", xzPath)
	xzCmd.Stdout = tmpFile
	xzCmd.Stderr = os.Stderr

	if err := xzCmd.Run(); err != nil {
		tmpFile.Close()
		return 0, fmt.Errorf("xz decompression of %s failed: %w", filepath.Base(xzPath), err)
	}
	tmpFile.Close()

	rows, err := loadPlainFile(ctx, db, tmpPath, tbl)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", filepath.Base(xzPath), err)
	}
	return rows, nil
}

// checkCSVHeader reads the first CSV record and verifies it against the
// table's expected column list, mapping accepted legacy names first.
func checkCSVHeader(path string, tbl tableConfig) error {
	if len(tbl.headerCols) == 0 {
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	header, err := csv.NewReader(f).Read()
	if err == io.EOF {
		return fmt.Errorf("%s: empty file, no header row", filepath.Base(path))
	}
	if err != nil {
		return fmt.Errorf("%s: failed to read header: %w", filepath.Base(path), err)
	}

	return validateHeader(header, tbl.headerCols, tbl.headerAliases)
}

// validateHeader checks a CSV header against the expected columns.
// Alias names are normalized before comparison; any other mismatch is
// an error.
func validateHeader(header, want []string, aliases map[string]string) error {
	if len(header) != len(want) {
		return fmt.Errorf("header has %d columns, expected %d (%s)",
			len(header), len(want), strings.Join(want, ","))
	}

	for i, col := range header {
		name := strings.TrimSpace(strings.ToLower(col))
		if mapped, ok := aliases[name]; ok {
			name = mapped
		}
		if name != want[i] {
			return fmt.Errorf("unexpected column %q at position %d, expected %q", col, i+1, want[i])
		}
	}

	return nil
}

// Helper functions

func ensureLocalInfileEnabled(dsn string) string {
	if strings.Contains(dsn, "allowAllFiles") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&allowAllFiles=true"
	}
	return dsn + "?allowAllFiles=true"
}

func disableChecks(ctx context.Context, db *sql.DB) error {
	queries := []string{
		"SET FOREIGN_KEY_CHECKS = 0",
		"SET UNIQUE_CHECKS = 0",
	}
	for _, q := range queries {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

func enableChecks(ctx context.Context, db *sql.DB) error {
	queries := []string{
		"SET UNIQUE_CHECKS = 1",
		"SET FOREIGN_KEY_CHECKS = 1",
	}
	for _, q := range queries {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

func maskDSN(dsn string) string {
	// Mask password between : and @
	if colonIdx := strings.Index(dsn, ":"); colonIdx > 0 {
		rest := dsn[colonIdx:]
		if atIdx := strings.Index(rest, "@"); atIdx > 0 {
			return dsn[:colonIdx+1] + "***" + rest[atIdx:]
		}
	}
	return dsn
}

func validateInputDir(dir string) error {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return fmt.Errorf("input directory does not exist: %s", dir)
	}
	if err != nil {
		return fmt.Errorf("cannot access directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", dir)
	}

	// Every table must have its file; a missing one fails the whole run
	var missing []string
	for _, tbl := range tablesToLoad {
		csvPath := filepath.Join(dir, tbl.csvFile+".csv")
		xzPath := filepath.Join(dir, tbl.csvFile+".csv.xz")
		if _, err := os.Stat(csvPath); err == nil {
			continue
		}
		if _, err := os.Stat(xzPath); err == nil {
			continue
		}
		if shards := findShardedFiles(dir, tbl.csvFile); len(shards) > 0 {
			continue
		}
		missing = append(missing, tbl.csvFile+".csv")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing files in %s: %s", dir, strings.Join(missing, ", "))
	}
	return nil
}

func hasCompressedFiles(dir string) bool {
	for _, tbl := range tablesToLoad {
		xzPath := filepath.Join(dir, tbl.csvFile+".csv.xz")
		if _, err := os.Stat(xzPath); err == nil {
			return true
		}
		// Check for sharded compressed files
		xzPattern := filepath.Join(dir, tbl.csvFile+"_*.csv.xz")
		if matches, err := filepath.Glob(xzPattern); err == nil && len(matches) > 0 {
			return true
		}
	}
	return false
}

func splitSQLStatements(content string) []string {
	var statements []string
	var current strings.Builder

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")
		if strings.HasSuffix(trimmed, ";") {
			statements = append(statements, current.String())
			current.Reset()
		}
	}

	return statements
}

func printImportSummary(u *ui.UI, results []loadResult, totalDuration time.Duration) {
	var totalRows int64
	var failures int

	for _, r := range results {
		if r.err != nil {
			failures++
		} else {
			totalRows += r.rows
		}
	}

	items := []ui.KV{
		{Key: "Total rows", Value: formatNumber(totalRows)},
		{Key: "Total time", Value: formatImportDuration(totalDuration)},
	}

	if failures > 0 {
		items = append(items, ui.KV{Key: "Failed", Value: fmt.Sprintf("%d tables", failures)})
		items = append(items, ui.KV{Key: "Status", Value: "Failed"})
	} else {
		items = append(items, ui.KV{Key: "Status", Value: "Success"})
	}

	fmt.Println(u.SummaryBox("Import Summary", items))

	if failures > 0 {
		os.Exit(1)
	}
}

func formatImportDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%.1fm", d.Minutes())
}

func formatNumber(n int64) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	if n < 1000000 {
		return fmt.Sprintf("%.1fK", float64(n)/1000)
	}
	return fmt.Sprintf("%.1fM", float64(n)/1000000)
}
