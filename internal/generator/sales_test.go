package generator

import (
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/aromalab/retailgen/internal/models"
	"github.com/aromalab/retailgen/internal/simulator"
	"github.com/aromalab/retailgen/internal/utils"
)

func testSalesPartitions() *models.Partitions {
	parts := &models.Partitions{}
	for i := int64(1); i <= 5; i++ {
		parts.Device = append(parts.Device, i)
	}
	for i := int64(10); i < 90; i++ {
		parts.Refill = append(parts.Refill, i)
	}
	for i := int64(90); i < 98; i++ {
		parts.Accessory = append(parts.Accessory, i)
	}
	for i := int64(98); i <= 100; i++ {
		parts.SparePart = append(parts.SparePart, i)
	}
	return parts
}

func testCustomerRefs(n int) []models.CustomerRef {
	refs := make([]models.CustomerRef, n)
	for i := range refs {
		refs[i] = models.CustomerRef{
			ID:        int64(i + 1),
			CreatedAt: utils.Date(2023, time.Month(1+i%12), 1+i%28),
		}
	}
	return refs
}

func generateShard(t *testing.T, dir string, workerID int, customers []models.CustomerRef, seed int64) (int64, string) {
	t.Helper()
	gen, err := NewSalesShardGenerator(SalesShardConfig{
		WorkerID:  workerID,
		Customers: customers,
		RootRNG:   utils.NewRandom(seed),
		Params:    simulator.DefaultParams(),
		Products:  testSalesPartitions(),
		StoreIDs:  MakeStoreIDs(20),
		Horizon:   utils.Date(2024, time.December, 31),
		OutputDir: dir,
	})
	if err != nil {
		t.Fatalf("Failed to create shard generator: %v", err)
	}
	count, err := gen.GenerateAndStream()
	if err != nil {
		t.Fatalf("GenerateAndStream failed: %v", err)
	}
	return count, gen.ShardFile()
}

func TestSalesShardGenerator(t *testing.T) {
	dir := t.TempDir()
	count, path := generateShard(t, dir, 0, testCustomerRefs(40), 42)

	if filepath.Base(path) != "sales_transactions_000.csv" {
		t.Errorf("Unexpected shard filename %s", filepath.Base(path))
	}

	rows := readCSVFile(t, path)
	if int64(len(rows)-1) != count {
		t.Fatalf("Reported %d lines but file has %d data rows", count, len(rows)-1)
	}
	for i, col := range models.SaleColumns {
		if rows[0][i] != col {
			t.Errorf("Header column %d: expected %q, got %q", i, col, rows[0][i])
		}
	}

	for _, row := range rows[1:] {
		if len(row) != 7 {
			t.Fatalf("Expected 7 columns, got %d", len(row))
		}
		if _, err := time.Parse("2006-01-02", row[2]); err != nil {
			t.Fatalf("Bad invoice date %q: %v", row[2], err)
		}
		qty, err := strconv.Atoi(row[4])
		if err != nil {
			t.Fatalf("Bad quantity %q: %v", row[4], err)
		}
		revenue, err := strconv.ParseFloat(row[5], 64)
		if err != nil {
			t.Fatalf("Bad revenue %q: %v", row[5], err)
		}
		if (qty < 0) != (revenue < 0) {
			t.Fatalf("Quantity %d and revenue %s disagree on sign", qty, row[5])
		}
	}
}

func TestSalesShardWorkerCountInvariance(t *testing.T) {
	// The same customers split across different worker layouts must
	// produce the same set of rows.
	customers := testCustomerRefs(30)

	oneDir := t.TempDir()
	_, onePath := generateShard(t, oneDir, 0, customers, 42)
	oneRows := readCSVFile(t, onePath)[1:]

	splitDir := t.TempDir()
	parts := PartitionCustomers(customers, 3)
	var splitRows [][]string
	for w, part := range parts {
		_, path := generateShard(t, splitDir, w, part, 42)
		splitRows = append(splitRows, readCSVFile(t, path)[1:]...)
	}

	if len(oneRows) != len(splitRows) {
		t.Fatalf("Single worker wrote %d rows, three workers wrote %d", len(oneRows), len(splitRows))
	}

	key := func(row []string) string {
		return row[0] + "|" + row[3] + "|" + row[4] + "|" + row[5] + "|" + row[6]
	}
	counts := make(map[string]int)
	for _, row := range oneRows {
		counts[key(row)]++
	}
	for _, row := range splitRows {
		counts[key(row)]--
	}
	for k, n := range counts {
		if n != 0 {
			t.Fatalf("Row multiset mismatch at %q (delta %d)", k, n)
		}
	}
}

func TestSalesShardEmptyCustomerList(t *testing.T) {
	dir := t.TempDir()
	count, path := generateShard(t, dir, 2, nil, 1)
	if count != 0 {
		t.Errorf("Expected 0 lines, got %d", count)
	}
	rows := readCSVFile(t, path)
	if len(rows) != 1 {
		t.Errorf("Expected header only, got %d rows", len(rows))
	}
}
