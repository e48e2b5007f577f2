package generator

import (
	"runtime"
	"sort"
	"time"

	"github.com/aromalab/retailgen/internal/models"
)

// WorkerResult contains results from one completed sales worker
type WorkerResult struct {
	WorkerID  int
	LineCount int64
	Duration  time.Duration
	ShardFile string
}

// GetWorkerCount returns the number of workers to use.
// If configured workers is 0, auto-detects using runtime.NumCPU().
func GetWorkerCount(configured int) int {
	if configured > 0 {
		return configured
	}
	cpus := runtime.NumCPU()
	if cpus < 1 {
		return 1
	}
	return cpus
}

// PartitionCustomers distributes customers across workers round-robin by
// ascending customer id. The assignment is deterministic, but since each
// customer derives its own randomness stream from its id, output content
// does not depend on which worker a customer lands on.
func PartitionCustomers(customers []models.CustomerRef, workerCount int) [][]models.CustomerRef {
	if workerCount <= 0 {
		workerCount = 1
	}

	sorted := make([]models.CustomerRef, len(customers))
	copy(sorted, customers)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ID < sorted[j].ID
	})

	partitions := make([][]models.CustomerRef, workerCount)
	for i := range partitions {
		partitions[i] = make([]models.CustomerRef, 0, len(sorted)/workerCount+1)
	}
	for i, c := range sorted {
		partitions[i%workerCount] = append(partitions[i%workerCount], c)
	}

	return partitions
}

// EstimateLineCount predicts total sale lines for progress reporting.
// Expected invoices per month is roughly p_buy, and the mean invoice
// carries about two lines; churn shortens the tail but an overestimate
// only makes the progress bar finish early.
func EstimateLineCount(customerCount int, avgMonths float64, pBuyMonth float64) int64 {
	const avgLinesPerInvoice = 2.0
	est := float64(customerCount) * avgMonths * pBuyMonth * avgLinesPerInvoice
	if est < 1 {
		est = 1
	}
	return int64(est)
}
