package generator

import (
	"testing"
	"time"

	"github.com/aromalab/retailgen/internal/models"
	"github.com/aromalab/retailgen/internal/utils"
)

func TestGetWorkerCount(t *testing.T) {
	if got := GetWorkerCount(4); got != 4 {
		t.Errorf("Expected 4, got %d", got)
	}
	if got := GetWorkerCount(0); got < 1 {
		t.Errorf("Auto-detect returned %d", got)
	}
}

func TestPartitionCustomers(t *testing.T) {
	refs := make([]models.CustomerRef, 10)
	base := utils.Date(2020, time.January, 1)
	// Out-of-order ids check that partitioning sorts first.
	ids := []int64{7, 3, 10, 1, 8, 5, 2, 9, 4, 6}
	for i, id := range ids {
		refs[i] = models.CustomerRef{ID: id, CreatedAt: base}
	}

	parts := PartitionCustomers(refs, 3)
	if len(parts) != 3 {
		t.Fatalf("Expected 3 partitions, got %d", len(parts))
	}

	seen := make(map[int64]int)
	total := 0
	for w, part := range parts {
		total += len(part)
		for _, c := range part {
			if prev, dup := seen[c.ID]; dup {
				t.Fatalf("Customer %d assigned to workers %d and %d", c.ID, prev, w)
			}
			seen[c.ID] = w
		}
	}
	if total != len(refs) {
		t.Fatalf("Partitions hold %d customers, expected %d", total, len(refs))
	}

	// Round-robin by ascending id: customer 1 goes to worker 0,
	// customer 2 to worker 1, and so on.
	for id, worker := range seen {
		if expected := int((id - 1) % 3); worker != expected {
			t.Errorf("Customer %d on worker %d, expected %d", id, worker, expected)
		}
	}
}

func TestPartitionCustomersDegenerate(t *testing.T) {
	t.Run("ZeroWorkers", func(t *testing.T) {
		parts := PartitionCustomers([]models.CustomerRef{{ID: 1}}, 0)
		if len(parts) != 1 || len(parts[0]) != 1 {
			t.Errorf("Expected a single partition with one customer, got %v", parts)
		}
	})

	t.Run("MoreWorkersThanCustomers", func(t *testing.T) {
		parts := PartitionCustomers([]models.CustomerRef{{ID: 1}, {ID: 2}}, 5)
		nonEmpty := 0
		for _, p := range parts {
			if len(p) > 0 {
				nonEmpty++
			}
		}
		if nonEmpty != 2 {
			t.Errorf("Expected 2 non-empty partitions, got %d", nonEmpty)
		}
	})
}

func TestEstimateLineCount(t *testing.T) {
	if est := EstimateLineCount(1000, 24, 0.7); est <= 0 {
		t.Errorf("Expected positive estimate, got %d", est)
	}
	if est := EstimateLineCount(0, 0, 0); est != 1 {
		t.Errorf("Expected floor of 1, got %d", est)
	}
}

func TestMakeStoreIDs(t *testing.T) {
	ids := MakeStoreIDs(20)
	if len(ids) != 20 {
		t.Fatalf("Expected 20 stores, got %d", len(ids))
	}
	if ids[0] != "S0001" || ids[19] != "S0020" {
		t.Errorf("Unexpected boundary ids: %s, %s", ids[0], ids[19])
	}
}
