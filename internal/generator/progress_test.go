package generator

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/aromalab/retailgen/internal/data"
	"github.com/aromalab/retailgen/internal/utils"
)

func TestProgressReporter(t *testing.T) {
	t.Run("AddAccumulates", func(t *testing.T) {
		var buf bytes.Buffer
		p := NewProgressReporter(ProgressConfig{
			Total:           20,
			Label:           "Rows",
			Output:          &buf,
			UpdateFrequency: time.Nanosecond,
		})

		for i := 0; i < 10; i++ {
			p.Add(1)
		}
		p.Finish()

		out := buf.String()
		if !strings.Contains(out, "Rows: 10 items") {
			t.Errorf("Final line missing from output: %q", out)
		}
	})

	t.Run("SetOverridesCount", func(t *testing.T) {
		var buf bytes.Buffer
		p := NewProgressReporter(ProgressConfig{
			Total:  100,
			Output: &buf,
		})

		p.Set(42)
		p.Finish()

		if !strings.Contains(buf.String(), "42 items") {
			t.Errorf("Expected final count 42, got %q", buf.String())
		}
	})

	t.Run("FinishIsIdempotent", func(t *testing.T) {
		var buf bytes.Buffer
		p := NewProgressReporter(ProgressConfig{Total: 5, Output: &buf})

		p.Finish()
		want := buf.String()
		p.Finish()
		if buf.String() != want {
			t.Error("Second Finish produced additional output")
		}
	})
}

func TestWriteCSVReportsProgress(t *testing.T) {
	// The CSV writers drive a per-row reporter when asked to. The
	// reporter writes to stderr, so here we only verify the write path
	// still succeeds with progress enabled.
	dir := t.TempDir()

	refData, err := data.Load()
	if err != nil {
		t.Fatalf("Failed to load reference data: %v", err)
	}
	gen := NewCatalogGenerator(utils.NewRandom(42), refData, testCatalogConfig())
	products, err := gen.Generate()
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if _, err := WriteProductsCSV(products, dir, false, true); err != nil {
		t.Fatalf("WriteProductsCSV with progress failed: %v", err)
	}
}

func TestAggregatedProgressReporter(t *testing.T) {
	t.Run("SumsAbsoluteWorkerCounts", func(t *testing.T) {
		var buf bytes.Buffer
		a := NewAggregatedProgressReporter(AggregatedProgressConfig{
			Total:       1000,
			WorkerCount: 3,
			Output:      &buf,
		})

		a.applyUpdate(workerProgress{workerID: 0, count: 100})
		a.applyUpdate(workerProgress{workerID: 1, count: 50})
		a.applyUpdate(workerProgress{workerID: 0, count: 120})

		if got := a.Current(); got != 170 {
			t.Errorf("Current() = %d, want 170 (worker counts are absolute)", got)
		}
	})

	t.Run("IgnoresUnknownWorker", func(t *testing.T) {
		var buf bytes.Buffer
		a := NewAggregatedProgressReporter(AggregatedProgressConfig{
			WorkerCount: 2,
			Output:      &buf,
		})

		a.applyUpdate(workerProgress{workerID: 5, count: 99})
		a.applyUpdate(workerProgress{workerID: -1, count: 99})

		if got := a.Current(); got != 0 {
			t.Errorf("Current() = %d, want 0 after out-of-range updates", got)
		}
	})

	t.Run("FinishDrainsChannel", func(t *testing.T) {
		var buf bytes.Buffer
		a := NewAggregatedProgressReporter(AggregatedProgressConfig{
			Total:       100,
			WorkerCount: 2,
			Output:      &buf,
		})
		a.Start()

		ch := a.GetProgressChan()
		ch <- workerProgress{workerID: 0, count: 30}
		ch <- workerProgress{workerID: 1, count: 20}

		deadline := time.Now().Add(2 * time.Second)
		for a.Current() != 50 && time.Now().Before(deadline) {
			time.Sleep(time.Millisecond)
		}
		if got := a.Current(); got != 50 {
			t.Fatalf("Current() = %d, want 50 before finish", got)
		}

		a.Finish()
		if !strings.Contains(buf.String(), "50 items") {
			t.Errorf("Final line missing from output: %q", buf.String())
		}
	})
}
