package generator

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"
)

// ProgressReporter tracks and displays progress for a single long-running
// phase with percentage, rate, and ETA.
type ProgressReporter struct {
	mu sync.Mutex

	output     io.Writer
	total      int64
	label      string
	updateFreq time.Duration
	isTTY      bool

	current   int64
	startTime time.Time
	lastPrint time.Time
	done      bool
}

// ProgressConfig holds settings for the progress reporter
type ProgressConfig struct {
	// Total number of items to process (0 for indeterminate)
	Total int64
	// Label to display (e.g., "Generating customers")
	Label string
	// Output writer (defaults to os.Stderr)
	Output io.Writer
	// Minimum time between updates (defaults to 100ms)
	UpdateFrequency time.Duration
}

// NewProgressReporter creates a new progress reporter
func NewProgressReporter(cfg ProgressConfig) *ProgressReporter {
	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	updateFreq := cfg.UpdateFrequency
	if updateFreq == 0 {
		updateFreq = 100 * time.Millisecond
	}

	isTTY := false
	if f, ok := output.(*os.File); ok {
		isTTY = term.IsTerminal(int(f.Fd()))
	}

	return &ProgressReporter{
		output:     output,
		total:      cfg.Total,
		label:      cfg.Label,
		updateFreq: updateFreq,
		isTTY:      isTTY,
		startTime:  time.Now(),
	}
}

// Add increments the progress by n items
func (p *ProgressReporter) Add(n int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current += n
	p.maybeRender()
}

// Set sets the current progress to n items
func (p *ProgressReporter) Set(n int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current = n
	p.maybeRender()
}

func (p *ProgressReporter) maybeRender() {
	now := time.Now()
	if now.Sub(p.lastPrint) < p.updateFreq {
		return
	}
	p.lastPrint = now
	p.render()
}

func (p *ProgressReporter) render() {
	elapsed := time.Since(p.startTime)
	rate := float64(p.current) / elapsed.Seconds()
	if elapsed.Seconds() < 0.01 {
		rate = 0
	}

	var sb strings.Builder

	if p.isTTY {
		sb.WriteString("\r")
	}

	if p.label != "" {
		sb.WriteString(p.label)
		sb.WriteString(": ")
	}

	if p.total > 0 {
		pct := float64(p.current) / float64(p.total) * 100
		sb.WriteString(fmt.Sprintf("%d/%d (%.1f%%)", p.current, p.total, pct))

		if p.isTTY {
			sb.WriteString(" ")
			sb.WriteString(renderBar(p.current, p.total))
		}

		if rate > 0 && p.current < p.total {
			remaining := float64(p.total-p.current) / rate
			eta := time.Duration(remaining * float64(time.Second))
			sb.WriteString(fmt.Sprintf(" ETA: %s", formatDuration(eta)))
		}
	} else {
		sb.WriteString(fmt.Sprintf("%d", p.current))
	}

	sb.WriteString(fmt.Sprintf(" (%.0f/s)", rate))

	if p.isTTY {
		sb.WriteString("\033[K")
	} else {
		sb.WriteString("\n")
	}

	fmt.Fprint(p.output, sb.String())
}

// Finish completes the progress and prints final stats
func (p *ProgressReporter) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.done {
		return
	}
	p.done = true

	elapsed := time.Since(p.startTime)
	rate := float64(p.current) / elapsed.Seconds()
	if elapsed.Seconds() < 0.01 {
		rate = 0
	}

	var sb strings.Builder

	if p.isTTY {
		sb.WriteString("\r")
	}

	if p.label != "" {
		sb.WriteString(p.label)
		sb.WriteString(": ")
	}

	sb.WriteString(fmt.Sprintf("%d items in %s (%.0f/s)",
		p.current,
		formatDuration(elapsed),
		rate))

	if p.isTTY {
		sb.WriteString("\033[K")
	}
	sb.WriteString("\n")

	fmt.Fprint(p.output, sb.String())
}

// renderBar builds a fixed-width ASCII progress bar
func renderBar(current, total int64) string {
	const barWidth = 20
	filled := int(float64(barWidth) * float64(current) / float64(total))
	if filled > barWidth {
		filled = barWidth
	}

	var sb strings.Builder
	sb.WriteString("[")
	sb.WriteString(strings.Repeat("=", filled))
	if filled < barWidth {
		sb.WriteString(">")
		sb.WriteString(strings.Repeat(" ", barWidth-filled-1))
	}
	sb.WriteString("]")
	return sb.String()
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		secs := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%ds", mins, secs)
	}
	hours := int(d.Hours())
	mins := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", hours, mins)
}

// AggregatedProgressReporter collects progress from multiple workers and
// displays a single combined line. Workers push absolute counts through a
// buffered channel; a listener goroutine aggregates and renders.
type AggregatedProgressReporter struct {
	mu sync.Mutex

	output      io.Writer
	total       int64
	label       string
	workerCount int
	updateFreq  time.Duration
	isTTY       bool

	workerCounts []int64
	current      int64
	startTime    time.Time
	lastPrint    time.Time
	done         bool

	progressChan chan workerProgress
	doneChan     chan struct{}
}

// workerProgress is one progress update from a worker
type workerProgress struct {
	workerID int
	count    int64
}

// AggregatedProgressConfig holds settings for the aggregated reporter
type AggregatedProgressConfig struct {
	// Total number of items to process (0 for indeterminate)
	Total int64
	// Label to display (e.g., "Sales transactions")
	Label string
	// Number of workers reporting progress
	WorkerCount int
	// Output writer (defaults to os.Stderr)
	Output io.Writer
	// Minimum time between updates (defaults to 100ms)
	UpdateFrequency time.Duration
}

// NewAggregatedProgressReporter creates a new aggregated progress reporter
func NewAggregatedProgressReporter(cfg AggregatedProgressConfig) *AggregatedProgressReporter {
	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	updateFreq := cfg.UpdateFrequency
	if updateFreq == 0 {
		updateFreq = 100 * time.Millisecond
	}

	workerCount := cfg.WorkerCount
	if workerCount <= 0 {
		workerCount = 1
	}

	isTTY := false
	if f, ok := output.(*os.File); ok {
		isTTY = term.IsTerminal(int(f.Fd()))
	}

	return &AggregatedProgressReporter{
		output:       output,
		total:        cfg.Total,
		label:        cfg.Label,
		workerCount:  workerCount,
		updateFreq:   updateFreq,
		isTTY:        isTTY,
		workerCounts: make([]int64, workerCount),
		startTime:    time.Now(),
		progressChan: make(chan workerProgress, workerCount*100),
		doneChan:     make(chan struct{}),
	}
}

// Start begins listening for progress updates from workers.
// Call before workers start.
func (a *AggregatedProgressReporter) Start() {
	go a.listen()
}

func (a *AggregatedProgressReporter) listen() {
	ticker := time.NewTicker(a.updateFreq)
	defer ticker.Stop()

	for {
		select {
		case update := <-a.progressChan:
			a.applyUpdate(update)

		case <-ticker.C:
			a.mu.Lock()
			if !a.done {
				a.render()
			}
			a.mu.Unlock()

		case <-a.doneChan:
			// Drain any remaining updates
			for {
				select {
				case update := <-a.progressChan:
					a.applyUpdate(update)
				default:
					return
				}
			}
		}
	}
}

func (a *AggregatedProgressReporter) applyUpdate(update workerProgress) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if update.workerID < 0 || update.workerID >= len(a.workerCounts) {
		return
	}
	a.workerCounts[update.workerID] = update.count
	a.current = 0
	for _, c := range a.workerCounts {
		a.current += c
	}
}

// GetProgressChan returns the channel workers use to send progress.
// Workers send their absolute current count, not a delta.
func (a *AggregatedProgressReporter) GetProgressChan() chan<- workerProgress {
	return a.progressChan
}

func (a *AggregatedProgressReporter) render() {
	now := time.Now()
	if now.Sub(a.lastPrint) < a.updateFreq {
		return
	}
	a.lastPrint = now

	elapsed := time.Since(a.startTime)
	rate := float64(a.current) / elapsed.Seconds()
	if elapsed.Seconds() < 0.01 {
		rate = 0
	}

	var sb strings.Builder

	if a.isTTY {
		sb.WriteString("\r")
	}

	if a.label != "" {
		sb.WriteString(a.label)
		sb.WriteString(": ")
	}

	if a.total > 0 {
		pct := float64(a.current) / float64(a.total) * 100
		sb.WriteString(fmt.Sprintf("%d/%d (%.1f%%)", a.current, a.total, pct))

		if a.isTTY {
			sb.WriteString(" ")
			sb.WriteString(renderBar(a.current, a.total))
		}

		if rate > 0 && a.current < a.total {
			remaining := float64(a.total-a.current) / rate
			eta := time.Duration(remaining * float64(time.Second))
			sb.WriteString(fmt.Sprintf(" ETA: %s", formatDuration(eta)))
		}
	} else {
		sb.WriteString(fmt.Sprintf("%d", a.current))
	}

	sb.WriteString(fmt.Sprintf(" (%.0f/s) [%d workers]", rate, a.workerCount))

	if a.isTTY {
		sb.WriteString("\033[K")
	} else {
		sb.WriteString("\n")
	}

	fmt.Fprint(a.output, sb.String())
}

// Finish completes the aggregated progress and prints final stats
func (a *AggregatedProgressReporter) Finish() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.done {
		return
	}
	a.done = true

	close(a.doneChan)

	a.current = 0
	for _, c := range a.workerCounts {
		a.current += c
	}

	elapsed := time.Since(a.startTime)
	rate := float64(a.current) / elapsed.Seconds()
	if elapsed.Seconds() < 0.01 {
		rate = 0
	}

	var sb strings.Builder

	if a.isTTY {
		sb.WriteString("\r")
	}

	if a.label != "" {
		sb.WriteString(a.label)
		sb.WriteString(": ")
	}

	sb.WriteString(fmt.Sprintf("%d items in %s (%.0f/s) [%d workers]",
		a.current,
		formatDuration(elapsed),
		rate,
		a.workerCount))

	if a.isTTY {
		sb.WriteString("\033[K")
	}
	sb.WriteString("\n")

	fmt.Fprint(a.output, sb.String())
}

// Current returns the current aggregated count
func (a *AggregatedProgressReporter) Current() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current
}
