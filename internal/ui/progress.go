package ui

import (
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// IndexProgressDisplay shows index creation progress during import.
type IndexProgressDisplay struct {
	ui      *UI
	total   int
	current int
	mu      sync.Mutex
}

// NewIndexProgress creates an index progress display.
func (u *UI) NewIndexProgress(total int) *IndexProgressDisplay {
	return &IndexProgressDisplay{
		ui:    u,
		total: total,
	}
}

// Update updates the current index count.
func (p *IndexProgressDisplay) Update(current int) {
	p.mu.Lock()
	p.current = current
	p.mu.Unlock()

	if !p.ui.shouldStyle() {
		fmt.Printf("  [%d/%d] Creating index/constraint...\r", current, p.total)
		return
	}

	bar := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(30),
		progress.WithoutPercentage(),
	)

	pct := float64(current) / float64(p.total)
	countStyle := lipgloss.NewStyle().Foreground(ColorMuted)

	fmt.Fprintf(os.Stdout, "\r\033[K  %s %s %s",
		bar.ViewAs(pct),
		countStyle.Render(fmt.Sprintf("[%d/%d]", current, p.total)),
		StyleMuted.Render("Creating indexes..."),
	)
}

// Complete finishes with success.
func (p *IndexProgressDisplay) Complete() {
	if !p.ui.shouldStyle() {
		fmt.Println()
		return
	}

	fmt.Fprintf(os.Stdout, "\r\033[K  %s %s\n",
		StyleSuccess.Render(SymbolSuccess),
		fmt.Sprintf("Created %d indexes", p.total),
	)
}
