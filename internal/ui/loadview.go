package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// PrintTableLoadResult prints a per-table import result line.
func (u *UI) PrintTableLoadResult(name string, rows int64, duration time.Duration, shards int, err error) {
	if !u.shouldStyle() {
		if err != nil {
			fmt.Printf("  %-24s FAILED\n", name+":")
			fmt.Printf("    Error: %v\n", err)
		} else if shards > 1 {
			fmt.Printf("  %-24s %s rows in %s (%d shards)\n", name+":", formatRowCount(rows), formatDuration(duration), shards)
		} else {
			fmt.Printf("  %-24s %s rows in %s\n", name+":", formatRowCount(rows), formatDuration(duration))
		}
		return
	}

	nameStyle := lipgloss.NewStyle().Width(24)
	if err != nil {
		fmt.Printf("  %s %s %s\n",
			StyleError.Render(SymbolError),
			nameStyle.Render(name),
			StyleError.Render("FAILED"),
		)
		fmt.Printf("    %s\n", StyleError.Render(err.Error()))
	} else {
		detail := fmt.Sprintf("%s rows in %s", formatRowCount(rows), formatDuration(duration))
		if shards > 1 {
			detail += StyleMuted.Render(fmt.Sprintf(" (%d shards)", shards))
		}
		fmt.Printf("  %s %s %s\n",
			StyleSuccess.Render(SymbolSuccess),
			nameStyle.Render(name),
			detail,
		)
	}
}

// PrintShardLoading prints a "loading N shards" message.
func (u *UI) PrintShardLoading(name string, shardCount int) {
	if !u.shouldStyle() {
		fmt.Printf("  %-24s loading %d shards...\n", name+":", shardCount)
		return
	}

	nameStyle := lipgloss.NewStyle().Width(24)
	fmt.Printf("  %s %s %s\n",
		StyleProgress.Render(SymbolProgress),
		nameStyle.Render(name),
		StyleMuted.Render(fmt.Sprintf("loading %d shards...", shardCount)),
	)
}

// formatRowCount formats a row count with K/M suffix.
func formatRowCount(rows int64) string {
	if rows >= 1_000_000 {
		return fmt.Sprintf("%.1fM", float64(rows)/1_000_000)
	}
	if rows >= 1_000 {
		return fmt.Sprintf("%.1fK", float64(rows)/1_000)
	}
	return fmt.Sprintf("%d", rows)
}

// formatDuration formats a duration with a unit suited to its magnitude.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%.1fm", d.Minutes())
}
