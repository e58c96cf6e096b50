package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/adwate/lessonloop/internal/ui/theme"
)

// ProgressBar is a horizontal rune-based progress bar with an optional
// leading label and trailing percentage.
type ProgressBar struct {
	Label       string
	Percent     float64
	ShowPercent bool
	Width       int
}

// NewProgressBar creates a progress bar. Percent outside [0, 1] is clamped
// at render time.
func NewProgressBar(label string, percent float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{
		Label:       label,
		Percent:     percent,
		ShowPercent: showPercent,
		Width:       width,
	}
}

// View renders the bar.
func (p ProgressBar) View() string {
	pct := p.Percent
	if pct < 0 {
		pct = 0
	}
	if pct > 1 {
		pct = 1
	}

	var out string
	if p.Label != "" {
		out = lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}

	reserved := lipgloss.Width(out)
	if p.ShowPercent {
		reserved += 6 // "  100%"
	}
	barWidth := p.Width - reserved
	if barWidth < 4 {
		barWidth = 4
	}

	filled := int(float64(barWidth)*pct + 0.5)
	out += theme.ProgressFilled.Render(strings.Repeat("█", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat("░", barWidth-filled))

	if p.ShowPercent {
		out += lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("  %d%%", int(pct*100+0.5)))
	}

	return out
}
