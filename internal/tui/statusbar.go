package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/ajoubert/newsdesk/internal/render"
)

func renderStatusBar(stats render.Stats, topic, sortLabel, sourceFilter string, width int) string {
	left := fmt.Sprintf(" %d articles · %d sources", stats.Articles, stats.Sources)
	if topic != "" {
		left += " · " + topic
	}
	if sourceFilter != "" {
		left += " · source: " + sourceFilter
	}
	left += " · sort: " + sortLabel

	right := " enter discuss  o open  s sort  f source  esc back "

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + fmt.Sprintf("%*s", gap, "") + right

	return statusBarStyle.Width(width).Render(bar)
}
