package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var asciiLogo = []string{
	`███╗   ██╗███████╗██╗    ██╗███████╗██████╗ ███████╗███████╗██╗  ██╗`,
	`████╗  ██║██╔════╝██║    ██║██╔════╝██╔══██╗██╔════╝██╔════╝██║ ██╔╝`,
	`██╔██╗ ██║█████╗  ██║ █╗ ██║███████╗██║  ██║█████╗  ███████╗█████╔╝ `,
	`██║╚██╗██║██╔══╝  ██║███╗██║╚════██║██║  ██║██╔══╝  ╚════██║██╔═██╗ `,
	`██║ ╚████║███████╗╚███╔███╔╝███████║██████╔╝███████╗███████║██║  ██╗`,
	`╚═╝  ╚═══╝╚══════╝ ╚══╝╚══╝ ╚══════╝╚═════╝ ╚══════╝╚══════╝╚═╝  ╚═╝`,
}

func renderHomeScreen(width, height int, queryInput string, voiceReady, listening bool, status string) string {
	logoStyle := lipgloss.NewStyle().Foreground(colorAccent)

	var lines []string
	for _, l := range asciiLogo {
		lines = append(lines, logoStyle.Render(l))
	}
	lines = append(lines, "")
	lines = append(lines, dimStyle.Render("Ask for the news — type a query or speak one."))
	lines = append(lines, "")
	lines = append(lines, queryInput)
	lines = append(lines, "")

	switch {
	case listening:
		lines = append(lines, spinnerStyle.Render("● Listening... speak now"))
	case voiceReady:
		lines = append(lines, dimStyle.Render("enter search · ctrl+t speak · ? help · q quit"))
	default:
		lines = append(lines, dimStyle.Render("enter search · ? help · q quit"))
	}

	if status != "" {
		lines = append(lines, "")
		lines = append(lines, dimStyle.Render(status))
	}

	content := strings.Join(lines, "\n")
	contentHeight := strings.Count(content, "\n") + 1

	topPad := (height - contentHeight) / 3
	if topPad < 0 {
		topPad = 0
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top,
		strings.Repeat("\n", topPad)+content)
}
