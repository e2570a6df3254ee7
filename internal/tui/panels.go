package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// The error panel and the no-results panel are deliberately distinct: a
// failed fetch offers a retry, an empty result set just states the fact.

func renderErrorPanel(width, height int, err error) string {
	body := errorTextStyle.Render("Couldn't load the news") + "\n\n" +
		wrapText(fmt.Sprintf("%v", err), 56) + "\n\n" +
		dimStyle.Render("r retry · esc new search · q quit")

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		errorPanelStyle.Render(body))
}

func renderNoResultsPanel(width, height int, topic string) string {
	body := "No articles found" + "\n\n" +
		dimStyle.Render(fmt.Sprintf("Nothing matched %q right now.", topic)) + "\n\n" +
		dimStyle.Render("esc new search · q quit")

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		panelStyle.Render(body))
}

func renderLoading(width, height int, spin, query string) string {
	body := spin + " Searching for " + strings.TrimSpace(query) + "..." + "\n\n" +
		dimStyle.Render("esc cancel")

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}
