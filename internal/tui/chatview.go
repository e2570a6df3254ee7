package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ajoubert/newsdesk/internal/chat"
)

func renderChatView(width, height int, title string, entries []chat.Entry, input string, busy bool, spin string) string {
	contentWidth := width - 6
	if contentWidth < 20 {
		contentWidth = 20
	}

	header := headerStyle.Render("Discussing: " + truncateStr(title, contentWidth-12))

	var lines []string
	for _, e := range entries {
		var label string
		if e.Sender == chat.SenderUser {
			label = chatUserStyle.Render("you ")
		} else {
			label = chatBotStyle.Render("bot ")
		}
		wrapped := strings.Split(wrapText(e.Text, contentWidth-4), "\n")
		for i, w := range wrapped {
			if i == 0 {
				lines = append(lines, label+chatBodyStyle.Render(w))
			} else {
				lines = append(lines, "    "+chatBodyStyle.Render(w))
			}
		}
		lines = append(lines, "")
	}

	var footer string
	if busy {
		footer = spin + dimStyle.Render(" waiting for a reply...")
	} else {
		footer = input
	}
	hints := dimStyle.Render("enter send · esc close chat")

	// Keep the newest entries in view.
	transcriptHeight := height - 6
	if transcriptHeight < 3 {
		transcriptHeight = 3
	}
	if len(lines) > transcriptHeight {
		lines = lines[len(lines)-transcriptHeight:]
	}
	for len(lines) < transcriptHeight {
		lines = append(lines, "")
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		strings.Join(lines, "\n"),
		footer,
		hints,
	)

	return lipgloss.NewStyle().Padding(0, 1).Width(width).Render(content)
}
