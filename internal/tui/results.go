package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ajoubert/newsdesk/internal/render"
)

func renderCardItem(c render.Card, selected bool, width int) string {
	if width < 10 {
		width = 30
	}

	var title string
	if selected {
		title = cardSelectedStyle.Render("> " + truncateStr(c.Title, width-4))
	} else {
		title = cardTitleStyle.Render("  " + truncateStr(c.Title, width-4))
	}

	meta := "  " + cardSourceStyle.Render(c.Source)
	if c.Date != "" {
		meta += " " + cardDateStyle.Render("· "+c.Date)
	}

	return title + "\n" + meta
}

func truncateStr(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

func renderCardList(cards []render.Card, cursor int, height int, width int) string {
	if len(cards) == 0 {
		return centerInBox("No articles", width, height)
	}

	// Each item is 2 lines + 1 blank line = 3 lines
	itemHeight := 3
	visible := height / itemHeight
	if visible < 1 {
		visible = 1
	}

	start := 0
	if cursor >= visible {
		start = cursor - visible + 1
	}
	end := start + visible
	if end > len(cards) {
		end = len(cards)
		start = end - visible
		if start < 0 {
			start = 0
		}
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		b.WriteString(renderCardItem(cards[i], i == cursor, width))
		if i < end-1 {
			b.WriteString("\n")
		}
	}

	return b.String()
}

func renderCardPreview(card *render.Card, width, height int) string {
	if card == nil {
		return centerInBox("Select an article", width, height)
	}

	contentWidth := width - 2
	if contentWidth < 10 {
		contentWidth = 10
	}

	title := previewTitleStyle.Width(contentWidth).Render(card.Title)
	meta := card.Source
	if card.Date != "" {
		meta = fmt.Sprintf("%s · %s", card.Source, card.Date)
	}
	source := previewSourceStyle.Render(meta)
	body := previewBodyStyle.Width(contentWidth).Render(wrapText(card.Summary, contentWidth))
	link := previewLinkStyle.Width(contentWidth).Render("Read more: " + card.Link)
	hint := dimStyle.Render("enter discuss · o open")

	content := lipgloss.JoinVertical(lipgloss.Left, title, source, "", body, "", link, "", hint)

	lines := strings.Split(content, "\n")
	if len(lines) < height {
		lines = append(lines, make([]string, height-len(lines))...)
	} else if len(lines) > height {
		lines = lines[:height]
	}

	return strings.Join(lines, "\n")
}

func wrapText(s string, width int) string {
	if width <= 0 {
		return s
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) > width {
			lines = append(lines, line)
			line = w
		} else {
			line += " " + w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}

func centerInBox(s string, width, height int) string {
	pad := (width - lipgloss.Width(s)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat("\n", height/3) + strings.Repeat(" ", pad) + s
}
