// Package render turns an article list into displayable cards. It knows
// nothing about terminals; the TUI and the plain CLI both consume its
// output.
package render

import (
	"fmt"

	"github.com/ajoubert/newsdesk/internal/article"
)

// Card is one displayable article. ID is stable for the duration of the
// render pass and correlates a "discuss this article" action back to the
// record it came from.
type Card struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Source  string `json:"source"`
	Link    string `json:"link"`
	Date    string `json:"date,omitempty"`

	// Article keeps the underlying record for the chat session.
	Article article.Article `json:"-"`

	// Pos is the card's 1-based position in the pass.
	Pos int `json:"pos"`
}

// Stats summarizes one render pass.
type Stats struct {
	Articles int `json:"articles"`
	Sources  int `json:"sources"`
}

// Deck is the full output of rendering one article list for one topic.
type Deck struct {
	Topic string `json:"topic"`
	Cards []Card `json:"cards"`
	Stats Stats  `json:"stats"`
}

// Build transforms articles into a Deck, numbering cards by arrival order.
// It applies the display fallbacks, so a record with every field missing
// still yields a complete card; Build never fails.
func Build(topic string, articles []article.Article) Deck {
	positions := make([]int, len(articles))
	for i := range positions {
		positions[i] = i + 1
	}
	return BuildAt(topic, articles, positions)
}

// BuildAt is Build with an explicit position per article, for callers that
// reorder or filter a result set after the fact. Positional fallbacks
// ("Article N") follow the given positions, so a titleless record keeps
// the same name across re-sorts. positions must be the same length as
// articles.
func BuildAt(topic string, articles []article.Article, positions []int) Deck {
	cards := make([]Card, 0, len(articles))
	sources := make(map[string]struct{})

	for i, a := range articles {
		pos := positions[i]
		cards = append(cards, Card{
			ID:      fmt.Sprintf("card-%d", pos),
			Title:   a.DisplayTitle(pos),
			Summary: a.DisplaySummary(),
			Source:  a.DisplaySource(),
			Link:    a.DisplayLink(),
			Date:    a.DisplayDate(),
			Article: a,
			Pos:     pos,
		})
		sources[a.DisplaySource()] = struct{}{}
	}

	return Deck{
		Topic: topic,
		Cards: cards,
		Stats: Stats{Articles: len(cards), Sources: len(sources)},
	}
}

// Card looks up a card by its pass-scoped ID.
func (d Deck) Card(id string) (Card, bool) {
	for _, c := range d.Cards {
		if c.ID == id {
			return c, true
		}
	}
	return Card{}, false
}
