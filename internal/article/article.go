package article

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Display fallbacks for records missing fields.
const (
	DefaultSummary  = "No summary available"
	DefaultSource   = "unknown source"
	PlaceholderLink = "#"
)

// Article is one news item as delivered by the backend. Every field is
// optional on the wire; the Display accessors apply fallbacks so a fully
// empty record still renders a complete card.
type Article struct {
	Title     string
	Summary   string
	Source    string
	Link      string
	Published time.Time
	HasDate   bool
}

// wire mirrors the loose JSON the backend emits. Field names drifted
// between backend revisions, so aliases are resolved at decode time:
// summary falls back to description, link to url, and the first non-empty
// of published/pubDate/date wins.
type wire struct {
	Title       string `json:"title"`
	Summary     string `json:"summary"`
	Description string `json:"description"`
	Source      string `json:"source"`
	Link        string `json:"link"`
	URL         string `json:"url"`
	Published   string `json:"published"`
	PubDate     string `json:"pubDate"`
	Date        string `json:"date"`
}

func (a *Article) UnmarshalJSON(data []byte) error {
	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	a.Title = strings.TrimSpace(w.Title)
	a.Summary = strings.TrimSpace(firstNonEmpty(w.Summary, w.Description))
	a.Source = strings.TrimSpace(w.Source)
	a.Link = strings.TrimSpace(firstNonEmpty(w.Link, w.URL))
	a.Published = time.Time{}
	a.HasDate = false
	if raw := firstNonEmpty(w.Published, w.PubDate, w.Date); raw != "" {
		if t, ok := parseDate(raw); ok {
			a.Published = t
			a.HasDate = true
		}
	}
	return nil
}

// DisplayTitle returns the title, or a positional placeholder for a record
// with no title. pos is the article's 1-based position in the result set.
func (a Article) DisplayTitle(pos int) string {
	if a.Title != "" {
		return a.Title
	}
	return fmt.Sprintf("Article %d", pos)
}

func (a Article) DisplaySummary() string {
	if a.Summary != "" {
		return a.Summary
	}
	return DefaultSummary
}

func (a Article) DisplaySource() string {
	if a.Source != "" {
		return a.Source
	}
	return DefaultSource
}

func (a Article) DisplayLink() string {
	if a.Link != "" {
		return a.Link
	}
	return PlaceholderLink
}

// DisplayDate formats the publication date, or returns "" when the record
// carried no parseable date. Absent dates are omitted, never invented.
func (a Article) DisplayDate() string {
	if !a.HasDate {
		return ""
	}
	return a.Published.Format("Jan 2, 2006 15:04")
}

// dateLayouts covers the formats observed across backend revisions: RSS
// pass-through (RFC1123 variants), ISO timestamps, and bare dates.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
