package category

import (
	"fmt"
	"strings"
)

// Category is a classification label returned by the backend classifier.
type Category string

const (
	Politique     Category = "politique"
	Sport         Category = "sport"
	Economie      Category = "economie"
	Culture       Category = "culture"
	International Category = "international"
	Technologie   Category = "technologie"
	Sante         Category = "sante"

	// Other is the no-confident-match sentinel.
	Other Category = "other"
)

// All returns the label set in canonical order, without the sentinel.
func All() []Category {
	return []Category{Politique, Sport, Economie, Culture, International, Technologie, Sante}
}

// aliases maps common spellings (accented and English) to canonical labels.
var aliases = map[string]Category{
	"économie":    Economie,
	"economy":     Economie,
	"santé":       Sante,
	"health":      Sante,
	"politics":    Politique,
	"sports":      Sport,
	"tech":        Technologie,
	"technology":  Technologie,
	"world":       International,
	"none":        Other,
	"aucune":      Other,
}

// Parse normalizes a label string to a known Category.
func Parse(s string) (Category, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	if norm == "" || norm == string(Other) {
		return Other, nil
	}
	if cat, ok := aliases[norm]; ok {
		return cat, nil
	}
	for _, cat := range All() {
		if string(cat) == norm {
			return cat, nil
		}
	}
	valid := make([]string, 0, len(All()))
	for _, cat := range All() {
		valid = append(valid, string(cat))
	}
	return "", fmt.Errorf("unknown category %q (valid: %s)", s, strings.Join(valid, ", "))
}

// Confident reports whether c names an actual category rather than the
// no-match sentinel. A non-confident classification means the caller should
// search with the raw query text instead.
func (c Category) Confident() bool {
	return c != "" && c != Other
}
