package phh

import (
	"strings"

	"github.com/lox/holdem-engine/poker"
)

// unknownHole stands in for hole cards that were never shown.
const unknownHole = "????"

// FormatCards renders cards back to back in PHH notation, e.g. "AsTd".
func FormatCards(cards []poker.Card) string {
	var b strings.Builder
	b.Grow(len(cards) * 2)
	for _, c := range cards {
		b.WriteString(c.String())
	}
	return b.String()
}

// ParseCards reads PHH card notation. Unknown cards ("??") are skipped.
func ParseCards(s string) ([]poker.Card, error) {
	return poker.ParseCards(strings.ReplaceAll(s, "??", ""))
}
