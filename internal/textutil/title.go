package textutil

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// minorWords stay lowercase unless they open the title.
var minorWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "as": {}, "at": {}, "but": {}, "by": {},
	"en": {}, "for": {}, "if": {}, "in": {}, "nor": {}, "of": {}, "on": {},
	"or": {}, "per": {}, "the": {}, "to": {}, "vs": {},
}

// Title title-cases s, keeping articles, conjunctions and short prepositions
// lowercase after the first word. Runs of whitespace collapse to one space.
func Title(s string) string {
	words := strings.Fields(strings.ToLower(s))
	caser := cases.Title(language.English)
	for i, word := range words {
		if _, minor := minorWords[word]; minor && i > 0 {
			continue
		}
		words[i] = caser.String(word)
	}
	return strings.Join(words, " ")
}

var numberWords = []string{
	"Zero", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine", "Ten",
	"Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen", "Seventeen", "Eighteen", "Nineteen", "Twenty",
}

// NumberWord spells out n for 0 through 20 and falls back to digits otherwise.
func NumberWord(n int) string {
	if n >= 0 && n < len(numberWords) {
		return numberWords[n]
	}
	return strconv.Itoa(n)
}
