package render

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Humanize turns a field key into a display title: "keyEvents" becomes
// "Key Events" and "majorWorks" becomes "Major Works". Acronyms are kept.
func Humanize(key string) string {
	words := splitWords(key)
	if len(words) == 0 {
		return ""
	}
	// A Caser keeps state, so each call gets its own.
	caser := cases.Title(language.English, cases.NoLower)
	return caser.String(strings.Join(words, " "))
}

// Anchor is the fragment id of a section: "historicalPeriods" becomes
// "historical-periods".
func Anchor(key string) string {
	return strings.ToLower(strings.Join(splitWords(key), "-"))
}

func splitWords(key string) []string {
	var words []string
	var current []rune
	runes := []rune(strings.TrimSpace(key))
	flush := func() {
		if len(current) > 0 {
			words = append(words, string(current))
			current = current[:0]
		}
	}
	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || unicode.IsSpace(r):
			flush()
			continue
		case unicode.IsUpper(r) && i > 0:
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		current = append(current, r)
	}
	flush()
	return words
}
