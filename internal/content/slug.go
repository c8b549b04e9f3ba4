package content

import (
	"errors"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugAllowed   = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	slugSeparator = regexp.MustCompile(`-+`)

	ErrEmptySlug   = errors.New("empty slug")
	ErrInvalidSlug = errors.New("slug contains invalid characters")
)

// NormalizeSlug folds a title or file name into a lowercase, hyphenated
// ASCII slug: "Aśokan Period" becomes "asokan-period".
func NormalizeSlug(input string) (string, error) {
	trimmed := stripDiacritics(strings.TrimSpace(input))

	var b strings.Builder
	b.Grow(len(trimmed))
	for _, r := range trimmed {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(unicode.ToLower(r))
		case r == ' ' || r == '-' || r == '_' || r == '.':
			b.WriteRune('-')
		default:
			// dropped
		}
	}

	slug := slugSeparator.ReplaceAllString(b.String(), "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return "", ErrEmptySlug
	}
	if !slugAllowed.MatchString(slug) {
		return "", ErrInvalidSlug
	}
	return slug, nil
}

var diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func stripDiacritics(s string) string {
	stripped, _, err := transform.String(diacriticStripper, s)
	if err != nil {
		return s
	}
	return stripped
}
