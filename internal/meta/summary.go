package meta

import (
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

const maxSummaryRunes = 160

var markdown = goldmark.New()

// Summary returns the first sentence of a markdown text as plain text,
// truncated to a description-sized length.
func Summary(src string) string {
	plain := PlainText(src)
	if plain == "" {
		return ""
	}

	for i, r := range plain {
		if r == '.' || r == '!' || r == '?' || r == '।' || r == '。' {
			next := i + utf8.RuneLen(r)
			if next >= len(plain) || plain[next] == ' ' {
				plain = plain[:next]
				break
			}
		}
	}

	if utf8.RuneCountInString(plain) > maxSummaryRunes {
		runes := []rune(plain)
		plain = strings.TrimSpace(string(runes[:maxSummaryRunes-1])) + "…"
	}
	return plain
}

// PlainText flattens the first paragraph of a markdown text.
func PlainText(src string) string {
	source := []byte(src)
	doc := markdown.Parser().Parse(text.NewReader(source))

	var b strings.Builder
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if n.Kind() != ast.KindParagraph {
			continue
		}
		_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
			if !entering {
				return ast.WalkContinue, nil
			}
			if t, ok := node.(*ast.Text); ok {
				b.Write(t.Segment.Value(source))
				if t.SoftLineBreak() || t.HardLineBreak() {
					b.WriteByte(' ')
				}
			}
			return ast.WalkContinue, nil
		})
		break
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
