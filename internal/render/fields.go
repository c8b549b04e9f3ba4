package render

import (
	"strings"

	"religionatlas/internal/config"
	"religionatlas/internal/content"
)

// mappedEntry walks the display-field map in map order. Entry fields the
// map does not name are not rendered.
func mappedEntry(e content.Entry, fields []config.Field) EntryBlock {
	var eb EntryBlock
	for _, f := range fields {
		v, ok := e.Field(f.Name)
		if !ok || v.IsEmpty() {
			continue
		}
		switch f.Kind {
		case config.KindHeading:
			if eb.Heading == "" {
				eb.Heading = firstString(v)
			}
		case config.KindAlternates:
			eb.Alternates = append(eb.Alternates, nonBlank(v.Strings())...)
		default:
			if b, ok := mappedBlock(f, v); ok {
				eb.Blocks = append(eb.Blocks, b)
			}
		}
	}
	if eb.Heading == "" {
		eb.Heading = e.Title()
	}
	return eb
}

func mappedBlock(f config.Field, v content.Value) (Block, bool) {
	label := f.Label
	switch f.Kind {
	case config.KindText:
		if v.Kind != content.KindText {
			break
		}
		return Block{Kind: BlockParagraph, Field: f.Name, Label: label, Text: v.Text}, true

	case config.KindLine, config.KindLink, config.KindBadge:
		if v.Kind != content.KindText && v.Kind != content.KindList {
			break
		}
		kind := map[string]BlockKind{
			config.KindLine:  BlockLine,
			config.KindLink:  BlockLink,
			config.KindBadge: BlockBadge,
		}[f.Kind]
		if label == "" && kind != BlockBadge {
			label = Humanize(f.Name)
		}
		return Block{Kind: kind, Field: f.Name, Label: label, Text: strings.Join(nonBlank(v.Strings()), ", ")}, true

	case config.KindList:
		if v.Kind != content.KindText && v.Kind != content.KindList {
			break
		}
		return listBlock(f.Name, label, v.Strings()), true

	case config.KindGroups:
		if v.Kind != content.KindGroups {
			break
		}
		return groupsBlock(f.Name, label, v.Groups), true

	case config.KindRecord:
		if v.Kind != content.KindRecord && v.Kind != content.KindGroups {
			break
		}
		nested := content.Entry{Fields: v.Fields()}
		b := Block{Kind: BlockRecord, Field: f.Name, Label: labelOr(label, f.Name)}
		if len(f.Fields) == 0 {
			b.Children = inferredEntry(nested).Blocks
		} else {
			b.Children = mappedEntry(nested, f.Fields).Blocks
		}
		return b, len(b.Children) > 0

	case config.KindEntries:
		if v.Kind != content.KindEntries {
			break
		}
		b := Block{Kind: BlockEntries, Field: f.Name, Label: labelOr(label, f.Name)}
		for _, sub := range v.Entries {
			var eb EntryBlock
			if len(f.Fields) == 0 {
				eb = inferredEntry(sub)
			} else {
				eb = mappedEntry(sub, f.Fields)
			}
			if !eb.Empty() {
				b.Entries = append(b.Entries, eb)
			}
		}
		return b, len(b.Entries) > 0
	}

	// The value does not have the shape the map expects: render it as found.
	return inferredBlock(f.Name, v)
}

// inferredEntry renders an entry without a display-field map: name or title
// is the heading and every other field is rendered by its shape.
func inferredEntry(e content.Entry) EntryBlock {
	var eb EntryBlock
	headingField := ""
	for _, candidate := range []string{"name", "title"} {
		if t := e.Text(candidate); strings.TrimSpace(t) != "" {
			eb.Heading = t
			headingField = candidate
			break
		}
	}

	for _, f := range e.Fields {
		if f.Name == headingField || f.Value.IsEmpty() {
			continue
		}
		if b, ok := inferredBlock(f.Name, f.Value); ok {
			eb.Blocks = append(eb.Blocks, b)
		}
	}
	return eb
}

func inferredBlock(name string, v content.Value) (Block, bool) {
	if v.IsEmpty() {
		return Block{}, false
	}
	label := Humanize(name)
	switch v.Kind {
	case content.KindText:
		return Block{Kind: BlockParagraph, Field: name, Text: v.Text}, true
	case content.KindList:
		return listBlock(name, label, v.List), true
	case content.KindGroups:
		return groupsBlock(name, label, v.Groups), true
	case content.KindRecord:
		children := inferredEntry(content.Entry{Fields: v.Record})
		b := Block{Kind: BlockRecord, Field: name, Label: label, Children: children.Blocks}
		if children.Heading != "" {
			b.Children = append([]Block{{Kind: BlockLine, Field: "name", Label: "Name", Text: children.Heading}}, b.Children...)
		}
		return b, len(b.Children) > 0
	case content.KindEntries:
		b := Block{Kind: BlockEntries, Field: name, Label: label}
		for _, sub := range v.Entries {
			if eb := inferredEntry(sub); !eb.Empty() {
				b.Entries = append(b.Entries, eb)
			}
		}
		return b, len(b.Entries) > 0
	}
	return Block{}, false
}

func listBlock(name, label string, items []string) Block {
	return Block{Kind: BlockList, Field: name, Label: labelOr(label, name), Items: nonBlank(items)}
}

// groupsBlock renders one titled list per sub-category, titled with the
// humanised key.
func groupsBlock(name, label string, groups []content.Group) Block {
	b := Block{Kind: BlockGroups, Field: name, Label: labelOr(label, name)}
	for _, g := range groups {
		items := nonBlank(g.Items)
		if len(items) == 0 {
			continue
		}
		b.Groups = append(b.Groups, ListBlock{Title: Humanize(g.Key), Items: items})
	}
	return b
}

func labelOr(label, name string) string {
	if label != "" {
		return label
	}
	return Humanize(name)
}

func firstString(v content.Value) string {
	for _, s := range v.Strings() {
		if strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

func nonBlank(items []string) []string {
	var out []string
	for _, item := range items {
		if strings.TrimSpace(item) != "" {
			out = append(out, item)
		}
	}
	return out
}
