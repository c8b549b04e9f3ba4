// Package render maps topic pages onto a structural tree of sections,
// entries and blocks, and writes that tree as HTML or a text outline.
//
// The renderer is a structure-preserving transform: it never sorts, filters
// or deduplicates, and a field that is empty or absent leaves no block.
package render

import (
	"religionatlas/internal/config"
	"religionatlas/internal/content"
	"religionatlas/internal/nav"
)

type BlockKind string

const (
	BlockParagraph BlockKind = "paragraph"
	BlockLine      BlockKind = "line"
	BlockLink      BlockKind = "link"
	BlockBadge     BlockKind = "badge"
	BlockList      BlockKind = "list"
	BlockGroups    BlockKind = "groups"
	BlockRecord    BlockKind = "record"
	BlockEntries   BlockKind = "entries"
)

type Tree struct {
	Title        string
	Introduction string
	IntroHTML    string
	Timeline     *TimelineBlock
	Sections     []Section
	Panel        nav.Panel
}

type TimelineBlock struct {
	Start        string
	End          string
	Overview     string
	OverviewHTML string
	Significance []string
}

// Section is one rendered collection, shown as a tab.
type Section struct {
	ID      string
	Name    string
	Title   string
	Entries []EntryBlock
}

// EntryBlock is one card: a heading, alternate-script names and one block
// per non-empty mapped field.
type EntryBlock struct {
	Heading    string
	Alternates []string
	Blocks     []Block
}

// Empty reports whether the card would show nothing at all.
func (e EntryBlock) Empty() bool {
	return e.Heading == "" && len(e.Alternates) == 0 && len(e.Blocks) == 0
}

type Block struct {
	Kind     BlockKind
	Field    string
	Label    string
	Text     string
	Items    []string
	Groups   []ListBlock
	Children []Block
	Entries  []EntryBlock
}

type ListBlock struct {
	Title string
	Items []string
}

type Options struct {
	// Base is the path that relative cross-links are joined onto.
	Base string
}

// Page renders the introduction, timeline, one section per collection in
// page order and the cross-link panel.
func Page(p *content.Page, schema *config.Schema, opts Options) Tree {
	md := newMarkdown()

	tree := Tree{
		Title:        p.Title,
		Introduction: p.Introduction,
		IntroHTML:    md.toHTML(p.Introduction),
		Panel:        nav.Build(p.LinksTitle, p.Links, opts.Base),
	}

	if tl := p.Timeline; tl != nil && !timelineEmpty(tl) {
		tree.Timeline = &TimelineBlock{
			Start:        tl.Start,
			End:          tl.End,
			Overview:     tl.Overview,
			OverviewHTML: md.toHTML(tl.Overview),
			Significance: nonBlank(tl.Significance),
		}
	}

	for _, c := range p.Collections {
		ct, _ := schema.CollectionTypeByName(c.Name)
		section := Collection(c, ct)
		if len(section.Entries) == 0 {
			continue
		}
		tree.Sections = append(tree.Sections, section)
	}
	return tree
}

// Collection renders one collection. With a nil collection type the entry
// shapes are inferred from the data.
func Collection(c content.Collection, ct *config.CollectionType) Section {
	s := Section{
		ID:   Anchor(c.Name),
		Name: c.Name,
	}
	if ct != nil && ct.Title != "" {
		s.Title = ct.Title
	} else {
		s.Title = Humanize(c.Name)
	}

	for _, e := range c.Entries {
		var eb EntryBlock
		if ct != nil {
			eb = mappedEntry(e, ct.Fields)
		} else {
			eb = inferredEntry(e)
		}
		if eb.Empty() {
			continue
		}
		s.Entries = append(s.Entries, eb)
	}
	return s
}

func timelineEmpty(tl *content.Timeline) bool {
	return tl.Start == "" && tl.End == "" && tl.Overview == "" && len(nonBlank(tl.Significance)) == 0
}
