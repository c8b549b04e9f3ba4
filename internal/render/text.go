package render

import (
	"fmt"
	"io"
	"strings"
)

// WriteText writes the tree as an indented plain-text outline.
func WriteText(w io.Writer, t Tree) error {
	o := &outline{w: w}

	o.line(0, t.Title)
	o.line(0, strings.Repeat("=", len([]rune(t.Title))))
	if t.Introduction != "" {
		o.blank()
		for _, para := range strings.Split(t.Introduction, "\n") {
			o.line(0, para)
		}
	}

	if tl := t.Timeline; tl != nil {
		o.blank()
		if dates := span(tl.Start, tl.End); dates != "" {
			o.line(0, "Timeline: "+dates)
		} else {
			o.line(0, "Timeline:")
		}
		if tl.Overview != "" {
			o.line(1, tl.Overview)
		}
		if len(tl.Significance) > 0 {
			o.list(1, "Significance", tl.Significance)
		}
	}

	for _, s := range t.Sections {
		o.blank()
		o.line(0, "["+s.Title+"]")
		for _, e := range s.Entries {
			o.entry(1, e)
		}
	}

	if !t.Panel.Empty() {
		o.blank()
		o.line(0, t.Panel.Title+":")
		for _, item := range t.Panel.Items {
			o.line(1, "- "+item.Label+" -> "+item.Href)
		}
	}
	return o.err
}

type outline struct {
	w   io.Writer
	err error
}

func (o *outline) line(depth int, s string) {
	if o.err != nil {
		return
	}
	_, o.err = fmt.Fprintf(o.w, "%s%s\n", strings.Repeat("  ", depth), s)
}

func (o *outline) blank() {
	if o.err != nil {
		return
	}
	_, o.err = io.WriteString(o.w, "\n")
}

func (o *outline) list(depth int, title string, items []string) {
	o.line(depth, title+":")
	for _, item := range items {
		o.line(depth+1, "- "+item)
	}
}

func (o *outline) entry(depth int, e EntryBlock) {
	heading := e.Heading
	if len(e.Alternates) > 0 {
		heading = strings.TrimSpace(heading + " (" + strings.Join(e.Alternates, "; ") + ")")
	}
	// A card without a heading keeps its indentation but gets no bullet line.
	if heading != "" {
		o.line(depth, "* "+heading)
	}
	o.blocks(depth+1, e.Blocks)
}

func (o *outline) blocks(depth int, blocks []Block) {
	for _, b := range blocks {
		switch b.Kind {
		case BlockParagraph:
			if b.Label != "" {
				o.line(depth, b.Label+":")
				o.line(depth+1, b.Text)
				continue
			}
			o.line(depth, b.Text)
		case BlockLine, BlockLink:
			o.line(depth, b.Label+": "+b.Text)
		case BlockBadge:
			o.line(depth, "["+b.Text+"]")
		case BlockList:
			o.list(depth, b.Label, b.Items)
		case BlockGroups:
			o.line(depth, b.Label+":")
			for _, g := range b.Groups {
				o.list(depth+1, g.Title, g.Items)
			}
		case BlockRecord:
			o.line(depth, b.Label+":")
			o.blocks(depth+1, b.Children)
		case BlockEntries:
			o.line(depth, b.Label+":")
			for _, e := range b.Entries {
				o.entry(depth+1, e)
			}
		}
	}
}

func span(start, end string) string {
	switch {
	case start != "" && end != "":
		return start + " – " + end
	case start != "":
		return start
	default:
		return end
	}
}
