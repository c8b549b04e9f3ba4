// Package content holds the typed topic page tree shared by every renderer.
//
// A Page is built once by the parser and never mutated afterwards. Field
// order is taken from the source document and is significant everywhere.
package content

import "strings"

// Kind identifies which member of a Value is populated.
type Kind int

const (
	KindText Kind = iota + 1
	KindList
	KindGroups
	KindRecord
	KindEntries
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindList:
		return "list"
	case KindGroups:
		return "groups"
	case KindRecord:
		return "record"
	case KindEntries:
		return "entries"
	default:
		return "unknown"
	}
}

type Page struct {
	Slug         string
	Title        string
	Source       string
	SourceFile   string
	Introduction string
	Timeline     *Timeline
	Collections  []Collection
	LinksTitle   string
	Links        []Link
	Meta         []MetaVariant
	OGImage      string
	Tags         []string
}

type Timeline struct {
	Start        string
	End          string
	Overview     string
	Significance []string
}

// Collection is a named, ordered list of entries such as historicalPeriods.
type Collection struct {
	Name    string
	Entries []Entry
}

// Entry is one item of a collection. It has no identity beyond its position.
type Entry struct {
	Fields []Field
}

type Field struct {
	Name  string
	Value Value
}

// Value is exactly one of text, list, groups, record or entries.
type Value struct {
	Kind    Kind
	Text    string
	List    []string
	Groups  []Group
	Record  []Field
	Entries []Entry
}

// Group is one sub-category of a mapping from names to string lists.
type Group struct {
	Key   string
	Items []string
}

type Link struct {
	Label string
	Path  string
}

// MetaVariant is the fixed metadata strings of a page for one locale.
type MetaVariant struct {
	Locale      string
	Title       string
	Description string
	Keywords    []string
	OGImage     string
}

// Path is the site-relative location of the page, e.g. buddhism/early-buddhism.
func (p *Page) Path() string {
	if p.Source == "" {
		return p.Slug
	}
	return p.Source + "/" + p.Slug
}

func (p *Page) Collection(name string) (*Collection, bool) {
	for i := range p.Collections {
		if p.Collections[i].Name == name {
			return &p.Collections[i], true
		}
	}
	return nil, false
}

func (p *Page) MetaVariant(locale string) (*MetaVariant, bool) {
	for i := range p.Meta {
		if strings.EqualFold(p.Meta[i].Locale, locale) {
			return &p.Meta[i], true
		}
	}
	return nil, false
}

// IsEmpty reports whether the value would render nothing.
func (v Value) IsEmpty() bool {
	switch v.Kind {
	case KindText:
		return strings.TrimSpace(v.Text) == ""
	case KindList:
		for _, item := range v.List {
			if strings.TrimSpace(item) != "" {
				return false
			}
		}
		return true
	case KindGroups:
		for _, g := range v.Groups {
			if !(Value{Kind: KindList, List: g.Items}).IsEmpty() {
				return false
			}
		}
		return true
	case KindRecord:
		for _, f := range v.Record {
			if !f.Value.IsEmpty() {
				return false
			}
		}
		return true
	case KindEntries:
		return len(v.Entries) == 0
	default:
		return true
	}
}

// Fields returns the value as an ordered field list. Groups are viewed as
// list fields keyed by their group name.
func (v Value) Fields() []Field {
	switch v.Kind {
	case KindRecord:
		return v.Record
	case KindGroups:
		fields := make([]Field, 0, len(v.Groups))
		for _, g := range v.Groups {
			fields = append(fields, Field{Name: g.Key, Value: Value{Kind: KindList, List: g.Items}})
		}
		return fields
	default:
		return nil
	}
}

// Strings returns the value as display strings: a single text becomes a
// one-item list.
func (v Value) Strings() []string {
	switch v.Kind {
	case KindText:
		if strings.TrimSpace(v.Text) == "" {
			return nil
		}
		return []string{v.Text}
	case KindList:
		return v.List
	default:
		return nil
	}
}

func (e Entry) Field(name string) (Value, bool) {
	for _, f := range e.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Text returns a text field, or the empty string when absent or not text.
func (e Entry) Text(name string) string {
	v, ok := e.Field(name)
	if !ok || v.Kind != KindText {
		return ""
	}
	return v.Text
}

func (e Entry) List(name string) []string {
	v, ok := e.Field(name)
	if !ok {
		return nil
	}
	return v.Strings()
}

// Lookup resolves a dotted path such as biography.majorWorks through nested
// records and groups.
func (e Entry) Lookup(path string) (Value, bool) {
	parts := strings.Split(path, ".")
	current := Value{Kind: KindRecord, Record: e.Fields}
	for _, part := range parts {
		if part == "" {
			return Value{}, false
		}
		next, ok := Entry{Fields: current.Fields()}.Field(part)
		if !ok {
			return Value{}, false
		}
		current = next
	}
	return current, true
}

func (e Entry) Names() []string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Name)
	}
	return names
}

// Title returns the first non-empty of the given fields, falling back to
// name and title.
func (e Entry) Title(preferred ...string) string {
	for _, name := range append(preferred, "name", "title") {
		if t := strings.TrimSpace(e.Text(name)); t != "" {
			return t
		}
	}
	return ""
}
