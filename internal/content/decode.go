package content

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

var (
	ErrMixedSequence = errors.New("sequence mixes strings and entries")
	ErrNotMapping    = errors.New("entry must be a mapping")
	ErrDuplicateKey  = errors.New("duplicate key")
)

// UnmarshalYAML decodes a node while keeping source key order.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	node = resolve(node)
	switch node.Kind {
	case yaml.ScalarNode:
		*v = Value{Kind: KindText}
		if node.Tag != "!!null" {
			v.Text = node.Value
		}
		return nil

	case yaml.SequenceNode:
		return v.decodeSequence(node)

	case yaml.MappingNode:
		fields, err := decodeFields(node)
		if err != nil {
			return err
		}
		if len(fields) > 0 && allLists(fields) {
			groups := make([]Group, 0, len(fields))
			for _, f := range fields {
				groups = append(groups, Group{Key: f.Name, Items: f.Value.List})
			}
			*v = Value{Kind: KindGroups, Groups: groups}
			return nil
		}
		*v = Value{Kind: KindRecord, Record: fields}
		return nil

	default:
		return fmt.Errorf("line %d: unsupported node kind", node.Line)
	}
}

func (v *Value) decodeSequence(node *yaml.Node) error {
	if len(node.Content) == 0 {
		*v = Value{Kind: KindList}
		return nil
	}

	first := resolve(node.Content[0]).Kind
	for _, item := range node.Content[1:] {
		if resolve(item).Kind != first {
			return fmt.Errorf("line %d: %w", item.Line, ErrMixedSequence)
		}
	}

	switch first {
	case yaml.ScalarNode:
		list := make([]string, 0, len(node.Content))
		for _, item := range node.Content {
			item = resolve(item)
			if item.Tag == "!!null" {
				list = append(list, "")
				continue
			}
			list = append(list, item.Value)
		}
		*v = Value{Kind: KindList, List: list}
	case yaml.MappingNode:
		entries := make([]Entry, 0, len(node.Content))
		for _, item := range node.Content {
			var e Entry
			if err := e.UnmarshalYAML(item); err != nil {
				return err
			}
			entries = append(entries, e)
		}
		*v = Value{Kind: KindEntries, Entries: entries}
	default:
		return fmt.Errorf("line %d: nested sequences are not supported", node.Line)
	}
	return nil
}

func (e *Entry) UnmarshalYAML(node *yaml.Node) error {
	node = resolve(node)
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: %w", node.Line, ErrNotMapping)
	}
	fields, err := decodeFields(node)
	if err != nil {
		return err
	}
	e.Fields = fields
	return nil
}

func decodeFields(node *yaml.Node) ([]Field, error) {
	fields := make([]Field, 0, len(node.Content)/2)
	seen := make(map[string]struct{}, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("line %d: %w %q", node.Content[i].Line, ErrDuplicateKey, key)
		}
		seen[key] = struct{}{}

		var value Value
		if err := value.UnmarshalYAML(node.Content[i+1]); err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		fields = append(fields, Field{Name: key, Value: value})
	}
	return fields, nil
}

func allLists(fields []Field) bool {
	for _, f := range fields {
		if f.Value.Kind != KindList {
			return false
		}
	}
	return true
}

func resolve(node *yaml.Node) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		return resolve(node.Content[0])
	}
	return node
}

// DecodeCollections decodes a mapping of collection name to entry list,
// keeping the declared collection order.
func DecodeCollections(node *yaml.Node) ([]Collection, error) {
	node = resolve(node)
	if node.Kind == 0 || (node.Kind == yaml.ScalarNode && node.Tag == "!!null") {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: collections must be a mapping", node.Line)
	}

	collections := make([]Collection, 0, len(node.Content)/2)
	seen := make(map[string]struct{})
	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("line %d: %w %q", node.Content[i].Line, ErrDuplicateKey, name)
		}
		seen[name] = struct{}{}

		items := resolve(node.Content[i+1])
		c := Collection{Name: name}
		switch {
		case items.Kind == yaml.ScalarNode && items.Tag == "!!null":
		case items.Kind == yaml.SequenceNode:
			for _, item := range items.Content {
				var e Entry
				if err := e.UnmarshalYAML(item); err != nil {
					return nil, fmt.Errorf("%s: %w", name, err)
				}
				c.Entries = append(c.Entries, e)
			}
		default:
			return nil, fmt.Errorf("%s: line %d: collection must be a list of entries", name, items.Line)
		}
		collections = append(collections, c)
	}
	return collections, nil
}
