package content

// Resource is a bibliographic entry. URL and ISBN are optional and empty
// when absent.
type Resource struct {
	Title       string
	Author      string
	Year        string
	Type        string
	Description string
	Language    string
	Level       string
	URL         string
	ISBN        string
}

func ResourceFromEntry(e Entry) Resource {
	return Resource{
		Title:       e.Title(),
		Author:      e.Text("author"),
		Year:        e.Text("year"),
		Type:        e.Text("type"),
		Description: e.Text("description"),
		Language:    e.Text("language"),
		Level:       e.Text("level"),
		URL:         e.Text("url"),
		ISBN:        e.Text("isbn"),
	}
}

// Resources returns the typed view of every entry in the collection.
func (c Collection) Resources() []Resource {
	out := make([]Resource, 0, len(c.Entries))
	for _, e := range c.Entries {
		out = append(out, ResourceFromEntry(e))
	}
	return out
}
