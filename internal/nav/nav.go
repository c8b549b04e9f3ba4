// Package nav builds the cross-link panel and breadcrumb trail of a page.
package nav

import (
	"path"
	"strings"

	"religionatlas/internal/content"
)

const DefaultPanelTitle = "Related Topics"

type Item struct {
	Label    string
	Href     string
	External bool
}

type Panel struct {
	Title string
	Items []Item
}

type Crumb struct {
	Label   string
	Href    string
	Current bool
}

// Build turns a page's declared links into a panel. Relative paths are
// joined onto base and absolute URLs are kept. Targets are not checked.
func Build(title string, links []content.Link, base string) Panel {
	if strings.TrimSpace(title) == "" {
		title = DefaultPanelTitle
	}
	p := Panel{Title: title}
	for _, l := range links {
		href, external := Href(base, l.Path)
		p.Items = append(p.Items, Item{Label: l.Label, Href: href, External: external})
	}
	return p
}

func (p Panel) Empty() bool {
	return len(p.Items) == 0
}

// Href resolves a link path against the site base path.
func Href(base, target string) (string, bool) {
	target = strings.TrimSpace(target)
	if isAbsoluteURL(target) {
		return target, true
	}
	return Join(base, target), false
}

// Join appends a site-relative page path to base, adding the directory
// slash that page URLs end with.
func Join(base, target string) string {
	if base == "" {
		base = "/"
	}
	suffix := ""
	if i := strings.IndexAny(target, "#?"); i >= 0 {
		target, suffix = target[:i], target[i:]
	}
	joined := path.Join(base, strings.TrimPrefix(target, "/"))
	if !strings.HasSuffix(joined, "/") && path.Ext(joined) == "" {
		joined += "/"
	}
	return joined + suffix
}

// Breadcrumbs returns the trail from root to the page at rel, e.g.
// "buddhism/early-buddhism". Labels are looked up by the accumulated path and
// otherwise derived from the segment.
func Breadcrumbs(root, homeLabel, rel string, labels map[string]string) []Crumb {
	if homeLabel == "" {
		homeLabel = "Home"
	}
	crumbs := []Crumb{{Label: homeLabel, Href: Join(root, "")}}

	var segments []string
	for _, s := range strings.Split(strings.Trim(rel, "/"), "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	for i, seg := range segments {
		acc := strings.Join(segments[:i+1], "/")
		label, ok := labels[acc]
		if !ok {
			label = SlugTitle(seg)
		}
		crumbs = append(crumbs, Crumb{Label: label, Href: Join(root, acc)})
	}
	crumbs[len(crumbs)-1].Current = true
	return crumbs
}

// SlugTitle turns "early-buddhism" into "Early Buddhism".
func SlugTitle(slug string) string {
	parts := strings.Split(slug, "-")
	for i, part := range parts {
		if part == "" {
			continue
		}
		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}
	return strings.Join(parts, " ")
}

func isAbsoluteURL(s string) bool {
	if strings.HasPrefix(s, "//") {
		return true
	}
	i := strings.Index(s, "://")
	if i <= 0 {
		return strings.HasPrefix(s, "mailto:")
	}
	for _, r := range s[:i] {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.') {
			return false
		}
	}
	return true
}
