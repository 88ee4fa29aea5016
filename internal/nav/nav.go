// Package nav computes the navigation bar state: which section link is
// highlighted for a scroll position, and whether the hamburger menu is open.
package nav

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ScrollOffset is how far above a section's top it already counts as current.
const ScrollOffset = 200.0

// Section is a page section and its offset from the top of the document.
type Section struct {
	ID  string
	Top float64
}

// Link is a navigation link.
type Link struct {
	Label  string
	Href   string
	Active bool
}

// Active returns the id of the last section whose top is within
// ScrollOffset of scrollY, or "" when none is.
func Active(sections []Section, scrollY float64) string {
	current := ""
	for _, s := range sections {
		if scrollY >= s.Top-ScrollOffset {
			current = s.ID
		}
	}
	return current
}

// Highlight returns links with Active set on those pointing at current.
func Highlight(links []Link, current string) []Link {
	out := make([]Link, len(links))
	for i, l := range links {
		l.Active = current != "" && strings.Contains(l.Href, current)
		out[i] = l
	}
	return out
}

// ParseSections parses "id:top,id:top" as sent by the page script. Sections
// are returned in document order.
func ParseSections(s string) ([]Section, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var out []Section
	for _, part := range strings.Split(s, ",") {
		id, top, ok := strings.Cut(part, ":")
		if !ok || id == "" {
			return nil, fmt.Errorf("invalid section %q", part)
		}
		v, err := strconv.ParseFloat(top, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid offset for section %q: %w", id, err)
		}
		out = append(out, Section{ID: id, Top: v})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Top < out[j].Top })
	return out, nil
}

// Menu is the hamburger menu state.
type Menu struct {
	Open bool
}

func (m *Menu) Toggle() { m.Open = !m.Open }

// Close is called when a menu link is followed.
func (m *Menu) Close() { m.Open = false }

// Class is the CSS class for the hamburger and the menu list.
func (m Menu) Class() string {
	if m.Open {
		return "active"
	}
	return ""
}
