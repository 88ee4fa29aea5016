// Package render turns catalog lists into event cards placed in named
// containers, and forwards card clicks to an injected modal opener.
package render

import (
	"bytes"
	"html/template"
	"io"
	"log"
	"strings"
	"time"

	"github.com/yu-ki/portfolio/internal/catalog"
)

// Container ids used by the page.
const (
	VisitedGridID  = "visited-events-grid"
	WishlistGridID = "wishlist-events-grid"
)

// StaggerStep is the reveal delay added per card.
const StaggerStep = 100 * time.Millisecond

// ModalOpener shows the detail modal for an event.
type ModalOpener interface {
	OpenEventModal(w io.Writer, rec catalog.TaggedRecord) error
}

// ModalOpenerFunc adapts a function to ModalOpener.
type ModalOpenerFunc func(w io.Writer, rec catalog.TaggedRecord) error

func (f ModalOpenerFunc) OpenEventModal(w io.Writer, rec catalog.TaggedRecord) error {
	return f(w, rec)
}

// Card is one rendered catalog entry.
type Card struct {
	Index     int
	Record    catalog.TaggedRecord
	TypeLabel string
	Delay     time.Duration

	opener ModalOpener
}

// Text is the visible text of the card.
func (c Card) Text() string {
	parts := []string{c.Record.Name, "📍 " + c.Record.Location, c.TypeLabel}
	if c.Record.Description != "" {
		parts = append(parts, c.Record.Description)
	}
	return strings.Join(parts, "\n")
}

// DelaySeconds is the CSS transition-delay of the card.
func (c Card) DelaySeconds() float64 {
	return c.Delay.Seconds()
}

// Click forwards the card's record to the modal opener. Without an opener
// the click only logs a warning.
func (c Card) Click(w io.Writer) error {
	if c.opener == nil {
		log.Printf("Warning: event modal not ready, ignoring click on %q", c.Record.Name)
		return nil
	}
	return c.opener.OpenEventModal(w, c.Record)
}

// Container is a render target holding cards.
type Container struct {
	ID     string
	Status catalog.Status
	Cards  []Card
}

func (c *Container) Clear() {
	c.Cards = c.Cards[:0]
}

func (c *Container) Append(card Card) {
	c.Cards = append(c.Cards, card)
}

// Card returns the card at index i.
func (c *Container) Card(i int) (Card, bool) {
	if c == nil || i < 0 || i >= len(c.Cards) {
		return Card{}, false
	}
	return c.Cards[i], true
}

var cardsTemplate = template.Must(template.New("cards").Parse(`
{{- range .Cards -}}
<div class="event-item" style="cursor: pointer; transition-delay: {{printf "%.1f" .DelaySeconds}}s"
     hx-get="/events/{{.Record.Status}}/{{.Index}}" hx-target="#event-modal" hx-swap="innerHTML">
  <h3>{{.Record.Name}}</h3>
  <p class="location">📍 {{.Record.Location}}</p>
  <span class="type-badge">{{.TypeLabel}}</span>
  <p class="description">{{.Record.Description}}</p>
</div>
{{end -}}
`))

// WriteHTML writes the container's cards as HTML.
func (c *Container) WriteHTML(w io.Writer) error {
	return cardsTemplate.Execute(w, c)
}

// HTML returns the container's cards as safe HTML for page templates.
func (c *Container) HTML() (template.HTML, error) {
	var buf bytes.Buffer
	if err := c.WriteHTML(&buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// Document resolves render targets by id.
type Document interface {
	Container(id string) (*Container, bool)
}

// Page is a Document holding a fixed set of containers.
type Page struct {
	containers map[string]*Container
}

func NewPage(ids ...string) *Page {
	p := &Page{containers: make(map[string]*Container, len(ids))}
	for _, id := range ids {
		p.containers[id] = &Container{ID: id}
	}
	return p
}

func (p *Page) Container(id string) (*Container, bool) {
	c, ok := p.containers[id]
	return c, ok
}

// Renderer builds cards from catalog lists.
type Renderer struct {
	opener ModalOpener
}

// NewRenderer returns a renderer whose cards open modals through opener.
// opener may be nil.
func NewRenderer(opener ModalOpener) *Renderer {
	return &Renderer{opener: opener}
}

// Render replaces the contents of the container with one card per record,
// in order. A missing container is skipped.
func (r *Renderer) Render(doc Document, containerID string, status catalog.Status, records []catalog.EventRecord) {
	container, ok := doc.Container(containerID)
	if !ok || container == nil {
		return
	}

	container.Clear()
	container.Status = status
	for i, rec := range records {
		container.Append(Card{
			Index:     i,
			Record:    catalog.TaggedRecord{EventRecord: rec, Status: status},
			TypeLabel: rec.Type.Label(),
			Delay:     time.Duration(i) * StaggerStep,
			opener:    r.opener,
		})
	}
}

// RenderCatalog renders both catalog lists into their grids.
func (r *Renderer) RenderCatalog(doc Document, c *catalog.Catalog) {
	r.Render(doc, VisitedGridID, catalog.StatusVisited, c.Visited())
	r.Render(doc, WishlistGridID, catalog.StatusWishlist, c.Wishlist())
}
