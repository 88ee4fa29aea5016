// Package catalog holds the fixed list of fandom events shown on the site:
// the ones already visited and the ones on the wishlist. The catalog is
// loaded once and is read-only afterwards; every accessor returns copies.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/yu-ki/portfolio/internal/geo"
)

//go:embed events.yaml
var eventsYAML []byte

var ErrInvalidRecord = errors.New("invalid event record")

// EventType is the kind of gathering a record describes.
type EventType string

const (
	TypeEvent          EventType = "event"
	TypeConvention     EventType = "convention"
	TypeSchoolFestival EventType = "school_festival"
)

func (t EventType) Valid() bool {
	switch t {
	case TypeEvent, TypeConvention, TypeSchoolFestival:
		return true
	}
	return false
}

// Label formats the type for display: "school_festival" -> "School Festival".
func (t EventType) Label() string {
	caser := cases.Title(language.English)
	words := strings.Split(string(t), "_")
	for i, w := range words {
		words[i] = caser.String(w)
	}
	return strings.Join(words, " ")
}

// Status is the classification of a record, region or point.
type Status string

const (
	StatusVisited  Status = "visited"
	StatusWishlist Status = "wishlist"
	StatusNone     Status = "none"
)

// ParseStatus accepts the two list statuses.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusVisited, StatusWishlist:
		return Status(s), true
	}
	return StatusNone, false
}

// Text is the Japanese caption shown next to a status in the UI.
func (s Status) Text() string {
	switch s {
	case StatusVisited:
		return "参加済み"
	case StatusWishlist:
		return "いつか参加したい"
	}
	return ""
}

// LabelConfig positions the callout label of a record on the map.
type LabelConfig struct {
	Angle  float64 `yaml:"angle" json:"angle"`
	Length float64 `yaml:"length" json:"length"`
}

// EventRecord is a single event in the catalog.
type EventRecord struct {
	Name        string       `yaml:"name" json:"name"`
	Prefecture  string       `yaml:"prefecture" json:"prefecture"`
	Location    string       `yaml:"location" json:"location"`
	Type        EventType    `yaml:"type" json:"type"`
	Lat         float64      `yaml:"lat" json:"lat"`
	Lon         float64      `yaml:"lon" json:"lon"`
	Description string       `yaml:"description" json:"description"`
	Photos      []string     `yaml:"photos,omitempty" json:"photos,omitempty"`
	LabelSide   string       `yaml:"label_side,omitempty" json:"label_side,omitempty"`
	LabelConfig *LabelConfig `yaml:"label_config,omitempty" json:"label_config,omitempty"`
}

// HasCoordinates reports whether the record can take part in proximity
// checks. A zero latitude or longitude counts as missing.
func (r EventRecord) HasCoordinates() bool {
	return r.Lat != 0 && r.Lon != 0
}

// Point returns the record's coordinates.
func (r EventRecord) Point() geo.Point {
	return geo.Point{Lat: r.Lat, Lon: r.Lon}
}

// FirstPhoto returns the first photo path, or "" when there is none.
func (r EventRecord) FirstPhoto() string {
	if len(r.Photos) == 0 {
		return ""
	}
	return r.Photos[0]
}

// Clone returns a deep copy of r.
func (r EventRecord) Clone() EventRecord {
	out := r
	if r.Photos != nil {
		out.Photos = append([]string(nil), r.Photos...)
	}
	if r.LabelConfig != nil {
		lc := *r.LabelConfig
		out.LabelConfig = &lc
	}
	return out
}

func (r EventRecord) validate() error {
	switch {
	case strings.TrimSpace(r.Name) == "":
		return fmt.Errorf("%w: name is empty", ErrInvalidRecord)
	case strings.TrimSpace(r.Prefecture) == "":
		return fmt.Errorf("%w: %s: prefecture is empty", ErrInvalidRecord, r.Name)
	case !r.Type.Valid():
		return fmt.Errorf("%w: %s: unknown type %q", ErrInvalidRecord, r.Name, r.Type)
	case r.Lat < -90 || r.Lat > 90:
		return fmt.Errorf("%w: %s: latitude %v out of range", ErrInvalidRecord, r.Name, r.Lat)
	case r.Lon < -180 || r.Lon > 180:
		return fmt.Errorf("%w: %s: longitude %v out of range", ErrInvalidRecord, r.Name, r.Lon)
	}
	return nil
}

// TaggedRecord is a record together with the list it belongs to.
type TaggedRecord struct {
	EventRecord
	Status Status `json:"status"`
}

// Catalog is the immutable pair of visited and wishlist sequences.
type Catalog struct {
	visited  []EventRecord
	wishlist []EventRecord
}

// New validates the records and returns a catalog holding private copies.
func New(visited, wishlist []EventRecord) (*Catalog, error) {
	c := &Catalog{
		visited:  make([]EventRecord, 0, len(visited)),
		wishlist: make([]EventRecord, 0, len(wishlist)),
	}
	for _, r := range visited {
		if err := r.validate(); err != nil {
			return nil, fmt.Errorf("visited: %w", err)
		}
		c.visited = append(c.visited, r.Clone())
	}
	for _, r := range wishlist {
		if err := r.validate(); err != nil {
			return nil, fmt.Errorf("wishlist: %w", err)
		}
		c.wishlist = append(c.wishlist, r.Clone())
	}
	return c, nil
}

type document struct {
	Visited  []EventRecord `yaml:"visited"`
	Wishlist []EventRecord `yaml:"wishlist"`
}

// Load parses a YAML catalog document.
func Load(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return New(doc.Visited, doc.Wishlist)
}

// Default returns the catalog embedded in the binary.
var Default = sync.OnceValue(func() *Catalog {
	c, err := Load(eventsYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return c
})

// Visited returns a copy of the visited records in catalog order.
func (c *Catalog) Visited() []EventRecord { return cloneAll(c.visited) }

// Wishlist returns a copy of the wishlist records in catalog order.
func (c *Catalog) Wishlist() []EventRecord { return cloneAll(c.wishlist) }

// List returns the records for a list status; StatusNone yields nil.
func (c *Catalog) List(s Status) []EventRecord {
	switch s {
	case StatusVisited:
		return c.Visited()
	case StatusWishlist:
		return c.Wishlist()
	}
	return nil
}

// Len is the total number of records.
func (c *Catalog) Len() int {
	return len(c.visited) + len(c.wishlist)
}

// At returns the i-th record of the given list.
func (c *Catalog) At(s Status, i int) (TaggedRecord, bool) {
	var list []EventRecord
	switch s {
	case StatusVisited:
		list = c.visited
	case StatusWishlist:
		list = c.wishlist
	default:
		return TaggedRecord{}, false
	}
	if i < 0 || i >= len(list) {
		return TaggedRecord{}, false
	}
	return TaggedRecord{EventRecord: list[i].Clone(), Status: s}, true
}

// Tagged returns every record tagged with its list, visited first.
func (c *Catalog) Tagged() []TaggedRecord {
	out := make([]TaggedRecord, 0, c.Len())
	for _, r := range c.visited {
		out = append(out, TaggedRecord{EventRecord: r.Clone(), Status: StatusVisited})
	}
	for _, r := range c.wishlist {
		out = append(out, TaggedRecord{EventRecord: r.Clone(), Status: StatusWishlist})
	}
	return out
}

// Each calls fn for every record of the list in order, stopping when fn
// returns false. Records are passed by value; slices inside them are shared
// and must not be modified.
func (c *Catalog) Each(s Status, fn func(r EventRecord) bool) {
	var list []EventRecord
	switch s {
	case StatusVisited:
		list = c.visited
	case StatusWishlist:
		list = c.wishlist
	}
	for i := range list {
		if !fn(list[i]) {
			return
		}
	}
}

func cloneAll(in []EventRecord) []EventRecord {
	out := make([]EventRecord, len(in))
	for i, r := range in {
		out[i] = r.Clone()
	}
	return out
}
