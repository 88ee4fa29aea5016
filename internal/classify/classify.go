// Package classify maps region names and coordinates onto the catalog's
// visited/wishlist statuses. Visited always takes priority over wishlist,
// and within a list the first matching record wins.
package classify

import (
	"strings"

	"github.com/yu-ki/portfolio/internal/catalog"
	"github.com/yu-ki/portfolio/internal/geo"
)

// DefaultThresholdKm is the proximity radius used when none is given.
const DefaultThresholdKm = 10.0

// Classifier answers status queries against a catalog.
type Classifier struct {
	catalog *catalog.Catalog
}

func New(c *catalog.Catalog) *Classifier {
	return &Classifier{catalog: c}
}

// StatusByName classifies a region name. A record matches when its
// prefecture equals the name or is contained in it, so "沖縄県那覇市"
// matches a record in "沖縄県".
func (c *Classifier) StatusByName(region string) catalog.Status {
	for _, s := range []catalog.Status{catalog.StatusVisited, catalog.StatusWishlist} {
		found := false
		c.catalog.Each(s, func(r catalog.EventRecord) bool {
			found = regionMatches(r.Prefecture, region)
			return !found
		})
		if found {
			return s
		}
	}
	return catalog.StatusNone
}

func regionMatches(prefecture, region string) bool {
	return prefecture == region || strings.Contains(region, prefecture)
}

// Match is the result of a proximity query.
type Match struct {
	Status     catalog.Status       `json:"status"`
	Event      *catalog.EventRecord `json:"event,omitempty"`
	DistanceKm float64              `json:"distance_km,omitempty"`
}

// MatchPoint returns the first record, in list order, lying strictly closer
// than thresholdKm to p. Visited records are scanned before wishlist ones.
// Records without coordinates are skipped.
func (c *Classifier) MatchPoint(p geo.Point, thresholdKm float64) Match {
	for _, s := range []catalog.Status{catalog.StatusVisited, catalog.StatusWishlist} {
		var m Match
		c.catalog.Each(s, func(r catalog.EventRecord) bool {
			if !r.HasCoordinates() {
				return true
			}
			d := geo.Distance(p, r.Point())
			if d < thresholdKm {
				rec := r.Clone()
				m = Match{Status: s, Event: &rec, DistanceKm: d}
				return false
			}
			return true
		})
		if m.Event != nil {
			return m
		}
	}
	return Match{Status: catalog.StatusNone}
}

// StatusByPoint classifies a coordinate by proximity to catalog records.
func (c *Classifier) StatusByPoint(p geo.Point, thresholdKm float64) catalog.Status {
	return c.MatchPoint(p, thresholdKm).Status
}
