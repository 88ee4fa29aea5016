// Package dotmap turns prefecture outlines from a GeoJSON document into the
// dotted map of Japan shown on the events section. Every dot is tagged with
// the classifier status of its prefecture, and catalog events are pinned to
// the nearest dot of their prefecture.
package dotmap

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/yu-ki/portfolio/internal/catalog"
	"github.com/yu-ki/portfolio/internal/classify"
	"github.com/yu-ki/portfolio/internal/geo"
)

const (
	Width    = 800.0
	Height   = 900.0
	FitRatio = 0.9

	OverviewSpacing = 2.0
	DetailSpacing   = 1.5

	// MaxEventDistSq caps the squared degree distance between an event and
	// its dot (about 25 km), so events never land in a neighbouring region.
	MaxEventDistSq = 0.05
)

var ErrNoFeatures = errors.New("geojson has no features")

// Regions by prefecture code (JIS X 0401).
var regionByID = map[int]string{
	1: "Hokkaido",
	2: "Tohoku", 3: "Tohoku", 4: "Tohoku", 5: "Tohoku", 6: "Tohoku", 7: "Tohoku",
	8: "Kanto", 9: "Kanto", 10: "Kanto", 11: "Kanto", 12: "Kanto", 13: "Kanto", 14: "Kanto",
	15: "Chubu", 16: "Chubu", 17: "Chubu", 18: "Chubu", 19: "Chubu", 20: "Chubu", 21: "Chubu", 22: "Chubu", 23: "Chubu",
	24: "Kansai", 25: "Kansai", 26: "Kansai", 27: "Kansai", 28: "Kansai", 29: "Kansai", 30: "Kansai",
	31: "Chugoku", 32: "Chugoku", 33: "Chugoku", 34: "Chugoku", 35: "Chugoku",
	36: "Shikoku", 37: "Shikoku", 38: "Shikoku", 39: "Shikoku",
	40: "Kyushu", 41: "Kyushu", 42: "Kyushu", 43: "Kyushu", 44: "Kyushu", 45: "Kyushu", 46: "Kyushu",
	47: "Okinawa",
}

// RegionNamesJA are the Japanese region labels.
var RegionNamesJA = map[string]string{
	"Hokkaido": "北海道", "Tohoku": "東北", "Kanto": "関東", "Chubu": "中部", "Kansai": "関西",
	"Chugoku": "中国", "Shikoku": "四国", "Kyushu": "九州", "Okinawa": "沖縄",
}

// colorClasses are reused cyclically so neighbouring prefectures differ.
var colorClasses = []string{
	"hokkaido", "tohoku", "kanto", "chubu", "kansai", "chugoku", "shikoku", "kyushu", "okinawa",
}

var hokkaidoColor = map[string]int{"道南": 0, "道央": 1, "道北": 2, "道東": 3}

// Region returns the region of a prefecture code, or "Unknown".
func Region(id int) string {
	if r, ok := regionByID[id]; ok {
		return r
	}
	return "Unknown"
}

// HokkaidoSubregion splits Hokkaido roughly into its four sub-prefectural
// areas.
func HokkaidoSubregion(lat, lon float64) string {
	switch {
	case lat < 42.5:
		return "道南"
	case lon > 143.0:
		return "道東"
	case lat > 44.0:
		return "道北"
	default:
		return "道央"
	}
}

// Feature is one prefecture outline. Polygons hold rings of lon/lat pairs;
// the first ring of each polygon is the outer boundary.
type Feature struct {
	ID       int
	Name     string
	Polygons [][][][2]float64
}

// ParseFeatures reads Polygon and MultiPolygon features from a GeoJSON
// FeatureCollection. Other geometry types are ignored.
func ParseFeatures(data []byte) ([]Feature, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("invalid geojson")
	}
	features := gjson.GetBytes(data, "features")
	if !features.IsArray() {
		return nil, ErrNoFeatures
	}

	var out []Feature
	features.ForEach(func(_, f gjson.Result) bool {
		feature := Feature{
			ID:   int(f.Get("properties.id").Int()),
			Name: f.Get("properties.nam_ja").String(),
		}
		coords := f.Get("geometry.coordinates")
		switch f.Get("geometry.type").String() {
		case "Polygon":
			feature.Polygons = append(feature.Polygons, parsePolygon(coords))
		case "MultiPolygon":
			coords.ForEach(func(_, poly gjson.Result) bool {
				feature.Polygons = append(feature.Polygons, parsePolygon(poly))
				return true
			})
		default:
			return true
		}
		out = append(out, feature)
		return true
	})
	if len(out) == 0 {
		return nil, ErrNoFeatures
	}
	return out, nil
}

func parsePolygon(r gjson.Result) [][][2]float64 {
	var rings [][][2]float64
	r.ForEach(func(_, ring gjson.Result) bool {
		var pts [][2]float64
		ring.ForEach(func(_, p gjson.Result) bool {
			xy := p.Array()
			if len(xy) >= 2 {
				pts = append(pts, [2]float64{xy[0].Float(), xy[1].Float()})
			}
			return true
		})
		rings = append(rings, pts)
		return true
	})
	return rings
}

// Projection maps lon/lat onto the SVG canvas.
type Projection struct {
	MinMex    float64 `json:"minMex"`
	MinMey    float64 `json:"minMey"`
	Scale     float64 `json:"scale"`
	OffsetX   float64 `json:"offsetX"`
	OffsetY   float64 `json:"offsetY"`
	SVGHeight float64 `json:"svgHeight"`
}

// NewProjection fits every coordinate of features into the canvas.
func NewProjection(features []Feature) (Projection, error) {
	b := geo.EmptyBounds()
	for _, f := range features {
		for _, poly := range f.Polygons {
			for _, ring := range poly {
				for _, p := range ring {
					b.Extend(geo.Mercator(p[0], p[1]))
				}
			}
		}
	}
	if b.Empty() || b.Width() == 0 || b.Height() == 0 {
		return Projection{}, fmt.Errorf("degenerate bounds: %+v", b)
	}

	scale := math.Min(Width/b.Width(), Height/b.Height()) * FitRatio
	return Projection{
		MinMex:    b.MinX,
		MinMey:    b.MinY,
		Scale:     scale,
		OffsetX:   (Width - b.Width()*scale) / 2,
		OffsetY:   (Height - b.Height()*scale) / 2,
		SVGHeight: Height,
	}, nil
}

func (p Projection) ToSVG(lon, lat float64) (x, y float64) {
	mx, my := geo.Mercator(lon, lat)
	x = (mx-p.MinMex)*p.Scale + p.OffsetX
	y = p.SVGHeight - ((my-p.MinMey)*p.Scale + p.OffsetY)
	return x, y
}

func (p Projection) FromSVG(x, y float64) (lon, lat float64) {
	my := ((p.SVGHeight-y)-p.OffsetY)/p.Scale + p.MinMey
	mx := (x-p.OffsetX)/p.Scale + p.MinMex
	return geo.InverseMercator(mx, my)
}

// Dot is one circle of the map.
type Dot struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	R      float64 `json:"r"`
	Region string  `json:"region"`
	Name   string  `json:"name"`
	Color  string  `json:"color"`
	// Status of the dot's prefecture.
	Status catalog.Status `json:"status"`
	// Spot is set on dots carrying events.
	Spot   catalog.Status         `json:"spot,omitempty"`
	Events []catalog.TaggedRecord `json:"events,omitempty"`
}

// Dots samples a grid with the given spacing and keeps the points inside
// each polygon's outer ring. Features without an id are skipped.
func Dots(features []Feature, proj Projection, spacing float64, cl *classify.Classifier) []Dot {
	radius := round(spacing/2*0.8, 2)
	var dots []Dot

	for _, f := range features {
		if f.ID == 0 {
			continue
		}
		region := Region(f.ID)
		status := cl.StatusByName(f.Name)

		for _, poly := range f.Polygons {
			if len(poly) == 0 || len(poly[0]) == 0 {
				continue
			}
			ring := make([][2]float64, len(poly[0]))
			b := geo.EmptyBounds()
			for i, p := range poly[0] {
				x, y := proj.ToSVG(p[0], p[1])
				ring[i] = [2]float64{x, y}
				b.Extend(x, y)
			}

			startX := math.Floor(b.MinX/spacing) * spacing
			endX := math.Ceil(b.MaxX/spacing) * spacing
			startY := math.Floor(b.MinY/spacing) * spacing
			endY := math.Ceil(b.MaxY/spacing) * spacing

			for py := startY; py <= endY; py += spacing {
				for px := startX; px <= endX; px += spacing {
					if !geo.PointInPolygon(px, py, ring) {
						continue
					}
					color := colorClasses[f.ID%len(colorClasses)]
					if f.ID == 1 {
						lon, lat := proj.FromSVG(px, py)
						color = colorClasses[hokkaidoColor[HokkaidoSubregion(lat, lon)]]
					}
					dots = append(dots, Dot{
						X:      round(px, 1),
						Y:      round(py, 1),
						R:      radius,
						Region: region,
						Name:   f.Name,
						Color:  color,
						Status: status,
					})
				}
			}
		}
	}
	return dots
}

// PinEvents attaches each event to the nearest dot of its prefecture when
// that dot is within MaxEventDistSq, then sets the spot status of every dot
// carrying events.
func PinEvents(dots []Dot, proj Projection, events []catalog.TaggedRecord) {
	for i := range dots {
		dots[i].Events = nil
		dots[i].Spot = ""
	}

	for _, e := range events {
		if !e.HasCoordinates() {
			continue
		}
		nearest := -1
		minD := math.Inf(1)
		for i, d := range dots {
			if d.Name == "" || !strings.Contains(e.Prefecture, d.Name) {
				continue
			}
			lon, lat := proj.FromSVG(d.X, d.Y)
			dist := (lat-e.Lat)*(lat-e.Lat) + (lon-e.Lon)*(lon-e.Lon)
			if dist < minD {
				minD = dist
				nearest = i
			}
		}
		if nearest >= 0 && minD < MaxEventDistSq {
			dots[nearest].Events = append(dots[nearest].Events, e)
		}
	}

	for i := range dots {
		if len(dots[i].Events) == 0 {
			continue
		}
		dots[i].Spot = catalog.StatusWishlist
		for _, e := range dots[i].Events {
			if e.Status == catalog.StatusVisited {
				dots[i].Spot = catalog.StatusVisited
				break
			}
		}
	}
}

// Map is the generated map data.
type Map struct {
	Config   Projection       `json:"config"`
	Overview []Dot            `json:"overview"`
	Regions  map[string][]Dot `json:"regions"`
	// Labels are the Japanese names of the regions present in Regions.
	Labels map[string]string `json:"labels"`
}

// Generate builds the overview and per-region detail dots.
func Generate(geojson []byte, cat *catalog.Catalog) (*Map, error) {
	features, err := ParseFeatures(geojson)
	if err != nil {
		return nil, err
	}
	proj, err := NewProjection(features)
	if err != nil {
		return nil, err
	}

	cl := classify.New(cat)
	events := cat.Tagged()

	overview := Dots(features, proj, OverviewSpacing, cl)
	PinEvents(overview, proj, events)

	regions := make(map[string][]Dot)
	for _, d := range Dots(features, proj, DetailSpacing, cl) {
		regions[d.Region] = append(regions[d.Region], d)
	}
	labels := make(map[string]string, len(regions))
	for name, dots := range regions {
		PinEvents(dots, proj, events)
		regions[name] = dots
		if ja, ok := RegionNamesJA[name]; ok {
			labels[name] = ja
		}
	}

	return &Map{Config: proj, Overview: overview, Regions: regions, Labels: labels}, nil
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
