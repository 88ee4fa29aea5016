package geo

import "math"

// Mercator projects a coordinate onto the unit spherical Mercator plane.
// x and y are in radians.
func Mercator(lon, lat float64) (x, y float64) {
	x = Radians(lon)
	y = math.Log(math.Tan(math.Pi/4 + Radians(lat)/2))
	return x, y
}

// InverseMercator is the inverse of Mercator.
func InverseMercator(x, y float64) (lon, lat float64) {
	lon = Degrees(x)
	lat = Degrees(2 * (math.Atan(math.Exp(y)) - math.Pi/4))
	return lon, lat
}

// Bounds is an axis-aligned box on the projected plane.
type Bounds struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// EmptyBounds returns bounds that any Extend call will overwrite.
func EmptyBounds() Bounds {
	return Bounds{
		MinX: math.Inf(1),
		MinY: math.Inf(1),
		MaxX: math.Inf(-1),
		MaxY: math.Inf(-1),
	}
}

// Extend grows b to include (x, y).
func (b *Bounds) Extend(x, y float64) {
	b.MinX = math.Min(b.MinX, x)
	b.MinY = math.Min(b.MinY, y)
	b.MaxX = math.Max(b.MaxX, x)
	b.MaxY = math.Max(b.MaxY, y)
}

// Empty reports whether nothing has been added to b.
func (b Bounds) Empty() bool {
	return b.MinX > b.MaxX || b.MinY > b.MaxY
}

func (b Bounds) Width() float64  { return b.MaxX - b.MinX }
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// PointInPolygon reports whether (x, y) is inside ring using the even-odd
// rule. The ring may or may not repeat its first vertex.
func PointInPolygon(x, y float64, ring [][2]float64) bool {
	inside := false
	j := len(ring) - 1
	for i := range ring {
		xi, yi := ring[i][0], ring[i][1]
		xj, yj := ring[j][0], ring[j][1]
		if (yi > y) != (yj > y) && x < (xj-xi)*(y-yi)/(yj-yi)+xi {
			inside = !inside
		}
		j = i
	}
	return inside
}
