package geo

import (
	"math"
	"testing"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b Point
		want float64
		tol  float64
	}{
		{
			name: "same point",
			a:    Point{Lat: 26.3165, Lon: 127.7575},
			b:    Point{Lat: 26.3165, Lon: 127.7575},
			want: 0,
			tol:  1e-9,
		},
		{
			name: "one degree of latitude",
			a:    Point{Lat: 0, Lon: 0},
			b:    Point{Lat: 1, Lon: 0},
			want: EarthRadiusKm * math.Pi / 180,
			tol:  1e-6,
		},
		{
			name: "tokyo to osaka",
			a:    Point{Lat: 35.6812, Lon: 139.7671},
			b:    Point{Lat: 34.7025, Lon: 135.4959},
			want: 403,
			tol:  3,
		},
		{
			name: "okikemo to query point",
			a:    Point{Lat: 26.30, Lon: 127.76},
			b:    Point{Lat: 26.3165, Lon: 127.7575},
			want: 1.85,
			tol:  0.1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.a, tt.b)
			if math.Abs(got-tt.want) > tt.tol {
				t.Errorf("Distance() = %v, want %v ± %v", got, tt.want, tt.tol)
			}
		})
	}
}

func TestDistanceSymmetric(t *testing.T) {
	a := Point{Lat: 34.7691, Lon: 137.3914}
	b := Point{Lat: 43.0618, Lon: 141.3545}
	if Distance(a, b) != Distance(b, a) {
		t.Errorf("Distance is not symmetric: %v vs %v", Distance(a, b), Distance(b, a))
	}
}

func TestMercatorRoundTrip(t *testing.T) {
	for _, p := range []Point{{Lat: 26.2, Lon: 127.7}, {Lat: 45.5, Lon: 141.9}, {Lat: 0, Lon: 0}} {
		x, y := Mercator(p.Lon, p.Lat)
		lon, lat := InverseMercator(x, y)
		if math.Abs(lon-p.Lon) > 1e-9 || math.Abs(lat-p.Lat) > 1e-9 {
			t.Errorf("round trip of %+v gave lon=%v lat=%v", p, lon, lat)
		}
	}
}

func TestBounds(t *testing.T) {
	b := EmptyBounds()
	if !b.Empty() {
		t.Fatal("expected empty bounds")
	}
	b.Extend(1, 2)
	b.Extend(-3, 5)
	if b.Empty() {
		t.Fatal("expected non-empty bounds")
	}
	if b.Width() != 4 || b.Height() != 3 {
		t.Errorf("got width=%v height=%v, want 4 and 3", b.Width(), b.Height())
	}
}

func TestPointInPolygon(t *testing.T) {
	square := [][2]float64{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}}

	tests := []struct {
		name string
		x, y float64
		want bool
	}{
		{"center", 5, 5, true},
		{"outside right", 15, 5, false},
		{"outside below", 5, -1, false},
		{"near corner inside", 0.5, 9.5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PointInPolygon(tt.x, tt.y, square); got != tt.want {
				t.Errorf("PointInPolygon(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}
