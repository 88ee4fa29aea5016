package dotmap

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/yu-ki/portfolio/internal/catalog"
)

func square(minLon, minLat, maxLon, maxLat float64) string {
	return fmt.Sprintf("[[[%v,%v],[%v,%v],[%v,%v],[%v,%v],[%v,%v]]]",
		minLon, minLat, maxLon, minLat, maxLon, maxLat, minLon, maxLat, minLon, minLat)
}

func feature(id int, name, geomType, coords string) string {
	return fmt.Sprintf(`{"type":"Feature","properties":{"id":%d,"nam_ja":%q},"geometry":{"type":%q,"coordinates":%s}}`,
		id, name, geomType, coords)
}

func testGeoJSON() []byte {
	features := []string{
		feature(47, "沖縄県", "Polygon", square(127.6, 26.1, 127.9, 26.4)),
		feature(13, "東京都", "MultiPolygon", "["+square(139.5, 35.5, 139.9, 35.8)+"]"),
		feature(1, "北海道", "Polygon", square(141.2, 42.9, 141.5, 43.2)),
		feature(2, "青森県", "Polygon", square(140.5, 40.6, 140.8, 40.9)),
		`{"type":"Feature","properties":{"id":99},"geometry":{"type":"Point","coordinates":[0,0]}}`,
	}
	return []byte(`{"type":"FeatureCollection","features":[` + strings.Join(features, ",") + `]}`)
}

func TestParseFeatures(t *testing.T) {
	features, err := ParseFeatures(testGeoJSON())
	if err != nil {
		t.Fatalf("ParseFeatures() error: %v", err)
	}
	if len(features) != 4 {
		t.Fatalf("Expected 4 polygon features, got %d", len(features))
	}
	if features[0].ID != 47 || features[0].Name != "沖縄県" {
		t.Errorf("Unexpected first feature: %+v", features[0])
	}
	if len(features[1].Polygons) != 1 || len(features[1].Polygons[0][0]) != 5 {
		t.Errorf("Unexpected MultiPolygon parse: %+v", features[1].Polygons)
	}

	if _, err := ParseFeatures([]byte("{")); err == nil {
		t.Error("Expected error for invalid JSON")
	}
	if _, err := ParseFeatures([]byte(`{"features":[]}`)); !errors.Is(err, ErrNoFeatures) {
		t.Errorf("Expected ErrNoFeatures, got %v", err)
	}
}

func TestProjectionRoundTrip(t *testing.T) {
	features, _ := ParseFeatures(testGeoJSON())
	proj, err := NewProjection(features)
	if err != nil {
		t.Fatalf("NewProjection() error: %v", err)
	}

	x, y := proj.ToSVG(127.7575, 26.3165)
	if x < 0 || x > Width || y < 0 || y > Height {
		t.Errorf("Projected point outside canvas: %v, %v", x, y)
	}
	lon, lat := proj.FromSVG(x, y)
	if math.Abs(lon-127.7575) > 1e-9 || math.Abs(lat-26.3165) > 1e-9 {
		t.Errorf("Round trip gave %v, %v", lon, lat)
	}

	// North is up.
	_, ySapporo := proj.ToSVG(141.35, 43.06)
	if ySapporo >= y {
		t.Errorf("Expected Sapporo above Okinawa: %v >= %v", ySapporo, y)
	}
}

func TestNewProjectionDegenerate(t *testing.T) {
	_, err := NewProjection([]Feature{{ID: 1, Polygons: [][][][2]float64{{{{140, 40}}}}}})
	if err == nil {
		t.Error("Expected error for a single point")
	}
}

func TestHokkaidoSubregion(t *testing.T) {
	tests := []struct {
		lat, lon float64
		want     string
	}{
		{41.77, 140.73, "道南"},
		{43.0, 144.4, "道東"},
		{45.0, 142.0, "道北"},
		{43.06, 141.35, "道央"},
	}
	for _, tt := range tests {
		if got := HokkaidoSubregion(tt.lat, tt.lon); got != tt.want {
			t.Errorf("HokkaidoSubregion(%v, %v) = %s, want %s", tt.lat, tt.lon, got, tt.want)
		}
	}
}

func TestGenerate(t *testing.T) {
	m, err := Generate(testGeoJSON(), catalog.Default())
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if len(m.Overview) == 0 {
		t.Fatal("Expected overview dots")
	}

	byName := map[string][]Dot{}
	for _, d := range m.Overview {
		byName[d.Name] = append(byName[d.Name], d)
	}

	tests := []struct {
		name   string
		region string
		color  string
		status catalog.Status
		spot   catalog.Status
	}{
		{"沖縄県", "Okinawa", "kanto", catalog.StatusVisited, catalog.StatusVisited},
		{"東京都", "Kanto", "kansai", catalog.StatusVisited, catalog.StatusVisited},
		{"北海道", "Hokkaido", "tohoku", catalog.StatusWishlist, catalog.StatusWishlist},
		{"青森県", "Tohoku", "kanto", catalog.StatusNone, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dots := byName[tt.name]
			if len(dots) == 0 {
				t.Fatalf("No dots for %s", tt.name)
			}
			var spot catalog.Status
			for _, d := range dots {
				if d.Region != tt.region || d.Color != tt.color || d.Status != tt.status {
					t.Fatalf("Unexpected dot %+v", d)
				}
				if d.R != 0.8 {
					t.Fatalf("Unexpected radius %v", d.R)
				}
				if d.Spot != "" {
					spot = d.Spot
				}
			}
			if spot != tt.spot {
				t.Errorf("Spot status = %q, want %q", spot, tt.spot)
			}
		})
	}

	if len(m.Regions["Okinawa"]) <= len(byName["沖縄県"]) {
		t.Errorf("Expected denser detail dots: %d vs %d", len(m.Regions["Okinawa"]), len(byName["沖縄県"]))
	}
	wantLabels := map[string]string{"Okinawa": "沖縄", "Kanto": "関東", "Hokkaido": "北海道", "Tohoku": "東北"}
	if len(m.Labels) != len(wantLabels) {
		t.Errorf("Expected %d region labels, got %v", len(wantLabels), m.Labels)
	}
	for region, ja := range wantLabels {
		if m.Labels[region] != ja {
			t.Errorf("Label of %s = %q, want %q", region, m.Labels[region], ja)
		}
	}

	if _, ok := m.Regions["Unknown"]; ok {
		t.Error("Feature without polygon geometry produced dots")
	}
}

func TestPinEvents(t *testing.T) {
	m, err := Generate(testGeoJSON(), catalog.Default())
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	pinned := map[string]bool{}
	for _, d := range m.Overview {
		for _, e := range d.Events {
			pinned[e.Name] = true
			if !strings.Contains(e.Prefecture, d.Name) {
				t.Errorf("Event %s pinned to %s", e.Name, d.Name)
			}
		}
	}
	for _, name := range []string{"おきけも！", "琉大祭", "早稲田祭", "ちるこん"} {
		if !pinned[name] {
			t.Errorf("Event %s not pinned", name)
		}
	}
	if pinned["JMoF(Japan Meeting of Furries)"] {
		t.Error("Event outside every outline was pinned")
	}
}

func TestMapJSON(t *testing.T) {
	m, err := Generate(testGeoJSON(), catalog.Default())
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	for _, key := range []string{`"config"`, `"overview"`, `"regions"`, `"labels"`, `"svgHeight":900`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("JSON missing %s", key)
		}
	}
}
