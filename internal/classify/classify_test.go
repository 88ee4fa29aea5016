package classify

import (
	"testing"

	"github.com/yu-ki/portfolio/internal/catalog"
	"github.com/yu-ki/portfolio/internal/geo"
)

func newTestClassifier(t *testing.T, visited, wishlist []catalog.EventRecord) *Classifier {
	t.Helper()
	c, err := catalog.New(visited, wishlist)
	if err != nil {
		t.Fatalf("Failed to build catalog: %v", err)
	}
	return New(c)
}

func record(name, prefecture string, lat, lon float64) catalog.EventRecord {
	return catalog.EventRecord{
		Name:       name,
		Prefecture: prefecture,
		Location:   "somewhere",
		Type:       catalog.TypeEvent,
		Lat:        lat,
		Lon:        lon,
	}
}

func TestStatusByName(t *testing.T) {
	c := New(catalog.Default())

	tests := []struct {
		region string
		want   catalog.Status
	}{
		{"沖縄県", catalog.StatusVisited},
		{"沖縄県那覇市", catalog.StatusVisited},
		{"愛知県", catalog.StatusVisited},
		{"東京都", catalog.StatusVisited},
		{"北海道", catalog.StatusWishlist},
		{"大阪府", catalog.StatusWishlist},
		{"香川県高松市", catalog.StatusWishlist},
		{"青森県", catalog.StatusNone},
		{"沖縄", catalog.StatusNone},
		{"", catalog.StatusNone},
	}

	for _, tt := range tests {
		t.Run(tt.region, func(t *testing.T) {
			if got := c.StatusByName(tt.region); got != tt.want {
				t.Errorf("StatusByName(%q) = %s, want %s", tt.region, got, tt.want)
			}
		})
	}
}

func TestStatusByNameVisitedPriority(t *testing.T) {
	// 兵庫県 has one visited record and two wishlist records.
	c := New(catalog.Default())
	if got := c.StatusByName("兵庫県"); got != catalog.StatusVisited {
		t.Errorf("StatusByName(兵庫県) = %s, want visited", got)
	}

	// Priority does not depend on where the prefecture sits in either list.
	c = newTestClassifier(t,
		[]catalog.EventRecord{record("a", "東京都", 0, 0), record("b", "京都府", 0, 0)},
		[]catalog.EventRecord{record("c", "京都府", 0, 0)},
	)
	if got := c.StatusByName("京都府"); got != catalog.StatusVisited {
		t.Errorf("StatusByName(京都府) = %s, want visited", got)
	}
}

func TestStatusByNameNoMatch(t *testing.T) {
	c := New(catalog.Default())
	for _, region := range []string{"Okinawa", "青森県", "山形県", "県", "島"} {
		if got := c.StatusByName(region); got != catalog.StatusNone {
			t.Errorf("StatusByName(%q) = %s, want none", region, got)
		}
	}
}

func TestStatusByPoint(t *testing.T) {
	c := New(catalog.Default())

	tests := []struct {
		name      string
		point     geo.Point
		threshold float64
		want      catalog.Status
	}{
		{"near okikemo", geo.Point{Lat: 26.30, Lon: 127.76}, DefaultThresholdKm, catalog.StatusVisited},
		{"near chirukon", geo.Point{Lat: 43.06, Lon: 141.35}, DefaultThresholdKm, catalog.StatusWishlist},
		{"middle of the sea", geo.Point{Lat: 30.0, Lon: 135.0}, DefaultThresholdKm, catalog.StatusNone},
		{"tiny threshold", geo.Point{Lat: 26.30, Lon: 127.76}, 0.5, catalog.StatusNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.StatusByPoint(tt.point, tt.threshold); got != tt.want {
				t.Errorf("StatusByPoint(%+v, %v) = %s, want %s", tt.point, tt.threshold, got, tt.want)
			}
		})
	}
}

func TestStatusByPointThresholdIsStrict(t *testing.T) {
	target := record("only", "沖縄県", 26.3165, 127.7575)
	c := newTestClassifier(t, []catalog.EventRecord{target}, nil)

	query := geo.Point{Lat: 26.40, Lon: 127.80}
	d := geo.Distance(query, target.Point())

	if got := c.StatusByPoint(query, d); got != catalog.StatusNone {
		t.Errorf("StatusByPoint at exactly the threshold = %s, want none", got)
	}
	if got := c.StatusByPoint(query, d+1e-9); got != catalog.StatusVisited {
		t.Errorf("StatusByPoint just inside the threshold = %s, want visited", got)
	}
}

func TestMatchPointFirstNotNearest(t *testing.T) {
	far := record("far", "沖縄県", 26.3165, 127.7575)
	near := record("near", "沖縄県", 26.3001, 127.7601)
	c := newTestClassifier(t, []catalog.EventRecord{far, near}, nil)

	m := c.MatchPoint(geo.Point{Lat: 26.30, Lon: 127.76}, DefaultThresholdKm)
	if m.Status != catalog.StatusVisited {
		t.Fatalf("Expected visited, got %s", m.Status)
	}
	if m.Event == nil || m.Event.Name != "far" {
		t.Errorf("Expected first record in list order, got %+v", m.Event)
	}
	if m.DistanceKm <= 0 || m.DistanceKm >= DefaultThresholdKm {
		t.Errorf("Unexpected distance %v", m.DistanceKm)
	}
}

func TestStatusByPointVisitedPriority(t *testing.T) {
	// The wishlist record is nearer, but visited is scanned first.
	c := newTestClassifier(t,
		[]catalog.EventRecord{record("v", "沖縄県", 26.35, 127.76)},
		[]catalog.EventRecord{record("w", "沖縄県", 26.30, 127.76)},
	)
	if got := c.StatusByPoint(geo.Point{Lat: 26.30, Lon: 127.76}, DefaultThresholdKm); got != catalog.StatusVisited {
		t.Errorf("StatusByPoint = %s, want visited", got)
	}
}

func TestStatusByPointSkipsMissingCoordinates(t *testing.T) {
	c := newTestClassifier(t,
		[]catalog.EventRecord{record("no coords", "沖縄県", 0, 0)},
		[]catalog.EventRecord{record("w", "沖縄県", 26.30, 127.76)},
	)
	if got := c.StatusByPoint(geo.Point{Lat: 26.30, Lon: 127.76}, DefaultThresholdKm); got != catalog.StatusWishlist {
		t.Errorf("StatusByPoint = %s, want wishlist", got)
	}
	if got := c.StatusByPoint(geo.Point{Lat: 0.01, Lon: 0.01}, DefaultThresholdKm); got != catalog.StatusNone {
		t.Errorf("Record without coordinates matched: %s", got)
	}
}
