// Command mapgen builds the dotted map JSON served at /api/map from a
// prefecture GeoJSON file.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/yu-ki/portfolio/internal/catalog"
	"github.com/yu-ki/portfolio/internal/dotmap"
)

func main() {
	in := flag.String("in", "japan.geojson", "Prefecture GeoJSON input")
	out := flag.String("out", "static/map-data.json", "Map JSON output")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: mapgen [-in japan.geojson] [-out static/map-data.json]\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	data, err := os.ReadFile(*in)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", *in, err)
	}

	m, err := dotmap.Generate(data, catalog.Default())
	if err != nil {
		log.Fatalf("Failed to generate map: %v", err)
	}

	encoded, err := json.Marshal(m)
	if err != nil {
		log.Fatalf("Failed to encode map: %v", err)
	}
	if err := os.WriteFile(*out, encoded, 0o644); err != nil {
		log.Fatalf("Failed to write %s: %v", *out, err)
	}

	detail := 0
	for _, dots := range m.Regions {
		detail += len(dots)
	}
	log.Printf("Wrote %s: %d overview dots, %d detail dots in %d regions", *out, len(m.Overview), detail, len(m.Regions))
}
