package web

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yu-ki/portfolio/internal/catalog"
	"github.com/yu-ki/portfolio/internal/geo"
)

func (s *Server) handleAPIEvents(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"visited":  s.catalog.Visited(),
		"wishlist": s.catalog.Wishlist(),
	})
}

func (s *Server) handleAPIStatus(c *gin.Context) {
	region := c.Query("region")
	if region == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "region is required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"region": region,
		"status": s.classifier.StatusByName(region),
	})
}

func (s *Server) handleAPIPointStatus(c *gin.Context) {
	lat, err := parseFinite(c.Query("lat"))
	if err != nil || lat < -90 || lat > 90 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lat"})
		return
	}
	lon, err := parseFinite(c.Query("lon"))
	if err != nil || lon < -180 || lon > 180 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lon"})
		return
	}

	threshold := s.opts.ProximityKm
	if raw := c.Query("threshold"); raw != "" {
		threshold, err = parseFinite(raw)
		if err != nil || threshold <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "threshold must be a positive number"})
			return
		}
	}

	m := s.classifier.MatchPoint(geo.Point{Lat: lat, Lon: lon}, threshold)
	resp := gin.H{"status": m.Status, "threshold_km": threshold}
	if m.Status != catalog.StatusNone {
		resp["event"] = m.Event
		resp["distance_km"] = m.DistanceKm
	}
	c.JSON(http.StatusOK, resp)
}

// parseFinite parses a float, rejecting NaN and infinities, which
// ParseFloat accepts and no range check catches.
func parseFinite(raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a finite number: %q", raw)
	}
	return v, nil
}

func (s *Server) handleAPIMap(c *gin.Context) {
	if s.mapData == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "map data not configured"})
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", s.mapData)
}
