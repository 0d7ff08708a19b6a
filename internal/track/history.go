package track

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/paulmach/orb"

	"roadtrace/internal/geo"
)

// E7 is the fixed-point scale of location history coordinates
const E7 = 1e7

// Location is one visited position as stored in a location history export
type Location struct {
	LatitudeE7  int64 `json:"latitudeE7"`
	LongitudeE7 int64 `json:"longitudeE7"`
}

// Point returns the location in decimal degrees, longitude first
func (l Location) Point() orb.Point {
	return orb.Point{float64(l.LongitudeE7) / E7, float64(l.LatitudeE7) / E7}
}

// History is a loaded location history
type History struct {
	Locations []Location
	Dropped   int // records without both coordinates
}

type document struct {
	Locations []struct {
		LatitudeE7  *int64 `json:"latitudeE7"`
		LongitudeE7 *int64 `json:"longitudeE7"`
	} `json:"locations"`
}

// Load reads a location history JSON file of the form
// {"locations": [{"latitudeE7": ..., "longitudeE7": ...}, ...]}.
// The whole file is held in memory.
func Load(path string) (*History, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &geo.OpenError{Path: path, Err: err}
	}
	defer f.Close()

	var doc document
	if err := json.NewDecoder(f).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse location history %s: %w", path, err)
	}
	if doc.Locations == nil {
		return nil, fmt.Errorf("location history %s has no locations field", path)
	}

	h := &History{Locations: make([]Location, 0, len(doc.Locations))}
	for _, rec := range doc.Locations {
		if rec.LatitudeE7 == nil || rec.LongitudeE7 == nil {
			h.Dropped++
			continue
		}
		h.Locations = append(h.Locations, Location{
			LatitudeE7:  *rec.LatitudeE7,
			LongitudeE7: *rec.LongitudeE7,
		})
	}

	return h, nil
}

// Points converts every location to degrees
func (h *History) Points() []orb.Point {
	points := make([]orb.Point, len(h.Locations))
	for i, loc := range h.Locations {
		points[i] = loc.Point()
	}
	return points
}
