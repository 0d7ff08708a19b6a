package geo

import (
	"math"

	"github.com/paulmach/orb"
)

// Projection converts a geographic coordinate (lon, lat in degrees) to planar coordinates
type Projection interface {
	Project(p orb.Point) (orb.Point, error)
}

// WebMercator is the spherical Web Mercator projection normalized to the unit square:
// (-180, 85.05) maps to (0, 0) and (180, -85.05) maps to (1, 1), so y grows southwards
// the way screen coordinates do.
type WebMercator struct {
	// Scale multiplies both axes after normalization. Zero means 1.
	Scale float64
}

// Project converts lon/lat degrees to planar units.
// Latitudes at or beyond the poles return an *InvalidPointError.
func (m WebMercator) Project(p orb.Point) (orb.Point, error) {
	lon, lat := p.Lon(), p.Lat()
	if !isFinite(lon) || !isFinite(lat) || lat <= -90 || lat >= 90 {
		return orb.Point{}, &InvalidPointError{Lat: lat, Lon: lon}
	}

	x := lon/360 + 0.5
	y := 0.5 - math.Log(math.Tan(math.Pi/4+lat*math.Pi/360))/(2*math.Pi)

	// tan can still overflow to Inf within a ulp of the poles
	if !isFinite(y) {
		return orb.Point{}, &InvalidPointError{Lat: lat, Lon: lon}
	}

	if m.Scale != 0 {
		x *= m.Scale
		y *= m.Scale
	}
	return orb.Point{x, y}, nil
}

// Identity leaves coordinates untouched. Useful for data that is already planar.
type Identity struct{}

// Project returns p unchanged unless it is not finite
func (Identity) Project(p orb.Point) (orb.Point, error) {
	if !isFinite(p[0]) || !isFinite(p[1]) {
		return orb.Point{}, &InvalidPointError{Lat: p.Lat(), Lon: p.Lon()}
	}
	return p, nil
}

// ProjectLine projects every point of a geometry into dst (reusing its storage).
// A single invalid point invalidates the whole geometry so both render passes
// skip exactly the same lines.
func ProjectLine(proj Projection, line orb.LineString, dst orb.LineString) (orb.LineString, error) {
	dst = dst[:0]
	for _, p := range line {
		q, err := proj.Project(p)
		if err != nil {
			return dst[:0], err
		}
		dst = append(dst, q)
	}
	return dst, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
