package render

import (
	"errors"
	"io"

	"github.com/paulmach/orb"

	"roadtrace/internal/debug"
	"roadtrace/internal/geo"
)

// Stats counts what a render drew and skipped
type Stats struct {
	Locations        int
	LocationsSkipped int
	Roads            int
	Segments         int
	RoadsEmpty       int
	RoadsSkipped     int
}

// MapRenderer draws roads and location markers onto a canvas it owns
type MapRenderer struct {
	state      State
	projection geo.Projection
	style      Style
	canvas     *Canvas
	stats      Stats
}

// NewMapRenderer creates a renderer with a canvas sized by state and filled
// with the style's background
func NewMapRenderer(state State, projection geo.Projection, style Style) *MapRenderer {
	w, h := state.Resolution.Pixels()
	canvas := NewCanvas(w, h)
	canvas.Fill(style.Background)

	return &MapRenderer{
		state:      state,
		projection: projection,
		style:      style,
		canvas:     canvas,
	}
}

// Render draws all locations first and then every road from a fresh traversal
// of src, so roads are layered on top of the markers
func (m *MapRenderer) Render(src geo.Source, locations []orb.Point) error {
	m.RenderLocations(locations)
	return m.RenderRoads(src)
}

// RenderLocations fills one square marker per location, anchored at its
// top-left corner. Returns the number of markers drawn.
func (m *MapRenderer) RenderLocations(locations []orb.Point) int {
	drawn := 0
	size := m.style.MarkerSize

	for _, loc := range locations {
		p, err := m.projection.Project(loc)
		if err != nil {
			m.stats.LocationsSkipped++
			debug.Log("render: skipping location: %v", err)
			continue
		}

		x, y := m.state.ToPixel(p)
		m.canvas.FillRect(x, y, size, size, m.style.Location, m.style.LocationAlpha)
		drawn++
	}

	m.stats.Locations += drawn
	return drawn
}

// RenderRoads opens src and strokes every geometry as connected segments.
// Each geometry starts its own path; consecutive geometries are never joined.
func (m *MapRenderer) RenderRoads(src geo.Source) error {
	stream, err := src.Open()
	if err != nil {
		return err
	}
	defer stream.Close()

	var projected orb.LineString
	for {
		line, err := stream.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		if len(line) == 0 {
			m.stats.RoadsEmpty++
			continue
		}

		projected, err = geo.ProjectLine(m.projection, line, projected)
		if err != nil {
			var invalid *geo.InvalidPointError
			if errors.As(err, &invalid) {
				m.stats.RoadsSkipped++
				continue
			}
			return err
		}

		m.renderLine(projected)
	}
}

func (m *MapRenderer) renderLine(line orb.LineString) {
	px, py := m.state.ToPixel(line[0])
	for _, p := range line[1:] {
		x, y := m.state.ToPixel(p)
		m.canvas.DrawLine(px, py, x, y, m.style.Road, m.style.RoadAlpha)
		m.stats.Segments++
		px, py = x, y
	}
	m.stats.Roads++
}

// Canvas returns the canvas being drawn on
func (m *MapRenderer) Canvas() *Canvas {
	return m.canvas
}

// State returns the render state
func (m *MapRenderer) State() State {
	return m.state
}

// Stats returns the counters accumulated so far
func (m *MapRenderer) Stats() Stats {
	return m.stats
}
