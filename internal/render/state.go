package render

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// Resolution is the output size in pixels. Height keeps the aspect ratio of
// the projected bounding box and is not rounded.
type Resolution struct {
	Width  float64
	Height float64
}

// Pixels returns the integer canvas size, at least 1x1
func (r Resolution) Pixels() (int, int) {
	w := int(math.Round(r.Width))
	h := int(math.Round(r.Height))
	return max(w, 1), max(h, 1)
}

// State pairs the projected bounds with the output resolution.
// It is a value and never changes once built.
type State struct {
	Bounds     orb.Bound
	Resolution Resolution
}

// DegenerateExtentError indicates a bounding box with no extent on an axis
type DegenerateExtentError struct {
	Axis     string
	Min, Max float64
}

func (e *DegenerateExtentError) Error() string {
	return fmt.Sprintf("degenerate extent on %s axis: min=%g max=%g", e.Axis, e.Min, e.Max)
}

// NewState derives the output height from width and the bounds' aspect ratio
func NewState(bounds orb.Bound, width int) (State, error) {
	if width <= 0 {
		return State{}, fmt.Errorf("invalid width %d", width)
	}

	axes := []struct {
		name     string
		min, max float64
	}{
		{"x", bounds.Min[0], bounds.Max[0]},
		{"y", bounds.Min[1], bounds.Max[1]},
	}
	for _, a := range axes {
		if !(a.max > a.min) || math.IsInf(a.max-a.min, 0) {
			return State{}, &DegenerateExtentError{Axis: a.name, Min: a.min, Max: a.max}
		}
	}

	dx := bounds.Max[0] - bounds.Min[0]
	dy := bounds.Max[1] - bounds.Min[1]

	return State{
		Bounds: bounds,
		Resolution: Resolution{
			Width:  float64(width),
			Height: float64(width) * (dy / dx),
		},
	}, nil
}

// Normalize maps v linearly so that min becomes 0 and max becomes 1
func Normalize(v, min, max float64) float64 {
	return (v - min) / (max - min)
}

// ToPixel maps a projected point to pixel coordinates, each axis independently
func (s State) ToPixel(p orb.Point) (x, y float64) {
	x = Normalize(p[0], s.Bounds.Min[0], s.Bounds.Max[0]) * s.Resolution.Width
	y = Normalize(p[1], s.Bounds.Min[1], s.Bounds.Max[1]) * s.Resolution.Height
	return x, y
}
