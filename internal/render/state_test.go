package render

import (
	"errors"
	"math"
	"testing"

	"github.com/paulmach/orb"
)

func TestNormalizeBoundaries(t *testing.T) {
	ranges := [][2]float64{
		{0, 1},
		{-20, 10},
		{0.4123, 0.4187},
		{1e-9, 3e-9},
		{-1000, -999.5},
	}

	for _, r := range ranges {
		lo, hi := r[0], r[1]
		if got := Normalize(lo, lo, hi); got != 0 {
			t.Errorf("Normalize(min) for %v: expected 0, got %g", r, got)
		}
		if got := Normalize(hi, lo, hi); got != 1 {
			t.Errorf("Normalize(max) for %v: expected 1, got %g", r, got)
		}

		// affine in between
		for _, a := range []float64{0.1, 0.25, 0.5, 0.9} {
			v := lo + a*(hi-lo)
			if got := Normalize(v, lo, hi); math.Abs(got-a) > 1e-9 {
				t.Errorf("Normalize(%g) for %v: expected %g, got %g", v, r, a, got)
			}
		}
	}
}

func TestNewStateAspectRatio(t *testing.T) {
	tests := []struct {
		name   string
		bounds orb.Bound
		width  int
	}{
		{"wide", orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{20, 10}}, 4000},
		{"tall", orb.Bound{Min: orb.Point{-1, -5}, Max: orb.Point{1, 5}}, 300},
		{"mercator city", orb.Bound{Min: orb.Point{0.5372, 0.3277}, Max: orb.Point{0.5386, 0.3286}}, 4000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, err := NewState(tt.bounds, tt.width)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			dx := tt.bounds.Max[0] - tt.bounds.Min[0]
			dy := tt.bounds.Max[1] - tt.bounds.Min[1]
			want := float64(tt.width) * dy / dx

			if state.Resolution.Width != float64(tt.width) {
				t.Errorf("Expected width %d, got %g", tt.width, state.Resolution.Width)
			}
			if math.Abs(state.Resolution.Height-want) > 1e-9*want {
				t.Errorf("Expected height %g, got %g", want, state.Resolution.Height)
			}
		})
	}
}

func TestNewStateHalfHeight(t *testing.T) {
	state, err := NewState(orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{20, 10}}, 200)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	w, h := state.Resolution.Pixels()
	if w != 200 || h != 100 {
		t.Errorf("Expected 200x100, got %dx%d", w, h)
	}
}

func TestNewStateDegenerate(t *testing.T) {
	tests := []struct {
		name   string
		bounds orb.Bound
		axis   string
	}{
		{"single point", orb.Bound{Min: orb.Point{3, 3}, Max: orb.Point{3, 3}}, "x"},
		{"horizontal line", orb.Bound{Min: orb.Point{0, 3}, Max: orb.Point{10, 3}}, "y"},
		{"vertical line", orb.Bound{Min: orb.Point{2, 0}, Max: orb.Point{2, 10}}, "x"},
		{"never extended", orb.Bound{
			Min: orb.Point{math.Inf(1), math.Inf(1)},
			Max: orb.Point{math.Inf(-1), math.Inf(-1)},
		}, "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewState(tt.bounds, 100)
			var degenerate *DegenerateExtentError
			if !errors.As(err, &degenerate) {
				t.Fatalf("Expected DegenerateExtentError, got %v", err)
			}
			if degenerate.Axis != tt.axis {
				t.Errorf("Expected axis %s, got %s", tt.axis, degenerate.Axis)
			}
		})
	}
}

func TestToPixel(t *testing.T) {
	state, err := NewState(orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{20, 10}}, 200)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	tests := []struct {
		in   orb.Point
		x, y float64
	}{
		{orb.Point{0, 0}, 0, 0},
		{orb.Point{20, 10}, 200, 100},
		{orb.Point{10, 10}, 100, 100},
		{orb.Point{5, 5}, 50, 50},
	}

	for _, tt := range tests {
		x, y := state.ToPixel(tt.in)
		if math.Abs(x-tt.x) > 1e-9 || math.Abs(y-tt.y) > 1e-9 {
			t.Errorf("ToPixel(%v): expected (%g, %g), got (%g, %g)", tt.in, tt.x, tt.y, x, y)
		}
	}
}
