package render

import (
	"image/color"
	"testing"
)

var (
	black = color.NRGBA{A: 0xff}
	red   = color.NRGBA{R: 0xff, A: 0xff}
	blue  = color.NRGBA{B: 0xff, A: 0xff}
)

// over blends src with opacity alpha onto an opaque dst
func over(dst, src color.NRGBA, alpha float64) color.RGBA {
	mix := func(d, s uint8) uint8 {
		return uint8(float64(s)*alpha + float64(d)*(1-alpha) + 0.5)
	}
	return color.RGBA{R: mix(dst.R, src.R), G: mix(dst.G, src.G), B: mix(dst.B, src.B), A: 0xff}
}

func near(a, b color.RGBA, tol int) bool {
	diff := func(x, y uint8) bool {
		d := int(x) - int(y)
		return d <= tol && d >= -tol
	}
	return diff(a.R, b.R) && diff(a.G, b.G) && diff(a.B, b.B) && diff(a.A, b.A)
}

func opaque(c color.NRGBA) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

func TestCanvasFill(t *testing.T) {
	background := color.NRGBA{R: 0x14, G: 0x15, B: 0x18, A: 0xff}
	c := NewCanvas(4, 3)
	c.Fill(background)

	for y := 0; y < c.Height(); y++ {
		for x := 0; x < c.Width(); x++ {
			if got := c.At(x, y); got != opaque(background) {
				t.Fatalf("Pixel (%d, %d): expected %v, got %v", x, y, background, got)
			}
		}
	}
}

func TestCanvasFillRect(t *testing.T) {
	c := NewCanvas(20, 20)
	c.Fill(black)
	c.FillRect(5, 5, 10, 10, blue, 0.4)

	want := over(black, blue, 0.4)
	for _, p := range [][2]int{{5, 5}, {14, 14}, {9, 12}} {
		if got := c.At(p[0], p[1]); !near(got, want, 1) {
			t.Errorf("Pixel %v inside rect: expected %v, got %v", p, want, got)
		}
	}
	for _, p := range [][2]int{{4, 5}, {15, 15}, {5, 15}, {0, 0}} {
		if got := c.At(p[0], p[1]); got != opaque(black) {
			t.Errorf("Pixel %v outside rect: expected background, got %v", p, got)
		}
	}
}

func TestCanvasFillRectClipped(t *testing.T) {
	c := NewCanvas(10, 10)
	c.Fill(black)

	// hangs off the top-left and bottom-right corners
	c.FillRect(-5, -5, 8, 8, red, 1)
	c.FillRect(8, 8, 10, 10, red, 1)
	c.FillRect(20, 20, 5, 5, red, 1)

	if got := c.At(0, 0); !near(got, opaque(red), 1) {
		t.Errorf("Expected clipped rect at (0, 0), got %v", got)
	}
	if got := c.At(9, 9); !near(got, opaque(red), 1) {
		t.Errorf("Expected clipped rect at (9, 9), got %v", got)
	}
	if got := c.At(5, 5); got != opaque(black) {
		t.Errorf("Expected background at (5, 5), got %v", got)
	}
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(10, 10)
	c.Fill(black)

	// centered on row 5, covering it exactly
	c.DrawLine(2, 5.5, 8, 5.5, red, 1)

	for x := 2; x < 8; x++ {
		if got := c.At(x, 5); !near(got, opaque(red), 1) {
			t.Errorf("Pixel (%d, 5): expected %v, got %v", x, red, got)
		}
	}
	for _, p := range [][2]int{{1, 5}, {8, 5}, {5, 4}, {5, 6}} {
		if got := c.At(p[0], p[1]); got != opaque(black) {
			t.Errorf("Pixel %v: expected background, got %v", p, got)
		}
	}
}

func TestCanvasDrawLineAlpha(t *testing.T) {
	c := NewCanvas(10, 10)
	c.Fill(black)
	c.DrawLine(5.5, 0, 5.5, 10, red, 0.8)

	want := over(black, red, 0.8)
	if got := c.At(5, 3); !near(got, want, 1) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestCanvasDrawLineDegenerate(t *testing.T) {
	c := NewCanvas(10, 10)
	c.Fill(black)
	c.DrawLine(3, 3, 3, 3, red, 1)
	c.DrawLine(-50, -50, -40, -40, red, 1)

	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			if got := c.At(x, y); got != opaque(black) {
				t.Fatalf("Pixel (%d, %d): expected background, got %v", x, y, got)
			}
		}
	}
}
