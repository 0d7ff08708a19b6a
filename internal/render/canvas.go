package render

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

// LineWidth is the stroke width of road segments in pixels
const LineWidth = 1.0

// Canvas is an RGBA pixel buffer with anti-aliased drawing primitives.
// It has a single writer; hand Image to an encoder only after drawing is done.
type Canvas struct {
	width  int
	height int
	img    *image.RGBA
	z      vector.Rasterizer
}

// NewCanvas creates a new transparent canvas
func NewCanvas(width, height int) *Canvas {
	return &Canvas{
		width:  width,
		height: height,
		img:    image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

// Fill replaces every pixel with c
func (c *Canvas) Fill(col color.Color) {
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(col), image.Point{}, draw.Src)
}

// DrawLine strokes the segment (x0,y0)-(x1,y1) with the given opacity.
// A zero-length segment draws nothing.
func (c *Canvas) DrawLine(x0, y0, x1, y1 float64, col color.Color, alpha float64) {
	dx, dy := x1-x0, y1-y0
	length := math.Hypot(dx, dy)
	if length == 0 || math.IsNaN(length) {
		return
	}

	// perpendicular offset of half the line width
	nx := -dy / length * LineWidth / 2
	ny := dx / length * LineWidth / 2

	c.fillPolygon(withAlpha(col, alpha),
		[2]float64{x0 + nx, y0 + ny},
		[2]float64{x1 + nx, y1 + ny},
		[2]float64{x1 - nx, y1 - ny},
		[2]float64{x0 - nx, y0 - ny},
	)
}

// FillRect fills the w x h rectangle with its top-left corner at (x, y)
func (c *Canvas) FillRect(x, y, w, h float64, col color.Color, alpha float64) {
	if w <= 0 || h <= 0 {
		return
	}
	c.fillPolygon(withAlpha(col, alpha),
		[2]float64{x, y},
		[2]float64{x + w, y},
		[2]float64{x + w, y + h},
		[2]float64{x, y + h},
	)
}

// fillPolygon rasterizes a closed polygon into the part of the canvas its
// bounding box covers and composites src over it
func (c *Canvas) fillPolygon(src color.Color, pts ...[2]float64) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		minX, maxX = math.Min(minX, p[0]), math.Max(maxX, p[0])
		minY, maxY = math.Min(minY, p[1]), math.Max(maxY, p[1])
	}
	if math.IsNaN(minX+maxX+minY+maxY) {
		return
	}

	area := image.Rect(
		int(math.Floor(minX)), int(math.Floor(minY)),
		int(math.Ceil(maxX)), int(math.Ceil(maxY)),
	).Intersect(c.img.Bounds())
	if area.Empty() {
		return
	}

	// the rasterizer's mask starts at area.Min and must not see points outside it
	ox, oy := float64(area.Min.X), float64(area.Min.Y)
	local := make([][2]float64, len(pts))
	for i, p := range pts {
		local[i] = [2]float64{p[0] - ox, p[1] - oy}
	}
	local = clipPolygon(local, float64(area.Dx()), float64(area.Dy()))
	if len(local) < 3 {
		return
	}

	c.z.Reset(area.Dx(), area.Dy())
	c.z.MoveTo(float32(local[0][0]), float32(local[0][1]))
	for _, p := range local[1:] {
		c.z.LineTo(float32(p[0]), float32(p[1]))
	}
	c.z.ClosePath()
	c.z.Draw(c.img, area, image.NewUniform(src), image.Point{})
}

// clipPolygon clips a convex or concave polygon to [0,w]x[0,h]
// (Sutherland-Hodgman, one edge of the rectangle at a time)
func clipPolygon(pts [][2]float64, w, h float64) [][2]float64 {
	edges := []struct {
		inside func(p [2]float64) bool
		cross  func(a, b [2]float64) [2]float64
	}{
		{
			func(p [2]float64) bool { return p[0] >= 0 },
			func(a, b [2]float64) [2]float64 { return lerpX(a, b, 0) },
		},
		{
			func(p [2]float64) bool { return p[0] <= w },
			func(a, b [2]float64) [2]float64 { return lerpX(a, b, w) },
		},
		{
			func(p [2]float64) bool { return p[1] >= 0 },
			func(a, b [2]float64) [2]float64 { return lerpY(a, b, 0) },
		},
		{
			func(p [2]float64) bool { return p[1] <= h },
			func(a, b [2]float64) [2]float64 { return lerpY(a, b, h) },
		},
	}

	for _, e := range edges {
		if len(pts) == 0 {
			break
		}
		out := make([][2]float64, 0, len(pts)+2)
		prev := pts[len(pts)-1]
		for _, cur := range pts {
			switch {
			case e.inside(cur) && e.inside(prev):
				out = append(out, cur)
			case e.inside(cur):
				out = append(out, e.cross(prev, cur), cur)
			case e.inside(prev):
				out = append(out, e.cross(prev, cur))
			}
			prev = cur
		}
		pts = out
	}
	return pts
}

func lerpX(a, b [2]float64, x float64) [2]float64 {
	t := (x - a[0]) / (b[0] - a[0])
	return [2]float64{x, a[1] + t*(b[1]-a[1])}
}

func lerpY(a, b [2]float64, y float64) [2]float64 {
	t := (y - a[1]) / (b[1] - a[1])
	return [2]float64{a[0] + t*(b[0]-a[0]), y}
}

// At returns the pixel at the given position
func (c *Canvas) At(x, y int) color.RGBA {
	return c.img.RGBAAt(x, y)
}

// Width returns the canvas width
func (c *Canvas) Width() int {
	return c.width
}

// Height returns the canvas height
func (c *Canvas) Height() int {
	return c.height
}

// Image returns the underlying pixel buffer
func (c *Canvas) Image() image.Image {
	return c.img
}

// withAlpha returns col with its opacity scaled by alpha (0 to 1)
func withAlpha(col color.Color, alpha float64) color.NRGBA {
	n := color.NRGBAModel.Convert(col).(color.NRGBA)
	alpha = math.Max(0, math.Min(1, alpha))
	n.A = uint8(math.Round(float64(n.A) * alpha))
	return n
}
