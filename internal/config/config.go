package config

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// MaxWidth bounds the output width to keep the pixel buffer allocatable
const MaxWidth = 32768

// Default colors, as accepted by ParseColor
const (
	DefaultBackground = "#141518"
	DefaultRoad       = "#D3D3D3"
	DefaultPoint      = "#ce8c16"
)

// Config holds every setting of a render. It is built once at startup and
// passed by value.
type Config struct {
	RoadsPath  string // road shapefile (.shp) or a zip archive containing one
	PointsPath string // location history JSON
	OutputPath string // image to write; format chosen by extension
	Width      int    // output width in pixels; height follows the data

	Background color.NRGBA
	Road       color.NRGBA
	Point      color.NRGBA
}

// Default returns the standard configuration
func Default() Config {
	return Config{
		RoadsPath:  "data/shapefiles/gis_osm_roads_free_1.shp",
		PointsPath: "data/location-history.json",
		OutputPath: "graph.png",
		Width:      4000,
		Background: mustParseColor(DefaultBackground),
		Road:       mustParseColor(DefaultRoad),
		Point:      mustParseColor(DefaultPoint),
	}
}

// Validate checks the configuration for values the pipeline cannot use
func (c Config) Validate() error {
	if c.RoadsPath == "" {
		return fmt.Errorf("roads path must not be empty")
	}
	if c.PointsPath == "" {
		return fmt.Errorf("points path must not be empty")
	}
	if c.OutputPath == "" {
		return fmt.Errorf("output path must not be empty")
	}
	if c.Width < 1 || c.Width > MaxWidth {
		return fmt.Errorf("width must be between 1 and %d, got %d", MaxWidth, c.Width)
	}
	return nil
}

// ParseColor parses a hex color (#rgb or #rrggbb) or a W3C color name such as
// "orange" or "lightgray". The result is always opaque.
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return color.NRGBA{}, fmt.Errorf("empty color")
	}

	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(expandShortHex(s))
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
		r, g, b := c.RGB255()
		return color.NRGBA{R: r, G: g, B: b, A: 0xff}, nil
	}

	named := tcell.GetColor(strings.ToLower(s))
	if named == tcell.ColorDefault {
		return color.NRGBA{}, fmt.Errorf("unknown color %q", s)
	}
	r, g, b := named.RGB()
	if r < 0 {
		return color.NRGBA{}, fmt.Errorf("color %q has no RGB value", s)
	}
	return color.NRGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 0xff}, nil
}

// expandShortHex turns #rgb into #rrggbb
func expandShortHex(s string) string {
	if len(s) != 4 {
		return s
	}
	return string([]byte{'#', s[1], s[1], s[2], s[2], s[3], s[3]})
}

func mustParseColor(s string) color.NRGBA {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}
