package render

import (
	"image/color"
)

// Style holds the colors and opacities of a render
type Style struct {
	Background    color.Color
	Road          color.Color
	Location      color.Color
	RoadAlpha     float64
	LocationAlpha float64
	MarkerSize    float64 // side of a location square in pixels
}

// DefaultStyle returns the standard opacities and marker size for the given colors
func DefaultStyle(background, road, location color.Color) Style {
	return Style{
		Background:    background,
		Road:          road,
		Location:      location,
		RoadAlpha:     0.8,
		LocationAlpha: 0.4,
		MarkerSize:    10,
	}
}
