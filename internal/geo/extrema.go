package geo

import (
	"errors"
	"io"
	"math"

	"github.com/paulmach/orb"

	"roadtrace/internal/debug"
)

// Extent is the result of a full pass over a road dataset
type Extent struct {
	Bounds  orb.Bound // projected bounding box
	Lines   int       // geometries that contributed coordinates
	Points  int       // coordinates folded into Bounds
	Empty   int       // empty geometries skipped
	Skipped int       // geometries dropped for an invalid coordinate
}

// EmptyBound returns a bound that any point extends: min at +Inf, max at -Inf
func EmptyBound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{math.Inf(1), math.Inf(1)},
		Max: orb.Point{math.Inf(-1), math.Inf(-1)},
	}
}

// ComputeBounds opens src, projects every coordinate and folds it into a
// bounding box. Min and max are tracked independently on each axis.
// The stream is always exhausted; decode errors abort the pass.
func ComputeBounds(src Source, proj Projection) (Extent, error) {
	ext := Extent{Bounds: EmptyBound()}

	stream, err := src.Open()
	if err != nil {
		return Extent{}, err
	}
	defer stream.Close()

	var projected orb.LineString
	for {
		line, err := stream.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Extent{}, err
		}

		if len(line) == 0 {
			ext.Empty++
			continue
		}

		projected, err = ProjectLine(proj, line, projected)
		if err != nil {
			var invalid *InvalidPointError
			if errors.As(err, &invalid) {
				ext.Skipped++
				debug.Log("extrema: skipping geometry with %v", invalid)
				continue
			}
			return Extent{}, err
		}

		for _, p := range projected {
			ext.Bounds = ext.Bounds.Extend(p)
		}
		ext.Lines++
		ext.Points += len(projected)
	}

	if ext.Points == 0 {
		return Extent{}, ErrNoCoordinates
	}
	return ext, nil
}
