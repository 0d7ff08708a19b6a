package app

import (
	"fmt"
	"io"

	"roadtrace/internal/config"
	"roadtrace/internal/dataset"
	"roadtrace/internal/debug"
	"roadtrace/internal/geo"
	"roadtrace/internal/output"
	"roadtrace/internal/render"
	"roadtrace/internal/track"
)

// App is the main application controller: one Run renders one image
type App struct {
	cfg        config.Config
	projection geo.Projection
	out        io.Writer
}

// Result summarizes a completed run
type Result struct {
	Extent geo.Extent
	State  render.State
	Stats  render.Stats
}

// New creates an application for cfg, reporting progress to out
func New(cfg config.Config, out io.Writer) *App {
	if out == nil {
		out = io.Discard
	}
	return &App{
		cfg:        cfg,
		projection: geo.WebMercator{},
		out:        out,
	}
}

// Run renders the configured datasets and writes the image.
// Every error is returned before the output file is created.
func (a *App) Run() (*Result, error) {
	if err := a.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	ds, err := dataset.Resolve(a.cfg.RoadsPath)
	if err != nil {
		return nil, err
	}
	defer ds.Close()
	roads := ds.Source()

	history, err := track.Load(a.cfg.PointsPath)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "Loaded %d locations from %s\n", len(history.Locations), a.cfg.PointsPath)
	if history.Dropped > 0 {
		debug.Log("history: dropped %d records without coordinates", history.Dropped)
	}

	// Pass 1: extent of the projected road network
	fmt.Fprintf(a.out, "Computing min / max coordinates for %s...\n", ds.Path)
	timer := debug.Start("extrema")
	extent, err := geo.ComputeBounds(roads, a.projection)
	if err != nil {
		return nil, err
	}
	timer.Stop()
	debug.Log("extrema: %d lines, %d points, %d empty, %d skipped, bounds %v",
		extent.Lines, extent.Points, extent.Empty, extent.Skipped, extent.Bounds)

	state, err := render.NewState(extent.Bounds, a.cfg.Width)
	if err != nil {
		return nil, err
	}
	w, h := state.Resolution.Pixels()
	fmt.Fprintf(a.out, "Drawing %dx%d image...\n", w, h)

	// Pass 2: locations first, then roads on top
	style := render.DefaultStyle(a.cfg.Background, a.cfg.Road, a.cfg.Point)
	renderer := render.NewMapRenderer(state, a.projection, style)

	timer = debug.Start("render")
	if err := renderer.Render(roads, history.Points()); err != nil {
		return nil, err
	}
	timer.Stop()
	stats := renderer.Stats()
	debug.Log("render: %+v", stats)

	// drawing is complete; only now does the image leave the renderer
	fmt.Fprintf(a.out, "Saving %s...\n", a.cfg.OutputPath)
	if err := <-output.Save(a.cfg.OutputPath, renderer.Canvas().Image()); err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "Saved graph to %s\n", a.cfg.OutputPath)

	return &Result{Extent: extent, State: state, Stats: stats}, nil
}
