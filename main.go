package main

import (
	"errors"
	"flag"
	"fmt"
	"image/color"
	"io"
	"io/fs"
	"os"

	"roadtrace/internal/app"
	"roadtrace/internal/config"
	"roadtrace/internal/debug"
	"roadtrace/internal/geo"
	"roadtrace/internal/render"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the exit code. Deferred cleanup
// such as closing the debug log happens before main exits.
func run(args []string, stdout, stderr io.Writer) int {
	defaults := config.Default()

	// Parse command line flags
	flags := flag.NewFlagSet("roadtrace", flag.ContinueOnError)
	flags.SetOutput(stderr)
	help := flags.Bool("h", false, "Show help message")
	roadsPath := flags.String("roads", defaults.RoadsPath, "Road network shapefile (.shp) or Geofabrik .zip archive")
	pointsPath := flags.String("points", defaults.PointsPath, "Location history JSON (locations[].latitudeE7/longitudeE7)")
	outputPath := flags.String("o", defaults.OutputPath, "Output image (.png, .tif or .bmp)")
	width := flags.Int("w", defaults.Width, "Output width in pixels; height follows the road network")
	background := flags.String("bg", config.DefaultBackground, "Background color (hex or name)")
	roadColor := flags.String("road-color", config.DefaultRoad, "Road color (hex or name)")
	pointColor := flags.String("point-color", config.DefaultPoint, "Location marker color (hex or name)")
	debugLog := flags.String("d", "", "Debug log file (e.g., debug.log)")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	// Show help if requested
	if *help {
		fmt.Fprintln(stdout, "roadtrace - Render a road network and location history to an image")
		fmt.Fprintln(stdout, "\nUsage: roadtrace [options]")
		fmt.Fprintln(stdout, "\nOptions:")
		flags.SetOutput(stdout)
		flags.PrintDefaults()
		return 0
	}

	cfg := config.Config{
		RoadsPath:  *roadsPath,
		PointsPath: *pointsPath,
		OutputPath: *outputPath,
		Width:      *width,
	}
	colors := []struct {
		name  string
		value string
		dst   *color.NRGBA
	}{
		{"background", *background, &cfg.Background},
		{"road", *roadColor, &cfg.Road},
		{"point", *pointColor, &cfg.Point},
	}
	for _, c := range colors {
		parsed, err := config.ParseColor(c.value)
		if err != nil {
			fmt.Fprintf(stderr, "Error: invalid %s color: %v\n", c.name, err)
			return 1
		}
		*c.dst = parsed
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	// Set up debug logging if requested
	if *debugLog != "" {
		logFile, err := os.Create(*debugLog)
		if err != nil {
			fmt.Fprintf(stderr, "Warning: failed to create debug log: %v\n", err)
		} else {
			defer logFile.Close()
			defer debug.SetOutput(nil)
			debug.SetOutput(logFile)
			debug.Log("roadtrace debug log started")
			fmt.Fprintf(stdout, "Debug logging enabled: %s\n", *debugLog)
		}
	}

	if _, err := app.New(cfg, stdout).Run(); err != nil {
		debug.Log("fatal: %v", err)
		fmt.Fprintf(stderr, "Error: %v\n", err)
		printHint(stderr, err)
		return 1
	}
	return 0
}

// printHint explains the fatal errors a user can fix
func printHint(w io.Writer, err error) {
	var (
		openErr    *geo.OpenError
		degenerate *render.DegenerateExtentError
	)

	switch {
	case errors.Is(err, geo.ErrNotShapefile):
		fmt.Fprintf(w, "Hint: -roads takes a .shp file or a .zip archive\n")
	case errors.As(err, &openErr) && errors.Is(err, fs.ErrNotExist):
		fmt.Fprintf(w, "Hint: check the -roads and -points paths\n")
	case errors.Is(err, geo.ErrDecode):
		fmt.Fprintf(w, "Hint: the road dataset must be a polyline shapefile\n")
	case errors.As(err, &degenerate), errors.Is(err, geo.ErrNoCoordinates):
		fmt.Fprintf(w, "Hint: the road dataset needs coordinates spread over an area\n")
	}
}
