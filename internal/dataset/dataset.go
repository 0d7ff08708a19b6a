package dataset

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"roadtrace/internal/debug"
	"roadtrace/internal/geo"
)

// Shapefile members worth extracting; everything else in an archive is ignored
var shapefileExts = map[string]bool{
	".shp": true,
	".shx": true,
	".dbf": true,
	".prj": true,
	".cpg": true,
}

// Dataset is a road shapefile ready to be opened, possibly extracted from an archive
type Dataset struct {
	Path   string // path of the .shp file
	tmpDir string // extraction directory, removed by Close
}

// Resolve prepares the road dataset at path. A .shp file is used as is.
// Any extension other than .shp or .zip is rejected.
// A .zip archive (as distributed by Geofabrik) is extracted to a temporary
// directory and its roads layer selected.
func Resolve(path string) (*Dataset, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &geo.OpenError{Path: path, Err: err}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".shp":
		return &Dataset{Path: path}, nil
	case ".zip":
	default:
		return nil, &geo.OpenError{Path: path, Err: geo.ErrNotShapefile}
	}

	tmpDir, err := os.MkdirTemp("", "roadtrace-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create extraction directory: %w", err)
	}

	shps, err := extractZip(path, tmpDir)
	if err != nil {
		os.RemoveAll(tmpDir)
		return nil, &geo.OpenError{Path: path, Err: err}
	}

	shp, err := pickRoads(shps)
	if err != nil {
		os.RemoveAll(tmpDir)
		return nil, &geo.OpenError{Path: path, Err: err}
	}

	debug.Log("dataset: extracted %s to %s, using %s", path, tmpDir, filepath.Base(shp))
	return &Dataset{Path: shp, tmpDir: tmpDir}, nil
}

// Source returns a stream factory over the dataset
func (d *Dataset) Source() geo.Source {
	return geo.NewShapefileSource(d.Path)
}

// Close removes any extracted files
func (d *Dataset) Close() error {
	if d.tmpDir == "" {
		return nil
	}
	err := os.RemoveAll(d.tmpDir)
	d.tmpDir = ""
	return err
}

// extractZip flattens the shapefile members of an archive into destDir and
// returns the paths of the extracted .shp files
func extractZip(zipPath, destDir string) ([]string, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var shps []string
	for _, f := range r.File {
		name := filepath.Base(f.Name)
		ext := strings.ToLower(filepath.Ext(name))
		if f.FileInfo().IsDir() || strings.HasPrefix(name, ".") || !shapefileExts[ext] {
			continue
		}

		// go-shp finds the .shp by its lowercase extension
		destPath := filepath.Join(destDir, strings.TrimSuffix(name, filepath.Ext(name))+ext)
		if err := extractFile(f, destPath); err != nil {
			return nil, fmt.Errorf("failed to extract %s: %w", f.Name, err)
		}

		if ext == ".shp" {
			shps = append(shps, destPath)
		}
	}

	return shps, nil
}

func extractFile(f *zip.File, destPath string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	outFile, err := os.Create(destPath)
	if err != nil {
		return err
	}

	if _, err := io.Copy(outFile, rc); err != nil {
		outFile.Close()
		return err
	}
	return outFile.Close()
}

// pickRoads selects the roads layer: the only shapefile, or the one named after roads
func pickRoads(shps []string) (string, error) {
	switch len(shps) {
	case 0:
		return "", fmt.Errorf("archive contains no .shp file")
	case 1:
		return shps[0], nil
	}

	var roads []string
	for _, p := range shps {
		if strings.Contains(strings.ToLower(filepath.Base(p)), "roads") {
			roads = append(roads, p)
		}
	}
	if len(roads) != 1 {
		return "", fmt.Errorf("archive contains %d shapefiles and %d road layers, cannot choose", len(shps), len(roads))
	}
	return roads[0], nil
}
