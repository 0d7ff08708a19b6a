package geo

import (
	"errors"
	"fmt"
)

var (
	// ErrDecode is matched by every DecodeError
	ErrDecode = errors.New("geo: malformed dataset")

	// ErrNotShapefile is wrapped by the OpenError for a road path without a .shp extension
	ErrNotShapefile = errors.New("geo: not a .shp file")

	// ErrNoCoordinates indicates a road dataset without a single usable coordinate
	ErrNoCoordinates = errors.New("geo: dataset contains no usable coordinates")
)

// OpenError indicates a dataset path that is missing or unreadable
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("failed to open dataset %s: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error {
	return e.Err
}

// DecodeError indicates a dataset header or record that could not be decoded.
// Record is the 1-based record number, or 0 when the header itself is bad.
type DecodeError struct {
	Path   string
	Record int
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Record == 0 {
		return fmt.Sprintf("failed to decode %s header: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("failed to decode %s record %d: %v", e.Path, e.Record, e.Err)
}

func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// InvalidPointError indicates a coordinate outside the domain of the projection
type InvalidPointError struct {
	Lat, Lon float64
}

func (e *InvalidPointError) Error() string {
	return fmt.Sprintf("invalid coordinate: lat=%f lon=%f (lat must be within ±90 exclusive)", e.Lat, e.Lon)
}
