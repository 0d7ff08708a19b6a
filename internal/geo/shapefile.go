package geo

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
)

const (
	shpFileCode   = 9994
	shpHeaderSize = 100

	// record number and content length, both big endian
	recordHeaderSize = 8

	// shape type, bounding box, part count and point count
	polylineHeadSize = 4 + 32 + 4 + 4
)

// ShapefileSource streams polylines from an ESRI shapefile.
// Coordinates are read as stored, X as longitude and Y as latitude.
type ShapefileSource struct {
	Path string
}

// NewShapefileSource creates a source for the .shp file at path
func NewShapefileSource(path string) *ShapefileSource {
	return &ShapefileSource{Path: path}
}

// Open opens a new reader over the shapefile. Only the header is read here;
// records are decoded one by one as Next is called.
func (s *ShapefileSource) Open() (Stream, error) {
	// go-shp swaps the last three bytes of the name for "shp"
	if !strings.EqualFold(filepath.Ext(s.Path), ".shp") {
		return nil, &OpenError{Path: s.Path, Err: ErrNotShapefile}
	}

	f, err := os.Open(s.Path)
	if err != nil {
		return nil, &OpenError{Path: s.Path, Err: err}
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, &OpenError{Path: s.Path, Err: err}
	}
	if err := checkHeader(f, info.Size()); err != nil {
		f.Close()
		return nil, &DecodeError{Path: s.Path, Err: err}
	}

	reader, err := shp.Open(s.Path)
	if err != nil {
		f.Close()
		return nil, &OpenError{Path: s.Path, Err: err}
	}

	switch reader.GeometryType {
	case shp.POLYLINE, shp.POLYLINEZ, shp.POLYLINEM:
	default:
		reader.Close()
		f.Close()
		return nil, &DecodeError{
			Path: s.Path,
			Err:  fmt.Errorf("unsupported geometry type %d, want polyline", reader.GeometryType),
		}
	}

	return &shapefileStream{
		path:   s.Path,
		reader: reader,
		file:   f,
		size:   info.Size(),
		offset: shpHeaderSize,
	}, nil
}

// checkHeader verifies the file code and that the declared file length
// matches the bytes on disk. go-shp trusts the file size alone, so a file cut
// at a record boundary would otherwise read as a shorter, valid dataset.
func checkHeader(r io.ReaderAt, size int64) error {
	if size < shpHeaderSize {
		return fmt.Errorf("file is %d bytes, shorter than its %d byte header", size, shpHeaderSize)
	}

	var head [28]byte
	if _, err := r.ReadAt(head[:], 0); err != nil {
		return err
	}
	if code := int32(binary.BigEndian.Uint32(head[0:4])); code != shpFileCode {
		return fmt.Errorf("bad file code %d", code)
	}
	declared := int64(binary.BigEndian.Uint32(head[24:28])) * 2
	if declared != size {
		return fmt.Errorf("header declares %d bytes but file has %d", declared, size)
	}
	return nil
}

// checkRecord validates the record at off before go-shp decodes it, so
// corrupt counts never reach its allocations. It returns the offset of the
// following record.
func checkRecord(r io.ReaderAt, off, size int64, want shp.ShapeType) (int64, error) {
	if size-off < recordHeaderSize+4 {
		return 0, fmt.Errorf("truncated record header at offset %d", off)
	}

	var head [recordHeaderSize + polylineHeadSize]byte
	n, err := r.ReadAt(head[:], off)
	if n < recordHeaderSize+4 {
		return 0, fmt.Errorf("reading record at offset %d: %w", off, err)
	}

	content := int64(int32(binary.BigEndian.Uint32(head[4:8]))) * 2
	next := off + recordHeaderSize + content
	if content < 4 || next > size {
		return 0, fmt.Errorf("record content of %d bytes does not fit in the file", content)
	}

	shapeType := shp.ShapeType(int32(binary.LittleEndian.Uint32(head[8:12])))
	switch shapeType {
	case shp.NULL:
		return next, nil
	case want:
	default:
		return 0, fmt.Errorf("unexpected shape type %d in a file of type %d", shapeType, want)
	}

	if content < polylineHeadSize || n < len(head) {
		return 0, fmt.Errorf("record content of %d bytes is too short for a polyline", content)
	}
	numParts := int64(int32(binary.LittleEndian.Uint32(head[44:48])))
	numPoints := int64(int32(binary.LittleEndian.Uint32(head[48:52])))
	if numParts < 0 || numPoints < 0 ||
		polylineHeadSize+4*numParts+16*numPoints > content {
		return 0, fmt.Errorf("record declares %d parts and %d points, more than %d bytes can hold",
			numParts, numPoints, content)
	}
	return next, nil
}

type shapefileStream struct {
	path   string
	reader *shp.Reader
	file   *os.File
	size   int64
	offset int64 // start of the next record
	record int
	err    error

	// parts of the current record not yet handed out
	points []shp.Point
	parts  []int32
	part   int
}

// Next returns the next part of the current record, reading a new record when
// the current one is exhausted. After a decode error every call returns it.
func (s *shapefileStream) Next() (orb.LineString, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.part < len(s.parts) {
		return s.nextPart()
	}
	if s.offset >= s.size {
		return nil, io.EOF
	}

	next, err := checkRecord(s.file, s.offset, s.size, s.reader.GeometryType)
	if err != nil {
		return nil, s.fail(s.record+1, err)
	}
	if !s.reader.Next() {
		err := s.reader.Err()
		if err == nil {
			err = io.ErrUnexpectedEOF
		}
		return nil, s.fail(s.record+1, err)
	}
	s.offset = next
	s.record++

	_, shape := s.reader.Shape()
	switch geom := shape.(type) {
	case *shp.PolyLine:
		return s.startRecord(geom.Parts, geom.Points)
	case *shp.PolyLineZ:
		return s.startRecord(geom.Parts, geom.Points)
	case *shp.PolyLineM:
		return s.startRecord(geom.Parts, geom.Points)
	case *shp.Null, nil:
		return orb.LineString{}, nil
	default:
		return nil, s.fail(s.record, fmt.Errorf("unexpected shape %T in polyline file", shape))
	}
}

// fail makes err the permanent result of the stream
func (s *shapefileStream) fail(record int, err error) error {
	s.err = &DecodeError{Path: s.path, Record: record, Err: err}
	s.points, s.parts = nil, nil
	return s.err
}

func (s *shapefileStream) startRecord(parts []int32, points []shp.Point) (orb.LineString, error) {
	if len(parts) == 0 {
		parts = []int32{0}
	}
	for i, start := range parts {
		if start < 0 || int(start) > len(points) || (i > 0 && start < parts[i-1]) {
			return nil, s.fail(s.record, fmt.Errorf("part %d starts at %d outside %d points", i, start, len(points)))
		}
	}

	s.points = points
	s.parts = parts
	s.part = 0
	return s.nextPart()
}

func (s *shapefileStream) nextPart() (orb.LineString, error) {
	start := int(s.parts[s.part])
	end := len(s.points)
	if s.part+1 < len(s.parts) {
		end = int(s.parts[s.part+1])
	}
	s.part++

	line := make(orb.LineString, 0, end-start)
	for _, p := range s.points[start:end] {
		line = append(line, orb.Point{p.X, p.Y})
	}

	if s.part == len(s.parts) {
		s.points, s.parts = nil, nil
		s.part = 0
	}
	return line, nil
}

func (s *shapefileStream) Close() error {
	s.points, s.parts = nil, nil
	s.file.Close()
	return s.reader.Close()
}
