package geo

import (
	"io"

	"github.com/paulmach/orb"
)

// Source opens independent traversals over a road dataset.
// Every call to Open starts from the first feature with its own cursor.
type Source interface {
	Open() (Stream, error)
}

// Stream yields road geometries one at a time.
// Next returns io.EOF after the last geometry. An empty geometry is a valid
// value that consumers skip; it never marks the end of the stream.
type Stream interface {
	Next() (orb.LineString, error)
	Close() error
}

// SliceSource serves geometries held in memory
type SliceSource []orb.LineString

// Open starts a new traversal over the slice
func (s SliceSource) Open() (Stream, error) {
	return &sliceStream{lines: s}, nil
}

type sliceStream struct {
	lines []orb.LineString
	pos   int
}

func (s *sliceStream) Next() (orb.LineString, error) {
	if s.pos >= len(s.lines) {
		return nil, io.EOF
	}
	line := s.lines[s.pos]
	s.pos++
	return line, nil
}

func (s *sliceStream) Close() error {
	s.pos = len(s.lines)
	return nil
}
