package output

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// FileMode is the permission of a saved image; temporary files start out private
const FileMode os.FileMode = 0o644

// Encoder writes an image in one file format
type Encoder func(w io.Writer, img image.Image) error

// EncoderFor picks the encoder for path's extension
func EncoderFor(path string) (Encoder, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return png.Encode, nil
	case ".tif", ".tiff":
		return func(w io.Writer, img image.Image) error {
			return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
		}, nil
	case ".bmp":
		return bmp.Encode, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q (use .png, .tif or .bmp)", filepath.Ext(path))
	}
}

// Save encodes img to path in the background. The returned channel receives
// exactly one value, nil once the file is complete, and is then closed.
// The image is written to a temporary file next to path and renamed into
// place, so an interrupted write never leaves a partial image at path.
// img must not be modified until the result arrives.
func Save(path string, img image.Image) <-chan error {
	done := make(chan error, 1)

	encode, err := EncoderFor(path)
	if err != nil {
		done <- err
		close(done)
		return done
	}

	go func() {
		defer close(done)
		done <- write(path, img, encode)
	}()

	return done
}

func write(path string, img image.Image, encode Encoder) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := encode(tmp, img); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode image: %w", err)
	}
	if err := tmp.Chmod(FileMode); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set image permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write image: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move image into place: %w", err)
	}
	return nil
}
