package output

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func testImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 6, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 6; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 40), G: uint8(y * 60), B: 0x80, A: 0xff})
		}
	}
	return img
}

func TestSaveFormats(t *testing.T) {
	tests := []struct {
		name   string
		decode func(f *os.File) (image.Image, error)
	}{
		{"graph.png", func(f *os.File) (image.Image, error) { return png.Decode(f) }},
		{"graph.tiff", func(f *os.File) (image.Image, error) { return tiff.Decode(f) }},
		{"graph.bmp", func(f *os.File) (image.Image, error) { return bmp.Decode(f) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, tt.name)
			src := testImage()

			if err := <-Save(path, src); err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			f, err := os.Open(path)
			if err != nil {
				t.Fatalf("Failed to open output: %v", err)
			}
			defer f.Close()

			got, err := tt.decode(f)
			if err != nil {
				t.Fatalf("Failed to decode output: %v", err)
			}
			if got.Bounds() != src.Bounds() {
				t.Fatalf("Expected bounds %v, got %v", src.Bounds(), got.Bounds())
			}
			r0, g0, b0, _ := src.At(5, 3).RGBA()
			r1, g1, b1, _ := got.At(5, 3).RGBA()
			if r0 != r1 || g0 != g1 || b0 != b1 {
				t.Errorf("Pixel (5, 3): expected %v, got %v", src.At(5, 3), got.At(5, 3))
			}

			// only the final file remains
			entries, _ := os.ReadDir(dir)
			if len(entries) != 1 {
				t.Errorf("Expected only the output file, found %d entries", len(entries))
			}
		})
	}
}

func TestSaveFileMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.png")
	if err := <-Save(path, testImage()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Failed to stat output: %v", err)
	}
	if info.Mode().Perm() != FileMode {
		t.Errorf("Expected mode %v, got %v", FileMode, info.Mode().Perm())
	}
}

func TestSaveUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.jpg")

	done := Save(path, testImage())
	if err := <-done; err == nil {
		t.Fatal("Expected error for unsupported format")
	}
	if _, ok := <-done; ok {
		t.Error("Expected channel to be closed after the result")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Expected no output file")
	}
}

func TestSaveMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "graph.png")
	if err := <-Save(path, testImage()); err == nil {
		t.Error("Expected error for missing directory")
	}
}
