package imaging

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// createTestImage writes a solid-colour PNG into a temp directory and
// returns its path.
func createTestImage(t *testing.T, width, height int, c color.Color) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}

	path := filepath.Join(t.TempDir(), "test-image.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

// createPatternImage returns an in-memory image with four coloured quadrants.
func createPatternImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var c color.Color
			switch {
			case x < width/2 && y < height/2:
				c = color.RGBA{255, 0, 0, 255}
			case x >= width/2 && y < height/2:
				c = color.RGBA{0, 255, 0, 255}
			case x < width/2:
				c = color.RGBA{0, 0, 255, 255}
			default:
				c = color.RGBA{255, 255, 255, 255}
			}
			img.Set(x, y, c)
		}
	}
	return img
}

func TestInspect(t *testing.T) {
	path := createTestImage(t, 100, 80, color.RGBA{255, 0, 0, 255})

	info, err := Inspect(path)
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}

	if info.Width != 100 || info.Height != 80 {
		t.Errorf("dimensions: got %dx%d, want 100x80", info.Width, info.Height)
	}
	if info.Format != "png" {
		t.Errorf("Format: got %s, want png", info.Format)
	}

	stat, _ := os.Stat(path)
	if info.Size != stat.Size() {
		t.Errorf("Size: got %d, want %d", info.Size, stat.Size())
	}
}

func TestInspect_DetectsFormatFromContents(t *testing.T) {
	// A JPEG saved with a .png name is still reported as jpeg.
	path := filepath.Join(t.TempDir(), "mislabelled.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	if err := jpeg.Encode(f, createPatternImage(40, 20), nil); err != nil {
		t.Fatalf("failed to encode jpeg: %v", err)
	}
	f.Close()

	info, err := Inspect(path)
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}
	if info.Format != "jpeg" {
		t.Errorf("Format: got %s, want jpeg", info.Format)
	}
}

func TestInspect_NonExistent(t *testing.T) {
	if _, err := Inspect("/nonexistent/path/to/image.png"); err == nil {
		t.Error("Inspect should fail for non-existent file")
	}
}

func TestInspect_InvalidImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invalid.png")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	if _, err := Inspect(path); err == nil {
		t.Error("Inspect should fail for invalid image data")
	}
}
