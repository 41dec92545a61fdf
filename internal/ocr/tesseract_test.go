package ocr

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/ios-screenshot-mcp/internal/screenshot"
)

var _ screenshot.TextExtractor = Tesseract{}

// drawText draws text on an image using basicfont
func drawText(img *image.RGBA, x, y int, text string, col color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}

// createImageWithText renders text in black on white, scaled up by an
// integer factor so Tesseract can read the bitmap font.
func createImageWithText(t *testing.T, text string, scale int) string {
	t.Helper()

	width := len(text)*7 + 40
	height := 40

	small := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(small, small.Bounds(), image.White, image.Point{}, draw.Src)
	drawText(small, 20, 25, text, color.Black)

	img := image.NewRGBA(image.Rect(0, 0, width*scale, height*scale))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := small.At(x, y)
			for dy := 0; dy < scale; dy++ {
				for dx := 0; dx < scale; dx++ {
					img.Set(x*scale+dx, y*scale+dy, c)
				}
			}
		}
	}

	path := filepath.Join(t.TempDir(), "ocr-text.png")
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

// skipWithoutTesseract skips the test when the engine or its language data
// is not installed.
func skipWithoutTesseract(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		return
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "tesseract") || strings.Contains(msg, "language") || strings.Contains(msg, "library") {
		t.Skipf("Tesseract not available: %v", err)
	}
}

func TestExtractText_RealText(t *testing.T) {
	path := createImageWithText(t, "HELLO WORLD", 4)

	result, err := ExtractText(path, "eng")
	skipWithoutTesseract(t, err)
	if err != nil {
		t.Fatalf("ExtractText failed: %v", err)
	}

	if !strings.Contains(strings.ToUpper(result.FullText), "HELLO") {
		t.Errorf("FullText: got %q, want it to contain HELLO", result.FullText)
	}
	for _, w := range result.Words {
		if strings.TrimSpace(w.Text) == "" {
			t.Error("empty words should be filtered out")
		}
		if w.Confidence < 0 || w.Confidence > 1 {
			t.Errorf("confidence out of range: %f", w.Confidence)
		}
		if w.Bounds.X2 <= w.Bounds.X1 || w.Bounds.Y2 <= w.Bounds.Y1 {
			t.Errorf("degenerate bounds: %+v", w.Bounds)
		}
	}
}

func TestTesseract_DefaultLanguage(t *testing.T) {
	path := createImageWithText(t, "SCREEN", 4)

	result, err := Tesseract{}.ExtractText(path)
	skipWithoutTesseract(t, err)
	if err != nil {
		t.Fatalf("ExtractText failed: %v", err)
	}
	if result == nil {
		t.Fatal("ExtractText returned nil result")
	}
}

func TestExtractText_NonExistentFile(t *testing.T) {
	if _, err := ExtractText("/nonexistent/path/image.png", "eng"); err == nil {
		t.Error("ExtractText should fail for non-existent file")
	}
}

func TestExtractText_InvalidLanguage(t *testing.T) {
	path := createImageWithText(t, "TEXT", 2)

	if _, err := ExtractText(path, "not-a-real-language-xyz"); err == nil {
		t.Error("ExtractText should fail for an unknown language")
	}
}
