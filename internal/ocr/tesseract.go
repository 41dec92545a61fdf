package ocr

import (
	"fmt"
	"os"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/ironsheep/ios-screenshot-mcp/internal/screenshot"
)

// DefaultLanguage is used when Tesseract.Language is empty.
const DefaultLanguage = "eng"

// Tesseract extracts text with the Tesseract engine.
type Tesseract struct {
	Language string
}

// ExtractText runs OCR on the image at path using t.Language.
func (t Tesseract) ExtractText(path string) (*screenshot.Text, error) {
	lang := t.Language
	if lang == "" {
		lang = DefaultLanguage
	}
	return ExtractText(path, lang)
}

// ExtractText performs OCR on an entire image file and returns recognized text.
//
// Parameters:
//   - imagePath: Absolute path to the image file. Supports PNG, JPEG, TIFF, BMP.
//   - language: Tesseract language code (e.g., "eng" for English). The corresponding
//     language data must be installed on the system.
//
// # Error Handling
//
// If word-level bounding box extraction fails (which can happen with some
// Tesseract configurations), the function still returns the full text in
// FullText with an empty Words slice.
func ExtractText(imagePath string, language string) (*screenshot.Text, error) {
	if _, err := os.Stat(imagePath); err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(language); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}

	if err := client.SetImage(imagePath); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}
	text = strings.TrimSpace(text)

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return &screenshot.Text{FullText: text, Words: []screenshot.Word{}}, nil
	}

	words := make([]screenshot.Word, 0, len(boxes))
	for _, box := range boxes {
		if strings.TrimSpace(box.Word) == "" {
			continue
		}
		words = append(words, screenshot.Word{
			Text:       box.Word,
			Confidence: float64(box.Confidence) / 100.0,
			Bounds: screenshot.Bounds{
				X1: box.Box.Min.X,
				Y1: box.Box.Min.Y,
				X2: box.Box.Max.X,
				Y2: box.Box.Max.Y,
			},
		})
	}

	return &screenshot.Text{FullText: text, Words: words}, nil
}
