package imaging

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"
	colorful "github.com/lucasb-eyer/go-colorful"
)

const (
	// analysisWidth is the width of the thumbnail the analysis samples.
	analysisWidth = 32

	// BlankThreshold is the largest CIE L*a*b* distance from the average
	// colour a pixel may have for the screen to still count as blank.
	BlankThreshold = 0.05
)

// ScreenAnalysis summarizes what a captured screen looks like.
type ScreenAnalysis struct {
	// AverageColor is the mean colour of the screen as "#rrggbb".
	AverageColor string `json:"averageColor"`

	// Blank is true when the screen is a single flat colour, which is what a
	// simulator shows while booting or with its display asleep.
	Blank bool `json:"blank"`

	// DominantColors lists the most common colours, most common first.
	DominantColors []ColorShare `json:"dominantColors,omitempty"`
}

// AnalyzeFile loads the image at path and analyzes it.
func AnalyzeFile(path string) (*ScreenAnalysis, error) {
	img, err := imgio.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	return Analyze(img)
}

// Analyze computes the average colour of img, whether it is blank and its
// dominant colours.
//
// The image is first reduced to a small nearest-neighbour thumbnail so the
// cost does not depend on the capture resolution. Fully transparent pixels
// are ignored.
func Analyze(img image.Image) (*ScreenAnalysis, error) {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("image has no pixels")
	}

	w, h := b.Dx(), b.Dy()
	if w > analysisWidth {
		h = h * analysisWidth / w
		if h < 1 {
			h = 1
		}
		w = analysisWidth
	}
	thumb := transform.Resize(img, w, h, transform.NearestNeighbor)

	samples := make([]colorful.Color, 0, w*h)
	var sumR, sumG, sumB float64
	tb := thumb.Bounds()
	for y := tb.Min.Y; y < tb.Max.Y; y++ {
		for x := tb.Min.X; x < tb.Max.X; x++ {
			c, ok := colorful.MakeColor(thumb.At(x, y))
			if !ok {
				continue
			}
			samples = append(samples, c)
			sumR += c.R
			sumG += c.G
			sumB += c.B
		}
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("image is fully transparent")
	}

	n := float64(len(samples))
	avg := colorful.Color{R: sumR / n, G: sumG / n, B: sumB / n}

	blank := true
	for _, c := range samples {
		if c.DistanceLab(avg) > BlankThreshold {
			blank = false
			break
		}
	}

	return &ScreenAnalysis{
		AverageColor:   avg.Clamped().Hex(),
		Blank:          blank,
		DominantColors: dominantColors(thumb, paletteSize),
	}, nil
}
