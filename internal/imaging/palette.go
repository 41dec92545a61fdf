package imaging

import (
	"fmt"
	"image"
	"sort"
)

// paletteSize is how many dominant colours an analysis reports.
const paletteSize = 3

// ColorShare is a quantized colour and the share of the screen it covers.
type ColorShare struct {
	Hex        string  `json:"hex"`        // "#RRGGBB", quantized
	Percentage float64 `json:"percentage"` // 0-100
}

// dominantColors returns up to count of the most common colours in img,
// most common first.
//
// Each 8-bit channel is quantized to a multiple of 16 so that antialiasing
// and gradients collapse into a handful of buckets. Fully transparent pixels
// are skipped. Ties are broken by hex value to keep the order stable.
func dominantColors(img image.Image, count int) []ColorShare {
	counts := make(map[[3]uint8]int)
	total := 0

	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			if a == 0 {
				continue
			}
			key := [3]uint8{
				uint8((r >> 8) / 16 * 16),
				uint8((g >> 8) / 16 * 16),
				uint8((bl >> 8) / 16 * 16),
			}
			counts[key]++
			total++
		}
	}
	if total == 0 {
		return nil
	}

	shares := make([]ColorShare, 0, len(counts))
	for k, n := range counts {
		shares = append(shares, ColorShare{
			Hex:        fmt.Sprintf("#%02X%02X%02X", k[0], k[1], k[2]),
			Percentage: float64(n) / float64(total) * 100,
		})
	}

	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Percentage != shares[j].Percentage {
			return shares[i].Percentage > shares[j].Percentage
		}
		return shares[i].Hex < shares[j].Hex
	})

	if len(shares) > count {
		shares = shares[:count]
	}
	return shares
}
