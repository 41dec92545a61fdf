package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestAnalyze_SolidColorIsBlank(t *testing.T) {
	tests := []struct {
		name    string
		c       color.Color
		wantHex string
	}{
		{"black", color.RGBA{0, 0, 0, 255}, "#000000"},
		{"white", color.RGBA{255, 255, 255, 255}, "#ffffff"},
		{"red", color.RGBA{255, 0, 0, 255}, "#ff0000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := image.NewRGBA(image.Rect(0, 0, 300, 600))
			for y := 0; y < 600; y++ {
				for x := 0; x < 300; x++ {
					img.Set(x, y, tt.c)
				}
			}

			a, err := Analyze(img)
			if err != nil {
				t.Fatalf("Analyze failed: %v", err)
			}
			if !a.Blank {
				t.Error("solid image should be blank")
			}
			if a.AverageColor != tt.wantHex {
				t.Errorf("AverageColor: got %s, want %s", a.AverageColor, tt.wantHex)
			}
		})
	}
}

func TestAnalyze_PatternIsNotBlank(t *testing.T) {
	a, err := Analyze(createPatternImage(200, 200))
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if a.Blank {
		t.Error("quadrant pattern should not be blank")
	}
	if len(a.AverageColor) != 7 || a.AverageColor[0] != '#' {
		t.Errorf("AverageColor not in #rrggbb form: %q", a.AverageColor)
	}
}

func TestAnalyze_SmallImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{0, 0, 255, 255})
		}
	}

	a, err := Analyze(img)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if !a.Blank || a.AverageColor != "#0000ff" {
		t.Errorf("got %+v", a)
	}
}

func TestAnalyze_Errors(t *testing.T) {
	if _, err := Analyze(image.NewRGBA(image.Rect(0, 0, 0, 0))); err == nil {
		t.Error("empty image should fail")
	}
	// image.NewRGBA is zero-initialized: every pixel is fully transparent.
	if _, err := Analyze(image.NewRGBA(image.Rect(0, 0, 10, 10))); err == nil {
		t.Error("fully transparent image should fail")
	}
}

func TestAnalyzeFile(t *testing.T) {
	path := createTestImage(t, 64, 64, color.RGBA{0, 255, 0, 255})

	a, err := AnalyzeFile(path)
	if err != nil {
		t.Fatalf("AnalyzeFile failed: %v", err)
	}
	if !a.Blank || a.AverageColor != "#00ff00" {
		t.Errorf("got %+v", a)
	}

	if _, err := AnalyzeFile("/nonexistent/image.png"); err == nil {
		t.Error("AnalyzeFile should fail for missing file")
	}
}

func TestAnalyze_DominantColors(t *testing.T) {
	a, err := Analyze(createPatternImage(200, 200))
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(a.DominantColors) != paletteSize {
		t.Fatalf("got %d dominant colours, want %d", len(a.DominantColors), paletteSize)
	}
	for _, c := range a.DominantColors {
		if c.Percentage < 20 || c.Percentage > 30 {
			t.Errorf("%s covers %.1f%%, want about 25%%", c.Hex, c.Percentage)
		}
	}
}

func TestDominantColors(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			switch {
			case x < 7:
				img.Set(x, y, color.RGBA{250, 250, 250, 255}) // quantizes to #F0F0F0
			case x < 9:
				img.Set(x, y, color.RGBA{0, 0, 255, 255})
			default:
				img.Set(x, y, color.RGBA{0, 0, 0, 0}) // transparent, ignored
			}
		}
	}

	got := dominantColors(img, 5)
	if len(got) != 2 {
		t.Fatalf("got %d colours, want 2: %+v", len(got), got)
	}
	if got[0].Hex != "#F0F0F0" || got[1].Hex != "#0000F0" {
		t.Errorf("unexpected order %+v", got)
	}
	if int(got[0].Percentage+0.5) != 78 {
		t.Errorf("first share = %.2f, want 7/9 of opaque pixels", got[0].Percentage)
	}

	if dominantColors(image.NewRGBA(image.Rect(0, 0, 2, 2)), 3) != nil {
		t.Error("transparent image should have no palette")
	}
}
