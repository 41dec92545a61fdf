package imaging

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
)

// UnknownFormat is reported when the image format cannot be determined.
const UnknownFormat = "unknown"

// ImageInfo contains metadata about an image file on disk.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the decoder name detected from the file contents:
	// "png", "jpeg", "gif", or "unknown".
	Format string `json:"format"`

	// Size is the size of the file on disk in bytes.
	Size int64 `json:"size"`
}

// Inspect reads the header of the image at path and returns its dimensions,
// format and file size without decoding the pixel data.
//
// # Errors
//
//   - Returns error if the file does not exist or cannot be read
//   - Returns error if the file is not a valid PNG, JPEG, or GIF image
func Inspect(path string) (*ImageInfo, error) {
	cfg, format, err := decodeConfig(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	if format == "" {
		format = UnknownFormat
	}

	return &ImageInfo{
		Width:  cfg.Width,
		Height: cfg.Height,
		Format: format,
		Size:   stat.Size(),
	}, nil
}

func decodeConfig(path string) (image.Config, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return image.Config{}, "", fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return image.Config{}, "", fmt.Errorf("failed to decode image header: %w", err)
	}
	return cfg, format, nil
}
