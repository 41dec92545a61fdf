package imaging

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// ResizeStatus is what ResizeToWidth did to the file.
type ResizeStatus string

const (
	// ResizeResized means the file was downscaled and replaced.
	ResizeResized ResizeStatus = "resized"

	// ResizeSkipped means the image was already narrow enough.
	ResizeSkipped ResizeStatus = "skipped"

	// ResizeFailed means the file was left as it was because of Err.
	ResizeFailed ResizeStatus = "failed"
)

// ResizeOutcome reports the result of ResizeToWidth. A failed resize is not
// fatal to callers; the original file is untouched in that case.
type ResizeOutcome struct {
	Status ResizeStatus

	// Width and Height are the dimensions of the file after the call.
	// They are zero when Status is ResizeFailed.
	Width  int
	Height int

	Err error
}

// ResizeToWidth downscales the image at path in place so that it is at most
// maxWidth pixels wide, keeping the aspect ratio. Images that are already
// maxWidth or narrower are not rewritten, and images are never enlarged.
//
// The resized image is encoded in the source format to a temporary file in
// the same directory and then renamed over the original, so readers never
// observe a partially written file.
func ResizeToWidth(path string, maxWidth int) ResizeOutcome {
	if maxWidth <= 0 {
		return failed(fmt.Errorf("invalid max width %d", maxWidth))
	}

	cfg, formatName, err := decodeConfig(path)
	if err != nil {
		return failed(err)
	}
	if cfg.Width <= maxWidth {
		return ResizeOutcome{Status: ResizeSkipped, Width: cfg.Width, Height: cfg.Height}
	}

	format, err := imaging.FormatFromExtension(formatName)
	if err != nil {
		return failed(fmt.Errorf("unsupported output format %q: %w", formatName, err))
	}

	src, err := imaging.Open(path)
	if err != nil {
		return failed(fmt.Errorf("failed to load image: %w", err))
	}

	resized := imaging.Resize(src, maxWidth, 0, imaging.Lanczos)

	if err := replaceWithEncoded(path, resized, format); err != nil {
		return failed(err)
	}

	b := resized.Bounds()
	return ResizeOutcome{Status: ResizeResized, Width: b.Dx(), Height: b.Dy()}
}

func failed(err error) ResizeOutcome {
	return ResizeOutcome{Status: ResizeFailed, Err: err}
}

func replaceWithEncoded(path string, img image.Image, format imaging.Format) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".resized-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpPath)
		}
	}()

	if err := imaging.Encode(tmp, img, format); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode resized image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write resized image: %w", err)
	}
	// CreateTemp uses 0600; keep the permissions of the file being replaced.
	if st, statErr := os.Stat(path); statErr == nil {
		_ = os.Chmod(tmpPath, st.Mode().Perm())
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace image: %w", err)
	}
	return nil
}
