package screenshot

import (
	"github.com/ironsheep/ios-screenshot-mcp/internal/imaging"
)

// Request describes one capture. Every field is optional.
type Request struct {
	// OutputFileName is the file name to write. Only its final path
	// segment is used. Empty selects a timestamped name.
	OutputFileName string

	// OutputDirectoryName overrides the subdirectory under the output root.
	OutputDirectoryName string

	// Resize enables downscaling to MaxWidth. Nil means true.
	Resize *bool

	// MaxWidth is the resize bound in pixels. Zero or less selects the
	// configured default.
	MaxWidth int

	// DeviceID is "booted" or a simulator UUID. Empty means "booted".
	DeviceID string

	// ExtractText runs OCR on the final image.
	ExtractText bool
}

// Metadata describes the saved image. When the file cannot be read back the
// dimensions and size are zero and Format is "unknown".
type Metadata struct {
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Format    string `json:"format"`
	Size      int64  `json:"size"`
	Timestamp string `json:"timestamp"`
}

// ErrorInfo describes why a capture failed.
type ErrorInfo struct {
	Code    string `json:"code"`
	Command string `json:"command,omitempty"`
	Stderr  string `json:"stderr,omitempty"`
}

// Result is the outcome of Service.Capture. FilePath and Metadata are set
// iff Success; Error is set iff !Success.
type Result struct {
	Success  bool      `json:"success"`
	Message  string    `json:"message"`
	FilePath string    `json:"filePath,omitempty"`
	Metadata *Metadata `json:"metadata,omitempty"`

	// Analysis and Text are best-effort extras on successful captures.
	Analysis *imaging.ScreenAnalysis `json:"analysis,omitempty"`
	Text     *Text                   `json:"text,omitempty"`

	Error *ErrorInfo `json:"error,omitempty"`
}

// Text is the text recognized on a saved screenshot.
type Text struct {
	// FullText is all recognized text with original line breaks, trimmed.
	FullText string `json:"fullText"`

	// Words may be empty if bounding box extraction fails; the text is
	// still in FullText.
	Words []Word `json:"words"`
}

// Word is a recognized word with its location and OCR confidence.
type Word struct {
	Text string `json:"text"`

	// Confidence is the OCR confidence score (0.0 to 1.0).
	Confidence float64 `json:"confidence"`

	Bounds Bounds `json:"bounds"`
}

// Bounds is a rectangle in pixel coordinates.
type Bounds struct {
	X1 int `json:"x1"` // Left edge
	Y1 int `json:"y1"` // Top edge
	X2 int `json:"x2"` // Right edge
	Y2 int `json:"y2"` // Bottom edge
}
