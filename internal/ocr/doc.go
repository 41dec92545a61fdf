// Package ocr extracts the text shown on a captured simulator screen.
//
// This package wraps the Tesseract OCR engine (via gosseract/v2). It is used
// by the capture pipeline when a request asks for text extraction and
// returns the pipeline's screenshot.Text. A failure here never fails the
// capture itself.
//
// # Prerequisites
//
// Tesseract must be installed on the system:
//   - macOS: brew install tesseract
//   - Ubuntu/Debian: apt-get install tesseract-ocr
//
// Language data files are required for each language. The default language
// is English ("eng"); other Tesseract language codes can be configured with
// ocr.language in the configuration file.
//
// # Performance Considerations
//
// OCR is CPU-intensive. It runs on the final, possibly downscaled, file, so
// a smaller max_width trades recognition accuracy for speed.
package ocr
