// Package screenshot implements the capture pipeline: validate the target
// simulator, capture its screen with simctl, save the PNG under a
// traversal-safe output path, downscale it when it is wider than requested
// and describe the saved file.
//
// Service.Capture never returns an error. Every failure is reported as a
// Result with Success false, and the non-fatal steps (resize, metadata,
// analysis, OCR) fall back to a documented default instead of failing the
// request.
package screenshot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ironsheep/ios-screenshot-mcp/internal/device"
	"github.com/ironsheep/ios-screenshot-mcp/internal/imaging"
	"github.com/ironsheep/ios-screenshot-mcp/internal/metrics"
	"github.com/ironsheep/ios-screenshot-mcp/internal/output"
	"github.com/ironsheep/ios-screenshot-mcp/internal/simctl"
)

const (
	// SuccessMessage is the message of every successful Result.
	SuccessMessage = "iOS Simulator screenshot saved successfully"

	// ErrorPrefix starts the message of every failed Result.
	ErrorPrefix = "Error capturing iOS Simulator screenshot: "

	// CodeInvalidDeviceID is the error code for a rejected device ID.
	CodeInvalidDeviceID = "INVALID_DEVICE_ID"

	// CodeUnknown is used when a failure carries no more specific code.
	CodeUnknown = "UNKNOWN_ERROR"

	// DefaultMaxWidth is used when neither the request nor Options set one.
	DefaultMaxWidth = 640

	diagnosticsTimeout = 10 * time.Second
	timestampLayout    = "2006-01-02T15:04:05.000Z07:00"
)

// Capturer takes the raw screenshot.
type Capturer interface {
	Screenshot(ctx context.Context, deviceID string) ([]byte, error)
}

// DeviceValidator decides whether a device ID may be captured.
type DeviceValidator interface {
	Validate(ctx context.Context, id string) device.Outcome
	ListAvailableDevices(ctx context.Context) []device.Device
}

// ImageProcessor reads and rewrites saved images.
type ImageProcessor interface {
	Inspect(path string) (*imaging.ImageInfo, error)
	ResizeToWidth(path string, maxWidth int) imaging.ResizeOutcome
	Analyze(path string) (*imaging.ScreenAnalysis, error)
}

// TextExtractor runs OCR on a saved image.
type TextExtractor interface {
	ExtractText(path string) (*Text, error)
}

// Options configures a Service. Capturer, Validator and Output are required.
// The subdirectory configured on Output is the default for every request.
type Options struct {
	Capturer  Capturer
	Validator DeviceValidator
	Output    *output.Manager

	// Images defaults to imaging.Processor.
	Images ImageProcessor

	// Text is used for requests with ExtractText. Nil disables OCR.
	Text TextExtractor

	// DefaultMaxWidth is used when a request has no MaxWidth.
	DefaultMaxWidth int

	Logger  zerolog.Logger
	Metrics *metrics.Metrics

	// Now defaults to time.Now.
	Now func() time.Time
}

// Service runs the capture pipeline. It is safe for concurrent use; each
// request works on its own output.Location snapshot.
type Service struct {
	capturer  Capturer
	validator DeviceValidator
	output    *output.Manager
	images    ImageProcessor
	text      TextExtractor
	maxWidth  int
	log       zerolog.Logger
	metrics   *metrics.Metrics
	now       func() time.Time

	diagnostics sync.WaitGroup
}

// New creates a Service.
func New(opts Options) *Service {
	s := &Service{
		capturer:  opts.Capturer,
		validator: opts.Validator,
		output:    opts.Output,
		images:    opts.Images,
		text:      opts.Text,
		maxWidth:  opts.DefaultMaxWidth,
		log:       opts.Logger,
		metrics:   opts.Metrics,
		now:       opts.Now,
	}
	if s.images == nil {
		s.images = imaging.Processor{}
	}
	if s.maxWidth <= 0 {
		s.maxWidth = DefaultMaxWidth
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Wait blocks until background diagnostics started by earlier captures have
// finished.
func (s *Service) Wait() {
	s.diagnostics.Wait()
}

// Capture runs one full capture. It never returns nil.
func (s *Service) Capture(ctx context.Context, req Request) *Result {
	start := time.Now()

	res := s.capture(ctx, req)

	code := ""
	if res.Error != nil {
		code = res.Error.Code
	}
	s.metrics.ObserveCapture(res.Success, code, time.Since(start))
	return res
}

func (s *Service) capture(ctx context.Context, req Request) *Result {
	fileName := req.OutputFileName
	if fileName == "" {
		fileName = DefaultFileName(s.now())
	}

	loc := s.output.Location()
	if req.OutputDirectoryName != "" {
		loc = loc.WithSubdirectory(req.OutputDirectoryName)
	}

	path := loc.Resolve(fileName)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return s.fail(fmt.Errorf("failed to create output directory: %w", err))
	}

	deviceID := req.DeviceID
	if deviceID != "" && deviceID != simctl.BootedDevice {
		outcome := s.validator.Validate(ctx, deviceID)
		if !outcome.Valid {
			reason := "invalid"
			if outcome.Details != nil {
				reason = string(outcome.Details.Reason)
			}
			s.metrics.IncDeviceValidation(reason)
			s.logAvailableDevices(ctx, deviceID)
			return s.fail(&invalidDeviceError{id: deviceID, outcome: outcome})
		}
		s.metrics.IncDeviceValidation("valid")
	}

	data, err := s.capturer.Screenshot(ctx, deviceID)
	if err != nil {
		return s.fail(err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return s.fail(fmt.Errorf("failed to save screenshot: %w", err))
	}

	if resizeEnabled(req.Resize) {
		s.resize(path, s.requestMaxWidth(req))
	} else {
		s.metrics.IncResize("disabled")
	}

	info, err := s.images.Inspect(path)
	if err != nil {
		s.log.Warn().Err(err).Str("path", path).Msg("failed to read image metadata")
	}

	res := &Result{
		Success:  true,
		Message:  SuccessMessage,
		FilePath: path,
		Metadata: MetadataFor(info, err, s.now()),
	}
	res.Analysis = s.analyze(path)
	if req.ExtractText {
		res.Text = s.extractText(path)
	}

	s.log.Info().
		Str("path", path).
		Str("device", deviceOrBooted(deviceID)).
		Int("width", res.Metadata.Width).
		Int("height", res.Metadata.Height).
		Msg("screenshot saved")
	return res
}

func (s *Service) requestMaxWidth(req Request) int {
	if req.MaxWidth > 0 {
		return req.MaxWidth
	}
	return s.maxWidth
}

// resize applies the resize step. A failure leaves the original file.
func (s *Service) resize(path string, maxWidth int) imaging.ResizeOutcome {
	out := s.images.ResizeToWidth(path, maxWidth)
	s.metrics.IncResize(string(out.Status))

	switch out.Status {
	case imaging.ResizeFailed:
		s.log.Warn().Err(out.Err).Str("path", path).Int("max_width", maxWidth).Msg("resize failed, keeping original image")
	case imaging.ResizeResized:
		s.log.Debug().Str("path", path).Int("width", out.Width).Int("height", out.Height).Msg("image resized")
	}
	return out
}

func (s *Service) analyze(path string) *imaging.ScreenAnalysis {
	a, err := s.images.Analyze(path)
	if err != nil {
		s.log.Debug().Err(err).Str("path", path).Msg("screen analysis skipped")
		return nil
	}
	if a.Blank {
		s.log.Warn().Str("path", path).Str("color", a.AverageColor).Msg("captured screen is blank")
	}
	return a
}

func (s *Service) extractText(path string) *Text {
	if s.text == nil {
		s.log.Warn().Msg("text extraction requested but OCR is not configured")
		return nil
	}
	r, err := s.text.ExtractText(path)
	if err != nil {
		s.log.Warn().Err(err).Str("path", path).Msg("text extraction failed")
		return nil
	}
	return r
}

// logAvailableDevices lists the known simulators in the background so the
// log shows what the caller could have asked for. It does not delay or
// affect the request.
func (s *Service) logAvailableDevices(ctx context.Context, rejected string) {
	ctx = context.WithoutCancel(ctx)
	s.diagnostics.Add(1)
	go func() {
		defer s.diagnostics.Done()

		ctx, cancel := context.WithTimeout(ctx, diagnosticsTimeout)
		defer cancel()

		devices := s.validator.ListAvailableDevices(ctx)
		s.log.Info().
			Str("rejected_device", rejected).
			Interface("available_devices", devices).
			Msg("available simulator devices")
	}()
}

func (s *Service) fail(err error) *Result {
	info := &ErrorInfo{Code: CodeUnknown}

	var cmdErr *simctl.CommandError
	var devErr *invalidDeviceError
	switch {
	case errors.As(err, &cmdErr):
		if cmdErr.Code != "" {
			info.Code = cmdErr.Code
		}
		info.Command = cmdErr.Command
		info.Stderr = cmdErr.Stderr
	case errors.As(err, &devErr):
		info.Code = CodeInvalidDeviceID
	default:
		if code := errnoCode(err); code != "" {
			info.Code = code
		}
	}

	s.log.Error().Err(err).Str("code", info.Code).Msg("screenshot capture failed")
	return &Result{
		Success: false,
		Message: ErrorPrefix + err.Error(),
		Error:   info,
	}
}

type invalidDeviceError struct {
	id      string
	outcome device.Outcome
}

func (e *invalidDeviceError) Error() string {
	return fmt.Sprintf("Invalid device ID: %s (%s). Use 'booted' or a valid simulator device UUID.", e.id, e.outcome.Message)
}

// DefaultFileName returns the name used when a request does not supply one:
// "simulator_" plus the UTC ISO-8601 time with ':' and '.' replaced by '-'.
func DefaultFileName(t time.Time) string {
	stamp := strings.NewReplacer(":", "-", ".", "-").Replace(t.UTC().Format(timestampLayout))
	return "simulator_" + stamp + ".png"
}

// MetadataFor builds the Metadata for a saved file from the result of
// reading it back. A read error or missing info yields zero dimensions, a
// zero size and the "unknown" format.
func MetadataFor(info *imaging.ImageInfo, err error, now time.Time) *Metadata {
	md := &Metadata{
		Format:    imaging.UnknownFormat,
		Timestamp: now.UTC().Format(timestampLayout),
	}
	if err != nil || info == nil {
		return md
	}
	md.Width = info.Width
	md.Height = info.Height
	md.Size = info.Size
	if info.Format != "" {
		md.Format = info.Format
	}
	return md
}

func resizeEnabled(v *bool) bool {
	return v == nil || *v
}

func deviceOrBooted(id string) string {
	if id == "" {
		return simctl.BootedDevice
	}
	return id
}
