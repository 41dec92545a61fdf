// Package app assembles the capture pipeline from a Config. Both binaries
// build through it so the CLI and the MCP server capture identically.
package app

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/ironsheep/ios-screenshot-mcp/internal/config"
	"github.com/ironsheep/ios-screenshot-mcp/internal/device"
	"github.com/ironsheep/ios-screenshot-mcp/internal/imaging"
	"github.com/ironsheep/ios-screenshot-mcp/internal/metrics"
	"github.com/ironsheep/ios-screenshot-mcp/internal/ocr"
	"github.com/ironsheep/ios-screenshot-mcp/internal/output"
	"github.com/ironsheep/ios-screenshot-mcp/internal/screenshot"
	"github.com/ironsheep/ios-screenshot-mcp/internal/simctl"
)

// App holds the wired components.
type App struct {
	Service   *screenshot.Service
	Validator *device.Validator
	Output    *output.Manager
	Simctl    *simctl.Client
}

// New wires the pipeline for cfg. m may be nil.
func New(cfg config.Config, log zerolog.Logger, m *metrics.Metrics) *App {
	return NewWithRunner(cfg, log, m, simctl.NewExecRunner(cfg.Capture.MaxBufferBytes))
}

// NewWithRunner is New with a custom command runner.
func NewWithRunner(cfg config.Config, log zerolog.Logger, m *metrics.Metrics, runner simctl.Runner) *App {
	client := simctl.NewClient(runner, cfg.Capture.XcrunPath)
	validator := device.NewValidator(client)

	out := output.NewManager(cfg.Output.Subdirectory, cfg.Output.Root)
	if cfg.Output.UseRootDirectly {
		out.SetRootDirectory(cfg.Output.Root, true)
	}

	svc := screenshot.New(screenshot.Options{
		Capturer:        client,
		Validator:       validator,
		Output:          out,
		Images:          imaging.Processor{},
		Text:            ocr.Tesseract{Language: cfg.OCR.Language},
		DefaultMaxWidth: cfg.Capture.MaxWidth,
		Logger:          log,
		Metrics:         m,
	})

	return &App{
		Service:   svc,
		Validator: validator,
		Output:    out,
		Simctl:    client,
	}
}

// Capture runs one capture through the service.
func (a *App) Capture(ctx context.Context, req screenshot.Request) *screenshot.Result {
	return a.Service.Capture(ctx, req)
}

// ListAvailableDevices lists the simulators that can be captured.
func (a *App) ListAvailableDevices(ctx context.Context) []device.Device {
	return a.Validator.ListAvailableDevices(ctx)
}

// Wait blocks until background diagnostics have been logged.
func (a *App) Wait() {
	a.Service.Wait()
}
