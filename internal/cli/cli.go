// Package cli implements the ios-screenshot command: parse flags, run one
// capture and report the result on stdout (success) or stderr (failure).
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ironsheep/ios-screenshot-mcp/internal/config"
	"github.com/ironsheep/ios-screenshot-mcp/internal/device"
	"github.com/ironsheep/ios-screenshot-mcp/internal/logging"
	"github.com/ironsheep/ios-screenshot-mcp/internal/screenshot"
)

// Exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
)

const defaultLogLevel = "warn"

// Backend runs captures for the command. *app.App implements it.
type Backend interface {
	Capture(ctx context.Context, req screenshot.Request) *screenshot.Result
	ListAvailableDevices(ctx context.Context) []device.Device
	Wait()
}

// BuildFunc creates the Backend once configuration is resolved.
type BuildFunc func(cfg config.Config, log zerolog.Logger) (Backend, error)

// Command is the ios-screenshot command line.
type Command struct {
	Stdout io.Writer
	Stderr io.Writer

	Build      BuildFunc
	LoadConfig func(path string) (config.Config, error)

	Version string
}

type options struct {
	outputFilename      string
	outputDirectoryName string
	resize              string
	maxWidth            int
	deviceID            string
	outputDir           string
	extractText         bool
	listDevices         bool
	configPath          string
	logLevel            string
	help                bool
	version             bool
}

func (c *Command) flagSet(opts *options) *flag.FlagSet {
	fs := flag.NewFlagSet("ios-screenshot", flag.ContinueOnError)
	fs.SetOutput(c.Stderr)
	fs.Usage = func() { c.printHelp() }

	fs.StringVar(&opts.outputFilename, "output-filename", "", "Output filename (default: simulator_<timestamp>.png)")
	fs.StringVar(&opts.outputDirectoryName, "output-directory-name", "", "Subdirectory name (default: .screenshots)")
	fs.StringVar(&opts.resize, "resize", "", "Whether to resize the image: true or false (default: true)")
	fs.IntVar(&opts.maxWidth, "max-width", 0, "Maximum width for resizing (default: 640)")
	fs.StringVar(&opts.deviceID, "device-id", "", "Simulator device ID (default: booted)")
	fs.StringVar(&opts.outputDir, "output-dir", "", "Root output directory, used directly (default: current directory)")
	fs.BoolVar(&opts.extractText, "extract-text", false, "Run OCR on the screenshot and include the text")
	fs.BoolVar(&opts.listDevices, "list-devices", false, "Print the available simulators as JSON and exit")
	fs.StringVar(&opts.configPath, "config", "", "Path to a YAML config file")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.BoolVar(&opts.help, "help", false, "Show this help message")
	fs.BoolVar(&opts.help, "h", false, "Show this help message")
	fs.BoolVar(&opts.version, "version", false, "Print version information")
	return fs
}

// Execute runs the command and returns the process exit code.
func (c *Command) Execute(ctx context.Context, args []string) int {
	var opts options
	fs := c.flagSet(&opts)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitOK
		}
		fmt.Fprintf(c.Stderr, "Error: %v\n", err)
		return ExitFailure
	}

	if opts.help {
		c.printHelp()
		return ExitOK
	}
	if opts.version {
		fmt.Fprintf(c.Stdout, "ios-screenshot %s\n", c.versionString())
		return ExitOK
	}

	load := c.LoadConfig
	if load == nil {
		load = config.Load
	}
	cfg, err := load(opts.configPath)
	if err != nil {
		fmt.Fprintf(c.Stderr, "Error: %v\n", err)
		return ExitFailure
	}
	if opts.outputDir != "" {
		cfg.Output.Root = opts.outputDir
		cfg.Output.UseRootDirectly = true
	}

	level := opts.logLevel
	if level == "" {
		level = os.Getenv(config.EnvLogLevel)
	}
	if level == "" {
		level = defaultLogLevel
	}
	log := logging.New(level, "ios-screenshot", c.Stderr)

	backend, err := c.Build(cfg, log)
	if err != nil {
		fmt.Fprintf(c.Stderr, "Error: %v\n", err)
		return ExitFailure
	}

	if opts.listDevices {
		devices := backend.ListAvailableDevices(ctx)
		fmt.Fprintln(c.Stdout, indentJSON(devices))
		return ExitOK
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Capture.Timeout)
	defer cancel()

	res := backend.Capture(ctx, opts.request())
	backend.Wait()

	if res.Success {
		fmt.Fprintf(c.Stdout, "Screenshot saved successfully: %s\n", res.FilePath)
		fmt.Fprintln(c.Stdout, indentJSON(res))
		return ExitOK
	}
	fmt.Fprintf(c.Stderr, "Error: %s\n", res.Message)
	fmt.Fprintln(c.Stderr, indentJSON(res))
	return ExitFailure
}

func (o options) request() screenshot.Request {
	req := screenshot.Request{
		OutputFileName:      o.outputFilename,
		OutputDirectoryName: o.outputDirectoryName,
		MaxWidth:            o.maxWidth,
		DeviceID:            o.deviceID,
		ExtractText:         o.extractText,
	}
	if o.resize != "" {
		resize := strings.EqualFold(strings.TrimSpace(o.resize), "true")
		req.Resize = &resize
	}
	return req
}

func (c *Command) versionString() string {
	if c.Version == "" {
		return "dev"
	}
	return c.Version
}

func (c *Command) printHelp() {
	fmt.Fprintln(c.Stdout, "iOS Simulator Screenshot CLI")
	fmt.Fprintln(c.Stdout, "Usage: ios-screenshot [options]")
	fmt.Fprintln(c.Stdout, "")
	fmt.Fprintln(c.Stdout, "Options:")
	fmt.Fprintln(c.Stdout, "  --output-filename <name>       Output filename (default: simulator_<timestamp>.png)")
	fmt.Fprintln(c.Stdout, "  --output-directory-name <dir>  Subdirectory name (default: .screenshots)")
	fmt.Fprintln(c.Stdout, "  --resize <true|false>          Whether to resize the image (default: true)")
	fmt.Fprintln(c.Stdout, "  --max-width <pixels>           Maximum width for resizing (default: 640)")
	fmt.Fprintln(c.Stdout, "  --device-id <id>               Simulator device ID (default: booted)")
	fmt.Fprintln(c.Stdout, "  --output-dir <path>            Root output directory (default: current directory)")
	fmt.Fprintln(c.Stdout, "  --extract-text                 Include OCR text in the result")
	fmt.Fprintln(c.Stdout, "  --list-devices                 Print available simulators and exit")
	fmt.Fprintln(c.Stdout, "  --config <path>                YAML config file")
	fmt.Fprintln(c.Stdout, "  --log-level <level>            Log level on stderr (default: warn)")
	fmt.Fprintln(c.Stdout, "  --version                      Print version information")
	fmt.Fprintln(c.Stdout, "  --help, -h                     Show this help message")
}

func indentJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}
