package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ironsheep/ios-screenshot-mcp/internal/app"
	"github.com/ironsheep/ios-screenshot-mcp/internal/config"
	"github.com/ironsheep/ios-screenshot-mcp/internal/httpapi"
	"github.com/ironsheep/ios-screenshot-mcp/internal/logging"
	"github.com/ironsheep/ios-screenshot-mcp/internal/metrics"
	"github.com/ironsheep/ios-screenshot-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	fs := flag.NewFlagSet("ios-screenshot-mcp", flag.ExitOnError)
	outputDir := fs.String("output-dir", "", "Root output directory, used directly (default: current directory)")
	configPath := fs.String("config", "", "Path to a YAML config file")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	metricsAddr := fs.String("metrics-addr", "", "Serve /healthz, /devices and /metrics on this address")
	showVersion := fs.Bool("version", false, "Print version information")
	fs.Usage = func() {
		fmt.Println("ios-screenshot-mcp - MCP server for iOS Simulator screenshots")
		fmt.Println()
		fmt.Println("Usage: ios-screenshot-mcp [options]")
		fmt.Println()
		fmt.Println("Options:")
		fs.SetOutput(os.Stdout)
		fs.PrintDefaults()
		fmt.Println()
		fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
		fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
	}
	_ = fs.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("ios-screenshot-mcp %s\n", Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Git commit: %s\n", GitCommit)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *outputDir != "" {
		cfg.Output.Root = *outputDir
		cfg.Output.UseRootDirectly = true
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if *metricsAddr != "" {
		cfg.Metrics.Addr = *metricsAddr
	}

	// stdout is the MCP channel
	logger := logging.New(cfg.Log.Level, "ios-screenshot-mcp", os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var m *metrics.Metrics
	if cfg.Metrics.Addr != "" {
		m = metrics.New()
	}

	a := app.New(cfg, logger, m)
	logger.Info().
		Str("version", Version).
		Str("commit", GitCommit).
		Str("output_path", a.Output.OutputPath()).
		Msg("ios screenshot mcp server starting")

	if cfg.Metrics.Addr != "" {
		h := httpapi.NewHandler(logger, m, a.Validator)
		go func() {
			if err := httpapi.Serve(ctx, cfg.Metrics.Addr, h); err != nil {
				logger.Error().Err(err).Msg("http listener failed")
			}
		}()
	}

	srv := server.New(server.Options{
		Capturer:       a.Service,
		Logger:         logger,
		Version:        Version,
		CaptureTimeout: cfg.Capture.Timeout,
	})
	if err := srv.Run(ctx, os.Stdin, os.Stdout); err != nil {
		logger.Error().Err(err).Msg("server error")
		stop()
		os.Exit(1)
	}

	a.Service.Wait()
	logger.Info().Msg("shutdown complete")
}
