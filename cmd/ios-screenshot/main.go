package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/ironsheep/ios-screenshot-mcp/internal/app"
	"github.com/ironsheep/ios-screenshot-mcp/internal/cli"
	"github.com/ironsheep/ios-screenshot-mcp/internal/config"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := &cli.Command{
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Version: Version + " (built " + BuildTime + ", commit " + GitCommit + ")",
		Build: func(cfg config.Config, log zerolog.Logger) (cli.Backend, error) {
			return app.New(cfg, log, nil), nil
		},
	}

	code := cmd.Execute(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}
