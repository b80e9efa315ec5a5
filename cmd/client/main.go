package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/orderdesk/internal/buildinfo"
	"github.com/dmitrijs2005/orderdesk/internal/client/cli"
	"github.com/dmitrijs2005/orderdesk/internal/client/config"
	"github.com/dmitrijs2005/orderdesk/internal/logging"
	"github.com/dmitrijs2005/orderdesk/internal/telemetry"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("%v", err)
	}
}

// run starts the client; deferred shutdowns run on every return path.
func run() error {
	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	shutdown, err := telemetry.Setup(ctx, config.AppName, buildinfo.Version, cfg.OTLPEndpoint)
	if err != nil {
		logger.Warn(ctx, "tracing disabled", "error", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(sctx); err != nil {
			logger.Warn(sctx, "telemetry shutdown", "error", err)
		}
	}()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		return err
	}

	app.Run(ctx)
	return nil
}
