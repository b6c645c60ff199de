// ABOUTME: Entry point for the rate-change HTTP server
// ABOUTME: Loads config, builds the logger and serves until signalled
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/audiolab/ratechange/internal/config"
	"github.com/audiolab/ratechange/internal/logging"
	"github.com/audiolab/ratechange/internal/pipeline"
	"github.com/audiolab/ratechange/internal/server"
	"github.com/audiolab/ratechange/internal/version"
	"go.uber.org/zap"
)

var (
	configFile = flag.String("config", "ratechange.yaml", "Config file path (missing file uses defaults)")
	addr       = flag.String("addr", "", "Listen address (overrides config)")
	logFile    = flag.String("log-file", "", "Also write logs to this file")
	debug      = flag.Bool("debug", false, "Enable debug logging")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *logFile != "" {
		cfg.Log.File = *logFile
	}

	logger, err := logging.New(cfg.Log, *debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("rate-change server starting",
		zap.String("version", version.Version),
		zap.String("addr", cfg.Server.Addr),
		zap.Int64("maxUploadBytes", cfg.Server.MaxUploadBytes),
		zap.Strings("allowedOrigins", cfg.Server.AllowedOrigins))

	srv := server.New(cfg.Server, pipeline.New(logger), logger)

	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Info("received signal", zap.Stringer("signal", sig))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
	logger.Info("server stopped")
}
