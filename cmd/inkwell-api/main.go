package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/inkwell-dev/inkwell/internal/config"
	"github.com/inkwell-dev/inkwell/internal/logger"
	"github.com/inkwell-dev/inkwell/internal/router"
	"github.com/inkwell-dev/inkwell/internal/setup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	var configFolder string
	flag.StringVar(&configFolder, "config_folder", "config", "path to folder with configs")
	flag.Parse()

	cfg := config.MustLoad(configFolder)
	logger.Initialize(cfg.Public.LogLevel, cfg.Public.LogJSON)

	deps, err := setup.Setup(cfg)
	if err != nil {
		logger.Log.Error("failed to set up dependencies", "error", err)
		os.Exit(1)
	}
	defer deps.Cleanup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Public.HTTPPort),
		Handler: router.New(deps),
	}

	go func() {
		logger.Log.Info("server started", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("server stopped unexpectedly", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("graceful shutdown failed", "error", err)
	}
}
