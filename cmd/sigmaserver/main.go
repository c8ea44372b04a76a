// SixSigmaCharter HTTP server entrypoint.
//
// Serves the evaluation-and-render engine:
//   - GET  /chart   one process via query params, PNG body + Process-* headers
//   - POST /charts  ordered batch as a JSON array, PNG body + Process-List header
//   - GET  /healthz liveness, GET /metrics Prometheus
//
// Design notes:
//   - All tunables come from SIGMACHARTER_* environment variables (see
//     src/config); nothing is mutated after startup, so the handler chain is
//     freely concurrent.
//   - Shutdown drains in-flight renders for up to 10s; a render aborted by
//     client disconnect is simply discarded, never partially written.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sigmaforge/SixSigmaCharter/src/config"
	"github.com/sigmaforge/SixSigmaCharter/src/logging"
	"github.com/sigmaforge/SixSigmaCharter/src/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Errorf("configuration: %v", err)
		os.Exit(1)
	}
	logging.SetLevel(cfg.LogLevel)

	router := server.NewRouter(cfg)
	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	logging.Infof("listening on %s (max batch %d)", cfg.ListenAddr, cfg.MaxBatch)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		logging.Errorf("server: %v", err)
		os.Exit(1)
	case sig := <-quit:
		logging.Infof("received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logging.Errorf("shutdown: %v", err)
		os.Exit(1)
	}
}
