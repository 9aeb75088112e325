// Command scout-server serves research queries over HTTP.
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

	"github.com/scoutagent/scout/config"
	"github.com/scoutagent/scout/httpapi"
	"github.com/scoutagent/scout/internal/app"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "scout-server:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to config file (default: ./scout.yaml)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	logger := app.NewLogger(cfg.Log)

	a, err := app.New(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	opts := []httpapi.ServerOption{
		httpapi.WithAuthToken(cfg.Server.AuthToken),
		httpapi.WithRequestTimeout(cfg.Server.RequestTimeout),
		httpapi.WithLogger(logger),
	}
	if a.Store != nil {
		opts = append(opts, httpapi.WithSaver(a.Store))
	}
	api := httpapi.NewServer(a.Loop, opts...)
	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.Server.Addr).Msg("listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
