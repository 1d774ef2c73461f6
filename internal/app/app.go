// Package app wires the server together: logger, registry, websocket
// transport, the simulation tick loop, the idle sweep, and the heartbeat.
package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spotUP/pong-websocket-server/internal/config"
	"github.com/spotUP/pong-websocket-server/internal/registry"
	"github.com/spotUP/pong-websocket-server/internal/server"
)

// Run starts the server and blocks until ctx is canceled or the listener
// fails. Shutdown drains the HTTP server before returning.
func Run(ctx context.Context, cfg config.Config) error {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	reg := registry.New(log, registry.Options{IdleTimeout: cfg.IdleTimeout()})
	srv := server.New(log, reg)

	httpSrv := &http.Server{
		Addr:    cfg.Addr,
		Handler: srv.Routes(),
	}

	go tickLoop(ctx, reg, cfg.TickInterval())
	go sweepLoop(ctx, reg, cfg.SweepInterval())
	go heartbeatLoop(ctx, reg, cfg.HeartbeatInterval())

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", cfg.Addr, "tick_rate", cfg.TickRate)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown failed", "error", err)
			return err
		}
		log.Info("server stopped")
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// tickLoop drives the simulation at the configured rate. Broadcast frames
// are marshaled inside Tick and written here, off the registry lock.
func tickLoop(ctx context.Context, reg *registry.Registry, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	dt := interval.Seconds()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			for _, out := range reg.Tick(now, dt) {
				out.Send()
			}
		}
	}
}

func sweepLoop(ctx context.Context, reg *registry.Registry, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			reg.Sweep(now)
		}
	}
}

func heartbeatLoop(ctx context.Context, reg *registry.Registry, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			for _, out := range reg.Heartbeat(now) {
				out.Send()
			}
		}
	}
}
