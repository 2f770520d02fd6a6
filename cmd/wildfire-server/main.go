// Command wildfire-server runs a fire simulation headless and streams it to
// websocket subscribers.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"wildfire/internal/app"
	"wildfire/internal/feed"
	"wildfire/internal/sims/wildfire"
)

func main() {
	cfg := app.NewConfig()
	cfg.TPS = 20
	addr := flag.String("addr", ":8080", "listen address")
	readOnly := flag.Bool("read-only", false, "ignore commands sent by subscribers")
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := run(cfg, *addr, *readOnly, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg *app.Config, addr string, readOnly bool, logger *slog.Logger) error {
	overrides := cfg.Set.Map()
	if cfg.Debug {
		overrides["debug"] = "true"
	}
	wcfg := wildfire.FromMap(overrides)
	wcfg.Seed = cfg.Seed
	wcfg.Fire.Logger = logger
	world := wildfire.NewWithConfig(wcfg)

	hub := feed.NewHub(logger)
	requests := make(chan feed.Request, 64)
	handlerRequests := requests
	if readOnly {
		handlerRequests = nil
	}
	runner := feed.NewRunner(world.Fires(), world.Wind(), hub, requests, logger)

	mux := http.NewServeMux()
	mux.Handle("/feed", feed.NewHandler(hub, handlerRequests, logger))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		fmt.Fprintf(w, "ok subscribers=%d\n", hub.Len())
	})
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", "addr", addr, "tps", cfg.TPS, "seed", wcfg.Seed)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return runner.Run(ctx, cfg.TPS)
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
