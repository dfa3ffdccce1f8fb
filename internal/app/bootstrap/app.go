package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"bibliotheque/internal/platform/config"
	"bibliotheque/internal/platform/httpserver"
	"bibliotheque/internal/platform/realtime"

	"golang.org/x/sync/errgroup"
)

type APIApp struct {
	runtime *Runtime
	server  *httpserver.Server
	hub     *realtime.Hub
}

type WorkerApp struct {
	runtime *Runtime
}

func BuildAPI(ctx context.Context, cfg config.Config, logger *slog.Logger) (*APIApp, error) {
	rt, err := Build(ctx, cfg, withProcess(logger, "api"))
	if err != nil {
		return nil, err
	}
	hub := realtime.NewHub(rt.Logger)
	server := httpserver.New(rt.Modules, httpserver.Options{
		Addr:            normalizeAddr(cfg.HTTP.Port),
		ReadTimeout:     cfg.HTTP.ReadTimeout,
		ShutdownTimeout: cfg.HTTP.ShutdownTimeout,
		MaxBodyBytes:    cfg.HTTP.MaxBodyBytes,
		MetricsPath:     cfg.Metrics.Path,
		Hub:             hub,
		Metrics:         rt.Metrics,
		Logger:          rt.Logger,
	})
	return &APIApp{runtime: rt, server: server, hub: hub}, nil
}

// BuildWorker wires a standalone relay and sweep process. It needs a shared
// database; with the memory driver the api process runs the embedded worker.
func BuildWorker(ctx context.Context, cfg config.Config, logger *slog.Logger) (*WorkerApp, error) {
	if cfg.Database.Driver == config.DatabaseMemory {
		return nil, errors.New("standalone worker requires the sqlite or postgres driver")
	}
	rt, err := Build(ctx, cfg, withProcess(logger, "worker"))
	if err != nil {
		return nil, err
	}
	return &WorkerApp{runtime: rt}, nil
}

// Handler exposes the wired HTTP surface without starting a listener.
func (a *APIApp) Handler() http.Handler {
	return a.server.Handler()
}

func (a *APIApp) Runtime() *Runtime {
	return a.runtime
}

// Run serves HTTP, streams events to websocket clients and, when embedded,
// drives the worker loop until ctx is cancelled.
func (a *APIApp) Run(ctx context.Context) error {
	rt := a.runtime
	rt.Logger.Info("api app started",
		"event", "bootstrap_api_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"database_driver", rt.Config.Database.Driver,
		"embedded_worker", rt.Config.Worker.Embedded,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.hub.Run(gctx)
		return nil
	})
	if err := rt.EventSinks(gctx, a.hub); err != nil {
		return err
	}
	if rt.Config.Worker.Embedded {
		g.Go(func() error {
			return rt.Worker.Run(gctx)
		})
	}
	g.Go(func() error {
		return a.server.Start(gctx)
	})
	err := g.Wait()
	rt.Bus.Wait()
	return err
}

func (a *APIApp) Close() error {
	return a.runtime.Close()
}

func (w *WorkerApp) Run(ctx context.Context) error {
	rt := w.runtime
	if err := rt.EventSinks(ctx, nil); err != nil {
		return err
	}
	err := rt.Worker.Run(ctx)
	rt.Bus.Wait()
	return err
}

func (w *WorkerApp) Close() error {
	return w.runtime.Close()
}

func withProcess(logger *slog.Logger, process string) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return logger.With("process", process)
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.Contains(value, ":") {
		return value
	}
	return ":" + value
}
