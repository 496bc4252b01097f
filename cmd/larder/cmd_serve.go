package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"larder/frontend/inventory"
	"larder/infrastructure/audit"
	"larder/infrastructure/cache"
	httpserver "larder/infrastructure/http"
	"larder/infrastructure/metrics"
	"larder/infrastructure/sqlite"
)

const sweepInterval = time.Minute

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the inventory web UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				a.cfg.Server.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	db, err := sqlite.Open(ctx, a.cfg.SQLite.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	collector := metrics.NewCollector()
	client := a.client(collector)
	views := cache.NewPageSessionCache(a.cfg.Server.SessionIdleTTL, inventory.NewView)
	auditSvc := audit.NewService(db, collector)

	if a.cfg.Server.ShutdownTimeout > 0 {
		httpserver.ShutdownTimeout = a.cfg.Server.ShutdownTimeout
	}
	server := httpserver.NewServer(a.cfg.Server.Addr, db, client, views, auditSvc, collector, a.cfg.Server.ActivityLimit)

	if err := client.Health(ctx); err != nil {
		slog.Warn("inventory backend not reachable at startup", slog.String("url", a.cfg.Backend.URL), slog.Any("err", err))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(gctx)
	})
	g.Go(func() error {
		return server.SweepSessions(gctx, sweepInterval)
	})
	return g.Wait()
}
