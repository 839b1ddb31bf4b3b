package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"salesiq/internal/server"
	"salesiq/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var watchCSV bool

// serveCmd exposes the assistant over HTTP.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the assistant over HTTP",
	Long: `Starts an HTTP server with POST /ask and GET /healthz. With --watch the
configured sales CSV is re-ingested whenever it changes on disk.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&watchCSV, "watch", false, "re-ingest the configured CSV when it changes")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	orch, s, err := buildPipeline(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if watchCSV {
		watcher, err := store.NewCSVWatcher(s, cfg.Store.CSVPath, logger)
		if err != nil {
			return err
		}
		if err := watcher.Start(ctx); err != nil {
			return err
		}
		defer watcher.Stop()
	}

	httpSrv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: server.New(orch, logger).Handler(),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", cfg.Server.Addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	logger.Info("server stopped")
	return err
}
