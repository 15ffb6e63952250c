// Command web serves the public site.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/nexo-digital/site/internal/cms"
	"github.com/nexo-digital/site/internal/metrics"
	"github.com/nexo-digital/site/internal/platform/config"
	"github.com/nexo-digital/site/internal/platform/observability"
)

const drainTimeout = 10 * time.Second

func main() {
	logger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "web: logger: %v\n", err)
		os.Exit(1)
	}
	logger = logger.Named("web")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(observability.WithLogger(ctx, logger), logger)
	stop()
	_ = logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

// run serves until ctx is cancelled or the listener fails. Failures are
// logged before they are returned.
func run(ctx context.Context, logger *zap.Logger) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		var verr *config.ValidationError
		if errors.As(err, &verr) {
			logger.Error("invalid configuration", zap.Strings("fields", verr.Fields()))
		} else {
			logger.Error("load configuration", zap.Error(err))
		}
		return err
	}

	site, err := newApp(cfg, logger, metrics.NewPrometheusRecorder(nil))
	if err != nil {
		logger.Error("initialise site", zap.Error(err))
		return err
	}
	if cfg.Content.Watch {
		stopWatch := watchContent(ctx, site.store, logger.Named("watch"))
		defer stopWatch()
	}

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      site.routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	httpLogger := logger.Named("http").With(zap.String("addr", server.Addr))

	serveErr := make(chan error, 1)
	go func() {
		httpLogger.Info("listening",
			zap.String("base_url", cfg.Site.BaseURL),
			zap.Bool("dev", cfg.Site.Dev),
			zap.Bool("cache", cfg.Content.Cache),
		)
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			httpLogger.Error("listener failed", zap.Error(err))
			return err
		}
		return nil
	case <-ctx.Done():
	}

	httpLogger.Info("draining requests", zap.Duration("timeout", drainTimeout))
	drainCtx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	if err := server.Shutdown(drainCtx); err != nil {
		httpLogger.Error("shutdown", zap.Error(err))
		return err
	}
	return nil
}

// watchContent reloads the store on file changes until the returned func is
// called. A watcher that cannot start only disables reloading.
func watchContent(ctx context.Context, store *cms.Store, logger *zap.Logger) func() {
	watcher, err := cms.NewWatcher(store, logger)
	if err != nil {
		logger.Warn("content watcher disabled", zap.Error(err))
		return func() {}
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("content watcher stopped", zap.Error(err))
		}
	}()
	return func() {
		cancel()
		<-done
		if err := watcher.Close(); err != nil {
			logger.Warn("close content watcher", zap.Error(err))
		}
	}
}
