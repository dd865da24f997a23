// Package server wires the postsets service together and runs it: it opens
// the database, applies migrations, builds the caches and the set service,
// and serves gRPC and Prometheus metrics until the process is signalled.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/postsets/internal/logging"
	"github.com/dmitrijs2005/postsets/internal/server/cache"
	"github.com/dmitrijs2005/postsets/internal/server/config"
	"github.com/dmitrijs2005/postsets/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/postsets/internal/server/services"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/postsets/internal/server/grpc"
)

// cacheCleanPeriod is how often expired set cache entries are dropped.
const cacheCleanPeriod = time.Minute

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	setCache    *cache.SieveSetCache
	setService  *services.SetService
}

func NewApp(c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	m := repomanager.NewPostgresRepositoryManager()
	setCache := cache.NewSieveSetCache(c.SetCacheSize, c.SetCacheTTL)
	refs := cache.NewReferences(m.Reference(db))
	ss := services.NewSetService(db, m, cache.NewMetricsSetCache(setCache, "sets"), refs, logger, c)

	return &App{
		config:      c,
		logger:      logger,
		db:          db,
		repomanager: m,
		setCache:    setCache,
		setService:  ss,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startMetricsServer(ctx context.Context) error {
	if app.config.MetricsAddr == "" {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: app.config.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	app.logger.Info(ctx, "Starting metrics server", "address", app.config.MetricsAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Run serves until ctx is cancelled, the process is signalled or one of the
// servers fails.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(cancelFunc)

	defer app.db.Close()

	if err := app.repomanager.RunMigrations(ctx, app.db); err != nil {
		return fmt.Errorf("migrations error: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		app.setCache.RunCleaner(ctx, cacheCleanPeriod)
		return nil
	})
	g.Go(func() error {
		return gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.setService, app.config.SecretKey).Run(ctx)
	})
	g.Go(func() error {
		return app.startMetricsServer(ctx)
	})

	err := g.Wait()
	app.setService.Wait()
	app.logger.Info(context.Background(), "App stopped")
	return err
}
