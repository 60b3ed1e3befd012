// Command hackdesk runs the hackathon lifecycle service: the scheduler
// sweep loop plus the operational HTTP surface.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hackdesk/hackdesk/internal/adapters/http/api"
	"github.com/hackdesk/hackdesk/internal/adapters/repository"
	"github.com/hackdesk/hackdesk/internal/adapters/repository/mongodb"
	"github.com/hackdesk/hackdesk/internal/app"
	"github.com/hackdesk/hackdesk/internal/config"
	"github.com/hackdesk/hackdesk/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	var store repository.Store
	switch cfg.Store {
	case config.StoreMongo:
		ms, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			log.Error(ctx, "failed to connect to mongodb", logger.Error(err))
			return
		}
		defer func() {
			if err := ms.Close(context.Background()); err != nil {
				log.Warn(ctx, "mongodb disconnect failed", logger.Error(err))
			}
		}()
		log.Info(ctx, "connected to mongodb", logger.String("db", cfg.MongoDB))
		store = ms
	default:
		log.Warn(ctx, "using in-memory store; state is lost on restart")
		store = repository.NewMemory()
	}

	svc := app.New(
		app.WithStore(store),
		app.WithLogger(log),
		app.WithSweepInterval(time.Duration(cfg.SweepIntervalSeconds)*time.Second),
		app.WithCleanupTimeout(time.Duration(cfg.CleanupTimeoutSeconds)*time.Second),
	)
	if err := svc.Start(ctx); err != nil {
		log.Error(ctx, "failed to start service", logger.Error(err))
		return
	}
	defer svc.Stop()

	mux := http.NewServeMux()
	api.NewServer(svc).Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting ops HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(ctx, "HTTP server failed", logger.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "server stopped")
}
