package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/kdduha/aidiagram/docs"
	"github.com/kdduha/aidiagram/internal/config"
	"github.com/kdduha/aidiagram/internal/handler"
	"github.com/kdduha/aidiagram/internal/lock"
	"github.com/kdduha/aidiagram/internal/logger"
	"github.com/kdduha/aidiagram/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web page and JSON API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return fmt.Errorf("logger error: %w", err)
	}
	defer func() { _ = log.Sync() }()

	a, err := newApp(cfg, log)
	if err != nil {
		return err
	}

	health := handler.NewHealthHandler()
	switch cfg.Lock.Backend {
	case config.LockBackendRedis:
		redisLocker := lock.NewRedisLocker(
			cfg.RedisConfig.Addr,
			cfg.RedisConfig.Password,
			cfg.RedisConfig.DB,
			cfg.Lock.TTL,
		)
		defer func() { _ = redisLocker.Close() }()
		a.service.SetLocker(redisLocker)
		health.Add("redis", redisLocker.Ping)
		log.Info("set redis as session lock", zap.String("addr", cfg.RedisConfig.Addr))
	default:
		a.service.SetLocker(lock.NewMemoryLocker(cfg.Lock.TTL))
	}

	sessions := scs.New()
	sessions.Lifetime = cfg.Session.Lifetime
	sessions.Cookie.Name = cfg.Session.CookieName
	sessions.Cookie.HttpOnly = true
	sessions.Cookie.SameSite = http.SameSiteLaxMode

	d := handler.NewDiagramHandler(log, a.service, a.registry, a.renderer, sessions)

	r := chi.NewRouter()
	r.Use([]func(http.Handler) http.Handler{
		middleware.RequestID,
		logger.Middleware(log),
		middleware.Recoverer,
		middleware.Throttle(cfg.Server.ThrottleLimit),
		middleware.Timeout(cfg.Server.Timeout),
		metrics.Middleware,
	}...)

	d.Routes(r)
	r.Get("/healthz", health.Healthz)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	r.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server started",
			zap.String("port", cfg.Server.Port),
			zap.String("provider", cfg.Generation.Provider),
			zap.String("model", cfg.Generation.Model),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		log.Info("server stopped")
		return nil
	})

	return g.Wait()
}
