package main

import (
	"context"
	"log"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/tasktracker/api/handler"
	"github.com/fastygo/tasktracker/internal/config"
	"github.com/fastygo/tasktracker/internal/infrastructure/buffer"
	"github.com/fastygo/tasktracker/internal/infrastructure/monitor"
	pgInfra "github.com/fastygo/tasktracker/internal/infrastructure/postgres"
	redisInfra "github.com/fastygo/tasktracker/internal/infrastructure/redis"
	"github.com/fastygo/tasktracker/internal/middleware"
	"github.com/fastygo/tasktracker/internal/router"
	"github.com/fastygo/tasktracker/internal/security"
	"github.com/fastygo/tasktracker/internal/services"
	"github.com/fastygo/tasktracker/internal/services/lifecycle"
	"github.com/fastygo/tasktracker/pkg/httpcontext"
	"github.com/fastygo/tasktracker/pkg/logger"
	"github.com/fastygo/tasktracker/pkg/retry"
	"github.com/fastygo/tasktracker/repository"
	"github.com/fastygo/tasktracker/repository/postgres"
	redisRepo "github.com/fastygo/tasktracker/repository/redis"
	authUC "github.com/fastygo/tasktracker/usecase/auth"
	taskUC "github.com/fastygo/tasktracker/usecase/task"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	appCtx, stop := manager.Listen(context.Background())
	defer stop()

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", lifecycle.Stopper(func() { pgInfra.Close(pool, zapLogger) }))

	redisClient, err := redisInfra.NewClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	var sessionCache repository.SessionCache
	if redisClient != nil {
		manager.Register("redis", lifecycle.Closer(redisClient.Close))
		sessionCache = redisRepo.NewSessionCache(redisClient, cfg.Session.CacheTTL)
	} else {
		zapLogger.Info("session cache disabled")
	}

	bufferStore, err := buffer.Open(cfg.Buffer.Path, buffer.DefaultBucket)
	if err != nil {
		zapLogger.Fatal("failed to open buffer store", zap.Error(err))
	}
	manager.Register("buffer", lifecycle.Closer(bufferStore.Close))

	mon := monitor.New(pool, redisClient, bufferStore, cfg.Context.MonitorInterval, zapLogger)
	mon.Start()
	manager.Register("monitor", lifecycle.Stopper(mon.Stop))

	tx := postgres.NewTransactor(pool)
	userRepo := postgres.NewUserRepository(pool)
	taskRepo := postgres.NewTaskRepository(pool)
	sessionRepo := postgres.NewSessionRepository(pool)

	bufferProcessor := services.NewBufferProcessor(
		bufferStore,
		mon,
		sessionRepo,
		zapLogger,
		services.ProcessorConfig{
			Interval:   cfg.Buffer.SyncInterval,
			BatchSize:  cfg.Buffer.BatchSize,
			MaxRetries: cfg.Buffer.MaxRetry,
			MaxAge:     cfg.Buffer.Retention,
		},
	)
	bufferProcessor.Start()
	manager.Register("buffer_processor", bufferProcessor.Stop)

	sweeper := services.NewSessionSweeper(sessionRepo, mon, cfg.Session.SweepInterval, zapLogger)
	sweeper.Start()
	manager.Register("session_sweeper", sweeper.Stop)

	tokens, err := security.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.Issuer)
	if err != nil {
		zapLogger.Fatal("token issuer setup failed", zap.Error(err))
	}

	retryPolicy := retry.Policy{
		Attempts: cfg.Retry.Attempts,
		Interval: cfg.Retry.Interval,
		Jitter:   cfg.Retry.Jitter,
	}

	authUseCase := authUC.New(authUC.Deps{
		Users:    userRepo,
		Sessions: sessionRepo,
		Tx:       tx,
		Tokens:   tokens,
		Cache:    sessionCache,
		Buffer:   services.NewBufferBridge(bufferProcessor),
		Retry:    retryPolicy,
		Logger:   zapLogger,
	}, authUC.Config{
		SessionTTL: cfg.Session.TTL,
		SlidingTTL: cfg.Session.SlidingTTL,
	})
	taskUseCase := taskUC.New(taskRepo, userRepo, tx, retryPolicy, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth: apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger, apiHandler.CookieConfig{
			Path:     cfg.Cookie.Path,
			Domain:   cfg.Cookie.Domain,
			Secure:   cfg.Cookie.Secure,
			HTTPOnly: cfg.Cookie.HTTPOnly,
			SameSite: cfg.Cookie.SameSite,
		}),
		Task:   apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, zapLogger),
		Health: apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	r := router.New(handlers, router.Options{
		SessionGuard:  middleware.SessionGuard(authUseCase, ctxAdapter, zapLogger),
		EnableMetrics: cfg.HTTP.EnableMetrics,
		EnablePprof:   cfg.HTTP.EnablePprof,
	})

	handler := middleware.Chain(r.Handler,
		middleware.Recover(zapLogger),
		middleware.RequestLogger(zapLogger),
		middleware.CORS(cfg.CORS.AllowedOrigins),
		middleware.SecurityHeaders,
	)
	if cfg.HTTP.EnableMetrics {
		handler = middleware.Metrics(handler)
	}

	server := &fasthttp.Server{
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Concurrency:  cfg.HTTP.MaxConn,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	<-appCtx.Done()
	zapLogger.Info("shutdown signal received")

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
