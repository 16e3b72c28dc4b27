package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/talentsmy/backend/api/handler"
	"github.com/talentsmy/backend/internal/config"
	"github.com/talentsmy/backend/internal/infrastructure/buffer"
	"github.com/talentsmy/backend/internal/infrastructure/mailer"
	"github.com/talentsmy/backend/internal/infrastructure/monitor"
	pgInfra "github.com/talentsmy/backend/internal/infrastructure/postgres"
	redisInfra "github.com/talentsmy/backend/internal/infrastructure/redis"
	"github.com/talentsmy/backend/internal/middleware"
	"github.com/talentsmy/backend/internal/router"
	"github.com/talentsmy/backend/internal/services"
	"github.com/talentsmy/backend/internal/services/lifecycle"
	"github.com/talentsmy/backend/pkg/httpcontext"
	"github.com/talentsmy/backend/pkg/logger"
	"github.com/talentsmy/backend/repository/postgres"
	redisRepo "github.com/talentsmy/backend/repository/redis"
	authUC "github.com/talentsmy/backend/usecase/auth"
	pkgUC "github.com/talentsmy/backend/usecase/campaignpkg"
	orderUC "github.com/talentsmy/backend/usecase/order"
	statsUC "github.com/talentsmy/backend/usecase/stats"
	supplierUC "github.com/talentsmy/backend/usecase/supplier"
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

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	redisClient, err := redisInfra.NewClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	bufferStore, err := buffer.Open(cfg.AuditBuffer.Path, "audit")
	if err != nil {
		zapLogger.Fatal("failed to open audit buffer", zap.Error(err))
	}
	manager.Register("audit_buffer", func(ctx context.Context) error {
		return bufferStore.Close()
	})

	mon := monitor.New(pool, redisClient, bufferStore, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	orderRepo := postgres.NewOrderRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	packageRepo := postgres.NewPackageRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	activityRepo := postgres.NewActivityRepository(pool)
	otpRepo := redisRepo.NewOTPRepository(redisClient, cfg.OTP.TTL)

	recorder := services.NewAuditRecorder(
		bufferStore,
		mon,
		activityRepo,
		zapLogger,
		services.RecorderConfig{
			Interval:   cfg.AuditBuffer.SyncInterval,
			BatchSize:  cfg.AuditBuffer.BatchSize,
			MaxRetries: cfg.AuditBuffer.MaxRetry,
		},
	)
	recorder.Start()
	manager.Register("audit_recorder", func(ctx context.Context) error {
		recorder.Stop(ctx)
		return nil
	})

	feed := services.NewChangeFeed(zapLogger)

	resend := mailer.New(mailer.Config{
		APIKey:    cfg.Mailer.APIKey,
		FromEmail: cfg.Mailer.FromEmail,
		BaseURL:   cfg.Mailer.BaseURL,
		Timeout:   cfg.Mailer.Timeout,
	}, zapLogger)

	orderService := orderUC.New(orderRepo, supplierRepo, packageRepo, feed, zapLogger)
	supplierService := supplierUC.New(supplierRepo, orderRepo, zapLogger)
	packageService := pkgUC.New(packageRepo, zapLogger)
	statsService := statsUC.New(orderRepo, zapLogger)
	authService := authUC.New(userRepo, otpRepo, resend, authUC.TokenConfig{
		Secret: cfg.JWT.Secret,
		Issuer: cfg.JWT.Issuer,
		TTL:    cfg.JWT.TTL,
	}, cfg.OTP.TTL, zapLogger)

	sweeper := services.NewPaymentSweeper(orderService, recorder, cfg.Sweep.Interval, zapLogger)
	sweeper.Start()
	manager.Register("payment_sweeper", func(ctx context.Context) error {
		sweeper.Stop(ctx)
		return nil
	})

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:     apiHandler.NewAuthHandler(authService, recorder, ctxAdapter, zapLogger),
		Order:    apiHandler.NewOrderHandler(orderService, recorder, ctxAdapter, zapLogger),
		Supplier: apiHandler.NewSupplierHandler(supplierService, recorder, ctxAdapter, zapLogger),
		Package:  apiHandler.NewPackageHandler(packageService, recorder, ctxAdapter, zapLogger),
		Tracking: apiHandler.NewTrackingHandler(orderService, ctxAdapter, zapLogger),
		Activity: apiHandler.NewActivityHandler(activityRepo, ctxAdapter, zapLogger),
		Stats:    apiHandler.NewStatsHandler(statsService, ctxAdapter, zapLogger),
		Health:   apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.JWTAuth(cfg.JWT.Secret, zapLogger)
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
