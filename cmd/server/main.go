package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"einsatzplan/config"
	"einsatzplan/internal/api/handler"
	"einsatzplan/internal/api/middleware"
	"einsatzplan/internal/api/router"
	"einsatzplan/internal/repository"
	"einsatzplan/internal/service"
	"einsatzplan/pkg/database"
	"einsatzplan/pkg/jwt"
	applogger "einsatzplan/pkg/logger"
	"einsatzplan/pkg/redis"
)

func main() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	// 1. config
	cfg, err := config.Load(os.Getenv("EINSATZ_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// 2. logger
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting",
		zap.Int("port", cfg.Server.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. database + migrations
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("get sql.DB failed", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, cfg.Database.Driver, logger); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}

	// 4. redis is optional: without it there is no token blacklist,
	// no login rate limit and no read cache
	var (
		blacklist service.TokenBlacklist
		limiter   middleware.RateLimiter
		cache     repository.Cache
		cachePing handler.Pinger
	)
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("redis unavailable, running without blacklist, rate limit and cache", zap.Error(err))
		rdb = nil
	} else {
		blacklist, limiter, cache, cachePing = rdb, rdb, rdb, rdb
	}

	// 5. wiring: Repository -> Service -> Handler
	jwtMgr := jwt.NewManager(&cfg.Auth)
	repo := repository.NewRepository(db).WithCache(cache, cfg.Cache.TTL, logger)
	svc := service.NewService(cfg, repo, jwtMgr, blacklist, logger)
	health := handler.NewHealthHandler(handler.PingFunc(sqlDB.PingContext), cachePing)
	h := handler.NewHandler(svc, health)

	engine := router.Setup(cfg, h, jwtMgr, blacklist, limiter, logger)

	// 6. HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}

	if err := sqlDB.Close(); err != nil {
		logger.Warn("close database failed", zap.Error(err))
	}
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("stopped")
}
