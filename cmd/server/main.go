package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/wifi-coverage-backend/internal/api"
	"github.com/jengzang/wifi-coverage-backend/internal/cache"
	"github.com/jengzang/wifi-coverage-backend/internal/config"
	"github.com/jengzang/wifi-coverage-backend/internal/coverage"
	"github.com/jengzang/wifi-coverage-backend/internal/database"
	"github.com/jengzang/wifi-coverage-backend/internal/logging"
	"github.com/jengzang/wifi-coverage-backend/internal/middleware"
	"github.com/jengzang/wifi-coverage-backend/internal/observability"
	"github.com/jengzang/wifi-coverage-backend/internal/repository"
	"github.com/jengzang/wifi-coverage-backend/internal/service"
)

func main() {
	// 加载配置
	cfg := config.Load()

	logger := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	ctx := context.Background()
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化数据库
	if err := database.Init(database.Config{Path: cfg.DBPath}); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.Close()
	db := database.GetDB()

	metrics, err := observability.NewCollector(nil)
	if err != nil {
		log.Fatal("Failed to register metrics:", err)
	}

	defaults := coverage.DefaultSettings()
	defaults.Resolution = cfg.DefaultResolution
	defaults.MaxDistance = cfg.DefaultMaxDistance

	monitors := service.NewMonitorService(repository.NewMonitorRepository(db), logger)
	settings := service.NewSettingsService(repository.NewSettingsRepository(db), repository.NewAreaRepository(db), defaults, logger)
	coverageSvc := service.NewCoverageService(monitors, settings, service.CoverageOptions{
		Cache:   cache.NewHeatmapCache(cfg.HeatmapCacheTTL, cfg.HeatmapCacheSize),
		Metrics: metrics,
		Logger:  logger,
		Workers: cfg.GridWorkers,
	})

	limiter := middleware.NewRateLimiter(cfg.HeatmapRateLimit, cfg.HeatmapRateWindow)
	defer limiter.Stop()

	// 初始化路由
	router := api.SetupRouter(api.Dependencies{
		Coverage:       coverageSvc,
		Settings:       settings,
		Monitors:       monitors,
		Metrics:        metrics,
		Logger:         logger,
		HeatmapLimiter: limiter,
	})

	srv := &http.Server{
		Addr:              cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 启动服务器
	go func() {
		logger.Info(ctx, "server starting", logging.String("addr", cfg.Port), logging.String("db_path", cfg.DBPath))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server:", err)
		}
	}()

	stop, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()
	<-stop.Done()

	shutdownCtx, cancelShutdown := context.WithTimeout(ctx, 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "server shutdown failed", logging.Err(err))
		return
	}
	logger.Info(ctx, "server stopped")
}
