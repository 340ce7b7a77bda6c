package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/wifi-coverage-backend/internal/handler"
	"github.com/jengzang/wifi-coverage-backend/internal/logging"
	"github.com/jengzang/wifi-coverage-backend/internal/middleware"
	"github.com/jengzang/wifi-coverage-backend/internal/observability"
	"github.com/jengzang/wifi-coverage-backend/internal/service"
)

// Dependencies 路由所需的服务与中间件
type Dependencies struct {
	Coverage *service.CoverageService
	Settings *service.SettingsService
	Monitors *service.MonitorService

	Metrics *observability.Collector
	Logger  logging.Logger
	// HeatmapLimiter 限制热力图请求频率，nil 表示不限制
	HeatmapLimiter *middleware.RateLimiter
}

// SetupRouter 设置路由
func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(deps.Logger), deps.Metrics.Middleware())

	// CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+middleware.RequestIDHeader)

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "WiFi Coverage API is running",
		})
	})
	r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	coverageHandler := handler.NewCoverageHandler(deps.Coverage)
	settingsHandler := handler.NewSettingsHandler(deps.Settings)
	monitorHandler := handler.NewMonitorHandler(deps.Monitors)

	heatmapChain := []gin.HandlerFunc{coverageHandler.Heatmap}
	if deps.HeatmapLimiter != nil {
		heatmapChain = append([]gin.HandlerFunc{deps.HeatmapLimiter.Handler()}, heatmapChain...)
	}

	// API 路由组
	api := r.Group("/api/v1")
	{
		// 信号覆盖计算接口
		coverage := api.Group("/coverage")
		{
			coverage.POST("/point", coverageHandler.QueryPoint)
			coverage.GET("/heatmap", heatmapChain...)
			coverage.POST("/classify", coverageHandler.Classify)

			coverage.GET("/settings/:locationId", settingsHandler.GetSettings)
			coverage.PUT("/settings/:locationId", settingsHandler.UpdateSettings)

			coverage.GET("/areas", settingsHandler.ListAreas)
			coverage.POST("/areas", settingsHandler.CreateArea)
			coverage.GET("/areas/:id", settingsHandler.GetArea)
			coverage.DELETE("/areas/:id", settingsHandler.DeleteArea)
			coverage.POST("/areas/:id/classify", coverageHandler.ClassifyArea)
			coverage.GET("/areas/:id/report", coverageHandler.AreaReport)
		}

		// 监测点接口
		monitors := api.Group("/monitors")
		{
			monitors.GET("", monitorHandler.List)
			monitors.POST("", monitorHandler.Save)
			monitors.GET("/:id", monitorHandler.Get)
		}
	}

	return r
}
