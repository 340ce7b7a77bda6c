package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config 应用配置
type Config struct {
	Port      string
	DBPath    string
	LogLevel  string
	LogFormat string

	// 热力图请求限流
	HeatmapRateLimit  int
	HeatmapRateWindow time.Duration

	// 热力图缓存
	HeatmapCacheTTL  time.Duration
	HeatmapCacheSize int

	// 网格计算并发数，0 表示 GOMAXPROCS
	GridWorkers int

	// 新位置的默认覆盖设置
	DefaultResolution  float64
	DefaultMaxDistance float64
}

// Load 加载配置
func Load() *Config {
	// .env 是可选的
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to load .env: %v", err)
	}

	return &Config{
		Port:               getEnv("PORT", ":8080"),
		DBPath:             getEnv("DB_PATH", "./data/coverage.db"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "text"),
		HeatmapRateLimit:   getEnvInt("HEATMAP_RATE_LIMIT", 30),
		HeatmapRateWindow:  getEnvDuration("HEATMAP_RATE_WINDOW", time.Minute),
		HeatmapCacheTTL:    getEnvDuration("HEATMAP_CACHE_TTL", 30*time.Second),
		HeatmapCacheSize:   getEnvInt("HEATMAP_CACHE_SIZE", 128),
		GridWorkers:        getEnvInt("GRID_WORKERS", 0),
		DefaultResolution:  getEnvFloat("DEFAULT_RESOLUTION", 10),
		DefaultMaxDistance: getEnvFloat("DEFAULT_MAX_DISTANCE", 300),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		log.Printf("Warning: invalid %s=%q, using %v", key, v, fallback)
		return fallback
	}
	return f
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %v", key, v, fallback)
		return fallback
	}
	return d
}
