package app

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"Gin_postgres_redis_division_inventory/auth"
	"Gin_postgres_redis_division_inventory/db"
	"Gin_postgres_redis_division_inventory/realtime"
	"Gin_postgres_redis_division_inventory/session"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 简化别名，便于 handlers 调用
type Ctx = gin.Context
type H = gin.H

// App 聚合各依赖
type App struct {
	Router *gin.Engine
	Logger *zap.Logger
	DB     *gorm.DB
	RDB    *redis.Client
	Config Config

	Repo     *db.Repo
	Sessions *session.Store
	Auth     *auth.Authenticator
	Notifier *realtime.RedisNotifier
}

// Config 从环境变量读取
type Config struct {
	DatabaseURL string
	RedisAddr   string
	RedisPwd    string
	WebOrigin   string
	Port        string
	LogLevel    string
	LogFormat   string

	JWTSecret    string
	SessionTTL   time.Duration
	SeenThrottle time.Duration

	BootstrapEmail    string
	BootstrapName     string
	BootstrapPassword string
}

// SecureCookies 仅 https 前端下发 Secure cookie
func (c Config) SecureCookies() bool { return strings.HasPrefix(c.WebOrigin, "https://") }

func MustNew() *App {
	cfg := loadConfig()

	logger, err := NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}

	// --- DB: Postgres ---
	dbConn, err := db.Open(cfg.DatabaseURL, cfg.LogLevel != "debug")
	if err != nil {
		logger.Fatal("open db", zap.Error(err))
	}

	// --- Redis ---
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPwd, DB: 0})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Fatal("redis", zap.Error(err))
	}

	if cfg.JWTSecret == "" {
		logger.Fatal("JWT_SECRET is required")
	}

	repo := db.NewRepo(dbConn)
	sessions := session.NewStore(rdb, cfg.SessionTTL)

	// --- Gin ---
	gin.SetMode(gin.ReleaseMode)
	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), Logger(logger))
	useCORS(r, cfg.WebOrigin)
	// SSE 需要逐帧 flush，xlsx 本身已压缩
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{
		"/api/dashboard/stream",
		"/api/inventory/export",
	})))

	return &App{
		Router:   r,
		Logger:   logger,
		DB:       dbConn,
		RDB:      rdb,
		Config:   cfg,
		Repo:     repo,
		Sessions: sessions,
		Auth:     auth.New(repo, sessions, cfg.JWTSecret, cfg.SessionTTL),
		Notifier: realtime.NewRedisNotifier(rdb),
	}
}

func (a *App) Close() {
	_ = a.RDB.Close()
	if sqlDB, err := a.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = a.Logger.Sync()
}

// NewLogger json 用 production 配置，其余用 development
func NewLogger(level, format string) (*zap.Logger, error) {
	var zapCfg zap.Config
	if format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}
	return zapCfg.Build()
}

func loadConfig() Config {
	get := func(k, def string) string {
		v := os.Getenv(k)
		if v == "" {
			return def
		}
		return v
	}
	dur := func(k string, def time.Duration) time.Duration {
		if d, err := time.ParseDuration(get(k, "")); err == nil && d > 0 {
			return d
		}
		return def
	}
	return Config{
		DatabaseURL: db.DSNFromEnv(),
		RedisAddr:   get("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPwd:    os.Getenv("REDIS_PASSWORD"),
		WebOrigin:   get("WEB_ORIGIN", "http://localhost:5173"),
		Port:        get("PORT", "3001"),
		LogLevel:    get("LOG_LEVEL", "info"),
		LogFormat:   get("LOG_FORMAT", "console"),

		JWTSecret:    os.Getenv("JWT_SECRET"),
		SessionTTL:   dur("SESSION_TTL", 24*time.Hour),
		SeenThrottle: dur("SEEN_THROTTLE", 5*time.Minute),

		BootstrapEmail:    os.Getenv("BOOTSTRAP_ADMIN_EMAIL"),
		BootstrapName:     get("BOOTSTRAP_ADMIN_NAME", "Administrator"),
		BootstrapPassword: os.Getenv("BOOTSTRAP_ADMIN_PASSWORD"),
	}
}
