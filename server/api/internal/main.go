package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"khawam-pro/pkg/httpclient"
	"khawam-pro/pkg/redis"
	"khawam-pro/internal/database"
	"khawam-pro/internal/routers"
	"khawam-pro/internal/service"
	"khawam-pro/internal/service/notify"
	"khawam-pro/internal/service/workflow"
)

// @title           Khawam Pro API
// @version         1.0
// @description     Printing and design shop backend: orders, workflows, pricing and the admin dashboard.

// @host      localhost:8080
// @BasePath  /api

const (
	defaultPort      = ":8080"
	defaultUploadDir = "uploads"
	defaultJWTSecret = "khawam-dev-secret"
	defaultRemoteAPI = "http://localhost:8001"
)

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	db, err := database.InitDB(os.Getenv("KHAWAM_DB"))
	if err != nil {
		logger.Fatal("database init failed", zap.Error(err))
	}
	if err := database.SeedCatalog(db); err != nil {
		logger.Fatal("catalog seed failed", zap.Error(err))
	}

	// Redis is optional in dev: pricing falls back to uncached quotes and
	// the archive watcher runs with the in-process guard only.
	var cache *redis.Handler
	if host := os.Getenv("KHAWAM_REDIS_HOST"); host != "" {
		if err := redis.Init("0", host, os.Getenv("KHAWAM_REDIS_PASSWORD")); err != nil {
			logger.Warn("redis unavailable, continuing without cache", zap.Error(err))
		} else {
			cache = redis.NewRedisHandler("0")
		}
	}
	keyBuilder := redis.NewKeyBuilder("", "")

	events := notify.NewStore()
	wsManager := notify.NewWebSocketManager(events, logger.Named("ws"))
	defer wsManager.Close()

	rootCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// With redis present, order events are mirrored across replicas so
	// dashboard clients see changes no matter which instance served them.
	if cache != nil {
		bridge := notify.NewRedisBridge(events, cache, redis.OrderUpdatesChannel, logger.Named("bridge"))
		defer bridge.Close()
		go bridge.Listen(rootCtx, cache.SubscribeChannel(redis.OrderUpdatesChannel))
	}

	var cacheIface service.RedisHandlerInterface
	var lockIface service.LockHandler
	if cache != nil {
		cacheIface = cache
		lockIface = cache
	}

	pricing := service.NewPricingService(db, cacheIface, keyBuilder, logger.Named("pricing"))
	registry := workflow.NewRegistry(pricing, logger.Named("workflow"))
	orders := service.NewOrderService(db, registry, events, logger.Named("orders"))
	catalog := service.NewCatalogService(db)
	analytics := service.NewAnalyticsService(db, logger.Named("analytics"))
	auth := service.NewAuthService(db, []byte(getenv("KHAWAM_JWT_SECRET", defaultJWTSecret)))

	remoteClient := httpclient.New(
		&http.Client{Timeout: 30 * time.Second},
		httpclient.NewFileSessionStore(getenv("KHAWAM_SESSION_DIR", ".")),
		logger.Named("httpclient"),
	)
	analysis := service.NewFileAnalysisService(remoteClient, getenv("KHAWAM_REMOTE_API", defaultRemoteAPI), logger.Named("analysis"))

	watcher := service.NewArchiveWatcher(orders, lockIface, keyBuilder.ArchiveLockKey(), logger.Named("archive"))
	watcher.Start(rootCtx)
	defer watcher.Stop()

	orderHandler := routers.NewOrderHandler(orders, registry)
	catalogHandler := routers.NewCatalogHandler(catalog)
	pricingHandler := routers.NewPricingHandler(pricing)
	authHandler := routers.NewAuthHandler(auth)
	dashboardHandler := routers.NewDashboardHandler(analytics, events, wsManager, logger.Named("dashboard"))
	uploadDir := getenv("KHAWAM_UPLOAD_DIR", defaultUploadDir)
	uploadHandler := routers.NewUploadHandler(analysis, uploadDir, logger.Named("uploads"))

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{getenv("KHAWAM_FRONTEND_ORIGIN", "http://localhost:3000")},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Static("/uploads", uploadDir)

	api := r.Group("/api")
	admin := api.Group("/admin", routers.AuthRequired(auth), routers.AdminRequired())

	authHandler.RegisterRoutes(api)
	orderHandler.RegisterRoutes(api, admin)
	catalogHandler.RegisterRoutes(api, admin)
	pricingHandler.RegisterRoutes(api, admin)
	uploadHandler.RegisterRoutes(api)
	dashboardHandler.RegisterRoutes(admin)

	port := getenv("KHAWAM_PORT", defaultPort)
	logger.Info("khawam-pro api listening", zap.String("port", port))
	if err := r.Run(port); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server exited", zap.Error(err))
	}
}
