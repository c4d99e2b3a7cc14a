package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"manahub/database"
	"manahub/internal/cache"
	"manahub/internal/cms"
	"manahub/internal/config"
	"manahub/internal/http-api/handler"
	"manahub/internal/http-api/middleware"
	"manahub/internal/http-api/repository"
	"manahub/internal/http-api/service"
)

func main() {
	// 1️⃣ Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := newLogger(cfg)

	// 2️⃣ Connect to the database
	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}

	// 3️⃣ Redis cache - the API stays up without it, just uncached
	cacheClient, err := cache.New(cfg.RedisURL, cfg.RedisPassword)
	if err != nil {
		logger.Warn("redis unavailable, caching disabled", "error", err)
		cacheClient = nil
	}

	// 4️⃣ CMS document-store client
	cmsClient := cms.NewClient(cfg.CMSBaseURL, cfg.CMSAPIKey, cacheClient)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	manaRepo := repository.NewManaLogRepository(db)
	ratingRepo := repository.NewRatingRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	topicRepo := repository.NewTopicRepository(db)

	// Services
	authService := service.NewAuthService(userRepo, cfg)
	manaService := service.NewManaService(manaRepo, userRepo)
	notificationService := service.NewNotificationService(notificationRepo, userRepo)
	ratingService := service.NewRatingService(ratingRepo, manaService, cacheClient)
	articleService := service.NewArticleService(cmsClient, manaService)
	commentService := service.NewCommentService(commentRepo, userRepo, cmsClient, notificationService)
	forumService := service.NewForumService(topicRepo, userRepo, manaService, notificationService)

	// 5️⃣ Setup Gin
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins))
	r.Use(middleware.RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst))

	r.GET("/check-conn", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"message": "API is alive and database connected ✅",
		})
	})

	api := r.Group("/api")

	public := api.Group("")
	public.Use(middleware.OptionalAuthMiddleware(authService))

	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(authService))

	handler.NewAuthHandler(authService).RegisterRoutes(api)
	handler.NewArticleHandler(articleService).RegisterRoutes(public, authed)
	handler.NewRatingHandler(ratingService).RegisterRoutes(public, authed)
	handler.NewCommentHandler(commentService).RegisterRoutes(public, authed)
	handler.NewForumHandler(forumService).RegisterRoutes(public, authed)
	handler.NewNotificationHandler(notificationService).RegisterRoutes(authed)
	handler.NewManaHandler(manaService).RegisterRoutes(authed)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	logger.Info("🚀 Server running", "addr", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelDebug
	switch cfg.LogLevel {
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(h)
}
