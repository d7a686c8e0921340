package routes

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/streamcentives/backend/internal/api/handlers"
	"github.com/streamcentives/backend/internal/api/middleware"
	"github.com/streamcentives/backend/internal/config"
	"github.com/streamcentives/backend/internal/metrics"
	"github.com/streamcentives/backend/internal/models"
	"github.com/streamcentives/backend/internal/moderation"
	"github.com/streamcentives/backend/internal/services"
)

// Register wires up API routes and performs automatic migrations.
func Register(router *gin.Engine, db *gorm.DB, cfg config.Config) error {
	if err := db.AutoMigrate(
		&models.ModerationRecord{},
		&models.UserStrike{},
		&models.ReviewQueueEntry{},
		&models.Setting{},
		&models.Notification{},
		&models.NotificationProvider{},
		&models.APIClient{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	registry := prometheus.NewRegistry()
	metrics.Register(registry)

	classifier := moderation.NewHTTPClassifier(
		cfg.ClassifierBaseURL,
		cfg.ClassifierAPIKey,
		cfg.ClassifierModel,
		cfg.ClassifierTimeout,
	)

	thresholdService := services.NewThresholdService(db)
	strikeService := services.NewStrikeService(db)
	queueService := services.NewReviewQueueService(db)
	notificationService := services.NewNotificationService(db)
	moderationService := services.NewModerationService(
		db, classifier, thresholdService, strikeService, queueService, notificationService,
	)

	moderationHandler := handlers.NewModerationHandler(moderationService)
	queueHandler := handlers.NewReviewQueueHandler(queueService)
	strikeHandler := handlers.NewStrikeHandler(strikeService)
	thresholdHandler := handlers.NewThresholdHandler(thresholdService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	router.GET("/api/v1/health", handlers.HealthHandler)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	api := router.Group("/api/v1")
	api.Use(middleware.Auth(db, cfg.JWTSecret))
	{
		api.POST("/moderation/analyze", moderationHandler.Analyze)
		api.GET("/moderation", moderationHandler.ListByContentHash)
		api.GET("/moderation/:id", moderationHandler.Get)
		api.GET("/users/:id/moderation", moderationHandler.ListByUser)

		api.GET("/users/:id/strikes", strikeHandler.List)
		api.GET("/users/:id/standing", strikeHandler.Standing)

		api.GET("/review-queue", queueHandler.List)
		api.POST("/review-queue/:id/resolve", queueHandler.Resolve)

		api.GET("/notifications", notificationHandler.List)
		api.POST("/notifications/:id/read", notificationHandler.MarkAsRead)
		api.POST("/notifications/read-all", notificationHandler.MarkAllAsRead)

		api.GET("/settings/thresholds", thresholdHandler.Get)
		api.PUT("/settings/thresholds", middleware.RequireRole("admin"), thresholdHandler.Update)
	}

	return nil
}
