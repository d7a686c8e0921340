package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/streamcentives/backend/internal/config"
	"github.com/streamcentives/backend/internal/database"
	"github.com/streamcentives/backend/internal/logger"
	"github.com/streamcentives/backend/internal/server"
	"github.com/streamcentives/backend/internal/services"
	"github.com/streamcentives/backend/internal/version"
)

func main() {
	// Local dev convenience; absence of a .env file is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Log to both stdout and a rotated file next to the database.
	logDir := filepath.Join(filepath.Dir(cfg.DatabasePath), "logs")
	_ = os.MkdirAll(logDir, 0o755)
	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, "moderation.log"),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
	logger.Init(cfg.Environment == "development", io.MultiWriter(os.Stdout, rotator))

	logger.Log().Infof("starting %s version %s", version.Name, version.Full())

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}

	srv, err := server.New(db, cfg)
	if err != nil {
		log.Fatalf("initialize server: %v", err)
	}

	// Review-queue maintenance: escalate stale pending entries and notify
	// providers about backlog size.
	queueService := services.NewReviewQueueService(db)
	notificationService := services.NewNotificationService(db)
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.QueueEscalationCron, func() {
		escalated, err := queueService.EscalateStale(cfg.QueueStaleAfter)
		if err != nil {
			logger.Log().WithError(err).Warn("review queue escalation failed")
			return
		}
		if escalated > 0 {
			logger.Log().Infof("escalated %d stale review queue entries", escalated)
		}
		pending, err := queueService.PendingCount()
		if err != nil {
			logger.Log().WithError(err).Warn("review queue count failed")
			return
		}
		if pending > 0 {
			notificationService.NotifyReviewBacklog(pending)
		}
	}); err != nil {
		log.Fatalf("schedule queue escalation: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Log().Infof("listening on :%s", cfg.HTTPPort)
	if err := srv.Run(ctx); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
