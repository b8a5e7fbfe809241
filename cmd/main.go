package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/newwestevents/events-backend/config"
	"github.com/newwestevents/events-backend/database"
	"github.com/newwestevents/events-backend/internal/auditlog"
	"github.com/newwestevents/events-backend/internal/auth"
	"github.com/newwestevents/events-backend/internal/comment"
	"github.com/newwestevents/events-backend/internal/event"
	"github.com/newwestevents/events-backend/internal/notification"
	"github.com/newwestevents/events-backend/internal/rsvp"
	"github.com/newwestevents/events-backend/routes"
	"github.com/newwestevents/events-backend/utils"
)

// @title Community Events API
// @version 1.0
// @description Municipal community-events calendar: browse, submit and RSVP to local events; admins moderate submissions.
// @BasePath /api/v1
func main() {
	cfg := config.Load()
	utils.SetLogLevel(cfg.LogLevel)

	db := database.Connect(cfg)

	if err := utils.InitRedis(cfg); err != nil {
		utils.Log.Warnf("redis init failed, password reset disabled: %v", err)
	}
	utils.InitializeKafka(cfg)

	utils.Log.Info("running database migrations")
	if err := db.AutoMigrate(
		&auth.User{},
		&event.Event{},
		&rsvp.RSVP{},
		&comment.Comment{},
		&auditlog.AuditLog{},
		&notification.InAppNotification{},
	); err != nil {
		panic(fmt.Sprintf("db automigrate failed: %v", err))
	}

	if err := auth.SeedAdminUser(db, cfg); err != nil {
		panic(fmt.Sprintf("failed to seed admin user: %v", err))
	}

	// Change-event consumer: turns broker messages into in-app
	// notifications. No-op without Kafka; Publish then dispatches directly.
	eventRepo := event.NewRepository(db)
	notifSvc := notification.NewService(notification.NewRepository(db), func(ctx context.Context, eventID uint) (*notification.EventInfo, error) {
		e, err := eventRepo.GetByID(ctx, eventID)
		if err != nil {
			return nil, err
		}
		return &notification.EventInfo{Title: e.Title, Status: e.Status, SubmittedBy: e.SubmittedBy}, nil
	})
	notification.StartKafkaConsumer(context.Background(), cfg, notifSvc)
	defer utils.CloseKafka()

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "https://newwestevents.com"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.Setup(r, cfg)

	utils.Log.WithField("port", cfg.Port).Info("server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		panic(fmt.Sprintf("server failed: %v", err))
	}
}
