package routes

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/newwestevents/events-backend/config"
	"github.com/newwestevents/events-backend/database"
	"github.com/newwestevents/events-backend/internal/admin"
	"github.com/newwestevents/events-backend/internal/auditlog"
	"github.com/newwestevents/events-backend/internal/auth"
	"github.com/newwestevents/events-backend/internal/calendar"
	"github.com/newwestevents/events-backend/internal/comment"
	"github.com/newwestevents/events-backend/internal/event"
	"github.com/newwestevents/events-backend/internal/notification"
	"github.com/newwestevents/events-backend/internal/ratelimit"
	"github.com/newwestevents/events-backend/internal/reports"
	"github.com/newwestevents/events-backend/internal/rsvp"
	"github.com/newwestevents/events-backend/middleware"

	_ "github.com/newwestevents/events-backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Setup wires repositories, services and handlers onto the router.
func Setup(r *gin.Engine, cfg *config.Config) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK", "degraded": database.Degraded})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimiter())     // per-IP request cap
	api.Use(middleware.AuditMiddleware()) // capture client IP for audit trails

	// ========== Audit Log ==========
	auditRepo := auditlog.NewRepository(database.DB)
	auditSvc := auditlog.NewService(auditRepo)
	auditHandler := auditlog.NewHandler(auditSvc)

	// ========== Auth ==========
	authRepo := auth.NewRepository(database.DB)
	authSvc := auth.NewService(authRepo, cfg)
	authHandler := auth.NewHandler(authSvc)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.POST("/forgot-password", authHandler.ForgotPassword)
		authGroup.POST("/reset-password", authHandler.ResetPassword)
		authGroup.POST("/logout", middleware.AuthMiddleware(cfg, authSvc), authHandler.Logout)
		authGroup.GET("/me", middleware.AuthMiddleware(cfg, authSvc), authHandler.Me)
	}

	// ========== Events ==========
	eventRepo := event.NewRepository(database.DB)

	notifRepo := notification.NewRepository(database.DB)
	notifSvc := notification.NewService(notifRepo, eventLookup(eventRepo))

	// Per-user submission throttle, separate from the per-IP middleware cap.
	submitLimiter := ratelimit.New(cfg.SubmitMaxAttempts, cfg.SubmitWindow())

	eventSvc := event.NewService(eventRepo, authRepo, auditSvc, notifSvc, submitLimiter)
	eventHandler := event.NewHandler(eventSvc)

	// ========== RSVPs & Comments ==========
	rsvpRepo := rsvp.NewRepository(database.DB)
	rsvpSvc := rsvp.NewService(rsvpRepo, eventRepo, auditSvc)
	rsvpHandler := rsvp.NewHandler(rsvpSvc)

	commentRepo := comment.NewRepository(database.DB)
	commentSvc := comment.NewService(commentRepo, eventRepo, auditSvc)
	commentHandler := comment.NewHandler(commentSvc)

	// ========== Calendar export ==========
	calendarHandler := calendar.NewHandler(eventSvc)

	// ========== Public reads ==========
	api.GET("/events", eventHandler.List)
	api.GET("/events/upcoming", eventHandler.Upcoming)
	api.GET("/events/:id", eventHandler.Get)
	api.GET("/events/:id/comments", commentHandler.List)
	api.GET("/events/:id/rsvp/counts", rsvpHandler.Counts)
	api.GET("/calendar.ics", calendarHandler.Export)

	// ========== Authenticated ==========
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(cfg, authSvc))
	{
		protected.POST("/events", eventHandler.Submit)
		protected.PUT("/events/:id", eventHandler.Update)
		protected.DELETE("/events/:id", eventHandler.Delete)
		protected.PUT("/events/:id/rsvp", rsvpHandler.Toggle)
		protected.GET("/events/:id/rsvp", rsvpHandler.Mine)
		protected.POST("/events/:id/comments", commentHandler.Add)
		protected.GET("/users/me/events", eventHandler.MyEvents)

		notifHandler := notification.NewHandler(notifSvc)
		protected.GET("/notifications", notifHandler.List)
		protected.PATCH("/notifications/:id/read", notifHandler.MarkRead)
	}

	// ========== Admin ==========
	adminRepo := admin.NewRepository(database.DB)
	adminSvc := admin.NewService(adminRepo, auditSvc)
	adminHandler := admin.NewHandler(adminSvc)

	reportRepo := reports.NewReportRepository(database.DB)
	reportSvc := reports.NewReportService(reportRepo, reports.NewReportExporter(), auditSvc)
	reportHandler := reports.NewHandler(reportSvc)

	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(middleware.RequireAdmin())
	{
		adminRoutes.GET("/events/pending", eventHandler.ListPending)
		adminRoutes.PATCH("/events/:id/status", eventHandler.UpdateStatus)
		adminRoutes.POST("/events/import", eventHandler.Import)
		adminRoutes.GET("/events/stats", eventHandler.Stats)

		adminRoutes.GET("/users", adminHandler.ListUsers)
		adminRoutes.PATCH("/users/:id/status", adminHandler.UpdateUserStatus)
		adminRoutes.PATCH("/users/:id/admin", adminHandler.UpdateUserAdmin)

		adminRoutes.GET("/auditlogs", auditHandler.GetAuditLogs)
		adminRoutes.GET("/auditlogs/:id", auditHandler.GetAuditLogByID)

		adminRoutes.GET("/reports/events", reportHandler.Events)
		adminRoutes.GET("/reports/rsvps", reportHandler.RSVPs)
		adminRoutes.GET("/reports/:type/export", reportHandler.Export)
	}
}

// eventLookup adapts the event repository to the notification service's
// minimal view of an event.
func eventLookup(repo event.Repository) notification.EventLookup {
	return func(ctx context.Context, eventID uint) (*notification.EventInfo, error) {
		e, err := repo.GetByID(ctx, eventID)
		if err != nil {
			return nil, err
		}
		return &notification.EventInfo{
			Title:       e.Title,
			Status:      e.Status,
			SubmittedBy: e.SubmittedBy,
		}, nil
	}
}
