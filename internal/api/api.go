// Package api implements the HTTP API for the audit service.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/goseo/internal/api/middleware"
	"github.com/jonesrussell/goseo/internal/auth"
	"github.com/jonesrussell/goseo/internal/config"
	"github.com/jonesrussell/goseo/internal/dispatch"
	"github.com/jonesrussell/goseo/internal/domain"
	"github.com/jonesrussell/goseo/internal/logger"
	"github.com/jonesrussell/goseo/internal/metrics"
)

// UserStore defines the user operations the handlers need.
type UserStore interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Overview(ctx context.Context) ([]domain.UserOverview, error)
}

// ProjectStore defines the project operations the handlers need. GetOwned
// returns the not-found sentinel for foreign projects as well.
type ProjectStore interface {
	Create(ctx context.Context, project *domain.Project) error
	GetOwned(ctx context.Context, id, userID string) (*domain.Project, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Project, error)
}

// AuditStore defines the audit operations the handlers need.
type AuditStore interface {
	Create(ctx context.Context, audit *domain.AuditResult) error
	GetOwned(ctx context.Context, id, userID string) (*domain.AuditResult, error)
	HistoryByProject(ctx context.Context, projectID string, limit int) ([]domain.HistoryEntry, error)
	LatestCompletedByProject(ctx context.Context, projectID string) (*domain.AuditResult, error)
}

// ScheduleStore defines the schedule operations the handlers need.
type ScheduleStore interface {
	Create(ctx context.Context, schedule *domain.Schedule) error
	ListByUser(ctx context.Context, userID string) ([]domain.Schedule, error)
}

const (
	readHeaderTimeout = 10 * time.Second // Timeout for reading headers

	// historyLimit caps the score history returned per project.
	historyLimit = 20
)

// Deps bundles the collaborators behind the HTTP surface.
type Deps struct {
	Users      UserStore
	Projects   ProjectStore
	Audits     AuditStore
	Schedules  ScheduleStore
	Dispatcher dispatch.Dispatcher
	JWT        *auth.JWTManager
	Counters   *metrics.Metrics
}

// SetupRouter creates and configures the Gin router with all routes.
func SetupRouter(log logger.Interface, cfg *config.Config, deps Deps) *gin.Engine {
	// Disable Gin's default logging
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware())

	authHandler := NewAuthHandler(deps.Users, deps.JWT, log)
	projectHandler := NewProjectHandler(deps.Projects, deps.Audits, log)
	auditHandler := NewAuditHandler(deps.Projects, deps.Audits, deps.Dispatcher, log)
	scheduleHandler := NewScheduleHandler(deps.Projects, deps.Schedules, log)
	adminHandler := NewAdminHandler(deps.Users, deps.Counters, log)

	// Public routes
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.POST("/auth/register", authHandler.Register)
	router.POST("/auth/login", authHandler.Login)

	// Report downloads sit outside the Bearer-only group: browsers cannot
	// attach headers to a download link, so the token is also accepted as a
	// query parameter.
	router.GET("/audits/:id/report.pdf", middleware.ReportAccess(deps.JWT), auditHandler.Report)

	startLimiter := middleware.NewPerUserLimiter(
		cfg.Audit.StartRatePerMinute,
		cfg.Audit.StartRateBurst,
	)

	protected := router.Group("")
	protected.Use(middleware.RequireAuth(deps.JWT))
	protected.POST("/projects", projectHandler.Create)
	protected.GET("/projects", projectHandler.List)
	protected.GET("/projects/:id/history", projectHandler.History)
	protected.GET("/projects/:id/actions", projectHandler.Actions)
	protected.POST("/audits/start", startLimiter.Middleware(), auditHandler.Start)
	protected.GET("/audits/:id/status", auditHandler.Status)
	protected.GET("/audits/:id/results", auditHandler.Results)
	protected.POST("/schedules", scheduleHandler.Create)
	protected.GET("/schedules", scheduleHandler.List)

	admin := protected.Group("/admin")
	admin.Use(middleware.RequireAdmin(cfg.Auth.AdminEmails))
	admin.GET("/overview", adminHandler.Overview)

	return router
}

// loggingMiddleware creates a middleware that logs HTTP requests
func loggingMiddleware(log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		statusCode := c.Writer.Status()

		log.Info("HTTP Request",
			"method", c.Request.Method,
			"path", path,
			"query", query,
			"status", statusCode,
			"latency", latency,
		)
	}
}

// corsMiddleware adds CORS headers to allow frontend access
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers",
			"Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, "+
				"Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
