package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/booking-saas/internal/config"
	"github.com/BruksfildServices01/booking-saas/internal/handlers"
	"github.com/BruksfildServices01/booking-saas/internal/infra/lock"
	infraRepo "github.com/BruksfildServices01/booking-saas/internal/infra/repository"
	"github.com/BruksfildServices01/booking-saas/internal/metrics"
	"github.com/BruksfildServices01/booking-saas/internal/middleware"
	"github.com/BruksfildServices01/booking-saas/internal/models"
	"github.com/BruksfildServices01/booking-saas/internal/storage"
	ucAppointment "github.com/BruksfildServices01/booking-saas/internal/usecase/appointment"
)

// Deps are the process-wide singletons built by cmd/api.
type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	Log      *zap.Logger
	Locker   lock.Locker
	Audit    handlers.Auditor
	Notifier ucAppointment.Notifier
	// Uploader may be nil when S3 is not configured.
	Uploader storage.Uploader
	Limiter  *middleware.RateLimiter
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// MIDDLEWARE
	// ======================================================
	r.Use(
		middleware.RequestID(),
		middleware.AccessLog(d.Log),
		metrics.Middleware(),
		middleware.CORSMiddleware(d.Config.AllowedOrigins()),
	)

	limited := func(c *gin.Context) { c.Next() }
	if d.Limiter != nil {
		limited = d.Limiter.Middleware()
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", metrics.Handler())

	// ======================================================
	// INFRA
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(d.DB)
	settingsRepo := infraRepo.NewSettingsGormRepository(d.DB)

	locker := d.Locker
	if locker == nil {
		locker = lock.NewLocalLocker()
	}

	ucDeps := ucAppointment.Deps{
		Repo:     appointmentRepo,
		Locker:   locker,
		Audit:    d.Audit,
		Notifier: d.Notifier,
		Log:      d.Log,
	}

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(d.DB, d.Config)
	meHandler := handlers.NewMeHandler(d.DB)
	businessHandler := handlers.NewBusinessHandler(d.DB, d.Audit, d.Uploader)
	serviceHandler := handlers.NewServiceHandler(d.DB, d.Audit)
	customerHandler := handlers.NewCustomerHandler(d.DB, d.Audit)
	settingsHandler := handlers.NewSettingsHandler(settingsRepo, d.Audit)
	appointmentHandler := handlers.NewAppointmentHandler(ucDeps)
	reviewHandler := handlers.NewReviewHandler(d.DB, d.Audit)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.DB)

	adminOnly := middleware.RequireRole(models.RoleAdmin)

	// ======================================================
	// API
	// ======================================================
	api := r.Group("/api")
	{
		api.POST("/auth/register", limited, authHandler.Register)
		api.POST("/auth/login", limited, authHandler.Login)

		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(d.Config))
		{
			secured.GET("/users/me", meHandler.GetMe)
			secured.PUT("/users/me", meHandler.UpdateMe)

			secured.GET("/business", businessHandler.Get)
			secured.PUT("/business", adminOnly, businessHandler.Update)
			secured.POST("/business/registration-code", adminOnly, businessHandler.RegenerateCode)
			secured.POST("/business/logo", adminOnly, businessHandler.UploadLogo)

			secured.GET("/settings", settingsHandler.Get)
			secured.PUT("/settings", adminOnly, settingsHandler.Update)

			secured.GET("/services", serviceHandler.List)
			secured.GET("/services/:id", serviceHandler.Get)
			secured.POST("/services", adminOnly, serviceHandler.Create)
			secured.PUT("/services/:id", adminOnly, serviceHandler.Update)
			secured.DELETE("/services/:id", adminOnly, serviceHandler.Delete)

			customers := secured.Group("/customers", adminOnly)
			{
				customers.GET("", customerHandler.List)
				customers.POST("", customerHandler.Create)
				customers.GET("/:id", customerHandler.Get)
				customers.PUT("/:id", customerHandler.Update)
				customers.DELETE("/:id", customerHandler.Delete)
			}

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.GET("/availability", appointmentHandler.Availability)
			secured.GET("/appointments", appointmentHandler.List)
			secured.GET("/appointments/:id", appointmentHandler.Get)
			secured.POST("/appointments", limited, appointmentHandler.Create)
			secured.PUT("/appointments/:id", limited, appointmentHandler.Update)
			secured.DELETE("/appointments/:id", adminOnly, appointmentHandler.Delete)

			secured.GET("/reviews", reviewHandler.List)
			secured.GET("/reviews/:id", reviewHandler.Get)
			secured.POST("/reviews", reviewHandler.Create)
			secured.PUT("/reviews/:id", reviewHandler.Update)
			secured.DELETE("/reviews/:id", reviewHandler.Delete)

			secured.GET("/audit-logs", adminOnly, auditLogsHandler.List)
		}
	}
}
