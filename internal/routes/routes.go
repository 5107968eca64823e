package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/handlers"
	infraRepo "github.com/BruksfildServices01/clinic-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/clinic-scheduler/internal/metrics"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	"github.com/BruksfildServices01/clinic-scheduler/internal/notification"
	"github.com/BruksfildServices01/clinic-scheduler/internal/ratelimit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/usecase/schedule"
	"github.com/BruksfildServices01/clinic-scheduler/internal/validators"
)

// Deps are the long-lived collaborators owned by the caller. The caller
// also closes the dispatchers on shutdown.
type Deps struct {
	DB     *gorm.DB
	Config *config.Config
	Log    logrus.FieldLogger
	Clock  *timezone.Clock

	Auth     *middleware.JWTAuthenticator
	Limiter  ratelimit.Limiter
	Notifier notification.Notifier
	Audit    *audit.Dispatcher
	AuditLog *audit.Logger
	Metrics  *metrics.Metrics
}

func RegisterRoutes(r *gin.Engine, d Deps) error {
	cfg := d.Config

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(d.Log),
		middleware.CORSMiddleware(cfg.CORSOrigins),
		middleware.Metrics(d.Metrics),
	)

	// ======================================================
	// INFRA
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(d.DB)
	scheduleRepo := infraRepo.NewScheduleGormRepository(d.DB)
	userRepo := infraRepo.NewUserGormRepository(d.DB)

	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}

	// ======================================================
	// USE CASES - APPOINTMENTS
	// ======================================================
	createAppointmentUC := ucAppointment.NewCreateAppointment(
		appointmentRepo,
		ucAppointment.NewAvailabilityResolver(appointmentRepo, cfg.Booking.BoundAppointmentEnd),
		ucAppointment.NewConflictChecker(appointmentRepo),
		d.Notifier,
		d.Audit,
		d.Metrics,
		d.Log,
		cfg.Booking.DefaultDurationMinutes,
	)

	updateStatusUC := ucAppointment.NewUpdateStatus(
		appointmentRepo,
		domain.TransitionPolicy{Strict: cfg.Booking.StrictTransitions},
		d.Clock,
		d.Notifier,
		d.Audit,
		d.Metrics,
		d.Log,
	)

	getAppointmentUC := ucAppointment.NewGetAppointment(appointmentRepo)
	listAppointmentsUC := ucAppointment.NewListAppointments(appointmentRepo)
	updateNotesUC := ucAppointment.NewUpdateNotes(appointmentRepo, d.Clock, d.Audit)
	availabilityUC := ucAppointment.NewGetAvailability(appointmentRepo, cfg.Booking.DefaultDurationMinutes)

	scheduleSvc := schedule.NewService(scheduleRepo, d.Audit)

	// ======================================================
	// HANDLERS
	// ======================================================
	var emailChecker handlers.DomainChecker
	if cfg.VerifyEmailDomain {
		emailChecker = validators.NewEmailDomainChecker(nil)
	}

	authHandler := handlers.NewAuthHandler(userRepo, d.Auth, emailChecker, d.Audit, d.Log)
	meHandler := handlers.NewMeHandler(userRepo, d.Log)
	healthHandler := handlers.NewHealthHandler(sqlDB)

	appointmentHandler := handlers.NewAppointmentHandler(
		createAppointmentUC,
		updateStatusUC,
		getAppointmentUC,
		listAppointmentsUC,
		updateNotesUC,
		d.Clock,
		d.Log,
	)

	doctorHandler := handlers.NewDoctorHandler(userRepo, availabilityUC, d.Clock, d.Log)
	patientHandler := handlers.NewPatientHandler(userRepo, d.Log)
	scheduleHandler := handlers.NewScheduleHandler(scheduleSvc, d.Clock, d.Log)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.AuditLog, d.Clock, d.Log)

	// ======================================================
	// OPS
	// ======================================================
	r.GET("/health", healthHandler.Check)
	r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	// ======================================================
	// API (JSON)
	// ======================================================
	limit := middleware.RateLimit(d.Limiter, d.Metrics, d.Log)

	// ------------------------------
	// AUTH
	// ------------------------------
	auth := r.Group("/auth", limit)
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	// ------------------------------
	// PRIVATE
	// ------------------------------
	secured := r.Group("/")
	secured.Use(middleware.AuthMiddleware(d.Auth), limit)
	{
		secured.GET("/me", meHandler.GetMe)
		secured.PATCH("/me", meHandler.UpdateMe)

		secured.POST("/appointments", appointmentHandler.Create)
		secured.GET("/appointments", appointmentHandler.List)
		secured.GET("/appointments/:id", appointmentHandler.Get)
		secured.PATCH("/appointments/:id/status", appointmentHandler.UpdateStatus)
		secured.PATCH(
			"/appointments/:id/notes",
			middleware.RequireRole(domain.RoleDoctor, domain.RoleAdmin),
			appointmentHandler.UpdateNotes,
		)

		secured.GET("/doctors", doctorHandler.List)
		secured.GET("/doctors/:id/availability", doctorHandler.Availability)

		secured.GET(
			"/patients",
			middleware.RequireRole(domain.RoleDoctor, domain.RoleAdmin),
			patientHandler.List,
		)

		doctor := secured.Group("/me", middleware.RequireRole(domain.RoleDoctor))
		{
			doctor.GET("/schedule", scheduleHandler.Get)
			doctor.PUT("/schedule", scheduleHandler.Update)
			doctor.GET("/unavailability", scheduleHandler.ListUnavailability)
			doctor.POST("/unavailability", scheduleHandler.AddUnavailability)
			doctor.DELETE("/unavailability/:id", scheduleHandler.RemoveUnavailability)
		}

		admin := secured.Group("/admin", middleware.RequireRole(domain.RoleAdmin))
		{
			admin.GET("/audit-logs", auditLogsHandler.List)
		}
	}

	return nil
}
