package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/clinic-scheduler/internal/db"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	infraRepo "github.com/BruksfildServices01/clinic-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/clinic-scheduler/internal/logger"
	"github.com/BruksfildServices01/clinic-scheduler/internal/metrics"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/notification"
	"github.com/BruksfildServices01/clinic-scheduler/internal/ratelimit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/routes"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "clinic-scheduler",
		Short:         "Clinic appointment scheduling API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(createUserCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// ======================================================
// serve
// ======================================================

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
}

func runServer(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg := config.Load()
	log := logger.New(cfg.LogLevel)

	if !timezone.IsValid(cfg.ClinicTimezone) {
		return fmt.Errorf("invalid CLINIC_TIMEZONE %q", cfg.ClinicTimezone)
	}

	db, err := dbpkg.NewDB(cfg, log)
	if err != nil {
		return err
	}
	if err := dbpkg.Migrate(db, cfg.Booking.SlotUniqueGuard); err != nil {
		return err
	}

	limiter, redisClient, err := ratelimit.NewFromURL(ctx, cfg.RedisURL, cfg.RateLimitRPS, cfg.RateLimitBurst)
	if err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	m := metrics.New()

	var sink notification.Sink
	if cfg.SMTPEnabled() {
		sink = notification.NewSMTPSink(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom)
	} else {
		sink = notification.NewLogSink(log)
	}
	notifier := notification.NewDispatcher(sink, log, m, cfg.NotifyQueueSize)

	auditLog := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLog, log, cfg.NotifyQueueSize)

	if strings.EqualFold(cfg.LogLevel, "debug") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	if err := routes.RegisterRoutes(r, routes.Deps{
		DB:       db,
		Config:   cfg,
		Log:      log,
		Clock:    timezone.NewClock(cfg.ClinicTimezone),
		Auth:     middleware.NewJWTAuthenticator(cfg.JWTSecret, cfg.JWTTTLHours),
		Limiter:  limiter,
		Notifier: notifier,
		Audit:    auditDispatcher,
		AuditLog: auditLog,
		Metrics:  m,
	}); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{
			"addr":     cfg.Addr(),
			"timezone": cfg.ClinicTimezone,
			"redis":    redisClient != nil,
			"smtp":     cfg.SMTPEnabled(),
		}).Info("server running")
		errCh <- srv.ListenAndServe()
	}()

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-sigCtx.Done():
		log.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("http shutdown")
	}
	if err := notifier.Close(shutdownCtx); err != nil {
		log.WithError(err).Warn("notification queue not drained")
	}
	if err := auditDispatcher.Close(shutdownCtx); err != nil {
		log.WithError(err).Warn("audit queue not drained")
	}

	return nil
}

// ======================================================
// migrate
// ======================================================

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			log := logger.New(cfg.LogLevel)

			db, err := dbpkg.NewDB(cfg, log)
			if err != nil {
				return err
			}
			if err := dbpkg.Migrate(db, cfg.Booking.SlotUniqueGuard); err != nil {
				return err
			}

			log.WithField("slot_guard", cfg.Booking.SlotUniqueGuard).Info("migrations applied")
			return nil
		},
	}
}

// ======================================================
// create-user
// ======================================================

// createUserCmd provisions doctors and admins, which cannot self-register.
func createUserCmd() *cobra.Command {
	var (
		name           string
		email          string
		password       string
		role           string
		phone          string
		specialization string
	)

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create a doctor, admin or patient account",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, ok := domain.ParseRole(role)
			if !ok {
				return fmt.Errorf("unknown role %q", role)
			}
			if len(password) < 6 {
				return errors.New("password must have at least 6 characters")
			}

			cfg := config.Load()
			log := logger.New(cfg.LogLevel)

			db, err := dbpkg.NewDB(cfg, log)
			if err != nil {
				return err
			}

			hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				return err
			}

			user := &models.User{
				Name:           name,
				Email:          strings.ToLower(strings.TrimSpace(email)),
				PasswordHash:   string(hashed),
				Phone:          phone,
				Role:           string(r),
				Specialization: specialization,
				Active:         true,
			}
			if err := infraRepo.NewUserGormRepository(db).Create(cmd.Context(), user); err != nil {
				return fmt.Errorf("create user: %w", err)
			}

			log.WithFields(logrus.Fields{"id": user.ID, "role": user.Role}).Info("user created")
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "full name")
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&password, "password", "", "initial password")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleDoctor), "patient, doctor or admin")
	cmd.Flags().StringVar(&phone, "phone", "", "contact phone")
	cmd.Flags().StringVar(&specialization, "specialization", "", "doctor specialization")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}
