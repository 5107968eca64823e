package db

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// SlotIndexName guards (doctor_id, start_date_time) for non-cancelled rows.
const SlotIndexName = "ux_appointments_doctor_slot"

func NewDB(cfg *config.Config, log *logrus.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), GormConfig())
	if err != nil {
		return nil, fmt.Errorf("gorm open: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("db.DB(): %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	log.WithField("component", "db").Info("database connected")
	return db, nil
}

// GormConfig is shared by the postgres connection and the sqlite test
// databases so both translate unique violations the same way.
func GormConfig() *gorm.Config {
	return &gorm.Config{
		PrepareStmt:    true,
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	}
}

// Migrate creates or updates every table. When slotGuard is on it also
// installs the partial unique index that makes a second booking of the
// same doctor/timestamp fail at insert time.
func Migrate(db *gorm.DB, slotGuard bool) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.DoctorSchedule{},
		&models.DoctorUnavailability{},
		&models.Appointment{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}

	if !slotGuard {
		return db.Exec("DROP INDEX IF EXISTS " + SlotIndexName).Error
	}

	return db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS ` + SlotIndexName + `
		ON appointments (doctor_id, start_date_time)
		WHERE status <> 'cancelled'
	`).Error
}
