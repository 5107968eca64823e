package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}

// --------------------------------------------------
// Users
// --------------------------------------------------

func (r *AppointmentGormRepository) GetActiveDoctor(
	ctx context.Context,
	doctorID string,
) (*models.User, error) {

	var doctor models.User
	if err := r.db.WithContext(ctx).
		Where("id = ? AND role = ? AND active = ?", doctorID, models.RoleDoctor, true).
		First(&doctor).Error; err != nil {
		return nil, notFound(err)
	}
	return &doctor, nil
}

func (r *AppointmentGormRepository) GetUser(
	ctx context.Context,
	userID string,
) (*models.User, error) {

	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// --------------------------------------------------
// Availability
// --------------------------------------------------

func (r *AppointmentGormRepository) GetScheduleEntry(
	ctx context.Context,
	doctorID string,
	dayOfWeek int,
) (*models.DoctorSchedule, error) {

	var entry models.DoctorSchedule
	if err := r.db.WithContext(ctx).
		Where("doctor_id = ? AND day_of_week = ?", doctorID, dayOfWeek).
		First(&entry).Error; err != nil {
		return nil, notFound(err)
	}
	return &entry, nil
}

func (r *AppointmentGormRepository) ListUnavailabilityAt(
	ctx context.Context,
	doctorID string,
	at time.Time,
) ([]models.DoctorUnavailability, error) {

	var windows []models.DoctorUnavailability
	if err := r.db.WithContext(ctx).
		Where(
			"doctor_id = ? AND start_date_time <= ? AND end_date_time > ?",
			doctorID, at, at,
		).
		Find(&windows).Error; err != nil {
		return nil, err
	}
	return windows, nil
}

func (r *AppointmentGormRepository) ListUnavailabilityBetween(
	ctx context.Context,
	doctorID string,
	from time.Time,
	to time.Time,
) ([]models.DoctorUnavailability, error) {

	var windows []models.DoctorUnavailability
	if err := r.db.WithContext(ctx).
		Where(
			"doctor_id = ? AND start_date_time < ? AND end_date_time > ?",
			doctorID, to, from,
		).
		Order("start_date_time ASC").
		Find(&windows).Error; err != nil {
		return nil, err
	}
	return windows, nil
}

// --------------------------------------------------
// Appointment (create / conflict)
// --------------------------------------------------

// CountActiveAt counts bookings at exactly start that still hold the slot.
func (r *AppointmentGormRepository) CountActiveAt(
	ctx context.Context,
	doctorID string,
	start time.Time,
) (int64, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where(
			"doctor_id = ? AND start_date_time = ? AND status <> ?",
			doctorID, start, string(domain.StatusCancelled),
		).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Omit("Patient", "Doctor").Create(ap).Error
}

// --------------------------------------------------
// Appointment (read / state change)
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	appointmentID string,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Patient").
		Preload("Doctor").
		First(&ap, "id = ?", appointmentID).Error; err != nil {
		return nil, notFound(err)
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Omit("Patient", "Doctor").Save(ap).Error
}

func (r *AppointmentGormRepository) ListAppointments(
	ctx context.Context,
	f domain.ListFilter,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Preload("Patient").
		Preload("Doctor")

	if f.DoctorID != "" {
		q = q.Where("doctor_id = ?", f.DoctorID)
	}
	if f.PatientID != "" {
		q = q.Where("patient_id = ?", f.PatientID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}
	if f.From != nil {
		q = q.Where("start_date_time >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("start_date_time < ?", *f.To)
	}

	var apps []models.Appointment
	if err := q.Order("start_date_time ASC").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *AppointmentGormRepository) ListActiveForPeriod(
	ctx context.Context,
	doctorID string,
	from time.Time,
	to time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Select("id", "start_date_time", "duration_minutes", "status").
		Where(
			"doctor_id = ? AND status <> ? AND start_date_time >= ? AND start_date_time < ?",
			doctorID, string(domain.StatusCancelled), from, to,
		).
		Order("start_date_time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
