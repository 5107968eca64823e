package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// ErrNotFound is returned by repositories when a row does not exist.
var ErrNotFound = errors.New("record not found")

type ListFilter struct {
	DoctorID  string
	PatientID string
	Status    Status
	From      *time.Time
	To        *time.Time
}

type Repository interface {
	// -------- Users --------
	GetActiveDoctor(
		ctx context.Context,
		doctorID string,
	) (*models.User, error)

	GetUser(
		ctx context.Context,
		userID string,
	) (*models.User, error)

	// -------- Availability --------
	GetScheduleEntry(
		ctx context.Context,
		doctorID string,
		dayOfWeek int,
	) (*models.DoctorSchedule, error)

	ListUnavailabilityAt(
		ctx context.Context,
		doctorID string,
		at time.Time,
	) ([]models.DoctorUnavailability, error)

	ListUnavailabilityBetween(
		ctx context.Context,
		doctorID string,
		from time.Time,
		to time.Time,
	) ([]models.DoctorUnavailability, error)

	// -------- Appointment (create / conflict) --------
	CountActiveAt(
		ctx context.Context,
		doctorID string,
		start time.Time,
	) (int64, error)

	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Appointment (read / state change) --------
	GetAppointment(
		ctx context.Context,
		appointmentID string,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	ListAppointments(
		ctx context.Context,
		filter ListFilter,
	) ([]models.Appointment, error)

	ListActiveForPeriod(
		ctx context.Context,
		doctorID string,
		from time.Time,
		to time.Time,
	) ([]models.Appointment, error)
}

// ScheduleRepository is the doctor-owned side: weekly hours and
// unavailability windows.
type ScheduleRepository interface {
	ListSchedule(ctx context.Context, doctorID string) ([]models.DoctorSchedule, error)
	ReplaceSchedule(ctx context.Context, doctorID string, entries []models.DoctorSchedule) error

	ListUnavailability(ctx context.Context, doctorID string) ([]models.DoctorUnavailability, error)
	CreateUnavailability(ctx context.Context, u *models.DoctorUnavailability) error
	DeleteUnavailability(ctx context.Context, doctorID string, id uint) error
}
