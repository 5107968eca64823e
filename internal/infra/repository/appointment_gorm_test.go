package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/db/dbtest"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

func seedUser(t *testing.T, db *gorm.DB, role string, active bool) *models.User {
	t.Helper()
	u := &models.User{
		Name:         role,
		Email:        role + "-" + time.Now().Format("150405.000000000") + "@clinic.test",
		PasswordHash: "x",
		Role:         role,
		Active:       true,
	}
	require.NoError(t, db.Create(u).Error)
	if !active {
		require.NoError(t, db.Model(u).Update("active", false).Error)
		u.Active = false
	}
	return u
}

func TestAppointmentRepo_GetActiveDoctor(t *testing.T) {
	db := dbtest.New(t, true)
	repo := NewAppointmentGormRepository(db)
	ctx := context.Background()

	doc := seedUser(t, db, models.RoleDoctor, true)
	inactive := seedUser(t, db, models.RoleDoctor, false)
	patient := seedUser(t, db, models.RolePatient, true)

	got, err := repo.GetActiveDoctor(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.ID, got.ID)

	_, err = repo.GetActiveDoctor(ctx, inactive.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = repo.GetActiveDoctor(ctx, patient.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = repo.GetActiveDoctor(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAppointmentRepo_CountActiveAt(t *testing.T) {
	db := dbtest.New(t, false)
	repo := NewAppointmentGormRepository(db)
	ctx := context.Background()

	doc := seedUser(t, db, models.RoleDoctor, true)
	pat := seedUser(t, db, models.RolePatient, true)
	start := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

	create := func(status string, at time.Time) {
		require.NoError(t, repo.CreateAppointment(ctx, &models.Appointment{
			PatientID:       pat.ID,
			DoctorID:        doc.ID,
			StartDateTime:   at,
			DurationMinutes: 30,
			Status:          status,
			CreatedByID:     pat.ID,
		}))
	}

	create("cancelled", start)
	n, err := repo.CountActiveAt(ctx, doc.ID, start)
	require.NoError(t, err)
	assert.Zero(t, n)

	create("scheduled", start)
	create("no_show", start)
	// Overlapping but not identical start does not count.
	create("scheduled", start.Add(15*time.Minute))

	n, err = repo.CountActiveAt(ctx, doc.ID, start)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestAppointmentRepo_GetAndUpdate(t *testing.T) {
	db := dbtest.New(t, true)
	repo := NewAppointmentGormRepository(db)
	ctx := context.Background()

	doc := seedUser(t, db, models.RoleDoctor, true)
	pat := seedUser(t, db, models.RolePatient, true)

	ap := &models.Appointment{
		PatientID:       pat.ID,
		DoctorID:        doc.ID,
		StartDateTime:   time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC),
		DurationMinutes: 30,
		Status:          "scheduled",
		Type:            "consultation",
		CreatedByID:     pat.ID,
	}
	require.NoError(t, repo.CreateAppointment(ctx, ap))
	require.NotEmpty(t, ap.ID)

	got, err := repo.GetAppointment(ctx, ap.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Doctor)
	require.NotNil(t, got.Patient)
	assert.Equal(t, doc.Email, got.Doctor.Email)
	assert.Equal(t, pat.Email, got.Patient.Email)

	got.Status = "cancelled"
	got.CancellationReason = "patient request"
	require.NoError(t, repo.UpdateAppointment(ctx, got))

	again, err := repo.GetAppointment(ctx, ap.ID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", again.Status)
	assert.Equal(t, "patient request", again.CancellationReason)

	_, err = repo.GetAppointment(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAppointmentRepo_ListAppointments(t *testing.T) {
	db := dbtest.New(t, true)
	repo := NewAppointmentGormRepository(db)
	ctx := context.Background()

	doc1 := seedUser(t, db, models.RoleDoctor, true)
	doc2 := seedUser(t, db, models.RoleDoctor, true)
	pat := seedUser(t, db, models.RolePatient, true)

	day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	mk := func(doctor string, at time.Time, status string) {
		require.NoError(t, repo.CreateAppointment(ctx, &models.Appointment{
			PatientID: pat.ID, DoctorID: doctor, StartDateTime: at,
			DurationMinutes: 30, Status: status, CreatedByID: pat.ID,
		}))
	}
	mk(doc1.ID, day.Add(11*time.Hour), "scheduled")
	mk(doc1.ID, day.Add(9*time.Hour), "completed")
	mk(doc2.ID, day.Add(10*time.Hour), "scheduled")
	mk(doc1.ID, day.AddDate(0, 0, 1).Add(9*time.Hour), "scheduled")

	apps, err := repo.ListAppointments(ctx, domain.ListFilter{DoctorID: doc1.ID})
	require.NoError(t, err)
	require.Len(t, apps, 3)
	assert.True(t, apps[0].StartDateTime.Before(apps[1].StartDateTime))

	to := day.AddDate(0, 0, 1)
	apps, err = repo.ListAppointments(ctx, domain.ListFilter{DoctorID: doc1.ID, From: &day, To: &to})
	require.NoError(t, err)
	assert.Len(t, apps, 2)

	apps, err = repo.ListAppointments(ctx, domain.ListFilter{PatientID: pat.ID, Status: domain.StatusScheduled})
	require.NoError(t, err)
	assert.Len(t, apps, 3)
}

func TestAppointmentRepo_Unavailability(t *testing.T) {
	db := dbtest.New(t, true)
	repo := NewAppointmentGormRepository(db)
	sched := NewScheduleGormRepository(db)
	ctx := context.Background()

	doc := seedUser(t, db, models.RoleDoctor, true)
	from := time.Date(2025, 6, 2, 14, 0, 0, 0, time.UTC)
	to := from.Add(time.Hour)

	require.NoError(t, sched.CreateUnavailability(ctx, &models.DoctorUnavailability{
		DoctorID: doc.ID, StartDateTime: from, EndDateTime: to, Reason: "conference",
	}))

	hits, err := repo.ListUnavailabilityAt(ctx, doc.ID, from.Add(30*time.Minute))
	require.NoError(t, err)
	assert.Len(t, hits, 1)

	hits, err = repo.ListUnavailabilityAt(ctx, doc.ID, to)
	require.NoError(t, err)
	assert.Empty(t, hits)

	dayStart := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	hits, err = repo.ListUnavailabilityBetween(ctx, doc.ID, dayStart, dayStart.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}
