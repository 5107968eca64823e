package db_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/clinic-scheduler/internal/db/dbtest"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

func seedAppointment(status string, start time.Time) *models.Appointment {
	return &models.Appointment{
		PatientID:       "pat",
		DoctorID:        "doc",
		StartDateTime:   start,
		DurationMinutes: 30,
		Status:          status,
		CreatedByID:     "pat",
	}
}

func TestSlotIndex_RejectsSecondActiveBooking(t *testing.T) {
	db := dbtest.New(t, true)
	start := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

	require.NoError(t, db.Create(seedAppointment("scheduled", start)).Error)

	err := db.Create(seedAppointment("scheduled", start)).Error
	require.Error(t, err)
	assert.True(t, httperr.IsUniqueViolation(err), "got %v", err)
}

func TestSlotIndex_IgnoresCancelledRows(t *testing.T) {
	db := dbtest.New(t, true)
	start := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

	require.NoError(t, db.Create(seedAppointment("cancelled", start)).Error)
	require.NoError(t, db.Create(seedAppointment("cancelled", start)).Error)
	require.NoError(t, db.Create(seedAppointment("scheduled", start)).Error)
}

func TestSlotIndex_Disabled(t *testing.T) {
	db := dbtest.New(t, false)
	start := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

	require.NoError(t, db.Create(seedAppointment("scheduled", start)).Error)
	require.NoError(t, db.Create(seedAppointment("scheduled", start)).Error)
}
