package appointment

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/notification"
)

func TestCreate_SuccessfulBooking(t *testing.T) {
	f := newFixture(t, fixtureOpts{slotGuard: true})

	ap := f.book(t, f.patient, at(10, 0))

	assert.NotEmpty(t, ap.ID)
	assert.Equal(t, string(domain.StatusScheduled), ap.Status)
	assert.Equal(t, 30, ap.DurationMinutes)
	assert.Equal(t, DefaultType, ap.Type)
	assert.Equal(t, f.patient.ID, ap.PatientID)
	assert.Equal(t, f.patient.ID, ap.CreatedByID)

	f.notifier.AssertCalled(t, "Notify", mock.MatchedBy(func(m notification.Message) bool {
		return m.Kind == notification.KindAppointmentBooked && m.To == f.patient.Email
	}))
	assert.Equal(t, []string{"appointment_created"}, f.audit.actions())
	assert.Equal(t, 1, f.observer.bookings["created"])
}

func TestCreate_OutsideHours(t *testing.T) {
	f := newFixture(t, fixtureOpts{slotGuard: true})

	for _, start := range []time.Time{at(18, 0), at(8, 59)} {
		_, err := f.create.Execute(t.Context(), CreateAppointmentInput{
			Actor:         actorOf(f.patient),
			DoctorID:      f.doctor.ID,
			StartDateTime: start,
		})
		assert.True(t, httperr.IsBusiness(err, httperr.CodeDoctorUnavailable), "start %s", start)
	}
	assert.Equal(t, 2, f.observer.bookings[httperr.CodeDoctorUnavailable])
	f.notifier.AssertNotCalled(t, "Notify", mock.Anything)
}

func TestCreate_NoScheduleForWeekday(t *testing.T) {
	f := newFixture(t, fixtureOpts{slotGuard: true})

	// Tuesday has no entry.
	_, err := f.create.Execute(t.Context(), CreateAppointmentInput{
		Actor:         actorOf(f.patient),
		DoctorID:      f.doctor.ID,
		StartDateTime: at(10, 0).AddDate(0, 0, 1),
	})
	require.Error(t, err)
	be, ok := httperr.AsBusiness(err)
	require.True(t, ok)
	assert.Equal(t, httperr.CodeDoctorUnavailable, be.Code)
	assert.Equal(t, "no working hours configured for this day", be.Message)
}

func TestCreate_StartAtClosingTimeIsAccepted(t *testing.T) {
	f := newFixture(t, fixtureOpts{slotGuard: true})

	ap := f.book(t, f.patient, at(17, 0))
	assert.Equal(t, at(17, 30), ap.EndsAt())
}

func TestCreate_BoundedEndRejectsOverrun(t *testing.T) {
	f := newFixture(t, fixtureOpts{slotGuard: true, boundEnd: true})

	_, err := f.create.Execute(t.Context(), CreateAppointmentInput{
		Actor:         actorOf(f.patient),
		DoctorID:      f.doctor.ID,
		StartDateTime: at(16, 45),
	})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeDoctorUnavailable))

	// Overlapping the break from before it starts.
	_, err = f.create.Execute(t.Context(), CreateAppointmentInput{
		Actor:         actorOf(f.patient),
		DoctorID:      f.doctor.ID,
		StartDateTime: at(11, 45),
	})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeDoctorUnavailable))
}

func TestCreate_DuringBreak(t *testing.T) {
	f := newFixture(t, fixtureOpts{slotGuard: true})

	_, err := f.create.Execute(t.Context(), CreateAppointmentInput{
		Actor:         actorOf(f.patient),
		DoctorID:      f.doctor.ID,
		StartDateTime: at(12, 30),
	})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeDoctorUnavailable))

	// Break end is exclusive.
	f.book(t, f.patient, at(13, 0))
}

func TestCreate_UnavailabilityOverride(t *testing.T) {
	f := newFixture(t, fixtureOpts{slotGuard: true})

	require.NoError(t, f.db.Create(&models.DoctorUnavailability{
		DoctorID:      f.doctor.ID,
		StartDateTime: at(14, 0),
		EndDateTime:   at(15, 0),
		Reason:        "conference",
	}).Error)

	_, err := f.create.Execute(t.Context(), CreateAppointmentInput{
		Actor:         actorOf(f.patient),
		DoctorID:      f.doctor.ID,
		StartDateTime: at(14, 30),
	})
	require.Error(t, err)
	be, _ := httperr.AsBusiness(err)
	assert.Equal(t, httperr.CodeDoctorUnavailable, be.Code)
	assert.Equal(t, "marked unavailable", be.Message)

	// Window end is exclusive.
	f.book(t, f.patient, at(15, 0))
}

func TestCreate_DoctorNotFound(t *testing.T) {
	f := newFixture(t, fixtureOpts{slotGuard: true})

	require.NoError(t, f.db.Model(f.stranger).Update("active", false).Error)

	for _, id := range []string{"missing", f.stranger.ID, f.patient2.ID} {
		_, err := f.create.Execute(t.Context(), CreateAppointmentInput{
			Actor:         actorOf(f.patient),
			DoctorID:      id,
			StartDateTime: at(10, 0),
		})
		assert.True(t, httperr.IsBusiness(err, httperr.CodeDoctorNotFound), id)
	}
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture(t, fixtureOpts{slotGuard: true})

	cases := []CreateAppointmentInput{
		{Actor: actorOf(f.patient), StartDateTime: at(10, 0)},
		{Actor: actorOf(f.patient), DoctorID: f.doctor.ID},
		{Actor: actorOf(f.patient), DoctorID: f.doctor.ID, StartDateTime: at(10, 0), DurationMinutes: -5},
	}
	for _, in := range cases {
		_, err := f.create.Execute(t.Context(), in)
		assert.True(t, httperr.IsBusiness(err, httperr.CodeValidation))
	}
}

func TestCreate_ExactSlotConflict(t *testing.T) {
	f := newFixture(t, fixtureOpts{slotGuard: true})

	f.book(t, f.patient, at(10, 0))

	_, err := f.create.Execute(t.Context(), CreateAppointmentInput{
		Actor:         actorOf(f.patient2),
		DoctorID:      f.doctor.ID,
		StartDateTime: at(10, 0),
	})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeSlotTaken))

	// Matching is on the exact timestamp, not the interval.
	f.book(t, f.patient2, at(10, 15))
}

func TestCreate_NoShowStillHoldsSlot(t *testing.T) {
	f := newFixture(t, fixtureOpts{slotGuard: true})

	ap := f.book(t, f.patient, at(10, 0))
	_, err := f.update.Execute(t.Context(), UpdateStatusInput{
		Actor:         actorOf(f.doctor),
		AppointmentID: ap.ID,
		Status:        "no_show",
	})
	require.NoError(t, err)

	_, err = f.create.Execute(t.Context(), CreateAppointmentInput{
		Actor:         actorOf(f.patient2),
		DoctorID:      f.doctor.ID,
		StartDateTime: at(10, 0),
	})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeSlotTaken))
}

func TestCreate_CancellationFreesSlot(t *testing.T) {
	f := newFixture(t, fixtureOpts{slotGuard: true})

	ap := f.book(t, f.patient, at(10, 0))

	_, err := f.update.Execute(t.Context(), UpdateStatusInput{
		Actor:              actorOf(f.patient),
		AppointmentID:      ap.ID,
		Status:             "cancelled",
		CancellationReason: "patient request",
	})
	require.NoError(t, err)

	again := f.book(t, f.patient2, at(10, 0))
	assert.NotEqual(t, ap.ID, again.ID)
}

func TestCreate_OnBehalfOfPatient(t *testing.T) {
	f := newFixture(t, fixtureOpts{slotGuard: true})

	ap, err := f.create.Execute(t.Context(), CreateAppointmentInput{
		Actor:         actorOf(f.admin),
		PatientID:     f.patient.ID,
		DoctorID:      f.doctor.ID,
		StartDateTime: at(11, 0),
		Type:          "follow-up",
	})
	require.NoError(t, err)
	assert.Equal(t, f.patient.ID, ap.PatientID)
	assert.Equal(t, f.admin.ID, ap.CreatedByID)
	assert.Equal(t, "follow-up", ap.Type)

	// Patients cannot book for someone else.
	ap, err = f.create.Execute(t.Context(), CreateAppointmentInput{
		Actor:         actorOf(f.patient2),
		PatientID:     f.patient.ID,
		DoctorID:      f.doctor.ID,
		StartDateTime: at(11, 30),
	})
	require.NoError(t, err)
	assert.Equal(t, f.patient2.ID, ap.PatientID)

	_, err = f.create.Execute(t.Context(), CreateAppointmentInput{
		Actor:         actorOf(f.doctor),
		PatientID:     f.stranger.ID,
		DoctorID:      f.doctor.ID,
		StartDateTime: at(14, 0),
	})
	assert.True(t, httperr.IsBusiness(err, httperr.CodePatientNotFound))
}

// Without the index two bookings that both pass the conflict check
// before either insert commits are both stored.
func TestCreate_RaceWithoutGuard(t *testing.T) {
	f := newFixture(t, fixtureOpts{slotGuard: false})
	ctx := t.Context()

	for _, p := range []*models.User{f.patient, f.patient2} {
		require.NoError(t, f.conflictFree(ctx, p, at(10, 0)))
	}

	n, err := f.repo.CountActiveAt(ctx, f.doctor.ID, at(10, 0))
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestCreate_RaceWithGuard(t *testing.T) {
	f := newFixture(t, fixtureOpts{slotGuard: true})
	ctx := t.Context()

	require.NoError(t, f.conflictFree(ctx, f.patient, at(10, 0)))
	err := f.conflictFree(ctx, f.patient2, at(10, 0))
	assert.True(t, httperr.IsBusiness(err, httperr.CodeSlotTaken))
}

func TestCreate_ConcurrentSameSlot(t *testing.T) {
	f := newFixture(t, fixtureOpts{slotGuard: true})

	var wg sync.WaitGroup
	errs := make([]error, 4)
	patients := []*models.User{f.patient, f.patient2, f.patient, f.patient2}

	for i := range patients {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.create.Execute(t.Context(), CreateAppointmentInput{
				Actor:         actorOf(patients[i]),
				DoctorID:      f.doctor.ID,
				StartDateTime: at(10, 0),
			})
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.True(t, httperr.IsBusiness(err, httperr.CodeSlotTaken), err)
	}
	assert.Equal(t, 1, ok)
}
