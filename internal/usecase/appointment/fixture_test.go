package appointment

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/db/dbtest"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/clinic-scheduler/internal/logger"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/notification"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

// Monday.
var day = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

func at(hh, mm int) time.Time {
	return day.Add(time.Duration(hh)*time.Hour + time.Duration(mm)*time.Minute)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(msg notification.Message) {
	m.Called(msg)
}

type recordingAudit struct {
	mu     sync.Mutex
	events []audit.Event
}

func (r *recordingAudit) Dispatch(ev audit.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recordingAudit) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Action)
	}
	return out
}

type countingObserver struct {
	mu       sync.Mutex
	bookings map[string]int
	statuses map[string]int
}

func newCountingObserver() *countingObserver {
	return &countingObserver{bookings: map[string]int{}, statuses: map[string]int{}}
}

func (o *countingObserver) BookingResult(result string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.bookings[result]++
}

func (o *countingObserver) StatusTransition(status string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.statuses[status]++
}

type fixture struct {
	db    *gorm.DB
	repo  *repository.AppointmentGormRepository
	clock *timezone.Clock

	notifier *MockNotifier
	audit    *recordingAudit
	observer *countingObserver

	doctor   *models.User
	patient  *models.User
	patient2 *models.User
	admin    *models.User
	stranger *models.User

	create *CreateAppointment
	update *UpdateStatus
}

type fixtureOpts struct {
	slotGuard bool
	strict    bool
	boundEnd  bool
}

func newFixture(t *testing.T, opts fixtureOpts) *fixture {
	t.Helper()

	db := dbtest.New(t, opts.slotGuard)
	repo := repository.NewAppointmentGormRepository(db)
	clock := timezone.NewClock("UTC").WithNow(func() time.Time { return at(8, 0) })

	f := &fixture{
		db:       db,
		repo:     repo,
		clock:    clock,
		notifier: new(MockNotifier),
		audit:    &recordingAudit{},
		observer: newCountingObserver(),
	}
	f.notifier.On("Notify", mock.Anything).Return()

	f.doctor = f.user(t, "Dr House", models.RoleDoctor)
	f.patient = f.user(t, "Ana", models.RolePatient)
	f.patient2 = f.user(t, "Bruno", models.RolePatient)
	f.admin = f.user(t, "Root", models.RoleAdmin)
	f.stranger = f.user(t, "Dr Other", models.RoleDoctor)

	require.NoError(t, db.Create(&models.DoctorSchedule{
		DoctorID:   f.doctor.ID,
		DayOfWeek:  int(time.Monday),
		StartTime:  "09:00",
		EndTime:    "17:00",
		BreakStart: "12:00",
		BreakEnd:   "13:00",
	}).Error)

	log := logger.Discard()

	f.create = NewCreateAppointment(
		repo,
		NewAvailabilityResolver(repo, opts.boundEnd),
		NewConflictChecker(repo),
		f.notifier,
		f.audit,
		f.observer,
		log,
		30,
	)
	f.update = NewUpdateStatus(
		repo,
		domain.TransitionPolicy{Strict: opts.strict},
		clock,
		f.notifier,
		f.audit,
		f.observer,
		log,
	)

	return f
}

func (f *fixture) user(t *testing.T, name, role string) *models.User {
	t.Helper()
	u := &models.User{
		Name:         name,
		Email:        strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@clinic.test",
		PasswordHash: "x",
		Role:         role,
		Active:       true,
	}
	require.NoError(t, f.db.Create(u).Error)
	return u
}

func actorOf(u *models.User) domain.Actor {
	return domain.Actor{ID: u.ID, Role: domain.Role(u.Role)}
}

func (f *fixture) book(t *testing.T, patient *models.User, start time.Time) *models.Appointment {
	t.Helper()
	ap, err := f.create.Execute(t.Context(), CreateAppointmentInput{
		Actor:         actorOf(patient),
		DoctorID:      f.doctor.ID,
		StartDateTime: start,
	})
	require.NoError(t, err)
	return ap
}

// staleRepo reports every slot as free, as a concurrent request that
// ran its conflict check before the other insert committed would see.
type staleRepo struct {
	*repository.AppointmentGormRepository
}

func (staleRepo) CountActiveAt(context.Context, string, time.Time) (int64, error) {
	return 0, nil
}

func (f *fixture) conflictFree(ctx context.Context, patient *models.User, start time.Time) error {
	stale := staleRepo{f.repo}
	uc := NewCreateAppointment(
		f.repo,
		NewAvailabilityResolver(f.repo, false),
		NewConflictChecker(stale),
		nil,
		nil,
		nil,
		logger.Discard(),
		30,
	)
	_, err := uc.Execute(ctx, CreateAppointmentInput{
		Actor:         actorOf(patient),
		DoctorID:      f.doctor.ID,
		StartDateTime: start,
	})
	return err
}
