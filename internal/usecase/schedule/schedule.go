package schedule

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type AuditSink interface {
	Dispatch(ev audit.Event)
}

// Service manages a doctor's own weekly hours and unavailability.
type Service struct {
	repo  domain.ScheduleRepository
	audit AuditSink
}

func NewService(repo domain.ScheduleRepository, audit AuditSink) *Service {
	return &Service{repo: repo, audit: audit}
}

func (s *Service) dispatch(ev audit.Event) {
	if s.audit != nil {
		s.audit.Dispatch(ev)
	}
}

// ======================================================
// Weekly hours
// ======================================================

func (s *Service) Week(ctx context.Context, doctorID string) ([]models.DoctorSchedule, error) {
	return s.repo.ListSchedule(ctx, doctorID)
}

// ReplaceWeek swaps the whole week in one go. Days missing from entries
// become days off.
func (s *Service) ReplaceWeek(
	ctx context.Context,
	doctorID string,
	entries []models.DoctorSchedule,
) ([]models.DoctorSchedule, error) {

	seen := make(map[int]bool, len(entries))
	clean := make([]models.DoctorSchedule, 0, len(entries))

	for _, e := range entries {
		if err := domain.ValidateScheduleEntry(e); err != nil {
			return nil, err
		}
		if seen[e.DayOfWeek] {
			return nil, httperr.ErrBusinessMsg(
				httperr.CodeValidation,
				fmt.Sprintf("dayOfWeek %d listed twice", e.DayOfWeek),
			)
		}
		seen[e.DayOfWeek] = true

		clean = append(clean, models.DoctorSchedule{
			DoctorID:   doctorID,
			DayOfWeek:  e.DayOfWeek,
			StartTime:  e.StartTime,
			EndTime:    e.EndTime,
			BreakStart: e.BreakStart,
			BreakEnd:   e.BreakEnd,
		})
	}

	sort.Slice(clean, func(i, j int) bool { return clean[i].DayOfWeek < clean[j].DayOfWeek })

	if err := s.repo.ReplaceSchedule(ctx, doctorID, clean); err != nil {
		return nil, err
	}

	s.dispatch(audit.Event{
		ActorID:  doctorID,
		Action:   "schedule_replaced",
		Entity:   "doctor_schedule",
		EntityID: doctorID,
		Metadata: map[string]int{"days": len(clean)},
	})

	return s.repo.ListSchedule(ctx, doctorID)
}

// ======================================================
// Unavailability
// ======================================================

func (s *Service) Unavailability(ctx context.Context, doctorID string) ([]models.DoctorUnavailability, error) {
	return s.repo.ListUnavailability(ctx, doctorID)
}

func (s *Service) AddUnavailability(
	ctx context.Context,
	doctorID string,
	start time.Time,
	end time.Time,
	reason string,
) (*models.DoctorUnavailability, error) {

	if start.IsZero() || end.IsZero() {
		return nil, httperr.ErrBusinessMsg(httperr.CodeValidation, "startDateTime and endDateTime are required")
	}
	if !end.After(start) {
		return nil, httperr.ErrBusinessMsg(httperr.CodeValidation, "endDateTime must be after startDateTime")
	}

	w := &models.DoctorUnavailability{
		DoctorID:      doctorID,
		StartDateTime: start,
		EndDateTime:   end,
		Reason:        reason,
	}
	if err := s.repo.CreateUnavailability(ctx, w); err != nil {
		return nil, err
	}

	s.dispatch(audit.Event{
		ActorID:  doctorID,
		Action:   "unavailability_added",
		Entity:   "doctor_unavailability",
		EntityID: fmt.Sprint(w.ID),
	})

	return w, nil
}

func (s *Service) RemoveUnavailability(ctx context.Context, doctorID string, id uint) error {
	if err := s.repo.DeleteUnavailability(ctx, doctorID, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return httperr.ErrBusiness(httperr.CodeWindowNotFound)
		}
		return err
	}

	s.dispatch(audit.Event{
		ActorID:  doctorID,
		Action:   "unavailability_removed",
		Entity:   "doctor_unavailability",
		EntityID: fmt.Sprint(id),
	})

	return nil
}
