package appointment

import (
	"context"
	"errors"
	"time"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

// GetAvailability lists the free slots of one doctor on one day. Slots
// are laid back to back from the start of the working day and must end
// by its close; the break, unavailability windows and the full duration
// of existing bookings are skipped.
type GetAvailability struct {
	repo            domain.Repository
	defaultDuration int
}

func NewGetAvailability(repo domain.Repository, defaultDuration int) *GetAvailability {
	if defaultDuration <= 0 {
		defaultDuration = 30
	}
	return &GetAvailability{repo: repo, defaultDuration: defaultDuration}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) ([]domain.TimeSlot, error) {

	if _, err := uc.repo.GetActiveDoctor(ctx, in.DoctorID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.ErrBusinessMsg(httperr.CodeDoctorNotFound, "doctor not found or inactive")
		}
		return nil, err
	}

	minutes := in.DurationMinutes
	if minutes < 0 {
		return nil, httperr.ErrBusinessMsg(httperr.CodeValidation, "duration must be positive")
	}
	if minutes == 0 {
		minutes = uc.defaultDuration
	}
	slotDuration := time.Duration(minutes) * time.Minute

	day := timezone.StartOfDay(in.Date)

	wh, err := uc.repo.GetScheduleEntry(ctx, in.DoctorID, int(day.Weekday()))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return []domain.TimeSlot{}, nil
		}
		return nil, err
	}

	startSec, err1 := domain.ParseClock(wh.StartTime)
	endSec, err2 := domain.ParseClock(wh.EndTime)
	if err1 != nil || err2 != nil {
		return []domain.TimeSlot{}, nil
	}
	dayStart := domain.AtClock(day, startSec)
	dayEnd := domain.AtClock(day, endSec)

	var busy []interval

	if wh.BreakStart != "" && wh.BreakEnd != "" {
		bs, err1 := domain.ParseClock(wh.BreakStart)
		be, err2 := domain.ParseClock(wh.BreakEnd)
		if err1 == nil && err2 == nil {
			busy = append(busy, interval{domain.AtClock(day, bs), domain.AtClock(day, be)})
		}
	}

	windows, err := uc.repo.ListUnavailabilityBetween(ctx, in.DoctorID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	for _, w := range windows {
		busy = append(busy, interval{w.StartDateTime, w.EndDateTime})
	}

	appointments, err := uc.repo.ListActiveForPeriod(ctx, in.DoctorID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	for _, ap := range appointments {
		busy = append(busy, interval{ap.StartDateTime, ap.EndsAt()})
	}

	slots := []domain.TimeSlot{}

	for cur := dayStart; !cur.Add(slotDuration).After(dayEnd); cur = cur.Add(slotDuration) {
		slot := interval{cur, cur.Add(slotDuration)}

		free := true
		for _, b := range busy {
			if slot.overlaps(b) {
				free = false
				break
			}
		}

		if free {
			slots = append(slots, domain.TimeSlot{
				Start: slot.start.Format("15:04"),
				End:   slot.end.Format("15:04"),
			})
		}
	}

	return slots, nil
}

type interval struct {
	start time.Time
	end   time.Time
}

func (a interval) overlaps(b interval) bool {
	return a.start.Before(b.end) && a.end.After(b.start)
}
