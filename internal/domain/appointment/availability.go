package appointment

import (
	"fmt"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type AvailabilityInput struct {
	DoctorID        string
	Date            time.Time
	DurationMinutes int
}

type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ParseClock turns "HH:MM" into seconds since midnight.
func ParseClock(hm string) (int, error) {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q", hm)
	}
	return t.Hour()*3600 + t.Minute()*60, nil
}

func secondsOfDay(t time.Time) int {
	return t.Hour()*3600 + t.Minute()*60 + t.Second()
}

// AtClock places seconds-of-day on the civil date of day.
func AtClock(day time.Time, sec int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location()).
		Add(time.Duration(sec) * time.Second)
}

func unavailable(msg string) error {
	return httperr.ErrBusinessMsg(httperr.CodeDoctorUnavailable, msg)
}

// CheckWorkingHours validates start against one weekday entry. Only the
// start edge is bounded (start <= endTime) unless boundEnd is set, in
// which case start+duration must also fit.
func CheckWorkingHours(
	entry *models.DoctorSchedule,
	start time.Time,
	duration time.Duration,
	boundEnd bool,
) error {

	if entry == nil {
		return unavailable("no working hours configured for this day")
	}

	workStart, err := ParseClock(entry.StartTime)
	if err != nil {
		return unavailable("no working hours configured for this day")
	}
	workEnd, err := ParseClock(entry.EndTime)
	if err != nil {
		return unavailable("no working hours configured for this day")
	}

	tod := secondsOfDay(start)
	end := tod + int(duration/time.Second)

	if tod < workStart || tod > workEnd {
		return unavailable("outside working hours")
	}
	if boundEnd && end > workEnd {
		return unavailable("appointment would end after working hours")
	}

	if entry.BreakStart != "" && entry.BreakEnd != "" {
		breakStart, err1 := ParseClock(entry.BreakStart)
		breakEnd, err2 := ParseClock(entry.BreakEnd)
		if err1 == nil && err2 == nil {
			inBreak := tod >= breakStart && tod < breakEnd
			if boundEnd {
				inBreak = tod < breakEnd && end > breakStart
			}
			if inBreak {
				return unavailable("during break")
			}
		}
	}

	return nil
}

// CheckUnavailability fails when start falls in any [start, end) window.
func CheckUnavailability(windows []models.DoctorUnavailability, start time.Time) error {
	for _, w := range windows {
		if !start.Before(w.StartDateTime) && start.Before(w.EndDateTime) {
			return unavailable("marked unavailable")
		}
	}
	return nil
}

// ValidateScheduleEntry checks a doctor-supplied weekday entry.
func ValidateScheduleEntry(e models.DoctorSchedule) error {
	invalid := func(msg string) error {
		return httperr.ErrBusinessMsg(httperr.CodeValidation, msg)
	}

	if e.DayOfWeek < 0 || e.DayOfWeek > 6 {
		return invalid("dayOfWeek must be between 0 and 6")
	}

	start, err := ParseClock(e.StartTime)
	if err != nil {
		return invalid(err.Error())
	}
	end, err := ParseClock(e.EndTime)
	if err != nil {
		return invalid(err.Error())
	}
	if start >= end {
		return invalid("startTime must be before endTime")
	}

	if (e.BreakStart == "") != (e.BreakEnd == "") {
		return invalid("breakStart and breakEnd must be set together")
	}
	if e.BreakStart != "" {
		bs, err := ParseClock(e.BreakStart)
		if err != nil {
			return invalid(err.Error())
		}
		be, err := ParseClock(e.BreakEnd)
		if err != nil {
			return invalid(err.Error())
		}
		if bs >= be || bs < start || be > end {
			return invalid("break must lie inside working hours")
		}
	}

	return nil
}
