package handlers

import (
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

// --------------------------------------------------
// Clinic-local parsing of request values
// --------------------------------------------------

func parseDateTimeField(clock *timezone.Clock, field, value string) (time.Time, error) {
	t, err := clock.ParseDateTime(value)
	if err != nil {
		return time.Time{}, httperr.ErrBusinessMsg(
			httperr.CodeValidation,
			field+" must look like 2006-01-02T15:04",
		)
	}
	return t, nil
}

// parseOptionalDate reads a YYYY-MM-DD query value. Empty means unset.
func parseOptionalDate(clock *timezone.Clock, field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := clock.ParseDate(value)
	if err != nil {
		return nil, httperr.ErrBusinessMsg(
			httperr.CodeValidation,
			field+" must look like 2006-01-02",
		)
	}
	return &t, nil
}
