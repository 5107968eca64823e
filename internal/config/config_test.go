package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_BookingDefaults(t *testing.T) {
	t.Setenv("SLOT_UNIQUE_GUARD", "")
	t.Setenv("STRICT_STATUS_TRANSITIONS", "")
	t.Setenv("BOUND_APPOINTMENT_END", "")
	t.Setenv("DEFAULT_DURATION_MINUTES", "")

	cfg := Load()

	assert.False(t, cfg.Booking.SlotUniqueGuard)
	assert.False(t, cfg.Booking.StrictTransitions)
	assert.False(t, cfg.Booking.BoundAppointmentEnd)
	assert.Equal(t, 30, cfg.Booking.DefaultDurationMinutes)
}

func TestLoad_BookingOverrides(t *testing.T) {
	t.Setenv("SLOT_UNIQUE_GUARD", "true")
	t.Setenv("STRICT_STATUS_TRANSITIONS", "1")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("CORS_ORIGINS", "https://a.test, https://b.test")

	cfg := Load()

	assert.True(t, cfg.Booking.SlotUniqueGuard)
	assert.True(t, cfg.Booking.StrictTransitions)
	assert.Equal(t, 2.5, cfg.RateLimitRPS)
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.CORSOrigins)
}
