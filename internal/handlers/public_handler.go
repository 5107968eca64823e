package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/dto"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type DoctorHandler struct {
	users        UserStore
	availability *ucAppointment.GetAvailability
	clock        *timezone.Clock
	log          logrus.FieldLogger
}

func NewDoctorHandler(
	users UserStore,
	availability *ucAppointment.GetAvailability,
	clock *timezone.Clock,
	log logrus.FieldLogger,
) *DoctorHandler {
	return &DoctorHandler{
		users:        users,
		availability: availability,
		clock:        clock,
		log:          log,
	}
}

// ======================================================
// LIST DOCTORS
// ======================================================

func (h *DoctorHandler) List(c *gin.Context) {
	doctors, err := h.users.ListActiveDoctors(c.Request.Context())
	if err != nil {
		fail(c, h.log, err)
		return
	}

	out := make([]dto.DoctorDTO, 0, len(doctors))
	for _, d := range doctors {
		out = append(out, dto.NewDoctorDTO(d))
	}

	httpresp.List(c, out)
}

// ======================================================
// AVAILABILITY
// ======================================================

func (h *DoctorHandler) Availability(c *gin.Context) {
	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, httperr.CodeValidation, "date is required (YYYY-MM-DD)")
		return
	}

	day, err := h.clock.ParseDate(dateStr)
	if err != nil {
		httperr.BadRequest(c, httperr.CodeValidation, "date must look like 2006-01-02")
		return
	}

	duration := 0
	if raw := c.Query("duration"); raw != "" {
		duration, err = strconv.Atoi(raw)
		if err != nil || duration <= 0 || duration > 480 {
			httperr.BadRequest(c, httperr.CodeValidation, "duration must be between 1 and 480 minutes")
			return
		}
	}

	slots, err := h.availability.Execute(c.Request.Context(), domain.AvailabilityInput{
		DoctorID:        c.Param("id"),
		Date:            day,
		DurationMinutes: duration,
	})
	if err != nil {
		fail(c, h.log, err)
		return
	}

	c.JSON(200, gin.H{
		"doctorId": c.Param("id"),
		"date":     dateStr,
		"slots":    slots,
	})
}
