package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
	"github.com/BruksfildServices01/clinic-scheduler/internal/usecase/schedule"
)

// ScheduleHandler serves the calling doctor's own week and time off.
type ScheduleHandler struct {
	svc   *schedule.Service
	clock *timezone.Clock
	log   logrus.FieldLogger
}

func NewScheduleHandler(svc *schedule.Service, clock *timezone.Clock, log logrus.FieldLogger) *ScheduleHandler {
	return &ScheduleHandler{svc: svc, clock: clock, log: log}
}

type WorkingDayConfig struct {
	DayOfWeek  int    `json:"dayOfWeek" binding:"min=0,max=6"`
	Active     *bool  `json:"active"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
	BreakStart string `json:"breakStart"`
	BreakEnd   string `json:"breakEnd"`
}

type WorkingHoursUpdateRequest struct {
	Days []WorkingDayConfig `json:"days" binding:"required,dive"`
}

type UnavailabilityRequest struct {
	StartDateTime string `json:"startDateTime" binding:"required"`
	EndDateTime   string `json:"endDateTime" binding:"required"`
	Reason        string `json:"reason" binding:"max=255"`
}

func (h *ScheduleHandler) Get(c *gin.Context) {
	doctorID := middleware.CurrentActor(c).ID

	week, err := h.svc.Week(c.Request.Context(), doctorID)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"days": week})
}

// Update replaces the week. Days sent with "active": false are dropped and
// become days off, like days that are not sent at all.
func (h *ScheduleHandler) Update(c *gin.Context) {
	doctorID := middleware.CurrentActor(c).ID

	var req WorkingHoursUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	entries := make([]models.DoctorSchedule, 0, len(req.Days))
	for _, d := range req.Days {
		if d.Active != nil && !*d.Active {
			continue
		}
		entries = append(entries, models.DoctorSchedule{
			DayOfWeek:  d.DayOfWeek,
			StartTime:  d.StartTime,
			EndTime:    d.EndTime,
			BreakStart: d.BreakStart,
			BreakEnd:   d.BreakEnd,
		})
	}

	week, err := h.svc.ReplaceWeek(c.Request.Context(), doctorID, entries)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"days": week})
}

// --------------------------------------------------
// Unavailability
// --------------------------------------------------

func (h *ScheduleHandler) ListUnavailability(c *gin.Context) {
	windows, err := h.svc.Unavailability(c.Request.Context(), middleware.CurrentActor(c).ID)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	httpresp.List(c, windows)
}

func (h *ScheduleHandler) AddUnavailability(c *gin.Context) {
	var req UnavailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	start, err := parseDateTimeField(h.clock, "startDateTime", req.StartDateTime)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	end, err := parseDateTimeField(h.clock, "endDateTime", req.EndDateTime)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	w, err := h.svc.AddUnavailability(c.Request.Context(), middleware.CurrentActor(c).ID, start, end, req.Reason)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	httpresp.Created(c, w)
}

func (h *ScheduleHandler) RemoveUnavailability(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.Respond(c, httperr.ErrBusiness(httperr.CodeWindowNotFound))
		return
	}

	if err := h.svc.RemoveUnavailability(c.Request.Context(), middleware.CurrentActor(c).ID, uint(id)); err != nil {
		fail(c, h.log, err)
		return
	}

	c.Status(http.StatusNoContent)
}
