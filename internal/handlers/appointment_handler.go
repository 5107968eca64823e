package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	create *ucAppointment.CreateAppointment
	status *ucAppointment.UpdateStatus
	get    *ucAppointment.GetAppointment
	list   *ucAppointment.ListAppointments
	notes  *ucAppointment.UpdateNotes

	clock *timezone.Clock
	log   logrus.FieldLogger
}

func NewAppointmentHandler(
	create *ucAppointment.CreateAppointment,
	status *ucAppointment.UpdateStatus,
	get *ucAppointment.GetAppointment,
	list *ucAppointment.ListAppointments,
	notes *ucAppointment.UpdateNotes,
	clock *timezone.Clock,
	log logrus.FieldLogger,
) *AppointmentHandler {
	return &AppointmentHandler{
		create: create,
		status: status,
		get:    get,
		list:   list,
		notes:  notes,
		clock:  clock,
		log:    log,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	DoctorID            string `json:"doctorId" binding:"required"`
	AppointmentDateTime string `json:"appointmentDateTime" binding:"required"`
	Duration            int    `json:"duration" binding:"omitempty,min=1,max=480"`
	Type                string `json:"type" binding:"required,max=50"`
	Reason              string `json:"reason"`
	Symptoms            string `json:"symptoms"`
	PatientID           string `json:"patientId"`
}

type UpdateStatusRequest struct {
	Status             string `json:"status" binding:"required"`
	Notes              string `json:"notes"`
	CancellationReason string `json:"cancellationReason"`
}

type UpdateNotesRequest struct {
	Notes *string `json:"notes" binding:"required"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	start, err := parseDateTimeField(h.clock, "appointmentDateTime", req.AppointmentDateTime)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), ucAppointment.CreateAppointmentInput{
		Actor:           middleware.CurrentActor(c),
		PatientID:       req.PatientID,
		DoctorID:        req.DoctorID,
		StartDateTime:   start,
		DurationMinutes: req.Duration,
		Type:            req.Type,
		Reason:          req.Reason,
		Symptoms:        req.Symptoms,
	})
	if err != nil {
		fail(c, h.log, err)
		return
	}

	httpresp.Created(c, ap)
}

// ======================================================
// READ
// ======================================================

func (h *AppointmentHandler) List(c *gin.Context) {
	startDate, err := parseOptionalDate(h.clock, "startDate", c.Query("startDate"))
	if err != nil {
		fail(c, h.log, err)
		return
	}
	endDate, err := parseOptionalDate(h.clock, "endDate", c.Query("endDate"))
	if err != nil {
		fail(c, h.log, err)
		return
	}

	out, err := h.list.Execute(c.Request.Context(), ucAppointment.ListAppointmentsInput{
		Actor:     middleware.CurrentActor(c),
		DoctorID:  c.Query("doctorId"),
		PatientID: c.Query("patientId"),
		Status:    c.Query("status"),
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		fail(c, h.log, err)
		return
	}

	httpresp.List(c, out)
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	ap, err := h.get.Execute(c.Request.Context(), middleware.CurrentActor(c), c.Param("id"))
	if err != nil {
		fail(c, h.log, err)
		return
	}

	httpresp.OK(c, ap)
}

// ======================================================
// STATE CHANGES
// ======================================================

func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	ap, err := h.status.Execute(c.Request.Context(), ucAppointment.UpdateStatusInput{
		Actor:              middleware.CurrentActor(c),
		AppointmentID:      c.Param("id"),
		Status:             req.Status,
		Notes:              req.Notes,
		CancellationReason: req.CancellationReason,
	})
	if err != nil {
		fail(c, h.log, err)
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) UpdateNotes(c *gin.Context) {
	var req UpdateNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	ap, err := h.notes.Execute(c.Request.Context(), middleware.CurrentActor(c), c.Param("id"), *req.Notes)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	httpresp.OK(c, ap)
}
