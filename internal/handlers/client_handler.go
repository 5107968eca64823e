package handlers

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/clinic-scheduler/internal/dto"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// PatientSearcher is satisfied by *repository.UserGormRepository.
type PatientSearcher interface {
	SearchPatients(ctx context.Context, query string) ([]models.User, error)
}

// PatientHandler lets doctors and admins look up a patient to book for.
type PatientHandler struct {
	patients PatientSearcher
	log      logrus.FieldLogger
}

func NewPatientHandler(patients PatientSearcher, log logrus.FieldLogger) *PatientHandler {
	return &PatientHandler{patients: patients, log: log}
}

// ======================================================
// LIST PATIENTS (DOCTOR / ADMIN)
// ======================================================
func (h *PatientHandler) List(c *gin.Context) {
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	patients, err := h.patients.SearchPatients(c.Request.Context(), query)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	out := make([]dto.PatientDTO, 0, len(patients))
	for _, p := range patients {
		out = append(out, dto.NewPatientDTO(p))
	}

	httpresp.List(c, out)
}
