package handlers

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

// AuditReader is satisfied by *audit.Logger.
type AuditReader interface {
	List(ctx context.Context, f audit.ListFilter) ([]models.AuditLog, int64, error)
}

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	logs  AuditReader
	clock *timezone.Clock
	log   logrus.FieldLogger
}

func NewAuditLogsHandler(logs AuditReader, clock *timezone.Clock, log logrus.FieldLogger) *AuditLogsHandler {
	return &AuditLogsHandler{logs: logs, clock: clock, log: log}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	from, err := parseOptionalDate(h.clock, "from", c.Query("from"))
	if err != nil {
		fail(c, h.log, err)
		return
	}
	to, err := parseOptionalDate(h.clock, "to", c.Query("to"))
	if err != nil {
		fail(c, h.log, err)
		return
	}
	if to != nil {
		// whole day
		end := to.AddDate(0, 0, 1)
		to = &end
	}

	logs, total, err := h.logs.List(c.Request.Context(), audit.ListFilter{
		ActorID:  c.Query("actorId"),
		Action:   c.Query("action"),
		Entity:   c.Query("entity"),
		EntityID: c.Query("entityId"),
		From:     from,
		To:       to,
		Limit:    limit,
		Offset:   (page - 1) * limit,
	})
	if err != nil {
		fail(c, h.log, err)
		return
	}

	httpresp.Page(c, logs, total, page, limit)
}
