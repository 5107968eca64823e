package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
)

// AuditSink is satisfied by *audit.Dispatcher.
type AuditSink interface {
	Dispatch(ev audit.Event)
}

func writeAudit(
	sink AuditSink,
	actorID string,
	action string,
	entity string,
	entityID string,
	meta any,
) {
	if sink == nil {
		return
	}
	sink.Dispatch(audit.Event{
		ActorID:  actorID,
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Metadata: meta,
	})
}

// fail writes err and logs anything that is not a business error.
func fail(c *gin.Context, log logrus.FieldLogger, err error) {
	if httperr.Respond(c, err) {
		return
	}
	log.WithError(err).WithFields(logrus.Fields{
		"request_id": c.GetString(middleware.ContextRequestID),
		"path":       c.FullPath(),
	}).Error("request failed")
}

func invalidBody(c *gin.Context, err error) {
	httperr.BadRequest(c, httperr.CodeValidation, err.Error())
}
