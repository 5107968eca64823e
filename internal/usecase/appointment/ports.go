package appointment

import (
	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
)

// AuditSink is satisfied by *audit.Dispatcher.
type AuditSink interface {
	Dispatch(ev audit.Event)
}

// Observer is satisfied by *metrics.Metrics.
type Observer interface {
	BookingResult(result string)
	StatusTransition(status string)
}

type noopObserver struct{}

func (noopObserver) BookingResult(string)    {}
func (noopObserver) StatusTransition(string) {}

func observerOrNoop(o Observer) Observer {
	if o == nil {
		return noopObserver{}
	}
	return o
}

type noopAudit struct{}

func (noopAudit) Dispatch(audit.Event) {}

func auditOrNoop(a AuditSink) AuditSink {
	if a == nil {
		return noopAudit{}
	}
	return a
}
