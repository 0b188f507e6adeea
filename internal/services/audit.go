package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/MYK-OTAKU/Template-sub000/domain"
)

const auditDispatchTimeout = 5 * time.Second

// auditDispatcher writes events to the sink off the critical path. A sink
// failure is logged and swallowed: it must never surface into the error
// channel of the operation that produced the event.
type auditDispatcher struct {
	sink domain.AuditSink
	log  *logrus.Logger
}

func newAuditDispatcher(sink domain.AuditSink, log *logrus.Logger) *auditDispatcher {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &auditDispatcher{sink: sink, log: log}
}

// dispatch hands the event to the sink in the background. The request context
// is deliberately not reused: the write should outlive a cancelled request.
func (d *auditDispatcher) dispatch(event *domain.AuditEvent) {
	if d.sink == nil || event == nil {
		return
	}
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				d.log.WithField("action", event.Action).Errorf("audit sink panic: %v", rec)
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), auditDispatchTimeout)
		defer cancel()
		if err := d.sink.Append(ctx, event); err != nil {
			d.log.WithFields(logrus.Fields{
				"action":  event.Action,
				"outcome": event.Outcome,
			}).WithError(err).Error("audit append failed")
		}
	}()
}
