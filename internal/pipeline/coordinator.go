// internal/pipeline/coordinator.go
package pipeline

import (
	"context"
	"sync"
	"time"

	"notify-fanout/internal/common/errors"
	"notify-fanout/internal/common/logger"
	"notify-fanout/internal/common/metrics"
	"notify-fanout/internal/events"
	"notify-fanout/internal/push"
)

// Coordinator orchestrates one event occurrence: filter, resolve, then
// concurrent per-recipient delivery (store always, push best-effort). It
// holds process-wide clients injected once at startup.
type Coordinator struct {
	resolver *Resolver
	records  RecordAppender
	profiles ProfileReader
	push     PushSender
	logger   logger.Logger
}

func NewCoordinator(resolver *Resolver, records RecordAppender, profiles ProfileReader, pusher PushSender, log logger.Logger) *Coordinator {
	return &Coordinator{
		resolver: resolver,
		records:  records,
		profiles: profiles,
		push:     pusher,
		logger:   log.WithFields(map[string]interface{}{"component": "coordinator"}),
	}
}

// Dispatch runs one event to a terminal outcome. It never returns a hard
// failure: unexpected errors during resolution are converted into a clean
// drop so the at-least-once trigger infrastructure does not redeliver and
// duplicate in-app records.
func (c *Coordinator) Dispatch(ctx context.Context, evt events.Event) (out *Outcome) {
	start := time.Now()
	metrics.EventsReceived.WithLabelValues(evt.Kind()).Inc()

	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("dispatch panic recovered", map[string]interface{}{
				"kind":  evt.Kind(),
				"panic": r,
			})
			out = c.drop(DropReasonPanic)
		}
		metrics.DispatchDuration.WithLabelValues(evt.Kind()).Observe(time.Since(start).Seconds())
	}()

	if reason := filter(evt); reason != "" {
		return c.drop(reason)
	}

	res, err := c.resolver.Resolve(ctx, evt)
	if err != nil {
		c.logger.Error("recipient resolution failed", map[string]interface{}{
			"kind":  evt.Kind(),
			"error": err.Error(),
		})
		return c.drop(DropReasonResolveFailed)
	}
	if res == nil || len(res.Recipients) == 0 {
		return c.drop(DropReasonNoRecipient)
	}

	deliveries := make([]Delivery, len(res.Recipients))
	var wg sync.WaitGroup
	for i, userID := range res.Recipients {
		wg.Add(1)
		go func(i int, userID string) {
			defer wg.Done()
			defer func() {
				// One recipient's failure never cancels its siblings.
				if r := recover(); r != nil {
					c.logger.Error("recipient delivery panic recovered", map[string]interface{}{
						"userId": userID,
						"panic":  r,
					})
					deliveries[i] = Delivery{UserID: userID, Push: push.ResultFailed}
				}
			}()
			deliveries[i] = c.deliver(ctx, evt, res, userID)
		}(i, userID)
	}
	wg.Wait()

	return &Outcome{Status: StatusCompleted, Deliveries: deliveries}
}

// deliver runs one recipient branch: compose, store (always), push
// (conditional). The in-app write is attempted before push and its failure
// never blocks the push attempt.
func (c *Coordinator) deliver(ctx context.Context, evt events.Event, res *Resolution, userID string) Delivery {
	content := Compose(evt, res)
	delivery := Delivery{UserID: userID, Push: push.ResultSkipped}

	if err := c.records.Append(ctx, userID, content); err != nil {
		se := errors.NewRecordWriteFailedError(userID, err)
		c.logger.Error("in-app notification write failed", map[string]interface{}{
			"userId": userID,
			"type":   content.Type,
			"code":   string(se.Code),
			"error":  err.Error(),
		})
		metrics.NotificationStoreFailures.Inc()
	} else {
		delivery.Stored = true
		metrics.NotificationsStored.WithLabelValues(content.Type).Inc()
	}

	profile, err := c.profiles.GetProfile(ctx, userID)
	if err != nil {
		c.logger.Warn("recipient profile lookup failed, skipping push", map[string]interface{}{
			"userId": userID,
			"error":  err.Error(),
		})
		profile = nil
	}
	delivery.Push = c.push.Dispatch(ctx, profile, content)

	return delivery
}

func (c *Coordinator) drop(reason string) *Outcome {
	metrics.EventsDropped.WithLabelValues(reason).Inc()
	c.logger.Debug("event dropped", map[string]interface{}{"reason": reason})
	return &Outcome{Status: StatusDropped, DropReason: reason}
}

// filter applies the pre-dispatch validation rules: unsupported action
// subtypes and invalid match cardinality drop before any side effect.
func filter(evt events.Event) string {
	switch e := evt.(type) {
	case events.ActionEvent:
		if e.Type != events.ActionLike && e.Type != events.ActionSuperlike {
			return DropReasonFiltered
		}
	case events.MatchEvent:
		if len(e.UserIDs) != 2 {
			return DropReasonMalformed
		}
	}
	return ""
}
