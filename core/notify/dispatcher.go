package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/openrelief/missionmatch/core/events"
	"github.com/openrelief/missionmatch/core/logger"
	"github.com/openrelief/missionmatch/core/metrics"
	"github.com/openrelief/missionmatch/core/model"
	"github.com/openrelief/missionmatch/internal/eventbus"
)

// Outcome is the per-recipient result of a dispatch batch.
type Outcome struct {
	Recipient      model.Participant
	Language       string
	Translated     bool
	TranslationErr error
	Err            error
	Latency        time.Duration
}

// OK reports whether the notification was submitted to the queue.
func (o Outcome) OK() bool { return o.Err == nil }

// Dispatcher fans one message out to N recipients. Recipients are processed
// independently: a queue-submission failure for one never aborts the others.
type Dispatcher struct {
	queue       Queue
	translator  Translator
	parallelism int
	sink        metrics.Sink
	bus         eventbus.EventBus
	log         logger.Logger
}

// NewDispatcher creates a dispatcher submitting through the given queue.
// parallelism bounds concurrent queue submissions; values below one default
// to four.
func NewDispatcher(queue Queue, translator Translator, parallelism int, sink metrics.Sink, bus eventbus.EventBus, log logger.Logger) (*Dispatcher, error) {
	if queue == nil || translator == nil {
		return nil, fmt.Errorf("notify: nil parameter provided to NewDispatcher")
	}
	if parallelism < 1 {
		parallelism = 4
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Dispatcher{
		queue:       queue,
		translator:  translator,
		parallelism: parallelism,
		sink:        sink,
		bus:         bus,
		log:         log,
	}, nil
}

// Dispatch resolves each recipient's translation through a batch-scoped cache
// and enqueues one notification per recipient. The enqueued text is the
// translated text for non-default languages. The returned outcomes hold one
// entry per recipient in input order; errors are collected, never thrown at
// the first failure.
func (d *Dispatcher) Dispatch(ctx context.Context, missionID string, recipients []model.Participant, sourceMessage string) []Outcome {
	cache := NewCache(d.translator, sourceMessage)
	outcomes := make([]Outcome, len(recipients))

	var wg sync.WaitGroup
	sem := make(chan struct{}, d.parallelism)
	for i, r := range recipients {
		wg.Add(1)
		go func(i int, r model.Participant) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			outcomes[i] = d.send(ctx, missionID, r, cache)
		}(i, r)
	}
	wg.Wait()

	d.record(missionID, outcomes)
	return outcomes
}

// send resolves the text for one recipient and submits it to the queue.
func (d *Dispatcher) send(ctx context.Context, missionID string, r model.Participant, cache *Cache) Outcome {
	start := time.Now()
	text, translated, terr := cache.Get(ctx, r.Language)
	if terr != nil {
		// Fail open: the untranslated source is still dispatched.
		d.log.Warnf("translation to %s failed, sending untranslated: %v", r.Language, terr)
	}

	err := d.queue.Enqueue(ctx, model.OutgoingNotification{
		PhoneNumber: r.PhoneNumber,
		Message:     text,
	})
	latency := time.Since(start)
	if err != nil {
		enqueueFailures.Inc()
		d.log.Errorf("enqueue for %s failed: %v", r.PhoneNumber, err)
	} else {
		notificationsEnqueued.WithLabelValues(r.Language).Inc()
	}
	dispatchLatency.Observe(latency.Seconds())

	if d.bus != nil {
		d.bus.Publish(events.NotificationEvent{
			MissionID:   missionID,
			PhoneNumber: r.PhoneNumber,
			Language:    r.Language,
			Translated:  translated,
			Err:         err,
			Latency:     latency,
		})
	}
	return Outcome{
		Recipient:      r,
		Language:       r.Language,
		Translated:     translated,
		TranslationErr: terr,
		Err:            err,
		Latency:        latency,
	}
}

// record persists batch outcomes through the metrics sink.
func (d *Dispatcher) record(missionID string, outcomes []Outcome) {
	recs := make([]metrics.NotificationResult, 0, len(outcomes))
	now := time.Now()
	for _, o := range outcomes {
		recs = append(recs, metrics.NotificationResult{
			MissionID:   missionID,
			PhoneNumber: o.Recipient.PhoneNumber,
			Language:    o.Language,
			Translated:  o.Translated,
			Enqueued:    o.Err == nil,
			Latency:     o.Latency,
			Time:        now,
		})
	}
	if err := d.sink.RecordNotificationResult(recs); err != nil {
		d.log.Errorf("metrics error: %v", err)
	}
}
