// Package app wires the matching engine from its configuration.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/openrelief/missionmatch/config"
	"github.com/openrelief/missionmatch/core/events"
	"github.com/openrelief/missionmatch/core/geo"
	"github.com/openrelief/missionmatch/core/match"
	coremetrics "github.com/openrelief/missionmatch/core/metrics"
	"github.com/openrelief/missionmatch/core/notify"
	"github.com/openrelief/missionmatch/core/phrase"
	"github.com/openrelief/missionmatch/core/session"
	"github.com/openrelief/missionmatch/core/store"
	"github.com/openrelief/missionmatch/core/workflow"
	"github.com/openrelief/missionmatch/infra/logger"
	"github.com/openrelief/missionmatch/infra/memstore"
	"github.com/openrelief/missionmatch/infra/metrics"
	"github.com/openrelief/missionmatch/infra/queue"
	"github.com/openrelief/missionmatch/infra/redisstore"
	"github.com/openrelief/missionmatch/infra/translate"
	"github.com/openrelief/missionmatch/internal/eventbus"
)

// DataStore combines the mission store and session store capabilities the
// engine needs from its backing service.
type DataStore interface {
	store.Store
	store.ParticipantWriter
	session.Store
}

// Service orchestrates the intake and presentation workflows.
type Service struct {
	Store        DataStore
	Intake       *workflow.Intake
	Presentation *workflow.Presentation
	Runner       *workflow.Runner
	Queue        notify.Queue

	bus         eventbus.EventBus
	sink        coremetrics.Sink
	log         logger.Logger
	promPort    string
	redisClient *redis.Client
	mqttQueue   *queue.MQTTQueue
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	svc := &Service{log: logg, promPort: cfg.PrometheusPort}

	if cfg.Redis.URL != "" {
		client, err := redisstore.NewClient(cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("redis client: %w", err)
		}
		st, err := redisstore.New(client, cfg.Redis, logger.New("redisstore"))
		if err != nil {
			return nil, err
		}
		svc.redisClient = client
		svc.Store = st
	} else {
		logg.Warnf("no redis URL configured, using in-memory store")
		svc.Store = memstore.New()
	}

	if cfg.Queue.Broker != "" {
		q, err := queue.NewMQTTQueue(cfg.Queue, logger.New("queue"))
		if err != nil {
			return nil, fmt.Errorf("mqtt queue: %w", err)
		}
		svc.mqttQueue = q
		svc.Queue = q
	} else {
		logg.Warnf("no broker configured, using in-memory queue")
		svc.Queue = queue.NewMockQueue()
	}

	translator := translate.NewClient(cfg.Translator, logger.New("translator"))
	if !translator.IsConfigured() {
		logg.Warnf("translation service not configured, messages go out untranslated")
	}

	sink, err := coremetrics.NewSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	svc.sink = sink

	bus := eventbus.New()
	svc.bus = bus

	geoIndex, err := geo.NewIndex(svc.Store, logger.New("geo"))
	if err != nil {
		return nil, err
	}
	aggregator, err := match.NewAggregator(svc.Store, logger.New("match"))
	if err != nil {
		return nil, err
	}
	dispatcher, err := notify.NewDispatcher(svc.Queue, translator, cfg.Match.DispatchParallelism, sink, bus, logger.New("dispatch"))
	if err != nil {
		return nil, err
	}

	render := phrase.Catalog{}
	svc.Intake, err = workflow.NewIntake(svc.Store, geoIndex, dispatcher, render, cfg.Match.RadiusMiles, bus, logger.New("intake"))
	if err != nil {
		return nil, err
	}
	svc.Presentation, err = workflow.NewPresentation(geoIndex, aggregator, svc.Store, svc.Store, render, cfg.Match.RadiusMiles, bus, logger.New("presentation"))
	if err != nil {
		return nil, err
	}
	svc.Runner = workflow.NewRunner(logger.New("runner"))
	return svc, nil
}

// Run starts the background servers and blocks until the context is
// cancelled.
func (s *Service) Run(ctx context.Context) error {
	if s.promPort != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	go s.forwardAssignments(ctx)
	<-ctx.Done()
	return nil
}

// forwardAssignments relays assignment outcomes from the bus to sinks able
// to record them.
func (s *Service) forwardAssignments(ctx context.Context) {
	recorder, ok := s.sink.(coremetrics.AssignmentRecorder)
	if !ok {
		return
	}
	sub := s.bus.Subscribe()
	defer s.bus.Unsubscribe(sub)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, open := <-sub:
			if !open {
				return
			}
			assign, ok := ev.(events.AssignEvent)
			if !ok {
				continue
			}
			err := recorder.RecordAssignment(coremetrics.AssignmentEvent{
				MissionID:   assign.MissionID,
				ResponderID: assign.ResponderID,
				Outcome:     assign.Outcome,
				Time:        time.Now(),
			})
			if err != nil {
				s.log.Errorf("record assignment: %v", err)
			}
		}
	}
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if s.mqttQueue != nil {
		s.mqttQueue.Disconnect()
	}
	if s.bus != nil {
		s.bus.Close()
	}
	if s.redisClient != nil {
		return s.redisClient.Close()
	}
	return nil
}
