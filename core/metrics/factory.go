package metrics

import "github.com/openrelief/missionmatch/core/factory"

var sinkRegistry = factory.NewRegistry[Sink]()

// RegisterSink adds a metrics sink factory identified by name.
func RegisterSink(name string, f factory.Factory[Sink]) error {
	return sinkRegistry.Register(name, f)
}

// NewSink creates a Sink from the provided configuration. Multiple configured
// sinks are combined; none yields a NopSink.
func NewSink(cfgs []factory.ModuleConfig) (Sink, error) {
	if len(cfgs) == 0 {
		return NopSink{}, nil
	}
	if len(cfgs) == 1 {
		return sinkRegistry.Create(cfgs[0])
	}
	sinks := make([]Sink, len(cfgs))
	for i, c := range cfgs {
		s, err := sinkRegistry.Create(c)
		if err != nil {
			return nil, err
		}
		sinks[i] = s
	}
	return MultiSink(sinks), nil
}

// MultiSink fans every record out to all wrapped sinks, returning the first
// error encountered.
type MultiSink []Sink

// RecordNotificationResult forwards the results to each sink.
func (m MultiSink) RecordNotificationResult(res []NotificationResult) error {
	var first error
	for _, s := range m {
		if err := s.RecordNotificationResult(res); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// RecordAssignment forwards the event to sinks implementing AssignmentRecorder.
func (m MultiSink) RecordAssignment(ev AssignmentEvent) error {
	var first error
	for _, s := range m {
		if ar, ok := s.(AssignmentRecorder); ok {
			if err := ar.RecordAssignment(ev); err != nil && first == nil {
				first = err
			}
		}
	}
	return first
}
