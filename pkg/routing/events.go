package routing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/travigo/planner/pkg/elastic_client"
)

// RoutingEvent is the record kept of every planned request
type RoutingEvent struct {
	Timestamp time.Time
	RequestID string

	Success    bool
	FailReason string

	ArriveBy       bool
	Realtime       bool
	AccessMode     string
	EgressMode     string
	NumAccesses    int
	NumEgresses    int
	NumPaths       int
	NumItineraries int

	OptimizationSkipped bool

	// Phase timings in milliseconds
	Timings map[string]int64
}

// EventSink receives a routing event once a request has finished
type EventSink interface {
	Record(event *RoutingEvent)
}

type ElasticEventSink struct{}

func (ElasticEventSink) Record(event *RoutingEvent) {
	year, week := event.Timestamp.ISOWeek()
	indexName := fmt.Sprintf("planner-routing-events-%d-%d", year, week)

	elasticEvent, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("request", event.RequestID).Msg("Failed to encode routing event")
		return
	}

	elastic_client.IndexRequest(indexName, bytes.NewReader(elasticEvent))
}

type noopEventSink struct{}

func (noopEventSink) Record(*RoutingEvent) {}

func newRoutingEvent(request *RouteRequest) *RoutingEvent {
	return &RoutingEvent{
		Timestamp:  time.Now(),
		RequestID:  uuid.NewString(),
		ArriveBy:   request.ArriveBy,
		Realtime:   !request.Preferences.Transit.IgnoreRealtimeUpdates,
		AccessMode: request.Journey.Access.Mode.String(),
		EgressMode: request.Journey.Egress.Mode.String(),
		Timings:    map[string]int64{},
	}
}

// failReason maps an error to the short code stored on the event
func failReason(err error) string {
	if validationError, ok := AsValidationError(err); ok && len(validationError.Errors) > 0 {
		return string(validationError.Errors[0].Code)
	}
	return "INTERNAL"
}

// RoutingTimer collects phase durations for a single request. Phases may be timed from
// several goroutines.
type RoutingTimer struct {
	mutex  sync.Mutex
	phases map[string]time.Duration
}

func NewRoutingTimer() *RoutingTimer {
	return &RoutingTimer{phases: map[string]time.Duration{}}
}

// Start begins timing a phase, the returned func ends it
func (t *RoutingTimer) Start(phase string) func() {
	start := time.Now()

	return func() {
		elapsed := time.Since(start)

		t.mutex.Lock()
		t.phases[phase] += elapsed
		t.mutex.Unlock()

		log.Debug().Str("phase", phase).Dur("duration", elapsed).Msg("Routing phase finished")
	}
}

func (t *RoutingTimer) Phases() map[string]time.Duration {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	phases := make(map[string]time.Duration, len(t.phases))
	for phase, duration := range t.phases {
		phases[phase] = duration
	}
	return phases
}

func (t *RoutingTimer) milliseconds() map[string]int64 {
	phases := t.Phases()
	timings := make(map[string]int64, len(phases))
	for phase, duration := range phases {
		timings[phase] = duration.Milliseconds()
	}
	return timings
}
