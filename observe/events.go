package observe

import (
	"context"
	"time"
)

// Event identifies a lifecycle step of a lazily materialized value.
type Event int

const (
	// EventHit is emitted when a request is served from an already loaded value.
	EventHit Event = iota
	// EventMiss is emitted when a request starts a new construction or load.
	EventMiss
	// EventDedup is emitted when a request joins an in-flight call instead of
	// starting its own.
	EventDedup
	// EventConstruct is emitted when a backing resource construction finishes.
	EventConstruct
	// EventLoad is emitted when a facet load finishes.
	EventLoad
	// EventCreate is emitted when a pool factory call finishes.
	EventCreate
	// EventCanceled is emitted when a waiting caller gives up before the
	// in-flight call completes.
	EventCanceled
)

// String returns the event name used in metric attributes and log fields.
func (e Event) String() string {
	switch e {
	case EventHit:
		return "hit"
	case EventMiss:
		return "miss"
	case EventDedup:
		return "dedup"
	case EventConstruct:
		return "construct"
	case EventLoad:
		return "load"
	case EventCreate:
		return "create"
	case EventCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Completed reports whether the event marks the end of timed work.
// Only completed events carry Start and Duration.
func (e Event) Completed() bool {
	return e == EventConstruct || e == EventLoad || e == EventCreate
}

// Component names used in EventData.Component.
const (
	ComponentFacet = "facet"
	ComponentPool  = "pool"
)

// EventData carries the details of a lifecycle event.
type EventData struct {
	Event     Event
	Component string // ComponentFacet or ComponentPool

	// Resource is the printable identity or pool key.
	Resource string
	// Facet is the facet name; empty for constructions and pool events.
	Facet string
	// Handle is the handle instance ID; empty for pool events.
	Handle string

	Start    time.Time
	Duration time.Duration
	Err      error
}

// Recorder receives lifecycle events.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Latency: Record is called inline on the request path and must return quickly.
// - Errors: implementations must not panic.
type Recorder interface {
	Record(ctx context.Context, e EventData)
}

// RecorderFunc adapts a function to the Recorder interface.
type RecorderFunc func(ctx context.Context, e EventData)

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, e EventData) {
	if f == nil {
		return
	}
	f(ctx, e)
}

// Recorders fans an event out to several recorders in order.
type Recorders []Recorder

// Record implements Recorder.
func (rs Recorders) Record(ctx context.Context, e EventData) {
	for _, r := range rs {
		if r != nil {
			r.Record(ctx, e)
		}
	}
}

var (
	_ Recorder = RecorderFunc(nil)
	_ Recorder = Recorders(nil)
)
