package race

import "time"

type EventType int

const (
	EventWallHit EventType = iota
	EventGatePassed
	EventLapCompleted
	EventGateAdded
	EventSpawnMoved
	EventTrackCleared
	EventTrackReloaded
)

func (t EventType) String() string {
	switch t {
	case EventWallHit:
		return "wall-hit"
	case EventGatePassed:
		return "gate-passed"
	case EventLapCompleted:
		return "lap-completed"
	case EventGateAdded:
		return "gate-added"
	case EventSpawnMoved:
		return "spawn-moved"
	case EventTrackCleared:
		return "track-cleared"
	case EventTrackReloaded:
		return "track-reloaded"
	}
	return "unknown"
}

type Event struct {
	Type  EventType
	Pos   Vec2
	Speed float64       // car speed before the event (wall hits)
	Index int           // gate index or lap number
	Time  time.Duration // lap time
	Best  bool          // lap time is a new best
}

type EventHandler func(Event)

// EventBus fans events out to subscribers synchronously, in subscription order.
type EventBus struct {
	handlers map[EventType][]EventHandler
}

func NewEventBus() *EventBus {
	return &EventBus{
		handlers: make(map[EventType][]EventHandler),
	}
}

func (eb *EventBus) Subscribe(t EventType, fn EventHandler) {
	eb.handlers[t] = append(eb.handlers[t], fn)
}

func (eb *EventBus) Emit(e Event) {
	for _, fn := range eb.handlers[e.Type] {
		fn(e)
	}
}
