package race

import (
	"slices"
	"time"

	"go.uber.org/zap"
)

type ActionKind int

const (
	ActionPlaceGatePoint ActionKind = iota // primary click
	ActionSetSpawn                         // secondary click
	ActionClear                            // clear key
)

// Action is one discrete editing input, in track pixel coordinates.
type Action struct {
	Kind ActionKind
	At   Point
}

// TickInput is everything the shell gathered for one tick.
type TickInput struct {
	Controls Controls
	Actions  []Action
}

// Session owns the race state and advances it one tick at a time. Within a
// tick the input phase (reloads, then editing actions) runs before physics, so
// a gate added this tick is already visible to the car.
type Session struct {
	Track  *Track
	Car    *Car
	Editor *Editor
	Bus    *EventBus
	Sparks *ParticleSystem
	Ticks  int64
	Tick   time.Duration // wall-clock length of one Step, for effects

	reloads <-chan TrackData
	log     *zap.Logger
}

// DefaultTrackData is the geometry used when nothing usable is saved:
// spawn in the middle of the track, no gates.
func DefaultTrackData(t *Track) TrackData {
	return TrackData{Spawn: t.Center()}
}

func NewSession(track *Track, data TrackData, store Persister, clock Clock, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Session{
		Track:  track,
		Car:    NewCar(data.Spawn, clock),
		Editor: NewEditor(data, store),
		Bus:    NewEventBus(),
		Sparks: NewParticleSystem(MaxParticles, 0x5EA4C5),
		Tick:   TickDuration,
		log:    log.Named("session"),
	}
	s.subscribeLogging()
	return s
}

// SetReloads connects a source of externally edited track data.
func (s *Session) SetReloads(ch <-chan TrackData) { s.reloads = ch }

// Step runs one tick.
func (s *Session) Step(in TickInput) StepResult {
	s.Ticks++
	s.drainReloads()
	for _, a := range in.Actions {
		s.Apply(a)
	}

	speed := s.Car.Speed
	res := s.Car.Update(in.Controls, s.Editor.Gates, s.Track)
	if res.Collided {
		s.Sparks.SpawnSparks(s.Car.Pos, s.Car.Angle, speed)
		s.Bus.Emit(Event{Type: EventWallHit, Pos: s.Car.Pos, Speed: speed})
	}
	if res.GatePassed {
		s.Bus.Emit(Event{Type: EventGatePassed, Pos: s.Car.Pos, Index: res.Gate})
	}
	if res.LapCompleted {
		s.Bus.Emit(Event{Type: EventLapCompleted, Pos: s.Car.Pos, Index: s.Car.Laps, Time: res.LapTime, Best: res.NewBest})
	}
	s.Sparks.Update(s.Tick.Seconds())
	return res
}

// Apply performs one editing action. Save failures are logged; the geometry
// change is kept in memory either way.
func (s *Session) Apply(a Action) {
	switch a.Kind {
	case ActionPlaceGatePoint:
		g, committed, err := s.Editor.PlaceGatePoint(a.At)
		if err != nil {
			s.log.Error("could not save track data", zap.Error(err))
		}
		if committed {
			s.Bus.Emit(Event{Type: EventGateAdded, Pos: g.B.Vec(), Index: len(s.Editor.Gates) - 1})
		}
	case ActionSetSpawn:
		if err := s.Editor.SetSpawn(a.At); err != nil {
			s.log.Error("could not save track data", zap.Error(err))
		}
		s.Car.Spawn = a.At
		s.Car.Reset()
		s.Bus.Emit(Event{Type: EventSpawnMoved, Pos: a.At.Vec()})
	case ActionClear:
		if err := s.Editor.ClearGates(); err != nil {
			s.log.Error("could not delete track data", zap.Error(err))
		}
		s.Car.Reset()
		s.Bus.Emit(Event{Type: EventTrackCleared, Pos: s.Car.Pos})
	}
}

func (s *Session) drainReloads() {
	if s.reloads == nil {
		return
	}
	for {
		select {
		case d := <-s.reloads:
			s.reload(d)
		default:
			return
		}
	}
}

// reload adopts externally edited geometry. Our own saves come back through
// the watcher too; those match the editor and are ignored.
func (s *Session) reload(d TrackData) {
	if d.Spawn == s.Editor.Spawn && slices.Equal(d.Gates, s.Editor.Gates) {
		return
	}
	s.Editor.Replace(d)
	s.Car.Spawn = d.Spawn
	s.Car.Reset()
	s.Bus.Emit(Event{Type: EventTrackReloaded, Pos: d.Spawn.Vec(), Index: len(d.Gates)})
}

func (s *Session) subscribeLogging() {
	s.Bus.Subscribe(EventGatePassed, func(e Event) {
		s.log.Debug("gate passed", zap.Int("gate", e.Index+1), zap.Int64("tick", s.Ticks))
	})
	s.Bus.Subscribe(EventLapCompleted, func(e Event) {
		s.log.Info("lap completed",
			zap.Int("lap", e.Index),
			zap.String("time", FormatLapTime(e.Time)),
			zap.Bool("best", e.Best))
	})
	s.Bus.Subscribe(EventGateAdded, func(e Event) {
		s.log.Info("gate added", zap.Int("gate", e.Index+1))
	})
	s.Bus.Subscribe(EventSpawnMoved, func(e Event) {
		s.log.Info("spawn moved", zap.Float64("x", e.Pos.X), zap.Float64("y", e.Pos.Y))
	})
	s.Bus.Subscribe(EventTrackCleared, func(Event) {
		s.log.Info("gates cleared")
	})
	s.Bus.Subscribe(EventTrackReloaded, func(e Event) {
		s.log.Info("track data reloaded", zap.Int("gates", e.Index))
	})
}
