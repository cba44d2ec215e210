package race

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type sessionFixture struct {
	s      *Session
	store  *memStore
	clock  *ManualClock
	events []Event
	logs   *observer.ObservedLogs
}

func newSessionFixture(t *testing.T, data TrackData) *sessionFixture {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	f := &sessionFixture{store: &memStore{}, clock: &ManualClock{}, logs: logs}
	f.clock.Set(time.Minute)
	f.s = NewSession(boxTrack(400, 200), data, f.store, f.clock, zap.New(core))
	for _, et := range []EventType{
		EventWallHit, EventGatePassed, EventLapCompleted,
		EventGateAdded, EventSpawnMoved, EventTrackCleared, EventTrackReloaded,
	} {
		f.s.Bus.Subscribe(et, func(e Event) { f.events = append(f.events, e) })
	}
	return f
}

func (f *sessionFixture) types() []EventType {
	out := make([]EventType, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.Type)
	}
	return out
}

func TestDefaultTrackData(t *testing.T) {
	d := DefaultTrackData(boxTrack(400, 200))
	assert.Equal(t, TrackData{Spawn: Point{X: 200, Y: 100}}, d)
}

func TestSessionStartsAtSpawn(t *testing.T) {
	f := newSessionFixture(t, sampleData)
	assert.Equal(t, Vec2{X: 640, Y: 360}, f.s.Car.Pos)
	assert.Equal(t, sampleData.Gates, f.s.Editor.Gates)
	assert.Zero(t, f.s.Ticks)
}

func TestSessionGateAddedBeforePhysics(t *testing.T) {
	f := newSessionFixture(t, TrackData{Spawn: Point{X: 100, Y: 100}})

	f.clock.Advance(3 * time.Second)
	res := f.s.Step(TickInput{Actions: []Action{
		{Kind: ActionPlaceGatePoint, At: Point{X: 100, Y: 90}},
		{Kind: ActionPlaceGatePoint, At: Point{X: 100, Y: 110}},
	}})

	assert.True(t, res.GatePassed, "a gate committed this tick is checked this tick")
	assert.True(t, res.LapCompleted)
	assert.Equal(t, 3*time.Second, res.LapTime)
	assert.Equal(t, []EventType{EventGateAdded, EventGatePassed, EventLapCompleted}, f.types())
	assert.Equal(t, int64(1), f.s.Ticks)
	require.Len(t, f.store.saved, 1)
	assert.Equal(t, []Gate{{A: Point{X: 100, Y: 90}, B: Point{X: 100, Y: 110}}}, f.store.last().Gates)
}

func TestSessionSetSpawnResetsCar(t *testing.T) {
	f := newSessionFixture(t, TrackData{Spawn: Point{X: 100, Y: 100}})
	for range 20 {
		f.s.Step(TickInput{Controls: Controls{Up: true}})
	}
	require.Greater(t, f.s.Car.Pos.X, 100.0)

	f.s.Step(TickInput{Actions: []Action{{Kind: ActionSetSpawn, At: Point{X: 300, Y: 150}}}})
	assert.Equal(t, Vec2{X: 300, Y: 150}, f.s.Car.Pos)
	assert.Zero(t, f.s.Car.Speed)
	assert.Equal(t, Point{X: 300, Y: 150}, f.s.Editor.Spawn)
	assert.Equal(t, Point{X: 300, Y: 150}, f.store.last().Spawn)
	assert.Contains(t, f.types(), EventSpawnMoved)
}

func TestSessionClear(t *testing.T) {
	data := TrackData{
		Spawn: Point{X: 100, Y: 100},
		Gates: []Gate{{A: Point{X: 300, Y: 90}, B: Point{X: 300, Y: 110}}},
	}
	f := newSessionFixture(t, data)
	f.s.Step(TickInput{
		Controls: Controls{Up: true},
		Actions:  []Action{{Kind: ActionPlaceGatePoint, At: Point{X: 5, Y: 5}}},
	})
	_, pending := f.s.Editor.Pending()
	require.True(t, pending)

	f.s.Step(TickInput{Actions: []Action{{Kind: ActionClear}}})
	assert.Empty(t, f.s.Editor.Gates)
	_, pending = f.s.Editor.Pending()
	assert.False(t, pending)
	assert.Equal(t, 1, f.store.clears)
	assert.Equal(t, Vec2{X: 100, Y: 100}, f.s.Car.Pos)
	assert.Equal(t, 0, f.s.Car.Checkpoint)
	assert.Contains(t, f.types(), EventTrackCleared)
}

func TestSessionWallHit(t *testing.T) {
	f := newSessionFixture(t, TrackData{Spawn: Point{X: 11, Y: 100}})
	f.s.Car.Speed = -1

	res := f.s.Step(TickInput{Controls: Controls{Down: true}})
	assert.True(t, res.Collided)
	assert.Equal(t, Vec2{X: 11, Y: 100}, f.s.Car.Pos)
	assert.InDelta(t, 0.575, f.s.Car.Speed, 1e-12)
	require.Equal(t, []EventType{EventWallHit}, f.types())
	assert.Equal(t, -1.0, f.events[0].Speed)
	assert.NotEmpty(t, f.s.Sparks.P)

	for range 60 {
		f.s.Step(TickInput{})
	}
	assert.Empty(t, f.s.Sparks.P, "sparks burn out")
}

func TestSessionSaveErrorIsLogged(t *testing.T) {
	f := newSessionFixture(t, TrackData{Spawn: Point{X: 100, Y: 100}})
	f.store.saveErr = errors.New("read-only file system")

	f.s.Step(TickInput{Actions: []Action{{Kind: ActionSetSpawn, At: Point{X: 50, Y: 50}}}})
	assert.Equal(t, Point{X: 50, Y: 50}, f.s.Editor.Spawn, "change is kept in memory")
	entries := f.logs.FilterMessage("could not save track data").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
}

func TestSessionLapIsLogged(t *testing.T) {
	f := newSessionFixture(t, TrackData{
		Spawn: Point{X: 100, Y: 100},
		Gates: []Gate{{A: Point{X: 100, Y: 90}, B: Point{X: 100, Y: 110}}},
	})
	f.clock.Advance(75 * time.Second)
	f.s.Step(TickInput{})

	entries := f.logs.FilterMessage("lap completed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "01:15:00", fields["time"])
	assert.Equal(t, int64(1), fields["lap"])
	assert.Equal(t, true, fields["best"])
}

func TestSessionReload(t *testing.T) {
	f := newSessionFixture(t, sampleData)
	ch := make(chan TrackData, 2)
	f.s.SetReloads(ch)

	ch <- sampleData
	f.s.Step(TickInput{})
	assert.Empty(t, f.events, "own save echoed back is ignored")

	next := TrackData{
		Spawn: Point{X: 50, Y: 60},
		Gates: []Gate{{A: Point{X: 1, Y: 2}, B: Point{X: 3, Y: 4}}},
	}
	f.s.Step(TickInput{Controls: Controls{Up: true}})
	ch <- next
	f.s.Step(TickInput{})

	if diff := cmp.Diff(next, f.s.Editor.Data()); diff != "" {
		t.Errorf("editor data mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, Vec2{X: 50, Y: 60}, f.s.Car.Pos)
	assert.Equal(t, Point{X: 50, Y: 60}, f.s.Car.Spawn)
	assert.Equal(t, []EventType{EventTrackReloaded}, f.types())
	assert.Empty(t, f.store.saved, "reloaded data is not written back")
}
