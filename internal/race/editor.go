package race

// Persister is the storage the editor writes through after every change.
type Persister interface {
	Save(TrackData) error
	Clear() error
}

// Editor owns the user-authored track geometry: the spawn point, the ordered
// gates and a half-finished gate waiting for its second click.
type Editor struct {
	Spawn   Point
	Gates   []Gate
	pending *Point

	store Persister
}

func NewEditor(d TrackData, store Persister) *Editor {
	return &Editor{
		Spawn: d.Spawn,
		Gates: append([]Gate(nil), d.Gates...),
		store: store,
	}
}

// Data snapshots the current geometry.
func (e *Editor) Data() TrackData {
	return TrackData{Spawn: e.Spawn, Gates: append([]Gate(nil), e.Gates...)}
}

// Pending returns the first point of a gate being placed, if any.
func (e *Editor) Pending() (Point, bool) {
	if e.pending == nil {
		return Point{}, false
	}
	return *e.pending, true
}

// PlaceGatePoint handles a primary click. The first click remembers p, the
// second commits the gate and saves. It returns the committed gate.
func (e *Editor) PlaceGatePoint(p Point) (Gate, bool, error) {
	if e.pending == nil {
		e.pending = &p
		return Gate{}, false, nil
	}
	g := Gate{A: *e.pending, B: p}
	e.pending = nil
	e.Gates = append(e.Gates, g)
	return g, true, e.store.Save(e.Data())
}

// SetSpawn moves the spawn point and saves. The caller resets the car.
func (e *Editor) SetSpawn(p Point) error {
	e.Spawn = p
	return e.store.Save(e.Data())
}

// ClearGates drops every gate and any pending point, and deletes the saved file.
func (e *Editor) ClearGates() error {
	e.Gates = nil
	e.pending = nil
	return e.store.Clear()
}

// Replace swaps in geometry loaded from elsewhere without saving it back.
func (e *Editor) Replace(d TrackData) {
	e.Spawn = d.Spawn
	e.Gates = append([]Gate(nil), d.Gates...)
	e.pending = nil
}
