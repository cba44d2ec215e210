package game

import (
	"strconv"

	"racer/internal/race"
)

// FontKind selects one of the HUD faces.
type FontKind int

const (
	FontTimer FontKind = iota // big monospace lap timer
	FontLabel                 // best/last/lap and gate numbers
	FontHelp                  // key help
	fontKinds
)

// HelpLines is the key help drawn in the top-left corner.
var HelpLines = []string{
	"L-Click x2: New Gate",
	"R-Click: Set Spawn",
	"C Key: Clear All",
}

// Line is a straight stroke in track pixels.
type Line struct {
	A, B  race.Vec2
	Width float64
	Color race.RGB
}

// TextItem is one string positioned by its top-left corner in track pixels.
type TextItem struct {
	Font  FontKind
	Text  string
	X, Y  float64
	Color race.RGB
}

func gateColor(i, next int) race.RGB {
	if i == next {
		return race.Palette.GateNext
	}
	return race.Palette.GateOther
}

// GateLines returns the gate strokes, the awaited gate highlighted, followed
// by the preview of a half-placed gate towards cursor.
func GateLines(s *race.Session, cursor race.Point, buf []Line) []Line {
	buf = buf[:0]
	next := s.Car.Checkpoint
	for i, g := range s.Editor.Gates {
		buf = append(buf, Line{A: g.A.Vec(), B: g.B.Vec(), Width: GateLineWidth, Color: gateColor(i, next)})
	}
	if p, ok := s.Editor.Pending(); ok {
		buf = append(buf, Line{A: p.Vec(), B: cursor.Vec(), Width: PendingLineWidth, Color: race.Palette.GatePending})
	}
	return buf
}

// HUDText lays out gate numbers, lap times, the lap counter and key help.
func HUDText(s *race.Session, buf []TextItem) []TextItem {
	buf = buf[:0]
	next := s.Car.Checkpoint
	for i, g := range s.Editor.Gates {
		buf = append(buf, TextItem{
			Font:  FontLabel,
			Text:  strconv.Itoa(i + 1),
			X:     float64(g.A.X),
			Y:     float64(g.A.Y - GateLabelRise),
			Color: gateColor(i, next),
		})
	}

	x := float64(s.Track.Width() - HUDRightInset)
	best, hasBest := s.Car.BestLap()
	last, hasLast := s.Car.LastLap()
	buf = append(buf,
		TextItem{Font: FontTimer, Text: race.FormatLapTime(s.Car.LapElapsed()), X: x, Y: HUDTimerY, Color: race.Palette.Timer},
		TextItem{Font: FontLabel, Text: "BEST: " + race.FormatOptionalLapTime(best, hasBest), X: x, Y: HUDBestY, Color: race.Palette.Best},
		TextItem{Font: FontLabel, Text: "LAST: " + race.FormatOptionalLapTime(last, hasLast), X: x, Y: HUDLastY, Color: race.Palette.Last},
		TextItem{Font: FontLabel, Text: "LAP " + strconv.Itoa(s.Car.Laps+1), X: x, Y: HUDLapY, Color: race.Palette.Last},
	)
	for i, line := range HelpLines {
		buf = append(buf, TextItem{
			Font:  FontHelp,
			Text:  line,
			X:     HelpX,
			Y:     float64(HelpY + i*HelpLineStep),
			Color: race.Palette.Help,
		})
	}
	return buf
}
