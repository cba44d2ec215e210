package race

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Gate is one checkpoint segment. Gates are awaited in slice order.
type Gate struct {
	A, B Point
}

// TrackData is the user-authored geometry that survives restarts.
type TrackData struct {
	Spawn Point
	Gates []Gate
}

// ErrNoTrackData is returned by Load when nothing has been saved yet.
var ErrNoTrackData = errors.New("no saved track data")

// ParseError reports malformed track data. Line is 1-based.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("track data line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

var (
	errEmpty      = errors.New("empty file")
	errTokenCount = errors.New("wrong token count")
)

// Encode writes d in the flat text format: "x,y" for the spawn, then one
// "x1,y1|x2,y2" line per gate.
func Encode(w io.Writer, d TrackData) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s\n", d.Spawn)
	for _, g := range d.Gates {
		fmt.Fprintf(bw, "%s|%s\n", g.A, g.B)
	}
	return bw.Flush()
}

// Decode parses the flat text format. Any malformed line fails the whole decode.
func Decode(r io.Reader) (TrackData, error) {
	var d TrackData
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if line == 1 {
			p, err := parsePoint(text)
			if err != nil {
				return TrackData{}, &ParseError{Line: line, Text: text, Err: err}
			}
			d.Spawn = p
			continue
		}
		g, err := parseGate(text)
		if err != nil {
			return TrackData{}, &ParseError{Line: line, Text: text, Err: err}
		}
		d.Gates = append(d.Gates, g)
	}
	if err := sc.Err(); err != nil {
		return TrackData{}, fmt.Errorf("read track data: %w", err)
	}
	if line == 0 {
		return TrackData{}, &ParseError{Line: 1, Err: errEmpty}
	}
	return d, nil
}

func parseGate(s string) (Gate, error) {
	parts := strings.Split(s, "|")
	if len(parts) != 2 {
		return Gate{}, errTokenCount
	}
	a, err := parsePoint(parts[0])
	if err != nil {
		return Gate{}, err
	}
	b, err := parsePoint(parts[1])
	if err != nil {
		return Gate{}, err
	}
	return Gate{A: a, B: b}, nil
}

func parsePoint(s string) (Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Point{}, errTokenCount
	}
	x, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Point{}, err
	}
	y, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Point{}, err
	}
	return Point{X: x, Y: y}, nil
}

// Store persists TrackData to a single file.
type Store struct {
	Path string
	log  *zap.Logger
}

func NewStore(path string, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{Path: path, log: log.Named("store")}
}

// Load reads the file. It returns ErrNoTrackData when the file does not exist
// and a *ParseError when its content is malformed.
func (s *Store) Load() (TrackData, error) {
	f, err := os.Open(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return TrackData{}, ErrNoTrackData
	}
	if err != nil {
		return TrackData{}, fmt.Errorf("open %s: %w", s.Path, err)
	}
	defer f.Close()
	return Decode(f)
}

// LoadOrDefault applies the start-up policy: missing or unreadable data is
// replaced by def. A corrupt file is reported and left on disk untouched.
func (s *Store) LoadOrDefault(def TrackData) TrackData {
	d, err := s.Load()
	switch {
	case err == nil:
		s.log.Info("track data loaded",
			zap.String("file", s.Path), zap.Int("gates", len(d.Gates)))
		return d
	case errors.Is(err, ErrNoTrackData):
		s.log.Debug("no track data, using defaults", zap.String("file", s.Path))
	default:
		s.log.Warn("track data unusable, using defaults",
			zap.String("file", s.Path), zap.Error(err))
	}
	return def
}

// Save replaces the file with d. The write goes through a temporary file in the
// same directory so a crash never leaves a half-written file behind.
func (s *Store) Save(d TrackData) error {
	dir := filepath.Dir(s.Path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("save track data: %w", err)
	}
	if err := Encode(tmp, d); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("save track data: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("save track data: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("save track data: %w", err)
	}
	s.log.Debug("track data saved",
		zap.String("file", s.Path), zap.Int("gates", len(d.Gates)))
	return nil
}

// Clear deletes the file. A missing file is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clear track data: %w", err)
	}
	return nil
}
