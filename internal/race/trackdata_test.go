package race

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleData = TrackData{
	Spawn: Point{X: 640, Y: 360},
	Gates: []Gate{
		{A: Point{X: 10, Y: 10}, B: Point{X: 20, Y: 20}},
		{A: Point{X: 30, Y: 5}, B: Point{X: 5, Y: 30}},
	},
}

func TestEncode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleData))
	assert.Equal(t, "640,360\n10,10|20,20\n30,5|5,30\n", buf.String())

	buf.Reset()
	require.NoError(t, Encode(&buf, TrackData{Spawn: Point{X: -3, Y: 0}}))
	assert.Equal(t, "-3,0\n", buf.String())
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want TrackData
	}{
		{
			name: "full",
			in:   "640,360\n10,10|20,20\n30,5|5,30\n",
			want: sampleData,
		},
		{
			name: "spawn only",
			in:   "1,2\n",
			want: TrackData{Spawn: Point{X: 1, Y: 2}},
		},
		{
			name: "no trailing newline",
			in:   "1,2\n3,4|5,6",
			want: TrackData{Spawn: Point{X: 1, Y: 2}, Gates: []Gate{{A: Point{X: 3, Y: 4}, B: Point{X: 5, Y: 6}}}},
		},
		{
			name: "crlf and spaces",
			in:   " 1, 2 \r\n3 ,4 | 5, 6\r\n",
			want: TrackData{Spawn: Point{X: 1, Y: 2}, Gates: []Gate{{A: Point{X: 3, Y: 4}, B: Point{X: 5, Y: 6}}}},
		},
		{
			name: "negative coordinates",
			in:   "-5,-7\n-1,0|0,-1\n",
			want: TrackData{Spawn: Point{X: -5, Y: -7}, Gates: []Gate{{A: Point{X: -1, Y: 0}, B: Point{X: 0, Y: -1}}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(strings.NewReader(tt.in))
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		wantLine int
		wantErr  error
	}{
		{name: "empty", in: "", wantLine: 1, wantErr: errEmpty},
		{name: "spawn one token", in: "640\n", wantLine: 1, wantErr: errTokenCount},
		{name: "spawn three tokens", in: "1,2,3\n", wantLine: 1, wantErr: errTokenCount},
		{name: "spawn not a number", in: "abc,1\n", wantLine: 1, wantErr: strconv.ErrSyntax},
		{name: "spawn float", in: "1.5,2\n", wantLine: 1, wantErr: strconv.ErrSyntax},
		{name: "gate missing half", in: "1,2\n3,4\n", wantLine: 2, wantErr: errTokenCount},
		{name: "gate extra half", in: "1,2\n3,4|5,6|7,8\n", wantLine: 2, wantErr: errTokenCount},
		{name: "gate bad number", in: "1,2\n3,4|5,6\n3,x|5,6\n", wantLine: 3, wantErr: strconv.ErrSyntax},
		{name: "blank gate line", in: "1,2\n\n3,4|5,6\n", wantLine: 2, wantErr: errTokenCount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(strings.NewReader(tt.in))
			require.Error(t, err)
			assert.Equal(t, TrackData{}, got)

			var pe *ParseError
			require.True(t, errors.As(err, &pe), "want *ParseError, got %T", err)
			assert.Equal(t, tt.wantLine, pe.Line)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestStoreRoundTrip(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "track_data.txt"), nil)
	require.NoError(t, s.Save(sampleData))

	got, err := s.Load()
	require.NoError(t, err)
	if diff := cmp.Diff(sampleData, got); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}

	raw, err := os.ReadFile(s.Path)
	require.NoError(t, err)
	assert.Equal(t, "640,360\n10,10|20,20\n30,5|5,30\n", string(raw))
}

func TestStoreSaveOverwrites(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(filepath.Join(dir, "track_data.txt"), nil)
	require.NoError(t, s.Save(sampleData))
	require.NoError(t, s.Save(TrackData{Spawn: Point{X: 1, Y: 1}}))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, TrackData{Spawn: Point{X: 1, Y: 1}}, got)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files left behind")
}

func TestStoreSaveIntoMissingDir(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "nope", "track_data.txt"), nil)
	assert.Error(t, s.Save(sampleData))
}

func TestStoreLoadMissing(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "track_data.txt"), nil)
	_, err := s.Load()
	assert.ErrorIs(t, err, ErrNoTrackData)
}

func TestStoreLoadOrDefault(t *testing.T) {
	def := TrackData{Spawn: Point{X: 640, Y: 360}}

	t.Run("missing", func(t *testing.T) {
		s := NewStore(filepath.Join(t.TempDir(), "track_data.txt"), nil)
		assert.Equal(t, def, s.LoadOrDefault(def))
	})

	t.Run("corrupt", func(t *testing.T) {
		s := NewStore(filepath.Join(t.TempDir(), "track_data.txt"), nil)
		require.NoError(t, os.WriteFile(s.Path, []byte("640,360\ngarbage\n"), 0o644))
		assert.Equal(t, def, s.LoadOrDefault(def))

		raw, err := os.ReadFile(s.Path)
		require.NoError(t, err)
		assert.Equal(t, "640,360\ngarbage\n", string(raw), "corrupt file is left alone")
	})

	t.Run("empty", func(t *testing.T) {
		s := NewStore(filepath.Join(t.TempDir(), "track_data.txt"), nil)
		require.NoError(t, os.WriteFile(s.Path, nil, 0o644))
		assert.Equal(t, def, s.LoadOrDefault(def))
	})

	t.Run("valid", func(t *testing.T) {
		s := NewStore(filepath.Join(t.TempDir(), "track_data.txt"), nil)
		require.NoError(t, s.Save(sampleData))
		if diff := cmp.Diff(sampleData, s.LoadOrDefault(def)); diff != "" {
			t.Errorf("LoadOrDefault() mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestStoreClear(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "track_data.txt"), nil)
	require.NoError(t, s.Clear(), "clearing a missing file is fine")

	require.NoError(t, s.Save(sampleData))
	require.NoError(t, s.Clear())
	_, err := os.Stat(s.Path)
	assert.ErrorIs(t, err, os.ErrNotExist)
	_, err = s.Load()
	assert.ErrorIs(t, err, ErrNoTrackData)
}
