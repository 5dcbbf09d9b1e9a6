package graffiti

import (
	"context"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/esimov/graffiti/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dragScript = `{
	"width": 200,
	"height": 120,
	"events": [
		{"type": "size", "value": 40},
		{"type": "down", "x": 20, "y": 60, "t": 0},
		{"type": "move", "x": 60, "y": 60, "t": 16},
		{"type": "frame", "dt": 0.016},
		{"type": "move", "x": 100, "y": 60, "t": 32},
		{"type": "frame", "dt": 0.016},
		{"type": "up", "x": 100, "y": 60, "t": 48}
	]
}`

func TestScript_Load(t *testing.T) {
	s, err := LoadScript(strings.NewReader(dragScript))
	require.NoError(t, err)
	assert.Equal(t, 200, s.Width)
	assert.Len(t, s.Events, 7)
	assert.Equal(t, EventDown, s.Events[1].Type)
	assert.Equal(t, 60.0, s.Events[2].X)

	_, err = LoadScript(strings.NewReader(`{"events": [{"type": "jump"}]}`))
	assert.Error(t, err)

	_, err = LoadScript(strings.NewReader(`{"events": [`))
	assert.Error(t, err)
}

func TestScript_Replay(t *testing.T) {
	assert := assert.New(t)

	hub := NewEventHub()
	s := newActiveSession(t, hub)
	defer s.Dispose()

	script, err := LoadScript(strings.NewReader(dragScript))
	require.NoError(t, err)
	require.NoError(t, Replay(context.Background(), s, hub, script))

	assert.Equal(40.0, s.Config().BrushSize)
	assert.False(s.Dragging())
	st := s.Stats()
	assert.Greater(st.Stamps, 1)
	assert.Greater(st.Coverage, 0.0)
}

func TestScript_ReplayCancelled(t *testing.T) {
	hub := NewEventHub()
	s := newActiveSession(t, hub)
	defer s.Dispose()

	script, err := LoadScript(strings.NewReader(dragScript))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Replay(ctx, s, hub, script), context.Canceled)
	assert.Zero(t, s.Stats().Stamps)
}

func TestOps_Execute(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()

	src := filepath.Join(dir, "drag.json")
	require.NoError(t, os.WriteFile(src, []byte(dragScript), 0o644))

	spinner := utils.NewSpinner("", time.Millisecond, false)
	spinner.SetWriter(io.Discard)

	op := &Ops{
		Script:   src,
		Dst:      filepath.Join(dir, "wall.png"),
		PipeName: "-",
		Width:    640,
		Height:   480,
		Seed:     3,
		Loader:   memoryLoader(),
		Spinner:  spinner,
	}
	stats, err := op.Execute(context.Background(), testConfig())
	require.NoError(t, err)
	assert.Greater(stats.Stamps, 0)

	f, err := os.Open(op.Dst)
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(200, img.Bounds().Dx())
	assert.Equal(120, img.Bounds().Dy())
}

func TestOps_ExecuteMissingScript(t *testing.T) {
	spinner := utils.NewSpinner("", time.Millisecond, false)
	spinner.SetWriter(io.Discard)

	op := &Ops{
		Script:   filepath.Join(t.TempDir(), "missing.json"),
		Dst:      "out.png",
		PipeName: "-",
		Width:    100,
		Height:   100,
		Loader:   memoryLoader(),
		Spinner:  spinner,
	}
	_, err := op.Execute(context.Background(), testConfig())
	assert.Error(t, err)
}
