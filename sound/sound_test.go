package sound

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/esimov/graffiti"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlayer struct {
	pcm     []byte
	loop    bool
	volume  float64
	playing bool
	closed  bool
}

func (p *fakePlayer) Play()               { p.playing = true }
func (p *fakePlayer) Pause()              { p.playing = false }
func (p *fakePlayer) IsPlaying() bool     { return p.playing }
func (p *fakePlayer) SetVolume(v float64) { p.volume = v }
func (p *fakePlayer) Close() error        { p.closed = true; return nil }

type recorder struct {
	players []*fakePlayer
}

func (r *recorder) newPlayer(pcm []byte, loop bool) (player, error) {
	p := &fakePlayer{pcm: pcm, loop: loop}
	r.players = append(r.players, p)
	return p, nil
}

func rawDecode(ext string, r io.Reader) ([]byte, error) {
	if ext != ".mp3" {
		return nil, errors.New("unsupported")
	}
	return io.ReadAll(r)
}

func writeSound(t *testing.T, name, data string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestSound_LoadAndPlay(t *testing.T) {
	assert := assert.New(t)

	rec := &recorder{}
	m := newManager(rawDecode, rec.newPlayer)

	require.NoError(t, m.Load("spray", writeSound(t, "spray.mp3", "pcm")))
	assert.True(m.Exists("spray"))
	assert.False(m.Exists("shake"))

	// Muted until unlocked.
	assert.False(m.Play("spray", graffiti.PlayOptions{Loop: true, Volume: 0.5}))
	m.Unlock()
	assert.True(m.Unlocked())

	assert.True(m.Play("spray", graffiti.PlayOptions{Loop: true, Volume: 0.5}))
	require.Len(t, rec.players, 1)
	first := rec.players[0]
	assert.Equal([]byte("pcm"), first.pcm)
	assert.True(first.loop)
	assert.Equal(0.5, first.volume)
	assert.True(m.Playing("spray"))

	// Replaying restarts the sound.
	assert.True(m.Play("spray", graffiti.PlayOptions{Volume: 3}))
	require.Len(t, rec.players, 2)
	assert.True(first.closed)
	assert.Equal(1.0, rec.players[1].volume)

	assert.True(m.Stop("spray"))
	assert.False(m.Stop("spray"))
	assert.False(m.Playing("spray"))
	assert.False(m.Play("shake", graffiti.PlayOptions{}))
}

func TestSound_LoadErrors(t *testing.T) {
	m := newManager(rawDecode, (&recorder{}).newPlayer)

	assert.Error(t, m.Load("spray", filepath.Join(t.TempDir(), "missing.mp3")))
	assert.Error(t, m.Load("spray", writeSound(t, "spray.ogg", "pcm")))
	assert.False(t, m.Exists("spray"))
}

func TestSound_LoadRemote(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/shake.mp3" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("remote"))
	}))
	defer ts.Close()

	m := newManager(rawDecode, (&recorder{}).newPlayer)
	require.NoError(t, m.Load("shake", ts.URL+"/shake.mp3"))
	assert.Equal(t, []byte("remote"), m.sounds["shake"])
	assert.Error(t, m.Load("spray", ts.URL+"/spray.mp3"))
}

func TestSound_StopAll(t *testing.T) {
	rec := &recorder{}
	m := newManager(rawDecode, rec.newPlayer)
	require.NoError(t, m.Load("spray", writeSound(t, "spray.mp3", "a")))
	require.NoError(t, m.Load("shake", writeSound(t, "shake.mp3", "b")))
	m.Unlock()

	m.Play("spray", graffiti.PlayOptions{Loop: true})
	m.Play("shake", graffiti.PlayOptions{})
	m.StopAll()

	for _, p := range rec.players {
		assert.False(t, p.playing)
		assert.True(t, p.closed)
	}
	assert.Empty(t, m.playing)
}
