// Package sound plays the short named effects of a painting session
// through the ebiten audio context.
package sound

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/esimov/graffiti"
	"github.com/esimov/graffiti/utils"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

// SampleRate is the sample rate of the audio context.
const SampleRate = 44100

type player interface {
	Play()
	Pause()
	IsPlaying() bool
	SetVolume(volume float64)
	Close() error
}

type (
	decodeFn    func(ext string, r io.Reader) ([]byte, error)
	newPlayerFn func(pcm []byte, loop bool) (player, error)
)

// Manager keeps the decoded sounds in memory and tracks the playing ones.
// Playback stays muted until Unlock is called.
type Manager struct {
	mu       sync.Mutex
	sounds   map[string][]byte
	playing  map[string]player
	unlocked bool

	decode    decodeFn
	newPlayer newPlayerFn
	client    *http.Client
}

var _ graffiti.AudioPort = (*Manager)(nil)

// NewManager creates a manager bound to the process wide audio context.
func NewManager() *Manager {
	ctx := audio.CurrentContext()
	if ctx == nil {
		ctx = audio.NewContext(SampleRate)
	}
	sampleRate := ctx.SampleRate()

	decode := func(ext string, r io.Reader) ([]byte, error) {
		var (
			stream io.Reader
			err    error
		)
		switch ext {
		case ".mp3":
			stream, err = mp3.DecodeWithSampleRate(sampleRate, r)
		case ".wav":
			stream, err = wav.DecodeWithSampleRate(sampleRate, r)
		default:
			return nil, fmt.Errorf("unsupported sound format: %q", ext)
		}
		if err != nil {
			return nil, err
		}
		return io.ReadAll(stream)
	}
	newPlayer := func(pcm []byte, loop bool) (player, error) {
		if !loop {
			return ctx.NewPlayerFromBytes(pcm), nil
		}
		return ctx.NewPlayer(audio.NewInfiniteLoop(bytes.NewReader(pcm), int64(len(pcm))))
	}
	return newManager(decode, newPlayer)
}

func newManager(decode decodeFn, newPlayer newPlayerFn) *Manager {
	return &Manager{
		sounds:    make(map[string][]byte),
		playing:   make(map[string]player),
		decode:    decode,
		newPlayer: newPlayer,
		client:    &http.Client{Timeout: 20 * time.Second},
	}
}

// Unlock enables the playback. It is called after the first user interaction.
func (m *Manager) Unlock() {
	m.mu.Lock()
	m.unlocked = true
	m.mu.Unlock()
}

// Unlocked reports whether the playback is enabled.
func (m *Manager) Unlocked() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.unlocked
}

// Load decodes the sound found at url, a local path or a http(s) address,
// and registers it under name.
func (m *Manager) Load(name, url string) error {
	src, err := m.open(url)
	if err != nil {
		return err
	}
	defer src.Close()

	pcm, err := m.decode(strings.ToLower(filepath.Ext(url)), src)
	if err != nil {
		return fmt.Errorf("decoding sound %q: %w", name, err)
	}

	m.mu.Lock()
	m.sounds[name] = pcm
	m.mu.Unlock()
	graffiti.Logger().Debug("sound loaded", "sound", name, "bytes", len(pcm))

	return nil
}

func (m *Manager) open(url string) (io.ReadCloser, error) {
	if !utils.IsValidUrl(url) {
		return os.Open(url)
	}
	res, err := m.client.Get(url)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		res.Body.Close()
		return nil, fmt.Errorf("unable to fetch %q: %s", url, res.Status)
	}
	return res.Body, nil
}

// Exists reports whether a sound is registered under name.
func (m *Manager) Exists(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.sounds[name]
	return ok
}

// Play starts the named sound from the beginning, stopping the previous
// playback of the same sound.
func (m *Manager) Play(name string, opts graffiti.PlayOptions) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	pcm, ok := m.sounds[name]
	if !ok || !m.unlocked {
		return false
	}
	m.stop(name)

	p, err := m.newPlayer(pcm, opts.Loop)
	if err != nil {
		graffiti.Logger().Warn("sound playback failed", "sound", name, "error", err)
		return false
	}
	p.SetVolume(utils.Clamp(opts.Volume, 0, 1))
	p.Play()
	m.playing[name] = p

	return true
}

// Stop halts the named sound. It reports false if the sound was not playing.
func (m *Manager) Stop(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.stop(name)
}

func (m *Manager) stop(name string) bool {
	p, ok := m.playing[name]
	if !ok {
		return false
	}
	delete(m.playing, name)
	p.Pause()
	if err := p.Close(); err != nil {
		graffiti.Logger().Debug("closing player", "sound", name, "error", err)
	}
	return true
}

// StopAll halts every playing sound.
func (m *Manager) StopAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for name := range m.playing {
		m.stop(name)
	}
}

// Playing reports whether the named sound is playing.
func (m *Manager) Playing(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.playing[name]
	return ok && p.IsPlaying()
}
