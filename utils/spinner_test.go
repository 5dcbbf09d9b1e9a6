package utils

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinner_StartStop(t *testing.T) {
	assert := assert.New(t)

	out := &syncBuffer{}
	s := NewSpinner("loading", time.Millisecond, false)
	s.SetWriter(out)
	s.StopMsg = "done"

	s.Start()
	s.Start()
	time.Sleep(10 * time.Millisecond)
	s.SetMessage("loading 50%")
	time.Sleep(10 * time.Millisecond)
	s.Stop()
	s.Stop()

	assert.Contains(out.String(), "loading")
	assert.Contains(out.String(), "done")
}

func TestFormat_DecorateText(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(ErrorColor+"fail"+DefaultColor, DecorateText("fail", ErrorMessage))
	assert.Equal(SuccessColor+"ok"+DefaultColor, DecorateText("ok", SuccessMessage))
	assert.Equal("1.50s", FormatTime(1500*time.Millisecond))
	assert.Equal("unchanged", DecorateText("unchanged", MessageType(42)))
	assert.Equal("1m 4.25s", FormatTime(time.Minute+4250*time.Millisecond))
	assert.Equal("2h 0m 1.00s", FormatTime(2*time.Hour+time.Second))
	assert.Equal("1d 0h 0m 0.00s", FormatTime(24*time.Hour))
	assert.Equal("5%", FormatPercent(5))
}
