package graffiti

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventHub_SubscribeAndRemove(t *testing.T) {
	assert := assert.New(t)

	hub := NewEventHub()
	var order []string

	rmA := hub.OnKey(func(ev KeyEvent) { order = append(order, "a:"+ev.Name) })
	rmB := hub.OnKey(func(ev KeyEvent) { order = append(order, "b:"+ev.Name) })
	assert.Equal(2, hub.Listeners())

	hub.Key(KeyEvent{Name: "Space", Pressed: true})
	assert.Equal([]string{"a:Space", "b:Space"}, order)

	rmA()
	rmA()
	hub.Key(KeyEvent{Name: "X"})
	assert.Equal([]string{"a:Space", "b:Space", "b:X"}, order)

	rmB()
	assert.Zero(hub.Listeners())
}

func TestEventHub_RemoveDuringDispatch(t *testing.T) {
	hub := NewEventHub()
	calls := 0

	var rm func()
	rm = hub.OnFrame(func(float64) {
		calls++
		rm()
	})
	hub.Frame(0.016)
	hub.Frame(0.016)

	assert.Equal(t, 1, calls)
	assert.Zero(t, hub.Listeners())
}

func TestEventHub_Dispatch(t *testing.T) {
	assert := assert.New(t)

	hub := NewEventHub()
	var (
		ptr    PointerEvent
		resize ResizeEvent
	)
	hub.OnPointer(func(ev PointerEvent) { ptr = ev })
	hub.OnResize(func(ev ResizeEvent) { resize = ev })

	hub.Pointer(PointerEvent{Kind: PointerMove, X: 3, Y: 4})
	hub.Resize(ResizeEvent{Width: 640, Height: 480})

	assert.Equal(PointerEvent{Kind: PointerMove, X: 3, Y: 4}, ptr)
	assert.Equal(ResizeEvent{Width: 640, Height: 480}, resize)
}
