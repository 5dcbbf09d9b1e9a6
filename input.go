package graffiti

import (
	"sort"
	"sync"
	"time"
)

// PointerKind is the pointer event type.
type PointerKind int

const (
	PointerDown PointerKind = iota
	PointerMove
	PointerUp
	// PointerCancel is a release happening outside of the painting area.
	PointerCancel
)

// PointerEvent is a pointer sample in surface coordinates.
// Time is the event timestamp, zero when the source has none.
type PointerEvent struct {
	Kind PointerKind
	X, Y float64
	Time time.Duration
}

// KeyEvent is a key press or release keyed by a logical key name.
type KeyEvent struct {
	Name    string
	Pressed bool
}

// ResizeEvent reports the new viewport size.
type ResizeEvent struct {
	Width, Height int
}

// InputSource delivers input events to subscribers. Every subscription
// returns a function which removes it.
type InputSource interface {
	OnPointer(fn func(PointerEvent)) (remove func())
	OnKey(fn func(KeyEvent)) (remove func())
	OnResize(fn func(ResizeEvent)) (remove func())
	OnFrame(fn func(dt float64)) (remove func())
}

type listeners[T any] struct {
	next int
	fns  map[int]func(T)
}

func (l *listeners[T]) add(fn func(T)) int {
	if l.fns == nil {
		l.fns = make(map[int]func(T))
	}
	l.next++
	l.fns[l.next] = fn
	return l.next
}

// snapshot returns the listeners in subscription order.
func (l *listeners[T]) snapshot() []func(T) {
	ids := make([]int, 0, len(l.fns))
	for id := range l.fns {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	fns := make([]func(T), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, l.fns[id])
	}
	return fns
}

// EventHub is an in-process InputSource. Events are dispatched synchronously
// on the goroutine calling the emitter.
type EventHub struct {
	mu      sync.Mutex
	pointer listeners[PointerEvent]
	key     listeners[KeyEvent]
	resize  listeners[ResizeEvent]
	frame   listeners[float64]
}

var _ InputSource = (*EventHub)(nil)

// NewEventHub creates an empty hub.
func NewEventHub() *EventHub {
	return &EventHub{}
}

func subscribe[T any](mu *sync.Mutex, l *listeners[T], fn func(T)) func() {
	mu.Lock()
	id := l.add(fn)
	mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			mu.Lock()
			delete(l.fns, id)
			mu.Unlock()
		})
	}
}

func emit[T any](mu *sync.Mutex, l *listeners[T], ev T) {
	mu.Lock()
	fns := l.snapshot()
	mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// OnPointer subscribes to pointer events.
func (h *EventHub) OnPointer(fn func(PointerEvent)) func() { return subscribe(&h.mu, &h.pointer, fn) }

// OnKey subscribes to key events.
func (h *EventHub) OnKey(fn func(KeyEvent)) func() { return subscribe(&h.mu, &h.key, fn) }

// OnResize subscribes to viewport changes.
func (h *EventHub) OnResize(fn func(ResizeEvent)) func() { return subscribe(&h.mu, &h.resize, fn) }

// OnFrame subscribes to frame ticks. The argument is the elapsed time in seconds.
func (h *EventHub) OnFrame(fn func(float64)) func() { return subscribe(&h.mu, &h.frame, fn) }

// Pointer dispatches a pointer event.
func (h *EventHub) Pointer(ev PointerEvent) { emit(&h.mu, &h.pointer, ev) }

// Key dispatches a key event.
func (h *EventHub) Key(ev KeyEvent) { emit(&h.mu, &h.key, ev) }

// Resize dispatches a viewport change.
func (h *EventHub) Resize(ev ResizeEvent) { emit(&h.mu, &h.resize, ev) }

// Frame dispatches a frame tick.
func (h *EventHub) Frame(dt float64) { emit(&h.mu, &h.frame, dt) }

// Listeners returns the number of active subscriptions.
func (h *EventHub) Listeners() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.pointer.fns) + len(h.key.fns) + len(h.resize.fns) + len(h.frame.fns)
}
