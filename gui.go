package graffiti

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"time"

	"gioui.org/app"
	"gioui.org/font/gofont"
	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/unit"
	"gioui.org/widget/material"
	"github.com/esimov/graffiti/utils"
)

type (
	C = layout.Context
	D = layout.Dimensions
)

const (
	maxScreenX = 1366
	maxScreenY = 768
)

var (
	defaultBkgColor  = color.NRGBA{R: 0x11, G: 0x11, B: 0x11, A: 0xff}
	defaultFillColor = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// screen is the active view of the window.
type screen int

const (
	loadingScreen screen = iota
	unlockScreen
	paintScreen
)

// Unlocker is implemented by audio ports which stay muted until the first
// user interaction.
type Unlocker interface {
	Unlock()
}

type loadResult struct {
	session *Session
	err     error
}

// Gui is the interactive painting window. It translates the gio input events
// into session events and renders the composed wall on every frame.
type Gui struct {
	cfg struct {
		window struct {
			w, h  float64
			title string
		}
		color struct {
			background color.NRGBA
			fill       color.NRGBA
		}
	}
	proc struct {
		screen   screen
		progress float64
		loading  bool
		last     time.Time
		size     image.Point
		frame    *image.RGBA
		can      image.Image
	}

	config  Config
	opts    []Option
	audio   AudioPort
	session *Session
	hub     *EventHub
	panel   *controlPanel
	theme   *material.Theme
	win     *app.Window

	// SaveDir is the directory receiving the snapshots.
	SaveDir string
}

// NewGUI initializes the painting window with the preferred viewport size.
func NewGUI(cfg Config, w, h int, audio AudioPort, opts ...Option) *Gui {
	gui := &Gui{
		config: cfg,
		audio:  audio,
		opts:   opts,
		hub:    NewEventHub(),
		theme:  material.NewTheme(gofont.Collection()),
	}
	gui.initWindow(w, h)

	return gui
}

// initWindow prepares the window settings.
func (g *Gui) initWindow(w, h int) {
	g.cfg.window.w, g.cfg.window.h = float64(w), float64(h)
	g.cfg.color.background = defaultBkgColor
	g.cfg.color.fill = defaultFillColor

	g.cfg.window.w, g.cfg.window.h = g.getWindowSize()
	g.cfg.window.title = "Graffiti"
}

// getWindowSize returns the window size fitted to the maximum screen size.
func (g *Gui) getWindowSize() (float64, float64) {
	w, h := g.cfg.window.w, g.cfg.window.h

	r := getRatio(w, h)
	return w * r, h * r
}

// Run opens the window and blocks until it is closed.
// It returns the session initialization error or the window error.
func (g *Gui) Run() error {
	g.win = app.NewWindow(app.Title(g.cfg.window.title), app.Size(
		unit.Dp(float32(g.cfg.window.w)),
		unit.Dp(float32(g.cfg.window.h)),
	))
	defer g.dispose()

	var ops op.Ops
	progress := make(chan float64, 8)
	loaded := make(chan loadResult, 1)

	for {
		select {
		case e := <-g.win.Events():
			switch e := e.(type) {
			case system.FrameEvent:
				gtx := layout.NewContext(&ops, e)
				if !g.proc.loading && g.session == nil {
					g.proc.loading = true
					go g.load(e.Size, progress, loaded)
				}
				g.handleEvents(gtx)
				g.draw(gtx, e)
				e.Frame(gtx.Ops)
			case system.DestroyEvent:
				return e.Err
			}
		case p := <-progress:
			g.proc.progress = p
			g.win.Invalidate()
		case res := <-loaded:
			if res.err != nil {
				g.win.Perform(system.ActionClose)
				return res.err
			}
			g.start(res.session)
			g.win.Invalidate()
		}
	}
}

// load initializes the painting session off the event loop.
func (g *Gui) load(size image.Point, progress chan<- float64, done chan<- loadResult) {
	opts := append([]Option{
		WithProgress(func(p float64) {
			select {
			case progress <- p:
			default:
			}
		}),
	}, g.opts...)
	if g.audio != nil {
		opts = append(opts, WithAudio(g.audio))
	}

	s := NewSession(g.config, size.X, size.Y, opts...)
	err := s.Initialize(context.Background())
	done <- loadResult{session: s, err: err}
}

// start activates the loaded session and shows the next screen.
func (g *Gui) start(s *Session) {
	g.panel = newControlPanel(g.theme, s)
	g.panel.saveDir = g.SaveDir
	s.panel = g.panel

	if err := s.Activate(g.hub); err != nil {
		Logger().Error("activating session", "error", err)
		return
	}
	g.session = s
	g.proc.size = image.Pt(s.width, s.height)
	g.proc.screen = paintScreen
	if _, ok := g.audio.(Unlocker); ok {
		g.proc.screen = unlockScreen
	}
}

// dispose releases the session and stops the sounds.
func (g *Gui) dispose() {
	if g.session != nil {
		g.session.Dispose()
	}
}

// handleEvents dispatches the pointer and key events received since the last frame.
func (g *Gui) handleEvents(gtx C) {
	for _, ev := range gtx.Events(g) {
		switch e := ev.(type) {
		case pointer.Event:
			g.handlePointer(e)
		case key.Event:
			g.handleKey(e)
		}
	}
}

func (g *Gui) handlePointer(e pointer.Event) {
	switch g.proc.screen {
	case loadingScreen:
		return
	case unlockScreen:
		if e.Type == pointer.Press {
			g.unlock()
		}
		return
	}

	ev := PointerEvent{
		X:    float64(e.Position.X),
		Y:    float64(e.Position.Y),
		Time: e.Time,
	}
	switch e.Type {
	case pointer.Press:
		ev.Kind = PointerDown
	case pointer.Drag, pointer.Move:
		ev.Kind = PointerMove
	case pointer.Release:
		ev.Kind = PointerUp
	case pointer.Cancel:
		ev.Kind = PointerCancel
	default:
		return
	}
	g.hub.Pointer(ev)
}

func (g *Gui) handleKey(e key.Event) {
	if e.Name == key.NameEscape && e.State == key.Press {
		g.win.Perform(system.ActionClose)
		return
	}
	switch g.proc.screen {
	case unlockScreen:
		if e.State == key.Press {
			g.unlock()
		}
	case paintScreen:
		g.hub.Key(KeyEvent{Name: e.Name, Pressed: e.State == key.Press})
	}
}

func (g *Gui) unlock() {
	if u, ok := g.audio.(Unlocker); ok {
		u.Unlock()
	}
	g.proc.screen = paintScreen
}

// registerInput registers the window wide pointer and key handlers.
func (g *Gui) registerInput(gtx C) {
	defer clip.Rect{Max: gtx.Constraints.Max}.Push(gtx.Ops).Pop()

	pointer.InputOp{
		Tag:   g,
		Types: pointer.Press | pointer.Drag | pointer.Release | pointer.Move | pointer.Cancel,
	}.Add(gtx.Ops)
	key.InputOp{
		Tag:  g,
		Keys: key.Set(key.NameEscape + "|" + key.NameSpace + "|" + g.config.ShakeKey),
	}.Add(gtx.Ops)
	key.FocusOp{Tag: g}.Add(gtx.Ops)
}

// tick advances the session by the time elapsed since the previous frame.
func (g *Gui) tick(now time.Time, size image.Point) {
	if size != g.proc.size {
		g.proc.size = size
		g.hub.Resize(ResizeEvent{Width: size.X, Height: size.Y})
	}

	dt := DefaultDelta
	if !g.proc.last.IsZero() {
		dt = now.Sub(g.proc.last).Seconds()
	}
	g.proc.last = now
	g.hub.Frame(dt)
}

// StatusMessage returns a summary of the painting session.
func (g *Gui) StatusMessage() string {
	if g.session == nil {
		return ""
	}
	st := g.session.Stats()
	return fmt.Sprintf("%s %s",
		utils.DecorateText("🎨 GRAFFITI", utils.StatusMessage),
		utils.DecorateText(fmt.Sprintf("⇢ %d stamps, %.1f%% of the wall revealed", st.Stamps, st.Coverage*100), utils.DefaultMessage),
	)
}
