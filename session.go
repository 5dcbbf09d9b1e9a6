package graffiti

import (
	"context"
	"image"

	"github.com/esimov/graffiti/utils"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// PaintInterval is the period of the extra stamps added while the pointer is held still.
const PaintInterval = 0.05

// Sound names used with the AudioPort.
const (
	SoundSpray = "spray"
	SoundShake = "shake"
)

var (
	ErrInvalidViewport = errors.New("invalid viewport size")
	ErrNoLoader        = errors.New("no asset loader")
	ErrDisposed        = errors.New("session disposed")
	ErrNotReady        = errors.New("session not ready")
)

// State is the lifecycle state of a Session.
type State int

const (
	Uninitialized State = iota
	Initializing
	Ready
	Active
	Cleared
	Disposed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Initializing:
		return "initializing"
	case Ready:
		return "ready"
	case Active:
		return "active"
	case Cleared:
		return "cleared"
	case Disposed:
		return "disposed"
	}
	return "unknown"
}

// PlayOptions controls the playback of a sound.
type PlayOptions struct {
	Loop   bool
	Volume float64
}

// AudioPort plays the named session sounds.
type AudioPort interface {
	Play(name string, opts PlayOptions) bool
	Stop(name string) bool
	Exists(name string) bool
	Load(name, url string) error
}

// ControlPanelPort is notified whenever the brush configuration changes.
type ControlPanelPort interface {
	ConfigChanged(cfg Config)
}

// SessionStats collects the session counters.
type SessionStats struct {
	Stamps        int
	Skipped       int
	MaskRefreshes int
	Coverage      float64
}

// Option configures a Session.
type Option func(*Session)

// WithLoader sets the loader used for the session imagery.
func WithLoader(l Loader) Option {
	return func(s *Session) { s.loader = l }
}

// WithAudio sets the audio port.
func WithAudio(a AudioPort) Option {
	return func(s *Session) { s.audio = a }
}

// WithControlPanel sets the port notified on configuration changes.
func WithControlPanel(p ControlPanelPort) Option {
	return func(s *Session) { s.panel = p }
}

// WithRand sets the random source used by the brush.
func WithRand(r Rand) Option {
	return func(s *Session) { s.rnd = r }
}

// WithProgress sets the callback receiving the asset loading progress.
func WithProgress(fn func(float64)) Option {
	return func(s *Session) { s.progress = fn }
}

// Session is one painting session. It wires the input events to the can
// pressure, the stroke sampler, the brush and the reveal mask.
// A Session is not safe for concurrent use.
type Session struct {
	id     string
	cfg    Config
	width  int
	height int
	state  State

	loader   Loader
	audio    AudioPort
	panel    ControlPanelPort
	rnd      Rand
	progress func(float64)

	assets *Assets
	can    *PressureModel
	stroke *StrokeSampler
	brush  *BrushStampRenderer
	mask   *RevealMaskEngine
	scene  *Scene

	subs []func()

	dragging   bool
	shakeDown  bool
	sprayOn    bool
	dirty      bool
	paintTimer float64

	pointer    image.Point
	hasPointer bool
}

// NewSession creates a session for a viewport of the given size.
func NewSession(cfg Config, width, height int, opts ...Option) *Session {
	cfg.sanitize()

	s := &Session{
		id:     uuid.NewString(),
		cfg:    cfg,
		width:  width,
		height: height,
		loader: FileLoader{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the unique session identifier.
func (s *Session) ID() string {
	return s.id
}

// State returns the lifecycle state.
func (s *Session) State() State {
	return s.state
}

// Config returns a copy of the current configuration.
func (s *Session) Config() Config {
	return s.cfg
}

// Initialize loads the session imagery and allocates the paint surface.
// Missing assets are replaced with placeholders; only an invalid viewport,
// a missing loader or a cancelled context make it fail.
func (s *Session) Initialize(ctx context.Context) error {
	switch s.state {
	case Disposed:
		return ErrDisposed
	case Uninitialized:
	default:
		return errors.Wrapf(ErrNotReady, "cannot initialize in state %s", s.state)
	}
	if s.width <= 0 || s.height <= 0 {
		return errors.Wrapf(ErrInvalidViewport, "%dx%d", s.width, s.height)
	}
	if s.loader == nil {
		return errors.WithStack(ErrNoLoader)
	}

	s.state = Initializing
	log := Logger().With("session", s.id)
	log.Info("loading assets", "width", s.width, "height", s.height)

	assets, err := LoadAssets(ctx, s.loader, s.cfg, s.progress)
	if err != nil {
		s.state = Uninitialized
		return errors.Wrap(err, "loading assets")
	}
	if len(assets.Fallbacks) > 0 {
		log.Warn("using fallback assets", "assets", assets.Fallbacks)
	}
	s.loadSounds()

	if s.rnd == nil {
		s.rnd = NewRand(0)
	}
	s.assets = assets
	s.can = NewPressureModel()
	s.stroke = NewStrokeSampler(&s.cfg)
	s.brush = NewBrushStampRenderer(&s.cfg, s.can, s.rnd)
	s.mask = NewRevealMaskEngine(s.width, s.height)
	s.scene = newScene(assets, &s.cfg, s.width, s.height)
	s.state = Ready

	log.Info("session ready")
	return nil
}

func (s *Session) loadSounds() {
	if s.audio == nil {
		return
	}
	sounds := []struct{ name, path string }{
		{SoundSpray, s.cfg.SpraySound},
		{SoundShake, s.cfg.ShakeSound},
	}
	for _, snd := range sounds {
		if snd.path == "" || s.audio.Exists(snd.name) {
			continue
		}
		if err := s.audio.Load(snd.name, snd.path); err != nil {
			Logger().Warn("sound load failed", "sound", snd.name, "error", err)
		}
	}
}

// Activate subscribes the session to the input source.
func (s *Session) Activate(src InputSource) error {
	switch s.state {
	case Disposed:
		return ErrDisposed
	case Ready:
	default:
		return errors.Wrapf(ErrNotReady, "cannot activate in state %s", s.state)
	}

	s.subs = append(s.subs,
		src.OnPointer(s.handlePointer),
		src.OnKey(s.handleKey),
		src.OnResize(func(ev ResizeEvent) { s.Resize(ev.Width, ev.Height) }),
		src.OnFrame(s.Update),
	)
	s.state = Active

	return nil
}

// Dispose releases every input subscription and stops the sounds.
// It is safe to call Dispose more than once.
func (s *Session) Dispose() {
	if s.state == Disposed {
		return
	}
	for _, remove := range s.subs {
		remove()
	}
	s.subs = nil

	if s.sprayOn {
		s.stopSpray()
	}
	s.dragging = false
	s.state = Disposed
	Logger().Debug("session disposed", "session", s.id)
}

// live reports whether the session accepts painting input.
func (s *Session) live() bool {
	if s.state == Cleared {
		s.state = Active
	}
	return s.state == Active
}

func (s *Session) handlePointer(ev PointerEvent) {
	if !s.live() {
		return
	}
	if finite(ev.X) && finite(ev.Y) {
		s.pointer = image.Pt(int(ev.X), int(ev.Y))
		s.hasPointer = true
	}

	switch ev.Kind {
	case PointerDown:
		s.dragging = true
		s.paintTimer = 0
		if s.can.CanPaint() {
			s.can.StartSpraying()
			s.playSpray()
		}
		s.stamp(s.stroke.Begin(ev.X, ev.Y, ev.Time))
	case PointerMove:
		if s.dragging && s.can.CanPaint() {
			s.stamp(s.stroke.Move(ev.X, ev.Y, ev.Time))
		}
	case PointerUp, PointerCancel:
		if !s.dragging {
			return
		}
		s.dragging = false
		s.paintTimer = 0
		s.stroke.End()
		s.can.StopSpraying()
		s.stopSpray()
	}
}

func (s *Session) handleKey(ev KeyEvent) {
	if !s.live() || ev.Name != s.cfg.ShakeKey {
		return
	}
	if ev.Pressed {
		if s.shakeDown {
			return
		}
		s.shakeDown = true
		s.can.StartShaking()
		if s.sprayOn {
			s.stopSpray()
		}
		if s.audio != nil {
			s.audio.Play(SoundShake, PlayOptions{Volume: 1})
		}
		return
	}
	s.shakeDown = false
	s.can.StopShaking()
}

func (s *Session) stamp(points []StrokePoint) {
	for _, p := range points {
		if _, ok := s.brush.Stamp(s.mask.Surface(), p); ok {
			s.dirty = true
		}
	}
}

func (s *Session) playSpray() {
	if s.audio == nil || s.sprayOn {
		return
	}
	s.sprayOn = s.audio.Play(SoundSpray, PlayOptions{Loop: true, Volume: 0.5})
}

func (s *Session) stopSpray() {
	if s.audio != nil {
		s.audio.Stop(SoundSpray)
	}
	s.sprayOn = false
}

// Update advances the session by dt seconds.
func (s *Session) Update(dt float64) {
	if s.state != Active && s.state != Cleared {
		return
	}
	dt = sanitizeDelta(dt)
	s.can.Update(dt)

	canPaint := s.can.CanPaint()
	if s.dragging && canPaint {
		s.paintTimer += dt
		if s.paintTimer >= PaintInterval {
			s.paintTimer = 0
			if last, ok := s.stroke.Last(); ok {
				last.Pressure = s.stroke.Pressure()
				s.stamp([]StrokePoint{last})
			}
		}
		// A can emptied mid-drag and refilled by a shake resumes draining.
		s.can.StartSpraying()
		s.playSpray()
	} else if s.sprayOn {
		s.stopSpray()
	}

	if s.dirty || (s.dragging && canPaint) {
		s.mask.RefreshMask()
		s.dirty = false
	}
}

// Resize rescales the display layers. The paint surface keeps the size
// it was allocated with.
func (s *Session) Resize(width, height int) {
	if s.scene == nil || s.state == Disposed {
		return
	}
	s.scene.Resize(width, height)
}

// SetBrushSize changes the brush diameter, clamped to [MinBrushSize, MaxBrushSize].
func (s *Session) SetBrushSize(v float64) {
	s.set(&s.cfg.BrushSize, v, MinBrushSize, MaxBrushSize)
}

// SetBrushHardness changes the sharpness of the dab edge,
// clamped to [MinBrushHardness, MaxBrushHardness].
func (s *Session) SetBrushHardness(v float64) {
	s.set(&s.cfg.BrushHardness, v, MinBrushHardness, MaxBrushHardness)
}

// SetPaintAlpha changes the opacity of the paint.
func (s *Session) SetPaintAlpha(v float64) {
	s.set(&s.cfg.PaintAlpha, v, 0, 1)
}

func (s *Session) set(field *float64, v, lo, hi float64) {
	if !finite(v) {
		return
	}
	*field = utils.Clamp(v, lo, hi)
	if s.panel != nil {
		s.panel.ConfigChanged(s.cfg)
	}
}

// Clear wipes the paint surface and the mask and refills the can.
// A session which is not active yet stays Ready.
func (s *Session) Clear() {
	switch s.state {
	case Ready, Active, Cleared:
	default:
		return
	}
	s.mask.ClearAll()
	s.can.Refill()
	s.dirty = false
	if s.state != Ready {
		s.state = Cleared
	}
}

// PressureState returns the can state.
func (s *Session) PressureState() PressureState {
	if s.can == nil {
		return PressureState{Pressure: 1}
	}
	return s.can.State()
}

// Wobble returns the can tilt angle in radians.
func (s *Session) Wobble() float64 {
	if s.can == nil {
		return 0
	}
	return s.can.Wobble()
}

// Gauge returns the pressure indicator.
func (s *Session) Gauge() Gauge {
	return NewGauge(s.PressureState().Pressure)
}

// Pointer returns the last pointer position.
func (s *Session) Pointer() (image.Point, bool) {
	return s.pointer, s.hasPointer
}

// Dragging reports whether a stroke is in progress.
func (s *Session) Dragging() bool {
	return s.dragging
}

// Surface returns the paint surface, nil before initialization.
func (s *Session) Surface() *image.RGBA {
	if s.mask == nil {
		return nil
	}
	return s.mask.Surface()
}

// MaskEngine returns the reveal mask engine, nil before initialization.
func (s *Session) MaskEngine() *RevealMaskEngine {
	return s.mask
}

// MaskImage returns the reveal mask as an alpha image.
func (s *Session) MaskImage() *image.Alpha {
	if s.mask == nil {
		return nil
	}
	return s.mask.MaskImage()
}

// Assets returns the loaded imagery.
func (s *Session) Assets() *Assets {
	return s.assets
}

// Brush returns the stamp renderer.
func (s *Session) Brush() *BrushStampRenderer {
	return s.brush
}

// Stroke returns the stroke sampler.
func (s *Session) Stroke() *StrokeSampler {
	return s.stroke
}

// Compose renders the wall, the outline and the revealed artwork into dst.
// dst is expected to have the display size.
func (s *Session) Compose(dst *image.RGBA) {
	if s.scene == nil {
		return
	}
	s.scene.Compose(dst, s.mask.MaskImage())
}

// Frame allocates a display sized image and composes the current frame into it.
func (s *Session) Frame() *image.RGBA {
	if s.scene == nil {
		return nil
	}
	w, h := s.scene.Size()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	s.Compose(dst)

	return dst
}

// Stats returns the session counters.
func (s *Session) Stats() SessionStats {
	if s.brush == nil {
		return SessionStats{}
	}
	bs := s.brush.Stats()
	return SessionStats{
		Stamps:        bs.Stamps,
		Skipped:       bs.Skipped,
		MaskRefreshes: s.mask.Refreshes(),
		Coverage:      s.mask.Coverage(),
	}
}
