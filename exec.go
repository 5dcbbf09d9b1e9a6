package graffiti

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/esimov/graffiti/export"
	"github.com/esimov/graffiti/utils"
	"github.com/pkg/errors"
	"golang.org/x/term"
)

// Script event types.
const (
	EventDown     = "down"
	EventMove     = "move"
	EventUp       = "up"
	EventCancel   = "cancel"
	EventKey      = "key"
	EventFrame    = "frame"
	EventClear    = "clear"
	EventSize     = "size"
	EventHardness = "hardness"
	EventAlpha    = "alpha"
)

// ScriptEvent is a single recorded input of a replay script.
type ScriptEvent struct {
	Type    string  `json:"type"`
	X       float64 `json:"x,omitempty"`
	Y       float64 `json:"y,omitempty"`
	T       float64 `json:"t,omitempty"` // milliseconds
	Key     string  `json:"key,omitempty"`
	Pressed bool    `json:"pressed,omitempty"`
	DT      float64 `json:"dt,omitempty"` // seconds
	Value   float64 `json:"value,omitempty"`
}

// Script is a recorded painting session.
type Script struct {
	Width  int           `json:"width,omitempty"`
	Height int           `json:"height,omitempty"`
	Events []ScriptEvent `json:"events"`
}

// LoadScript decodes a JSON replay script.
func LoadScript(r io.Reader) (*Script, error) {
	var s Script
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, errors.Wrap(err, "decoding replay script")
	}
	for i, ev := range s.Events {
		switch ev.Type {
		case EventDown, EventMove, EventUp, EventCancel, EventKey, EventFrame,
			EventClear, EventSize, EventHardness, EventAlpha:
		default:
			return nil, errors.Errorf("event %d: unknown type %q", i, ev.Type)
		}
	}
	return &s, nil
}

// Replay feeds the script events to an active session through hub.
func Replay(ctx context.Context, s *Session, hub *EventHub, script *Script) error {
	for _, ev := range script.Events {
		if err := ctx.Err(); err != nil {
			return err
		}
		t := time.Duration(ev.T * float64(time.Millisecond))

		switch ev.Type {
		case EventDown:
			hub.Pointer(PointerEvent{Kind: PointerDown, X: ev.X, Y: ev.Y, Time: t})
		case EventMove:
			hub.Pointer(PointerEvent{Kind: PointerMove, X: ev.X, Y: ev.Y, Time: t})
		case EventUp:
			hub.Pointer(PointerEvent{Kind: PointerUp, X: ev.X, Y: ev.Y, Time: t})
		case EventCancel:
			hub.Pointer(PointerEvent{Kind: PointerCancel, X: ev.X, Y: ev.Y, Time: t})
		case EventKey:
			hub.Key(KeyEvent{Name: ev.Key, Pressed: ev.Pressed})
		case EventFrame:
			hub.Frame(ev.DT)
		case EventClear:
			s.Clear()
		case EventSize:
			s.SetBrushSize(ev.Value)
		case EventHardness:
			s.SetBrushHardness(ev.Value)
		case EventAlpha:
			s.SetPaintAlpha(ev.Value)
		}
	}
	// Flush the paint applied since the last frame into the mask.
	hub.Frame(DefaultDelta)

	return nil
}

// Ops describes a headless replay run.
type Ops struct {
	Script, Dst, PipeName string
	Width, Height         int
	Seed                  int64

	Loader  Loader
	Spinner *utils.Spinner
}

// Execute replays the script and writes the resulting wall to the destination.
func (op *Ops) Execute(ctx context.Context, cfg Config) (SessionStats, error) {
	var stats SessionStats

	if op.Spinner == nil {
		op.Spinner = utils.NewSpinner(replayMessage("replaying the script..."), time.Millisecond*80, true)
	}
	op.Spinner.Start()
	defer op.Spinner.Stop()

	script, err := op.readScript()
	if err != nil {
		op.Spinner.StopMsg = replayError()
		return stats, err
	}
	width, height := op.Width, op.Height
	if script.Width > 0 && script.Height > 0 {
		width, height = script.Width, script.Height
	}

	opts := []Option{
		WithRand(NewRand(op.Seed)),
		WithProgress(func(p float64) {
			op.Spinner.SetMessage(replayMessage(fmt.Sprintf("loading assets %.0f%%", p*100)))
		}),
	}
	if op.Loader != nil {
		opts = append(opts, WithLoader(op.Loader))
	}
	s := NewSession(cfg, width, height, opts...)
	if err := s.Initialize(ctx); err != nil {
		op.Spinner.StopMsg = replayError()
		return stats, err
	}
	hub := NewEventHub()
	if err := s.Activate(hub); err != nil {
		op.Spinner.StopMsg = replayError()
		return stats, err
	}
	defer s.Dispose()

	op.Spinner.SetMessage(replayMessage("replaying the script..."))
	if err := Replay(ctx, s, hub, script); err != nil {
		op.Spinner.StopMsg = replayError()
		return stats, err
	}

	if err := op.write(s); err != nil {
		op.Spinner.StopMsg = replayError()
		return stats, err
	}
	op.Spinner.StopMsg = fmt.Sprintf("%s %s %s",
		utils.DecorateText("🎨 GRAFFITI", utils.StatusMessage),
		utils.DecorateText("⇢", utils.DefaultMessage),
		utils.DecorateText("the wall has been painted successfully ✔", utils.SuccessMessage),
	)
	return s.Stats(), nil
}

// readScript opens the replay script, be it a regular file or a pipe.
func (op *Ops) readScript() (*Script, error) {
	if op.Script == op.PipeName {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return nil, errors.New("`-` should be used with a pipe for stdin")
		}
		return LoadScript(os.Stdin)
	}
	f, err := os.Open(op.Script)
	if err != nil {
		return nil, errors.Wrap(err, "unable to open the replay script")
	}
	defer f.Close()

	return LoadScript(f)
}

// write exports the composed wall into the destination file or stdout.
func (op *Ops) write(s *Session) error {
	meta := export.Meta{
		Title:     filepath.Base(op.Script),
		SessionID: s.ID(),
	}
	if op.Dst == op.PipeName {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return errors.New("`-` should be used with a pipe for stdout")
		}
		return export.Write(os.Stdout, s.Frame(), meta)
	}
	return export.SaveFile(op.Dst, s.Frame(), meta)
}

func replayMessage(msg string) string {
	return fmt.Sprintf("%s %s",
		utils.DecorateText("🎨 GRAFFITI", utils.StatusMessage),
		utils.DecorateText("⇢ "+msg, utils.DefaultMessage),
	)
}

func replayError() string {
	return fmt.Sprintf("%s %s %s",
		utils.DecorateText("🎨 GRAFFITI", utils.StatusMessage),
		utils.DecorateText("replaying the script failed...", utils.DefaultMessage),
		utils.DecorateText("✘", utils.ErrorMessage),
	)
}
