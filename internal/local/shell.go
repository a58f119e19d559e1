// Package local runs the editor and map on the local terminal through tcell.
package local

import (
	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"

	"pixel-art-map/internal/app"
	"pixel-art-map/internal/input"
	"pixel-art-map/internal/render"
	"pixel-art-map/internal/sprites"
)

// Shell drives one application on a tcell screen.
type Shell struct {
	screen tcell.Screen
	store  *sprites.Store
	log    logrus.FieldLogger
	mute   bool
	mouse  mouseTracker
}

// New creates a shell for an initialized screen. It panics with
// sprites.ErrNoStore if store is nil.
func New(screen tcell.Screen, store *sprites.Store, log logrus.FieldLogger, mute bool) *Shell {
	return &Shell{
		screen: screen,
		store:  sprites.MustUse(store),
		log:    log,
		mute:   mute,
	}
}

// Run handles events until the user quits. The caller owns the screen and
// finalizes it afterwards.
func (s *Shell) Run() error {
	opts := []app.Option{app.WithLogger(s.log)}
	if !s.mute {
		chime, err := NewChime()
		if err != nil {
			// Non-fatal, saving works without sound
			s.log.WithError(err).Warn("Audio initialization failed")
		}
		defer chime.Close()
		opts = append(opts, app.WithSaveHook(func(sprites.Sprite) { chime.Play() }))
	}

	a := app.New(s.store, opts...)
	s.screen.EnableMouse()
	s.screen.HideCursor()
	a.Resize(s.screen.Size())

	subID, changed := s.store.Subscribe()
	defer s.store.Unsubscribe(subID)

	events := make(chan tcell.Event, 64)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			ev := s.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	for {
		if a.NeedsRedraw() {
			paint(s.screen, a.Draw())
			s.screen.Show()
		}

		select {
		case ev := <-events:
			if s.handle(a, ev) {
				return nil
			}
		case <-changed:
			a.MarkDirty()
		}
	}
}

// handle applies one tcell event and reports whether to quit.
func (s *Shell) handle(a *app.App, ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return isQuitKey(ev.Key(), ev.Rune())
	case *tcell.EventMouse:
		x, y := ev.Position()
		return a.Handle(s.mouse.translate(x, y, ev.Buttons()))
	case *tcell.EventResize:
		a.Resize(ev.Size())
		s.screen.Sync()
	}
	return false
}

func isQuitKey(key tcell.Key, r rune) bool {
	if key == tcell.KeyCtrlC {
		return true
	}
	return key == tcell.KeyRune && (r == 'q' || r == 'Q')
}

// mouseTracker turns tcell's button-state reports into press, drag and
// release transitions.
type mouseTracker struct {
	held input.Button
}

func (m *mouseTracker) translate(x, y int, buttons tcell.ButtonMask) input.Event {
	switch {
	case buttons&tcell.WheelUp != 0:
		return input.Mouse(input.ActionPress, input.ButtonWheelUp, x, y)
	case buttons&tcell.WheelDown != 0:
		return input.Mouse(input.ActionPress, input.ButtonWheelDown, x, y)
	}

	btn := buttonOf(buttons)
	switch {
	case m.held == input.ButtonNone && btn != input.ButtonNone:
		m.held = btn
		return input.Mouse(input.ActionPress, btn, x, y)
	case m.held != input.ButtonNone && btn != input.ButtonNone:
		return input.Mouse(input.ActionDrag, m.held, x, y)
	case m.held != input.ButtonNone:
		ev := input.Mouse(input.ActionRelease, m.held, x, y)
		m.held = input.ButtonNone
		return ev
	default:
		return input.Mouse(input.ActionMove, input.ButtonNone, x, y)
	}
}

func buttonOf(b tcell.ButtonMask) input.Button {
	switch {
	case b&tcell.ButtonPrimary != 0:
		return input.ButtonLeft
	case b&tcell.ButtonMiddle != 0:
		return input.ButtonMiddle
	case b&tcell.ButtonSecondary != 0:
		return input.ButtonRight
	}
	return input.ButtonNone
}

// cellSetter is the part of tcell.Screen that paint needs.
type cellSetter interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
}

// paint copies a frame onto the screen in true colour. tcell diffs it.
func paint(dst cellSetter, buf *render.Buffer) {
	for y := 0; y < buf.Height(); y++ {
		for x := 0; x < buf.Width(); x++ {
			c := buf.At(x, y)
			dst.SetContent(x, y, cellRune(c), nil, cellStyle(c))
		}
	}
}

func cellRune(c render.Cell) rune {
	if c.Ch == 0 {
		return ' '
	}
	return c.Ch
}

func cellStyle(c render.Cell) tcell.Style {
	return tcell.StyleDefault.
		Foreground(tcell.NewRGBColor(int32(c.FgR), int32(c.FgG), int32(c.FgB))).
		Background(tcell.NewRGBColor(int32(c.BgR), int32(c.BgG), int32(c.BgB))).
		Bold(c.Bold)
}
