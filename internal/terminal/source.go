// Package terminal feeds tcell terminal input into a reactor as typed
// events.
package terminal

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/termflux/termflux/internal/events"
	"github.com/termflux/termflux/internal/log"
)

// Injector receives translated events. Satisfied by *reactor.Reactor.
type Injector interface {
	Inject(ev events.Event) error
}

// Config controls which terminal capabilities are enabled.
type Config struct {
	Mouse          bool
	BracketedPaste bool
	FocusEvents    bool
	Logger         *log.Logger
}

// Source owns one tcell screen and translates its events.
type Source struct {
	screen tcell.Screen
	target Injector
	cfg    Config
	logger *log.Logger

	mu      sync.Mutex
	running bool
	done    chan struct{}

	// translation state, touched only by the poll goroutine
	prevButtons tcell.ButtonMask
	prevCols    int
	prevRows    int
	pasting     bool
	pasteBuf    []rune
}

// New creates a source on the process terminal.
func New(target Injector, cfg Config) (*Source, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewWithScreen(screen, target, cfg), nil
}

// NewWithScreen creates a source on the given screen. Tests pass a
// tcell.NewSimulationScreen.
func NewWithScreen(screen tcell.Screen, target Injector, cfg Config) *Source {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Nop()
	}
	return &Source{
		screen: screen,
		target: target,
		cfg:    cfg,
		logger: logger.WithComponent("terminal"),
	}
}

// Start initializes the screen and begins the poll loop. Idempotent
// while running.
func (s *Source) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil
	}
	if err := s.screen.Init(); err != nil {
		return err
	}
	if s.cfg.Mouse {
		s.screen.EnableMouse()
	}
	if s.cfg.BracketedPaste {
		s.screen.EnablePaste()
	}
	if s.cfg.FocusEvents {
		s.screen.EnableFocus()
	}
	s.prevCols, s.prevRows = s.screen.Size()

	s.running = true
	s.done = make(chan struct{})
	go s.poll(s.done)
	return nil
}

// Stop finalizes the screen and ends the poll loop. Idempotent.
func (s *Source) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	done := s.done
	s.mu.Unlock()

	// Fini wakes PollEvent with nil; the interrupt covers screens that
	// are mid-poll.
	_ = s.screen.PostEvent(tcell.NewEventInterrupt(nil))
	s.screen.Fini()
	<-done
}

// Size returns the current terminal dimensions.
func (s *Source) Size() (cols, rows int) {
	return s.screen.Size()
}

func (s *Source) poll(done chan struct{}) {
	defer close(done)
	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			return
		}
		if _, ok := ev.(*tcell.EventInterrupt); ok {
			s.mu.Lock()
			running := s.running
			s.mu.Unlock()
			if !running {
				return
			}
			continue
		}
		s.handleEvent(ev)
	}
}

// handleEvent translates one tcell event and injects the result. Paste
// markers flip the collecting state instead of injecting; the rune key
// events between them accumulate into one PasteEvent.
func (s *Source) handleEvent(tev tcell.Event) {
	switch e := tev.(type) {
	case *tcell.EventKey:
		if s.pasting {
			if e.Key() == tcell.KeyRune {
				s.pasteBuf = append(s.pasteBuf, e.Rune())
			} else if e.Key() == tcell.KeyEnter {
				s.pasteBuf = append(s.pasteBuf, '\n')
			}
			return
		}
		s.inject(translateKey(e))

	case *tcell.EventMouse:
		ev := s.translateMouse(e)
		if ev != nil {
			s.inject(ev)
		}

	case *tcell.EventResize:
		cols, rows := e.Size()
		ev := events.NewResizeEvent(s.prevCols, s.prevRows, cols, rows)
		s.prevCols, s.prevRows = cols, rows
		s.inject(ev)

	case *tcell.EventPaste:
		if e.Start() {
			s.pasting = true
			s.pasteBuf = s.pasteBuf[:0]
			return
		}
		s.pasting = false
		s.inject(events.NewPasteEvent(string(s.pasteBuf)))

	case *tcell.EventFocus:
		s.inject(events.NewFocusEvent(e.Focused))
	}
}

func (s *Source) inject(ev events.Event) {
	if ev == nil {
		return
	}
	if err := s.target.Inject(ev); err != nil {
		s.logger.Debug("inject dropped: %v", err)
	}
}

// translateMouse derives press/release/scroll/move from the button
// state delta, the way tcell consumers have to.
func (s *Source) translateMouse(e *tcell.EventMouse) events.Event {
	x, y := e.Position()
	buttons := e.Buttons()
	mod := translateMod(e.Modifiers())
	prev := s.prevButtons
	s.prevButtons = buttons & ^(tcell.WheelUp | tcell.WheelDown)

	switch {
	case buttons&tcell.WheelUp != 0:
		return events.NewPointerEvent(events.PointerScroll, events.ButtonWheelUp, x, y, mod)
	case buttons&tcell.WheelDown != 0:
		return events.NewPointerEvent(events.PointerScroll, events.ButtonWheelDown, x, y, mod)
	}

	pressed := buttons & ^prev
	released := prev & ^buttons
	switch {
	case pressed != 0:
		return events.NewPointerEvent(events.PointerPress, translateButton(pressed), x, y, mod)
	case released != 0:
		return events.NewPointerEvent(events.PointerRelease, translateButton(released), x, y, mod)
	default:
		return events.NewPointerEvent(events.PointerMove, events.ButtonNone, x, y, mod)
	}
}

func translateButton(b tcell.ButtonMask) events.PointerButton {
	switch {
	case b&tcell.Button1 != 0:
		return events.ButtonPrimary
	case b&tcell.Button2 != 0:
		return events.ButtonSecondary
	case b&tcell.Button3 != 0:
		return events.ButtonMiddle
	}
	return events.ButtonNone
}
