package render

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/physcii/core"
)

// eventBuffer matches the poller backlog the tick loop drains per frame
const eventBuffer = 100

// glyphPalette colors sprites by glyph so same-named sprites share a color
var glyphPalette = [...]tcell.Color{
	tcell.ColorRed,
	tcell.ColorGreen,
	tcell.ColorYellow,
	tcell.ColorBlue,
	tcell.ColorFuchsia,
	tcell.ColorAqua,
}

// Screen is a tcell-backed Surface and QuitPoller
// Input is read by a dedicated goroutine into a buffered channel so PollQuitKey never blocks
type Screen struct {
	screen tcell.Screen
	events chan tcell.Event
	done   chan struct{}

	borderStyle tcell.Style
	textStyle   tcell.Style

	finiOnce sync.Once
}

// NewScreen initializes the terminal
func NewScreen() (*Screen, error) {
	ts, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}
	return Attach(ts)
}

// Attach initializes an existing tcell screen and starts the input poller
func Attach(ts tcell.Screen) (*Screen, error) {
	if err := ts.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	ts.HideCursor()
	ts.SetStyle(tcell.StyleDefault)
	ts.Clear()

	s := &Screen{
		screen:      ts,
		events:      make(chan tcell.Event, eventBuffer),
		done:        make(chan struct{}),
		borderStyle: tcell.StyleDefault.Foreground(tcell.ColorGray),
		textStyle:   tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true),
	}
	core.Go(s.poll)
	return s, nil
}

// poll forwards terminal events until Fini; PollEvent returns nil once the screen is finalized
func (s *Screen) poll() {
	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case s.events <- ev:
		case <-s.done:
			return
		}
	}
}

func (s *Screen) Size() (width, height int) {
	return s.screen.Size()
}

func (s *Screen) Clear() {
	s.screen.Clear()
}

func (s *Screen) DrawCell(row, col int, glyph rune, layer Layer) {
	s.screen.SetContent(col, row, glyph, nil, s.style(glyph, layer))
}

func (s *Screen) Show() {
	s.screen.Show()
}

// PollQuitKey drains pending input and reports q, Q, Esc or Ctrl-C
// Resize events trigger a full redraw on the next Show
func (s *Screen) PollQuitKey() bool {
	for {
		select {
		case ev := <-s.events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if isQuitKey(ev) {
					return true
				}
			case *tcell.EventResize:
				s.screen.Sync()
			}
		default:
			return false
		}
	}
}

// Fini restores the terminal, safe to call more than once
func (s *Screen) Fini() {
	s.finiOnce.Do(func() {
		close(s.done)
		s.screen.Fini()
	})
}

// style picks the cell style from the layer it was drawn on
func (s *Screen) style(glyph rune, layer Layer) tcell.Style {
	switch layer {
	case LayerBorder:
		return s.borderStyle
	case LayerSprite:
		return spriteStyle(glyph)
	default:
		return s.textStyle
	}
}

func spriteStyle(glyph rune) tcell.Style {
	return tcell.StyleDefault.Foreground(glyphPalette[int(glyph)%len(glyphPalette)])
}

func isQuitKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q' || ev.Rune() == 'Q'
	}
	return false
}
