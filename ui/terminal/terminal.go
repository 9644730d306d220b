// Package terminal presents a board in a text terminal through tcell.
package terminal

import (
	"context"
	"fmt"
	"time"

	"snake-autopilot/game"
	"snake-autopilot/game/types"
	"snake-autopilot/ui/loop"

	"github.com/gdamore/tcell/v2"
)

// frameInterval caps redraws at roughly 60 per second.
const frameInterval = 16 * time.Millisecond

var (
	styleBorder = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleEmpty  = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	styleBody   = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleHead   = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleTarget = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleText   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
)

// Glyphs used on the board.
const (
	glyphEmpty  = '·'
	glyphBody   = '█'
	glyphTarget = '●'
)

var headGlyphs = map[types.Direction]rune{
	types.Up:    '▲',
	types.Down:  '▼',
	types.Left:  '◀',
	types.Right: '▶',
}

// Terminal draws the board with a one-cell border at the top-left corner
// and a status line beneath it.
type Terminal struct {
	screen tcell.Screen
	driver *loop.Driver
}

// NewScreen opens and initialises the real terminal. Callers must Fini it.
func NewScreen() (tcell.Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	return screen, nil
}

// New presents board on an initialised screen, ticking every tick.
func New(screen tcell.Screen, board *game.Game, tick time.Duration) *Terminal {
	return &Terminal{
		screen: screen,
		driver: loop.New(board, tick),
	}
}

// Run draws frames until the user quits, ctx is cancelled, a won board has
// been held on screen, or the navigator fails.
func (t *Terminal) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := t.screen.PollEvent()
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

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	t.Draw(t.driver.Board().View())
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-events:
			if !t.handleEvent(ev) {
				return nil
			}

		case now := <-ticker.C:
			finished, err := t.driver.Step(now)
			if err != nil {
				return err
			}
			t.Draw(t.driver.Board().View())
			if finished {
				return nil
			}
		}
	}
}

// handleEvent returns false when the event asks to quit.
func (t *Terminal) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() == tcell.KeyRune && (ev.Rune() == 'q' || ev.Rune() == 'Q') {
			return false
		}
	case *tcell.EventResize:
		t.screen.Sync()
	}
	return true
}

// Draw renders one frame of v.
func (t *Terminal) Draw(v game.View) {
	t.screen.Clear()

	w, h := v.Grid.Width, v.Grid.Height
	for x := 0; x <= w+1; x++ {
		t.screen.SetContent(x, 0, '─', nil, styleBorder)
		t.screen.SetContent(x, h+1, '─', nil, styleBorder)
	}
	for y := 0; y <= h+1; y++ {
		t.screen.SetContent(0, y, '│', nil, styleBorder)
		t.screen.SetContent(w+1, y, '│', nil, styleBorder)
	}
	t.screen.SetContent(0, 0, '┌', nil, styleBorder)
	t.screen.SetContent(w+1, 0, '┐', nil, styleBorder)
	t.screen.SetContent(0, h+1, '└', nil, styleBorder)
	t.screen.SetContent(w+1, h+1, '┘', nil, styleBorder)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			t.screen.SetContent(x+1, y+1, glyphEmpty, nil, styleEmpty)
		}
	}
	if v.HasTarget {
		t.screen.SetContent(v.Target.X+1, v.Target.Y+1, glyphTarget, nil, styleTarget)
	}
	for i, p := range v.Body {
		if i == 0 {
			continue
		}
		t.screen.SetContent(p.X+1, p.Y+1, glyphBody, nil, styleBody)
	}
	t.screen.SetContent(v.Head.X+1, v.Head.Y+1, headGlyphs[v.Direction], nil, styleHead)

	t.drawText(0, h+2, fmt.Sprintf("Score: %d  Steps: %d  [%s]", v.Score, v.Steps, v.Navigator))
	t.drawText(0, h+3, fmt.Sprintf("Session: %d  All-Time: %d", v.SessionHigh, v.HighScore))
	switch v.Status {
	case game.Won:
		t.drawText(0, h+4, "Board filled!")
	case game.Lost:
		t.drawText(0, h+4, fmt.Sprintf("Game Over: %s collision (Restarting...)", v.Collision))
	case game.Stalled:
		t.drawText(0, h+4, "Stalled (Restarting...)")
	default:
		t.drawText(0, h+4, "q to quit")
	}

	t.screen.Show()
}

func (t *Terminal) drawText(x, y int, s string) {
	for _, r := range s {
		t.screen.SetContent(x, y, r, nil, styleText)
		x++
	}
}
