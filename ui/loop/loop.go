// Package loop paces a board for interactive presenters.
package loop

import (
	"time"

	"snake-autopilot/game"
)

const (
	// WinHold is how long a filled board stays on screen before the
	// presenter exits.
	WinHold = 3 * time.Second
	// RestartDelay is how long a lost round stays on screen before the
	// board resets.
	RestartDelay = time.Second
)

// Driver ticks a board at a fixed interval from a presenter's frame loop.
type Driver struct {
	board    *game.Game
	tick     time.Duration
	lastTick time.Time
	endedAt  time.Time
}

func New(board *game.Game, tick time.Duration) *Driver {
	return &Driver{board: board, tick: tick}
}

func (d *Driver) Board() *game.Game {
	return d.board
}

// Step advances the board if a tick is due at now. Lost and stalled rounds
// restart after RestartDelay. done turns true once a won board has been
// held for WinHold. A non-nil error comes from the navigator and ends the
// session.
func (d *Driver) Step(now time.Time) (done bool, err error) {
	switch d.board.Status() {
	case game.Running:
		if !d.lastTick.IsZero() && now.Sub(d.lastTick) < d.tick {
			return false, nil
		}
		d.lastTick = now
		out, err := d.board.Update()
		if err != nil {
			return false, err
		}
		if out.Status != game.Running {
			d.endedAt = now
		}
		return false, nil

	case game.Won:
		if d.endedAt.IsZero() {
			d.endedAt = now
		}
		return now.Sub(d.endedAt) >= WinHold, nil

	default:
		if d.endedAt.IsZero() {
			d.endedAt = now
		}
		if now.Sub(d.endedAt) >= RestartDelay {
			d.board.Reset()
			d.endedAt = time.Time{}
			d.lastTick = now
		}
		return false, nil
	}
}
