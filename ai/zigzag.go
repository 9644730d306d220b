package ai

import "snake-autopilot/game/types"

// ZigzagNext returns the cell after head on a row-by-row boustrophedon walk:
// even rows run right, odd rows run left, a row end drops one row and the
// last cell of the grid wraps to (0,0).
func ZigzagNext(head types.Point, width, height int) types.Point {
	x, y := head.X, head.Y

	if y%2 == 0 {
		if x < width-1 {
			return types.Point{X: x + 1, Y: y}
		}
	} else if x > 0 {
		return types.Point{X: x - 1, Y: y}
	}

	if y >= height-1 {
		return types.Point{X: 0, Y: 0}
	}
	return types.Point{X: x, Y: y + 1}
}

// Zigzag ignores the target and sweeps the grid.
type Zigzag struct{}

func (Zigzag) Kind() Kind { return KindZigzag }

func (Zigzag) Next(s State) (types.Point, error) {
	return ZigzagNext(s.Head, s.Grid.Width, s.Grid.Height), nil
}
