package ai

import "snake-autopilot/game/types"

// IsSafe reports whether p is inside the grid and not on the body. The body
// is the snapshot from before the move, so the tail still counts.
func IsSafe(p types.Point, body []types.Point, grid types.Grid) bool {
	if !grid.Contains(p) {
		return false
	}
	for _, part := range body {
		if part == p {
			return false
		}
	}
	return true
}

// GreedyNext steps toward target along the dominant axis first (horizontal on
// ties), then the other axis, then any safe direction in canonical order,
// then the current direction. With nothing safe it returns Right and leaves
// the collision to the board.
func GreedyNext(head, target types.Point, body []types.Point, grid types.Grid, current types.Direction) types.Direction {
	dx := target.X - head.X
	dy := target.Y - head.Y

	candidates := make([]types.Direction, 0, 2)
	h, hasH := horizontal(dx)
	v, hasV := vertical(dy)
	if abs(dx) >= abs(dy) {
		candidates = appendIf(candidates, h, hasH)
		candidates = appendIf(candidates, v, hasV)
	} else {
		candidates = appendIf(candidates, v, hasV)
		candidates = appendIf(candidates, h, hasH)
	}

	for _, d := range candidates {
		if IsSafe(head.Add(d), body, grid) {
			return d
		}
	}
	for _, d := range types.Directions {
		if IsSafe(head.Add(d), body, grid) {
			return d
		}
	}
	if IsSafe(head.Add(current), body, grid) {
		return current
	}
	return types.Right
}

func horizontal(dx int) (types.Direction, bool) {
	switch {
	case dx > 0:
		return types.Right, true
	case dx < 0:
		return types.Left, true
	}
	return types.Right, false
}

func vertical(dy int) (types.Direction, bool) {
	switch {
	case dy > 0:
		return types.Down, true
	case dy < 0:
		return types.Up, true
	}
	return types.Down, false
}

func appendIf(ds []types.Direction, d types.Direction, ok bool) []types.Direction {
	if ok {
		return append(ds, d)
	}
	return ds
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Greedy chases the target with the safety-checked fallback chain.
type Greedy struct{}

func (Greedy) Kind() Kind { return KindGreedy }

// Direction is the raw decision; Next applies it to the head.
func (Greedy) Direction(s State) types.Direction {
	return GreedyNext(s.Head, s.Target, s.Body, s.Grid, s.Direction)
}

func (g Greedy) Next(s State) (types.Point, error) {
	return s.Head.Add(g.Direction(s)), nil
}
