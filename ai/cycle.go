package ai

import (
	"log/slog"

	"snake-autopilot/game/types"

	"github.com/pkg/errors"
)

var origin = types.Point{X: 0, Y: 0}

// CycleMap is a successor function over every cell of a grid forming a
// single closed tour through (0,0). It is immutable once built and safe for
// concurrent readers.
type CycleMap struct {
	grid     types.Grid
	next     []types.Point
	adjacent bool
}

// HasTour reports whether the grid admits a closed tour made only of
// orthogonal steps. Grids with an odd number of cells never do, and neither
// do single rows or columns longer than two cells.
func HasTour(width, height int) bool {
	if width*height == 2 {
		return true
	}
	return width >= 2 && height >= 2 && (width*height)%2 == 0
}

// BuildCycle constructs and validates the tour for a width x height grid.
//
// With an even number of rows, column 0 is kept as a return lane and the
// remaining columns are swept with the row-parity serpentine; the last row
// turns into the lane and the lane climbs back to (0,0). With an odd number
// of rows and an even number of columns the same tour is built on the
// transposed grid. Grids without an orthogonal tour (odd x odd, single
// rows/columns) follow the plain serpentine and close with one jump from
// its final cell back to (0,0); Adjacent reports false for those.
//
// Interior steps of the lane tours differ from ZigzagNext: they sweep
// columns 1..width-1 only, so on a grid of four or more rows (1,1) steps
// down to (1,2) instead of left to (0,1), leaving column 0 free for the
// climb back.
func BuildCycle(width, height int) (*CycleMap, error) {
	grid, err := types.NewGrid(width, height)
	if err != nil {
		return nil, err
	}
	if grid.Cells() < 2 {
		return nil, errors.Wrapf(ErrNoTour, "grid %s has a single cell", grid)
	}

	var succ func(types.Point) types.Point
	switch {
	case height%2 == 0 && width >= 2:
		succ = func(p types.Point) types.Point {
			return laneSuccessor(p, width, height)
		}
	case width%2 == 0 && height >= 2:
		succ = func(p types.Point) types.Point {
			q := laneSuccessor(types.Point{X: p.Y, Y: p.X}, height, width)
			return types.Point{X: q.Y, Y: q.X}
		}
	default:
		succ = func(p types.Point) types.Point {
			return ZigzagNext(p, width, height)
		}
	}

	c := &CycleMap{
		grid: grid,
		next: make([]types.Point, grid.Cells()),
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			p := types.Point{X: x, Y: y}
			c.next[grid.Index(p)] = succ(p)
		}
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// laneSuccessor is the even-height tour with column 0 reserved as the
// return lane.
func laneSuccessor(p types.Point, width, height int) types.Point {
	x, y := p.X, p.Y
	switch {
	case x == 0 && y > 0:
		return types.Point{X: 0, Y: y - 1}
	case x == 0:
		return types.Point{X: 1, Y: 0}
	case y%2 == 0:
		if x < width-1 {
			return types.Point{X: x + 1, Y: y}
		}
		return types.Point{X: x, Y: y + 1}
	case x > 1:
		return types.Point{X: x - 1, Y: y}
	case y == height-1:
		return types.Point{X: 0, Y: y}
	default:
		return types.Point{X: x, Y: y + 1}
	}
}

// validate walks the map from (0,0) and requires every cell exactly once
// before the walk closes.
func (c *CycleMap) validate() error {
	n := c.grid.Cells()
	if len(c.next) != n {
		return errors.Wrapf(ErrInvalidCycle, "%d entries for %d cells", len(c.next), n)
	}

	seen := make([]bool, n)
	adjacent := true
	p := origin
	for step := 0; step < n; step++ {
		if !c.grid.Contains(p) {
			return errors.Wrapf(ErrInvalidCycle, "step %d leaves the grid at %s", step, p)
		}
		idx := c.grid.Index(p)
		if seen[idx] {
			return errors.Wrapf(ErrInvalidCycle, "step %d revisits %s", step, p)
		}
		seen[idx] = true

		q := c.next[idx]
		if q == p {
			return errors.Wrapf(ErrInvalidCycle, "%s maps to itself", p)
		}
		if !p.IsAdjacent(q) {
			adjacent = false
		}
		p = q
	}
	if p != origin {
		return errors.Wrapf(ErrInvalidCycle, "tour ends at %s instead of %s", p, origin)
	}

	c.adjacent = adjacent
	return nil
}

// Next returns the successor of head.
func (c *CycleMap) Next(head types.Point) (types.Point, error) {
	if !c.grid.Contains(head) {
		return types.Point{}, errors.Wrapf(ErrUnknownCell, "%s on %s grid", head, c.grid)
	}
	return c.next[c.grid.Index(head)], nil
}

// Adjacent reports whether every step of the tour is a single orthogonal move.
func (c *CycleMap) Adjacent() bool { return c.adjacent }

func (c *CycleMap) Grid() types.Grid { return c.grid }

func (c *CycleMap) Len() int { return len(c.next) }

// Order returns the tour starting at (0,0).
func (c *CycleMap) Order() []types.Point {
	order := make([]types.Point, 0, len(c.next))
	p := origin
	for range c.next {
		order = append(order, p)
		p = c.next[c.grid.Index(p)]
	}
	return order
}

// Cycle follows a prebuilt CycleMap.
type Cycle struct {
	m *CycleMap
}

func NewCycle(grid types.Grid) (*Cycle, error) {
	m, err := BuildCycle(grid.Width, grid.Height)
	if err != nil {
		return nil, errors.Wrap(err, "build cycle")
	}
	slog.Debug("cycle built", "grid", grid.String(), "adjacent", m.Adjacent())
	return &Cycle{m: m}, nil
}

// NewCycleFromMap shares an already validated map, e.g. across batch sessions.
func NewCycleFromMap(m *CycleMap) *Cycle {
	return &Cycle{m: m}
}

func (c *Cycle) Kind() Kind { return KindCycle }

func (c *Cycle) Map() *CycleMap { return c.m }

func (c *Cycle) Next(s State) (types.Point, error) {
	if s.Grid != c.m.grid {
		return types.Point{}, errors.Wrapf(ErrUnknownCell, "board grid %s, cycle grid %s", s.Grid, c.m.grid)
	}
	return c.m.Next(s.Head)
}
