package types

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrInvalidGrid is returned for grids with a dimension smaller than one cell.
var ErrInvalidGrid = errors.New("invalid grid")

// Point is a grid cell. (0,0) is the top-left corner.
type Point struct {
	X, Y int
}

// Add returns p shifted by the unit delta of d.
func (p Point) Add(d Direction) Point {
	v := d.ToPoint()
	return Point{X: p.X + v.X, Y: p.Y + v.Y}
}

// Manhattan returns the L1 distance between p and q.
func (p Point) Manhattan(q Point) int {
	return abs(p.X-q.X) + abs(p.Y-q.Y)
}

// IsAdjacent reports whether q is one orthogonal step away from p.
func (p Point) IsAdjacent(q Point) bool {
	return p.Manhattan(q) == 1
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Grid represents the game grid dimensions
type Grid struct {
	Width  int
	Height int
}

// NewGrid validates the dimensions and returns the grid.
func NewGrid(width, height int) (Grid, error) {
	g := Grid{Width: width, Height: height}
	if err := g.Validate(); err != nil {
		return Grid{}, err
	}
	return g, nil
}

func (g Grid) Validate() error {
	if g.Width < 1 || g.Height < 1 {
		return errors.Wrapf(ErrInvalidGrid, "%dx%d", g.Width, g.Height)
	}
	return nil
}

// Cells is the number of cells on the grid.
func (g Grid) Cells() int {
	return g.Width * g.Height
}

// Contains reports whether p lies inside [0,Width) x [0,Height).
func (g Grid) Contains(p Point) bool {
	return p.X >= 0 && p.X < g.Width && p.Y >= 0 && p.Y < g.Height
}

// Index maps an in-grid point to its row-major index.
func (g Grid) Index(p Point) int {
	return p.Y*g.Width + p.X
}

func (g Grid) String() string {
	return fmt.Sprintf("%dx%d", g.Width, g.Height)
}

// Direction is one of the four cardinal moves. The declaration order is the
// canonical order used when scanning all moves.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Directions lists every direction in canonical order.
var Directions = [4]Direction{Up, Down, Left, Right}

// ToPoint converts a Direction into its unit delta.
func (d Direction) ToPoint() Point {
	switch d {
	case Up:
		return Point{X: 0, Y: -1}
	case Down:
		return Point{X: 0, Y: 1}
	case Left:
		return Point{X: -1, Y: 0}
	case Right:
		return Point{X: 1, Y: 0}
	default:
		return Point{}
	}
}

// Opposite returns the reverse direction.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	default:
		return Left
	}
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// DirectionBetween returns the direction that moves from one cell to an
// adjacent one. ok is false when the cells are not adjacent.
func DirectionBetween(from, to Point) (d Direction, ok bool) {
	if !from.IsAdjacent(to) {
		return Right, false
	}
	for _, d := range Directions {
		if from.Add(d) == to {
			return d, true
		}
	}
	return Right, false
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
