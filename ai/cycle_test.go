package ai

import (
	"sync"
	"testing"

	"snake-autopilot/game/types"

	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"
)

// walk follows the map from the origin for n steps and returns the distinct
// cells seen and the final cell.
func walk(c *CycleMap, n int) (map[types.Point]bool, types.Point) {
	seen := map[types.Point]bool{}
	p := types.Point{}
	for i := 0; i < n; i++ {
		seen[p] = true
		p, _ = c.Next(p)
	}
	return seen, p
}

func TestBuildCycle(t *testing.T) {
	Convey("Given a 20x20 grid", t, func() {
		c, err := BuildCycle(20, 20)
		So(err, ShouldBeNil)

		Convey("400 steps visit 400 distinct cells and return to the origin", func() {
			seen, end := walk(c, 400)
			So(len(seen), ShouldEqual, 400)
			So(end, ShouldResemble, types.Point{})
		})

		Convey("Every step is orthogonal", func() {
			So(c.Adjacent(), ShouldBeTrue)
		})

		Convey("Interior steps keep column 0 free as the return lane", func() {
			q, err := c.Next(types.Point{X: 1, Y: 1})
			So(err, ShouldBeNil)
			So(q, ShouldResemble, types.Point{X: 1, Y: 2})
			So(ZigzagNext(types.Point{X: 1, Y: 1}, 20, 20), ShouldResemble, types.Point{X: 0, Y: 1})

			q, err = c.Next(types.Point{X: 0, Y: 5})
			So(err, ShouldBeNil)
			So(q, ShouldResemble, types.Point{X: 0, Y: 4})
		})
	})

	Convey("Every supported grid yields a total, closed tour", t, func() {
		for w := 1; w <= 9; w++ {
			for h := 1; h <= 9; h++ {
				if w*h < 2 {
					continue
				}
				c, err := BuildCycle(w, h)
				So(err, ShouldBeNil)
				So(c.Len(), ShouldEqual, w*h)

				for y := 0; y < h; y++ {
					for x := 0; x < w; x++ {
						p := types.Point{X: x, Y: y}
						q, err := c.Next(p)
						So(err, ShouldBeNil)
						So(q, ShouldNotResemble, p)
						So(c.Grid().Contains(q), ShouldBeTrue)
					}
				}

				seen, end := walk(c, w*h)
				So(len(seen), ShouldEqual, w*h)
				So(end, ShouldResemble, types.Point{})
				So(c.Adjacent(), ShouldEqual, HasTour(w, h))
			}
		}
	})

	Convey("Odd heights with even widths still close orthogonally", t, func() {
		c, err := BuildCycle(4, 5)
		So(err, ShouldBeNil)
		So(c.Adjacent(), ShouldBeTrue)
		order := c.Order()
		So(len(order), ShouldEqual, 20)
		So(order[0], ShouldResemble, types.Point{})
		last := order[len(order)-1]
		So(last.IsAdjacent(types.Point{}), ShouldBeTrue)
	})

	Convey("Odd by odd grids close with a single jump", t, func() {
		c, err := BuildCycle(5, 5)
		So(err, ShouldBeNil)
		So(c.Adjacent(), ShouldBeFalse)
		jumps := 0
		for _, p := range c.Order() {
			q, _ := c.Next(p)
			if !p.IsAdjacent(q) {
				jumps++
			}
		}
		So(jumps, ShouldEqual, 1)
	})

	Convey("Degenerate grids are rejected at build time", t, func() {
		_, err := BuildCycle(1, 1)
		So(errors.Is(err, ErrNoTour), ShouldBeTrue)
		_, err = BuildCycle(0, 4)
		So(errors.Is(err, types.ErrInvalidGrid), ShouldBeTrue)
	})
}

func TestCycleMapValidate(t *testing.T) {
	Convey("Given a hand-built map with two disjoint loops", t, func() {
		grid := types.Grid{Width: 2, Height: 2}
		c := &CycleMap{grid: grid, next: make([]types.Point, 4)}
		c.next[grid.Index(types.Point{X: 0, Y: 0})] = types.Point{X: 1, Y: 0}
		c.next[grid.Index(types.Point{X: 1, Y: 0})] = types.Point{X: 0, Y: 0}
		c.next[grid.Index(types.Point{X: 0, Y: 1})] = types.Point{X: 1, Y: 1}
		c.next[grid.Index(types.Point{X: 1, Y: 1})] = types.Point{X: 0, Y: 1}

		Convey("Validation reports a construction defect", func() {
			err := c.validate()
			So(errors.Is(err, ErrInvalidCycle), ShouldBeTrue)
		})
	})

	Convey("Given a map with a cell pointing at itself", t, func() {
		grid := types.Grid{Width: 2, Height: 1}
		c := &CycleMap{grid: grid, next: []types.Point{{X: 0, Y: 0}, {X: 0, Y: 0}}}
		So(errors.Is(c.validate(), ErrInvalidCycle), ShouldBeTrue)
	})
}

func TestCycleNavigator(t *testing.T) {
	Convey("Given a cycle navigator on a 6x4 grid", t, func() {
		grid := types.Grid{Width: 6, Height: 4}
		nav, err := New(KindCycle, grid)
		So(err, ShouldBeNil)
		So(nav.Kind(), ShouldEqual, KindCycle)

		Convey("Next is the successor lookup", func() {
			next, err := nav.Next(State{Head: types.Point{}, Grid: grid})
			So(err, ShouldBeNil)
			So(next, ShouldResemble, types.Point{X: 1, Y: 0})
		})

		Convey("A head off the map is a precondition violation", func() {
			_, err := nav.Next(State{Head: types.Point{X: 6, Y: 0}, Grid: grid})
			So(errors.Is(err, ErrUnknownCell), ShouldBeTrue)
		})

		Convey("A board with different dimensions is rejected", func() {
			_, err := nav.Next(State{Head: types.Point{}, Grid: types.Grid{Width: 7, Height: 4}})
			So(errors.Is(err, ErrUnknownCell), ShouldBeTrue)
		})

		Convey("The published map is safe for concurrent readers", func() {
			m := nav.(*Cycle).Map()
			var wg sync.WaitGroup
			results := make([]int, 8)
			for i := range results {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					seen, _ := walk(m, m.Len())
					results[i] = len(seen)
				}(i)
			}
			wg.Wait()
			for _, n := range results {
				So(n, ShouldEqual, 24)
			}
		})
	})
}
