package ai

import (
	"testing"

	"snake-autopilot/game/types"

	. "github.com/smartystreets/goconvey/convey"
)

func TestGreedyPriority(t *testing.T) {
	grid := types.Grid{Width: 10, Height: 10}
	head := types.Point{X: 5, Y: 5}

	Convey("Given an empty 10x10 grid and the head at (5,5)", t, func() {
		body := []types.Point{head}

		Convey("A purely horizontal target yields Right", func() {
			d := GreedyNext(head, types.Point{X: 9, Y: 5}, body, grid, types.Up)
			So(d, ShouldEqual, types.Right)
		})

		Convey("A purely vertical target yields Up", func() {
			d := GreedyNext(head, types.Point{X: 5, Y: 1}, body, grid, types.Right)
			So(d, ShouldEqual, types.Up)
		})

		Convey("A diagonal tie prefers the horizontal axis", func() {
			d := GreedyNext(head, types.Point{X: 1, Y: 1}, body, grid, types.Down)
			So(d, ShouldEqual, types.Left)
		})

		Convey("A dominant vertical delta goes vertical first", func() {
			d := GreedyNext(head, types.Point{X: 6, Y: 9}, body, grid, types.Left)
			So(d, ShouldEqual, types.Down)
		})
	})

	Convey("When the preferred axis is blocked the other axis is tried", t, func() {
		body := []types.Point{head, {X: 6, Y: 5}}
		d := GreedyNext(head, types.Point{X: 9, Y: 7}, body, grid, types.Up)
		So(d, ShouldEqual, types.Down)
	})

	Convey("When both candidates are blocked the canonical order decides", t, func() {
		body := []types.Point{head, {X: 6, Y: 5}, {X: 5, Y: 6}}
		d := GreedyNext(head, types.Point{X: 9, Y: 9}, body, grid, types.Right)
		So(d, ShouldEqual, types.Up)
	})
}

func TestGreedyFallback(t *testing.T) {
	grid := types.Grid{Width: 10, Height: 10}
	head := types.Point{X: 5, Y: 5}

	Convey("Given a body around the head leaving only the current direction open", t, func() {
		for _, current := range types.Directions {
			body := []types.Point{head}
			for _, d := range types.Directions {
				if d != current {
					body = append(body, head.Add(d))
				}
			}
			d := GreedyNext(head, types.Point{X: 5, Y: 1}, body, grid, current)
			So(d, ShouldEqual, current)
		}
	})

	Convey("Given a head boxed in on every side", t, func() {
		body := []types.Point{head}
		for _, d := range types.Directions {
			body = append(body, head.Add(d))
		}
		Convey("The fixed fallback Right is returned", func() {
			So(GreedyNext(head, types.Point{X: 0, Y: 0}, body, grid, types.Up), ShouldEqual, types.Right)
		})
	})

	Convey("Given a 1x1 grid nothing is ever safe", t, func() {
		one := types.Grid{Width: 1, Height: 1}
		p := types.Point{}
		So(GreedyNext(p, p, []types.Point{p}, one, types.Left), ShouldEqual, types.Right)
	})
}

func TestGreedySafety(t *testing.T) {
	Convey("For every head, target and body prefix on a 4x4 grid", t, func() {
		grid := types.Grid{Width: 4, Height: 4}
		c, err := BuildCycle(4, 4)
		So(err, ShouldBeNil)
		tour := c.Order()

		for n := 1; n <= len(tour); n++ {
			// A body laid along the tour, head first.
			body := make([]types.Point, n)
			for i := 0; i < n; i++ {
				body[i] = tour[n-1-i]
			}
			head := body[0]
			for _, target := range tour {
				for _, current := range types.Directions {
					d := GreedyNext(head, target, body, grid, current)
					if IsSafe(head.Add(d), body, grid) {
						continue
					}
					anySafe := false
					for _, alt := range types.Directions {
						if IsSafe(head.Add(alt), body, grid) {
							anySafe = true
						}
					}
					So(anySafe, ShouldBeFalse)
				}
			}
		}
	})

	Convey("The tail cell still counts as occupied", t, func() {
		grid := types.Grid{Width: 3, Height: 1}
		body := []types.Point{{X: 1, Y: 0}, {X: 2, Y: 0}}
		So(IsSafe(types.Point{X: 2, Y: 0}, body, grid), ShouldBeFalse)
		So(IsSafe(types.Point{X: 0, Y: 0}, body, grid), ShouldBeTrue)
		So(IsSafe(types.Point{X: -1, Y: 0}, body, grid), ShouldBeFalse)
	})
}

func TestGreedyNavigator(t *testing.T) {
	Convey("Next applies the chosen direction to the head", t, func() {
		grid := types.Grid{Width: 10, Height: 10}
		s := State{
			Head:      types.Point{X: 5, Y: 5},
			Body:      []types.Point{{X: 5, Y: 5}},
			Target:    types.Point{X: 9, Y: 5},
			Grid:      grid,
			Direction: types.Up,
		}
		next, err := Greedy{}.Next(s)
		So(err, ShouldBeNil)
		So(next, ShouldResemble, types.Point{X: 6, Y: 5})
	})
}

func TestParseKind(t *testing.T) {
	Convey("Navigator names parse case-insensitively", t, func() {
		k, err := ParseKind(" Cycle ")
		So(err, ShouldBeNil)
		So(k, ShouldEqual, KindCycle)

		_, err = ParseKind("astar")
		So(err, ShouldNotBeNil)
	})

	Convey("New rejects unknown kinds and bad grids", t, func() {
		_, err := New(Kind("astar"), types.Grid{Width: 4, Height: 4})
		So(err, ShouldNotBeNil)
		_, err = New(KindZigzag, types.Grid{Width: 0, Height: 4})
		So(err, ShouldNotBeNil)
	})
}
