package types

import (
	"testing"

	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGrid(t *testing.T) {
	Convey("Given grid dimensions", t, func() {
		Convey("A 1x1 grid is the smallest valid grid", func() {
			g, err := NewGrid(1, 1)
			So(err, ShouldBeNil)
			So(g.Cells(), ShouldEqual, 1)
		})

		Convey("Zero or negative dimensions are rejected", func() {
			_, err := NewGrid(0, 5)
			So(errors.Is(err, ErrInvalidGrid), ShouldBeTrue)
			_, err = NewGrid(5, -1)
			So(errors.Is(err, ErrInvalidGrid), ShouldBeTrue)
		})

		Convey("Contains honours the half-open bounds", func() {
			g := Grid{Width: 4, Height: 3}
			So(g.Contains(Point{0, 0}), ShouldBeTrue)
			So(g.Contains(Point{3, 2}), ShouldBeTrue)
			So(g.Contains(Point{4, 2}), ShouldBeFalse)
			So(g.Contains(Point{3, 3}), ShouldBeFalse)
			So(g.Contains(Point{-1, 0}), ShouldBeFalse)
		})
	})
}

func TestDirections(t *testing.T) {
	Convey("Directions map to unit deltas", t, func() {
		p := Point{5, 5}
		So(p.Add(Up), ShouldResemble, Point{5, 4})
		So(p.Add(Down), ShouldResemble, Point{5, 6})
		So(p.Add(Left), ShouldResemble, Point{4, 5})
		So(p.Add(Right), ShouldResemble, Point{6, 5})

		Convey("Opposite is an involution", func() {
			for _, d := range Directions {
				So(d.Opposite().Opposite(), ShouldEqual, d)
				So(d.Opposite(), ShouldNotEqual, d)
			}
		})

		Convey("DirectionBetween recovers the move", func() {
			for _, d := range Directions {
				got, ok := DirectionBetween(p, p.Add(d))
				So(ok, ShouldBeTrue)
				So(got, ShouldEqual, d)
			}
			_, ok := DirectionBetween(Point{0, 0}, Point{1, 1})
			So(ok, ShouldBeFalse)
		})
	})
}
