package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"snake-autopilot/ai"
	"snake-autopilot/game/types"

	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"
)

const sampleConfig = `
grid:
  width: 20
  height: 12
agent:
  navigator: greedy
  start:
    x: 3
    y: 4
seed: 7
tick: 10ms
presenter: headless
strictAdjacency: true
`

func TestLoad(t *testing.T) {
	Convey("Given no config file", t, func() {
		cfg, err := Load("")
		So(err, ShouldBeNil)

		Convey("The defaults describe a 5x5 cycle board", func() {
			So(cfg.Grid, ShouldResemble, types.Grid{Width: 5, Height: 5})
			So(cfg.Navigator(), ShouldEqual, ai.KindCycle)
			So(cfg.Tick, ShouldEqual, 50*time.Millisecond)
			So(cfg.Validate(), ShouldBeNil)
		})
	})

	Convey("Given a YAML config file", t, func() {
		dir, err := os.MkdirTemp("", "config")
		So(err, ShouldBeNil)
		Reset(func() { os.RemoveAll(dir) })
		path := filepath.Join(dir, "snake.yaml")
		So(os.WriteFile(path, []byte(sampleConfig), 0644), ShouldBeNil)

		cfg, err := Load(path)
		So(err, ShouldBeNil)

		Convey("File values override the defaults", func() {
			So(cfg.Grid, ShouldResemble, types.Grid{Width: 20, Height: 12})
			So(cfg.Navigator(), ShouldEqual, ai.KindGreedy)
			So(cfg.Agent.Start.Point(), ShouldResemble, types.Point{X: 3, Y: 4})
			So(cfg.Seed, ShouldEqual, uint64(7))
			So(cfg.Tick, ShouldEqual, 10*time.Millisecond)
			So(cfg.Presenter, ShouldEqual, PresenterHeadless)
			So(cfg.StrictAdjacency, ShouldBeTrue)
			So(cfg.StatsFile, ShouldEqual, "data/stats.json")
			So(cfg.Validate(), ShouldBeNil)
		})

		Convey("Environment variables override the file", func() {
			os.Setenv("SNAKE_GRID_WIDTH", "8")
			Reset(func() { os.Unsetenv("SNAKE_GRID_WIDTH") })
			cfg, err := Load(path)
			So(err, ShouldBeNil)
			So(cfg.Grid.Width, ShouldEqual, 8)
		})

		Convey("Save writes a file Load reads back", func() {
			out := filepath.Join(dir, "out", "saved.yaml")
			So(cfg.Save(out), ShouldBeNil)
			again, err := Load(out)
			So(err, ShouldBeNil)
			So(again, ShouldResemble, cfg)
		})
	})

	Convey("A missing config file is an error", t, func() {
		_, err := Load(filepath.Join(os.TempDir(), "does-not-exist", "snake.yaml"))
		So(err, ShouldNotBeNil)
	})
}

func TestValidate(t *testing.T) {
	Convey("Given the default config", t, func() {
		cfg := Default()

		Convey("Empty grids are rejected", func() {
			cfg.Grid = types.Grid{Width: 0, Height: 3}
			So(errors.Is(cfg.Validate(), ErrInvalidConfig), ShouldBeTrue)
		})

		Convey("Unknown navigators are rejected", func() {
			cfg.Agent.Navigator = "astar"
			So(errors.Is(cfg.Validate(), ErrInvalidConfig), ShouldBeTrue)
		})

		Convey("A start outside the grid is rejected", func() {
			cfg.Agent.Start = Cell{X: 5, Y: 0}
			So(errors.Is(cfg.Validate(), ErrInvalidConfig), ShouldBeTrue)
		})

		Convey("A non-positive tick is rejected", func() {
			cfg.Tick = 0
			So(errors.Is(cfg.Validate(), ErrInvalidConfig), ShouldBeTrue)
		})

		Convey("Unknown presenters are rejected", func() {
			cfg.Presenter = "vr"
			So(errors.Is(cfg.Validate(), ErrInvalidConfig), ShouldBeTrue)
		})

		Convey("A cycle on a single cell is rejected", func() {
			cfg.Grid = types.Grid{Width: 1, Height: 1}
			So(errors.Is(cfg.Validate(), ErrInvalidConfig), ShouldBeTrue)
		})

		Convey("Strict adjacency needs an orthogonal tour for the cycle", func() {
			cfg.StrictAdjacency = true
			So(errors.Is(cfg.Validate(), ErrInvalidConfig), ShouldBeTrue)
			cfg.Grid = types.Grid{Width: 6, Height: 5}
			So(cfg.Validate(), ShouldBeNil)
		})
	})
}
