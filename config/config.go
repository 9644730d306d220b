// Package config builds the immutable session configuration from defaults,
// an optional YAML file and SNAKE_* environment variables.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"snake-autopilot/ai"
	"snake-autopilot/game/types"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

// Presenter names.
const (
	PresenterWindow   = "window"
	PresenterTerminal = "terminal"
	PresenterHeadless = "headless"
)

// Config is created once at session start and only read afterwards. Pass it
// by value.
type Config struct {
	Grid            types.Grid
	Agent           AgentConfig
	Seed            uint64
	Tick            time.Duration
	StrictAdjacency bool
	Presenter       string
	CellSize        int
	StatsFile       string
	LogFile         string
	Debug           bool
}

// AgentConfig is the nested `agent` section.
type AgentConfig struct {
	Navigator ai.Kind `yaml:"navigator"`
	Start     Cell    `yaml:"start"`
}

// Cell is the YAML form of a grid cell.
type Cell struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

func (c Cell) Point() types.Point {
	return types.Point{X: c.X, Y: c.Y}
}

// Default is a 5x5 cycle board paced at 20 ticks per second.
func Default() Config {
	return Config{
		Grid: types.Grid{Width: 5, Height: 5},
		Agent: AgentConfig{
			Navigator: ai.KindCycle,
			Start:     Cell{X: 0, Y: 0},
		},
		Seed:      0,
		Tick:      50 * time.Millisecond,
		Presenter: PresenterWindow,
		CellSize:  30,
		StatsFile: "data/stats.json",
		LogFile:   "logs/snake.log",
	}
}

// Load reads path (if non-empty) over the defaults. Environment variables
// such as SNAKE_GRID_WIDTH or SNAKE_TICK override file values.
func Load(path string) (Config, error) {
	cfg := Default()

	vp := viper.New()
	vp.SetEnvPrefix("snake")
	vp.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vp.AutomaticEnv()

	vp.SetDefault("grid.width", cfg.Grid.Width)
	vp.SetDefault("grid.height", cfg.Grid.Height)
	vp.SetDefault("seed", cfg.Seed)
	vp.SetDefault("tick", cfg.Tick)
	vp.SetDefault("strictAdjacency", cfg.StrictAdjacency)
	vp.SetDefault("presenter", cfg.Presenter)
	vp.SetDefault("cellSize", cfg.CellSize)
	vp.SetDefault("statsFile", cfg.StatsFile)
	vp.SetDefault("logFile", cfg.LogFile)
	vp.SetDefault("debug", cfg.Debug)

	if path != "" {
		vp.SetConfigFile(path)
		vp.SetConfigType(configType(path))
		if err := vp.ReadInConfig(); err != nil {
			return Config{}, errors.Wrapf(err, "read config %s", path)
		}
	}

	cfg.Grid = types.Grid{Width: vp.GetInt("grid.width"), Height: vp.GetInt("grid.height")}
	cfg.Seed = vp.GetUint64("seed")
	cfg.Tick = vp.GetDuration("tick")
	cfg.StrictAdjacency = vp.GetBool("strictAdjacency")
	cfg.Presenter = strings.ToLower(vp.GetString("presenter"))
	cfg.CellSize = vp.GetInt("cellSize")
	cfg.StatsFile = vp.GetString("statsFile")
	cfg.LogFile = vp.GetString("logFile")
	cfg.Debug = vp.GetBool("debug")

	if raw := vp.GetStringMap("agent"); len(raw) > 0 {
		if err := decodeSection(raw, &cfg.Agent); err != nil {
			return Config{}, errors.Wrap(err, "decode agent section")
		}
	}
	if nav := vp.GetString("agent.navigator"); nav != "" {
		cfg.Agent.Navigator = ai.Kind(nav)
	}

	return cfg, nil
}

// decodeSection round-trips a generic viper section through YAML into a
// typed struct, keeping fields the section leaves out.
func decodeSection(raw map[string]interface{}, out interface{}) error {
	data, err := yaml.Marshal(raw)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, out)
}

func configType(path string) string {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	switch ext {
	case "yml", "":
		return "yaml"
	default:
		return ext
	}
}

// Validate rejects configurations no session can run with.
func (c Config) Validate() error {
	if err := c.Grid.Validate(); err != nil {
		return errors.Wrap(ErrInvalidConfig, err.Error())
	}
	kind, err := ai.ParseKind(string(c.Agent.Navigator))
	if err != nil {
		return errors.Wrap(ErrInvalidConfig, err.Error())
	}
	if start := c.Agent.Start.Point(); !c.Grid.Contains(start) {
		return errors.Wrapf(ErrInvalidConfig, "start %s outside %s grid", start, c.Grid)
	}
	if c.Tick <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "tick %s must be positive", c.Tick)
	}
	switch c.Presenter {
	case PresenterWindow, PresenterTerminal, PresenterHeadless:
	default:
		return errors.Wrapf(ErrInvalidConfig, "unknown presenter %q", c.Presenter)
	}
	if c.Presenter == PresenterWindow && c.CellSize < 1 {
		return errors.Wrapf(ErrInvalidConfig, "cell size %d", c.CellSize)
	}
	if kind == ai.KindCycle {
		if c.Grid.Cells() < 2 {
			return errors.Wrapf(ErrInvalidConfig, "cycle navigator needs at least two cells, grid is %s", c.Grid)
		}
		if c.StrictAdjacency && !ai.HasTour(c.Grid.Width, c.Grid.Height) {
			return errors.Wrapf(ErrInvalidConfig, "strict adjacency: %s grid has no orthogonal tour", c.Grid)
		}
	}
	return nil
}

// Navigator returns the parsed navigator kind, empty if Validate would fail.
func (c Config) Navigator() ai.Kind {
	kind, _ := ai.ParseKind(string(c.Agent.Navigator))
	return kind
}

// fileConfig is the on-disk layout written by Save.
type fileConfig struct {
	Grid struct {
		Width  int `yaml:"width"`
		Height int `yaml:"height"`
	} `yaml:"grid"`
	Agent           AgentConfig `yaml:"agent"`
	Seed            uint64      `yaml:"seed"`
	Tick            string      `yaml:"tick"`
	StrictAdjacency bool        `yaml:"strictAdjacency"`
	Presenter       string      `yaml:"presenter"`
	CellSize        int         `yaml:"cellSize"`
	StatsFile       string      `yaml:"statsFile"`
	LogFile         string      `yaml:"logFile"`
	Debug           bool        `yaml:"debug"`
}

// Save writes c as YAML that Load reads back.
func (c Config) Save(path string) error {
	var fc fileConfig
	fc.Grid.Width = c.Grid.Width
	fc.Grid.Height = c.Grid.Height
	fc.Agent = c.Agent
	fc.Seed = c.Seed
	fc.Tick = c.Tick.String()
	fc.StrictAdjacency = c.StrictAdjacency
	fc.Presenter = c.Presenter
	fc.CellSize = c.CellSize
	fc.StatsFile = c.StatsFile
	fc.LogFile = c.LogFile
	fc.Debug = c.Debug

	data, err := yaml.Marshal(&fc)
	if err != nil {
		return errors.Wrap(err, "marshal config")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrap(err, "create config directory")
		}
	}
	return errors.Wrapf(os.WriteFile(path, data, 0644), "write config %s", path)
}
