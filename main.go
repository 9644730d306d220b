package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"snake-autopilot/ai"
	"snake-autopilot/config"
	"snake-autopilot/game"
	"snake-autopilot/game/manager"
	"snake-autopilot/ui"
	"snake-autopilot/ui/terminal"

	"github.com/pkg/errors"
)

func main() {
	opts, err := parseArgs(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "snake:", err)
		os.Exit(2)
	}
	if err := run(opts); err != nil {
		fmt.Fprintln(os.Stderr, "snake:", err)
		os.Exit(1)
	}
}

type options struct {
	configPath string
	bench      int
	flags      *flag.FlagSet

	navigator string
	width     int
	height    int
	speed     int
	presenter string
	seed      uint64
	strict    bool
	debug     bool
	stats     string
}

func parseArgs(args []string) (*options, error) {
	o := &options{}
	fs := flag.NewFlagSet("snake", flag.ContinueOnError)
	fs.StringVar(&o.configPath, "config", "", "Path to a YAML config file")
	fs.StringVar(&o.navigator, "navigator", "", "Navigator: zigzag, cycle or greedy")
	fs.IntVar(&o.width, "width", 0, "Grid width in cells")
	fs.IntVar(&o.height, "height", 0, "Grid height in cells")
	fs.IntVar(&o.speed, "speed", 0, "Tick interval in milliseconds (lower = faster)")
	fs.StringVar(&o.presenter, "presenter", "", "Presenter: window, terminal or headless")
	fs.Uint64Var(&o.seed, "seed", 0, "Target placement seed (0 = random)")
	fs.BoolVar(&o.strict, "strict", false, "Treat non-adjacent moves as collisions")
	fs.BoolVar(&o.debug, "debug", false, "Write debug logs to the log file")
	fs.StringVar(&o.stats, "stats", "", "Stats file (overrides config)")
	fs.IntVar(&o.bench, "bench", 0, "Play N headless rounds concurrently and print a summary")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, errors.Errorf("unexpected arguments %v", fs.Args())
	}
	o.flags = fs
	return o, nil
}

// config loads the config file and applies the flags that were set.
func (o *options) config() (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return config.Config{}, err
	}
	o.flags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "navigator":
			cfg.Agent.Navigator = ai.Kind(o.navigator)
		case "width":
			cfg.Grid.Width = o.width
		case "height":
			cfg.Grid.Height = o.height
		case "speed":
			cfg.Tick = time.Duration(o.speed) * time.Millisecond
		case "presenter":
			cfg.Presenter = o.presenter
		case "seed":
			cfg.Seed = o.seed
		case "strict":
			cfg.StrictAdjacency = o.strict
		case "debug":
			cfg.Debug = o.debug
		case "stats":
			cfg.StatsFile = o.stats
		}
	})
	if o.bench > 0 {
		cfg.Presenter = config.PresenterHeadless
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	cfg.Agent.Navigator = cfg.Navigator()
	return cfg, nil
}

func run(o *options) error {
	cfg, err := o.config()
	if err != nil {
		return err
	}

	closeLog, err := setupLogging(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	sm, err := manager.NewStateManager(cfg.StatsFile)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if o.bench > 0 {
		return runBench(ctx, os.Stdout, cfg, o.bench, sm)
	}

	// The navigator is built before the first tick so a bad grid fails fast.
	nav, err := ai.New(cfg.Navigator(), cfg.Grid)
	if err != nil {
		return err
	}
	board, err := game.NewGame(cfg, nav, game.WithStateManager(sm))
	if err != nil {
		return err
	}
	slog.Info("session started", "session", board.UUID, "navigator", string(nav.Kind()), "grid", cfg.Grid.String())

	switch cfg.Presenter {
	case config.PresenterWindow:
		return ui.NewRenderer().Run(board, cfg.Tick, cfg.CellSize)
	case config.PresenterTerminal:
		screen, err := terminal.NewScreen()
		if err != nil {
			return errors.Wrap(err, "open terminal")
		}
		defer screen.Fini()
		return terminal.New(screen, board, cfg.Tick).Run(ctx)
	default:
		res, err := game.Play(ctx, board)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "%s: score %d in %d steps (%s)\n", res.Status, res.Score, res.Steps, cfg.Grid)
		return nil
	}
}

func runBench(ctx context.Context, w io.Writer, cfg config.Config, n int, sm *manager.StateManager) error {
	start := time.Now()
	results, err := game.RunBatch(ctx, cfg, n, sm)
	if err != nil {
		return err
	}

	wins, total, steps := 0, 0, 0
	for _, res := range results {
		if res.Status == game.Won {
			wins++
		}
		total += res.Score
		steps += res.Steps
		fmt.Fprintf(w, "round %3d  seed %-20d %-8s score %5d  steps %8d\n", res.Round, res.Seed, res.Status, res.Score, res.Steps)
	}
	fmt.Fprintf(w, "%s on %s: %d/%d won, avg score %.2f, avg steps %.1f, %s\n",
		cfg.Navigator(), cfg.Grid, wins, n,
		float64(total)/float64(n), float64(steps)/float64(n),
		time.Since(start).Round(time.Millisecond))
	return nil
}

// setupLogging installs the default slog logger. Debug sessions log to the
// configured file; the terminal presenter owns the screen and is silent
// otherwise. The returned func closes the log file.
func setupLogging(cfg config.Config) (func(), error) {
	if !cfg.Debug {
		var out io.Writer = os.Stderr
		if cfg.Presenter == config.PresenterTerminal {
			out = io.Discard
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelInfo})))
		return func() {}, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0755); err != nil {
		return nil, errors.Wrap(err, "create log directory")
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, errors.Wrap(err, "open log file")
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})))
	return func() { f.Close() }, nil
}
