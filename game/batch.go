package game

import (
	"context"
	"log/slog"
	"time"

	"snake-autopilot/ai"
	"snake-autopilot/config"
	"snake-autopilot/game/manager"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Result summarises one headless round.
type Result struct {
	Round     int
	Seed      uint64
	Status    Status
	Collision manager.CollisionType
	Score     int
	Steps     int
}

// RunBatch plays n independent headless rounds concurrently. A cycle is
// built once and its map is read by every round.
// Round i is seeded with cfg.Seed+i, or a time-based base when cfg.Seed is
// zero. A nil sm keeps results out of the stats file.
func RunBatch(ctx context.Context, cfg config.Config, n int, sm *manager.StateManager) ([]Result, error) {
	if n < 1 {
		return nil, errors.Errorf("batch size %d must be positive", n)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	nav, err := ai.New(cfg.Navigator(), cfg.Grid)
	if err != nil {
		return nil, errors.Wrap(err, "build navigator")
	}

	// Every round gets a distinct, reported seed so it can be replayed.
	base := cfg.Seed
	if base == 0 {
		base = uint64(time.Now().UnixNano())
	}

	results := make([]Result, n)
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			round := cfg
			round.Seed = base + uint64(i)
			roundNav := nav
			if c, ok := nav.(*ai.Cycle); ok {
				roundNav = ai.NewCycleFromMap(c.Map())
			}
			opts := []Option{WithLogger(slog.Default().With("batch", i))}
			if sm != nil {
				opts = append(opts, WithStateManager(sm))
			}
			board, err := NewGame(round, roundNav, opts...)
			if err != nil {
				return err
			}
			res, err := Play(ctx, board)
			if err != nil {
				return errors.Wrapf(err, "round %d", i)
			}
			res.Round = i
			res.Seed = round.Seed
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Play ticks board until its round ends or ctx is cancelled.
func Play(ctx context.Context, board *Game) (Result, error) {
	for board.Status() == Running {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		if _, err := board.Update(); err != nil {
			return Result{}, err
		}
	}
	return Result{
		Status:    board.status,
		Collision: board.collision,
		Score:     board.Score,
		Steps:     board.Steps,
	}, nil
}
