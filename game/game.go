package game

import (
	"log/slog"
	"time"

	"snake-autopilot/ai"
	"snake-autopilot/config"
	"snake-autopilot/game/entity"
	"snake-autopilot/game/manager"
	"snake-autopilot/game/stats"
	"snake-autopilot/game/types"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
)

// Status is the state of the current round.
type Status int

const (
	Running Status = iota
	Won
	Lost
	// Stalled ends a round that ran past its step limit without eating.
	Stalled
)

func (s Status) String() string {
	switch s {
	case Running:
		return "running"
	case Won:
		return "won"
	case Lost:
		return "lost"
	case Stalled:
		return "stalled"
	default:
		return "unknown"
	}
}

// Outcome reports what a single tick did.
type Outcome struct {
	Status    Status
	Collision manager.CollisionType
	Ate       bool
}

// View is a read-only snapshot of the board for presenters.
type View struct {
	Grid        types.Grid
	Body        []types.Point
	Head        types.Point
	Target      types.Point
	HasTarget   bool
	Direction   types.Direction
	Score       int
	Steps       int
	Status      Status
	Collision   manager.CollisionType
	Navigator   ai.Kind
	SessionHigh int
	HighScore   int
	// History holds the scores of recent finished rounds, oldest first.
	History []int
}

// Game is the board: it owns the agent body and the target, asks the
// navigator for a move every tick and applies it.
type Game struct {
	UUID string
	Grid types.Grid

	cfg          config.Config
	snake        *entity.Snake
	navigator    ai.Navigator
	collisionMgr *manager.CollisionManager
	foodMgr      *manager.FoodManager
	stateMgr     *manager.StateManager
	log          *slog.Logger

	Score     int
	Steps     int
	StartTime time.Time

	status     Status
	collision  manager.CollisionType
	hasFood    bool
	stepLimit  int
	sinceMeal  int
	colorSeed  *rand.Rand
	roundCount int
}

type Option func(*Game)

// WithStateManager records finished rounds in sm.
func WithStateManager(sm *manager.StateManager) Option {
	return func(g *Game) { g.stateMgr = sm }
}

func WithLogger(l *slog.Logger) Option {
	return func(g *Game) { g.log = l }
}

// WithStepLimit ends a round as Stalled after limit ticks without eating.
// Zero disables the limit.
func WithStepLimit(limit int) Option {
	return func(g *Game) { g.stepLimit = limit }
}

// DefaultStepLimit is generous enough for a full tour between two meals.
func DefaultStepLimit(grid types.Grid) int {
	return 2*grid.Cells() + 1
}

func NewGame(cfg config.Config, nav ai.Navigator, opts ...Option) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if nav == nil {
		return nil, errors.New("nil navigator")
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	g := &Game{
		UUID:         uuid.New().String(),
		Grid:         cfg.Grid,
		cfg:          cfg,
		navigator:    nav,
		collisionMgr: manager.NewCollisionManager(cfg.Grid, cfg.StrictAdjacency),
		stepLimit:    DefaultStepLimit(cfg.Grid),
		colorSeed:    rand.New(rand.NewSource(seed ^ 0x9e3779b97f4a7c15)),
	}
	g.foodMgr = manager.NewFoodManager(cfg.Grid, g.collisionMgr, seed)
	for _, opt := range opts {
		opt(g)
	}
	if g.log == nil {
		g.log = slog.Default()
	}
	g.log = g.log.With("session", g.UUID, "navigator", string(nav.Kind()))

	g.Reset()
	return g, nil
}

// Reset starts a new round from the configured start cell. Score history
// and high scores live in the state manager and survive.
func (g *Game) Reset() {
	color := entity.Color{
		R: uint8(g.colorSeed.Intn(200) + 55),
		G: uint8(g.colorSeed.Intn(200) + 55),
		B: uint8(g.colorSeed.Intn(200) + 55),
	}
	g.snake = entity.NewSnake(g.cfg.Agent.Start.Point(), types.Right, color)
	g.Score = 0
	g.Steps = 0
	g.sinceMeal = 0
	g.status = Running
	g.collision = manager.NoCollision
	g.StartTime = time.Now()
	g.roundCount++

	g.hasFood = g.foodMgr.Respawn(g.snake.Body)
	if len(g.snake.Body) == g.Grid.Cells() {
		g.finish(Won, manager.NoCollision)
	}
}

// Update advances the round by one tick. The error is non-nil only for a
// navigator precondition violation, which the caller must treat as fatal.
func (g *Game) Update() (Outcome, error) {
	if g.status != Running {
		return Outcome{Status: g.status, Collision: g.collision}, nil
	}

	g.Steps++
	g.sinceMeal++

	head := g.snake.GetHead()
	body := g.snake.Snapshot()
	next, err := g.navigator.Next(ai.State{
		Head:      head,
		Body:      body,
		Target:    g.foodMgr.GetFood(),
		Grid:      g.Grid,
		Direction: g.snake.Direction,
	})
	if err != nil {
		return Outcome{}, errors.Wrapf(err, "step %d from %s", g.Steps, head)
	}

	grows := g.hasFood && g.foodMgr.IsFoodCollision(next)
	if c := g.collisionMgr.CheckCollision(next, body, grows); c != manager.NoCollision {
		g.finish(Lost, c)
		return Outcome{Status: Lost, Collision: c}, nil
	}

	if dir, ok := types.DirectionBetween(head, next); ok {
		g.snake.SetDirection(dir)
	} else {
		g.log.Debug("non-adjacent move", "from", head.String(), "to", next.String())
	}
	if grows {
		g.snake.Grow()
	}
	g.snake.Move(next)

	if grows {
		g.Score++
		g.sinceMeal = 0
		if g.stateMgr != nil {
			g.stateMgr.UpdateScore(g.Score)
		}
		if len(g.snake.Body) == g.Grid.Cells() {
			g.hasFood = false
			g.finish(Won, manager.NoCollision)
			return Outcome{Status: Won, Ate: true}, nil
		}
		g.hasFood = g.foodMgr.Respawn(g.snake.Body)
	}

	if g.stepLimit > 0 && g.sinceMeal >= g.stepLimit {
		g.finish(Stalled, manager.NoCollision)
		return Outcome{Status: Stalled, Ate: grows}, nil
	}
	return Outcome{Status: Running, Ate: grows}, nil
}

func (g *Game) finish(status Status, collision manager.CollisionType) {
	g.status = status
	g.collision = collision

	attrs := []any{"round", g.roundCount, "score", g.Score, "steps", g.Steps, "length", len(g.snake.Body)}
	switch status {
	case Won:
		g.log.Info("board filled", attrs...)
	case Lost:
		g.log.Info("round lost", append(attrs, "collision", collision.String())...)
	default:
		g.log.Info("round stalled", attrs...)
	}

	if g.stateMgr == nil {
		return
	}
	outcome := status.String()
	if status == Lost {
		outcome += ":" + collision.String()
	}
	err := g.stateMgr.RecordGame(stats.Round{
		Session:   g.UUID,
		Navigator: string(g.navigator.Kind()),
		Width:     g.Grid.Width,
		Height:    g.Grid.Height,
		Score:     g.Score,
		Steps:     g.Steps,
		Won:       status == Won,
		Outcome:   outcome,
		StartTime: g.StartTime,
		EndTime:   time.Now(),
	})
	if err != nil {
		g.log.Warn("stats not saved", "err", err)
	}
}

func (g *Game) Status() Status {
	return g.status
}

func (g *Game) GetSnake() *entity.Snake {
	return g.snake
}

// GetFood returns the target; ok is false once the board is full.
func (g *Game) GetFood() (types.Point, bool) {
	return g.foodMgr.GetFood(), g.hasFood
}

// PlaceFood pins the target on a free cell.
func (g *Game) PlaceFood(p types.Point) error {
	if !g.collisionMgr.ValidateSpawnPosition(p, g.snake.Body) {
		return errors.Errorf("target %s is not a free cell", p)
	}
	g.foodMgr.SetFood(p)
	g.hasFood = true
	return nil
}

func (g *Game) Navigator() ai.Navigator {
	return g.navigator
}

// ElapsedTime is the duration of the current round in seconds.
func (g *Game) ElapsedTime() float64 {
	return time.Since(g.StartTime).Seconds()
}

func (g *Game) View() View {
	v := View{
		Grid:      g.Grid,
		Body:      g.snake.Snapshot(),
		Head:      g.snake.GetHead(),
		Target:    g.foodMgr.GetFood(),
		HasTarget: g.hasFood,
		Direction: g.snake.Direction,
		Score:     g.Score,
		Steps:     g.Steps,
		Status:    g.status,
		Collision: g.collision,
		Navigator: g.navigator.Kind(),
	}
	if g.stateMgr != nil {
		v.SessionHigh = g.stateMgr.GetSessionHigh()
		v.HighScore = g.stateMgr.GetHighScore()
		v.History = g.stateMgr.GetScoreHistory()
	}
	return v
}

// Color is the agent's display colour for this round.
func (g *Game) Color() entity.Color {
	return g.snake.Color
}
