package manager

import (
	"snake-autopilot/game/types"

	"golang.org/x/exp/rand"
)

// maxSpawnTries bounds rejection sampling before falling back to a scan of
// free cells.
const maxSpawnTries = 64

// FoodManager places the single target.
type FoodManager struct {
	grid         types.Grid
	food         types.Point
	rng          *rand.Rand
	collisionMgr *CollisionManager
}

func NewFoodManager(grid types.Grid, collisionMgr *CollisionManager, seed uint64) *FoodManager {
	return &FoodManager{
		grid:         grid,
		rng:          rand.New(rand.NewSource(seed)),
		collisionMgr: collisionMgr,
	}
}

// GenerateFood picks a free cell not on body. ok is false when the body
// covers the whole grid.
func (fm *FoodManager) GenerateFood(body []types.Point) (types.Point, bool) {
	for i := 0; i < maxSpawnTries; i++ {
		food := types.Point{
			X: fm.rng.Intn(fm.grid.Width),
			Y: fm.rng.Intn(fm.grid.Height),
		}
		if fm.collisionMgr.ValidateSpawnPosition(food, body) {
			return food, true
		}
	}

	free := fm.freeCells(body)
	if len(free) == 0 {
		return types.Point{}, false
	}
	return free[fm.rng.Intn(len(free))], true
}

func (fm *FoodManager) freeCells(body []types.Point) []types.Point {
	occupied := make([]bool, fm.grid.Cells())
	for _, part := range body {
		if fm.grid.Contains(part) {
			occupied[fm.grid.Index(part)] = true
		}
	}
	free := make([]types.Point, 0, fm.grid.Cells())
	for y := 0; y < fm.grid.Height; y++ {
		for x := 0; x < fm.grid.Width; x++ {
			p := types.Point{X: x, Y: y}
			if !occupied[fm.grid.Index(p)] {
				free = append(free, p)
			}
		}
	}
	return free
}

// Respawn places a new target and remembers it.
func (fm *FoodManager) Respawn(body []types.Point) bool {
	food, ok := fm.GenerateFood(body)
	if ok {
		fm.food = food
	}
	return ok
}

func (fm *FoodManager) GetFood() types.Point {
	return fm.food
}

// SetFood pins the target, for scripted boards.
func (fm *FoodManager) SetFood(food types.Point) {
	fm.food = food
}

func (fm *FoodManager) IsFoodCollision(pos types.Point) bool {
	return pos == fm.food
}
