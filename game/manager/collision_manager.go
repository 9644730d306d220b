package manager

import (
	"snake-autopilot/game/types"
)

// CollisionType represents the type of collision
type CollisionType int

const (
	NoCollision CollisionType = iota
	WallCollision
	SelfCollision
	// JumpCollision is a move to a non-adjacent cell under strict adjacency.
	JumpCollision
)

func (c CollisionType) String() string {
	switch c {
	case NoCollision:
		return "none"
	case WallCollision:
		return "wall"
	case SelfCollision:
		return "self"
	case JumpCollision:
		return "jump"
	default:
		return "unknown"
	}
}

type CollisionManager struct {
	grid   types.Grid
	strict bool
}

// NewCollisionManager checks moves on grid. With strict set, a move that is
// not a single orthogonal step is a collision.
func NewCollisionManager(grid types.Grid, strict bool) *CollisionManager {
	return &CollisionManager{
		grid:   grid,
		strict: strict,
	}
}

// CheckCollision classifies a move of the head (body[0]) to pos. When the
// move does not eat, the tail cell vacates this tick and is not an obstacle.
func (cm *CollisionManager) CheckCollision(pos types.Point, body []types.Point, grows bool) CollisionType {
	if cm.IsWall(pos) {
		return WallCollision
	}
	if cm.strict && len(body) > 0 && !body[0].IsAdjacent(pos) {
		return JumpCollision
	}

	occupied := body
	if !grows && len(occupied) > 0 {
		occupied = occupied[:len(occupied)-1]
	}
	for _, part := range occupied {
		if pos == part {
			return SelfCollision
		}
	}
	return NoCollision
}

// IsWall checks if a position is outside the grid
func (cm *CollisionManager) IsWall(pos types.Point) bool {
	return !cm.grid.Contains(pos)
}

// ValidateSpawnPosition checks if a position is free for the target.
func (cm *CollisionManager) ValidateSpawnPosition(pos types.Point, body []types.Point) bool {
	if cm.IsWall(pos) {
		return false
	}
	for _, part := range body {
		if pos == part {
			return false
		}
	}
	return true
}
