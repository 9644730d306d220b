package entity

import (
	"snake-autopilot/game/types"
)

type Color struct {
	R, G, B uint8
}

// Snake is the agent body. Body[0] is the head.
type Snake struct {
	Body      []types.Point
	Direction types.Direction
	Length    int
	Color     Color
}

func NewSnake(startPos types.Point, dir types.Direction, color Color) *Snake {
	return &Snake{
		Body:      []types.Point{startPos},
		Direction: dir,
		Length:    1,
		Color:     color,
	}
}

// Move pushes newHead to the front and drops the tail once the body is
// longer than Length.
func (s *Snake) Move(newHead types.Point) {
	s.Body = append(s.Body, types.Point{})
	copy(s.Body[1:], s.Body)
	s.Body[0] = newHead
	if len(s.Body) > s.Length {
		s.RemoveTail()
	}
}

// Grow lengthens the snake by one; the next Move keeps the tail.
func (s *Snake) Grow() {
	s.Length++
}

func (s *Snake) RemoveTail() {
	if len(s.Body) > 0 {
		s.Body = s.Body[:len(s.Body)-1]
	}
}

func (s *Snake) GetHead() types.Point {
	return s.Body[0]
}

func (s *Snake) GetTail() types.Point {
	return s.Body[len(s.Body)-1]
}

func (s *Snake) Occupies(p types.Point) bool {
	for _, part := range s.Body {
		if part == p {
			return true
		}
	}
	return false
}

// Snapshot returns a copy of the body that callers may keep.
func (s *Snake) Snapshot() []types.Point {
	body := make([]types.Point, len(s.Body))
	copy(body, s.Body)
	return body
}

// SetDirection records the heading of the last move.
func (s *Snake) SetDirection(dir types.Direction) {
	s.Direction = dir
}
