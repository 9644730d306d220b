package ai

import (
	"strings"

	"snake-autopilot/game/types"

	"github.com/pkg/errors"
)

var (
	// ErrUnknownNavigator is returned for a navigator name that is not registered.
	ErrUnknownNavigator = errors.New("unknown navigator")
	// ErrUnknownCell is returned when a cycle lookup is asked for a cell it
	// does not cover. It means the board and the navigator disagree about
	// the grid and is never retried.
	ErrUnknownCell = errors.New("cell not covered by cycle")
	// ErrNoTour is returned when no closed tour can be built for the grid.
	ErrNoTour = errors.New("grid admits no closed tour")
	// ErrInvalidCycle flags a successor map that failed full-traversal
	// validation. It is a construction defect.
	ErrInvalidCycle = errors.New("invalid cycle")
)

// Kind selects a navigation strategy for a session.
type Kind string

const (
	KindZigzag Kind = "zigzag"
	KindCycle  Kind = "cycle"
	KindGreedy Kind = "greedy"
)

// Kinds lists the registered strategies.
var Kinds = []Kind{KindZigzag, KindCycle, KindGreedy}

func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", errors.Wrapf(ErrUnknownNavigator, "%q", s)
}

// State is the read-only view of the board a navigator decides from.
// Body is head-first and includes the tail cell that may vacate this tick.
type State struct {
	Head      types.Point
	Body      []types.Point
	Target    types.Point
	Grid      types.Grid
	Direction types.Direction
}

// Navigator proposes the agent's next cell once per tick.
type Navigator interface {
	Kind() Kind
	Next(s State) (types.Point, error)
}

// New builds the navigator for kind. Cycle navigators build and validate
// their tour here so that no tick can observe a broken map.
func New(kind Kind, grid types.Grid) (Navigator, error) {
	if err := grid.Validate(); err != nil {
		return nil, err
	}
	switch kind {
	case KindZigzag:
		return Zigzag{}, nil
	case KindCycle:
		return NewCycle(grid)
	case KindGreedy:
		return Greedy{}, nil
	default:
		return nil, errors.Wrapf(ErrUnknownNavigator, "%q", string(kind))
	}
}
