package manager

import (
	"sync"

	"snake-autopilot/game/stats"

	"github.com/pkg/errors"
)

// maxScores caps the in-memory score history shown by presenters.
const maxScores = 200

// StateManager tracks scores across rounds and persists finished rounds.
type StateManager struct {
	stats        *stats.GameStats
	sessionHigh  int
	allTimeHigh  int
	scoreHistory []int
	mutex        sync.RWMutex
}

// NewStateManager loads previous rounds from statsFile. An empty statsFile
// keeps everything in memory.
func NewStateManager(statsFile string) (*StateManager, error) {
	s, err := stats.Load(statsFile)
	if err != nil {
		return nil, errors.Wrap(err, "load stats")
	}
	return &StateManager{
		stats:        s,
		allTimeHigh:  s.GetMaxScore(),
		scoreHistory: make([]int, 0),
	}, nil
}

// UpdateScore raises the high scores during a round.
func (sm *StateManager) UpdateScore(score int) {
	sm.mutex.Lock()
	defer sm.mutex.Unlock()

	if score > sm.sessionHigh {
		sm.sessionHigh = score
	}
	if score > sm.allTimeHigh {
		sm.allTimeHigh = score
	}
}

// RecordGame stores a finished round and writes the stats file.
func (sm *StateManager) RecordGame(r stats.Round) error {
	sm.UpdateScore(r.Score)

	sm.mutex.Lock()
	if len(sm.scoreHistory) >= maxScores {
		sm.scoreHistory = sm.scoreHistory[1:]
	}
	sm.scoreHistory = append(sm.scoreHistory, r.Score)
	sm.mutex.Unlock()

	sm.stats.AddGame(r)
	return sm.stats.SaveToFile()
}

func (sm *StateManager) GetSessionHigh() int {
	sm.mutex.RLock()
	defer sm.mutex.RUnlock()
	return sm.sessionHigh
}

func (sm *StateManager) GetHighScore() int {
	sm.mutex.RLock()
	defer sm.mutex.RUnlock()
	return sm.allTimeHigh
}

func (sm *StateManager) GetScoreHistory() []int {
	sm.mutex.RLock()
	defer sm.mutex.RUnlock()

	history := make([]int, len(sm.scoreHistory))
	copy(history, sm.scoreHistory)
	return history
}

func (sm *StateManager) GetStats() *stats.GameStats {
	return sm.stats
}
