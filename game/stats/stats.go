package stats

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"
)

const (
	DefaultFile = "data/stats.json"
	GroupSize   = 100 // records per compressed group
)

// GameStats keeps every finished round, folding old rounds into grouped
// records so the file stays small.
type GameStats struct {
	Games []GameRecord
	path  string
	mutex sync.RWMutex
}

// GameRecord is a single round (CompressionIndex 0) or a group of rounds.
type GameRecord struct {
	Session          string    `json:"session,omitempty"`
	Navigator        string    `json:"navigator,omitempty"`
	Width            int       `json:"width,omitempty"`
	Height           int       `json:"height,omitempty"`
	Outcome          string    `json:"outcome,omitempty"`
	StartTime        time.Time `json:"startTime"`
	EndTime          time.Time `json:"endTime"`
	Score            int       `json:"score"`
	Steps            int       `json:"steps"`
	CompressionIndex int       `json:"compressionIndex"`
	GamesCount       int       `json:"gamesCount"`
	Wins             int       `json:"wins"`
	AverageScore     float64   `json:"averageScore"`
	MedianScore      float64   `json:"medianScore"`
	MaxScore         int       `json:"maxScore"`
	MinScore         int       `json:"minScore"`
	AverageSteps     float64   `json:"averageSteps"`
	AverageDuration  float64   `json:"averageDuration"`
	MaxDuration      float64   `json:"maxDuration"`
	MinDuration      float64   `json:"minDuration"`
}

// Round describes one finished round before it is recorded.
type Round struct {
	Session   string
	Navigator string
	Width     int
	Height    int
	Score     int
	Steps     int
	Won       bool
	Outcome   string
	StartTime time.Time
	EndTime   time.Time
}

// New returns empty stats bound to path. An empty path keeps the stats in
// memory only.
func New(path string) *GameStats {
	return &GameStats{
		Games: make([]GameRecord, 0),
		path:  path,
	}
}

// Load reads the stats at path. A missing file yields empty stats.
func Load(path string) (*GameStats, error) {
	s := New(path)
	if path == "" {
		return s, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, errors.Wrapf(err, "read stats %s", path)
	}
	if err := json.Unmarshal(data, &s.Games); err != nil {
		return nil, errors.Wrapf(err, "decode stats %s", path)
	}
	return s, nil
}

func (s *GameStats) Path() string {
	return s.path
}

// AddGame records a finished round.
func (s *GameStats) AddGame(r Round) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	duration := r.EndTime.Sub(r.StartTime).Seconds()
	wins := 0
	if r.Won {
		wins = 1
	}
	s.Games = append(s.Games, GameRecord{
		Session:          r.Session,
		Navigator:        r.Navigator,
		Width:            r.Width,
		Height:           r.Height,
		Outcome:          r.Outcome,
		StartTime:        r.StartTime,
		EndTime:          r.EndTime,
		Score:            r.Score,
		Steps:            r.Steps,
		CompressionIndex: 0,
		GamesCount:       1,
		Wins:             wins,
		AverageScore:     float64(r.Score),
		MedianScore:      float64(r.Score),
		MaxScore:         r.Score,
		MinScore:         r.Score,
		AverageSteps:     float64(r.Steps),
		AverageDuration:  duration,
		MaxDuration:      duration,
		MinDuration:      duration,
	})

	s.groupGames()
}

// groupGames folds every full run of GroupSize records at one compression
// level into a single record at the next level.
func (s *GameStats) groupGames() {
	sort.SliceStable(s.Games, func(i, j int) bool {
		if s.Games[i].CompressionIndex != s.Games[j].CompressionIndex {
			return s.Games[i].CompressionIndex < s.Games[j].CompressionIndex
		}
		return s.Games[i].StartTime.Before(s.Games[j].StartTime)
	})

	for level := 0; ; level++ {
		records := make([]GameRecord, 0)
		for _, game := range s.Games {
			if game.CompressionIndex == level {
				records = append(records, game)
			}
		}
		if len(records) < GroupSize {
			break
		}

		var grouped []GameRecord
		for i := 0; i < len(records); i += GroupSize {
			end := i + GroupSize
			if end > len(records) {
				grouped = append(grouped, records[i:]...)
				break
			}
			grouped = append(grouped, merge(records[i:end], level+1))
		}

		remaining := make([]GameRecord, 0, len(s.Games))
		for _, game := range s.Games {
			if game.CompressionIndex != level {
				remaining = append(remaining, game)
			}
		}
		s.Games = append(remaining, grouped...)
	}
}

func merge(group []GameRecord, level int) GameRecord {
	out := GameRecord{
		CompressionIndex: level,
		StartTime:        group[0].StartTime,
		EndTime:          group[0].EndTime,
		MaxScore:         group[0].MaxScore,
		MinScore:         group[0].MinScore,
		MaxDuration:      group[0].MaxDuration,
		MinDuration:      group[0].MinDuration,
		Navigator:        group[0].Navigator,
	}

	var totalScore, totalSteps, totalDuration float64
	medians := make([]float64, 0, len(group))
	for _, g := range group {
		if g.MaxScore > out.MaxScore {
			out.MaxScore = g.MaxScore
		}
		if g.MinScore < out.MinScore {
			out.MinScore = g.MinScore
		}
		if g.MaxDuration > out.MaxDuration {
			out.MaxDuration = g.MaxDuration
		}
		if g.MinDuration < out.MinDuration {
			out.MinDuration = g.MinDuration
		}
		if g.StartTime.Before(out.StartTime) {
			out.StartTime = g.StartTime
		}
		if g.EndTime.After(out.EndTime) {
			out.EndTime = g.EndTime
		}
		if g.Navigator != out.Navigator {
			out.Navigator = "mixed"
		}
		totalScore += g.AverageScore * float64(g.GamesCount)
		totalSteps += g.AverageSteps * float64(g.GamesCount)
		totalDuration += g.AverageDuration * float64(g.GamesCount)
		out.GamesCount += g.GamesCount
		out.Wins += g.Wins
		for i := 0; i < g.GamesCount; i++ {
			medians = append(medians, g.MedianScore)
		}
	}

	out.AverageScore = totalScore / float64(out.GamesCount)
	out.AverageSteps = totalSteps / float64(out.GamesCount)
	out.AverageDuration = totalDuration / float64(out.GamesCount)
	out.MedianScore = median(medians)
	return out
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sort.Float64s(values)
	mid := len(values) / 2
	if len(values)%2 == 0 {
		return (values[mid-1] + values[mid]) / 2
	}
	return values[mid]
}

// GetStats returns a copy of the records.
func (s *GameStats) GetStats() []GameRecord {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	out := make([]GameRecord, len(s.Games))
	copy(out, s.Games)
	return out
}

func (s *GameStats) GetAverageScore() float64 {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var total float64
	var games int
	for _, game := range s.Games {
		total += game.AverageScore * float64(game.GamesCount)
		games += game.GamesCount
	}
	if games == 0 {
		return 0
	}
	return total / float64(games)
}

func (s *GameStats) GetMedianScore() float64 {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	values := make([]float64, 0)
	for _, game := range s.Games {
		for i := 0; i < game.GamesCount; i++ {
			values = append(values, game.MedianScore)
		}
	}
	return median(values)
}

func (s *GameStats) GetMaxScore() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	best := 0
	for _, game := range s.Games {
		if game.MaxScore > best {
			best = game.MaxScore
		}
	}
	return best
}

func (s *GameStats) GetGamesPlayed() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	total := 0
	for _, game := range s.Games {
		total += game.GamesCount
	}
	return total
}

func (s *GameStats) GetWins() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	total := 0
	for _, game := range s.Games {
		total += game.Wins
	}
	return total
}

// SaveToFile writes the records as JSON, creating the parent directory.
func (s *GameStats) SaveToFile() error {
	if s.path == "" {
		return nil
	}

	// Exclusive so concurrent sessions never interleave writes.
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return errors.Wrap(err, "create stats directory")
	}
	data, err := json.MarshalIndent(s.Games, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal stats")
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return errors.Wrapf(err, "write stats %s", s.path)
	}
	return nil
}
