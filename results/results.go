package results

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/minaorangina/crazyeights/game"
)

var ErrInvalidResult = errors.New("result needs a game id and a winner")

// Result is the outcome of a finished game
type Result struct {
	GameID     string     `json:"game_id"`
	PlayerName string     `json:"player_name"`
	Winner     game.Actor `json:"winner"`
	Moves      int        `json:"moves"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt time.Time  `json:"finished_at"`
}

func (r Result) validate() error {
	if r.GameID == "" || !r.Winner.Valid() {
		return ErrInvalidResult
	}
	return nil
}

// Recorder keeps a log of finished games
type Recorder interface {
	Record(ctx context.Context, r Result) error
	// Recent returns up to limit results, most recently finished first
	Recent(ctx context.Context, limit int) ([]Result, error)
}

type MemoryRecorder struct {
	results []Result
	mu      sync.RWMutex
}

func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{results: []Result{}}
}

func (m *MemoryRecorder) Record(_ context.Context, r Result) error {
	if err := r.validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, r)
	return nil
}

func (m *MemoryRecorder) Recent(_ context.Context, limit int) ([]Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	recent := make([]Result, len(m.results))
	copy(recent, m.results)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].FinishedAt.After(recent[j].FinishedAt)
	})

	if limit >= 0 && limit < len(recent) {
		recent = recent[:limit]
	}
	return recent, nil
}
