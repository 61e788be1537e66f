package store

import (
	"errors"
	"fmt"
	"sync"

	"github.com/minaorangina/crazyeights/engine"
)

var (
	ErrUnknownGameID   = errors.New("unknown game ID")
	ErrUnknownPlayerID = errors.New("unknown player ID")
	ErrFnDuplicateGame = func(gameID string) error {
		return fmt.Errorf("game with id %q already exists", gameID)
	}
)

type GameStore interface {
	FindGame(gameID string) engine.GameEngine
	AddGame(ge engine.GameEngine) error
	AddPlayerToGame(gameID string, player engine.Player) error
	RemoveGame(gameID string)
	Games() []engine.GameEngine
}

// InMemoryGameStore maps game id to game engine
type InMemoryGameStore struct {
	games map[string]engine.GameEngine
	mu    sync.RWMutex
}

// NewInMemoryGameStore constructs an InMemoryGameStore
func NewInMemoryGameStore() *InMemoryGameStore {
	return &InMemoryGameStore{
		games: map[string]engine.GameEngine{},
	}
}

// FindGame returns nil if there is no such game
func (s *InMemoryGameStore) FindGame(gameID string) engine.GameEngine {
	s.mu.RLock()
	defer s.mu.RUnlock()

	game, ok := s.games[gameID]
	if !ok {
		return nil
	}
	return game
}

func (s *InMemoryGameStore) AddGame(ge engine.GameEngine) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.games[ge.ID()]; exists {
		return ErrFnDuplicateGame(ge.ID())
	}
	s.games[ge.ID()] = ge
	return nil
}

// AddPlayerToGame attaches player to the game they created
func (s *InMemoryGameStore) AddPlayerToGame(gameID string, player engine.Player) error {
	game := s.FindGame(gameID)
	if game == nil {
		return ErrUnknownGameID
	}
	if game.CreatorID() != player.ID() {
		return ErrUnknownPlayerID
	}

	return game.AddPlayer(player)
}

// RemoveGame stops the game and forgets it
func (s *InMemoryGameStore) RemoveGame(gameID string) {
	s.mu.Lock()
	game, ok := s.games[gameID]
	delete(s.games, gameID)
	s.mu.Unlock()

	if ok {
		game.Stop()
	}
}

func (s *InMemoryGameStore) Games() []engine.GameEngine {
	s.mu.RLock()
	defer s.mu.RUnlock()

	games := make([]engine.GameEngine, 0, len(s.games))
	for _, g := range s.games {
		games = append(games, g)
	}
	return games
}
