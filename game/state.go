package game

import (
	"github.com/minaorangina/crazyeights/deck"
)

// State is everything needed to continue a game.
// Transitions never modify a State in place; they return the next one.
type State struct {
	Deck         deck.Deck
	PlayerHand   []deck.Card
	OpponentHand []deck.Card
	Pile         []deck.Card
	ActiveSuit   deck.Suit
	Turn         Actor
	Status       Status
	Winner       Actor
}

// Top returns the card on top of the discard pile
func (s State) Top() (deck.Card, bool) {
	if len(s.Pile) == 0 {
		return deck.Card{}, false
	}
	return s.Pile[len(s.Pile)-1], true
}

// Hand returns the actor's hand
func (s State) Hand(a Actor) []deck.Card {
	switch a {
	case Player:
		return s.PlayerHand
	case Opponent:
		return s.OpponentHand
	}
	return nil
}

// CardCount is the number of cards across the deck, both hands and the pile
func (s State) CardCount() int {
	return len(s.Deck) + len(s.PlayerHand) + len(s.OpponentHand) + len(s.Pile)
}

func (s State) clone() State {
	next := s
	next.Deck = s.Deck.Clone()
	next.PlayerHand = cloneCards(s.PlayerHand)
	next.OpponentHand = cloneCards(s.OpponentHand)
	next.Pile = cloneCards(s.Pile)
	return next
}

func (s *State) setHand(a Actor, cards []deck.Card) {
	switch a {
	case Player:
		s.PlayerHand = cards
	case Opponent:
		s.OpponentHand = cards
	}
}

// checkWinner ends the game if either hand is empty.
// The player is checked first.
func (s *State) checkWinner() (Event, bool) {
	var winner Actor
	switch {
	case len(s.PlayerHand) == 0:
		winner = Player
	case len(s.OpponentHand) == 0:
		winner = Opponent
	default:
		return Event{}, false
	}

	s.Winner = winner
	s.Status = GameOver
	return Event{Kind: GameWon, Actor: winner}, true
}

// advance hands the turn to the other actor
func (s *State) advance() Event {
	s.Turn = s.Turn.Other()
	return turnStarted(s.Turn)
}

// Snapshot is a read-only copy of the table
type Snapshot struct {
	PlayerHand   []deck.Card `json:"playerHand"`
	OpponentHand []deck.Card `json:"opponentHand"`
	DeckCount    int         `json:"deckCount"`
	Top          *deck.Card  `json:"top,omitempty"`
	ActiveSuit   deck.Suit   `json:"activeSuit,omitempty"`
	Turn         Actor       `json:"turn,omitempty"`
	Status       Status      `json:"status"`
	Winner       Actor       `json:"winner,omitempty"`
}

func (s State) snapshot() Snapshot {
	snap := Snapshot{
		PlayerHand:   cloneCards(s.PlayerHand),
		OpponentHand: cloneCards(s.OpponentHand),
		DeckCount:    len(s.Deck),
		ActiveSuit:   s.ActiveSuit,
		Turn:         s.Turn,
		Status:       s.Status,
		Winner:       s.Winner,
	}
	if top, ok := s.Top(); ok {
		snap.Top = &top
	}
	return snap
}
