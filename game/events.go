package game

import (
	"fmt"

	"github.com/minaorangina/crazyeights/deck"
)

// EventKind identifies something that happened at the table.
// Events carry parameters only; wording is left to whoever renders them.
type EventKind int

const (
	TurnStarted   EventKind = iota // Actor is now to move
	CardPlayed                     // Actor played Card
	WildPlayed                     // the opponent played an eight and chose Suit
	SuitRequested                  // the player played an eight and must choose a suit
	SuitChosen                     // the player chose Suit
	CardDrawn                      // Actor drew Card
	EmptyDeck                      // Actor could not draw and loses the turn
	GameWon                        // Actor emptied their hand
)

var eventKindNames = map[EventKind]string{
	TurnStarted:   "turnStarted",
	CardPlayed:    "cardPlayed",
	WildPlayed:    "wildPlayed",
	SuitRequested: "suitRequested",
	SuitChosen:    "suitChosen",
	CardDrawn:     "cardDrawn",
	EmptyDeck:     "emptyDeck",
	GameWon:       "gameWon",
}

func (k EventKind) String() string {
	return eventKindNames[k]
}

func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *EventKind) UnmarshalText(text []byte) error {
	for kind, name := range eventKindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown event kind %q", text)
}

// Event is emitted by every transition of the game
type Event struct {
	Kind  EventKind  `json:"kind"`
	Actor Actor      `json:"actor,omitempty"`
	Card  *deck.Card `json:"card,omitempty"`
	Suit  deck.Suit  `json:"suit,omitempty"`
}

func turnStarted(a Actor) Event {
	return Event{Kind: TurnStarted, Actor: a}
}

func cardEvent(kind EventKind, a Actor, c deck.Card) Event {
	return Event{Kind: kind, Actor: a, Card: &c}
}
