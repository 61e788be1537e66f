package protocol

import (
	"github.com/minaorangina/crazyeights/deck"
	"github.com/minaorangina/crazyeights/game"
)

type Player struct {
	PlayerID string `json:"playerID"`
	Name     string `json:"name"`
}

// InboundMessage is a message from Player to GameEngine
type InboundMessage struct {
	PlayerID string    `json:"playerID"`
	Command  Cmd       `json:"command"`
	CardID   string    `json:"cardID,omitempty"`
	Suit     deck.Suit `json:"suit,omitempty"`
}

// OutboundMessage is a message from GameEngine to Player
type OutboundMessage struct {
	PlayerID string      `json:"playerID"`
	Command  Cmd         `json:"command"`
	Event    *game.Event `json:"event,omitempty"`
	State    *PlayerView `json:"state,omitempty"`
	Error    string      `json:"error,omitempty"`
}

// PlayerView is the table as the player sees it.
// The opponent's hand is reduced to a count.
type PlayerView struct {
	Hand          []deck.Card `json:"hand"`
	LegalPlays    []deck.Card `json:"legalPlays"`
	OpponentCount int         `json:"opponentCount"`
	DeckCount     int         `json:"deckCount"`
	Top           *deck.Card  `json:"top,omitempty"`
	ActiveSuit    deck.Suit   `json:"activeSuit,omitempty"`
	Turn          game.Actor  `json:"turn,omitempty"`
	Status        game.Status `json:"status"`
	Winner        game.Actor  `json:"winner,omitempty"`
}
