package game

import (
	"github.com/minaorangina/crazyeights/deck"
)

const (
	handSize = 8
	wildRank = deck.Eight
)

// IsPlayable reports whether card may be played on top, given the suit
// currently in force. Eights are always playable.
func IsPlayable(card, top deck.Card, activeSuit deck.Suit) bool {
	if card.Rank == wildRank {
		return true
	}
	if activeSuit != deck.NoSuit && card.Suit == activeSuit {
		return true
	}
	return card.Rank == top.Rank
}

// LegalPlays returns the cards in hand that may be played, in hand order
func LegalPlays(hand []deck.Card, top deck.Card, activeSuit deck.Suit) []deck.Card {
	moves := []deck.Card{}
	for _, c := range hand {
		if IsPlayable(c, top, activeSuit) {
			moves = append(moves, c)
		}
	}
	return moves
}
