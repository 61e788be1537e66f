package game

import (
	"github.com/minaorangina/crazyeights/deck"
)

func cloneCards(cards []deck.Card) []deck.Card {
	c := make([]deck.Card, len(cards))
	copy(c, cards)
	return c
}

// indexOfCard finds a card by ID
func indexOfCard(cards []deck.Card, id string) int {
	for i, c := range cards {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func removeCardAt(cards []deck.Card, i int) []deck.Card {
	remaining := make([]deck.Card, 0, len(cards)-1)
	remaining = append(remaining, cards[:i]...)
	return append(remaining, cards[i+1:]...)
}

func containsCard(cards []deck.Card, targets ...deck.Card) bool {
	for _, c := range cards {
		for _, tg := range targets {
			if c == tg {
				return true
			}
		}
	}
	return false
}
