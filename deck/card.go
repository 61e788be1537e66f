package deck

import "fmt"

// Card represents a playing card.
// ID identifies one physical card so a front end can follow it around
// the table; the rules only ever look at Suit and Rank.
type Card struct {
	ID   string `json:"id"`
	Suit Suit   `json:"suit"`
	Rank Rank   `json:"rank"`
}

// NewCard constructs the card for a suit and rank, with its deck ID
func NewCard(suit Suit, rank Rank) Card {
	return Card{
		ID:   fmt.Sprintf("%s-%s", suit, rank),
		Suit: suit,
		Rank: rank,
	}
}

// SameFace reports whether two cards have the same suit and rank
func (c Card) SameFace(other Card) bool {
	return c.Suit == other.Suit && c.Rank == other.Rank
}

// IsZero reports whether c is the zero Card
func (c Card) IsZero() bool {
	return c == Card{}
}

func (c Card) String() string {
	if c.IsZero() {
		return ""
	}
	return c.Rank.String() + c.Suit.Symbol()
}
