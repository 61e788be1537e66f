package deck

import (
	"math/rand"
)

// Size is the number of cards in a full deck
const Size = 52

// Deck represents a deck of cards.
// The front is where cards are dealt from; the end is the top of the
// draw pile.
type Deck []Card

// New creates a deck of cards in canonical order: suits outer, ranks inner
func New() Deck {
	cards := make(Deck, 0, Size)
	for _, suit := range Suits {
		for _, rank := range Ranks {
			cards = append(cards, NewCard(suit, rank))
		}
	}
	return cards
}

// Shuffle shuffles the deck in place with an unbiased Fisher-Yates pass.
// A nil rng falls back to the package-level source.
func (d *Deck) Shuffle(rng *rand.Rand) {
	intn := rand.Intn
	if rng != nil {
		intn = rng.Intn
	}

	actualDeck := *d
	for i := len(actualDeck) - 1; i > 0; i-- {
		j := intn(i + 1)
		actualDeck[i], actualDeck[j] = actualDeck[j], actualDeck[i]
	}
}

// Deal removes n cards from the front of the deck.
// It returns an empty slice if n is out of range.
func (d *Deck) Deal(n int) []Card {
	if n < 0 || n > len(*d) {
		return []Card{}
	}
	dealt := make([]Card, n)
	copy(dealt, (*d)[:n])
	*d = (*d)[n:]
	return dealt
}

// Draw removes the top card of the draw pile
func (d *Deck) Draw() (Card, bool) {
	n := len(*d)
	if n == 0 {
		return Card{}, false
	}
	card := (*d)[n-1]
	*d = (*d)[:n-1]
	return card, true
}

// RemoveAt removes and returns the card at index i
func (d *Deck) RemoveAt(i int) (Card, bool) {
	if i < 0 || i >= len(*d) {
		return Card{}, false
	}
	card := (*d)[i]
	remaining := make(Deck, 0, len(*d)-1)
	remaining = append(remaining, (*d)[:i]...)
	remaining = append(remaining, (*d)[i+1:]...)
	*d = remaining
	return card, true
}

// Clone returns a copy of the deck that shares no memory with d
func (d Deck) Clone() Deck {
	if d == nil {
		return Deck{}
	}
	c := make(Deck, len(d))
	copy(c, d)
	return c
}
