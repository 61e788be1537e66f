package game

import (
	"math/rand"

	"github.com/minaorangina/crazyeights/deck"
)

// fallbackSuit is named when the opponent wins on an eight with no cards left
const fallbackSuit = deck.Hearts

// Decision is what the opponent wants to do on its turn
type Decision struct {
	Draw bool
	Card deck.Card
}

// Policy decides the opponent's moves
type Policy interface {
	Choose(hand []deck.Card, top deck.Card, activeSuit deck.Suit) Decision
	ChooseSuit(hand []deck.Card) deck.Suit
}

// GreedyPolicy plays any legal non-eight at random, keeping its eights
// until nothing else fits. It looks one move ahead at most.
type GreedyPolicy struct {
	rng *rand.Rand
}

// NewGreedyPolicy constructs a GreedyPolicy. A nil rng uses the
// package-level source.
func NewGreedyPolicy(rng *rand.Rand) *GreedyPolicy {
	return &GreedyPolicy{rng: rng}
}

func (p *GreedyPolicy) intn(n int) int {
	if p.rng == nil {
		return rand.Intn(n)
	}
	return p.rng.Intn(n)
}

// Choose picks a card to play, or asks to draw when nothing is legal
func (p *GreedyPolicy) Choose(hand []deck.Card, top deck.Card, activeSuit deck.Suit) Decision {
	legal := LegalPlays(hand, top, activeSuit)
	if len(legal) == 0 {
		return Decision{Draw: true}
	}

	nonEights := []deck.Card{}
	for _, c := range legal {
		if c.Rank != wildRank {
			nonEights = append(nonEights, c)
		}
	}

	if len(nonEights) > 0 {
		return Decision{Card: nonEights[p.intn(len(nonEights))]}
	}

	// only eights left; any of them will do
	return Decision{Card: legal[0]}
}

// ChooseSuit names the suit the hand holds most of.
// Ties go to the suit that comes first in deck.Suits.
func (p *GreedyPolicy) ChooseSuit(hand []deck.Card) deck.Suit {
	if len(hand) == 0 {
		return fallbackSuit
	}

	counts := map[deck.Suit]int{}
	for _, c := range hand {
		counts[c.Suit]++
	}

	best, bestCount := fallbackSuit, 0
	for _, s := range deck.Suits {
		if counts[s] > bestCount {
			best, bestCount = s, counts[s]
		}
	}
	return best
}
