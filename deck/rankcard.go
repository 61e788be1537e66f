package deck

import (
	"fmt"
	"strings"
)

// Rank represents a rank in a deck of cards.
// Ranks are compared for equality only.
type Rank int

const (
	NoRank Rank = iota
	_
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// Ranks lists every rank in deck order
var Ranks = []Rank{Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King, Ace}

var rankNames = map[Rank]string{
	Two:   "2",
	Three: "3",
	Four:  "4",
	Five:  "5",
	Six:   "6",
	Seven: "7",
	Eight: "8",
	Nine:  "9",
	Ten:   "10",
	Jack:  "J",
	Queen: "Q",
	King:  "K",
	Ace:   "A",
}

func (r Rank) String() string {
	if name, ok := rankNames[r]; ok {
		return name
	}
	return ""
}

// Valid reports whether r is one of the thirteen ranks
func (r Rank) Valid() bool {
	_, ok := rankNames[r]
	return ok
}

func (r Rank) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Rank) UnmarshalText(text []byte) error {
	parsed, err := ParseRank(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// ParseRank converts "2".."10", "J", "Q", "K", "A" into a Rank.
// An empty string is NoRank.
func ParseRank(s string) (Rank, error) {
	if s == "" {
		return NoRank, nil
	}
	for rank, name := range rankNames {
		if strings.EqualFold(name, s) {
			return rank, nil
		}
	}
	return NoRank, fmt.Errorf("unknown rank %q", s)
}

// Suit represents a suit in a deck of cards
type Suit int

const (
	NoSuit Suit = iota
	Hearts
	Diamonds
	Clubs
	Spades
)

// Suits lists every suit in enumeration order.
// The order is used to break ties between suits.
var Suits = []Suit{Hearts, Diamonds, Clubs, Spades}

var suitNames = map[Suit]string{
	Hearts:   "HEARTS",
	Diamonds: "DIAMONDS",
	Clubs:    "CLUBS",
	Spades:   "SPADES",
}

var suitSymbols = map[Suit]string{
	Hearts:   "♥",
	Diamonds: "♦",
	Clubs:    "♣",
	Spades:   "♠",
}

func (s Suit) String() string {
	if name, ok := suitNames[s]; ok {
		return name
	}
	return ""
}

// Symbol returns the suit's card symbol, e.g. ♠
func (s Suit) Symbol() string {
	return suitSymbols[s]
}

// Valid reports whether s is one of the four suits
func (s Suit) Valid() bool {
	_, ok := suitNames[s]
	return ok
}

// Red reports whether the suit is printed in red
func (s Suit) Red() bool {
	return s == Hearts || s == Diamonds
}

func (s Suit) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Suit) UnmarshalText(text []byte) error {
	parsed, err := ParseSuit(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSuit converts a suit name (any case) into a Suit.
// An empty string is NoSuit.
func ParseSuit(s string) (Suit, error) {
	if s == "" {
		return NoSuit, nil
	}
	for suit, name := range suitNames {
		if strings.EqualFold(name, s) {
			return suit, nil
		}
	}
	return NoSuit, fmt.Errorf("unknown suit %q", s)
}
