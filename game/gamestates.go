package game

import "fmt"

// Status represents the stage a game is in.
// Idle -> Playing <-> ChoosingSuit -> GameOver
type Status int

const (
	Idle Status = iota
	Playing
	ChoosingSuit // the player has played an eight and must name a suit
	GameOver
)

var statusNames = map[Status]string{
	Idle:         "IDLE",
	Playing:      "PLAYING",
	ChoosingSuit: "CHOOSING_SUIT",
	GameOver:     "GAME_OVER",
}

func (s Status) String() string {
	return statusNames[s]
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	for status, name := range statusNames {
		if name == string(text) {
			*s = status
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", text)
}

// Actor is one of the two seats at the table
type Actor int

const (
	Nobody Actor = iota
	Player
	Opponent
)

var actorNames = map[Actor]string{
	Nobody:   "",
	Player:   "PLAYER",
	Opponent: "OPPONENT",
}

func (a Actor) String() string {
	return actorNames[a]
}

// Valid reports whether a is Player or Opponent
func (a Actor) Valid() bool {
	return a == Player || a == Opponent
}

// Other returns the actor across the table
func (a Actor) Other() Actor {
	switch a {
	case Player:
		return Opponent
	case Opponent:
		return Player
	}
	return Nobody
}

func (a Actor) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Actor) UnmarshalText(text []byte) error {
	for actor, name := range actorNames {
		if name == string(text) {
			*a = actor
			return nil
		}
	}
	return fmt.Errorf("unknown actor %q", text)
}
