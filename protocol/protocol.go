package protocol

// Cmd represents a command
type Cmd int

const (
	Null Cmd = iota
	// inbound, player to engine
	NewGame
	PlayCard
	DrawCard
	ChooseSuit
	Sync  // asks for a fresh State message
	Reset // clears the table back to idle
	// outbound, engine to player
	Event
	State
	Error
)

var CmdNames = map[Cmd]string{
	Null:       "Null",
	NewGame:    "NewGame",
	PlayCard:   "PlayCard",
	DrawCard:   "DrawCard",
	ChooseSuit: "ChooseSuit",
	Sync:       "Sync",
	Reset:      "Reset",
	Event:      "Event",
	State:      "State",
	Error:      "Error",
}

var NameToCmd = map[string]Cmd{
	"Null":       Null,
	"NewGame":    NewGame,
	"PlayCard":   PlayCard,
	"DrawCard":   DrawCard,
	"ChooseSuit": ChooseSuit,
	"Sync":       Sync,
	"Reset":      Reset,
	"Event":      Event,
	"State":      State,
	"Error":      Error,
}

func (c Cmd) String() string {
	return CmdNames[c]
}

// Inbound reports whether a player may send c
func (c Cmd) Inbound() bool {
	return c >= NewGame && c <= Reset
}
