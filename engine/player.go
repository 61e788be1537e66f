package engine

import (
	"github.com/minaorangina/crazyeights/protocol"
	uuid "github.com/satori/go.uuid"
)

// NewID constructs a game or player ID
func NewID() string {
	return uuid.NewV4().String()
}

// Player represents the human side of a session
type Player interface {
	ID() string
	Name() string
	Send(msg protocol.OutboundMessage) error
}
