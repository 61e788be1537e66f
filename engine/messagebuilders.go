package engine

import (
	"github.com/minaorangina/crazyeights/deck"
	"github.com/minaorangina/crazyeights/game"
	"github.com/minaorangina/crazyeights/protocol"
)

// BuildPlayerView reduces a snapshot to what the player may see
func BuildPlayerView(snap game.Snapshot, legal []deck.Card) protocol.PlayerView {
	if legal == nil {
		legal = []deck.Card{}
	}
	return protocol.PlayerView{
		Hand:          snap.PlayerHand,
		LegalPlays:    legal,
		OpponentCount: len(snap.OpponentHand),
		DeckCount:     snap.DeckCount,
		Top:           snap.Top,
		ActiveSuit:    snap.ActiveSuit,
		Turn:          snap.Turn,
		Status:        snap.Status,
		Winner:        snap.Winner,
	}
}

func buildStateMessage(playerID string, g *game.Game) protocol.OutboundMessage {
	snap := g.Snapshot()

	legal := []deck.Card{}
	if snap.Status == game.Playing && snap.Turn == game.Player {
		legal = g.LegalPlays(game.Player)
	}

	view := BuildPlayerView(snap, legal)
	return protocol.OutboundMessage{
		PlayerID: playerID,
		Command:  protocol.State,
		State:    &view,
	}
}

// buildEventMessages hides the card the opponent draws
func buildEventMessages(playerID string, events []game.Event) []protocol.OutboundMessage {
	msgs := []protocol.OutboundMessage{}
	for _, e := range events {
		e := e
		if e.Kind == game.CardDrawn && e.Actor == game.Opponent {
			e.Card = nil
		}
		msgs = append(msgs, protocol.OutboundMessage{
			PlayerID: playerID,
			Command:  protocol.Event,
			Event:    &e,
		})
	}
	return msgs
}

func buildErrorMessage(playerID string, err error) protocol.OutboundMessage {
	return protocol.OutboundMessage{
		PlayerID: playerID,
		Command:  protocol.Error,
		Error:    err.Error(),
	}
}
