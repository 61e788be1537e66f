package engine

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/minaorangina/crazyeights/deck"
	"github.com/minaorangina/crazyeights/game"
	"github.com/minaorangina/crazyeights/protocol"
)

const (
	helpText = `Commands:
  play <n>     play card n from your hand
  draw         draw a card
  suit <name>  choose hearts, diamonds, clubs or spades after an eight
  new          start a new game
  look         show the table again
  reset        clear the table
  quit         leave
`
	promptText = "> "
)

var (
	redStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#E0474C")).Bold(true)
	blackStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#E8E8E8")).Bold(true)
	faintStyle  = lipgloss.NewStyle().Faint(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF8C00"))
	winStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	tableStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
)

func SendText(w io.Writer, text string, a ...interface{}) {
	fmt.Fprintf(w, text, a...)
}

func renderCard(c deck.Card) string {
	if c.Suit.Red() {
		return redStyle.Render(c.String())
	}
	return blackStyle.Render(c.String())
}

func renderSuit(s deck.Suit) string {
	text := s.Symbol() + " " + strings.ToLower(s.String())
	if s.Red() {
		return redStyle.Render(text)
	}
	return blackStyle.Render(text)
}

// renderHand numbers the cards from 1 and fades the ones that can't be played
func renderHand(hand, legal []deck.Card) string {
	playable := map[string]bool{}
	for _, c := range legal {
		playable[c.ID] = true
	}

	cards := []string{}
	for i, c := range hand {
		label := fmt.Sprintf("%d:", i+1)
		if playable[c.ID] {
			cards = append(cards, label+renderCard(c))
		} else {
			cards = append(cards, faintStyle.Render(label+c.String()))
		}
	}
	return strings.Join(cards, "  ")
}

func renderTable(view protocol.PlayerView) string {
	if view.Status == game.Idle {
		return "Type \"new\" to deal a game.\n" + promptText
	}

	top := "none"
	if view.Top != nil {
		top = renderCard(*view.Top)
	}

	lines := []string{
		headerStyle.Render("Crazy Eights"),
		fmt.Sprintf("Discard: %s   Suit: %s", top, renderSuit(view.ActiveSuit)),
		fmt.Sprintf("Draw pile: %d   Opponent holds: %d", view.DeckCount, view.OpponentCount),
		"",
		"Your hand: " + renderHand(view.Hand, view.LegalPlays),
	}

	switch view.Status {
	case game.ChoosingSuit:
		lines = append(lines, "Choose a suit: suit <hearts|diamonds|clubs|spades>")
	case game.GameOver:
		lines = append(lines, describeWinner(view.Winner))
	default:
		if view.Turn == game.Opponent {
			lines = append(lines, faintStyle.Render("Opponent is thinking..."))
		}
	}

	return tableStyle.Render(strings.Join(lines, "\n")) + "\n" + promptText
}

func describeWinner(a game.Actor) string {
	if a == game.Player {
		return winStyle.Render("You win!")
	}
	return "Opponent wins."
}

func describeEvent(e game.Event) string {
	who := "Opponent"
	if e.Actor == game.Player {
		who = "You"
	}

	switch e.Kind {
	case game.TurnStarted:
		if e.Actor == game.Player {
			return "Your turn."
		}
		return "Opponent's turn."
	case game.CardPlayed:
		if e.Card == nil {
			return fmt.Sprintf("%s played a card", who)
		}
		return fmt.Sprintf("%s played %s", who, renderCard(*e.Card))
	case game.WildPlayed:
		return fmt.Sprintf("Opponent named %s", renderSuit(e.Suit))
	case game.SuitRequested:
		return "You played an eight. Choose a suit."
	case game.SuitChosen:
		return fmt.Sprintf("You named %s", renderSuit(e.Suit))
	case game.CardDrawn:
		if e.Card == nil {
			return fmt.Sprintf("%s drew a card", who)
		}
		return fmt.Sprintf("%s drew %s", who, renderCard(*e.Card))
	case game.EmptyDeck:
		if e.Actor == game.Player {
			return "The draw pile is empty. You lose your turn."
		}
		return "The draw pile is empty. Opponent loses its turn."
	case game.GameWon:
		return describeWinner(e.Actor)
	}
	return e.Kind.String()
}
