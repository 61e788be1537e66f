package engine

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/minaorangina/crazyeights/deck"
	"github.com/minaorangina/crazyeights/protocol"
)

var (
	ErrUnknownCommand  = errors.New("unknown command, type help for a list")
	ErrMissingArgument = errors.New("that command needs an argument")
	ErrBadCardNumber   = errors.New("no card with that number")
	errHelp            = errors.New(helpText)
)

// CLIPlayer plays from a terminal
type CLIPlayer struct {
	id   string
	name string
	in   io.Reader
	out  io.Writer

	mu   sync.Mutex // guards out and hand
	hand []deck.Card
}

func NewCLIPlayer(id, name string, in io.Reader, out io.Writer) *CLIPlayer {
	return &CLIPlayer{
		id:   id,
		name: name,
		in:   in,
		out:  out,
		hand: []deck.Card{},
	}
}

func (p *CLIPlayer) ID() string {
	return p.id
}

func (p *CLIPlayer) Name() string {
	return p.name
}

// Send renders msg to the terminal
func (p *CLIPlayer) Send(msg protocol.OutboundMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch msg.Command {
	case protocol.Event:
		if msg.Event != nil {
			SendText(p.out, "%s\n", describeEvent(*msg.Event))
		}
	case protocol.State:
		if msg.State != nil {
			p.hand = msg.State.Hand
			SendText(p.out, "%s", renderTable(*msg.State))
		}
	case protocol.Error:
		SendText(p.out, "%s\n", errorStyle.Render(msg.Error))
	default:
		return fmt.Errorf("%w: %s", ErrUnexpectedCommand, msg.Command)
	}
	return nil
}

// Play reads commands from the terminal and hands them to ge until the
// player quits, the input ends or ctx is cancelled.
func (p *CLIPlayer) Play(ctx context.Context, ge GameEngine) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(p.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	p.say(helpText)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-scanErr:
			return err
		case line := <-lines:
			p.mu.Lock()
			hand := p.hand
			p.mu.Unlock()

			msg, quit, err := parseCommand(line, hand)
			if quit {
				return nil
			}
			if err != nil {
				p.say("%s\n%s", err, promptText)
				continue
			}

			msg.PlayerID = p.id
			ge.Receive(msg)
		}
	}
}

func (p *CLIPlayer) say(text string, a ...interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	SendText(p.out, text, a...)
}

// parseCommand turns a line of input into a message for the engine.
// Card numbers are 1-based positions in hand.
func parseCommand(line string, hand []deck.Card) (msg protocol.InboundMessage, quit bool, err error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return msg, false, ErrUnknownCommand
	}

	switch fields[0] {
	case "play", "p":
		if len(fields) < 2 {
			return msg, false, ErrMissingArgument
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil || n < 1 || n > len(hand) {
			return msg, false, ErrBadCardNumber
		}
		msg.Command = protocol.PlayCard
		msg.CardID = hand[n-1].ID

	case "draw", "d":
		msg.Command = protocol.DrawCard

	case "suit", "s":
		if len(fields) < 2 {
			return msg, false, ErrMissingArgument
		}
		suit, err := deck.ParseSuit(fields[1])
		if err != nil {
			return msg, false, err
		}
		msg.Command = protocol.ChooseSuit
		msg.Suit = suit

	case "new", "n":
		msg.Command = protocol.NewGame

	case "look", "l":
		msg.Command = protocol.Sync

	case "reset", "r":
		msg.Command = protocol.Reset

	case "help", "h", "?":
		return msg, false, errHelp

	case "quit", "q", "exit":
		return msg, true, nil

	default:
		return msg, false, ErrUnknownCommand
	}

	return msg, false, nil
}
