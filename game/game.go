package game

import (
	"errors"
	"math/rand"

	"github.com/minaorangina/crazyeights/deck"
)

var (
	ErrNilGame         = errors.New("game is nil")
	ErrGameNotStarted  = errors.New("game has not started")
	ErrGameOver        = errors.New("game is already over")
	ErrNotYourTurn     = errors.New("not your turn")
	ErrAwaitingSuit    = errors.New("game is awaiting a suit choice")
	ErrNotChoosingSuit = errors.New("no suit choice is pending")
	ErrCardNotInHand   = errors.New("card is not in hand")
	ErrIllegalMove     = errors.New("illegal move")
	ErrInvalidSuit     = errors.New("invalid suit")
	ErrInvalidActor    = errors.New("invalid actor")
)

// GameOpts configures a Game. Every field is optional.
type GameOpts struct {
	Rand   *rand.Rand // shuffles the deck; nil uses the package-level source
	Policy Policy     // drives the opponent; nil uses a GreedyPolicy on Rand
	State  *State     // resumes an existing table instead of starting Idle
}

// Game is a game of Crazy Eights between the player and the opponent.
// A Game is not safe for concurrent use.
type Game struct {
	state  State
	rng    *rand.Rand
	policy Policy
}

// New constructs a Game
func New(opts GameOpts) *Game {
	g := &Game{
		rng:    opts.Rand,
		policy: opts.Policy,
	}
	if g.policy == nil {
		g.policy = NewGreedyPolicy(opts.Rand)
	}
	if opts.State != nil {
		g.state = opts.State.clone()
	}
	return g
}

// NewGame shuffles a fresh deck and deals a new game, whatever state the
// previous one was in.
func (g *Game) NewGame() (Snapshot, []Event) {
	d := deck.New()
	d.Shuffle(g.rng)
	return g.NewGameFromDeck(d)
}

// NewGameFromDeck deals a new game from d as given, without shuffling
func (g *Game) NewGameFromDeck(d deck.Deck) (Snapshot, []Event) {
	state, events := deal(d.Clone())
	g.state = state
	return g.state.snapshot(), events
}

// Reset clears the table. The game is Idle until the next NewGame.
func (g *Game) Reset() Snapshot {
	g.state = State{}
	return g.state.snapshot()
}

// PlayCard moves card from the actor's hand to the discard pile
func (g *Game) PlayCard(card deck.Card, actor Actor) ([]Event, error) {
	if g == nil {
		return nil, ErrNilGame
	}
	return g.commit(playCard(g.state, card, actor, g.policy))
}

// DrawCard draws the top card of the draw pile into the actor's hand
func (g *Game) DrawCard(actor Actor) ([]Event, error) {
	if g == nil {
		return nil, ErrNilGame
	}
	return g.commit(drawCard(g.state, actor))
}

// ChooseSuit resolves the suit choice after the player's eight
func (g *Game) ChooseSuit(suit deck.Suit) ([]Event, error) {
	if g == nil {
		return nil, ErrNilGame
	}
	return g.commit(chooseSuit(g.state, suit))
}

// OpponentMove lets the policy take the opponent's turn
func (g *Game) OpponentMove() ([]Event, error) {
	if g == nil {
		return nil, ErrNilGame
	}
	if err := checkCanAct(g.state, Opponent); err != nil {
		return nil, err
	}

	top, _ := g.state.Top()
	decision := g.policy.Choose(cloneCards(g.state.OpponentHand), top, g.state.ActiveSuit)
	if decision.Draw {
		return g.DrawCard(Opponent)
	}
	return g.PlayCard(decision.Card, Opponent)
}

// LegalPlays returns the actor's cards that may be played right now
func (g *Game) LegalPlays(actor Actor) []deck.Card {
	top, ok := g.state.Top()
	if !ok || g.state.Status != Playing {
		return []deck.Card{}
	}
	return LegalPlays(g.state.Hand(actor), top, g.state.ActiveSuit)
}

// Snapshot returns a copy of the table
func (g *Game) Snapshot() Snapshot {
	return g.state.snapshot()
}

// State returns a copy of the full game state
func (g *Game) State() State {
	return g.state.clone()
}

func (g *Game) Status() Status {
	return g.state.Status
}

func (g *Game) Turn() Actor {
	return g.state.Turn
}

func (g *Game) commit(next State, events []Event, err error) ([]Event, error) {
	if err != nil {
		return nil, err
	}
	g.state = next
	return events, nil
}

// deal takes 8 cards each from the front of d, then seeds the pile with
// the first card that isn't an eight.
func deal(d deck.Deck) (State, []Event) {
	s := State{
		PlayerHand:   d.Deal(handSize),
		OpponentHand: d.Deal(handSize),
		Pile:         []deck.Card{},
		Turn:         Player,
		Status:       Playing,
		Winner:       Nobody,
	}

	idx := 0
	for idx < len(d) && d[idx].Rank == wildRank {
		idx++
	}
	if idx == len(d) {
		idx = 0
	}

	if first, ok := d.RemoveAt(idx); ok {
		s.Pile = append(s.Pile, first)
		s.ActiveSuit = first.Suit
	}
	s.Deck = d

	return s, []Event{turnStarted(Player)}
}

func checkCanAct(s State, actor Actor) error {
	if !actor.Valid() {
		return ErrInvalidActor
	}

	switch s.Status {
	case Idle:
		return ErrGameNotStarted
	case GameOver:
		return ErrGameOver
	case ChoosingSuit:
		return ErrAwaitingSuit
	}

	if s.Turn != actor {
		return ErrNotYourTurn
	}
	return nil
}

func playCard(s State, card deck.Card, actor Actor, policy Policy) (State, []Event, error) {
	if err := checkCanAct(s, actor); err != nil {
		return s, nil, err
	}

	hand := s.Hand(actor)
	idx := indexOfCard(hand, card.ID)
	if idx < 0 {
		return s, nil, ErrCardNotInHand
	}
	card = hand[idx]

	top, _ := s.Top()
	if !IsPlayable(card, top, s.ActiveSuit) {
		return s, nil, ErrIllegalMove
	}

	next := s.clone()
	next.setHand(actor, removeCardAt(hand, idx))
	next.Pile = append(next.Pile, card)
	events := []Event{cardEvent(CardPlayed, actor, card)}

	// a last card wins outright, eight or not
	if won, ok := next.checkWinner(); ok {
		next.ActiveSuit = card.Suit
		return next, append(events, won), nil
	}

	if card.Rank != wildRank {
		next.ActiveSuit = card.Suit
		return next, append(events, next.advance()), nil
	}

	if actor == Player {
		next.Status = ChoosingSuit
		return next, append(events, Event{Kind: SuitRequested, Actor: Player}), nil
	}

	suit := policy.ChooseSuit(cloneCards(next.OpponentHand))
	next.ActiveSuit = suit
	events = append(events, Event{Kind: WildPlayed, Actor: Opponent, Suit: suit})
	return next, append(events, next.advance()), nil
}

func chooseSuit(s State, suit deck.Suit) (State, []Event, error) {
	if s.Status != ChoosingSuit {
		return s, nil, ErrNotChoosingSuit
	}
	if !suit.Valid() {
		return s, nil, ErrInvalidSuit
	}

	next := s.clone()
	next.ActiveSuit = suit
	next.Status = Playing
	events := []Event{{Kind: SuitChosen, Actor: next.Turn, Suit: suit}}
	return next, append(events, next.advance()), nil
}

// drawCard keeps the turn with the actor when the drawn card can be played
// straight away.
func drawCard(s State, actor Actor) (State, []Event, error) {
	if err := checkCanAct(s, actor); err != nil {
		return s, nil, err
	}

	next := s.clone()
	card, ok := next.Deck.Draw()
	if !ok {
		events := []Event{{Kind: EmptyDeck, Actor: actor}}
		return next, append(events, next.advance()), nil
	}

	next.setHand(actor, append(next.Hand(actor), card))
	events := []Event{cardEvent(CardDrawn, actor, card)}

	top, _ := next.Top()
	if IsPlayable(card, top, next.ActiveSuit) {
		return next, events, nil
	}
	return next, append(events, next.advance()), nil
}
