package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/minaorangina/crazyeights/deck"
	"github.com/minaorangina/crazyeights/game"
	"github.com/minaorangina/crazyeights/protocol"
	"github.com/minaorangina/crazyeights/results"
	"github.com/sirupsen/logrus"
)

// PlayState represents the state of the current session
// Idle -> no game dealt yet
// InProgress -> a game is being played
// Over -> the last game has been won
type PlayState int

const (
	Idle PlayState = iota
	InProgress
	Over
)

func (ps PlayState) String() string {
	switch ps {
	case Idle:
		return "idle"
	case InProgress:
		return "inProgress"
	case Over:
		return "over"
	}
	return ""
}

// DefaultOpponentDelay is how long the opponent waits before moving
const DefaultOpponentDelay = 1500 * time.Millisecond

const recordTimeout = 5 * time.Second

var (
	ErrEngineStopped     = errors.New("game engine has stopped")
	ErrUnexpectedCommand = errors.New("unexpected command")
)

// GameEngine runs one player's session against the opponent
type GameEngine interface {
	ID() string
	CreatorID() string
	CreatorName() string
	PlayState() PlayState
	Snapshot() game.Snapshot
	AddPlayer(Player) error
	RemovePlayer(Player)
	Receive(protocol.InboundMessage)
	Listen(ctx context.Context)
	Stop()
}

type GameEngineOpts struct {
	GameID        string
	CreatorID     string
	CreatorName   string
	Game          *game.Game // defaults to a fresh, idle game
	OpponentDelay time.Duration
	Recorder      results.Recorder // optional
	IdleTimeout   time.Duration    // ends Listen once nobody is attached for this long; 0 never does
	Logger        logrus.FieldLogger
	RegisterCh    chan Player
	InboundCh     chan protocol.InboundMessage
}

type gameEngine struct {
	id            string
	creatorID     string
	creatorName   string
	opponentDelay time.Duration
	recorder      results.Recorder
	log           logrus.FieldLogger

	registerCh chan Player
	inboundCh  chan protocol.InboundMessage
	leaveCh    chan Player
	opponentCh chan int
	idleCh     chan int
	quit       chan struct{}
	done       chan struct{}
	stopOnce   sync.Once

	// owned by the Listen goroutine
	generation  int
	timer       *time.Timer
	idleTimeout time.Duration
	idleGen     int
	idleTimer   *time.Timer
	startedAt   time.Time
	moves       int

	mu        sync.RWMutex
	game      *game.Game
	player    Player
	playState PlayState
}

// NewGameEngine constructs a GameEngine. Nothing happens until Listen is
// running.
func NewGameEngine(opts GameEngineOpts) (*gameEngine, error) {
	if opts.GameID == "" {
		return nil, errors.New("game engine needs an id")
	}
	if opts.Game == nil {
		opts.Game = game.New(game.GameOpts{})
	}
	if opts.OpponentDelay <= 0 {
		opts.OpponentDelay = DefaultOpponentDelay
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.RegisterCh == nil {
		opts.RegisterCh = make(chan Player)
	}
	if opts.InboundCh == nil {
		opts.InboundCh = make(chan protocol.InboundMessage)
	}

	playState := Idle
	var startedAt time.Time
	switch opts.Game.Status() {
	case game.Playing, game.ChoosingSuit:
		playState = InProgress
		startedAt = time.Now()
	case game.GameOver:
		playState = Over
	}

	return &gameEngine{
		id:            opts.GameID,
		creatorID:     opts.CreatorID,
		creatorName:   opts.CreatorName,
		opponentDelay: opts.OpponentDelay,
		recorder:      opts.Recorder,
		log:           opts.Logger.WithField("game", opts.GameID),
		registerCh:    opts.RegisterCh,
		inboundCh:     opts.InboundCh,
		leaveCh:       make(chan Player),
		opponentCh:    make(chan int),
		idleCh:        make(chan int),
		idleTimeout:   opts.IdleTimeout,
		startedAt:     startedAt,
		quit:          make(chan struct{}),
		done:          make(chan struct{}),
		game:          opts.Game,
		playState:     playState,
	}, nil
}

func (ge *gameEngine) ID() string {
	return ge.id
}

func (ge *gameEngine) CreatorID() string {
	return ge.creatorID
}

func (ge *gameEngine) CreatorName() string {
	return ge.creatorName
}

func (ge *gameEngine) PlayState() PlayState {
	ge.mu.RLock()
	defer ge.mu.RUnlock()
	return ge.playState
}

func (ge *gameEngine) Snapshot() game.Snapshot {
	ge.mu.RLock()
	defer ge.mu.RUnlock()
	return ge.game.Snapshot()
}

// AddPlayer attaches p to the session, replacing any earlier connection
func (ge *gameEngine) AddPlayer(p Player) error {
	if ge.stopped() {
		return ErrEngineStopped
	}

	select {
	case ge.registerCh <- p:
		return nil
	case <-ge.quit:
		return ErrEngineStopped
	case <-ge.done:
		return ErrEngineStopped
	}
}

// RemovePlayer detaches p if it is still the session's player
func (ge *gameEngine) RemovePlayer(p Player) {
	if ge.stopped() {
		return
	}

	select {
	case ge.leaveCh <- p:
	case <-ge.quit:
	case <-ge.done:
	}
}

// Receive queues a message from the player
func (ge *gameEngine) Receive(msg protocol.InboundMessage) {
	if ge.stopped() {
		return
	}

	select {
	case ge.inboundCh <- msg:
	case <-ge.quit:
	case <-ge.done:
	}
}

// Stop ends the Listen loop and cancels any pending opponent move
func (ge *gameEngine) Stop() {
	ge.stopOnce.Do(func() {
		close(ge.quit)
	})
}

func (ge *gameEngine) stopped() bool {
	select {
	case <-ge.quit:
		return true
	case <-ge.done:
		return true
	default:
		return false
	}
}

// Listen processes player messages and opponent moves one at a time until
// ctx is cancelled, Stop is called or the session has had no player for
// IdleTimeout.
func (ge *gameEngine) Listen(ctx context.Context) {
	defer func() {
		ge.stopTimer()
		ge.stopIdleTimer()
		close(ge.done)
		ge.log.Debug("engine stopped")
	}()

	ge.mu.RLock()
	alone := ge.player == nil
	ge.mu.RUnlock()
	if alone {
		ge.startIdleTimer()
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ge.quit:
			return

		case p := <-ge.registerCh:
			ge.register(p)

		case p := <-ge.leaveCh:
			ge.unregister(p)

		case gen := <-ge.idleCh:
			if gen == ge.idleGen {
				ge.log.Info("nobody came back, closing the session")
				return
			}

		case msg := <-ge.inboundCh:
			ge.handleInbound(msg)

		case gen := <-ge.opponentCh:
			ge.handleOpponentTurn(gen)
		}
	}
}

func (ge *gameEngine) register(p Player) {
	ge.mu.Lock()
	ge.player = p
	ge.mu.Unlock()

	ge.stopIdleTimer()
	ge.log.WithField("player", p.ID()).Info("player attached")
	ge.sendState()

	// a resumed table may be waiting on the opponent
	if ge.timer == nil {
		ge.scheduleOpponentIfDue()
	}
}

func (ge *gameEngine) unregister(p Player) {
	ge.mu.Lock()
	current := ge.player == p
	if current {
		ge.player = nil
	}
	ge.mu.Unlock()

	if !current {
		return
	}
	ge.log.WithField("player", p.ID()).Info("player detached")
	ge.startIdleTimer()
}

func (ge *gameEngine) handleInbound(msg protocol.InboundMessage) {
	log := ge.log.WithFields(logrus.Fields{
		"player": msg.PlayerID,
		"cmd":    msg.Command.String(),
	})

	ge.mu.RLock()
	p := ge.player
	ge.mu.RUnlock()
	if p == nil || p.ID() != msg.PlayerID {
		log.Warn("dropping message from unknown player")
		return
	}

	var (
		events []game.Event
		err    error
	)

	ge.mu.Lock()
	switch msg.Command {
	case protocol.NewGame:
		_, events = ge.game.NewGame()
		ge.playState = InProgress
		ge.startedAt = time.Now()
		ge.moves = 0
	case protocol.PlayCard:
		events, err = ge.game.PlayCard(deck.Card{ID: msg.CardID}, game.Player)
	case protocol.DrawCard:
		events, err = ge.game.DrawCard(game.Player)
	case protocol.ChooseSuit:
		events, err = ge.game.ChooseSuit(msg.Suit)
	case protocol.Reset:
		ge.game.Reset()
		ge.playState = Idle
	case protocol.Sync:
	default:
		err = fmt.Errorf("%w: %s", ErrUnexpectedCommand, msg.Command)
	}
	if err == nil && msg.Command != protocol.NewGame && msg.Command != protocol.Sync && msg.Command != protocol.Reset {
		ge.moves++
	}
	ge.mu.Unlock()

	if err != nil {
		log.WithError(err).Info("move rejected")
		ge.send(buildErrorMessage(msg.PlayerID, err))
		return
	}

	if msg.Command == protocol.Sync {
		ge.sendState()
		return
	}

	log.Debug("move accepted")
	ge.commit(events)
}

func (ge *gameEngine) handleOpponentTurn(gen int) {
	log := ge.log.WithField("generation", gen)
	if gen != ge.generation {
		log.Debug("dropping stale opponent move")
		return
	}

	ge.mu.Lock()
	events, err := ge.game.OpponentMove()
	if err == nil {
		ge.moves++
	}
	ge.mu.Unlock()

	if err != nil {
		log.WithError(err).Error("opponent could not move")
		return
	}

	log.Debug("opponent moved")
	ge.commit(events)
}

// commit tells the player what happened, then decides what comes next:
// a finished game is recorded and an opponent turn is scheduled.
func (ge *gameEngine) commit(events []game.Event) {
	ge.generation++
	ge.stopTimer()

	ge.mu.RLock()
	playerID := ""
	if ge.player != nil {
		playerID = ge.player.ID()
	}
	ge.mu.RUnlock()

	for _, m := range buildEventMessages(playerID, events) {
		ge.send(m)
	}
	ge.sendState()

	snap := ge.Snapshot()
	if snap.Status == game.GameOver {
		ge.mu.Lock()
		alreadyOver := ge.playState == Over
		ge.playState = Over
		ge.mu.Unlock()
		if !alreadyOver {
			ge.record(snap)
		}
		return
	}

	ge.scheduleOpponentIfDue()
}

// scheduleOpponentIfDue schedules a move when the opponent holds the turn
func (ge *gameEngine) scheduleOpponentIfDue() {
	snap := ge.Snapshot()
	if snap.Status == game.Playing && snap.Turn == game.Opponent {
		ge.scheduleOpponent()
	}
}

func (ge *gameEngine) scheduleOpponent() {
	gen := ge.generation
	ge.timer = time.AfterFunc(ge.opponentDelay, func() {
		select {
		case ge.opponentCh <- gen:
		case <-ge.quit:
		case <-ge.done:
		}
	})
	ge.log.WithField("generation", gen).Debug("opponent move scheduled")
}

func (ge *gameEngine) stopTimer() {
	if ge.timer != nil {
		ge.timer.Stop()
		ge.timer = nil
	}
}

func (ge *gameEngine) startIdleTimer() {
	if ge.idleTimeout <= 0 {
		return
	}
	ge.stopIdleTimer()

	gen := ge.idleGen
	ge.idleTimer = time.AfterFunc(ge.idleTimeout, func() {
		select {
		case ge.idleCh <- gen:
		case <-ge.quit:
		case <-ge.done:
		}
	})
}

func (ge *gameEngine) stopIdleTimer() {
	ge.idleGen++
	if ge.idleTimer != nil {
		ge.idleTimer.Stop()
		ge.idleTimer = nil
	}
}

func (ge *gameEngine) record(snap game.Snapshot) {
	log := ge.log.WithField("winner", snap.Winner.String())
	log.Info("game over")

	if ge.recorder == nil {
		return
	}

	ge.mu.RLock()
	name := ge.creatorName
	if ge.player != nil {
		name = ge.player.Name()
	}
	ge.mu.RUnlock()

	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	err := ge.recorder.Record(ctx, results.Result{
		GameID:     ge.id,
		PlayerName: name,
		Winner:     snap.Winner,
		Moves:      ge.moves,
		StartedAt:  ge.startedAt,
		FinishedAt: time.Now(),
	})
	if err != nil {
		log.WithError(err).Error("could not record result")
	}
}

func (ge *gameEngine) sendState() {
	ge.mu.RLock()
	p := ge.player
	var msg protocol.OutboundMessage
	if p != nil {
		msg = buildStateMessage(p.ID(), ge.game)
	}
	ge.mu.RUnlock()

	if p != nil {
		ge.send(msg)
	}
}

func (ge *gameEngine) send(msg protocol.OutboundMessage) {
	ge.mu.RLock()
	p := ge.player
	ge.mu.RUnlock()

	if p == nil {
		return
	}
	if err := p.Send(msg); err != nil {
		ge.log.WithError(err).WithField("player", p.ID()).Warn("could not message player")
	}
}
