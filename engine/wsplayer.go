package engine

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gorilla/websocket"
	"github.com/minaorangina/crazyeights/protocol"
	"github.com/sirupsen/logrus"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	sendBufferSize = 32
)

var (
	ErrPlayerGone     = errors.New("player has disconnected")
	ErrSendBufferFull = errors.New("player is not keeping up")
)

// WSPlayer is a player connected over a websocket
type WSPlayer struct {
	id     string
	name   string
	conn   *websocket.Conn
	sendCh chan []byte
	done   chan struct{}
	ge     GameEngine
	log    logrus.FieldLogger
}

// NewWSPlayer constructs a WSPlayer. Call Start once it has been added to ge.
func NewWSPlayer(id, name string, ws *websocket.Conn, ge GameEngine, log logrus.FieldLogger) *WSPlayer {
	if log == nil {
		log = logrus.StandardLogger()
	}

	p := &WSPlayer{
		id:     id,
		name:   name,
		conn:   ws,
		sendCh: make(chan []byte, sendBufferSize),
		done:   make(chan struct{}),
		ge:     ge,
		log:    log.WithField("player", id),
	}

	return p
}

// Start pumps messages between the socket and the engine
func (p *WSPlayer) Start() {
	go p.writePump()
	go p.readPump()
}

func (p *WSPlayer) ID() string {
	return p.id
}

func (p *WSPlayer) Name() string {
	return p.name
}

// Send queues msg for the socket. It never blocks the engine.
func (p *WSPlayer) Send(msg protocol.OutboundMessage) error {
	select {
	case <-p.done:
		return ErrPlayerGone
	default:
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	select {
	case p.sendCh <- data:
		return nil
	default:
		return ErrSendBufferFull
	}
}

func (p *WSPlayer) readPump() {
	defer func() {
		close(p.done)
		p.conn.Close()
		p.ge.RemovePlayer(p)
	}()

	p.conn.SetReadLimit(maxMessageSize)
	p.conn.SetReadDeadline(time.Now().Add(pongWait))
	p.conn.SetPongHandler(func(string) error {
		p.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := p.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				p.log.WithError(err).Warn("unexpected close")
			}
			p.log.Info("player disconnected")
			return
		}

		var msg protocol.InboundMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			p.log.WithError(err).Warn("could not parse message")
			p.Send(buildErrorMessage(p.id, err))
			continue
		}

		// the connection, not the payload, says who this is
		msg.PlayerID = p.id
		p.ge.Receive(msg)
	}
}

func (p *WSPlayer) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		p.conn.Close()
	}()

	for {
		select {
		case msg := <-p.sendCh:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				p.log.WithError(err).Warn("write failed")
				return
			}

		case <-ticker.C:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-p.done:
			return
		}
	}
}
