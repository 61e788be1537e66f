package engine

import (
	"bytes"
	"sync"

	"github.com/minaorangina/crazyeights/protocol"
)

// SpyPlayer records everything the engine sends it
type SpyPlayer struct {
	id       string
	name     string
	Received chan protocol.OutboundMessage
}

func NewSpyPlayer(id, name string) *SpyPlayer {
	return &SpyPlayer{
		id:       id,
		name:     name,
		Received: make(chan protocol.OutboundMessage, 256),
	}
}

func (sp *SpyPlayer) ID() string {
	return sp.id
}

func (sp *SpyPlayer) Name() string {
	return sp.name
}

func (sp *SpyPlayer) Send(msg protocol.OutboundMessage) error {
	sp.Received <- msg
	return nil
}

// TestBuffer is used in tests for io
type TestBuffer struct {
	buf bytes.Buffer
	m   sync.Mutex
}

func NewTestBuffer() *TestBuffer {
	return &TestBuffer{}
}

func (tb *TestBuffer) Read(p []byte) (int, error) {
	tb.m.Lock()
	defer tb.m.Unlock()
	return tb.buf.Read(p)
}

func (tb *TestBuffer) Write(p []byte) (int, error) {
	tb.m.Lock()
	defer tb.m.Unlock()
	return tb.buf.Write(p)
}

func (tb *TestBuffer) String() string {
	tb.m.Lock()
	defer tb.m.Unlock()
	return tb.buf.String()
}
