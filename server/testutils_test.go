package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	utils "github.com/minaorangina/crazyeights/internal"
	"github.com/minaorangina/crazyeights/protocol"
	"github.com/sirupsen/logrus/hooks/test"
)

func newTestGameServer(t *testing.T, opts ServerOpts) *GameServer {
	t.Helper()

	if opts.Logger == nil {
		opts.Logger, _ = test.NewNullLogger()
	}
	s := NewServer(opts)
	t.Cleanup(s.StopGames)
	return s
}

func mustMakeJson(t *testing.T, input interface{}) []byte {
	t.Helper()

	data, err := json.Marshal(input)
	utils.AssertNoError(t, err)

	return data
}

func newCreateGameRequest(data []byte) *http.Request {
	request, _ := http.NewRequest(http.MethodPost, "/new", bytes.NewBuffer(data))
	return request
}

func newGetGameRequest(gameID string) *http.Request {
	request, _ := http.NewRequest(http.MethodGet, "/game/"+gameID, nil)
	return request
}

func mustDecode(t *testing.T, body io.Reader, v interface{}) {
	t.Helper()

	if err := json.NewDecoder(body).Decode(v); err != nil {
		t.Fatalf("could not unmarshal json: %s", err.Error())
	}
}

func mustDialWS(t *testing.T, url string) *websocket.Conn {
	t.Helper()

	ws, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		code := 0
		if resp != nil {
			code = resp.StatusCode
		}
		t.Fatalf("could not open a ws connection on %s, code %d: %v", url, code, err)
	}
	t.Cleanup(func() { ws.Close() })

	return ws
}

func makeWSUrl(serverURL, gameID, playerID string) string {
	return "ws" + strings.TrimPrefix(serverURL, "http") +
		"/ws?game_id=" + gameID + "&player_id=" + playerID
}

// readUntil reads messages until match accepts one
func readUntil(t *testing.T, ws *websocket.Conn, match func(protocol.OutboundMessage) bool) protocol.OutboundMessage {
	t.Helper()

	ws.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		var msg protocol.OutboundMessage
		if err := ws.ReadJSON(&msg); err != nil {
			t.Fatalf("reading from websocket: %v", err)
		}
		if match(msg) {
			return msg
		}
	}
}

// ASSERTIONS

func assertStatus(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("got status %d, want %d", got, want)
	}
}

func assertPendingGameResponse(t *testing.T, body io.Reader, want string) PendingGameRes {
	t.Helper()

	var got PendingGameRes
	mustDecode(t, body, &got)

	if got.Name != want {
		t.Errorf("got %s, want %s", got.Name, want)
	}
	if len(got.GameID) == 0 {
		t.Error("expected a game id")
	}
	if len(got.PlayerID) == 0 {
		t.Error("expected a player id")
	}
	return got
}
