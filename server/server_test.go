package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/minaorangina/crazyeights/game"
	utils "github.com/minaorangina/crazyeights/internal"
	"github.com/minaorangina/crazyeights/protocol"
	"github.com/minaorangina/crazyeights/results"
	"github.com/minaorangina/crazyeights/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerPing(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<!DOCTYPE html><title>Crazy Eights</title>"), 0o644)
	require.NoError(t, err)

	response := httptest.NewRecorder()
	request, _ := http.NewRequest(http.MethodGet, "/", nil)

	server := newTestGameServer(t, ServerOpts{StaticDir: dir})
	server.ServeHTTP(response, request)

	assertStatus(t, response.Code, http.StatusOK)
	utils.AssertTrue(t, strings.Contains(strings.ToLower(response.Body.String()), "<!doctype html>"))
}

func TestServerPOSTNewGame(t *testing.T) {
	t.Run("succeeds and returns expected data", func(t *testing.T) {
		str := store.NewInMemoryGameStore()
		server := newTestGameServer(t, ServerOpts{Store: str})

		response := httptest.NewRecorder()
		server.ServeHTTP(response, newCreateGameRequest(mustMakeJson(t, NewGameReq{"Elton"})))

		assertStatus(t, response.Code, http.StatusCreated)
		utils.AssertEqual(t, response.Header().Get("Content-Type"), "application/json")
		got := assertPendingGameResponse(t, response.Body, "Elton")

		t.Log("and the game is waiting for its creator")
		ge := str.FindGame(got.GameID)
		require.NotNil(t, ge)
		utils.AssertEqual(t, ge.CreatorID(), got.PlayerID)
		utils.AssertEqual(t, ge.CreatorName(), "Elton")
	})

	t.Run("returns 400 if the body is missing", func(t *testing.T) {
		response := httptest.NewRecorder()
		server := newTestGameServer(t, ServerOpts{})
		server.ServeHTTP(response, newCreateGameRequest([]byte{}))

		assertStatus(t, response.Code, http.StatusBadRequest)
		utils.AssertEqual(t, response.Body.String(), "Missing body")
	})

	t.Run("returns 400 if the body is not json", func(t *testing.T) {
		response := httptest.NewRecorder()
		server := newTestGameServer(t, ServerOpts{})
		server.ServeHTTP(response, newCreateGameRequest([]byte("{name")))

		assertStatus(t, response.Code, http.StatusBadRequest)
	})

	t.Run("returns 400 if the player's name is missing", func(t *testing.T) {
		response := httptest.NewRecorder()
		server := newTestGameServer(t, ServerOpts{})
		server.ServeHTTP(response, newCreateGameRequest(mustMakeJson(t, NewGameReq{"   "})))

		assertStatus(t, response.Code, http.StatusBadRequest)
	})

	t.Run("does not match on GET /new", func(t *testing.T) {
		response := httptest.NewRecorder()
		request, _ := http.NewRequest(http.MethodGet, "/new", nil)

		server := newTestGameServer(t, ServerOpts{})
		server.ServeHTTP(response, request)

		assertStatus(t, response.Code, http.StatusNotFound)
	})
}

func TestServerGETGame(t *testing.T) {
	server := newTestGameServer(t, ServerOpts{})

	response := httptest.NewRecorder()
	server.ServeHTTP(response, newCreateGameRequest(mustMakeJson(t, NewGameReq{"Elton"})))
	created := assertPendingGameResponse(t, response.Body, "Elton")

	t.Run("returns an existing game", func(t *testing.T) {
		response := httptest.NewRecorder()
		server.ServeHTTP(response, newGetGameRequest(created.GameID))

		assertStatus(t, response.Code, http.StatusOK)

		var got GetGameRes
		mustDecode(t, response.Body, &got)
		utils.AssertEqual(t, got, GetGameRes{Status: "idle", GameID: created.GameID})
	})

	t.Run("returns 404 for an unknown game", func(t *testing.T) {
		response := httptest.NewRecorder()
		server.ServeHTTP(response, newGetGameRequest("not-a-game"))

		assertStatus(t, response.Code, http.StatusNotFound)
		assert.Contains(t, response.Body.String(), "not-a-game")
	})

	t.Run("returns 400 without a game id", func(t *testing.T) {
		response := httptest.NewRecorder()
		server.ServeHTTP(response, newGetGameRequest(""))

		assertStatus(t, response.Code, http.StatusBadRequest)
	})
}

func TestServerWSRejections(t *testing.T) {
	server := newTestGameServer(t, ServerOpts{})

	response := httptest.NewRecorder()
	server.ServeHTTP(response, newCreateGameRequest(mustMakeJson(t, NewGameReq{"Elton"})))
	created := assertPendingGameResponse(t, response.Body, "Elton")

	tt := []struct {
		name  string
		query string
	}{
		{"missing game id", "player_id=" + created.PlayerID},
		{"missing player id", "game_id=" + created.GameID},
		{"unknown game", "game_id=not-a-game&player_id=" + created.PlayerID},
		{"someone else", "game_id=" + created.GameID + "&player_id=not-the-creator"},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			response := httptest.NewRecorder()
			request, _ := http.NewRequest(http.MethodGet, "/ws?"+tc.query, nil)

			server.ServeHTTP(response, request)

			assertStatus(t, response.Code, http.StatusBadRequest)
		})
	}
}

func TestServerWSGame(t *testing.T) {
	server := newTestGameServer(t, ServerOpts{OpponentDelay: time.Hour})
	srv := httptest.NewServer(server)
	t.Cleanup(srv.Close)

	t.Log("Given a new game")
	res, err := http.Post(srv.URL+"/new", "application/json", strings.NewReader(`{"name":"Elton"}`))
	require.NoError(t, err)
	defer res.Body.Close()
	assertStatus(t, res.StatusCode, http.StatusCreated)
	created := assertPendingGameResponse(t, res.Body, "Elton")

	t.Log("When the creator connects")
	ws := mustDialWS(t, makeWSUrl(srv.URL, created.GameID, created.PlayerID))

	t.Log("Then they see an empty table")
	msg := readUntil(t, ws, func(m protocol.OutboundMessage) bool { return m.Command == protocol.State })
	utils.AssertEqual(t, msg.PlayerID, created.PlayerID)
	utils.AssertEqual(t, msg.State.Status, game.Idle)

	t.Log("When they ask for a new game")
	require.NoError(t, ws.WriteJSON(protocol.InboundMessage{Command: protocol.NewGame}))

	t.Log("Then the cards are dealt")
	msg = readUntil(t, ws, func(m protocol.OutboundMessage) bool {
		return m.Command == protocol.State && m.State.Status == game.Playing
	})
	assert.Len(t, msg.State.Hand, 8)
	utils.AssertEqual(t, msg.State.OpponentCount, 8)
	utils.AssertEqual(t, msg.State.DeckCount, 35)
	assert.NotNil(t, msg.State.Top)

	response := httptest.NewRecorder()
	server.ServeHTTP(response, newGetGameRequest(created.GameID))
	var got GetGameRes
	mustDecode(t, response.Body, &got)
	utils.AssertEqual(t, got.Status, "inProgress")

	t.Log("and a card they do not hold is refused")
	require.NoError(t, ws.WriteJSON(protocol.InboundMessage{Command: protocol.PlayCard, CardID: "STARS-11"}))
	msg = readUntil(t, ws, func(m protocol.OutboundMessage) bool { return m.Command == protocol.Error })
	assert.NotEmpty(t, msg.Error)
}

func TestServerWSOrigins(t *testing.T) {
	server := newTestGameServer(t, ServerOpts{AllowedOrigins: []string{"http://cards.example"}})
	srv := httptest.NewServer(server)
	t.Cleanup(srv.Close)

	res, err := http.Post(srv.URL+"/new", "application/json", strings.NewReader(`{"name":"Elton"}`))
	require.NoError(t, err)
	defer res.Body.Close()
	created := assertPendingGameResponse(t, res.Body, "Elton")

	header := http.Header{}
	header.Set("Origin", "http://elsewhere.example")
	_, resp, err := websocket.DefaultDialer.Dial(makeWSUrl(srv.URL, created.GameID, created.PlayerID), header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assertStatus(t, resp.StatusCode, http.StatusForbidden)
}

func TestServerCORS(t *testing.T) {
	server := newTestGameServer(t, ServerOpts{AllowedOrigins: []string{"http://cards.example"}})

	t.Run("allows listed origins", func(t *testing.T) {
		response := httptest.NewRecorder()
		request := newGetGameRequest("not-a-game")
		request.Header.Set("Origin", "http://cards.example")

		server.ServeHTTP(response, request)

		utils.AssertEqual(t, response.Header().Get("Access-Control-Allow-Origin"), "http://cards.example")
	})

	t.Run("ignores the rest", func(t *testing.T) {
		response := httptest.NewRecorder()
		request := newGetGameRequest("not-a-game")
		request.Header.Set("Origin", "http://elsewhere.example")

		server.ServeHTTP(response, request)

		utils.AssertEqual(t, response.Header().Get("Access-Control-Allow-Origin"), "")
	})
}

func TestServerGETResults(t *testing.T) {
	recorder := results.NewMemoryRecorder()
	now := time.Now().UTC()
	for i, winner := range []game.Actor{game.Player, game.Opponent} {
		err := recorder.Record(context.Background(), results.Result{
			GameID:     NewID(),
			PlayerName: "Elton",
			Winner:     winner,
			Moves:      10 + i,
			StartedAt:  now.Add(time.Duration(i-10) * time.Minute),
			FinishedAt: now.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	server := newTestGameServer(t, ServerOpts{Recorder: recorder})

	t.Run("lists the most recent first", func(t *testing.T) {
		response := httptest.NewRecorder()
		request, _ := http.NewRequest(http.MethodGet, "/api/results", nil)
		server.ServeHTTP(response, request)

		assertStatus(t, response.Code, http.StatusOK)
		var got []results.Result
		mustDecode(t, response.Body, &got)
		require.Len(t, got, 2)
		utils.AssertEqual(t, got[0].Winner, game.Opponent)
		utils.AssertEqual(t, got[1].Winner, game.Player)
	})

	t.Run("honours the limit", func(t *testing.T) {
		response := httptest.NewRecorder()
		request, _ := http.NewRequest(http.MethodGet, "/api/results?limit=1", nil)
		server.ServeHTTP(response, request)

		var got []results.Result
		mustDecode(t, response.Body, &got)
		require.Len(t, got, 1)
		utils.AssertEqual(t, got[0].Moves, 11)
	})

	t.Run("rejects a bad limit", func(t *testing.T) {
		response := httptest.NewRecorder()
		request, _ := http.NewRequest(http.MethodGet, "/api/results?limit=lots", nil)
		server.ServeHTTP(response, request)

		assertStatus(t, response.Code, http.StatusBadRequest)
	})

	t.Run("is empty without a recorder", func(t *testing.T) {
		response := httptest.NewRecorder()
		request, _ := http.NewRequest(http.MethodGet, "/api/results", nil)
		newTestGameServer(t, ServerOpts{}).ServeHTTP(response, request)

		assertStatus(t, response.Code, http.StatusOK)
		utils.AssertEqual(t, strings.TrimSpace(response.Body.String()), "[]")
	})
}

func TestServerDropsAbandonedGames(t *testing.T) {
	idle := 200 * time.Millisecond

	t.Run("a game nobody connects to", func(t *testing.T) {
		str := store.NewInMemoryGameStore()
		server := newTestGameServer(t, ServerOpts{Store: str, IdleTimeout: idle})

		response := httptest.NewRecorder()
		server.ServeHTTP(response, newCreateGameRequest(mustMakeJson(t, NewGameReq{"Elton"})))
		created := assertPendingGameResponse(t, response.Body, "Elton")
		require.NotNil(t, str.FindGame(created.GameID))

		assert.Eventually(t, func() bool {
			return str.FindGame(created.GameID) == nil
		}, 2*time.Second, 20*time.Millisecond)
	})

	t.Run("a game whose player disconnects", func(t *testing.T) {
		str := store.NewInMemoryGameStore()
		server := newTestGameServer(t, ServerOpts{Store: str, IdleTimeout: idle})
		srv := httptest.NewServer(server)
		t.Cleanup(srv.Close)

		res, err := http.Post(srv.URL+"/new", "application/json", strings.NewReader(`{"name":"Elton"}`))
		require.NoError(t, err)
		defer res.Body.Close()
		created := assertPendingGameResponse(t, res.Body, "Elton")

		t.Log("Given a connected player")
		ws := mustDialWS(t, makeWSUrl(srv.URL, created.GameID, created.PlayerID))
		readUntil(t, ws, func(m protocol.OutboundMessage) bool { return m.Command == protocol.State })

		t.Log("the game outlives the idle timeout")
		time.Sleep(2 * idle)
		require.NotNil(t, str.FindGame(created.GameID))

		t.Log("When they disconnect, the game is dropped")
		ws.Close()
		assert.Eventually(t, func() bool {
			return str.FindGame(created.GameID) == nil
		}, 2*time.Second, 20*time.Millisecond)

		response := httptest.NewRecorder()
		server.ServeHTTP(response, newGetGameRequest(created.GameID))
		assertStatus(t, response.Code, http.StatusNotFound)
	})
}
