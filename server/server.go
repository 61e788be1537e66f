package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/websocket"
	"github.com/minaorangina/crazyeights/engine"
	"github.com/minaorangina/crazyeights/results"
	"github.com/minaorangina/crazyeights/store"
	"github.com/sirupsen/logrus"
)

const (
	defaultResultsLimit = 20
	maxResultsLimit     = 100
)

type NewGameReq struct {
	Name string `json:"name"`
}

type PendingGameRes struct {
	GameID   string `json:"game_id"`
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
}

type GetGameRes struct {
	Status string `json:"status"`
	GameID string `json:"game_id"`
}

type ServerOpts struct {
	Store          store.GameStore
	Recorder       results.Recorder // optional
	Logger         *logrus.Logger
	OpponentDelay  time.Duration
	IdleTimeout    time.Duration // games without a player are dropped after this long
	StaticDir      string
	AllowedOrigins []string

	// Context bounds every engine the server starts
	Context context.Context
}

// GameServer is a game server
type GameServer struct {
	store         store.GameStore
	recorder      results.Recorder
	log           *logrus.Logger
	accessLog     *io.PipeWriter
	opponentDelay time.Duration
	idleTimeout   time.Duration
	origins       []string
	ctx           context.Context
	upgrader      websocket.Upgrader
	http.Server
}

func NewID() string {
	return engine.NewID()
}

func unknownGameIDMsg(unknownID string) string {
	return fmt.Sprintf("unknown game ID '%s'", unknownID)
}

// NewServer creates a new GameServer
func NewServer(opts ServerOpts) *GameServer {
	if opts.Store == nil {
		opts.Store = store.NewInMemoryGameStore()
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}

	s := &GameServer{
		store:         opts.Store,
		recorder:      opts.Recorder,
		log:           opts.Logger,
		opponentDelay: opts.OpponentDelay,
		idleTimeout:   opts.IdleTimeout,
		origins:       opts.AllowedOrigins,
		ctx:           opts.Context,
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}

	router := http.NewServeMux()
	if opts.StaticDir != "" {
		router.Handle("/", http.FileServer(http.Dir(opts.StaticDir)))
	}
	router.HandleFunc("/new", s.HandleNewGame)
	router.HandleFunc("/game/", s.HandleFindGame)
	router.HandleFunc("/ws", s.HandleWS)
	router.HandleFunc("/api/results", s.HandleResults)

	cors := handlers.CORS(
		handlers.AllowedOrigins(opts.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)
	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(opts.Logger),
		handlers.PrintRecoveryStack(true),
	)

	s.accessLog = opts.Logger.WithField("component", "http").Writer()
	s.Handler = handlers.CombinedLoggingHandler(s.accessLog, recovery(cors(router)))

	return s
}

// ServeHTTP serves http
func (g *GameServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	g.Handler.ServeHTTP(w, r)
}

// StopGames stops every engine and releases the access log
func (g *GameServer) StopGames() {
	for _, ge := range g.store.Games() {
		g.store.RemoveGame(ge.ID())
	}
	g.accessLog.Close()
}

func (g *GameServer) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, o := range g.origins {
		if o == "*" || strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}

// HandleNewGame handles a request to create a new game
func (g *GameServer) HandleNewGame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	var data NewGameReq
	err := json.NewDecoder(r.Body).Decode(&data)
	defer r.Body.Close()
	if err != nil {
		g.writeParseError(err, w, r)
		return
	}

	data.Name = strings.TrimSpace(data.Name)
	if data.Name == "" {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("Missing player name"))
		return
	}

	gameID := NewID()
	playerID := NewID()
	ge, err := engine.NewGameEngine(engine.GameEngineOpts{
		GameID:        gameID,
		CreatorID:     playerID,
		CreatorName:   data.Name,
		OpponentDelay: g.opponentDelay,
		IdleTimeout:   g.idleTimeout,
		Recorder:      g.recorder,
		Logger:        g.log,
	})
	if err != nil {
		g.log.WithError(err).Error("could not create game engine")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if err := g.store.AddGame(ge); err != nil {
		g.log.WithError(err).Error("could not store game")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	go func() {
		ge.Listen(g.ctx)
		g.store.RemoveGame(gameID)
		g.log.WithField("game", gameID).Info("game closed")
	}()

	g.log.WithFields(logrus.Fields{"game": gameID, "player": playerID}).Info("game created")

	g.writeJSON(w, http.StatusCreated, PendingGameRes{
		GameID:   gameID,
		PlayerID: playerID,
		Name:     data.Name,
	})
}

func (g *GameServer) HandleFindGame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	gameID := strings.TrimPrefix(r.URL.Path, "/game/")
	if gameID == "" {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("missing game ID"))
		return
	}

	ge := g.store.FindGame(gameID)
	if ge == nil {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(unknownGameIDMsg(gameID)))
		return
	}

	g.writeJSON(w, http.StatusOK, GetGameRes{
		Status: ge.PlayState().String(),
		GameID: ge.ID(),
	})
}

func (g *GameServer) HandleWS(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	gameID := query.Get("game_id")
	if gameID == "" {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("missing game ID"))
		return
	}

	playerID := query.Get("player_id")
	if playerID == "" {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("missing player ID"))
		return
	}

	ge := g.store.FindGame(gameID)
	if ge == nil {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(unknownGameIDMsg(gameID)))
		return
	}
	if ge.CreatorID() != playerID {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("unknown player ID"))
		return
	}

	log := g.log.WithFields(logrus.Fields{"game": gameID, "player": playerID})

	// the upgrader writes its own error response
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("could not upgrade to websocket")
		return
	}

	player := engine.NewWSPlayer(playerID, ge.CreatorName(), conn, ge, log)
	if err := g.store.AddPlayerToGame(gameID, player); err != nil {
		log.WithError(err).Warn("could not add player to game")
		conn.Close()
		return
	}
	player.Start()
}

// HandleResults lists the most recent finished games
func (g *GameServer) HandleResults(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	limit := defaultResultsLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("limit must be a positive number"))
			return
		}
		limit = min(n, maxResultsLimit)
	}

	list := []results.Result{}
	if g.recorder != nil {
		recent, err := g.recorder.Recent(r.Context(), limit)
		if err != nil {
			g.log.WithError(err).Error("could not list results")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		list = append(list, recent...)
	}

	g.writeJSON(w, http.StatusOK, list)
}

func (g *GameServer) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	bytes, err := json.Marshal(payload)
	if err != nil {
		g.log.WithError(err).Error("could not marshal response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(bytes)
}
