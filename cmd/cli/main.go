package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/minaorangina/crazyeights/config"
	"github.com/minaorangina/crazyeights/engine"
	"github.com/minaorangina/crazyeights/protocol"
	"github.com/minaorangina/crazyeights/results"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("could not load config")
	}
	// the terminal belongs to the game
	log := config.NewLogger(cfg, os.Stderr)
	if cfg.LogLevel == config.Default().LogLevel {
		log.SetLevel(logrus.WarnLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var recorder results.Recorder
	if cfg.ResultsDB != "" {
		db, err := results.OpenSQLite(ctx, cfg.ResultsDB)
		if err != nil {
			log.WithError(err).Fatal("could not open results log")
		}
		defer db.Close()
		recorder = db
	}

	playerID := engine.NewID()
	ge, err := engine.NewGameEngine(engine.GameEngineOpts{
		GameID:        engine.NewID(),
		CreatorID:     playerID,
		CreatorName:   cfg.PlayerName,
		OpponentDelay: cfg.OpponentDelay,
		Recorder:      recorder,
		Logger:        log,
	})
	if err != nil {
		log.WithError(err).Fatal("could not create game")
	}
	go ge.Listen(ctx)
	defer ge.Stop()

	player := engine.NewCLIPlayer(playerID, cfg.PlayerName, os.Stdin, os.Stdout)
	if err := ge.AddPlayer(player); err != nil {
		log.WithError(err).Fatal("could not join game")
	}
	ge.Receive(protocol.InboundMessage{PlayerID: playerID, Command: protocol.NewGame})

	if err := player.Play(ctx, ge); err != nil && ctx.Err() == nil {
		log.WithError(err).Error("reading input")
	}
}
