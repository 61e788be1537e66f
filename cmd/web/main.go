package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/minaorangina/crazyeights/config"
	"github.com/minaorangina/crazyeights/results"
	"github.com/minaorangina/crazyeights/server"
	"github.com/minaorangina/crazyeights/store"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("could not load config")
	}
	log := config.NewLogger(cfg, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
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

	s := server.NewServer(server.ServerOpts{
		Store:          store.NewInMemoryGameStore(),
		Recorder:       recorder,
		Logger:         log,
		OpponentDelay:  cfg.OpponentDelay,
		IdleTimeout:    cfg.IdleTimeout,
		StaticDir:      cfg.StaticDir,
		AllowedOrigins: cfg.Origins(),
		Context:        ctx,
	})
	s.Addr = cfg.Addr()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infof("Listening on %s...", s.Addr)
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		defer s.StopGames()
		return s.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
