package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/battleships/apps/go-server/internal/config"
	"github.com/robalobadob/battleships/apps/go-server/internal/game"
	"github.com/robalobadob/battleships/apps/go-server/internal/httpserver"
	"github.com/robalobadob/battleships/apps/go-server/internal/notify"
	"github.com/robalobadob/battleships/apps/go-server/internal/results"
	"github.com/robalobadob/battleships/apps/go-server/internal/session"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	db, sessions, err := openStores(cfg, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open storage")
	}
	defer db.Close()

	supplier, err := boardSource(cfg, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load boards")
	}

	leaderboard := results.NewStore(db)
	hub := notify.NewHub(cfg.ClientOrigin, log.Logger)
	mgr := session.NewManager(sessions,
		session.Config{
			Game: game.Config{MapCount: cfg.MapCount, MaxRetries: cfg.MaxRetries},
			TTL:  cfg.SessionTTL,
		},
		session.WithBoards(supplier),
		session.WithSink(hub),
		session.WithRecorder(leaderboard),
		session.WithLogger(log.Logger),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go sweep(ctx, mgr, cfg.SweepInterval)

	srv := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: httpserver.New(mgr, httpserver.Options{
			ClientOrigin:  cfg.ClientOrigin,
			JWTSecret:     cfg.JWTSecret,
			MapCount:      cfg.MapCount,
			Leaderboard:   leaderboard,
			Notifications: hub,
		}).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdown)
	}()

	log.Info().Str("port", cfg.Port).Int("mapCount", cfg.MapCount).Str("boards", cfg.BoardMode).Msg("starting go-server")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server exited")
	}
}

// sweep periodically drops expired sessions until ctx is done.
func sweep(ctx context.Context, mgr *session.Manager, every time.Duration) {
	if every <= 0 {
		return
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := mgr.Sweep(ctx)
			if err != nil {
				log.Warn().Err(err).Msg("session sweep failed")
				continue
			}
			if n > 0 {
				log.Debug().Int("removed", n).Msg("expired sessions swept")
			}
		}
	}
}
