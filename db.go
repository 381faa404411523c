// apps/go-server/db.go
//
// Storage wiring for the battleships server.
// Responsibilities:
//   - Opening the SQLite database (migrated) that holds the leaderboard and,
//     optionally, the session blobs.
//   - Choosing the session store from SESSION_STORE.
//   - Choosing the board source from BOARD_MODE.

package main

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/robalobadob/battleships/apps/go-server/internal/boards"
	"github.com/robalobadob/battleships/apps/go-server/internal/config"
	"github.com/robalobadob/battleships/apps/go-server/internal/database"
	"github.com/robalobadob/battleships/apps/go-server/internal/fleet"
	"github.com/robalobadob/battleships/apps/go-server/internal/game"
	"github.com/robalobadob/battleships/apps/go-server/internal/store"
)

// openStores opens the database and returns the session store backed by
// it or by memory. The caller owns db.
func openStores(cfg config.Config, log zerolog.Logger) (db *sql.DB, st store.Store, err error) {
	db, err = database.OpenMigrated(cfg.DBPath, log)
	if err != nil {
		return nil, nil, fmt.Errorf("open database %s: %w", cfg.DBPath, err)
	}
	switch cfg.SessionStore {
	case config.StoreSQLite:
		st = store.NewSQLiteStore(db)
	default:
		st = store.NewMemoryStore()
	}
	log.Info().Str("sessions", cfg.SessionStore).Str("db", cfg.DBPath).Msg("storage ready")
	return db, st, nil
}

// boardSource returns where new maps come from.
func boardSource(cfg config.Config, log zerolog.Logger) (game.BoardSupplier, error) {
	if cfg.BoardMode == config.BoardsFixed {
		f, err := boards.Load(cfg.BoardFile, game.Rows, game.Columns)
		if err != nil {
			return nil, err
		}
		src := cfg.BoardFile
		if src == "" {
			src = "embedded"
		}
		log.Info().Str("source", src).Int("boards", f.Len()).Msg("fixed boards loaded")
		return f, nil
	}
	g := fleet.NewGenerator(nil)
	g.MaxAttempts = cfg.PlacementMaxAttempts
	return g, nil
}
