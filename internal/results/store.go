// apps/go-server/internal/results/store.go
//
// Leaderboard of completed games, backed by the game_results table.
// A row is written once per finished match (all maps cleared); the match id
// makes the insert idempotent.

package results

import (
	"context"
	"database/sql"
	"time"
)

type Result struct {
	MatchID    string `json:"matchId"`
	Player     string `json:"player"`
	Simulation bool   `json:"simulation"`
	MapCount   int    `json:"mapCount"`
	TotalMoves int    `json:"totalMoves"`
}

type Row struct {
	Player     string    `json:"player"`
	MapCount   int       `json:"mapCount"`
	TotalMoves int       `json:"totalMoves"`
	FinishedAt time.Time `json:"finishedAt"`
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Record inserts r; a second insert for the same match is ignored.
func (s *Store) Record(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO game_results(match_id, player, simulation, map_count, total_moves)
         VALUES(?,?,?,?,?)`, r.MatchID, r.Player, r.Simulation, r.MapCount, r.TotalMoves,
	)
	return err
}

// Leaderboard returns the best non-simulated results for matches of
// mapCount maps: fewest total moves first, earliest finish breaking ties.
func (s *Store) Leaderboard(ctx context.Context, mapCount, limit int) ([]Row, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT player, map_count, total_moves, created_at
         FROM game_results
         WHERE simulation=0 AND map_count=?
         ORDER BY total_moves ASC, created_at ASC, match_id ASC
         LIMIT ?`, mapCount, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Row, 0, limit)
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.Player, &r.MapCount, &r.TotalMoves, &r.FinishedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
