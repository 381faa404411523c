package results

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/robalobadob/battleships/apps/go-server/internal/database"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.OpenMigrated(filepath.Join(t.TempDir(), "results.db"), zerolog.Nop())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewStore(db)
}

func TestRecordIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	r := Result{MatchID: "m1", Player: "p1", MapCount: 2, TotalMoves: 80}

	if rows, err := s.Leaderboard(ctx, 2, 10); err != nil || len(rows) != 0 {
		t.Fatalf("Leaderboard before insert = %v, %v", rows, err)
	}
	for range 2 {
		if err := s.Record(ctx, r); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	rows, err := s.Leaderboard(ctx, 2, 10)
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("duplicate rows: %d", len(rows))
	}
}

func TestLeaderboardOrderingAndFilters(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	for _, r := range []Result{
		{MatchID: "a", Player: "slow", MapCount: 1, TotalMoves: 90},
		{MatchID: "b", Player: "fast", MapCount: 1, TotalMoves: 40},
		{MatchID: "c", Player: "mid", MapCount: 1, TotalMoves: 60},
		{MatchID: "d", Player: "sim", MapCount: 1, TotalMoves: 10, Simulation: true},
		{MatchID: "e", Player: "other", MapCount: 3, TotalMoves: 20},
	} {
		if err := s.Record(ctx, r); err != nil {
			t.Fatalf("Record(%s): %v", r.MatchID, err)
		}
	}

	rows, err := s.Leaderboard(ctx, 1, 2)
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if len(rows) != 2 || rows[0].Player != "fast" || rows[1].Player != "mid" {
		t.Fatalf("unexpected leaderboard %+v", rows)
	}
	if rows[0].FinishedAt.IsZero() {
		t.Fatalf("finish time not populated")
	}

	rows, _ = s.Leaderboard(ctx, 3, 0)
	if len(rows) != 1 || rows[0].Player != "other" {
		t.Fatalf("map count filter: %+v", rows)
	}
}
