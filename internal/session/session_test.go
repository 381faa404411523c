package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/robalobadob/battleships/apps/go-server/internal/game"
	"github.com/robalobadob/battleships/apps/go-server/internal/results"
	"github.com/robalobadob/battleships/apps/go-server/internal/store"
)

// layout: capital plus around (1,1), boat (0..1,11), carrier row 4,
// battleship row 6, destroyer row 8, submarine row 10.
func testLayout() []int {
	l := make([]int, game.Rows*game.Columns)
	at := func(r, c, w int) { l[r*game.Columns+c] = w }
	at(0, 1, 9)
	at(1, 0, 9)
	at(1, 1, 9)
	at(1, 2, 9)
	at(2, 1, 9)
	at(0, 11, 2)
	at(1, 11, 2)
	for c := range 6 {
		at(4, c, 6)
	}
	for c := range 5 {
		at(6, c, 5)
	}
	for c := range 4 {
		at(8, c, 4)
	}
	for c := range 3 {
		at(10, c, 3)
	}
	return l
}

var fixed = game.BoardSupplierFunc(func(int, int) ([]int, error) { return testLayout(), nil })

type recordingSink struct {
	mu     sync.Mutex
	events []string
}

func (s *recordingSink) Publish(session string, n game.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, session)
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

type recordingRecorder struct {
	mu  sync.Mutex
	got []results.Result
}

func (r *recordingRecorder) Record(_ context.Context, res results.Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, res)
	return nil
}

func newTestManager(mapCount int, opts ...Option) (*Manager, *store.Memory) {
	st := store.NewMemoryStore()
	opts = append([]Option{WithBoards(fixed)}, opts...)
	return NewManager(st, Config{Game: game.Config{MapCount: mapCount}, TTL: time.Hour}, opts...), st
}

func TestDeriveKey(t *testing.T) {
	a := DeriveKey("token-a", false)
	if a != DeriveKey("token-a", false) {
		t.Fatalf("DeriveKey must be deterministic")
	}
	if a == DeriveKey("token-a", true) || a == DeriveKey("token-b", false) {
		t.Fatalf("keys must differ by identity and simulation flag")
	}
	if !strings.HasSuffix(a, "-false") || strings.Contains(a, "token-a") {
		t.Fatalf("unexpected key %q", a)
	}
	if len(PlayerID("token-a")) != 12 {
		t.Fatalf("PlayerID length: %q", PlayerID("token-a"))
	}
}

func TestLocksSerializeAndCleanUp(t *testing.T) {
	l := NewLocks()
	ctx := context.Background()

	var (
		inside  atomic.Int32
		maxSeen atomic.Int32
		wg      sync.WaitGroup
	)
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := l.Acquire(ctx, "k")
			if err != nil {
				t.Errorf("Acquire: %v", err)
				return
			}
			defer release()
			n := inside.Add(1)
			if n > maxSeen.Load() {
				maxSeen.Store(n)
			}
			time.Sleep(time.Millisecond)
			inside.Add(-1)
		}()
	}
	wg.Wait()

	if maxSeen.Load() != 1 {
		t.Fatalf("lock held by %d goroutines at once", maxSeen.Load())
	}
	if l.Len() != 0 {
		t.Fatalf("registry not cleaned up: %d entries", l.Len())
	}
}

func TestLocksIndependentKeysAndCancel(t *testing.T) {
	l := NewLocks()
	ctx := context.Background()

	relA, err := l.Acquire(ctx, "a")
	if err != nil {
		t.Fatalf("Acquire a: %v", err)
	}
	relB, err := l.Acquire(ctx, "b")
	if err != nil {
		t.Fatalf("Acquire b while a held: %v", err)
	}
	relB()

	cctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	if _, err := l.Acquire(cctx, "a"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("want DeadlineExceeded, got %v", err)
	}

	relA()
	relA()
	if l.Len() != 0 {
		t.Fatalf("registry not cleaned up: %d entries", l.Len())
	}
}

func TestManagerPersistsBetweenCalls(t *testing.T) {
	ctx := context.Background()
	sink := &recordingSink{}
	m, st := newTestManager(1, WithSink(sink))
	req := Request{Identity: "alice"}

	if _, err := m.Status(ctx, req); !errors.Is(err, game.ErrInvalidSession) {
		t.Fatalf("Status before play: want ErrInvalidSession, got %v", err)
	}
	if st.Len() != 0 {
		t.Fatalf("status must not create a session")
	}

	resp, err := m.Fire(ctx, req, 11, 11)
	if err != nil || resp.Cell != "." || resp.MoveCount != 1 {
		t.Fatalf("first fire = %+v, %v", resp, err)
	}
	resp, err = m.Fire(ctx, req, 11, 11)
	if err != nil || resp.Result || resp.MoveCount != 1 {
		t.Fatalf("repeat fire = %+v, %v", resp, err)
	}
	resp, err = m.Fire(ctx, req, 4, 0)
	if err != nil || resp.Cell != "X" || resp.MoveCount != 2 {
		t.Fatalf("third fire = %+v, %v", resp, err)
	}

	status, err := m.Status(ctx, req)
	if err != nil || status.MoveCount != 2 || status.TotalMoveCount != 2 {
		t.Fatalf("Status = %+v, %v", status, err)
	}
	if sink.count() != 3 {
		t.Fatalf("notifications: got %d want 3", sink.count())
	}
	if sink.events[0] != DeriveKey("alice", false) {
		t.Fatalf("notification keyed by %q", sink.events[0])
	}
}

func TestManagerSimulationSessionsAreSeparate(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(1)

	if _, err := m.Fire(ctx, Request{Identity: "bob"}, 0, 0); err != nil {
		t.Fatalf("Fire: %v", err)
	}
	if _, err := m.Status(ctx, Request{Identity: "bob", Simulate: true}); !errors.Is(err, game.ErrInvalidSession) {
		t.Fatalf("simulation session should be independent, got %v", err)
	}

	simReq := Request{Identity: "bob", Simulate: true}
	if _, err := m.FireStatus(ctx, simReq); err != nil {
		t.Fatalf("FireStatus: %v", err)
	}
	reset, err := m.Reset(ctx, simReq)
	if err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if reset.RemainingRetries != game.DefaultRetries-1 {
		t.Fatalf("retries: got %d", reset.RemainingRetries)
	}
	again, _ := m.Reset(ctx, simReq)
	if again.RemainingRetries != game.DefaultRetries-2 {
		t.Fatalf("retry counter not persisted: %d", again.RemainingRetries)
	}
}

func TestManagerValidation(t *testing.T) {
	ctx := context.Background()
	m, st := newTestManager(1)
	req := Request{Identity: "carol"}

	for _, rc := range [][2]int{{-1, 0}, {0, 12}, {12, 0}} {
		if _, err := m.Fire(ctx, req, rc[0], rc[1]); !errors.Is(err, game.ErrValidation) {
			t.Fatalf("Fire(%v): want ErrValidation, got %v", rc, err)
		}
	}
	if _, err := m.FireWithAbility(ctx, req, 0, 0, "loki"); !errors.Is(err, game.ErrValidation) {
		t.Fatalf("unknown ability: want ErrValidation, got %v", err)
	}
	if _, err := m.Fire(ctx, Request{}, 0, 0); !errors.Is(err, ErrNoIdentity) {
		t.Fatalf("missing identity: want ErrNoIdentity, got %v", err)
	}
	if _, err := m.Reset(ctx, req); !errors.Is(err, game.ErrInvalidSession) {
		t.Fatalf("reset without session: want ErrInvalidSession, got %v", err)
	}
	if st.Len() != 0 {
		t.Fatalf("rejected calls created %d sessions", st.Len())
	}
}

func TestManagerCorruptBlobStartsFresh(t *testing.T) {
	ctx := context.Background()
	m, st := newTestManager(1)
	req := Request{Identity: "dave"}
	key := DeriveKey(req.Identity, false)

	_ = st.Set(ctx, key, []byte("garbage"), time.Hour)
	if _, err := m.Status(ctx, req); !errors.Is(err, game.ErrInvalidSession) {
		t.Fatalf("Status on corrupt blob: want ErrInvalidSession, got %v", err)
	}
	resp, err := m.Fire(ctx, req, 11, 11)
	if err != nil || resp.MoveCount != 1 {
		t.Fatalf("Fire on corrupt blob = %+v, %v", resp, err)
	}
	if _, err := m.Status(ctx, req); err != nil {
		t.Fatalf("Status after fresh start: %v", err)
	}
}

func TestManagerLinearizesSameSession(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(1)
	req := Request{Identity: "erin"}

	// Water cells only, so no ship sinks and the map never finishes.
	var cells [][2]int
	for c := range game.Columns {
		cells = append(cells, [2]int{3, c}, [2]int{5, c}, [2]int{7, c})
	}

	var wg sync.WaitGroup
	for _, rc := range cells {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := m.Fire(ctx, req, rc[0], rc[1]); err != nil {
				t.Errorf("Fire(%v): %v", rc, err)
			}
		}()
	}
	wg.Wait()

	st, err := m.Status(ctx, req)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if st.MoveCount != len(cells) {
		t.Fatalf("lost updates: moveCount %d want %d", st.MoveCount, len(cells))
	}
}

func TestManagerRecordsFinishedGames(t *testing.T) {
	ctx := context.Background()
	rec := &recordingRecorder{}
	m, _ := newTestManager(1, WithRecorder(rec))
	req := Request{Identity: "frank"}

	var last game.FireResponse
	for i, w := range testLayout() {
		if w == 0 {
			continue
		}
		resp, err := m.Fire(ctx, req, i/game.Columns, i%game.Columns)
		if err != nil {
			t.Fatalf("Fire: %v", err)
		}
		last = resp
	}
	if !last.Finished {
		t.Fatalf("game should be finished")
	}
	if len(rec.got) != 1 {
		t.Fatalf("recorded %d results", len(rec.got))
	}
	r := rec.got[0]
	if r.Player != PlayerID("frank") || r.TotalMoves != 25 || r.MapCount != 1 || r.MatchID == "" {
		t.Fatalf("unexpected result %+v", r)
	}

	// status does not record again
	if _, err := m.Status(ctx, req); err != nil {
		t.Fatalf("Status: %v", err)
	}
	if len(rec.got) != 1 {
		t.Fatalf("status recorded a result")
	}
}

func TestManagerAbilityFlow(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(1)
	req := Request{Identity: "gina"}

	for _, rc := range [][2]int{{0, 1}, {1, 0}, {1, 1}, {1, 2}, {2, 1}} {
		if _, err := m.Fire(ctx, req, rc[0], rc[1]); err != nil {
			t.Fatalf("Fire: %v", err)
		}
	}
	resp, err := m.FireWithAbility(ctx, req, 4, 3, "HULK")
	if err != nil {
		t.Fatalf("FireWithAbility: %v", err)
	}
	if !resp.Result || len(resp.AbilityResult) != 6 {
		t.Fatalf("hulk = %+v", resp)
	}
	resp, err = m.FireWithAbility(ctx, req, 6, 0, "thor")
	if err != nil || resp.Result {
		t.Fatalf("second ability should be rejected: %+v, %v", resp, err)
	}
}
