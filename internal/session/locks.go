package session

import (
	"context"
	"sync"

	"github.com/dolthub/swiss"
)

type lockEntry struct {
	sem  chan struct{}
	refs int
}

// Locks hands out one mutual-exclusion lock per session key. Entries are
// reference counted and removed once nobody holds or waits for them, so the
// registry only ever contains in-flight sessions.
type Locks struct {
	mu      sync.Mutex
	entries *swiss.Map[string, *lockEntry]
}

func NewLocks() *Locks {
	return &Locks{entries: swiss.NewMap[string, *lockEntry](64)}
}

// Acquire blocks until the lock for key is held or ctx is done. The returned
// release func must be called exactly once; extra calls are no-ops.
func (l *Locks) Acquire(ctx context.Context, key string) (release func(), err error) {
	l.mu.Lock()
	e, ok := l.entries.Get(key)
	if !ok {
		e = &lockEntry{sem: make(chan struct{}, 1)}
		l.entries.Put(key, e)
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.sem <- struct{}{}:
	case <-ctx.Done():
		l.unref(key, e)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.sem
			l.unref(key, e)
		})
	}, nil
}

func (l *Locks) unref(key string, e *lockEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		l.entries.Delete(key)
	}
}

// Len reports how many keys currently have holders or waiters.
func (l *Locks) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.entries.Count()
}
