package ledger

import (
	"sync"

	"github.com/google/uuid"
)

// lockTable hands out one mutex per wallet. Entries are removed once no
// goroutine holds or waits for them.
type lockTable struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*walletLock
}

type walletLock struct {
	mu   sync.Mutex
	refs int
}

func newLockTable() *lockTable {
	return &lockTable{locks: make(map[uuid.UUID]*walletLock)}
}

// lock blocks until the lock for id is held and returns its release function.
func (t *lockTable) lock(id uuid.UUID) (unlock func()) {
	t.mu.Lock()
	l, ok := t.locks[id]
	if !ok {
		l = &walletLock{}
		t.locks[id] = l
	}
	l.refs++
	t.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		t.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(t.locks, id)
		}
		t.mu.Unlock()
	}
}

func (t *lockTable) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.locks)
}
