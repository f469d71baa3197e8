package db

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/quotation-labs/quotation-system/internal/domain/entity"
)

// lockManager hands out exclusive per-account locks. Acquisition is always
// in ascending account-id order, so two units contending for the same pair
// of accounts can never deadlock, whichever direction each one moves money.
type lockManager struct {
	mu      sync.Mutex
	locks   map[int64]chan struct{}
	timeout time.Duration
}

func newLockManager(timeout time.Duration) *lockManager {
	return &lockManager{
		locks:   make(map[int64]chan struct{}),
		timeout: timeout,
	}
}

func (m *lockManager) lockFor(id int64) chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.locks[id]
	if !ok {
		l = make(chan struct{}, 1)
		m.locks[id] = l
	}
	return l
}

// acquire locks every id, deduplicated and in ascending order, and returns a
// release function. On timeout or cancellation it releases whatever it
// already holds and reports ErrLockTimeout.
func (m *lockManager) acquire(ctx context.Context, ids []int64) (func(), error) {
	ordered := dedupeSorted(ids)

	timer := time.NewTimer(m.timeout)
	defer timer.Stop()

	held := make([]chan struct{}, 0, len(ordered))
	release := func() {
		for _, l := range held {
			<-l
		}
	}

	for _, id := range ordered {
		l := m.lockFor(id)
		select {
		case l <- struct{}{}:
			held = append(held, l)
		case <-timer.C:
			release()
			return nil, entity.ErrLockTimeout
		case <-ctx.Done():
			release()
			return nil, entity.Wrap(ctx.Err(), "waiting for account lock")
		}
	}

	var once sync.Once
	return func() { once.Do(release) }, nil
}

func dedupeSorted(ids []int64) []int64 {
	ordered := make([]int64, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ordered = append(ordered, id)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i] < ordered[j] })
	return ordered
}
