// Package locker serializes balance mutations per account id.
package locker

import (
	"context"
	"fmt"
	"sync"

	"github.com/iho/bankledger/internal/domain"
)

type ctxKey struct{}

// slot is the exclusive serialization slot for one account id. The
// channel holds at most one token; whoever placed the token owns the
// slot. refs counts owners plus waiters so idle slots can be removed.
type slot struct {
	ch   chan struct{}
	refs int
}

// AccountLocker hands out per-account exclusive slots. Waiting for a
// slot is cancellable through the context, and acquiring an id already
// held by the calling chain fails fast instead of deadlocking. Slots
// for distinct ids are fully independent.
type AccountLocker struct {
	mu    sync.Mutex
	slots map[string]*slot
}

// New creates an AccountLocker.
func New() *AccountLocker {
	return &AccountLocker{
		slots: make(map[string]*slot),
	}
}

// WithAccountLock runs fn while holding the exclusive slot for
// accountID. The slot is released on every exit path, including fn
// panicking. The context passed to fn carries the held id so that a
// nested acquisition of the same id is rejected.
func (l *AccountLocker) WithAccountLock(ctx context.Context, accountID string, fn func(ctx context.Context) error) error {
	if held(ctx, accountID) {
		return fmt.Errorf("%w: lock for account %s is already held by this operation", domain.ErrInvariantViolation, accountID)
	}

	s := l.retain(accountID)

	select {
	case s.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(accountID, s)
		return fmt.Errorf("acquire lock for account %s: %w", accountID, ctx.Err())
	}

	defer func() {
		<-s.ch
		l.release(accountID, s)
	}()

	ids := heldIDs(ctx)
	next := make([]string, len(ids)+1)
	copy(next, ids)
	next[len(ids)] = accountID

	return fn(context.WithValue(ctx, ctxKey{}, next))
}

func (l *AccountLocker) retain(accountID string) *slot {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.slots[accountID]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.slots[accountID] = s
	}
	s.refs++

	return s
}

func (l *AccountLocker) release(accountID string, s *slot) {
	l.mu.Lock()
	defer l.mu.Unlock()

	s.refs--
	if s.refs == 0 {
		delete(l.slots, accountID)
	}
}

func heldIDs(ctx context.Context) []string {
	ids, _ := ctx.Value(ctxKey{}).([]string)
	return ids
}

func held(ctx context.Context, accountID string) bool {
	for _, id := range heldIDs(ctx) {
		if id == accountID {
			return true
		}
	}
	return false
}
