// internal/service/locker.go
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"wakala-ledger/internal/util"

	"golang.org/x/sync/semaphore"
)

// DefaultLockTimeout bounds how long a ledger operation waits for its group.
const DefaultLockTimeout = 5 * time.Second

// GroupLocker serializes balance-mutating operations per group.
// Operations on different groups never contend.
type GroupLocker struct {
	mu      sync.Mutex
	locks   map[string]*groupLock
	timeout time.Duration
}

// groupLock is dropped from the map once no caller holds or waits on it.
type groupLock struct {
	sem  *semaphore.Weighted
	refs int
}

// NewGroupLocker creates a GroupLocker. A non-positive timeout falls back to DefaultLockTimeout.
func NewGroupLocker(timeout time.Duration) *GroupLocker {
	if timeout <= 0 {
		timeout = DefaultLockTimeout
	}
	return &GroupLocker{
		locks:   make(map[string]*groupLock),
		timeout: timeout,
	}
}

func (l *GroupLocker) acquireRef(groupID string) *semaphore.Weighted {
	l.mu.Lock()
	defer l.mu.Unlock()
	gl, ok := l.locks[groupID]
	if !ok {
		gl = &groupLock{sem: semaphore.NewWeighted(1)}
		l.locks[groupID] = gl
	}
	gl.refs++
	return gl.sem
}

func (l *GroupLocker) releaseRef(groupID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	gl, ok := l.locks[groupID]
	if !ok {
		return
	}
	gl.refs--
	if gl.refs <= 0 {
		delete(l.locks, groupID)
	}
}

func (l *GroupLocker) tracked() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

// Lock acquires the group's exclusive section and returns its release func.
// It fails with util.ErrLockTimeout when the section cannot be acquired in
// time, and with the context error when ctx is cancelled.
func (l *GroupLocker) Lock(ctx context.Context, groupID string) (func(), error) {
	sem := l.acquireRef(groupID)

	waitCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	if err := sem.Acquire(waitCtx, 1); err != nil {
		l.releaseRef(groupID)
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: group %s", util.ErrLockTimeout, groupID)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			sem.Release(1)
			l.releaseRef(groupID)
		})
	}, nil
}
