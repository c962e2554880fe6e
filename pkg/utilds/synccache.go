// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package utilds

import "sync"

// SyncCache computes a value on first use and hands out the same result (value and error) afterwards.
type SyncCache[T any] struct {
	lock      sync.Mutex
	computeFn func() (T, error)
	value     T
	err       error
	cached    bool
}

func MakeSyncCache[T any](computeFn func() (T, error)) *SyncCache[T] {
	return &SyncCache[T]{
		computeFn: computeFn,
	}
}

func (sc *SyncCache[T]) Get() (T, error) {
	sc.lock.Lock()
	defer sc.lock.Unlock()
	if !sc.cached {
		sc.value, sc.err = sc.computeFn()
		sc.cached = true
	}
	return sc.value, sc.err
}

// MustGet is Get for values that cannot fail once the program is correct.
func (sc *SyncCache[T]) MustGet() T {
	rtn, err := sc.Get()
	if err != nil {
		panic(err)
	}
	return rtn
}

// Invalidate drops the cached result so the next Get recomputes it.
func (sc *SyncCache[T]) Invalidate() {
	sc.lock.Lock()
	defer sc.lock.Unlock()
	var zero T
	sc.value, sc.err, sc.cached = zero, nil, false
}
