// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package blocks

import (
	"sync"

	"github.com/outrigdev/goid"
)

// the active declaration session, per goroutine.
// set ONLY while a declaration function runs inside WithSession
var globalSessions = make(map[uint64]*Session)
var globalSessionsMutex sync.Mutex

func setGlobalSession(gid uint64, s *Session) *Session {
	globalSessionsMutex.Lock()
	defer globalSessionsMutex.Unlock()
	prev := globalSessions[gid]
	if s == nil {
		delete(globalSessions, gid)
	} else {
		globalSessions[gid] = s
	}
	return prev
}

// WithSession runs fn with s as the active session of the calling goroutine.
// Calls nest: the previously active session (if any) is restored when fn returns.
// Goroutines started by fn do not inherit s.
func WithSession(s *Session, fn func()) {
	gid := goid.Get()
	prev := setGlobalSession(gid, s)
	defer setGlobalSession(gid, prev)
	fn()
}

// GetSession returns the session active on the calling goroutine, or nil.
func GetSession() *Session {
	globalSessionsMutex.Lock()
	defer globalSessionsMutex.Unlock()
	return globalSessions[goid.Get()]
}
