// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package blocks

import (
	"context"
)

type sessionContextKeyType struct{}

var sessionContextKey = sessionContextKeyType{}

// WithContext attaches s to ctx for code that threads a context.Context
// explicitly instead of relying on the goroutine-scoped active session.
func WithContext(ctx context.Context, s *Session) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, sessionContextKey, s)
}

// FromContext returns the session attached to ctx, falling back to the
// goroutine's active session.
func FromContext(ctx context.Context) *Session {
	if ctx != nil {
		if v := ctx.Value(sessionContextKey); v != nil {
			return v.(*Session)
		}
	}
	return GetSession()
}
