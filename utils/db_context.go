package utils

import (
	"context"
	"time"
)

// DefaultQueryTimeout bounds ordinary database queries.
const DefaultQueryTimeout = 30 * time.Second

// FastQueryTimeout is for simple lookups that should return quickly.
const FastQueryTimeout = 10 * time.Second

// GetQueryContext returns a context with the given timeout for database
// queries. A nil parent falls back to context.Background().
func GetQueryContext(parentCtx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	return context.WithTimeout(parentCtx, timeout)
}

// GetDefaultQueryContext returns a context with the default timeout.
func GetDefaultQueryContext(parentCtx context.Context) (context.Context, context.CancelFunc) {
	return GetQueryContext(parentCtx, DefaultQueryTimeout)
}

// GetFastQueryContext returns a context with the fast query timeout.
func GetFastQueryContext(parentCtx context.Context) (context.Context, context.CancelFunc) {
	return GetQueryContext(parentCtx, FastQueryTimeout)
}
