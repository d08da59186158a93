package protocol

import "sync/atomic"

// Counter issues request ids: monotonically increasing for the process
// lifetime, unique per processed message, wrapping silently on overflow.
// Ids are for client-side correlation and log tracing only and are never
// persisted. Safe under concurrent receipt even though the reply loop is
// single-goroutine today.
type Counter struct {
	n atomic.Int64
}

func (c *Counter) Next() int64 {
	return c.n.Add(1)
}
