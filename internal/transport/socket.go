// Package transport wraps the bridge's two bound ZeroMQ endpoints behind
// narrow interfaces, so the server workers (and their tests) never touch a
// concrete socket type.
package transport

import "errors"

var (
	// ErrTimeout reports that a timed receive expired with no frame.
	ErrTimeout = errors.New("transport: receive timed out")
	// ErrClosed reports use of a socket after Close.
	ErrClosed = errors.New("transport: socket closed")
)

// Socket is one bound endpoint. It is owned and used by exactly one worker
// goroutine; only Close may be called from another goroutine. A Close that
// lands while a Send or Recv is running takes effect as soon as that call
// returns, and every later call fails with ErrClosed.
type Socket interface {
	Send(msg string) error
	Close() error
}

// ReplySocket is the request/reply endpoint. Frames alternate strictly:
// every successful Recv must be answered with exactly one Send before the
// next Recv.
type ReplySocket interface {
	Socket
	// Recv blocks up to the socket's configured receive timeout and
	// returns ErrTimeout if no frame arrived.
	Recv() (string, error)
}
