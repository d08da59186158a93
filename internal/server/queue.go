package server

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"classbridge/internal/platform"
)

const (
	// queueIdleSleep is how long the consumer naps on an empty queue
	// instead of busy-spinning.
	queueIdleSleep = 10 * time.Millisecond
	// queueErrorBackoff is the pause after an unexpected loop-level
	// failure, keeping a hot error loop from saturating a core.
	queueErrorBackoff = 100 * time.Millisecond
)

// SendFunc performs the blocking socket write for one event payload.
type SendFunc func(msg string) error

// PublishQueue is an unbounded FIFO of pending outgoing event strings
// plus one consumer goroutine that drains it through a send delegate.
// Producers never block; delivery is in enqueue order, at most once each
// (a failed send is logged, not retried).
type PublishQueue struct {
	send SendFunc
	log  *slog.Logger

	mu       sync.Mutex
	items    []string
	disposed bool

	ctrl *Controller
}

func NewPublishQueue(send SendFunc) *PublishQueue {
	q := &PublishQueue{
		send: send,
		log:  slog.Default().With("worker", "publish-queue"),
	}
	q.ctrl = NewController("publish-queue", runnerFunc{run: q.consume})
	return q
}

func (q *PublishQueue) Start() error { return q.ctrl.Start() }
func (q *PublishQueue) Stop() error  { return q.ctrl.Stop() }

func (q *PublishQueue) Dispose() {
	q.mu.Lock()
	q.disposed = true
	q.mu.Unlock()
	q.ctrl.Dispose()
}

// Enqueue appends one event payload. Fire-and-forget: it never blocks and
// never fails; after dispose the payload is dropped and logged.
func (q *PublishQueue) Enqueue(msg string) {
	q.mu.Lock()
	if q.disposed {
		q.mu.Unlock()
		q.log.Warn("enqueue after dispose, dropping event", "event", msg)
		return
	}
	q.items = append(q.items, msg)
	depth := len(q.items)
	q.mu.Unlock()
	platform.PublishQueueDepth.Set(float64(depth))
}

func (q *PublishQueue) dequeue() (string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return "", false
	}
	msg := q.items[0]
	q.items = q.items[1:]
	platform.PublishQueueDepth.Set(float64(len(q.items)))
	return msg, true
}

// consume is the queue worker loop. One failed send never stops
// subsequent sends; a panic anywhere in the cycle backs the loop off
// before resuming. On stop, items already buffered are flushed.
func (q *PublishQueue) consume(stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			q.flush()
			return
		default:
		}
		if err := q.cycle(); err != nil {
			q.log.Error("publish loop failure, backing off", "err", err)
			time.Sleep(queueErrorBackoff)
		}
	}
}

func (q *PublishQueue) cycle() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("publish loop panic: %v", r)
		}
	}()
	msg, ok := q.dequeue()
	if !ok {
		time.Sleep(queueIdleSleep)
		return nil
	}
	q.deliver(msg)
	return nil
}

func (q *PublishQueue) deliver(msg string) {
	if err := q.send(msg); err != nil {
		q.log.Error("publish send failed", "event", msg, "err", err)
		platform.PublishErrorsTotal.Inc()
		return
	}
	platform.PublishedTotal.Inc()
}

func (q *PublishQueue) flush() {
	for {
		msg, ok := q.dequeue()
		if !ok {
			return
		}
		q.deliver(msg)
	}
}
