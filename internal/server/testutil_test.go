package server

import (
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"classbridge/internal/messages"
	"classbridge/internal/platform"
	"classbridge/internal/transport"
)

func TestMain(m *testing.M) {
	platform.InitMetrics()
	os.Exit(m.Run())
}

// fakeReplySocket feeds scripted inbound frames and records outbound ones.
type fakeReplySocket struct {
	inbox chan string

	failNextSend atomic.Bool

	mu     sync.Mutex
	sent   []string
	closed bool

	closedCh chan struct{}
}

func newFakeReplySocket() *fakeReplySocket {
	return &fakeReplySocket{
		inbox:    make(chan string, 16),
		closedCh: make(chan struct{}),
	}
}

func (f *fakeReplySocket) Recv() (string, error) {
	select {
	case <-f.closedCh:
		return "", transport.ErrClosed
	default:
	}
	select {
	case msg := <-f.inbox:
		return msg, nil
	case <-f.closedCh:
		return "", transport.ErrClosed
	case <-time.After(5 * time.Millisecond):
		return "", transport.ErrTimeout
	}
}

func (f *fakeReplySocket) Send(msg string) error {
	if f.failNextSend.CompareAndSwap(true, false) {
		return errors.New("send jammed")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return transport.ErrClosed
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeReplySocket) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.closed = true
		close(f.closedCh)
	}
	return nil
}

func (f *fakeReplySocket) responses() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.sent))
	copy(out, f.sent)
	return out
}

// pubRecorder aggregates frames across socket reopenings, since each
// worker run binds a fresh socket.
type pubRecorder struct {
	mu     sync.Mutex
	frames []string
}

func (r *pubRecorder) add(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, msg)
}

func (r *pubRecorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.frames))
	copy(out, r.frames)
	return out
}

// fakePubSocket records published frames.
type fakePubSocket struct {
	rec    *pubRecorder
	mu     sync.Mutex
	sent   []string
	closed bool
}

func (f *fakePubSocket) Send(msg string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return transport.ErrClosed
	}
	f.sent = append(f.sent, msg)
	if f.rec != nil {
		f.rec.add(msg)
	}
	return nil
}

func (f *fakePubSocket) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakePubSocket) frames() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.sent))
	copy(out, f.sent)
	return out
}

// Host collaborator fakes for wiring a full command table in tests.

type stubSchedule struct{ snap messages.LessonSnapshot }

func (s *stubSchedule) Snapshot() (messages.LessonSnapshot, error) { return s.snap, nil }

type stubTime struct{}

func (stubTime) Now() (time.Time, error) { return time.Now(), nil }

type stubSink struct {
	mu        sync.Mutex
	shown     []messages.NotificationRequest
	panicMode atomic.Bool
}

func (s *stubSink) Show(req messages.NotificationRequest) error {
	if s.panicMode.Load() {
		panic("sink exploded")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shown = append(s.shown, req)
	return nil
}
