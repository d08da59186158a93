// Package server implements the messaging bridge runtime: the lifecycle
// state machine guarding each socket-bound worker, the asynchronous
// publish queue, the request/reply loop, and the bridge composition that
// ties them to the host collaborators.
package server

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// State is a worker controller's lifecycle state.
type State int32

const (
	StateStopped State = iota
	StateStarting
	StateRunning
	StateStopping
	StateDisposed
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateDisposed:
		return "disposed"
	default:
		return "invalid"
	}
}

var (
	// ErrDisposed reports an operation on a disposed controller.
	ErrDisposed = errors.New("server: controller disposed")
	// ErrStartTimeout reports that a previous worker was still alive
	// after the start grace period.
	ErrStartTimeout = errors.New("server: previous worker has not exited")
)

// Grace periods for the stop/start handshake. Stop's worst case is the
// sum of stopGrace, joinGrace and the forced release; Start additionally
// waits startGrace for a straggler from a previous run.
const (
	startGrace = 3 * time.Second
	stopGrace  = 2 * time.Second
	joinGrace  = 5 * time.Second
)

// Runner is the body of one worker goroutine.
type Runner interface {
	// Run loops until stop is closed, exclusively owning its socket for
	// the duration.
	Run(stop <-chan struct{})
	// ForceRelease disposes the runner's blocking resource so a Run
	// wedged inside a blocking call exits eventually. Called from the
	// controller's goroutine, never the worker's.
	ForceRelease()
}

// runnerFunc adapts plain functions to Runner.
type runnerFunc struct {
	run   func(stop <-chan struct{})
	force func()
}

func (r runnerFunc) Run(stop <-chan struct{}) { r.run(stop) }
func (r runnerFunc) ForceRelease() {
	if r.force != nil {
		r.force()
	}
}

// Controller is the start/stop/dispose state machine for one worker
// goroutine. At most one live worker exists per controller at any time;
// all transitions are serialized through mu, and the disposed flag has
// its own lock so Dispose never races an in-flight bounded wait.
type Controller struct {
	name string
	run  Runner
	log  *slog.Logger

	startGrace time.Duration
	stopGrace  time.Duration
	joinGrace  time.Duration

	mu     sync.Mutex
	state  State
	stop   chan struct{}
	exited chan struct{}

	dmu      sync.Mutex
	disposed bool
}

func NewController(name string, run Runner) *Controller {
	return &Controller{
		name:       name,
		run:        run,
		log:        slog.Default().With("worker", name),
		startGrace: startGrace,
		stopGrace:  stopGrace,
		joinGrace:  joinGrace,
	}
}

// State returns the controller's current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Start spawns the worker goroutine. Idempotent while running. If a
// previous worker is still winding down it waits up to the start grace
// period for that worker's exit signal; on timeout it aborts rather than
// let two goroutines own the same socket.
func (c *Controller) Start() error {
	if c.isDisposed() {
		return ErrDisposed
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateDisposed {
		return ErrDisposed
	}
	if c.state == StateRunning {
		return nil
	}
	if c.exited != nil {
		select {
		case <-c.exited:
		case <-time.After(c.startGrace):
			return fmt.Errorf("%s: %w", c.name, ErrStartTimeout)
		}
	}

	c.state = StateStarting
	c.stop = make(chan struct{})
	c.exited = make(chan struct{})
	stop, exited := c.stop, c.exited
	go func() {
		defer close(exited)
		c.run.Run(stop)
	}()
	c.state = StateRunning
	c.log.Info("worker started")
	return nil
}

// Stop signals the worker to exit after its current iteration and waits,
// bounded: first the stop grace period, then a longer join wait, and as a
// last resort it force-releases the worker's blocking resource. Stop
// returns only once the worker has exited or been forcibly unblocked.
func (c *Controller) Stop() error {
	if c.isDisposed() {
		return ErrDisposed
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateDisposed {
		return ErrDisposed
	}
	c.stopLocked()
	return nil
}

func (c *Controller) stopLocked() {
	if c.state != StateRunning || c.stop == nil {
		return
	}
	c.state = StateStopping
	close(c.stop)
	c.stop = nil

	select {
	case <-c.exited:
		c.state = StateStopped
		c.log.Info("worker stopped")
		return
	case <-time.After(c.stopGrace):
	}
	c.log.Warn("worker slow to stop, joining")

	select {
	case <-c.exited:
		c.state = StateStopped
		c.log.Info("worker stopped after extended join")
		return
	case <-time.After(c.joinGrace):
	}

	c.log.Warn("worker stuck in blocking call, forcing resource release")
	c.run.ForceRelease()
	c.state = StateStopped
}

// Dispose stops the worker if needed and marks the controller permanently
// disposed. Idempotent and safe from multiple goroutines; every operation
// afterwards fails with ErrDisposed.
func (c *Controller) Dispose() {
	c.dmu.Lock()
	if c.disposed {
		c.dmu.Unlock()
		return
	}
	c.disposed = true
	c.dmu.Unlock()

	c.mu.Lock()
	c.stopLocked()
	c.state = StateDisposed
	c.mu.Unlock()
	c.log.Info("controller disposed")
}

func (c *Controller) isDisposed() bool {
	c.dmu.Lock()
	defer c.dmu.Unlock()
	return c.disposed
}
