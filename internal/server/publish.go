package server

import (
	"errors"
	"log/slog"
	"sync"

	"classbridge/internal/transport"
)

// OpenPublishFunc binds and returns the publish socket for one worker run.
type OpenPublishFunc func() (transport.Socket, error)

// PublishServer owns the bound publish socket. Producers call Publish,
// which enqueues onto the publish queue; the queue's consumer performs
// the actual blocking send on this server's socket.
type PublishServer struct {
	open OpenPublishFunc
	log  *slog.Logger

	mu   sync.Mutex
	sock transport.Socket

	queue *PublishQueue
	ctrl  *Controller
}

func NewPublishServer(open OpenPublishFunc) *PublishServer {
	p := &PublishServer{
		open: open,
		log:  slog.Default().With("worker", "publish"),
	}
	p.queue = NewPublishQueue(p.sendFrame)
	p.ctrl = NewController("publish", runnerFunc{run: p.runLoop, force: p.forceRelease})
	return p
}

func (p *PublishServer) Start() error { return p.ctrl.Start() }
func (p *PublishServer) Stop() error  { return p.ctrl.Stop() }

func (p *PublishServer) Dispose() {
	p.ctrl.Dispose()
	p.queue.Dispose()
}

// Publish enqueues one event name for broadcast. Fire-and-forget from the
// producer's perspective; failures surface only in logs and metrics.
func (p *PublishServer) Publish(event string) {
	p.queue.Enqueue(event)
}

// runLoop binds the socket, runs the queue worker for the duration, and
// idles until stopped: the blocking sends happen on the queue's consumer
// goroutine, not here.
func (p *PublishServer) runLoop(stop <-chan struct{}) {
	sock, err := p.open()
	if err != nil {
		p.log.Error("publish socket bind failed", "err", err)
		return
	}
	p.setSocket(sock)
	defer p.closeSocket()

	if err := p.queue.Start(); err != nil {
		p.log.Error("publish queue start failed", "err", err)
		return
	}
	<-stop
	if err := p.queue.Stop(); err != nil {
		p.log.Error("publish queue stop failed", "err", err)
	}
}

func (p *PublishServer) sendFrame(msg string) error {
	p.mu.Lock()
	sock := p.sock
	p.mu.Unlock()
	if sock == nil {
		return errors.New("server: publish socket not open")
	}
	return sock.Send(msg)
}

func (p *PublishServer) setSocket(sock transport.Socket) {
	p.mu.Lock()
	p.sock = sock
	p.mu.Unlock()
}

func (p *PublishServer) closeSocket() {
	p.mu.Lock()
	sock := p.sock
	p.sock = nil
	p.mu.Unlock()
	if sock != nil {
		if err := sock.Close(); err != nil {
			p.log.Error("publish socket close failed", "err", err)
		}
	}
}

func (p *PublishServer) forceRelease() {
	p.closeSocket()
}
